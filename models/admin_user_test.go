package models

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := MigrateAdminModels(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestAdminUserPassword(t *testing.T) {
	user := &AdminUser{Username: "admin"}
	if err := user.SetPassword("s3cret"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if user.PasswordHash == "s3cret" {
		t.Fatal("password stored in plain text")
	}
	if !user.CheckPassword("s3cret") {
		t.Fatal("correct password rejected")
	}
	if user.CheckPassword("wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestSeedAdminUser(t *testing.T) {
	db := openTestDB(t)

	if err := SeedAdminUser(db, "admin", "changeme"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var user AdminUser
	if err := db.Where("username = ?", "admin").First(&user).Error; err != nil {
		t.Fatalf("seeded user not found: %v", err)
	}
	if !user.IsActive {
		t.Fatal("seeded user should be active")
	}

	// Seeding again is a no-op
	if err := SeedAdminUser(db, "other", "changeme"); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	var count int64
	db.Model(&AdminUser{}).Count(&count)
	if count != 1 {
		t.Fatalf("want 1 admin user, got %d", count)
	}
}

func TestSeedAdminUser_RequiresPassword(t *testing.T) {
	db := openTestDB(t)

	if err := SeedAdminUser(db, "admin", ""); err == nil {
		t.Fatal("want error when no password is configured")
	}

	var count int64
	db.Model(&AdminUser{}).Count(&count)
	if count != 0 {
		t.Fatalf("want no users, got %d", count)
	}
}
