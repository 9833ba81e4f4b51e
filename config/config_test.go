package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("want default port 8080, got %s", cfg.Port)
	}
	if cfg.StockTicker != "NVDA" {
		t.Errorf("want default ticker NVDA, got %s", cfg.StockTicker)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("want default timeout 30s, got %s", cfg.RequestTimeout)
	}
	if cfg.UpdateScheduleHour != 9 || cfg.UpdateScheduleMinute != 0 {
		t.Errorf("want default schedule 9:00, got %d:%02d", cfg.UpdateScheduleHour, cfg.UpdateScheduleMinute)
	}
	if cfg.UpdateScheduleTimezone != "America/New_York" {
		t.Errorf("want default timezone America/New_York, got %s", cfg.UpdateScheduleTimezone)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STOCK_TICKER", "AMD")
	t.Setenv("UPDATE_SCHEDULE_HOUR", "6")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("want port 9090, got %s", cfg.Port)
	}
	if cfg.StockTicker != "AMD" {
		t.Errorf("want ticker AMD, got %s", cfg.StockTicker)
	}
	if cfg.UpdateScheduleHour != 6 {
		t.Errorf("want schedule hour 6, got %d", cfg.UpdateScheduleHour)
	}
	// Unparsable integers fall back to the default
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("want fallback timeout 30s, got %s", cfg.RequestTimeout)
	}
}

func TestMaskHost(t *testing.T) {
	cases := []struct {
		host string
		want string
	}{
		{"db", "***"},
		{"localhost", "loc***"},
		{"db.internal.example.com", "db.inter***xample.com"},
	}

	for _, tc := range cases {
		if got := maskHost(tc.host); got != tc.want {
			t.Errorf("maskHost(%q): want %q, got %q", tc.host, tc.want, got)
		}
	}
}
