package controllers

import (
	"net/http"
	"time"

	"econdash_backend/middleware"
	"econdash_backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoginRequest is the admin login body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthController handles admin authentication
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an auth controller
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Login authenticates an admin and issues a bearer token
// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	var admin models.AdminUser
	err := ac.db.Where("username = ? AND is_active = ?", req.Username, true).First(&admin).Error
	if err != nil || !admin.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := middleware.IssueAdminToken(admin.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	now := time.Now()
	ac.db.Model(&admin).Update("last_login_at", now)

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"username":   admin.Username,
		"expires_in": int(middleware.TokenLifetime.Seconds()),
	})
}
