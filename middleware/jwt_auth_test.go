package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"econdash_backend/config"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
}

func protectedRouter() *gin.Engine {
	router := gin.New()
	router.GET("/protected", JWTAuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("admin_username")})
	})
	return router
}

func getWithAuth(router *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	token, err := IssueAdminToken("admin")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	w := getWithAuth(protectedRouter(), "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	router := protectedRouter()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc123"},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := getWithAuth(router, tc.header); w.Code != http.StatusUnauthorized {
				t.Fatalf("want 401, got %d", w.Code)
			}
		})
	}
}

func TestJWTAuthMiddleware_WrongSecret(t *testing.T) {
	token, err := IssueAdminToken("admin")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	original := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = "rotated"
	defer func() { config.AppConfig.JWTSecret = original }()

	if w := getWithAuth(protectedRouter(), "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401 after secret rotation, got %d", w.Code)
	}
}
