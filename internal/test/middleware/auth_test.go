package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/config"
	"nanitech-backend/internal/middleware"
	"nanitech-backend/internal/models"
)

type stubProfileLoader struct {
	profiles map[uuid.UUID]*models.UserProfile
}

func (s *stubProfileLoader) GetProfileByUserID(userID uuid.UUID) (*models.UserProfile, error) {
	if profile, ok := s.profiles[userID]; ok {
		return profile, nil
	}
	return nil, apperrors.Authentication("no profile exists for this user")
}

func newAuthRouter(cfg *config.Config, loader middleware.ProfileLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.AuthMiddleware(cfg, loader))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func signToken(t *testing.T, secret string, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	tokenString, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return tokenString
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	cfg := &config.Config{SupabaseJWTSecret: "test-secret"}
	router := newAuthRouter(cfg, &stubProfileLoader{})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHENTICATION_ERROR")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	cfg := &config.Config{SupabaseJWTSecret: "test-secret"}
	router := newAuthRouter(cfg, &stubProfileLoader{})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	cfg := &config.Config{SupabaseJWTSecret: "right-secret-key-long-enough-for-hs256"}
	router := newAuthRouter(cfg, &stubProfileLoader{})

	userID := uuid.New()
	tokenString := signToken(t, "wrong-secret", userID.String())

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	cfg := &config.Config{SupabaseJWTSecret: "test-secret-key-for-jwt-signing-must-be-long-enough"}
	userID := uuid.New()
	loader := &stubProfileLoader{profiles: map[uuid.UUID]*models.UserProfile{
		userID: {ID: userID, Role: "editor", IsActive: true},
	}}
	router := newAuthRouter(cfg, loader)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(cfg.SupabaseJWTSecret))
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token has expired")
}

func TestAuthMiddleware_NoProfile(t *testing.T) {
	cfg := &config.Config{SupabaseJWTSecret: "test-secret-key-for-jwt-signing-must-be-long-enough"}
	router := newAuthRouter(cfg, &stubProfileLoader{})

	userID := uuid.New()
	tokenString := signToken(t, cfg.SupabaseJWTSecret, userID.String())

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no profile exists")
}

func TestAuthMiddleware_DeactivatedProfile(t *testing.T) {
	cfg := &config.Config{SupabaseJWTSecret: "test-secret-key-for-jwt-signing-must-be-long-enough"}
	userID := uuid.New()
	loader := &stubProfileLoader{profiles: map[uuid.UUID]*models.UserProfile{
		userID: {ID: userID, Role: "editor", IsActive: false},
	}}
	router := newAuthRouter(cfg, loader)

	tokenString := signToken(t, cfg.SupabaseJWTSecret, userID.String())

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "deactivated")
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := &config.Config{SupabaseJWTSecret: "test-secret-key-for-jwt-signing-must-be-long-enough"}
	userID := uuid.New()
	loader := &stubProfileLoader{profiles: map[uuid.UUID]*models.UserProfile{
		userID: {ID: userID, Role: "editor", IsActive: true},
	}}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.AuthMiddleware(cfg, loader))
	router.GET("/test", func(c *gin.Context) {
		profile := middleware.CurrentProfile(c)
		assert.NotNil(t, profile)
		assert.Equal(t, userID, profile.ID)
		assert.Equal(t, "editor", profile.Role)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tokenString := signToken(t, cfg.SupabaseJWTSecret, userID.String())

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthMiddleware_Anonymous(t *testing.T) {
	cfg := &config.Config{SupabaseJWTSecret: "test-secret"}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.OptionalAuthMiddleware(cfg, &stubProfileLoader{}))
	router.GET("/test", func(c *gin.Context) {
		assert.Nil(t, middleware.CurrentProfile(c))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
