package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/config"
	"nanitech-backend/internal/models"
)

const ProfileKey = "user_profile"

// ProfileLoader resolves a validated token subject to its
// role-bearing profile row.
type ProfileLoader interface {
	GetProfileByUserID(userID uuid.UUID) (*models.UserProfile, error)
}

// AuthMiddleware is the identity resolver: it extracts the bearer
// token, validates it against the Supabase JWT secret (HS256) and
// loads the caller's profile. Any failure maps to a 401 envelope.
func AuthMiddleware(cfg *config.Config, profiles ProfileLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := resolveIdentity(c, cfg, profiles)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ProfileKey, profile)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves an identity when a bearer token is
// present but lets anonymous requests through. Used on the public
// settings read path, where admins see more than anonymous callers.
func OptionalAuthMiddleware(cfg *config.Config, profiles ProfileLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		profile, err := resolveIdentity(c, cfg, profiles)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ProfileKey, profile)
		c.Next()
	}
}

func resolveIdentity(c *gin.Context, cfg *config.Config, profiles ProfileLoader) (*models.UserProfile, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, apperrors.Authentication("missing authorization header")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, apperrors.Authentication("invalid authorization header format")
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, apperrors.Authentication("empty token")
	}

	if len(strings.Split(tokenString, ".")) != 3 {
		return nil, apperrors.Authentication("invalid token format")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Supabase signs access tokens with HS256 and the project
		// JWT secret.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		if cfg.SupabaseJWTSecret == "" {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.SupabaseJWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Authentication("token has expired")
		}
		return nil, apperrors.Authentication("invalid token")
	}

	if !token.Valid {
		return nil, apperrors.Authentication("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.Authentication("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, apperrors.Authentication("missing user id in token")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, apperrors.Authentication("invalid user id in token")
	}

	profile, err := profiles.GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}

	if !profile.IsActive {
		return nil, apperrors.Authentication("profile is deactivated")
	}

	return profile, nil
}

// CurrentProfile returns the resolved identity, or nil for anonymous
// requests on optional-auth routes.
func CurrentProfile(c *gin.Context) *models.UserProfile {
	value, exists := c.Get(ProfileKey)
	if !exists {
		return nil
	}
	profile, ok := value.(*models.UserProfile)
	if !ok {
		return nil
	}
	return profile
}

func abortWithError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.AbortWithStatusJSON(appErr.StatusCode, models.ErrorEnvelope{
		Error: models.ErrorDetail{
			Message:    appErr.Message,
			Code:       appErr.Code,
			StatusCode: appErr.StatusCode,
			RequestID:  GetRequestID(c),
			Timestamp:  time.Now().UTC(),
		},
		Success: false,
	})
}
