package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/devconnect/profile-service/internal/models"
	"github.com/devconnect/profile-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ClaimsKey = "claims"
	UserIDKey = "userID"
	TokenKey  = "accessToken"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// Blacklist reports revoked access tokens.
type Blacklist interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using the
// provided verifier. bl may be nil when revocation is not configured.
func AuthMiddleware(ver Verifier, bl Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		token, ok := bearer(auth)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		if bl != nil {
			revoked, err := bl.IsRevoked(c.Request.Context(), token)
			if err != nil {
				logger.Errorf("token blacklist check failed: %v", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "token check unavailable"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
				return
			}
		}

		idToken, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Debugf("token rejected: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var claims map[string]interface{}
		if err := idToken.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "failed to parse claims"})
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has no subject"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, sub)
		c.Set(TokenKey, token)
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID returns the authenticated subject, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// Claims returns the verified token claims, or nil on public routes.
func Claims(c *gin.Context) map[string]interface{} {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(map[string]interface{})
	return claims
}

// AccessToken returns the raw bearer token accepted by AuthMiddleware.
func AccessToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}

// UserSyncer keeps the users collection in step with verified claims.
type UserSyncer interface {
	UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error)
}

// Identity upserts the caller's user record so profile owners can be
// resolved. Failures are logged and the request continues.
func Identity(users UserSyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := Claims(c); claims != nil {
			if _, err := users.UpsertFromClaims(c.Request.Context(), claims); err != nil {
				logger.Warnf("user sync for %s failed: %v", UserID(c), err)
			}
		}
		c.Next()
	}
}
