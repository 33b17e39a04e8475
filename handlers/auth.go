package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/devconnect/profile-service/internal/models"
	"github.com/devconnect/profile-service/internal/tokens"
	"github.com/devconnect/profile-service/pkg/apperror"
	"github.com/devconnect/profile-service/pkg/logger"
	"github.com/devconnect/profile-service/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// UserStore is the part of the users service the auth routes need.
type UserStore interface {
	UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error)
}

// Revoker blacklists access tokens until they expire.
type Revoker interface {
	Revoke(ctx context.Context, token string, until time.Time) error
}

// AuthHandler serves logout and the caller's own user record. Token issuance
// belongs to the identity provider.
type AuthHandler struct {
	users   UserStore
	revoker Revoker
}

func NewAuthHandler(u UserStore, r Revoker) *AuthHandler {
	return &AuthHandler{users: u, revoker: r}
}

// Register mounts the routes behind private (the bearer-token gate).
func (h *AuthHandler) Register(r gin.IRouter, private ...gin.HandlerFunc) {
	r.POST("/auth/logout", chain(private, h.Logout)...)
	r.GET("/users/me", chain(private, h.Me)...)
}

// Logout blacklists the presented access token until its exp claim.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.AccessToken(c)
	until, ok := tokens.ExpiresAt(middleware.Claims(c))
	if !ok {
		// no exp: keep it blacklisted for a day
		until = time.Now().Add(24 * time.Hour)
	}
	if h.revoker != nil {
		if err := h.revoker.Revoke(c.Request.Context(), token, until); err != nil {
			_ = c.Error(apperror.NewUnavailable("failed to blacklist access token", err))
			return
		}
	}
	logger.Infof("user %s logged out", middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"msg": "logged out"})
}

// Me upserts the caller from their claims and returns the stored record.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.users.UpsertFromClaims(c.Request.Context(), middleware.Claims(c))
	if err != nil {
		_ = c.Error(wrapInternal("user upsert failed", err))
		return
	}
	if u == nil {
		_ = c.Error(apperror.NewUnauthorized("token has no subject"))
		return
	}
	c.JSON(http.StatusOK, u)
}

func chain(private []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(private)+1)
	return append(append(out, private...), h)
}

// wrapInternal keeps errors that already carry a kind.
func wrapInternal(msg string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.NewInternal(msg, err)
}
