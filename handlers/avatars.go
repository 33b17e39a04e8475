package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/devconnect/profile-service/pkg/apperror"
	"github.com/devconnect/profile-service/pkg/middleware"
	"github.com/gin-gonic/gin"
)

const (
	maxAvatarBytes = 2 << 20
	avatarURLTTL   = 15 * time.Minute
)

var avatarTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// AvatarStorage is implemented by storage.AvatarStore.
type AvatarStorage interface {
	Put(ctx context.Context, sub string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, sub string, expires time.Duration) (string, error)
}

type AvatarUsers interface {
	SetAvatar(ctx context.Context, sub, avatar string) error
}

type AvatarHandler struct {
	store AvatarStorage
	users AvatarUsers
}

func NewAvatarHandler(store AvatarStorage, users AvatarUsers) *AvatarHandler {
	return &AvatarHandler{store: store, users: users}
}

// Register mounts the avatar routes; private runs before the upload.
func (h *AvatarHandler) Register(r gin.IRouter, private ...gin.HandlerFunc) {
	r.PUT("/users/me/avatar", chain(private, h.Upload)...)
	r.GET("/users/:sub/avatar", h.Redirect)
}

// AvatarPath is the public URL stored as a user's avatar after an upload.
func AvatarPath(sub string) string {
	return "/users/" + sub + "/avatar"
}

// Upload stores the multipart "avatar" file for the caller.
func (h *AvatarHandler) Upload(c *gin.Context) {
	sub := middleware.UserID(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes+(64<<10))

	fh, err := c.FormFile("avatar")
	if err != nil {
		_ = c.Error(apperror.NewValidation(map[string]string{"avatar": "avatar file is required (max 2MB)"}))
		return
	}
	if fh.Size > maxAvatarBytes {
		_ = c.Error(apperror.NewValidation(map[string]string{"avatar": "avatar must not exceed 2MB"}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		_ = c.Error(apperror.NewInvalidInput("unreadable upload", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxAvatarBytes+1))
	if err != nil {
		_ = c.Error(apperror.NewInvalidInput("unreadable upload", err))
		return
	}
	contentType := http.DetectContentType(data)
	if !avatarTypes[contentType] {
		_ = c.Error(apperror.NewValidation(map[string]string{"avatar": "avatar must be a png, jpeg, gif or webp image"}))
		return
	}

	ctx := c.Request.Context()
	if err := h.store.Put(ctx, sub, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		_ = c.Error(apperror.NewUnavailable("avatar storage unavailable", err))
		return
	}
	avatar := AvatarPath(sub)
	if err := h.users.SetAvatar(ctx, sub, avatar); err != nil {
		_ = c.Error(wrapInternal("avatar update failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": avatar})
}

// Redirect sends the client to a short-lived presigned URL.
func (h *AvatarHandler) Redirect(c *gin.Context) {
	u, err := h.store.PresignedURL(c.Request.Context(), c.Param("sub"), avatarURLTTL)
	if err != nil {
		_ = c.Error(apperror.NewUnavailable("avatar storage unavailable", err))
		return
	}
	c.Redirect(http.StatusFound, u)
}
