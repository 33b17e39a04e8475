package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/devconnect/profile-service/internal/models"
	"github.com/devconnect/profile-service/internal/sessions"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// fakeToken implements Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier implements Verifier
type fakeVerifier struct{}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	switch raw {
	case "goodtoken", "black-token":
		return &fakeToken{data: map[string]interface{}{"sub": "user1", "email": "test@example.com"}}, nil
	case "nosub":
		return &fakeToken{data: map[string]interface{}{"email": "test@example.com"}}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

type errBlacklist struct{}

func (errBlacklist) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func serveAuth(t *testing.T, bl Blacklist, header string) *httptest.ResponseRecorder {
	t.Helper()
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}, bl), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"claims": Claims(c), "userID": UserID(c), "token": AccessToken(c)})
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serveAuth(t, nil, "").Code)
}

func TestAuthMiddleware_InvalidHeader(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serveAuth(t, nil, "BadHeader").Code)
	require.Equal(t, http.StatusUnauthorized, serveAuth(t, nil, "Basic abc").Code)
	require.Equal(t, http.StatusUnauthorized, serveAuth(t, nil, "Bearer ").Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rw := serveAuth(t, nil, "Bearer nope")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.JSONEq(t, `{"error":"invalid token"}`, rw.Body.String())
}

func TestAuthMiddleware_RequiresSubject(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serveAuth(t, nil, "Bearer nosub").Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rw := serveAuth(t, nil, "Bearer goodtoken")
	require.Equal(t, http.StatusOK, rw.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Contains(t, got, "claims")
	require.Equal(t, "user1", got["userID"])
	require.Equal(t, "goodtoken", got["token"])
}

func TestAuthMiddleware_RejectsBlacklistedToken(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	bl := sessions.NewBlacklist(redis.NewClient(&redis.Options{Addr: m.Addr()}))

	token := "black-token"
	require.NoError(t, bl.Revoke(context.Background(), token, time.Now().Add(5*time.Second)))

	require.Equal(t, http.StatusUnauthorized, serveAuth(t, bl, "Bearer "+token).Code)
	require.Equal(t, http.StatusOK, serveAuth(t, bl, "Bearer goodtoken").Code)
}

func TestAuthMiddleware_BlacklistErrorFailsClosed(t *testing.T) {
	require.Equal(t, http.StatusServiceUnavailable, serveAuth(t, errBlacklist{}, "Bearer goodtoken").Code)
}

type recordingSyncer struct {
	subs []string
	err  error
}

func (r *recordingSyncer) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	r.subs = append(r.subs, sub)
	return &models.User{Sub: sub}, r.err
}

func TestIdentityUpsertsCaller(t *testing.T) {
	syncer := &recordingSyncer{err: errors.New("mongo down")}
	g := gin.New()
	g.GET("/private", AuthMiddleware(&fakeVerifier{}, nil), Identity(syncer), func(c *gin.Context) { c.Status(http.StatusOK) })
	g.GET("/public", Identity(syncer), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer goodtoken")
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	require.Equal(t, http.StatusOK, rw.Code, "sync failures do not block the request")

	rw = httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/public", nil))
	require.Equal(t, http.StatusOK, rw.Code)
	require.Equal(t, []string{"user1"}, syncer.subs)
}
