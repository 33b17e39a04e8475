package tokens

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/devconnect/profile-service/internal/config"
	"github.com/devconnect/profile-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	return cfg
}

func TestGenerateAccessToken_ValidAndClaims(t *testing.T) {
	cfg := testConfig("test-secret-32-bytes-should-be-long-enough")
	u := &models.User{Sub: "user-123", Name: "Test User", Email: "test@example.com"}
	tokenStr, err := GenerateAccessToken(cfg, u, 2*time.Minute)
	require.NoError(t, err)

	tok, err := NewHMACVerifier(cfg.JWT.Secret).Verify(context.Background(), tokenStr)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, u.Sub, claims["sub"])
	require.Equal(t, "Test User", claims["name"])

	exp, ok := ExpiresAt(claims)
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(2*time.Minute), exp, 5*time.Second)
}

func TestGenerateAccessToken_NoSecret(t *testing.T) {
	_, err := GenerateAccessToken(testConfig(""), &models.User{Sub: "u"}, time.Minute)
	require.ErrorIs(t, err, ErrNoSecret)
}

func TestVerify_Expired(t *testing.T) {
	cfg := testConfig("another-secret-32-bytes-longgggg")
	tokenStr, err := GenerateAccessToken(cfg, &models.User{Sub: "u2"}, -time.Minute)
	require.NoError(t, err)
	_, err = NewHMACVerifier(cfg.JWT.Secret).Verify(context.Background(), tokenStr)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_WrongSecretFails(t *testing.T) {
	cfg := testConfig("secret-one-32-bytes-xxxxxxxxxxxxxxxx")
	tokenStr, err := GenerateAccessToken(cfg, &models.User{Sub: "u3"}, 2*time.Minute)
	require.NoError(t, err)
	_, err = NewHMACVerifier("different-secret-xxxxxxxxxxxxxxxx").Verify(context.Background(), tokenStr)
	require.Error(t, err)
}

func TestVerify_Malformed(t *testing.T) {
	_, err := NewHMACVerifier("x").Verify(context.Background(), "not.a.jwt")
	require.Error(t, err)
}

// Rejected when alg=none (unsigned token)
func TestVerify_AlgNoneRejected(t *testing.T) {
	headerEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payloadEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-none","exp":9999999999}`))
	_, err := NewHMACVerifier("x").Verify(context.Background(), headerEnc+"."+payloadEnc+".")
	require.Error(t, err)
}

func TestVerify_MissingExpRejected(t *testing.T) {
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "forever"})
	s, err := jt.SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = NewHMACVerifier("k").Verify(context.Background(), s)
	require.Error(t, err)
}

// Tampering with payload must fail signature verification
func TestVerify_TamperedPayload(t *testing.T) {
	cfg := testConfig("tamper-test-secret-32-bytes-xxxxxxx")
	tokenStr, err := GenerateAccessToken(cfg, &models.User{Sub: "user-t"}, 5*time.Minute)
	require.NoError(t, err)

	parts := strings.Split(tokenStr, ".")
	require.Len(t, parts, 3)
	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(strings.Replace(string(payloadBytes), "user-t", "attacker", 1)))
	_, err = NewHMACVerifier(cfg.JWT.Secret).Verify(context.Background(), strings.Join(parts, "."))
	require.Error(t, err)
}

func TestExpiresAtMissing(t *testing.T) {
	_, ok := ExpiresAt(map[string]interface{}{"sub": "x"})
	require.False(t, ok)
}
