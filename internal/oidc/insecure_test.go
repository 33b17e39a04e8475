package oidc

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestInsecureVerifierReadsClaims(t *testing.T) {
	// signed with a key the verifier never sees
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "kc-user", "name": "Kay", "exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("unknown"))
	require.NoError(t, err)

	tok, err := NewInsecureVerifier().Verify(context.Background(), raw)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "kc-user", claims["sub"])
	require.Equal(t, "Kay", claims["name"])
}

func TestInsecureVerifierRejectsGarbage(t *testing.T) {
	v := NewInsecureVerifier()
	_, err := v.Verify(context.Background(), "not-a-token")
	require.Error(t, err)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"name": "anon"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestNewVerifierDiscoveryFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewVerifier(ctx, "http://127.0.0.1:1/realms/none", "profiles")
	require.Error(t, err)
}
