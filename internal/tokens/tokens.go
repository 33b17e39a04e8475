package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/devconnect/profile-service/internal/config"
	"github.com/devconnect/profile-service/internal/models"
	"github.com/devconnect/profile-service/pkg/middleware"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSecret = errors.New("JWT secret not configured")

// GenerateAccessToken creates a signed HS256 access token for the user
func GenerateAccessToken(cfg *config.Config, u *models.User, ttl time.Duration) (string, error) {
	if cfg.JWT.Secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.Sub,
		"name":  u.Name,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	if u.Avatar != "" {
		claims["picture"] = u.Avatar
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// HMACVerifier verifies tokens minted by GenerateAccessToken.
type HMACVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (v *HMACVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	if _, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}); err != nil {
		return nil, err
	}
	return MapToken(claims), nil
}

// MapToken exposes a claims map through middleware.Token.
type MapToken map[string]interface{}

func (t MapToken) Claims(v interface{}) error {
	b, err := json.Marshal(map[string]interface{}(t))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// ExpiresAt reads the exp claim. ok is false when the claim is missing.
func ExpiresAt(claims map[string]interface{}) (time.Time, bool) {
	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0), true
	case int64:
		return time.Unix(exp, 0), true
	case json.Number:
		n, err := exp.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(n, 0), true
	}
	return time.Time{}, false
}
