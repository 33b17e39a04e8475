package oidc

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/devconnect/profile-service/pkg/middleware"
)

// Verifier checks Keycloak-issued tokens against the realm's published keys.
type Verifier struct {
	issuer   string
	verifier *oidc.IDTokenVerifier
}

// NewVerifier discovers the provider at issuer. The discovery request uses ctx;
// key refreshes later happen in the background.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	cfg := &oidc.Config{ClientID: clientID}
	if clientID == "" {
		// access tokens carry the account audience rather than the client id
		cfg.SkipClientIDCheck = true
	}
	return &Verifier{issuer: issuer, verifier: provider.Verifier(cfg)}, nil
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}

func (v *Verifier) Issuer() string { return v.issuer }
