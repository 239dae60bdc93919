// Package google verifies Google ID tokens through the OIDC discovery
// endpoint and maps them to a local identity.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/barak7821/CRM-Dashboard/internal/services"
)

const issuerURL = "https://accounts.google.com"

type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier discovers Google's OIDC configuration and builds a verifier
// bound to our client ID.
func NewVerifier(ctx context.Context, clientID string) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("google client ID not set")
	}

	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover google OIDC provider: %w", err)
	}

	return &Verifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Verify checks the raw ID token's signature, audience and expiry, and
// returns the asserted email and name.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*services.ExternalIdentity, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}
	if claims.Email == "" || !claims.EmailVerified {
		return nil, errors.New("token has no verified email")
	}

	return &services.ExternalIdentity{Email: claims.Email, Name: claims.Name}, nil
}
