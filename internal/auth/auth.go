// internal/auth/auth.go
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrConsentRequired signals that the identity provider needs an interactive
// consent prompt before it will mint another token. Callers handle it by
// forcing a re-login with consent.
var ErrConsentRequired = errors.New("consent required")

// TokenProvider hands out access tokens for outbound API calls. Implementations
// wrap whatever session plugin the host application uses.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// TokenProviderFunc adapts a function to the TokenProvider interface.
type TokenProviderFunc func(ctx context.Context) (string, error)

func (f TokenProviderFunc) AccessToken(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticProvider returns a fixed token. An empty token means requests go out
// unauthenticated.
type StaticProvider struct {
	Token string
}

func (p StaticProvider) AccessToken(context.Context) (string, error) {
	return p.Token, nil
}

// IsConsentRequired reports whether err is (or wraps) a consent-required
// failure from the identity provider.
func IsConsentRequired(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConsentRequired) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "consent_required")
}
