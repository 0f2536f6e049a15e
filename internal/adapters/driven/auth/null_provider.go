package auth

import (
	"context"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
)

// Ensure NullTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*NullTokenProvider)(nil)

// NullTokenProvider is used when no token is configured and none can be
// prompted for. Every request fails with domain.ErrAuthRequired.
type NullTokenProvider struct{}

// NewNullTokenProvider creates a token provider without credentials.
func NewNullTokenProvider() *NullTokenProvider {
	return &NullTokenProvider{}
}

// GetToken always returns domain.ErrAuthRequired.
func (p *NullTokenProvider) GetToken(_ context.Context) (string, error) {
	return "", domain.ErrAuthRequired
}

// IsAuthenticated always returns false.
func (p *NullTokenProvider) IsAuthenticated() bool {
	return false
}
