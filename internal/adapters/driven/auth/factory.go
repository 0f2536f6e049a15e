package auth

import (
	"strings"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
)

// Factory creates the TokenProvider for the configured account.
type Factory struct {
	prompt PromptFunc
}

// NewFactory creates a token provider factory. prompt may be nil when
// interactive input is unavailable.
func NewFactory(prompt PromptFunc) *Factory {
	return &Factory{prompt: prompt}
}

// CreateTokenProvider returns a PATProvider when settings carry a token,
// a PromptProvider when a prompt is available, and NullTokenProvider otherwise.
func (f *Factory) CreateTokenProvider(settings domain.GitHubSettings) driven.TokenProvider {
	if strings.TrimSpace(settings.Token) != "" {
		return NewPATProvider(settings.Token)
	}
	if f.prompt != nil {
		return NewPromptProvider(f.prompt)
	}
	return NewNullTokenProvider()
}
