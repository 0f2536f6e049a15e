package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/repostat/internal/core/domain"
	"github.com/custodia-labs/repostat/internal/core/ports/driven"
)

// Ensure PromptProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*PromptProvider)(nil)

// PromptFunc asks the user for a token.
type PromptFunc func(ctx context.Context) (string, error)

// PromptProvider asks for a token on first use and remembers the answer
// for the rest of the process.
type PromptProvider struct {
	prompt PromptFunc

	once  sync.Once
	token string
	err   error
}

// NewPromptProvider creates a token provider backed by prompt.
func NewPromptProvider(prompt PromptFunc) *PromptProvider {
	return &PromptProvider{prompt: prompt}
}

// GetToken prompts once and returns the entered token.
func (p *PromptProvider) GetToken(ctx context.Context) (string, error) {
	p.once.Do(func() {
		token, err := p.prompt(ctx)
		if err != nil {
			p.err = fmt.Errorf("read token: %w", err)
			return
		}
		p.token = strings.TrimSpace(token)
		if p.token == "" {
			p.err = domain.ErrAuthRequired
		}
	})
	return p.token, p.err
}

// IsAuthenticated reports whether a token has been entered.
// It does not trigger the prompt.
func (p *PromptProvider) IsAuthenticated() bool {
	return p.token != "" && p.err == nil
}
