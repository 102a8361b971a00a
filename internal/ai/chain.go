package ai

import (
	"context"
	"log"
	"strings"
)

// NoBackendMessage is returned when every provider in the chain fails.
const NoBackendMessage = "I can access your policy and knowledge context, but no " +
	"generation backend is currently available. Set GROQ_API_KEY (recommended) or " +
	"start Ollama to get full answers."

// Chain tries providers in order and returns the first non-empty success.
// Provider failures are soft: they are logged and the next provider is tried,
// never retried. Generate always returns text.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	filtered := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			filtered = append(filtered, p)
		}
	}
	return &Chain{providers: filtered}
}

func (c *Chain) Generate(ctx context.Context, systemPrompt, userPrompt string) string {
	for _, p := range c.providers {
		text, err := p.Generate(ctx, systemPrompt, userPrompt)
		if err != nil {
			log.Printf("ai: provider %s failed: %v", p.Name(), err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			log.Printf("ai: provider %s returned empty response", p.Name())
			continue
		}
		return text
	}
	return NoBackendMessage
}
