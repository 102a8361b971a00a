package ai

import "context"

// Provider generates text from a system prompt plus a user prompt.
// Implementations are interchangeable so new backends can be inserted
// into the fallback chain without touching callers.
type Provider interface {
	Name() string
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
