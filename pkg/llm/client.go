package llm

import "context"

// Completer is a single-turn text completion against a language model.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int64) (string, error)
	Model() string
}
