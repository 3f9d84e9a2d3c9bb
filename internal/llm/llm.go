package llm

import "context"

// Completer is the text-completion capability consumed by the response
// generator. Implementations may fail; the generator owns the fallback.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
