package ai

import "context"

// Client is the raw completion backend. Configured reports whether a
// credential was present at startup; an unconfigured client is never called.
type Client interface {
	Configured() bool
	GetCompletion(ctx context.Context, prompt string) (string, error)
}
