package ports

import "context"

// TTSClient turns text into speech and returns a URL to the hosted audio.
type TTSClient interface {
	Synthesize(ctx context.Context, text string) (string, error)
}
