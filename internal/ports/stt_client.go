package ports

import "context"

type STTClient interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
