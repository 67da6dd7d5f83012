package ports

import "context"

// ClipStore persists uploaded audio clips to transient local storage so the
// STT upload step and the /audio endpoint can read them back.
type ClipStore interface {
	Save(data []byte) (string, error)
	Path(filename string) (string, error)
}

// ClipArchive keeps a durable copy of uploaded clips in object storage.
// Archival is best effort and never fails a turn.
type ClipArchive interface {
	Archive(ctx context.Context, sessionID, filename string, data []byte) (string, error)
}
