package ports

import "context"

// HistoryStore keeps the ordered turn history per session. Implementations
// must be safe for concurrent use.
type HistoryStore interface {
	// Append adds a record to the session's history, creating the session
	// entry if absent, and returns the post-append snapshot.
	Append(ctx context.Context, sessionID string, rec TurnRecord) ([]TurnRecord, error)

	// Get returns the session's history, empty slice if the session is unknown.
	Get(ctx context.Context, sessionID string) ([]TurnRecord, error)

	// Clear removes the session's history. Returns true if an entry existed.
	Clear(ctx context.Context, sessionID string) (bool, error)
}
