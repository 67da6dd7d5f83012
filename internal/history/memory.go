package history

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/Vovarama1992/voice_agent/internal/ports"
)

const lockShards = 32

// MemoryStore keeps session histories in process memory. Mutations for one
// session are serialized through a mutex shard keyed by session id, so two
// concurrent turns for the same session cannot interleave their appends.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]ports.TurnRecord

	shards [lockShards]sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]ports.TurnRecord),
	}
}

func (s *MemoryStore) shard(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &s.shards[h.Sum32()%lockShards]
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, rec ports.TurnRecord) ([]ports.TurnRecord, error) {
	lock := s.shard(sessionID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	s.sessions[sessionID] = append(s.sessions[sessionID], rec)
	snap := snapshot(s.sessions[sessionID])
	s.mu.Unlock()

	return snap, nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) ([]ports.TurnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.sessions[sessionID]), nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) (bool, error) {
	lock := s.shard(sessionID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return false, nil
	}
	delete(s.sessions, sessionID)
	return true, nil
}

// snapshot copies the history so callers can hold it without holding the lock.
func snapshot(recs []ports.TurnRecord) []ports.TurnRecord {
	out := make([]ports.TurnRecord, len(recs))
	copy(out, recs)
	return out
}
