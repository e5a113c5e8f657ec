package session

import (
	"context"
	"sync"

	"github.com/campushq/campusbot/internal/core"
)

// MemoryStore is a process-lifetime core.SessionRepository. It backs
// DB-less runs and tests; the sqlite repository is the serving default.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]core.Turn

	// maxTurns bounds each session; oldest turns are dropped first.
	// Zero means unbounded.
	maxTurns int
}

func NewMemoryStore(maxTurns int) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]core.Turn),
		maxTurns: maxTurns,
	}
}

func (s *MemoryStore) History(ctx context.Context, sessionID string) ([]core.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	out := make([]core.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (s *MemoryStore) Append(ctx context.Context, sessionID string, turns ...core.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sessions[sessionID], turns...)
	if s.maxTurns > 0 && len(history) > s.maxTurns {
		history = history[len(history)-s.maxTurns:]
	}
	s.sessions[sessionID] = history
	return nil
}
