package audit

import (
	"context"
	"sort"
	"sync"
)

// Store persists audit events.
type Store interface {
	Insert(ctx context.Context, e Event) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]Event, error)
}

// MemoryStore is the in-process store used in development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

// ListByUser returns the user's events, newest first.
func (s *MemoryStore) ListByUser(_ context.Context, userID int64, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
