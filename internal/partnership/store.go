package partnership

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pazlcollab/pkg/sentinel"
)

// MemoryStore keeps requests in process. FileStore embeds it and adds a JSON
// snapshot per mutation.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]Request
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]Request)}
}

func (s *MemoryStore) Insert(_ context.Context, r Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.m {
		if existing.Status == StatusPending &&
			existing.FromUserID == r.FromUserID && existing.ToUserID == r.ToUserID {
			return sentinel.ErrConflict
		}
	}
	s.m[r.ID] = r
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.m[id]
	if !ok {
		return Request{}, sentinel.ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) Update(_ context.Context, r Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.m[r.ID] = r
	return nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID int64) ([]Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Request
	for _, r := range s.m {
		if r.FromUserID == userID || r.ToUserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) snapshot() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Request, 0, len(s.m))
	for _, r := range s.m {
		out = append(out, r)
	}
	return out
}

func (s *MemoryStore) load(rs []Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		s.m[r.ID] = r
	}
}

// FileStore persists requests as a JSON file rewritten on every mutation.
// The request volume is tiny; simplicity wins over a database here.
type FileStore struct {
	*MemoryStore
	path    string
	writeMu sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{MemoryStore: NewMemoryStore(), path: path}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read partnership store: %w", err)
	}
	var rs []Request
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("decode partnership store: %w", err)
	}
	s.MemoryStore.load(rs)
	return s, nil
}

func (s *FileStore) Insert(ctx context.Context, r Request) error {
	if err := s.MemoryStore.Insert(ctx, r); err != nil {
		return err
	}
	return s.flush()
}

func (s *FileStore) Update(ctx context.Context, r Request) error {
	if err := s.MemoryStore.Update(ctx, r); err != nil {
		return err
	}
	return s.flush()
}

// flush writes via a temp file and rename, so a crash mid-write never leaves
// a truncated store behind.
func (s *FileStore) flush() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, err := json.MarshalIndent(s.snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode partnership store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create partnership store dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write partnership store: %w", err)
	}
	return os.Rename(tmp, s.path)
}
