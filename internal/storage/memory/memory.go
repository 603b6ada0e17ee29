package memory

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"fintrack/internal/storage"
)

// Store keeps documents in process memory. Nothing survives a restart.
type Store struct {
	mu     sync.Mutex
	docs   map[string][]byte
	closed bool
}

func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

// NewFromFiles seeds the store with <base>/<key>.json for the ledger keys
// that have a file. Missing or unreadable files are skipped.
func NewFromFiles(base string) *Store {
	s := New()
	for _, key := range []string{storage.KeyTransactions, storage.KeyBudgets} {
		b, err := os.ReadFile(filepath.Join(base, key+".json"))
		if err != nil {
			continue
		}
		s.docs[key] = b
	}
	return s
}

func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, storage.ErrClosed
	}
	doc, ok := s.docs[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), doc...), nil
}

func (s *Store) Save(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	s.docs[key] = append([]byte(nil), payload...)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
