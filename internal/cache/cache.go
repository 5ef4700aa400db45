package cache

import (
	"sync"

	"github.com/rickgao/stock-stream/internal/model"
)

// Store is a thread-safe snapshot cache keyed by uppercase symbol.
type Store struct {
	mu    sync.RWMutex
	snaps map[string]model.Snapshot
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		snaps: make(map[string]model.Snapshot),
	}
}

// Get returns the last snapshot for a symbol, if one exists.
func (s *Store) Get(symbol string) (model.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snaps[symbol]
	return snap, ok
}

// Put replaces the snapshot for its symbol wholesale.
func (s *Store) Put(snap model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snaps[snap.Symbol] = snap
}

// Len returns the number of cached symbols.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.snaps)
}
