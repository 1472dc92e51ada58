package sales

import (
	"sync"
	"time"
)

// Snapshot is one point-in-time copy of the warehouse order lines. It is
// never mutated after Install; aggregation callers capture the pointer once
// and keep reading it even if a refresh swaps in a successor.
type Snapshot struct {
	Records     []OrderLineRecord
	LastUpdated time.Time
}

// Store owns the current snapshot pointer. The swap is all-or-nothing:
// readers see either the previous snapshot or the new one, never a partial
// record list.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

func NewStore() *Store {
	return &Store{}
}

// Current returns the installed snapshot, or nil before the first refresh.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Install replaces the current snapshot. Last writer wins; snapshots are
// never merged.
func (s *Store) Install(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snap
}
