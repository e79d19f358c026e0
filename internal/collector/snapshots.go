package collector

import (
	"sync"
	"time"

	"github.com/dgallion1/statflat/internal/record"
)

// Snapshot is one completed scrape: the structured document and its
// flattened form. Snapshots are immutable once stored.
type Snapshot struct {
	ID        string
	FetchedAt time.Time
	Duration  time.Duration
	Tree      *record.Record
	Flat      *record.FlatRecord
}

// SnapshotStore is a thread-safe in-memory store holding the latest
// snapshot plus a bounded history.
type SnapshotStore struct {
	mu      sync.Mutex
	history []*Snapshot // newest last
	max     int
}

func NewSnapshotStore(max int) *SnapshotStore {
	if max < 1 {
		max = 1
	}
	return &SnapshotStore{max: max}
}

// Put appends a snapshot, evicting the oldest when over capacity.
func (s *SnapshotStore) Put(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, snap)
	if len(s.history) > s.max {
		s.history = s.history[len(s.history)-s.max:]
	}
}

// Latest returns the most recent snapshot, or nil when empty.
func (s *SnapshotStore) Latest() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return nil
	}
	return s.history[len(s.history)-1]
}

// History returns the retained snapshots, newest first.
func (s *SnapshotStore) History() []*Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Snapshot, len(s.history))
	for i, snap := range s.history {
		out[len(s.history)-1-i] = snap
	}
	return out
}
