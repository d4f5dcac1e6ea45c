package catalog

import (
	"slices"
	"sync/atomic"
	"time"
)

var _ Store = (*MemoryStore)(nil)

// snapshot is one immutable catalog generation. ReplaceAll builds a fresh
// snapshot and publishes it with a single pointer swap, so readers never
// take a lock and never see a half-populated generation.
type snapshot struct {
	entries   map[string]string
	titles    []string
	updatedAt time.Time
	populated bool
}

var emptySnapshot = &snapshot{entries: map[string]string{}}

// MemoryStore is the non-durable catalog backend. The catalog starts empty
// and is discarded at process shutdown.
type MemoryStore struct {
	current atomic.Pointer[snapshot]
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.current.Store(emptySnapshot)
	return s
}

func (s *MemoryStore) ReplaceAll(entries []Entry, at time.Time) error {
	next := &snapshot{
		entries:   make(map[string]string, len(entries)),
		updatedAt: at,
		populated: true,
	}

	for _, entry := range entries {
		next.entries[entry.Title] = entry.URL
	}

	next.titles = make([]string, 0, len(next.entries))
	for title := range next.entries {
		next.titles = append(next.titles, title)
	}
	slices.Sort(next.titles)

	s.current.Store(next)
	return nil
}

func (s *MemoryStore) Lookup(title string) (string, bool) {
	url, ok := s.current.Load().entries[title]
	return url, ok
}

func (s *MemoryStore) AllTitles() []string {
	return s.current.Load().titles
}

func (s *MemoryStore) Freshness() (time.Time, bool) {
	snap := s.current.Load()
	return snap.updatedAt, snap.populated
}
