package store

import (
	"sort"
	"sync"
	"time"

	"github.com/zusistats/zusistats/pkg/analysis"
	"github.com/zusistats/zusistats/pkg/summary"
	"github.com/zusistats/zusistats/pkg/types"
)

// Entry is a loaded run together with the time it was last (re)loaded.
type Entry struct {
	Run       *types.Run
	UpdatedAt time.Time
}

// Store is a thread-safe in-memory run store, keyed by run name.
//
// Summary is computed from a fresh analysis.Group over the current runs the
// first time it is requested and memoised until the next Put or Delete.
type Store struct {
	mu      sync.RWMutex
	data    map[string]*Entry
	alg     analysis.Algorithm
	summary *summary.Summary  // nil when stale
	now     func() time.Time // injectable for deterministic tests
}

// New creates an empty Store that computes pure average speeds with alg.
func New(alg analysis.Algorithm) *Store {
	return &Store{
		data: make(map[string]*Entry),
		alg:  alg,
		now:  time.Now,
	}
}

// Algorithm returns the pure average speed algorithm used by Summary.
func (s *Store) Algorithm() analysis.Algorithm {
	return s.alg
}

// Put stores or replaces the run under run.Name.
// Callers must not modify run after calling Put.
func (s *Store) Put(run *types.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[run.Name] = &Entry{
		Run:       run,
		UpdatedAt: s.now(),
	}
	s.summary = nil
}

// Delete removes the run called name and reports whether it was present.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[name]; !ok {
		return false
	}
	delete(s.data, name)
	s.summary = nil
	return true
}

// Get returns the Entry for the given run name and whether it was found.
func (s *Store) Get(name string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[name]
	return e, ok
}

// List returns all entries ordered by run date, then name.
func (s *Store) List() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Count returns the number of runs held.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Summary returns the statistics of every run, in List order, and the
// group aggregates over all of them.
func (s *Store) Summary() summary.Summary {
	s.mu.RLock()
	if cached := s.summary; cached != nil {
		s.mu.RUnlock()
		return *cached
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		entries := s.sortedLocked()
		runs := make([]*types.Run, len(entries))
		for i, e := range entries {
			runs[i] = e.Run
		}
		sum := summary.Summarize(runs, s.alg)
		s.summary = &sum
	}
	return *s.summary
}

func (s *Store) sortedLocked() []*Entry {
	out := make([]*Entry, 0, len(s.data))
	for _, e := range s.data {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Run, out[j].Run
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Name < b.Name
	})
	return out
}
