// Package store holds the in-memory record store. Every write produces a new
// immutable snapshot and notifies subscribers synchronously, so a read that
// follows a write always observes the fully applied state. Derived views
// (allocation, aggregation) are never cached here; readers recompute from the
// current snapshot.
package store

import (
	"sync"

	"github.com/nooranifarms/coopledger/internal/farm"
)

type Listener = func(farm.Snapshot)

type Store struct {
	mu        sync.RWMutex
	state     farm.Snapshot
	listeners map[int]Listener
	nextSub   int
}

func New() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Snapshot returns the current state. The returned value must be treated as
// read-only; writers go through Mutate.
func (s *Store) Snapshot() farm.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Mutate clones the current state, applies fn to the clone, publishes it as
// the new snapshot, and notifies subscribers before returning.
func (s *Store) Mutate(fn func(*farm.Snapshot)) {
	s.mu.Lock()

	next := s.state.Clone()
	fn(&next)
	s.state = next

	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
}

// Replace swaps in a whole new state atomically. Used by backup import, which
// must never partially apply.
func (s *Store) Replace(next farm.Snapshot) {
	s.Mutate(func(state *farm.Snapshot) {
		*state = next.Clone()
	})
}

// Subscribe registers a listener called synchronously after every mutation.
// The returned function unsubscribes.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.listeners, id)
	}
}

func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}

	return out
}
