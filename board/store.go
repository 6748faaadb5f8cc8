package board

import "sync/atomic"

// Store holds the current State. Replace swaps the whole value at once, so a
// reader sees either the old snapshot or the new one, never a mix.
//
// Only the snapshot reconciler calls Replace; everything else reads.
type Store struct {
	current atomic.Pointer[State]
}

// NewStore returns a store holding an empty state (no game).
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&State{})
	return s
}

// Replace installs st as the current state. A nil st resets to an empty state.
func (s *Store) Replace(st *State) {
	if st == nil {
		st = &State{}
	}
	s.current.Store(st)
}

// Read returns the live state. Callers must not mutate it.
func (s *Store) Read() *State {
	return s.current.Load()
}
