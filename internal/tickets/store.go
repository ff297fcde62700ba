package tickets

import "sync"

// Reducer derives a new state from the current one.
type Reducer func(State) (State, error)

// Store holds the state of one session. Event listeners apply reducers
// through it; the session re-renders after each dispatched event.
type Store struct {
	mu      sync.RWMutex
	state   State
	version uint64
}

// NewStore creates a store with an initial state.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Version counts successful updates.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Apply runs reduce against the current state and stores the result.
// On error the state is unchanged.
func (s *Store) Apply(reduce Reducer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := reduce(s.state)
	if err != nil {
		return err
	}
	s.state = next
	s.version++
	return nil
}

// Restore replaces the state and version wholesale.
func (s *Store) Restore(state State, version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.version = version
}
