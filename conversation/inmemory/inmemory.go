package inmemory

import (
	"context"
	"sync"

	"github.com/ragent-ai/ragent/conversation"
)

// Store keeps checkpoints for the process lifetime. Restarts start fresh.
// The per-id lock map grows with the id space and is never swept, matching
// the lifetime of the states themselves.
type Store struct {
	mu     sync.Mutex
	states map[string]conversation.State
	locks  map[string]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		states: make(map[string]conversation.State),
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *Store) Begin(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *Store) Load(_ context.Context, id string) (conversation.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		return conversation.State{}, false, nil
	}
	return st.Clone(), true, nil
}

func (s *Store) Save(_ context.Context, state conversation.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ID] = state.Clone()
	return nil
}
