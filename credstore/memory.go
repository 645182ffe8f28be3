package credstore

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store for tests and hosts that opt out of
// durability. Safe for concurrent use.
type MemStore struct {
	mu  sync.Mutex
	rec Record
	set bool
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load(_ context.Context) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return Record{}, nil
	}
	out := s.rec
	if len(s.rec.Profile) > 0 {
		out.Profile = append([]byte(nil), s.rec.Profile...)
	}
	return out, nil
}

func (s *MemStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = Record{Token: rec.Token}
	if len(rec.Profile) > 0 {
		s.rec.Profile = append([]byte(nil), rec.Profile...)
	}
	s.set = true
	return nil
}

func (s *MemStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = Record{}
	s.set = false
	return nil
}
