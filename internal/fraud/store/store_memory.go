// Package store provides issuance-history backends for the fraud detector.
package store

import (
	"context"
	"sync"
)

// InMemoryHistoryStore keeps issuance history in process memory. The mutex
// makes RecordIssuance a true check-and-insert, but state is lost on restart
// and invisible to other instances - production deployments should prefer the
// Redis store.
type InMemoryHistoryStore struct {
	mu            sync.Mutex
	issued        map[string]struct{}
	perfectScores int64
}

// NewInMemoryHistoryStore constructs an empty history store.
func NewInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{issued: make(map[string]struct{})}
}

func (s *InMemoryHistoryStore) RecordIssuance(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, seen := s.issued[key]
	s.issued[key] = struct{}{}
	return seen, nil
}

func (s *InMemoryHistoryStore) IncrementPerfectScores(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.perfectScores++
	return s.perfectScores, nil
}
