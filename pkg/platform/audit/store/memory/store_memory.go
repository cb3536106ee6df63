package memory

import (
	"context"
	"sync"

	audit "certseal/pkg/platform/audit"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	byCert  map[string][]audit.Event
	ordered []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byCert: make(map[string][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCert = make(map[string][]audit.Event)
	s.ordered = nil
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCert[event.CertificateID] = append(s.byCert[event.CertificateID], event)
	s.ordered = append(s.ordered, event)
	return nil
}

func (s *InMemoryStore) ListByCertificate(_ context.Context, certificateID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.byCert[certificateID]...), nil
}

// ListRecent returns the most recent N events in append order.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.ordered) - limit
	if start < 0 {
		start = 0
	}
	return append([]audit.Event{}, s.ordered[start:]...), nil
}
