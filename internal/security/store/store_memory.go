package store

import (
	"context"
	"sync"

	dErrors "certseal/pkg/domain-errors"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]Record
	byCode map[string]string // verification code -> certificate ID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:   make(map[string]Record),
		byCode: make(map[string]string),
	}
}

func (s *InMemoryStore) Save(_ context.Context, record Record) error {
	if record.Certificate.ID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "record certificate ID must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[record.Certificate.ID]; exists {
		return dErrors.New(dErrors.CodeConflict, "profile already recorded for certificate")
	}
	s.byID[record.Certificate.ID] = record
	if record.Profile.VerificationCode != "" {
		s.byCode[record.Profile.VerificationCode] = record.Certificate.ID
	}
	return nil
}

func (s *InMemoryStore) GetByCertificateID(_ context.Context, certificateID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.byID[certificateID]
	if !ok {
		return Record{}, dErrors.New(dErrors.CodeNotFound, "no profile recorded for certificate")
	}
	return record, nil
}

func (s *InMemoryStore) GetByCode(ctx context.Context, code string) (Record, error) {
	s.mu.RLock()
	certificateID, ok := s.byCode[code]
	s.mu.RUnlock()
	if !ok {
		return Record{}, dErrors.New(dErrors.CodeNotFound, "verification code not recognized")
	}
	return s.GetByCertificateID(ctx, certificateID)
}
