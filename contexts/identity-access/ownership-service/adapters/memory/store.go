package memory

import (
	"context"
	"strings"
	"sync"

	"ballotbox/contexts/identity-access/ownership-service/domain/entities"
	domainerrors "ballotbox/contexts/identity-access/ownership-service/domain/errors"
)

// Store is the in-memory owner repository for tests and local wiring.
type Store struct {
	mu     sync.RWMutex
	owners map[string]entities.OwnerRecord
}

func NewStore() *Store {
	return &Store{owners: make(map[string]entities.OwnerRecord)}
}

func (s *Store) SaveOwner(_ context.Context, record entities.OwnerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[strings.TrimSpace(record.ResourceID)] = record
	return nil
}

func (s *Store) GetOwner(_ context.Context, resourceID string) (entities.OwnerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.owners[strings.TrimSpace(resourceID)]
	if !ok {
		return entities.OwnerRecord{}, domainerrors.ErrOwnerNotFound
	}
	return record, nil
}
