package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
)

// Ensure IgnoredResultStore implements the interface.
var _ driven.IgnoredResultStore = (*IgnoredResultStore)(nil)

// IgnoredResultStore is an in-memory implementation of driven.IgnoredResultStore.
type IgnoredResultStore struct {
	mu      sync.RWMutex
	records map[string]domain.IgnoredResult
}

// NewIgnoredResultStore creates a new in-memory ignored result store.
func NewIgnoredResultStore() *IgnoredResultStore {
	return &IgnoredResultStore{
		records: make(map[string]domain.IgnoredResult),
	}
}

// Add stores an ignored result. A record with the same ID is replaced.
func (s *IgnoredResultStore) Add(_ context.Context, ignored *domain.IgnoredResult) error {
	if ignored == nil || ignored.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[ignored.ID] = *ignored
	return nil
}

// Remove deletes an ignored result by ID.
func (s *IgnoredResultStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("ignored result %s: %w", id, domain.ErrNotFound)
	}
	delete(s.records, id)
	return nil
}

// GetByManuscriptID returns all ignored results for a manuscript, oldest first.
func (s *IgnoredResultStore) GetByManuscriptID(_ context.Context, manuscriptID string) ([]domain.IgnoredResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.IgnoredResult, 0)
	for _, record := range s.records {
		if record.ManuscriptID == manuscriptID {
			result = append(result, record)
		}
	}
	sortRecords(result)
	return result, nil
}

// List returns all ignored results, oldest first.
func (s *IgnoredResultStore) List(_ context.Context) ([]domain.IgnoredResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.IgnoredResult, 0, len(s.records))
	for _, record := range s.records {
		result = append(result, record)
	}
	sortRecords(result)
	return result, nil
}

func sortRecords(records []domain.IgnoredResult) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].IgnoredAt.Equal(records[j].IgnoredAt) {
			return records[i].IgnoredAt.Before(records[j].IgnoredAt)
		}
		return records[i].ID < records[j].ID
	})
}
