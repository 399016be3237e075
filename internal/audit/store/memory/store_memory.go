package memory

import (
	"context"
	"sync"

	"causeway/internal/audit"
)

// InMemoryStore keeps decision records in insertion order. Used by tests and
// as a development fallback when no database is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []audit.DecisionRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, record audit.DecisionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *InMemoryStore) Query(_ context.Context, filter audit.Filter) ([]audit.DecisionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.DecisionRecord
	for _, record := range s.records {
		if !filter.Matches(record) {
			continue
		}
		out = append(out, record)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// Len reports the number of stored records.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear drops all records. Test helper.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}
