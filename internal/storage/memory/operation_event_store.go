package memory

import (
	"context"
	"sort"
	"sync"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
)

// OperationEventStore is an in-memory implementation of
// storage.OperationEventStore. Unlike the record stores it lives
// outside the ledger transaction: events are archived after commit.
type OperationEventStore struct {
	mu   sync.RWMutex
	data map[string]*domain.OperationEvent // keyed by event_id
}

// NewOperationEventStore creates a new in-memory event store.
func NewOperationEventStore() *OperationEventStore {
	return &OperationEventStore{
		data: make(map[string]*domain.OperationEvent),
	}
}

// Insert adds a single event. Returns ErrDuplicateKey if event_id exists.
func (s *OperationEventStore) Insert(_ context.Context, e *domain.OperationEvent) error {
	if e == nil || e.EventID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[e.EventID]; exists {
		return storage.ErrDuplicateKey
	}

	eventCopy := *e
	s.data[e.EventID] = &eventCopy
	return nil
}

// InsertBulk adds multiple events. Fails the entire batch on any duplicate.
func (s *OperationEventStore) InsertBulk(_ context.Context, events []*domain.OperationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		if e == nil || e.EventID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[e.EventID]; exists {
			return storage.ErrDuplicateKey
		}
	}
	for _, e := range events {
		eventCopy := *e
		s.data[e.EventID] = &eventCopy
	}
	return nil
}

// GetByPool retrieves all events for a pool, ordered by timestamp ASC, event_id ASC.
func (s *OperationEventStore) GetByPool(_ context.Context, pool string) ([]*domain.OperationEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.OperationEvent
	for _, e := range s.data {
		if e.Pool == pool {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sortEvents(result)
	return result, nil
}

// GetByTimeRange retrieves events with timestamp in [start, end] (inclusive).
func (s *OperationEventStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.OperationEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.OperationEvent
	for _, e := range s.data {
		if e.Timestamp >= start && e.Timestamp <= end {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sortEvents(result)
	return result, nil
}

func sortEvents(events []*domain.OperationEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Timestamp != events[j].Timestamp {
			return events[i].Timestamp < events[j].Timestamp
		}
		return events[i].EventID < events[j].EventID
	})
}

var _ storage.OperationEventStore = (*OperationEventStore)(nil)
