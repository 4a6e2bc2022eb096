package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/observability"
	"solana-staking-vault/internal/storage"
)

// OperationEventStore implements storage.OperationEventStore using
// ClickHouse. The archive is append-only; event ids are unique per
// committed operation, so duplicates are detected with an explicit
// existence check (MergeTree does not enforce uniqueness at insert
// time).
type OperationEventStore struct {
	conn *Conn
}

// NewOperationEventStore creates a new OperationEventStore.
func NewOperationEventStore(conn *Conn) *OperationEventStore {
	return &OperationEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.OperationEventStore = (*OperationEventStore)(nil)

// Insert adds a single event. Returns ErrDuplicateKey if event_id exists.
func (s *OperationEventStore) Insert(ctx context.Context, e *domain.OperationEvent) error {
	return s.InsertBulk(ctx, []*domain.OperationEvent{e})
}

// InsertBulk adds multiple events. Fails the entire batch on any duplicate.
func (s *OperationEventStore) InsertBulk(ctx context.Context, events []*domain.OperationEvent) (err error) {
	if len(events) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("clickhouse", "insert_events", time.Since(start).Seconds(), err)
	}()

	// Check for intra-batch duplicates
	seen := make(map[string]struct{})
	for _, e := range events {
		if e == nil || e.EventID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[e.EventID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[e.EventID] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, e := range events {
		exists, err := s.exists(ctx, e.EventID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO operation_events (
			event_id, kind, pool, actor, deposit, amount, reward, timestamp
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range events {
		err = batch.Append(
			e.EventID, string(e.Kind), e.Pool, e.Actor, e.Deposit,
			e.Amount, e.Reward, e.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByPool retrieves all events for a pool, ordered by timestamp ASC, event_id ASC.
func (s *OperationEventStore) GetByPool(ctx context.Context, pool string) ([]*domain.OperationEvent, error) {
	query := `
		SELECT event_id, kind, pool, actor, deposit, amount, reward, timestamp
		FROM operation_events
		WHERE pool = ?
		ORDER BY timestamp ASC, event_id ASC
	`

	rows, err := s.conn.Query(ctx, query, pool)
	if err != nil {
		return nil, fmt.Errorf("query by pool: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetByTimeRange retrieves events with timestamp in [start, end] (inclusive).
func (s *OperationEventStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.OperationEvent, error) {
	query := `
		SELECT event_id, kind, pool, actor, deposit, amount, reward, timestamp
		FROM operation_events
		WHERE timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC, event_id ASC
	`

	rows, err := s.conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// exists checks whether an event_id is already archived.
func (s *OperationEventStore) exists(ctx context.Context, eventID string) (bool, error) {
	query := `
		SELECT count() FROM operation_events WHERE event_id = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanEvents scans rows into a slice of OperationEvent.
func scanEvents(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*domain.OperationEvent, error) {
	var events []*domain.OperationEvent

	for rows.Next() {
		var e domain.OperationEvent
		var kindStr string

		err := rows.Scan(
			&e.EventID,
			&kindStr,
			&e.Pool,
			&e.Actor,
			&e.Deposit,
			&e.Amount,
			&e.Reward,
			&e.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}

		e.Kind = domain.OperationKind(kindStr)
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}
