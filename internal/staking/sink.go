package staking

import (
	"context"
	"log"
	"time"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/observability"
	"solana-staking-vault/internal/storage"
)

// MultiSink publishes each event to every sink in order.
type MultiSink []EventSink

// Publish implements EventSink.
func (m MultiSink) Publish(e *domain.OperationEvent) {
	for _, s := range m {
		s.Publish(e)
	}
}

// ArchiveSink writes committed operation events to the archive store.
// Archive failures are logged and metered, never propagated: the
// operation has already committed.
type ArchiveSink struct {
	store   storage.OperationEventStore
	logger  *log.Logger
	timeout time.Duration
}

// NewArchiveSink creates an archive sink. A nil logger uses the default.
func NewArchiveSink(store storage.OperationEventStore, logger *log.Logger) *ArchiveSink {
	if logger == nil {
		logger = log.Default()
	}
	return &ArchiveSink{store: store, logger: logger, timeout: 10 * time.Second}
}

// Publish implements EventSink.
func (a *ArchiveSink) Publish(e *domain.OperationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	err := a.store.Insert(ctx, e)
	observability.RecordEventArchived(err)
	if err != nil {
		a.logger.Printf("[archive] insert event %s: %v", e.EventID, err)
	}
}

var _ EventSink = MultiSink(nil)
var _ EventSink = (*ArchiveSink)(nil)
