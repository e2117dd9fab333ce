package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"auctionhub/internal/repository"
)

// Relay polls the outbox for pending events and publishes them to the
// broker. Each batch is claimed with FOR UPDATE SKIP LOCKED, so multiple
// instances can run concurrently; a failed publish rolls the batch back
// and the events stay pending for the next tick.
type Relay struct {
	db        *sql.DB
	outbox    *repository.OutboxRepository
	publisher Publisher
	batchSize int
	interval  time.Duration
}

func NewRelay(db *sql.DB, outbox *repository.OutboxRepository, publisher Publisher, batchSize int, interval time.Duration) *Relay {
	return &Relay{
		db:        db,
		outbox:    outbox,
		publisher: publisher,
		batchSize: batchSize,
		interval:  interval,
	}
}

// Run starts the polling loop. Call as `go relay.Run(ctx)` at boot.
func (r *Relay) Run(ctx context.Context) {
	tk := time.NewTicker(r.interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			if err := r.ProcessBatch(ctx); err != nil {
				zap.L().Error("outbox_relay", zap.Error(err))
			}
		}
	}
}

func (r *Relay) ProcessBatch(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	pending, err := r.outbox.PendingForUpdate(ctx, tx, r.batchSize)
	if err != nil {
		return fmt.Errorf("fetch pending events: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	for _, ev := range pending {
		if err := r.publisher.Publish(ctx, Exchange, ev.EventType, ev.Payload); err != nil {
			return fmt.Errorf("publish event %s: %w", ev.ID, err)
		}
		if err := r.outbox.MarkPublished(ctx, tx, ev.ID); err != nil {
			return fmt.Errorf("mark published %s: %w", ev.ID, err)
		}
	}
	return tx.Commit()
}
