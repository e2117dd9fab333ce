package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxPending   OutboxStatus = "pending"
	OutboxPublished OutboxStatus = "published"
	OutboxFailed    OutboxStatus = "failed"
)

// OutboxEvent is one notification waiting to be relayed to the broker.
// Written in the same transaction as the state change it describes.
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

type OutboxRepository struct {
	db *sql.DB
}

func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Insert(ctx context.Context, tx *sql.Tx, ev *OutboxEvent) error {
	const q = `
	INSERT INTO outbox_events (id, event_type, payload, status, created_at)
	VALUES ($1,$2,$3,$4,$5)`
	_, err := tx.ExecContext(ctx, q, ev.ID, ev.EventType, ev.Payload, ev.Status, ev.CreatedAt)
	return err
}

// PendingForUpdate claims a batch of pending events. SKIP LOCKED keeps
// concurrent relay instances from publishing the same event twice.
func (r *OutboxRepository) PendingForUpdate(ctx context.Context, tx *sql.Tx, limit int) ([]OutboxEvent, error) {
	const q = `
	SELECT id, event_type, payload, status, created_at
	  FROM outbox_events
	 WHERE status = 'pending'
	 ORDER BY created_at
	 LIMIT $1
	 FOR UPDATE SKIP LOCKED`
	rows, err := tx.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.EventType, &ev.Payload, &ev.Status, &ev.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, ev)
	}
	return list, rows.Err()
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE outbox_events SET status = 'published', processed_at = now() WHERE id = $1`, id)
	return err
}
