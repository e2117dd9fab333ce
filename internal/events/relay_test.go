package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhub/internal/repository"
)

type fakePublisher struct {
	published []string
	failOn    string
}

func (p *fakePublisher) Publish(_ context.Context, _, routingKey string, _ []byte) error {
	if p.failOn != "" && routingKey == p.failOn {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, routingKey)
	return nil
}

func TestRelay_ProcessBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	outbox := repository.NewOutboxRepository(db)
	pub := &fakePublisher{}
	relay := NewRelay(db, outbox, pub, 100, time.Second)

	first, second := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, event_type, payload, status, created_at\s+FROM outbox_events`).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_type", "payload", "status", "created_at"}).
			AddRow(first.String(), EventBidPlaced, []byte(`{}`), "pending", now).
			AddRow(second.String(), EventAuctionEnded, []byte(`{}`), "pending", now))
	mock.ExpectExec(`UPDATE outbox_events SET status = 'published'`).
		WithArgs(first).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE outbox_events SET status = 'published'`).
		WithArgs(second).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, relay.ProcessBatch(context.Background()))
	assert.Equal(t, []string{EventBidPlaced, EventAuctionEnded}, pub.published)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelay_ProcessBatch_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	relay := NewRelay(db, repository.NewOutboxRepository(db), &fakePublisher{}, 100, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, event_type, payload, status, created_at\s+FROM outbox_events`).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_type", "payload", "status", "created_at"}))
	mock.ExpectRollback()

	require.NoError(t, relay.ProcessBatch(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelay_ProcessBatch_PublishFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	pub := &fakePublisher{failOn: EventBidPlaced}
	relay := NewRelay(db, repository.NewOutboxRepository(db), pub, 100, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, event_type, payload, status, created_at\s+FROM outbox_events`).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_type", "payload", "status", "created_at"}).
			AddRow(uuid.New().String(), EventBidPlaced, []byte(`{}`), "pending", time.Now().UTC()))
	mock.ExpectRollback()

	err = relay.ProcessBatch(context.Background())
	assert.Error(t, err, "events stay pending when the broker rejects the publish")
	assert.Empty(t, pub.published)
	assert.NoError(t, mock.ExpectationsWereMet())
}
