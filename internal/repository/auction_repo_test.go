package repository

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhub/internal/models"
)

var auctionColumnList = []string{
	"id", "auction_number", "vendor_id", "title", "description",
	"auction_type", "sealed_bid_mode", "starting_price", "reserve_price", "buy_now_price",
	"current_bid", "min_bid_increment", "currency", "start_date", "end_date", "status",
	"total_bids", "total_bidders", "winner_id", "winning_bid", "service_requirements",
	"evaluation_criteria", "terms", "allow_auto_bidding", "is_private", "invited_vendors",
	"max_participants", "has_auto_extension", "auto_extension_minutes",
	"awarded_at", "awarded_by", "cancellation_reason", "created_at", "updated_at",
}

func auctionRow(id uuid.UUID, now time.Time) []driver.Value {
	return []driver.Value{
		id.String(), "AUC-20260315-ABCD1234", uuid.New().String(), "Data pipeline build", "desc",
		"reverse", "lowest", "1000", nil, nil,
		"900", "50", "USD", now.Add(-time.Hour), now.Add(time.Hour), "active",
		3, 2, nil, nil, []byte(`{"scope":"s","deliverables":["d"],"timeline":"t","budget":{"min":"0","max":"0","currency":"USD"}}`),
		[]byte(`{"price":40,"quality":30,"timeline":20,"experience":10}`), []byte(`{}`), false, false, []byte(`[]`),
		nil, true, 5,
		nil, nil, nil, now.Add(-2 * time.Hour), now.Add(-time.Hour),
	}
}

func TestAuctionRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuctionRepository(db)
	id := uuid.New()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM auctions WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(auctionColumnList).AddRow(auctionRow(id, now)...))

	a, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, models.AuctionReverse, a.AuctionType)
	assert.Equal(t, models.StatusActive, a.Status)
	assert.True(t, a.StartingPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, a.CurrentBid.Valid)
	assert.True(t, a.CurrentBid.Decimal.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, 5, a.AutoExtensionMinutes)
	assert.Equal(t, "s", a.ServiceRequirements.Scope)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuctionRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuctionRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM auctions WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(auctionColumnList))

	_, err = repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuctionRepository_UpdateDraft_NotDraft(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuctionRepository(db)
	a := &models.Auction{ID: uuid.New(), Title: "x"}

	mock.ExpectExec(`UPDATE auctions`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateDraft(context.Background(), a)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuctionRepository_ActivateDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuctionRepository(db)
	now := time.Now().UTC()
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(`UPDATE auctions SET status='active'`).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(first.String()).
			AddRow(second.String()))

	ids, err := repo.ActivateDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuctionRepository_ExpiredActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuctionRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id FROM auctions`).
		WithArgs(now, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ids, err := repo.ExpiredActive(context.Background(), now, 100)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
