package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhub/internal/models"
)

func sampleEvaluation() *models.BidEvaluation {
	return &models.BidEvaluation{
		ID:              uuid.New(),
		BidID:           uuid.New(),
		AuctionID:       uuid.New(),
		EvaluatorID:     uuid.New(),
		PriceScore:      decimal.NewFromInt(8),
		QualityScore:    decimal.NewFromInt(7),
		TimelineScore:   decimal.NewFromInt(9),
		ExperienceScore: decimal.NewFromInt(6),
		TotalScore:      decimal.NewFromFloat(7.6),
		Comments:        "solid proposal",
		SubmittedAt:     time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestEvaluationRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEvaluationRepository(db)
	ev := sampleEvaluation()

	mock.ExpectExec(`INSERT INTO bid_evaluations`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepository_Insert_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEvaluationRepository(db)
	ev := sampleEvaluation()

	mock.ExpectExec(`INSERT INTO bid_evaluations`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Insert(context.Background(), ev)
	assert.ErrorIs(t, err, ErrDuplicateEvaluation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepository_ListByBid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEvaluationRepository(db)
	bidID := uuid.New()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	cols := []string{
		"id", "bid_id", "auction_id", "evaluator_id",
		"price_score", "quality_score", "timeline_score", "experience_score",
		"total_score", "comments", "submitted_at",
	}
	mock.ExpectQuery(`SELECT .+ FROM bid_evaluations WHERE bid_id = \$1 ORDER BY submitted_at`).
		WithArgs(bidID).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.New().String(), bidID.String(), uuid.New().String(), uuid.New().String(),
				"8", "7", "9", "6", "7.6", nil, now))

	list, err := repo.ListByBid(context.Background(), bidID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, bidID, list[0].BidID)
	assert.True(t, list[0].TotalScore.Equal(decimal.NewFromFloat(7.6)))
	assert.Empty(t, list[0].Comments)
	assert.NoError(t, mock.ExpectationsWereMet())
}
