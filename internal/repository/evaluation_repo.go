package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"auctionhub/internal/models"
)

// ErrDuplicateEvaluation is returned when an evaluator scores the same
// bid twice. Evaluations are immutable once submitted.
var ErrDuplicateEvaluation = errors.New("bid already evaluated by this evaluator")

const evaluationColumns = `id, bid_id, auction_id, evaluator_id,
	price_score, quality_score, timeline_score, experience_score,
	total_score, comments, submitted_at`

type EvaluationRepository struct {
	db *sql.DB
}

func NewEvaluationRepository(db *sql.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

func (r *EvaluationRepository) Insert(ctx context.Context, ev *models.BidEvaluation) error {
	const q = `
	INSERT INTO bid_evaluations (id, bid_id, auction_id, evaluator_id,
	        price_score, quality_score, timeline_score, experience_score,
	        total_score, comments, submitted_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	ON CONFLICT (bid_id, evaluator_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, q,
		ev.ID, ev.BidID, ev.AuctionID, ev.EvaluatorID,
		ev.PriceScore, ev.QualityScore, ev.TimelineScore, ev.ExperienceScore,
		ev.TotalScore, nullStr(ev.Comments), ev.SubmittedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDuplicateEvaluation
	}
	return nil
}

func scanEvaluation(row interface{ Scan(...any) error }) (*models.BidEvaluation, error) {
	ev := &models.BidEvaluation{}
	var comments sql.NullString
	err := row.Scan(
		&ev.ID, &ev.BidID, &ev.AuctionID, &ev.EvaluatorID,
		&ev.PriceScore, &ev.QualityScore, &ev.TimelineScore, &ev.ExperienceScore,
		&ev.TotalScore, &comments, &ev.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ev.Comments = comments.String
	return ev, nil
}

func (r *EvaluationRepository) ListByBid(ctx context.Context, bidID uuid.UUID) ([]models.BidEvaluation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+evaluationColumns+` FROM bid_evaluations WHERE bid_id = $1 ORDER BY submitted_at`, bidID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvaluations(rows)
}

// ListByAuctionTx loads every evaluation of an auction inside the close
// transaction, for award resolution.
func (r *EvaluationRepository) ListByAuctionTx(ctx context.Context, tx *sql.Tx, auctionID uuid.UUID) ([]models.BidEvaluation, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+evaluationColumns+` FROM bid_evaluations WHERE auction_id = $1 ORDER BY submitted_at`, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvaluations(rows)
}

func collectEvaluations(rows *sql.Rows) ([]models.BidEvaluation, error) {
	var list []models.BidEvaluation
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *ev)
	}
	return list, rows.Err()
}
