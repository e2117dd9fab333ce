package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"auctionhub/internal/models"
)

const bidColumns = `id, auction_id, bidder_id, amount, max_amount, bid_type,
	is_winning, proposal, delivery_timeline, qualifications,
	retracted_at, retraction_reason, created_at`

type BidRepository struct {
	db *sql.DB
}

func NewBidRepository(db *sql.DB) *BidRepository {
	return &BidRepository{db: db}
}

func scanBid(row interface{ Scan(...any) error }) (*models.Bid, error) {
	b := &models.Bid{}
	var proposal, retractionReason sql.NullString
	var retractedAt sql.NullTime
	err := row.Scan(
		&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.MaxAmount, &b.BidType,
		&b.IsWinning, &proposal, &b.DeliveryTimeline, &b.Qualifications,
		&retractedAt, &retractionReason, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.Proposal = proposal.String
	b.RetractionReason = retractionReason.String
	if retractedAt.Valid {
		t := retractedAt.Time
		b.RetractedAt = &t
	}
	return b, nil
}

func (r *BidRepository) Insert(ctx context.Context, tx *sql.Tx, b *models.Bid) error {
	const q = `
	INSERT INTO bids (id, auction_id, bidder_id, amount, max_amount, bid_type,
	        is_winning, proposal, delivery_timeline, qualifications, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := tx.ExecContext(ctx, q,
		b.ID, b.AuctionID, b.BidderID, b.Amount, b.MaxAmount, b.BidType,
		b.IsWinning, nullStr(b.Proposal), b.DeliveryTimeline, b.Qualifications, b.CreatedAt,
	)
	return err
}

func (r *BidRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE id = $1`, id)
	return scanBid(row)
}

// ListByAuction returns the full bid history, oldest first, retracted
// bids included.
func (r *BidRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE auction_id = $1 ORDER BY created_at, id`, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBids(rows)
}

// ListByAuctionTx is ListByAuction inside the per-auction lock scope.
func (r *BidRepository) ListByAuctionTx(ctx context.Context, tx *sql.Tx, auctionID uuid.UUID) ([]models.Bid, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE auction_id = $1 ORDER BY created_at, id`, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBids(rows)
}

func collectBids(rows *sql.Rows) ([]models.Bid, error) {
	var list []models.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

// SetWinning flips the single is_winning flag for an auction. Passing
// uuid.Nil clears it without electing a new leader.
func (r *BidRepository) SetWinning(ctx context.Context, tx *sql.Tx, auctionID, bidID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE bids SET is_winning = FALSE WHERE auction_id = $1 AND is_winning`, auctionID); err != nil {
		return err
	}
	if bidID == uuid.Nil {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE bids SET is_winning = TRUE WHERE id = $1`, bidID)
	return err
}

func (r *BidRepository) Retract(ctx context.Context, tx *sql.Tx, bidID uuid.UUID, at time.Time, reason string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bids SET retracted_at = $2, retraction_reason = $3, is_winning = FALSE
		  WHERE id = $1 AND retracted_at IS NULL`, bidID, at, reason)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountBidders returns the number of distinct non-retracted bidders.
func (r *BidRepository) CountBidders(ctx context.Context, tx *sql.Tx, auctionID uuid.UUID) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT bidder_id) FROM bids WHERE auction_id = $1 AND retracted_at IS NULL`,
		auctionID).Scan(&n)
	return n, err
}
