package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"auctionhub/internal/models"
)

var ErrNotFound = errors.New("record not found")

const auctionColumns = `id, auction_number, vendor_id, title, description,
	auction_type, sealed_bid_mode, starting_price, reserve_price, buy_now_price,
	current_bid, min_bid_increment, currency, start_date, end_date, status,
	total_bids, total_bidders, winner_id, winning_bid, service_requirements,
	evaluation_criteria, terms, allow_auto_bidding, is_private, invited_vendors,
	max_participants, has_auto_extension, auto_extension_minutes,
	awarded_at, awarded_by, cancellation_reason, created_at, updated_at`

// AuctionRepository persists auctions. Methods taking *sql.Tx participate
// in the caller's per-auction transaction scope.
type AuctionRepository struct {
	db *sql.DB
}

func NewAuctionRepository(db *sql.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

func scanAuction(row interface{ Scan(...any) error }) (*models.Auction, error) {
	a := &models.Auction{}
	var maxParticipants, autoExtMinutes sql.NullInt64
	var cancellationReason sql.NullString
	var awardedAt sql.NullTime
	err := row.Scan(
		&a.ID, &a.AuctionNumber, &a.VendorID, &a.Title, &a.Description,
		&a.AuctionType, &a.SealedBidMode, &a.StartingPrice, &a.ReservePrice, &a.BuyNowPrice,
		&a.CurrentBid, &a.MinBidIncrement, &a.Currency, &a.StartDate, &a.EndDate, &a.Status,
		&a.TotalBids, &a.TotalBidders, &a.WinnerID, &a.WinningBid, &a.ServiceRequirements,
		&a.EvaluationCriteria, &a.Terms, &a.AllowAutoBidding, &a.IsPrivate, &a.InvitedVendors,
		&maxParticipants, &a.HasAutoExtension, &autoExtMinutes,
		&awardedAt, &a.AwardedBy, &cancellationReason, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.MaxParticipants = int(maxParticipants.Int64)
	a.AutoExtensionMinutes = int(autoExtMinutes.Int64)
	a.CancellationReason = cancellationReason.String
	if awardedAt.Valid {
		t := awardedAt.Time
		a.AwardedAt = &t
	}
	return a, nil
}

func (r *AuctionRepository) Insert(ctx context.Context, a *models.Auction) error {
	const q = `
	INSERT INTO auctions (id, auction_number, vendor_id, title, description,
	        auction_type, sealed_bid_mode, starting_price, reserve_price, buy_now_price,
	        current_bid, min_bid_increment, currency, start_date, end_date, status,
	        service_requirements, evaluation_criteria, terms, allow_auto_bidding,
	        is_private, invited_vendors, max_participants, has_auto_extension,
	        auto_extension_minutes, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,
	        $17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$26)`
	_, err := r.db.ExecContext(ctx, q,
		a.ID, a.AuctionNumber, a.VendorID, a.Title, a.Description,
		a.AuctionType, a.SealedBidMode, a.StartingPrice, a.ReservePrice, a.BuyNowPrice,
		a.CurrentBid, a.MinBidIncrement, a.Currency, a.StartDate, a.EndDate, a.Status,
		a.ServiceRequirements, a.EvaluationCriteria, a.Terms, a.AllowAutoBidding,
		a.IsPrivate, a.InvitedVendors, nullInt(a.MaxParticipants), a.HasAutoExtension,
		nullInt(a.AutoExtensionMinutes), a.CreatedAt,
	)
	return err
}

// UpdateDraft rewrites the editable fields of a draft auction.
func (r *AuctionRepository) UpdateDraft(ctx context.Context, a *models.Auction) error {
	const q = `
	UPDATE auctions
	   SET title=$2, description=$3, auction_type=$4, sealed_bid_mode=$5,
	       starting_price=$6, reserve_price=$7, buy_now_price=$8,
	       min_bid_increment=$9, currency=$10, start_date=$11, end_date=$12,
	       service_requirements=$13, evaluation_criteria=$14, terms=$15,
	       allow_auto_bidding=$16, is_private=$17, invited_vendors=$18,
	       max_participants=$19, has_auto_extension=$20, auto_extension_minutes=$21,
	       updated_at=now()
	 WHERE id=$1 AND status='draft'`
	res, err := r.db.ExecContext(ctx, q,
		a.ID, a.Title, a.Description, a.AuctionType, a.SealedBidMode,
		a.StartingPrice, a.ReservePrice, a.BuyNowPrice,
		a.MinBidIncrement, a.Currency, a.StartDate, a.EndDate,
		a.ServiceRequirements, a.EvaluationCriteria, a.Terms,
		a.AllowAutoBidding, a.IsPrivate, a.InvitedVendors,
		nullInt(a.MaxParticipants), a.HasAutoExtension, nullInt(a.AutoExtensionMinutes),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE id = $1`, id)
	return scanAuction(row)
}

// GetForUpdate locks the auction row for the duration of tx. Every
// state-changing operation on an auction starts here so concurrent bids,
// retractions and closes are serialized per auction.
func (r *AuctionRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.Auction, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE id = $1 FOR UPDATE`, id)
	return scanAuction(row)
}

// UpdateBidState mirrors the derived leader cache and counters back onto
// the auction row inside the bid transaction.
func (r *AuctionRepository) UpdateBidState(ctx context.Context, tx *sql.Tx, a *models.Auction) error {
	const q = `
	UPDATE auctions
	   SET current_bid=$2, end_date=$3, total_bids=$4, total_bidders=$5, updated_at=now()
	 WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, a.ID, a.CurrentBid, a.EndDate, a.TotalBids, a.TotalBidders)
	return err
}

// UpdateLifecycle persists a status transition with its associated
// award/cancellation fields.
func (r *AuctionRepository) UpdateLifecycle(ctx context.Context, tx *sql.Tx, a *models.Auction) error {
	const q = `
	UPDATE auctions
	   SET status=$2, current_bid=$3, winner_id=$4, winning_bid=$5,
	       awarded_at=$6, awarded_by=$7, cancellation_reason=$8, updated_at=now()
	 WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, a.ID, a.Status, a.CurrentBid,
		a.WinnerID, a.WinningBid, a.AwardedAt, a.AwardedBy, nullStr(a.CancellationReason))
	return err
}

type ListAuctionsFilter struct {
	Status      models.AuctionStatus
	AuctionType models.AuctionType
	VendorID    uuid.NullUUID
	Limit       int
	Offset      int
}

func (r *AuctionRepository) List(ctx context.Context, f ListAuctionsFilter) ([]models.Auction, error) {
	if f.Limit == 0 {
		f.Limit = 10
	}
	q := `SELECT ` + auctionColumns + ` FROM auctions WHERE 1=1`
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		q += ` AND status = $` + itoa(len(args))
	}
	if f.AuctionType != "" {
		args = append(args, f.AuctionType)
		q += ` AND auction_type = $` + itoa(len(args))
	}
	if f.VendorID.Valid {
		args = append(args, f.VendorID.UUID)
		q += ` AND vendor_id = $` + itoa(len(args))
	}
	args = append(args, f.Limit, f.Offset)
	q += ` ORDER BY end_date DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]models.Auction, 0, f.Limit)
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

// ActivateDue flips every scheduled auction whose start date has passed to
// active and returns the affected ids. Safe to call on every tick.
func (r *AuctionRepository) ActivateDue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	const q = `
	UPDATE auctions SET status='active', updated_at=now()
	 WHERE status='scheduled' AND start_date <= $1
	 RETURNING id`
	rows, err := r.db.QueryContext(ctx, q, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

// ExpiredActive returns active auctions whose end date has passed.
func (r *AuctionRepository) ExpiredActive(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	const q = `
	SELECT id FROM auctions
	 WHERE status='active' AND end_date <= $1
	 ORDER BY end_date LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

func collectIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func itoa(n int) string { return strconv.Itoa(n) }
