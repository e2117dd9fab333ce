package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"auctionhub/internal/models"
)

type ExtensionRepository struct {
	db *sql.DB
}

func NewExtensionRepository(db *sql.DB) *ExtensionRepository {
	return &ExtensionRepository{db: db}
}

// Insert appends one immutable extension record inside the bid
// transaction.
func (r *ExtensionRepository) Insert(ctx context.Context, tx *sql.Tx, ext *models.AuctionExtension) error {
	const q = `
	INSERT INTO auction_extensions (id, auction_id, original_end_date, new_end_date,
	        extension_minutes, extension_type, reason, extended_by, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := tx.ExecContext(ctx, q,
		ext.ID, ext.AuctionID, ext.OriginalEndDate, ext.NewEndDate,
		ext.ExtensionMinutes, ext.ExtensionType, nullStr(ext.Reason), ext.ExtendedBy, ext.CreatedAt,
	)
	return err
}

// CountByAuction counts prior extensions inside the bid transaction, for
// the configured extension cap.
func (r *ExtensionRepository) CountByAuction(ctx context.Context, tx *sql.Tx, auctionID uuid.UUID) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM auction_extensions WHERE auction_id = $1`, auctionID).Scan(&n)
	return n, err
}

func (r *ExtensionRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]models.AuctionExtension, error) {
	const q = `
	SELECT id, auction_id, original_end_date, new_end_date, extension_minutes,
	       extension_type, reason, extended_by, created_at
	  FROM auction_extensions WHERE auction_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.AuctionExtension
	for rows.Next() {
		var ext models.AuctionExtension
		var reason sql.NullString
		if err := rows.Scan(&ext.ID, &ext.AuctionID, &ext.OriginalEndDate, &ext.NewEndDate,
			&ext.ExtensionMinutes, &ext.ExtensionType, &reason, &ext.ExtendedBy, &ext.CreatedAt); err != nil {
			return nil, err
		}
		ext.Reason = reason.String
		list = append(list, ext)
	}
	return list, rows.Err()
}
