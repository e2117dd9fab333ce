package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"auctionhub/internal/models"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Insert appends one audit entry. Activities are never updated or
// deleted.
func (r *ActivityRepository) Insert(ctx context.Context, tx *sql.Tx, act *models.AuctionActivity) error {
	const q = `
	INSERT INTO auction_activities (id, auction_id, user_id, activity_type, description, details, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := tx.ExecContext(ctx, q,
		act.ID, act.AuctionID, act.UserID, act.ActivityType,
		act.Description, act.Details, act.CreatedAt,
	)
	return err
}

// Append inserts one audit entry outside a transaction scope, for
// events that do not share a state change with other rows.
func (r *ActivityRepository) Append(ctx context.Context, act *models.AuctionActivity) error {
	const q = `
	INSERT INTO auction_activities (id, auction_id, user_id, activity_type, description, details, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.db.ExecContext(ctx, q,
		act.ID, act.AuctionID, act.UserID, act.ActivityType,
		act.Description, act.Details, act.CreatedAt,
	)
	return err
}

func (r *ActivityRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID, limit, offset int) ([]models.AuctionActivity, error) {
	if limit == 0 {
		limit = 50
	}
	const q = `
	SELECT id, auction_id, user_id, activity_type, description, details, created_at
	  FROM auction_activities
	 WHERE auction_id = $1
	 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, auctionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.AuctionActivity
	for rows.Next() {
		var act models.AuctionActivity
		if err := rows.Scan(&act.ID, &act.AuctionID, &act.UserID, &act.ActivityType,
			&act.Description, &act.Details, &act.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, act)
	}
	return list, rows.Err()
}
