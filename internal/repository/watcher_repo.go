package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"auctionhub/internal/models"
)

type WatcherRepository struct {
	db *sql.DB
}

func NewWatcherRepository(db *sql.DB) *WatcherRepository {
	return &WatcherRepository{db: db}
}

// Upsert creates or refreshes the single watcher record per
// auction+user.
func (r *WatcherRepository) Upsert(ctx context.Context, w *models.AuctionWatcher) error {
	const q = `
	INSERT INTO auction_watchers (id, auction_id, user_id, notify_on_bid, notify_on_end, notify_on_extension, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7)
	ON CONFLICT (auction_id, user_id) DO UPDATE
	        SET notify_on_bid = EXCLUDED.notify_on_bid,
	            notify_on_end = EXCLUDED.notify_on_end,
	            notify_on_extension = EXCLUDED.notify_on_extension`
	_, err := r.db.ExecContext(ctx, q,
		w.ID, w.AuctionID, w.UserID, w.NotifyOnBid, w.NotifyOnEnd, w.NotifyOnExtension, w.CreatedAt)
	return err
}

func (r *WatcherRepository) Delete(ctx context.Context, auctionID, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM auction_watchers WHERE auction_id = $1 AND user_id = $2`, auctionID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *WatcherRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]models.AuctionWatcher, error) {
	const q = `
	SELECT id, auction_id, user_id, notify_on_bid, notify_on_end, notify_on_extension, created_at
	  FROM auction_watchers WHERE auction_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.AuctionWatcher
	for rows.Next() {
		var w models.AuctionWatcher
		if err := rows.Scan(&w.ID, &w.AuctionID, &w.UserID,
			&w.NotifyOnBid, &w.NotifyOnEnd, &w.NotifyOnExtension, &w.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, rows.Err()
}
