package auctionlock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auc_lock:"

// Locker is a distributed, TTL-bounded lock per auction id. It guards
// close/finalize against duplicate runs when scheduler ticks race a
// manual close, or when several instances see the same expired auction.
// Bid serialization does not use it; that is the row lock's job.
type Locker struct {
	rdc *redis.Client
	ttl time.Duration
}

func New(rdc *redis.Client, ttl time.Duration) *Locker {
	return &Locker{rdc: rdc, ttl: ttl}
}

// TryAcquire takes the lock if free. Returns false when another holder
// is finalising the same auction.
func (l *Locker) TryAcquire(ctx context.Context, auctionID string) (bool, error) {
	return l.rdc.SetNX(ctx, keyPrefix+auctionID, 1, l.ttl).Result()
}

// Release drops the lock early; the TTL covers crashed holders.
func (l *Locker) Release(ctx context.Context, auctionID string) {
	_ = l.rdc.Del(ctx, keyPrefix+auctionID).Err()
}
