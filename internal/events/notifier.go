package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Notifier pushes live auction events to in-process and cross-instance
// subscribers. Calls are fire-and-forget and sit outside the
// transactional boundary; the outbox is the durable path.
type Notifier interface {
	Notify(ctx context.Context, event string, auctionID uuid.UUID, body map[string]any)
}

// RedisNotifier publishes events on the per-auction "auc:<id>:events"
// pub/sub channel that the WS fan-out subscribes to.
type RedisNotifier struct {
	rdc *redis.Client
}

func NewRedisNotifier(rdc *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdc: rdc}
}

func (n *RedisNotifier) Notify(ctx context.Context, event string, auctionID uuid.UUID, body map[string]any) {
	payload, err := Marshal(event, auctionID, time.Now().UTC(), body)
	if err != nil {
		zap.L().Warn("notify_marshal", zap.Error(err))
		return
	}
	if err := n.rdc.Publish(ctx, "auc:"+auctionID.String()+":events", payload).Err(); err != nil {
		zap.L().Warn("notify_publish", zap.String("event", event), zap.Error(err))
	}
}

// NopNotifier discards events; used in tests.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, uuid.UUID, map[string]any) {}
