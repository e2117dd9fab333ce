// Package scheduler drives the time based lifecycle moves: activating
// scheduled auctions whose start date passed and closing active
// auctions whose end date passed. Every step is idempotent, so running
// more than one instance is safe.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"auctionhub/internal/services/auction"
)

// Run ticks the lifecycle sweep until ctx is cancelled.
func Run(ctx context.Context, svc auction.IAuctionService, interval time.Duration) {
	tk := time.NewTicker(interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				tick(ctx, svc)
			}
		}
	}()
}

func tick(ctx context.Context, svc auction.IAuctionService) {
	started, err := svc.ActivateDue(ctx)
	if err != nil {
		zap.L().Error("scheduler.activate", zap.Error(err))
	} else if started > 0 {
		zap.L().Info("auctions_activated", zap.Int("count", started))
	}

	closed, err := svc.CloseExpired(ctx)
	if err != nil {
		zap.L().Error("scheduler.close", zap.Error(err))
	} else if closed > 0 {
		zap.L().Info("auctions_closed", zap.Int("count", closed))
	}
}
