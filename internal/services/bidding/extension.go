package bidding

import (
	"time"

	"github.com/google/uuid"

	"auctionhub/internal/models"
)

// MaybeExtend decides whether a bid accepted at bidTime triggers an
// auto-extension. The new end date is bidTime + window (not the old end
// date + window) so rapid-fire bids cannot stack extensions; priorCount
// enforces the configured cap. Returns nil when no extension applies.
func MaybeExtend(a *models.Auction, bidTime time.Time, priorCount, maxExtensions int) *models.AuctionExtension {
	if !a.HasAutoExtension || a.AutoExtensionMinutes <= 0 {
		return nil
	}
	if maxExtensions > 0 && priorCount >= maxExtensions {
		return nil
	}
	window := a.ExtensionWindow()
	if bidTime.Before(a.EndDate.Add(-window)) || !bidTime.Before(a.EndDate) {
		return nil
	}
	newEnd := bidTime.Add(window)
	if !newEnd.After(a.EndDate) {
		return nil
	}
	return &models.AuctionExtension{
		ID:               uuid.New(),
		AuctionID:        a.ID,
		OriginalEndDate:  a.EndDate,
		NewEndDate:       newEnd,
		ExtensionMinutes: a.AutoExtensionMinutes,
		ExtensionType:    models.ExtensionAutomatic,
		CreatedAt:        bidTime,
	}
}
