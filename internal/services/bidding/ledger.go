package bidding

import (
	"github.com/shopspring/decimal"

	"auctionhub/internal/models"
)

// Improves reports whether amount beats current in the price direction of
// the auction type (strictly; increment rules are applied separately).
func Improves(t models.AuctionType, mode models.SealedBidMode, amount, current decimal.Decimal) bool {
	if descending(t, mode) {
		return amount.LessThan(current)
	}
	return amount.GreaterThan(current)
}

func descending(t models.AuctionType, mode models.SealedBidMode) bool {
	if t == models.AuctionSealedBid {
		return mode == models.SealedLowest
	}
	return t.Descending()
}

// Leader returns the current leading bid of an auction, or nil. Sealed-bid
// auctions have no leader before close; retracted bids never lead. Ties on
// amount go to the earliest submission.
func Leader(a *models.Auction, bids []models.Bid) *models.Bid {
	if a.Sealed() {
		return nil
	}
	return BestBid(a, bids)
}

// BestBid ranks non-retracted bids by the auction's price direction,
// breaking ties by earliest submission. Unlike Leader it also ranks
// sealed-bid auctions, for use at award resolution.
func BestBid(a *models.Auction, bids []models.Bid) *models.Bid {
	var best *models.Bid
	for i := range bids {
		b := &bids[i]
		if b.Retracted() {
			continue
		}
		if best == nil {
			best = b
			continue
		}
		switch {
		case Improves(a.AuctionType, a.SealedBidMode, b.Amount, best.Amount):
			best = b
		case b.Amount.Equal(best.Amount) && b.CreatedAt.Before(best.CreatedAt):
			best = b
		}
	}
	return best
}
