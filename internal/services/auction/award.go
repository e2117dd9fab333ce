package auction

import (
	"github.com/shopspring/decimal"

	"auctionhub/internal/models"
	"auctionhub/internal/services/bidding"
	"auctionhub/internal/services/evaluation"
)

// Award is the outcome of award resolution: the winning bid plus its
// weighted score when the auction was decided on criteria.
type Award struct {
	Bid   *models.Bid
	Score decimal.NullDecimal
}

// eligibleBids filters the history down to bids that may still win:
// non-retracted, and meeting the reserve where the reserve applies
// (ascending price modes only).
func eligibleBids(a *models.Auction, bids []models.Bid) []models.Bid {
	ascendingReserve := a.ReservePrice.Valid &&
		(a.AuctionType == models.AuctionForward || a.AuctionType == models.AuctionDutch ||
			(a.AuctionType == models.AuctionSealedBid && a.SealedBidMode == models.SealedHighest))

	out := make([]models.Bid, 0, len(bids))
	for i := range bids {
		b := bids[i]
		if b.Retracted() {
			continue
		}
		if ascendingReserve && b.Amount.LessThan(a.ReservePrice.Decimal) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// criteriaWeighted reports whether this auction is decided on weighted
// evaluation scores rather than price alone. Only procurement-style
// auctions (reverse, sealed) carry evaluation criteria.
func criteriaWeighted(a *models.Auction) bool {
	if a.AuctionType == models.AuctionForward || a.AuctionType == models.AuctionDutch {
		return false
	}
	return a.EvaluationCriteria.Weighted()
}

// ResolveAward selects the winner at close. Criteria-weighted auctions
// award the highest averaged-then-weighted total among evaluated bids,
// falling back to the price rule when nothing was evaluated; everything
// else awards on price. Ties always break to the earliest submission.
func ResolveAward(a *models.Auction, bids []models.Bid, evals []models.BidEvaluation) (*Award, error) {
	eligible := eligibleBids(a, bids)
	if len(eligible) == 0 {
		return nil, ErrNoEligibleBids
	}

	if criteriaWeighted(a) && len(evals) > 0 {
		scores := evaluation.ScoreBids(a.EvaluationCriteria, evals)
		var best *models.Bid
		var bestScore decimal.Decimal
		for i := range eligible {
			b := &eligible[i]
			score, ok := scores[b.ID]
			if !ok {
				continue
			}
			switch {
			case best == nil, score.GreaterThan(bestScore):
				best, bestScore = b, score
			case score.Equal(bestScore) && b.CreatedAt.Before(best.CreatedAt):
				best = b
			}
		}
		if best != nil {
			return &Award{Bid: best, Score: decimal.NullDecimal{Decimal: bestScore, Valid: true}}, nil
		}
		// No eligible bid was evaluated; decide on price instead.
	}

	best := bidding.BestBid(a, eligible)
	if best == nil {
		return nil, ErrNoEligibleBids
	}
	return &Award{Bid: best}, nil
}
