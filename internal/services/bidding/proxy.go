package bidding

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"auctionhub/internal/models"
)

// maxProxyRounds bounds the counter-bid loop inside one bid transaction.
// A proxy war between two standing limits converges in two rounds; the
// bound only guards against pathological limit ladders.
const maxProxyRounds = 25

// proxyLimit returns the standing automatic-bid limit for one bidder: the
// widest max amount across their non-retracted proxy bids.
func proxyLimit(a *models.Auction, bids []models.Bid, bidderID uuid.UUID) (decimal.Decimal, bool) {
	var limit decimal.Decimal
	found := false
	for i := range bids {
		b := &bids[i]
		if b.BidderID != bidderID || b.Retracted() || !b.MaxAmount.Valid {
			continue
		}
		if b.BidType != models.BidProxy && b.BidType != models.BidAutomatic {
			continue
		}
		m := b.MaxAmount.Decimal
		if !found || Improves(a.AuctionType, a.SealedBidMode, m, limit) {
			limit = m
			found = true
		}
	}
	return limit, found
}

// NextProxyCounter computes the automatic counter-bid the system places
// on behalf of an outbid proxy bidder, or nil when no standing limit can
// beat the leader. The counter lands exactly one increment past the
// leader, clamped to the proxy holder's limit.
func NextProxyCounter(a *models.Auction, bids []models.Bid, leader *models.Bid, now time.Time) *models.Bid {
	if leader == nil || !a.AllowAutoBidding || a.Sealed() {
		return nil
	}

	inc := a.MinBidIncrement
	var target decimal.Decimal
	if descending(a.AuctionType, a.SealedBidMode) {
		target = leader.Amount.Sub(inc)
	} else {
		target = leader.Amount.Add(inc)
	}

	// Best limit among everyone except the current leader.
	seen := map[uuid.UUID]bool{leader.BidderID: true}
	var holder uuid.UUID
	var limit decimal.Decimal
	found := false
	for i := range bids {
		id := bids[i].BidderID
		if seen[id] {
			continue
		}
		seen[id] = true
		l, ok := proxyLimit(a, bids, id)
		if !ok {
			continue
		}
		if !found || Improves(a.AuctionType, a.SealedBidMode, l, limit) {
			holder, limit, found = id, l, true
		}
	}
	if !found {
		return nil
	}

	// The limit must cover the target amount.
	if descending(a.AuctionType, a.SealedBidMode) {
		if limit.GreaterThan(target) {
			return nil
		}
	} else if limit.LessThan(target) {
		return nil
	}

	return &models.Bid{
		ID:        uuid.New(),
		AuctionID: a.ID,
		BidderID:  holder,
		Amount:    target,
		MaxAmount: decimal.NullDecimal{Decimal: limit, Valid: true},
		BidType:   models.BidAutomatic,
		CreatedAt: now,
	}
}
