package bidding

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"auctionhub/internal/models"
)

// Admission is the outcome of an admissibility check for a bid that
// passed validation.
type Admission struct {
	// BuyNow is set when the amount meets the buy-now price and the bid
	// should immediately win the auction.
	BuyNow bool
}

// CheckAdmissible validates a bid against the auction's state, type and
// increment rules. Must be invoked inside the per-auction lock scope so
// the leader it compares against cannot move underneath it.
func CheckAdmissible(a *models.Auction, bidderID uuid.UUID, amount decimal.Decimal, participants int, alreadyBidding bool, now time.Time) (Admission, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return Admission{}, ErrInvalidAmount
	}
	if !a.Status.BiddingOpen() || !now.Before(a.EndDate) {
		return Admission{}, ErrAuctionNotActive
	}
	if bidderID == a.VendorID {
		return Admission{}, ErrOwnAuction
	}
	if a.IsPrivate && !a.InvitedVendors.Contains(bidderID) {
		return Admission{}, ErrNotInvited
	}
	if a.MaxParticipants > 0 && !alreadyBidding && participants >= a.MaxParticipants {
		return Admission{}, ErrAuctionFull
	}

	// Buy-now short-circuits every other price rule. For descending
	// (reverse) auctions the vendor accepts any offer at or under the
	// buy-now price; for ascending ones any offer at or over it.
	if a.BuyNowPrice.Valid {
		buyNow := a.BuyNowPrice.Decimal
		if descending(a.AuctionType, a.SealedBidMode) {
			if amount.LessThanOrEqual(buyNow) {
				return Admission{BuyNow: true}, nil
			}
		} else if amount.GreaterThanOrEqual(buyNow) {
			return Admission{BuyNow: true}, nil
		}
	}

	// Sealed bids are not compared against a hidden leader. Reserve
	// enforcement for sealed auctions happens at award resolution.
	if a.Sealed() {
		return Admission{}, nil
	}

	switch a.AuctionType {
	case models.AuctionReverse:
		if amount.GreaterThan(a.StartingPrice) {
			return Admission{}, ErrBidTooHigh
		}
		base := a.StartingPrice
		if a.CurrentBid.Valid {
			base = a.CurrentBid.Decimal
		}
		if amount.GreaterThan(base.Sub(a.MinBidIncrement)) {
			return Admission{}, ErrBidTooLow
		}
	case models.AuctionForward, models.AuctionDutch:
		if a.ReservePrice.Valid && amount.LessThan(a.ReservePrice.Decimal) {
			return Admission{}, ErrBelowReserve
		}
		base := a.StartingPrice
		if a.CurrentBid.Valid {
			base = a.CurrentBid.Decimal
			if amount.LessThan(base.Add(a.MinBidIncrement)) {
				return Admission{}, ErrBidTooLow
			}
		} else if amount.LessThan(base) {
			// First bid only has to meet the starting price.
			return Admission{}, ErrBidTooLow
		}
	}
	return Admission{}, nil
}
