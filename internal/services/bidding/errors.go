package bidding

import "errors"

var (
	// ErrAuctionNotActive rejects bids outside the active bidding window.
	ErrAuctionNotActive = errors.New("auction is not accepting bids")

	// ErrBidTooLow rejects a bid that does not improve on the current
	// leader by the minimum increment, in either price direction.
	ErrBidTooLow = errors.New("bid does not beat the current bid by the minimum increment")

	// ErrBidTooHigh rejects a reverse-auction bid above the starting price.
	ErrBidTooHigh = errors.New("bid exceeds the auction starting price")

	// ErrBelowReserve rejects forward/dutch bids under the reserve price.
	ErrBelowReserve = errors.New("bid is below the reserve price")

	ErrInvalidAmount   = errors.New("bid amount must be positive")
	ErrOwnAuction      = errors.New("vendor cannot bid on their own auction")
	ErrNotInvited      = errors.New("bidder is not invited to this private auction")
	ErrAuctionFull     = errors.New("auction has reached its maximum participant count")
	ErrBidRetracted    = errors.New("bid is already retracted")
	ErrRetractionClose = errors.New("bids cannot be retracted after the auction closes")

	// ErrConflict is returned when the per-auction lock race is lost;
	// callers should retry against fresh state.
	ErrConflict = errors.New("concurrent update conflict, retry the operation")
)
