package ws

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Envelope wraps every WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "auctions/bid"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON object
}

// BidRequest is the body for "auctions/bid".
type BidRequest struct {
	Amount    decimal.Decimal  `json:"amount"`
	MaxAmount *decimal.Decimal `json:"max_amount,omitempty"`
	Proposal  string           `json:"proposal,omitempty"`
}

// BidAck echoes the id of the accepted bid.
type BidAck struct {
	BidID string `json:"bid_id"`
}

// RetractRequest is the body for "auctions/retract".
type RetractRequest struct {
	BidID  string `json:"bid_id"`
	Reason string `json:"reason"`
}

// Empty ACK body (useful for many handlers).
type AckBody struct{}

// ErrorBody is returned for failures.
type ErrorBody struct {
	Error string `json:"error"`
}
