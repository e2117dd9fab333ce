package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Routing keys on the auction events exchange. The same names double as
// the WS event names pushed to auction rooms.
const (
	EventBidPlaced        = "auction.bid_placed"
	EventBidRetracted     = "auction.bid_retracted"
	EventAuctionStarted   = "auction.started"
	EventAuctionExtended  = "auction.extended"
	EventAuctionEnded     = "auction.ended"
	EventAuctionAwarded   = "auction.awarded"
	EventAuctionCancelled = "auction.cancelled"
)

// Payload is the JSON body of one auction event, as written to the
// outbox and published to subscribers.
type Payload struct {
	Event      string         `json:"event"`
	AuctionID  uuid.UUID      `json:"auction_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Body       map[string]any `json:"body,omitempty"`
}

func Marshal(event string, auctionID uuid.UUID, occurredAt time.Time, body map[string]any) ([]byte, error) {
	return json.Marshal(Payload{
		Event:      event,
		AuctionID:  auctionID,
		OccurredAt: occurredAt,
		Body:       body,
	})
}
