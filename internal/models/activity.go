package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityBidPlaced        ActivityType = "bid_placed"
	ActivityBidRetracted     ActivityType = "bid_retracted"
	ActivityAuctionStarted   ActivityType = "auction_started"
	ActivityAuctionExtended  ActivityType = "auction_extended"
	ActivityAuctionEnded     ActivityType = "auction_ended"
	ActivityAuctionAwarded   ActivityType = "auction_awarded"
	ActivityAuctionCancelled ActivityType = "auction_cancelled"
	ActivityBuyNow           ActivityType = "buy_now"
	ActivityQuestionAsked    ActivityType = "question_asked"
	ActivityQuestionAnswered ActivityType = "question_answered"
)

// ActivityDetails is the free-form payload attached to a log entry.
type ActivityDetails map[string]any

func (d ActivityDetails) Value() (driver.Value, error) { return jsonValue(map[string]any(d)) }
func (d *ActivityDetails) Scan(src any) error          { return jsonScan(src, (*map[string]any)(d)) }

// AuctionActivity is one append-only audit log entry.
type AuctionActivity struct {
	ID           uuid.UUID
	AuctionID    uuid.UUID
	UserID       uuid.NullUUID
	ActivityType ActivityType
	Description  string
	Details      ActivityDetails
	CreatedAt    time.Time
}
