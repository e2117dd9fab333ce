package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidEvaluation is one evaluator's scored assessment of one bid.
// Immutable once submitted.
type BidEvaluation struct {
	ID              uuid.UUID
	BidID           uuid.UUID
	AuctionID       uuid.UUID
	EvaluatorID     uuid.UUID
	PriceScore      decimal.Decimal
	QualityScore    decimal.Decimal
	TimelineScore   decimal.Decimal
	ExperienceScore decimal.Decimal
	TotalScore      decimal.Decimal
	Comments        string
	SubmittedAt     time.Time
}
