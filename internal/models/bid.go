package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BidType string

const (
	BidManual    BidType = "manual"
	BidAutomatic BidType = "automatic"
	BidProxy     BidType = "proxy"
)

// Milestone is one step of a bid's proposed delivery timeline.
type Milestone struct {
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	DeliveryDays int             `json:"delivery_days"`
	Payment      decimal.Decimal `json:"payment"`
}

// DeliveryTimeline is the bidder's proposed schedule.
type DeliveryTimeline struct {
	EstimatedDays int         `json:"estimated_days"`
	Milestones    []Milestone `json:"milestones,omitempty"`
}

func (d DeliveryTimeline) Value() (driver.Value, error) { return jsonValue(d) }
func (d *DeliveryTimeline) Scan(src any) error          { return jsonScan(src, d) }

// Qualifications describes the bidder's fitness for the work.
type Qualifications struct {
	Experience     string   `json:"experience,omitempty"`
	PortfolioItems []string `json:"portfolio_items,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	TeamSize       int      `json:"team_size,omitempty"`
	Availability   string   `json:"availability,omitempty"`
}

func (q Qualifications) Value() (driver.Value, error) { return jsonValue(q) }
func (q *Qualifications) Scan(src any) error          { return jsonScan(src, q) }

// Bid is one participant's offer within an auction. Bids are never
// deleted; retraction only sets RetractedAt and RetractionReason.
type Bid struct {
	ID               uuid.UUID
	AuctionID        uuid.UUID
	BidderID         uuid.UUID
	Amount           decimal.Decimal
	MaxAmount        decimal.NullDecimal
	BidType          BidType
	IsWinning        bool
	Proposal         string
	DeliveryTimeline DeliveryTimeline
	Qualifications   Qualifications
	RetractedAt      *time.Time
	RetractionReason string
	CreatedAt        time.Time
}

// Retracted reports whether the bid has been withdrawn.
func (b *Bid) Retracted() bool { return b.RetractedAt != nil }
