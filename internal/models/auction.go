package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	AuctionType   string // Pricing mode of an auction
	AuctionStatus string // Lifecycle status of an auction
	SealedBidMode string // Winner direction for sealed-bid auctions
)

const (
	AuctionReverse   AuctionType = "reverse"
	AuctionForward   AuctionType = "forward"
	AuctionSealedBid AuctionType = "sealed_bid"
	AuctionDutch     AuctionType = "dutch"

	StatusDraft     AuctionStatus = "draft"
	StatusScheduled AuctionStatus = "scheduled"
	StatusActive    AuctionStatus = "active"
	StatusEnded     AuctionStatus = "ended"
	StatusCancelled AuctionStatus = "cancelled"
	StatusAwarded   AuctionStatus = "awarded"

	SealedLowest  SealedBidMode = "lowest"
	SealedHighest SealedBidMode = "highest"
)

// Terminal reports whether no further transition may leave the status.
func (s AuctionStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusAwarded
}

// BiddingOpen reports whether bids may be accepted in this status.
func (s AuctionStatus) BiddingOpen() bool {
	return s == StatusActive
}

// Descending reports whether lower bids win for this auction type.
// Sealed-bid direction is decided by the auction's SealedBidMode instead.
func (t AuctionType) Descending() bool {
	return t == AuctionReverse
}

// BudgetRange bounds the acceptable spend for a procurement auction.
type BudgetRange struct {
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Currency string          `json:"currency"`
}

// ServiceRequirements describes the work being auctioned. A complete
// payload (scope, deliverables, timeline) is required before publishing.
type ServiceRequirements struct {
	Scope           string      `json:"scope"`
	Deliverables    []string    `json:"deliverables"`
	Timeline        string      `json:"timeline"`
	SkillsRequired  []string    `json:"skills_required,omitempty"`
	ExperienceLevel string      `json:"experience_level,omitempty"`
	Budget          BudgetRange `json:"budget"`
	Remote          bool        `json:"remote,omitempty"`
}

func (r ServiceRequirements) Complete() bool {
	return r.Scope != "" && len(r.Deliverables) > 0 && r.Timeline != ""
}

func (r ServiceRequirements) Value() (driver.Value, error) { return jsonValue(r) }
func (r *ServiceRequirements) Scan(src any) error          { return jsonScan(src, r) }

// EvaluationCriteria holds percentage weights for criteria-weighted
// auctions. Weights are normalized at scoring time, so they need not sum
// to exactly 100.
type EvaluationCriteria struct {
	Price      float64 `json:"price"`
	Quality    float64 `json:"quality"`
	Timeline   float64 `json:"timeline"`
	Experience float64 `json:"experience"`
	Reviews    float64 `json:"reviews,omitempty"`
}

// Weighted reports whether any criterion carries a non-zero weight.
func (c EvaluationCriteria) Weighted() bool {
	return c.Price > 0 || c.Quality > 0 || c.Timeline > 0 || c.Experience > 0 || c.Reviews > 0
}

func (c EvaluationCriteria) Value() (driver.Value, error) { return jsonValue(c) }
func (c *EvaluationCriteria) Scan(src any) error          { return jsonScan(src, c) }

// Terms carries the commercial terms attached to an auction.
type Terms struct {
	PaymentTerms       string `json:"payment_terms,omitempty"`
	CancellationPolicy string `json:"cancellation_policy,omitempty"`
	RevisionRounds     int    `json:"revision_rounds,omitempty"`
	WarrantyCoverage   string `json:"warranty_coverage,omitempty"`
	SupportIncluded    bool   `json:"support_included,omitempty"`
}

func (t Terms) Value() (driver.Value, error) { return jsonValue(t) }
func (t *Terms) Scan(src any) error          { return jsonScan(src, t) }

// UUIDList is a JSONB-stored list of user/vendor ids (invite lists).
type UUIDList []uuid.UUID

func (l UUIDList) Value() (driver.Value, error) { return jsonValue([]uuid.UUID(l)) }
func (l *UUIDList) Scan(src any) error          { return jsonScan(src, (*[]uuid.UUID)(l)) }

func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Auction is one procurement/sale event owned by a vendor.
type Auction struct {
	ID                   uuid.UUID
	AuctionNumber        string
	VendorID             uuid.UUID
	Title                string
	Description          string
	AuctionType          AuctionType
	SealedBidMode        SealedBidMode
	StartingPrice        decimal.Decimal
	ReservePrice         decimal.NullDecimal
	BuyNowPrice          decimal.NullDecimal
	CurrentBid           decimal.NullDecimal
	MinBidIncrement      decimal.Decimal
	Currency             string
	StartDate            time.Time
	EndDate              time.Time
	Status               AuctionStatus
	TotalBids            int
	TotalBidders         int
	WinnerID             uuid.NullUUID
	WinningBid           decimal.NullDecimal
	ServiceRequirements  ServiceRequirements
	EvaluationCriteria   EvaluationCriteria
	Terms                Terms
	AllowAutoBidding     bool
	IsPrivate            bool
	InvitedVendors       UUIDList
	MaxParticipants      int
	HasAutoExtension     bool
	AutoExtensionMinutes int
	AwardedAt            *time.Time
	AwardedBy            uuid.NullUUID
	CancellationReason   string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Sealed reports whether leader visibility is suppressed until close.
func (a *Auction) Sealed() bool {
	return a.AuctionType == AuctionSealedBid
}

// BidsSealed reports whether bid amounts are still hidden from callers.
// Sealed bids are opened once the auction closes, whatever the outcome.
func (a *Auction) BidsSealed() bool {
	return a.Sealed() && a.Status != StatusEnded && !a.Status.Terminal()
}

// ExtensionWindow is the duration before EndDate within which an accepted
// bid triggers an auto-extension.
func (a *Auction) ExtensionWindow() time.Duration {
	return time.Duration(a.AutoExtensionMinutes) * time.Minute
}

type ExtensionType string

const (
	ExtensionAutomatic ExtensionType = "automatic"
	ExtensionManual    ExtensionType = "manual"
	ExtensionAdmin     ExtensionType = "admin"
)

// AuctionExtension is an immutable record of one end-date extension.
type AuctionExtension struct {
	ID               uuid.UUID
	AuctionID        uuid.UUID
	OriginalEndDate  time.Time
	NewEndDate       time.Time
	ExtensionMinutes int
	ExtensionType    ExtensionType
	Reason           string
	ExtendedBy       uuid.NullUUID
	CreatedAt        time.Time
}

// AuctionWatcher records one user's interest in an auction.
type AuctionWatcher struct {
	ID                uuid.UUID
	AuctionID         uuid.UUID
	UserID            uuid.UUID
	NotifyOnBid       bool
	NotifyOnEnd       bool
	NotifyOnExtension bool
	CreatedAt         time.Time
}

// AuctionQuestion is one public Q&A entry on an auction.
type AuctionQuestion struct {
	ID         uuid.UUID
	AuctionID  uuid.UUID
	AskerID    uuid.UUID
	Question   string
	Answer     string
	AnsweredBy uuid.NullUUID
	AnsweredAt *time.Time
	IsAnswered bool
	IsPublic   bool
	CreatedAt  time.Time
}
