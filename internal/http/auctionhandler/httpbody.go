package auctionhandler

import (
	"time"

	"github.com/shopspring/decimal"

	"auctionhub/internal/models"
)

type CreateAuctionBody struct {
	VendorID             string                     `json:"vendor_id" binding:"required,uuid"`
	Title                string                     `json:"title"     binding:"required"`
	Description          string                     `json:"description"`
	AuctionType          string                     `json:"auction_type" binding:"required,oneof=reverse forward sealed_bid dutch"`
	SealedBidMode        string                     `json:"sealed_bid_mode" binding:"omitempty,oneof=lowest highest"`
	StartingPrice        decimal.Decimal            `json:"starting_price" binding:"required"`
	ReservePrice         *decimal.Decimal           `json:"reserve_price"`
	BuyNowPrice          *decimal.Decimal           `json:"buy_now_price"`
	MinBidIncrement      decimal.Decimal            `json:"min_bid_increment"`
	Currency             string                     `json:"currency" binding:"omitempty,len=3"`
	StartDate            time.Time                  `json:"start_date" binding:"required"`
	EndDate              time.Time                  `json:"end_date"   binding:"required"`
	ServiceRequirements  models.ServiceRequirements `json:"service_requirements"`
	EvaluationCriteria   models.EvaluationCriteria  `json:"evaluation_criteria"`
	Terms                models.Terms               `json:"terms"`
	AllowAutoBidding     bool                       `json:"allow_auto_bidding"`
	IsPrivate            bool                       `json:"is_private"`
	InvitedVendors       []string                   `json:"invited_vendors" binding:"omitempty,dive,uuid"`
	MaxParticipants      int                        `json:"max_participants" binding:"gte=0"`
	HasAutoExtension     bool                       `json:"has_auto_extension"`
	AutoExtensionMinutes int                        `json:"auto_extension_minutes" binding:"gte=0"`
} // @name CreateAuctionRequest

type CancelAuctionBody struct {
	ActorID string `json:"actor_id" binding:"required,uuid"`
	Reason  string `json:"reason"   binding:"required"`
} // @name CancelAuctionRequest

type CloseAuctionBody struct {
	ActorID string `json:"actor_id" binding:"omitempty,uuid"`
} // @name CloseAuctionRequest

type ExtendAuctionBody struct {
	ActorID string `json:"actor_id" binding:"required,uuid"`
	Minutes int    `json:"minutes"  binding:"required,min=1"`
	Reason  string `json:"reason"`
} // @name ExtendAuctionRequest

type PlaceBidBody struct {
	BidderID         string                  `json:"bidder_id" binding:"required,uuid"`
	Amount           decimal.Decimal         `json:"amount"    binding:"required"`
	MaxAmount        *decimal.Decimal        `json:"max_amount"`
	BidType          string                  `json:"bid_type" binding:"omitempty,oneof=manual automatic proxy"`
	Proposal         string                  `json:"proposal"`
	DeliveryTimeline models.DeliveryTimeline `json:"delivery_timeline"`
	Qualifications   models.Qualifications   `json:"qualifications"`
} // @name PlaceBidRequest

type RetractBidBody struct {
	Reason string `json:"reason" binding:"required"`
} // @name RetractBidRequest

type EvaluateBidBody struct {
	EvaluatorID     string           `json:"evaluator_id" binding:"required,uuid"`
	PriceScore      *decimal.Decimal `json:"price_score"`
	QualityScore    *decimal.Decimal `json:"quality_score"`
	TimelineScore   *decimal.Decimal `json:"timeline_score"`
	ExperienceScore *decimal.Decimal `json:"experience_score"`
	Comments        string           `json:"comments"`
} // @name EvaluateBidRequest

type WatchBody struct {
	UserID            string `json:"user_id" binding:"required,uuid"`
	NotifyOnBid       bool   `json:"notify_on_bid"`
	NotifyOnEnd       bool   `json:"notify_on_end"`
	NotifyOnExtension bool   `json:"notify_on_extension"`
} // @name WatchRequest

type AskQuestionBody struct {
	AskerID  string `json:"asker_id" binding:"required,uuid"`
	Question string `json:"question" binding:"required"`
	IsPublic *bool  `json:"is_public"`
} // @name AskQuestionRequest

type AnswerQuestionBody struct {
	AnsweredBy string `json:"answered_by" binding:"required,uuid"`
	Answer     string `json:"answer"      binding:"required"`
} // @name AnswerQuestionRequest

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse

type ListAuctionsQuery struct {
	Status      string `form:"status"       binding:"omitempty,oneof=draft scheduled active ended cancelled awarded"`
	AuctionType string `form:"auction_type" binding:"omitempty,oneof=reverse forward sealed_bid dutch"`
	VendorID    string `form:"vendor_id"    binding:"omitempty,uuid"`
	Limit       int    `form:"limit,default=10"  binding:"gte=0,lte=100"`
	Offset      int    `form:"offset,default=0"  binding:"gte=0"`
} // @name ListAuctionsQuery

type ActivitiesQuery struct {
	Limit  int `form:"limit,default=50"  binding:"gte=0,lte=200"`
	Offset int `form:"offset,default=0"  binding:"gte=0"`
} // @name ActivitiesQuery

type AuctionDTO struct {
	ID                   string                     `json:"id"`
	AuctionNumber        string                     `json:"auction_number"`
	VendorID             string                     `json:"vendor_id"`
	Title                string                     `json:"title"`
	Description          string                     `json:"description,omitempty"`
	AuctionType          string                     `json:"auction_type"`
	SealedBidMode        string                     `json:"sealed_bid_mode,omitempty"`
	StartingPrice        decimal.Decimal            `json:"starting_price"`
	ReservePrice         *decimal.Decimal           `json:"reserve_price,omitempty"`
	BuyNowPrice          *decimal.Decimal           `json:"buy_now_price,omitempty"`
	CurrentBid           *decimal.Decimal           `json:"current_bid,omitempty"`
	MinBidIncrement      decimal.Decimal            `json:"min_bid_increment"`
	Currency             string                     `json:"currency"`
	StartDate            time.Time                  `json:"start_date"`
	EndDate              time.Time                  `json:"end_date"`
	Status               string                     `json:"status"`
	TotalBids            int                        `json:"total_bids"`
	TotalBidders         int                        `json:"total_bidders"`
	WinnerID             *string                    `json:"winner_id,omitempty"`
	WinningBid           *decimal.Decimal           `json:"winning_bid,omitempty"`
	ServiceRequirements  models.ServiceRequirements `json:"service_requirements"`
	EvaluationCriteria   models.EvaluationCriteria  `json:"evaluation_criteria"`
	Terms                models.Terms               `json:"terms"`
	AllowAutoBidding     bool                       `json:"allow_auto_bidding"`
	IsPrivate            bool                       `json:"is_private"`
	MaxParticipants      int                        `json:"max_participants,omitempty"`
	HasAutoExtension     bool                       `json:"has_auto_extension"`
	AutoExtensionMinutes int                        `json:"auto_extension_minutes,omitempty"`
	AwardedAt            *time.Time                 `json:"awarded_at,omitempty"`
	CancellationReason   string                     `json:"cancellation_reason,omitempty"`
	CreatedAt            time.Time                  `json:"created_at"`
	UpdatedAt            time.Time                  `json:"updated_at"`
} // @name Auction

type BidDTO struct {
	ID               string                  `json:"id"`
	AuctionID        string                  `json:"auction_id"`
	BidderID         string                  `json:"bidder_id"`
	Amount           *decimal.Decimal        `json:"amount,omitempty"`
	BidType          string                  `json:"bid_type"`
	IsWinning        bool                    `json:"is_winning"`
	Proposal         string                  `json:"proposal,omitempty"`
	DeliveryTimeline models.DeliveryTimeline `json:"delivery_timeline"`
	Qualifications   models.Qualifications   `json:"qualifications"`
	Retracted        bool                    `json:"retracted"`
	RetractionReason string                  `json:"retraction_reason,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
} // @name Bid

type EvaluationDTO struct {
	ID              string          `json:"id"`
	BidID           string          `json:"bid_id"`
	EvaluatorID     string          `json:"evaluator_id"`
	PriceScore      decimal.Decimal `json:"price_score"`
	QualityScore    decimal.Decimal `json:"quality_score"`
	TimelineScore   decimal.Decimal `json:"timeline_score"`
	ExperienceScore decimal.Decimal `json:"experience_score"`
	TotalScore      decimal.Decimal `json:"total_score"`
	Comments        string          `json:"comments,omitempty"`
	SubmittedAt     time.Time       `json:"submitted_at"`
} // @name Evaluation

type ExtensionDTO struct {
	ID               string    `json:"id"`
	OriginalEndDate  time.Time `json:"original_end_date"`
	NewEndDate       time.Time `json:"new_end_date"`
	ExtensionMinutes int       `json:"extension_minutes"`
	ExtensionType    string    `json:"extension_type"`
	Reason           string    `json:"reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
} // @name Extension

type QuestionDTO struct {
	ID         string     `json:"id"`
	AuctionID  string     `json:"auction_id"`
	AskerID    string     `json:"asker_id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer,omitempty"`
	IsAnswered bool       `json:"is_answered"`
	IsPublic   bool       `json:"is_public"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
} // @name Question

type ActivityDTO struct {
	ID           string                 `json:"id"`
	AuctionID    string                 `json:"auction_id"`
	UserID       *string                `json:"user_id,omitempty"`
	ActivityType string                 `json:"activity_type"`
	Description  string                 `json:"description"`
	Details      models.ActivityDetails `json:"details,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
} // @name Activity

func toAuctionDTO(a *models.Auction) AuctionDTO {
	dto := AuctionDTO{
		ID:                   a.ID.String(),
		AuctionNumber:        a.AuctionNumber,
		VendorID:             a.VendorID.String(),
		Title:                a.Title,
		Description:          a.Description,
		AuctionType:          string(a.AuctionType),
		StartingPrice:        a.StartingPrice,
		MinBidIncrement:      a.MinBidIncrement,
		Currency:             a.Currency,
		StartDate:            a.StartDate,
		EndDate:              a.EndDate,
		Status:               string(a.Status),
		TotalBids:            a.TotalBids,
		TotalBidders:         a.TotalBidders,
		ServiceRequirements:  a.ServiceRequirements,
		EvaluationCriteria:   a.EvaluationCriteria,
		Terms:                a.Terms,
		AllowAutoBidding:     a.AllowAutoBidding,
		IsPrivate:            a.IsPrivate,
		MaxParticipants:      a.MaxParticipants,
		HasAutoExtension:     a.HasAutoExtension,
		AutoExtensionMinutes: a.AutoExtensionMinutes,
		AwardedAt:            a.AwardedAt,
		CancellationReason:   a.CancellationReason,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
	if a.Sealed() {
		dto.SealedBidMode = string(a.SealedBidMode)
	}
	if a.ReservePrice.Valid {
		dto.ReservePrice = &a.ReservePrice.Decimal
	}
	if a.BuyNowPrice.Valid {
		dto.BuyNowPrice = &a.BuyNowPrice.Decimal
	}
	// sealed auctions never expose the running best bid before close
	if a.CurrentBid.Valid && !a.BidsSealed() {
		dto.CurrentBid = &a.CurrentBid.Decimal
	}
	if a.WinnerID.Valid {
		id := a.WinnerID.UUID.String()
		dto.WinnerID = &id
	}
	if a.WinningBid.Valid {
		dto.WinningBid = &a.WinningBid.Decimal
	}
	return dto
}

// toBidDTO renders one bid, dropping the amount when maskAmount is set
// (sealed auction still in progress).
func toBidDTO(b *models.Bid, maskAmount bool) BidDTO {
	dto := BidDTO{
		ID:               b.ID.String(),
		AuctionID:        b.AuctionID.String(),
		BidderID:         b.BidderID.String(),
		BidType:          string(b.BidType),
		IsWinning:        b.IsWinning,
		Proposal:         b.Proposal,
		DeliveryTimeline: b.DeliveryTimeline,
		Qualifications:   b.Qualifications,
		Retracted:        b.Retracted(),
		RetractionReason: b.RetractionReason,
		CreatedAt:        b.CreatedAt,
	}
	if !maskAmount {
		amt := b.Amount
		dto.Amount = &amt
	}
	return dto
}

func toEvaluationDTO(e *models.BidEvaluation) EvaluationDTO {
	return EvaluationDTO{
		ID:              e.ID.String(),
		BidID:           e.BidID.String(),
		EvaluatorID:     e.EvaluatorID.String(),
		PriceScore:      e.PriceScore,
		QualityScore:    e.QualityScore,
		TimelineScore:   e.TimelineScore,
		ExperienceScore: e.ExperienceScore,
		TotalScore:      e.TotalScore,
		Comments:        e.Comments,
		SubmittedAt:     e.SubmittedAt,
	}
}

func toExtensionDTO(e *models.AuctionExtension) ExtensionDTO {
	return ExtensionDTO{
		ID:               e.ID.String(),
		OriginalEndDate:  e.OriginalEndDate,
		NewEndDate:       e.NewEndDate,
		ExtensionMinutes: e.ExtensionMinutes,
		ExtensionType:    string(e.ExtensionType),
		Reason:           e.Reason,
		CreatedAt:        e.CreatedAt,
	}
}

func toQuestionDTO(q *models.AuctionQuestion) QuestionDTO {
	return QuestionDTO{
		ID:         q.ID.String(),
		AuctionID:  q.AuctionID.String(),
		AskerID:    q.AskerID.String(),
		Question:   q.Question,
		Answer:     q.Answer,
		IsAnswered: q.IsAnswered,
		IsPublic:   q.IsPublic,
		AnsweredAt: q.AnsweredAt,
		CreatedAt:  q.CreatedAt,
	}
}

func toActivityDTO(a *models.AuctionActivity) ActivityDTO {
	dto := ActivityDTO{
		ID:           a.ID.String(),
		AuctionID:    a.AuctionID.String(),
		ActivityType: string(a.ActivityType),
		Description:  a.Description,
		Details:      a.Details,
		CreatedAt:    a.CreatedAt,
	}
	if a.UserID.Valid {
		id := a.UserID.UUID.String()
		dto.UserID = &id
	}
	return dto
}
