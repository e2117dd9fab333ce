package evaluation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"auctionhub/internal/models"
	"auctionhub/internal/repository"
)

var (
	// ErrMissingCriteria rejects an evaluation lacking one of the four
	// required sub-scores.
	ErrMissingCriteria = errors.New("evaluation must score price, quality, timeline and experience")

	ErrScoreOutOfRange = errors.New("scores must be between 0 and 10")

	// ErrNotEvaluable rejects evaluations of retracted bids.
	ErrNotEvaluable = errors.New("bid is not evaluable")
)

// Scores carries one evaluator's sub-scores. Nil pointers mark criteria
// the caller failed to supply.
type Scores struct {
	Price      *decimal.Decimal
	Quality    *decimal.Decimal
	Timeline   *decimal.Decimal
	Experience *decimal.Decimal
	Comments   string
}

type IEvaluationService interface {
	EvaluateBid(ctx context.Context, bidID, evaluatorID uuid.UUID, scores Scores) (*models.BidEvaluation, error)
	ListByBid(ctx context.Context, bidID uuid.UUID) ([]models.BidEvaluation, error)
}

type evaluationService struct {
	auctions    *repository.AuctionRepository
	bids        *repository.BidRepository
	evaluations *repository.EvaluationRepository
}

func NewEvaluationService(
	auctions *repository.AuctionRepository,
	bids *repository.BidRepository,
	evaluations *repository.EvaluationRepository,
) IEvaluationService {
	return &evaluationService{auctions: auctions, bids: bids, evaluations: evaluations}
}

var ten = decimal.NewFromInt(10)

func validScore(s *decimal.Decimal) bool {
	return s != nil && !s.IsNegative() && s.LessThanOrEqual(ten)
}

// EvaluateBid validates and persists one immutable evaluation. The total
// is computed from the auction's criteria weights at submission time.
func (svc *evaluationService) EvaluateBid(ctx context.Context, bidID, evaluatorID uuid.UUID, scores Scores) (*models.BidEvaluation, error) {
	if scores.Price == nil || scores.Quality == nil || scores.Timeline == nil || scores.Experience == nil {
		return nil, ErrMissingCriteria
	}
	if !validScore(scores.Price) || !validScore(scores.Quality) ||
		!validScore(scores.Timeline) || !validScore(scores.Experience) {
		return nil, ErrScoreOutOfRange
	}

	bid, err := svc.bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if bid.Retracted() {
		return nil, ErrNotEvaluable
	}
	auction, err := svc.auctions.GetByID(ctx, bid.AuctionID)
	if err != nil {
		return nil, err
	}

	w := NormalizeWeights(auction.EvaluationCriteria)
	ev := &models.BidEvaluation{
		ID:              uuid.New(),
		BidID:           bid.ID,
		AuctionID:       bid.AuctionID,
		EvaluatorID:     evaluatorID,
		PriceScore:      *scores.Price,
		QualityScore:    *scores.Quality,
		TimelineScore:   *scores.Timeline,
		ExperienceScore: *scores.Experience,
		TotalScore:      WeightedTotal(w, *scores.Price, *scores.Quality, *scores.Timeline, *scores.Experience),
		Comments:        scores.Comments,
		SubmittedAt:     time.Now().UTC(),
	}
	if err := svc.evaluations.Insert(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (svc *evaluationService) ListByBid(ctx context.Context, bidID uuid.UUID) ([]models.BidEvaluation, error) {
	return svc.evaluations.ListByBid(ctx, bidID)
}
