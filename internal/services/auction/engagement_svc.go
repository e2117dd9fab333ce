package auction

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"auctionhub/internal/models"
	"auctionhub/internal/repository"
)

var ErrEmptyQuestion = errors.New("question text is required")

type WatchOptions struct {
	NotifyOnBid       bool
	NotifyOnEnd       bool
	NotifyOnExtension bool
}

// IEngagementService covers the spectator surface of an auction:
// watch lists, the public Q&A thread and the activity feed.
type IEngagementService interface {
	WatchAuction(ctx context.Context, auctionID, userID uuid.UUID, opts WatchOptions) error
	UnwatchAuction(ctx context.Context, auctionID, userID uuid.UUID) error
	Watchers(ctx context.Context, auctionID uuid.UUID) ([]models.AuctionWatcher, error)
	AskQuestion(ctx context.Context, auctionID, askerID uuid.UUID, question string, isPublic bool) (*models.AuctionQuestion, error)
	AnswerQuestion(ctx context.Context, questionID, answeredBy uuid.UUID, answer string) (*models.AuctionQuestion, error)
	ListQuestions(ctx context.Context, auctionID uuid.UUID, publicOnly bool) ([]models.AuctionQuestion, error)
	Activities(ctx context.Context, auctionID uuid.UUID, limit, offset int) ([]models.AuctionActivity, error)
}

type engagementService struct {
	auctions   *repository.AuctionRepository
	watchers   *repository.WatcherRepository
	questions  *repository.QuestionRepository
	activities *repository.ActivityRepository
}

func NewEngagementService(
	auctions *repository.AuctionRepository,
	watchers *repository.WatcherRepository,
	questions *repository.QuestionRepository,
	activities *repository.ActivityRepository,
) IEngagementService {
	return &engagementService{
		auctions:   auctions,
		watchers:   watchers,
		questions:  questions,
		activities: activities,
	}
}

// WatchAuction subscribes the user to auction notifications. Watching
// twice overwrites the notification flags instead of failing.
func (svc *engagementService) WatchAuction(ctx context.Context, auctionID, userID uuid.UUID, opts WatchOptions) error {
	if _, err := svc.auctions.GetByID(ctx, auctionID); err != nil {
		return err
	}
	return svc.watchers.Upsert(ctx, &models.AuctionWatcher{
		ID:                uuid.New(),
		AuctionID:         auctionID,
		UserID:            userID,
		NotifyOnBid:       opts.NotifyOnBid,
		NotifyOnEnd:       opts.NotifyOnEnd,
		NotifyOnExtension: opts.NotifyOnExtension,
		CreatedAt:         time.Now().UTC(),
	})
}

func (svc *engagementService) UnwatchAuction(ctx context.Context, auctionID, userID uuid.UUID) error {
	return svc.watchers.Delete(ctx, auctionID, userID)
}

func (svc *engagementService) Watchers(ctx context.Context, auctionID uuid.UUID) ([]models.AuctionWatcher, error) {
	return svc.watchers.ListByAuction(ctx, auctionID)
}

func (svc *engagementService) AskQuestion(ctx context.Context, auctionID, askerID uuid.UUID, question string, isPublic bool) (*models.AuctionQuestion, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	a, err := svc.auctions.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a.Status.Terminal() {
		return nil, ErrInvalidTransition
	}
	q := &models.AuctionQuestion{
		ID:        uuid.New(),
		AuctionID: auctionID,
		AskerID:   askerID,
		Question:  question,
		IsPublic:  isPublic,
		CreatedAt: time.Now().UTC(),
	}
	if err := svc.questions.Insert(ctx, q); err != nil {
		return nil, err
	}
	if err := svc.activities.Append(ctx, &models.AuctionActivity{
		ID:           uuid.New(),
		AuctionID:    auctionID,
		UserID:       uuid.NullUUID{UUID: askerID, Valid: true},
		ActivityType: models.ActivityQuestionAsked,
		Description:  "question asked",
		Details:      models.ActivityDetails{"question_id": q.ID.String(), "is_public": isPublic},
		CreatedAt:    q.CreatedAt,
	}); err != nil {
		return nil, err
	}
	return q, nil
}

func (svc *engagementService) AnswerQuestion(ctx context.Context, questionID, answeredBy uuid.UUID, answer string) (*models.AuctionQuestion, error) {
	now := time.Now().UTC()
	q, err := svc.questions.Answer(ctx, questionID, answeredBy, answer, now)
	if err != nil {
		return nil, err
	}
	if err := svc.activities.Append(ctx, &models.AuctionActivity{
		ID:           uuid.New(),
		AuctionID:    q.AuctionID,
		UserID:       uuid.NullUUID{UUID: answeredBy, Valid: true},
		ActivityType: models.ActivityQuestionAnswered,
		Description:  "question answered",
		Details:      models.ActivityDetails{"question_id": q.ID.String()},
		CreatedAt:    now,
	}); err != nil {
		return nil, err
	}
	return q, nil
}

func (svc *engagementService) ListQuestions(ctx context.Context, auctionID uuid.UUID, publicOnly bool) ([]models.AuctionQuestion, error) {
	return svc.questions.ListByAuction(ctx, auctionID, publicOnly)
}

func (svc *engagementService) Activities(ctx context.Context, auctionID uuid.UUID, limit, offset int) ([]models.AuctionActivity, error) {
	return svc.activities.ListByAuction(ctx, auctionID, limit, offset)
}
