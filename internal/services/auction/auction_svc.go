package auction

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"auctionhub/internal/events"
	"auctionhub/internal/models"
	"auctionhub/internal/redis/auctionlock"
	"auctionhub/internal/repository"
)

type CreateAuctionCommand struct {
	VendorID             uuid.UUID
	Title                string
	Description          string
	AuctionType          models.AuctionType
	SealedBidMode        models.SealedBidMode
	StartingPrice        decimal.Decimal
	ReservePrice         decimal.NullDecimal
	BuyNowPrice          decimal.NullDecimal
	MinBidIncrement      decimal.Decimal
	Currency             string
	StartDate            time.Time
	EndDate              time.Time
	ServiceRequirements  models.ServiceRequirements
	EvaluationCriteria   models.EvaluationCriteria
	Terms                models.Terms
	AllowAutoBidding     bool
	IsPrivate            bool
	InvitedVendors       models.UUIDList
	MaxParticipants      int
	HasAutoExtension     bool
	AutoExtensionMinutes int
}

type IAuctionService interface {
	CreateAuction(ctx context.Context, cmd CreateAuctionCommand) (*models.Auction, error)
	UpdateAuction(ctx context.Context, id uuid.UUID, cmd CreateAuctionCommand) (*models.Auction, error)
	GetAuction(ctx context.Context, id uuid.UUID) (*models.Auction, error)
	ListAuctions(ctx context.Context, f repository.ListAuctionsFilter) ([]models.Auction, error)
	PublishAuction(ctx context.Context, id uuid.UUID) (*models.Auction, error)
	CancelAuction(ctx context.Context, id, actorID uuid.UUID, reason string) error
	CloseAuction(ctx context.Context, id, actorID uuid.UUID) (uuid.UUID, error)
	ExtendAuction(ctx context.Context, id, actorID uuid.UUID, minutes int, reason string) (*models.Auction, error)
	ActivateDue(ctx context.Context) (int, error)
	CloseExpired(ctx context.Context) (int, error)
	Extensions(ctx context.Context, auctionID uuid.UUID) ([]models.AuctionExtension, error)
}

type auctionService struct {
	db          *sql.DB
	auctions    *repository.AuctionRepository
	bids        *repository.BidRepository
	evaluations *repository.EvaluationRepository
	extensions  *repository.ExtensionRepository
	activities  *repository.ActivityRepository
	outbox      *repository.OutboxRepository
	locker      *auctionlock.Locker
	notifier    events.Notifier
}

func NewAuctionService(
	db *sql.DB,
	auctions *repository.AuctionRepository,
	bids *repository.BidRepository,
	evaluations *repository.EvaluationRepository,
	extensions *repository.ExtensionRepository,
	activities *repository.ActivityRepository,
	outbox *repository.OutboxRepository,
	locker *auctionlock.Locker,
	notifier events.Notifier,
) IAuctionService {
	return &auctionService{
		db:          db,
		auctions:    auctions,
		bids:        bids,
		evaluations: evaluations,
		extensions:  extensions,
		activities:  activities,
		outbox:      outbox,
		locker:      locker,
		notifier:    notifier,
	}
}

func validateCommand(cmd *CreateAuctionCommand) error {
	switch cmd.AuctionType {
	case models.AuctionReverse, models.AuctionForward, models.AuctionSealedBid, models.AuctionDutch:
	default:
		return errors.Join(ErrValidation, errors.New("unknown auction type"))
	}
	if strings.TrimSpace(cmd.Title) == "" {
		return errors.Join(ErrValidation, errors.New("title is required"))
	}
	if cmd.StartingPrice.IsZero() || cmd.StartingPrice.IsNegative() {
		return errors.Join(ErrValidation, errors.New("starting price must be positive"))
	}
	if cmd.MinBidIncrement.IsNegative() {
		return errors.Join(ErrValidation, errors.New("minimum increment cannot be negative"))
	}
	if !cmd.EndDate.After(cmd.StartDate) {
		return errors.Join(ErrValidation, errors.New("end date must be after start date"))
	}
	return nil
}

func newAuctionNumber(id uuid.UUID, now time.Time) string {
	return "AUC-" + now.Format("20060102") + "-" + strings.ToUpper(id.String()[:8])
}

func applyCommand(a *models.Auction, cmd *CreateAuctionCommand) {
	a.Title = cmd.Title
	a.Description = cmd.Description
	a.AuctionType = cmd.AuctionType
	a.SealedBidMode = cmd.SealedBidMode
	if a.SealedBidMode == "" {
		a.SealedBidMode = models.SealedLowest
	}
	a.StartingPrice = cmd.StartingPrice
	a.ReservePrice = cmd.ReservePrice
	a.BuyNowPrice = cmd.BuyNowPrice
	a.MinBidIncrement = cmd.MinBidIncrement
	a.Currency = cmd.Currency
	if a.Currency == "" {
		a.Currency = "USD"
	}
	a.StartDate = cmd.StartDate
	a.EndDate = cmd.EndDate
	a.ServiceRequirements = cmd.ServiceRequirements
	a.EvaluationCriteria = cmd.EvaluationCriteria
	a.Terms = cmd.Terms
	a.AllowAutoBidding = cmd.AllowAutoBidding
	a.IsPrivate = cmd.IsPrivate
	a.InvitedVendors = cmd.InvitedVendors
	a.MaxParticipants = cmd.MaxParticipants
	a.HasAutoExtension = cmd.HasAutoExtension
	a.AutoExtensionMinutes = cmd.AutoExtensionMinutes
}

func (svc *auctionService) CreateAuction(ctx context.Context, cmd CreateAuctionCommand) (*models.Auction, error) {
	if err := validateCommand(&cmd); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	a := &models.Auction{
		ID:        uuid.New(),
		VendorID:  cmd.VendorID,
		Status:    models.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.AuctionNumber = newAuctionNumber(a.ID, now)
	applyCommand(a, &cmd)
	if err := svc.auctions.Insert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAuction rewrites a draft. Published auctions are immutable apart
// from lifecycle moves.
func (svc *auctionService) UpdateAuction(ctx context.Context, id uuid.UUID, cmd CreateAuctionCommand) (*models.Auction, error) {
	if err := validateCommand(&cmd); err != nil {
		return nil, err
	}
	a, err := svc.auctions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != models.StatusDraft {
		return nil, ErrInvalidTransition
	}
	applyCommand(a, &cmd)
	if err := svc.auctions.UpdateDraft(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (svc *auctionService) GetAuction(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	return svc.auctions.GetByID(ctx, id)
}

func (svc *auctionService) ListAuctions(ctx context.Context, f repository.ListAuctionsFilter) ([]models.Auction, error) {
	return svc.auctions.List(ctx, f)
}

func (svc *auctionService) Extensions(ctx context.Context, auctionID uuid.UUID) ([]models.AuctionExtension, error) {
	return svc.extensions.ListByAuction(ctx, auctionID)
}

// PublishAuction takes a draft live: scheduled when the start date lies
// ahead, active immediately otherwise.
func (svc *auctionService) PublishAuction(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	now := time.Now().UTC()

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	a, err := svc.auctions.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	target := PublishTarget(a, now)
	if !CanTransition(a.Status, target) {
		return nil, ErrInvalidTransition
	}
	if err := ValidateForPublish(a, now); err != nil {
		return nil, err
	}
	a.Status = target
	if err := svc.auctions.UpdateLifecycle(ctx, tx, a); err != nil {
		return nil, err
	}
	if target == models.StatusActive {
		if err := svc.recordLifecycle(ctx, tx, a.ID, models.ActivityAuctionStarted,
			events.EventAuctionStarted, uuid.NullUUID{}, "auction started", nil, now); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	if target == models.StatusActive {
		svc.notifier.Notify(ctx, events.EventAuctionStarted, a.ID, nil)
	}
	return a, nil
}

// ExtendAuction pushes the end date of an active auction out by the
// given number of minutes. The vendor's own extension is recorded as
// manual, anyone else's as admin.
func (svc *auctionService) ExtendAuction(ctx context.Context, id, actorID uuid.UUID, minutes int, reason string) (*models.Auction, error) {
	if minutes <= 0 {
		return nil, errors.Join(ErrValidation, errors.New("extension minutes must be positive"))
	}
	now := time.Now().UTC()

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	a, err := svc.auctions.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != models.StatusActive {
		return nil, ErrInvalidTransition
	}
	extType := models.ExtensionAdmin
	if actorID == a.VendorID {
		extType = models.ExtensionManual
	}
	ext := &models.AuctionExtension{
		ID:               uuid.New(),
		AuctionID:        a.ID,
		OriginalEndDate:  a.EndDate,
		NewEndDate:       a.EndDate.Add(time.Duration(minutes) * time.Minute),
		ExtensionMinutes: minutes,
		ExtensionType:    extType,
		Reason:           reason,
		ExtendedBy:       uuid.NullUUID{UUID: actorID, Valid: true},
		CreatedAt:        now,
	}
	if err := svc.extensions.Insert(ctx, tx, ext); err != nil {
		return nil, err
	}
	a.EndDate = ext.NewEndDate
	if err := svc.auctions.UpdateBidState(ctx, tx, a); err != nil {
		return nil, err
	}
	if err := svc.recordLifecycle(ctx, tx, a.ID, models.ActivityAuctionExtended,
		events.EventAuctionExtended, uuid.NullUUID{UUID: actorID, Valid: true},
		"end date extended", models.ActivityDetails{
			"original_end_date": ext.OriginalEndDate,
			"new_end_date":      ext.NewEndDate,
			"extension_type":    string(extType),
		}, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	svc.notifier.Notify(ctx, events.EventAuctionExtended, a.ID, map[string]any{
		"new_end_date": ext.NewEndDate,
	})
	return a, nil
}

func (svc *auctionService) CancelAuction(ctx context.Context, id, actorID uuid.UUID, reason string) error {
	now := time.Now().UTC()

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	a, err := svc.auctions.GetForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if !CanTransition(a.Status, models.StatusCancelled) {
		return ErrInvalidTransition
	}
	a.Status = models.StatusCancelled
	a.CancellationReason = reason
	if err := svc.auctions.UpdateLifecycle(ctx, tx, a); err != nil {
		return err
	}
	actor := uuid.NullUUID{UUID: actorID, Valid: actorID != uuid.Nil}
	if err := svc.recordLifecycle(ctx, tx, a.ID, models.ActivityAuctionCancelled,
		events.EventAuctionCancelled, actor, "auction cancelled",
		models.ActivityDetails{"reason": reason}, now); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	svc.notifier.Notify(ctx, events.EventAuctionCancelled, a.ID, map[string]any{"reason": reason})
	return nil
}

// CloseAuction ends bidding and resolves the award. Idempotent: closing
// an already awarded auction returns its winner again. With no eligible
// bids the auction lands in ended and ErrNoEligibleBids is surfaced for
// manual intervention.
func (svc *auctionService) CloseAuction(ctx context.Context, id, actorID uuid.UUID) (uuid.UUID, error) {
	ok, err := svc.locker.TryAcquire(ctx, id.String())
	if err != nil {
		zap.L().Warn("close_lock", zap.String("auction_id", id.String()), zap.Error(err))
	} else if !ok {
		return uuid.Nil, ErrCloseInProgress
	}
	defer svc.locker.Release(ctx, id.String())

	now := time.Now().UTC()

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	a, err := svc.auctions.GetForUpdate(ctx, tx, id)
	if err != nil {
		return uuid.Nil, err
	}
	switch a.Status {
	case models.StatusAwarded:
		return a.WinnerID.UUID, nil
	case models.StatusEnded:
		return uuid.Nil, ErrNoEligibleBids
	case models.StatusActive:
	default:
		return uuid.Nil, ErrInvalidTransition
	}

	bids, err := svc.bids.ListByAuctionTx(ctx, tx, a.ID)
	if err != nil {
		return uuid.Nil, err
	}
	evals, err := svc.evaluations.ListByAuctionTx(ctx, tx, a.ID)
	if err != nil {
		return uuid.Nil, err
	}

	award, awardErr := ResolveAward(a, bids, evals)
	if awardErr != nil {
		if !errors.Is(awardErr, ErrNoEligibleBids) {
			return uuid.Nil, awardErr
		}
		a.Status = models.StatusEnded
		if err := svc.auctions.UpdateLifecycle(ctx, tx, a); err != nil {
			return uuid.Nil, err
		}
		if err := svc.recordLifecycle(ctx, tx, a.ID, models.ActivityAuctionEnded,
			events.EventAuctionEnded, uuid.NullUUID{}, "auction ended without eligible bids", nil, now); err != nil {
			return uuid.Nil, err
		}
		if err := tx.Commit(); err != nil {
			return uuid.Nil, err
		}
		svc.notifier.Notify(ctx, events.EventAuctionEnded, a.ID, nil)
		return uuid.Nil, ErrNoEligibleBids
	}

	winner := award.Bid
	if err := svc.bids.SetWinning(ctx, tx, a.ID, winner.ID); err != nil {
		return uuid.Nil, err
	}
	a.Status = models.StatusAwarded
	a.CurrentBid = decimal.NullDecimal{Decimal: winner.Amount, Valid: true}
	a.WinnerID = uuid.NullUUID{UUID: winner.BidderID, Valid: true}
	a.WinningBid = a.CurrentBid
	a.AwardedAt = &now
	a.AwardedBy = uuid.NullUUID{UUID: actorID, Valid: actorID != uuid.Nil}
	if err := svc.auctions.UpdateLifecycle(ctx, tx, a); err != nil {
		return uuid.Nil, err
	}

	details := models.ActivityDetails{
		"winner_id":   winner.BidderID,
		"winning_bid": winner.Amount,
	}
	if award.Score.Valid {
		details["total_score"] = award.Score.Decimal
	}
	if err := svc.recordLifecycle(ctx, tx, a.ID, models.ActivityAuctionEnded,
		events.EventAuctionEnded, uuid.NullUUID{}, "auction ended", nil, now); err != nil {
		return uuid.Nil, err
	}
	actor := uuid.NullUUID{UUID: actorID, Valid: actorID != uuid.Nil}
	if err := svc.recordLifecycle(ctx, tx, a.ID, models.ActivityAuctionAwarded,
		events.EventAuctionAwarded, actor, "auction awarded", details, now); err != nil {
		return uuid.Nil, err
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	svc.notifier.Notify(ctx, events.EventAuctionAwarded, a.ID, map[string]any{
		"winner_id":   winner.BidderID,
		"winning_bid": winner.Amount,
	})
	return winner.BidderID, nil
}

// recordLifecycle appends the activity entry and outbox event for one
// lifecycle move inside its transaction.
func (svc *auctionService) recordLifecycle(ctx context.Context, tx *sql.Tx, auctionID uuid.UUID,
	activity models.ActivityType, event string, actor uuid.NullUUID,
	description string, details models.ActivityDetails, now time.Time) error {

	if err := svc.activities.Insert(ctx, tx, &models.AuctionActivity{
		ID:           uuid.New(),
		AuctionID:    auctionID,
		UserID:       actor,
		ActivityType: activity,
		Description:  description,
		Details:      details,
		CreatedAt:    now,
	}); err != nil {
		return err
	}
	payload, err := events.Marshal(event, auctionID, now, details)
	if err != nil {
		return err
	}
	return svc.outbox.Insert(ctx, tx, &repository.OutboxEvent{
		ID:        uuid.New(),
		EventType: event,
		Payload:   payload,
		Status:    repository.OutboxPending,
		CreatedAt: now,
	})
}

// ActivateDue flips scheduled auctions whose start date passed. Called
// from the scheduler tick; reapplying is a no-op.
func (svc *auctionService) ActivateDue(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	ids, err := svc.auctions.ActivateDue(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		tx, err := svc.db.BeginTx(ctx, nil)
		if err != nil {
			return 0, err
		}
		if err := svc.recordLifecycle(ctx, tx, id, models.ActivityAuctionStarted,
			events.EventAuctionStarted, uuid.NullUUID{}, "auction started", nil, now); err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		if err := tx.Commit(); err != nil {
			return 0, err
		}
		svc.notifier.Notify(ctx, events.EventAuctionStarted, id, nil)
	}
	return len(ids), nil
}

// CloseExpired closes every active auction whose end date passed.
// Individual failures are logged, not fatal; the next tick retries.
func (svc *auctionService) CloseExpired(ctx context.Context) (int, error) {
	ids, err := svc.auctions.ExpiredActive(ctx, time.Now().UTC(), 100)
	if err != nil {
		return 0, err
	}
	closed := 0
	for _, id := range ids {
		_, err := svc.CloseAuction(ctx, id, uuid.Nil)
		switch {
		case err == nil:
			closed++
		case errors.Is(err, ErrNoEligibleBids), errors.Is(err, ErrCloseInProgress):
			// ended without winner, or another instance holds the lock
		default:
			zap.L().Error("close_expired", zap.String("auction_id", id.String()), zap.Error(err))
		}
	}
	return closed, nil
}
