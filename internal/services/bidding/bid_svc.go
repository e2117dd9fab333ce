package bidding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"auctionhub/internal/events"
	"auctionhub/internal/models"
	"auctionhub/internal/repository"
)

// pgLockNotAvailable is raised when SET LOCAL lock_timeout expires while
// waiting on the auction row.
const pgLockNotAvailable = "55P03"

type SubmitBidCommand struct {
	AuctionID        uuid.UUID
	BidderID         uuid.UUID
	Amount           decimal.Decimal
	MaxAmount        decimal.NullDecimal
	BidType          models.BidType
	Proposal         string
	DeliveryTimeline models.DeliveryTimeline
	Qualifications   models.Qualifications
}

type IBidService interface {
	SubmitBid(ctx context.Context, cmd SubmitBidCommand) (*models.Bid, error)
	RetractBid(ctx context.Context, bidID uuid.UUID, reason string) (*models.Bid, error)
	History(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error)
	CurrentLeader(ctx context.Context, auctionID uuid.UUID) (*models.Bid, error)
}

type bidService struct {
	db            *sql.DB
	auctions      *repository.AuctionRepository
	bids          *repository.BidRepository
	extensions    *repository.ExtensionRepository
	activities    *repository.ActivityRepository
	outbox        *repository.OutboxRepository
	notifier      events.Notifier
	maxExtensions int
	lockTimeout   time.Duration
}

func NewBidService(
	db *sql.DB,
	auctions *repository.AuctionRepository,
	bids *repository.BidRepository,
	extensions *repository.ExtensionRepository,
	activities *repository.ActivityRepository,
	outbox *repository.OutboxRepository,
	notifier events.Notifier,
	maxExtensions int,
	lockTimeout time.Duration,
) IBidService {
	return &bidService{
		db:            db,
		auctions:      auctions,
		bids:          bids,
		extensions:    extensions,
		activities:    activities,
		outbox:        outbox,
		notifier:      notifier,
		maxExtensions: maxExtensions,
		lockTimeout:   lockTimeout,
	}
}

// beginAuctionTx opens the per-auction mutual-exclusion scope: a
// transaction with a lock timeout, inside which the caller locks the
// auction row via GetForUpdate.
func (svc *bidService) beginAuctionTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	if svc.lockTimeout > 0 {
		q := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", svc.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}
	return tx, nil
}

// mapTxErr converts a lost lock race into ErrConflict.
func mapTxErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
		return ErrConflict
	}
	return err
}

func (svc *bidService) SubmitBid(ctx context.Context, cmd SubmitBidCommand) (*models.Bid, error) {
	now := time.Now().UTC()

	tx, err := svc.beginAuctionTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	auction, err := svc.auctions.GetForUpdate(ctx, tx, cmd.AuctionID)
	if err != nil {
		return nil, mapTxErr(err)
	}
	history, err := svc.bids.ListByAuctionTx(ctx, tx, auction.ID)
	if err != nil {
		return nil, err
	}

	participants, alreadyBidding := countParticipants(history, cmd.BidderID)
	adm, err := CheckAdmissible(auction, cmd.BidderID, cmd.Amount, participants, alreadyBidding, now)
	if err != nil {
		return nil, err
	}

	bidType := cmd.BidType
	if bidType == "" {
		bidType = models.BidManual
		if cmd.MaxAmount.Valid {
			bidType = models.BidProxy
		}
	}
	bid := &models.Bid{
		ID:               uuid.New(),
		AuctionID:        auction.ID,
		BidderID:         cmd.BidderID,
		Amount:           cmd.Amount,
		MaxAmount:        cmd.MaxAmount,
		BidType:          bidType,
		Proposal:         cmd.Proposal,
		DeliveryTimeline: cmd.DeliveryTimeline,
		Qualifications:   cmd.Qualifications,
		CreatedAt:        now,
	}
	if err := svc.bids.Insert(ctx, tx, bid); err != nil {
		return nil, mapTxErr(err)
	}
	history = append(history, *bid)
	auction.TotalBids++

	if adm.BuyNow {
		if err := svc.awardBuyNow(ctx, tx, auction, bid, now); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, mapTxErr(err)
		}
		bid.IsWinning = true
		svc.notifier.Notify(ctx, events.EventAuctionAwarded, auction.ID, map[string]any{
			"winner_id":   bid.BidderID,
			"winning_bid": bid.Amount,
			"buy_now":     true,
		})
		return bid, nil
	}

	// Proxy holders counter the new bid inside the same lock scope, so
	// the leader the next caller sees already reflects the auto-bids.
	inserted := []*models.Bid{bid}
	for round := 0; round < maxProxyRounds; round++ {
		leader := Leader(auction, history)
		counter := NextProxyCounter(auction, history, leader, now)
		if counter == nil {
			break
		}
		if err := svc.bids.Insert(ctx, tx, counter); err != nil {
			return nil, err
		}
		history = append(history, *counter)
		inserted = append(inserted, counter)
		auction.TotalBids++
	}

	leader := Leader(auction, history)
	if leader != nil {
		if err := svc.bids.SetWinning(ctx, tx, auction.ID, leader.ID); err != nil {
			return nil, err
		}
		auction.CurrentBid = decimal.NullDecimal{Decimal: leader.Amount, Valid: true}
	}

	ext, err := svc.applyAutoExtension(ctx, tx, auction, now)
	if err != nil {
		return nil, err
	}

	if auction.TotalBidders, err = svc.bids.CountBidders(ctx, tx, auction.ID); err != nil {
		return nil, err
	}
	if err := svc.auctions.UpdateBidState(ctx, tx, auction); err != nil {
		return nil, err
	}

	if err := svc.recordBidPlaced(ctx, tx, auction, bid, len(inserted)-1, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, mapTxErr(err)
	}

	if leader != nil && leader.ID == bid.ID {
		bid.IsWinning = true
	}
	body := map[string]any{"bidder_id": bid.BidderID, "bid_type": bid.BidType}
	if !auction.Sealed() {
		// Sealed amounts stay hidden until close.
		body["amount"] = bid.Amount
		body["current_bid"] = auction.CurrentBid.Decimal
	}
	svc.notifier.Notify(ctx, events.EventBidPlaced, auction.ID, body)
	if ext != nil {
		svc.notifier.Notify(ctx, events.EventAuctionExtended, auction.ID, map[string]any{
			"new_end_date": ext.NewEndDate,
		})
	}
	return bid, nil
}

func countParticipants(bids []models.Bid, bidderID uuid.UUID) (count int, already bool) {
	seen := map[uuid.UUID]bool{}
	for i := range bids {
		if bids[i].Retracted() {
			continue
		}
		id := bids[i].BidderID
		if !seen[id] {
			seen[id] = true
			count++
		}
		if id == bidderID {
			already = true
		}
	}
	return count, already
}

// awardBuyNow resolves the auction immediately at the buy-now price.
func (svc *bidService) awardBuyNow(ctx context.Context, tx *sql.Tx, a *models.Auction, bid *models.Bid, now time.Time) error {
	if err := svc.bids.SetWinning(ctx, tx, a.ID, bid.ID); err != nil {
		return err
	}
	a.Status = models.StatusAwarded
	a.CurrentBid = decimal.NullDecimal{Decimal: bid.Amount, Valid: true}
	a.WinnerID = uuid.NullUUID{UUID: bid.BidderID, Valid: true}
	a.WinningBid = a.CurrentBid
	a.AwardedAt = &now
	a.AwardedBy = uuid.NullUUID{UUID: bid.BidderID, Valid: true}
	if err := svc.auctions.UpdateLifecycle(ctx, tx, a); err != nil {
		return err
	}
	if err := svc.activities.Insert(ctx, tx, &models.AuctionActivity{
		ID:           uuid.New(),
		AuctionID:    a.ID,
		UserID:       uuid.NullUUID{UUID: bid.BidderID, Valid: true},
		ActivityType: models.ActivityBuyNow,
		Description:  "buy-now price met, auction awarded",
		Details:      models.ActivityDetails{"bid_id": bid.ID, "amount": bid.Amount},
		CreatedAt:    now,
	}); err != nil {
		return err
	}
	payload, err := events.Marshal(events.EventAuctionAwarded, a.ID, now, map[string]any{
		"winner_id": bid.BidderID, "winning_bid": bid.Amount, "buy_now": true,
	})
	if err != nil {
		return err
	}
	return svc.outbox.Insert(ctx, tx, &repository.OutboxEvent{
		ID: uuid.New(), EventType: events.EventAuctionAwarded,
		Payload: payload, Status: repository.OutboxPending, CreatedAt: now,
	})
}

func (svc *bidService) applyAutoExtension(ctx context.Context, tx *sql.Tx, a *models.Auction, bidTime time.Time) (*models.AuctionExtension, error) {
	if !a.HasAutoExtension {
		return nil, nil
	}
	prior, err := svc.extensions.CountByAuction(ctx, tx, a.ID)
	if err != nil {
		return nil, err
	}
	ext := MaybeExtend(a, bidTime, prior, svc.maxExtensions)
	if ext == nil {
		return nil, nil
	}
	if err := svc.extensions.Insert(ctx, tx, ext); err != nil {
		return nil, err
	}
	a.EndDate = ext.NewEndDate
	if err := svc.activities.Insert(ctx, tx, &models.AuctionActivity{
		ID:           uuid.New(),
		AuctionID:    a.ID,
		ActivityType: models.ActivityAuctionExtended,
		Description:  "end date auto-extended by late bid",
		Details:      models.ActivityDetails{"new_end_date": ext.NewEndDate, "extension_minutes": ext.ExtensionMinutes},
		CreatedAt:    bidTime,
	}); err != nil {
		return nil, err
	}
	payload, err := events.Marshal(events.EventAuctionExtended, a.ID, bidTime, map[string]any{
		"original_end_date": ext.OriginalEndDate, "new_end_date": ext.NewEndDate,
	})
	if err != nil {
		return nil, err
	}
	if err := svc.outbox.Insert(ctx, tx, &repository.OutboxEvent{
		ID: uuid.New(), EventType: events.EventAuctionExtended,
		Payload: payload, Status: repository.OutboxPending, CreatedAt: bidTime,
	}); err != nil {
		return nil, err
	}
	return ext, nil
}

func (svc *bidService) recordBidPlaced(ctx context.Context, tx *sql.Tx, a *models.Auction, bid *models.Bid, autoBids int, now time.Time) error {
	if err := svc.activities.Insert(ctx, tx, &models.AuctionActivity{
		ID:           uuid.New(),
		AuctionID:    a.ID,
		UserID:       uuid.NullUUID{UUID: bid.BidderID, Valid: true},
		ActivityType: models.ActivityBidPlaced,
		Description:  "bid placed",
		Details:      models.ActivityDetails{"bid_id": bid.ID, "auto_bids": autoBids},
		CreatedAt:    now,
	}); err != nil {
		return err
	}
	body := map[string]any{"bid_id": bid.ID, "bidder_id": bid.BidderID}
	if !a.Sealed() {
		body["amount"] = bid.Amount
	}
	payload, err := events.Marshal(events.EventBidPlaced, a.ID, now, body)
	if err != nil {
		return err
	}
	return svc.outbox.Insert(ctx, tx, &repository.OutboxEvent{
		ID: uuid.New(), EventType: events.EventBidPlaced,
		Payload: payload, Status: repository.OutboxPending, CreatedAt: now,
	})
}

func (svc *bidService) RetractBid(ctx context.Context, bidID uuid.UUID, reason string) (*models.Bid, error) {
	// Resolve the auction first; the lock order is always auction row
	// then bid rows.
	ref, err := svc.bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	tx, err := svc.beginAuctionTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	auction, err := svc.auctions.GetForUpdate(ctx, tx, ref.AuctionID)
	if err != nil {
		return nil, mapTxErr(err)
	}
	if auction.Status.Terminal() || auction.Status == models.StatusEnded {
		return nil, ErrRetractionClose
	}

	history, err := svc.bids.ListByAuctionTx(ctx, tx, auction.ID)
	if err != nil {
		return nil, err
	}
	var bid *models.Bid
	for i := range history {
		if history[i].ID == bidID {
			bid = &history[i]
			break
		}
	}
	if bid == nil {
		return nil, repository.ErrNotFound
	}
	if bid.Retracted() {
		return nil, ErrBidRetracted
	}

	if err := svc.bids.Retract(ctx, tx, bidID, now, reason); err != nil {
		return nil, err
	}
	bid.RetractedAt = &now
	bid.RetractionReason = reason
	wasWinning := bid.IsWinning
	bid.IsWinning = false

	// Retracting the leader elects the best remaining bid, or clears the
	// cache when none is left.
	if wasWinning && !auction.Sealed() {
		newLeader := Leader(auction, history)
		leaderID := uuid.Nil
		auction.CurrentBid = decimal.NullDecimal{}
		if newLeader != nil {
			leaderID = newLeader.ID
			auction.CurrentBid = decimal.NullDecimal{Decimal: newLeader.Amount, Valid: true}
		}
		if err := svc.bids.SetWinning(ctx, tx, auction.ID, leaderID); err != nil {
			return nil, err
		}
	}

	if auction.TotalBidders, err = svc.bids.CountBidders(ctx, tx, auction.ID); err != nil {
		return nil, err
	}
	if err := svc.auctions.UpdateBidState(ctx, tx, auction); err != nil {
		return nil, err
	}

	if err := svc.activities.Insert(ctx, tx, &models.AuctionActivity{
		ID:           uuid.New(),
		AuctionID:    auction.ID,
		UserID:       uuid.NullUUID{UUID: bid.BidderID, Valid: true},
		ActivityType: models.ActivityBidRetracted,
		Description:  "bid retracted",
		Details:      models.ActivityDetails{"bid_id": bid.ID, "reason": reason},
		CreatedAt:    now,
	}); err != nil {
		return nil, err
	}
	payload, err := events.Marshal(events.EventBidRetracted, auction.ID, now, map[string]any{
		"bid_id": bid.ID, "bidder_id": bid.BidderID,
	})
	if err != nil {
		return nil, err
	}
	if err := svc.outbox.Insert(ctx, tx, &repository.OutboxEvent{
		ID: uuid.New(), EventType: events.EventBidRetracted,
		Payload: payload, Status: repository.OutboxPending, CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, mapTxErr(err)
	}
	svc.notifier.Notify(ctx, events.EventBidRetracted, auction.ID, map[string]any{
		"bid_id": bid.ID,
	})
	return bid, nil
}

func (svc *bidService) History(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error) {
	return svc.bids.ListByAuction(ctx, auctionID)
}

// CurrentLeader returns the leading bid, or nil for auctions without one
// (no bids yet, or sealed bidding before close).
func (svc *bidService) CurrentLeader(ctx context.Context, auctionID uuid.UUID) (*models.Bid, error) {
	auction, err := svc.auctions.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auction.BidsSealed() {
		return nil, nil
	}
	bids, err := svc.bids.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auction.Sealed() {
		return BestBid(auction, bids), nil
	}
	return Leader(auction, bids), nil
}
