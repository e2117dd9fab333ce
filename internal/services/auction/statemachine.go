package auction

import (
	"errors"
	"time"

	"auctionhub/internal/models"
)

var (
	// ErrValidation covers malformed or incomplete auction payloads.
	ErrValidation = errors.New("invalid auction payload")

	// ErrInvalidTransition rejects a lifecycle move the state machine
	// does not allow from the current status.
	ErrInvalidTransition = errors.New("illegal auction status transition")

	// ErrNoEligibleBids is returned by award resolution when no
	// admissible bid remains.
	ErrNoEligibleBids = errors.New("no eligible bids to award")

	// ErrCloseInProgress means another caller holds the finalize lock.
	ErrCloseInProgress = errors.New("auction close already in progress")
)

// transitions is the legal status graph. Extensions are modeled as event
// records, not a durable status, so "extended" never appears here.
var transitions = map[models.AuctionStatus][]models.AuctionStatus{
	models.StatusDraft:     {models.StatusScheduled, models.StatusActive, models.StatusCancelled},
	models.StatusScheduled: {models.StatusActive, models.StatusCancelled},
	models.StatusActive:    {models.StatusEnded, models.StatusAwarded, models.StatusCancelled},
	models.StatusEnded:     {models.StatusAwarded},
}

// CanTransition reports whether from -> to is a legal lifecycle move.
func CanTransition(from, to models.AuctionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateForPublish checks that a draft is complete enough to go live.
func ValidateForPublish(a *models.Auction, now time.Time) error {
	if !a.EndDate.After(a.StartDate) {
		return errors.Join(ErrValidation, errors.New("end date must be after start date"))
	}
	if !a.EndDate.After(now) {
		return errors.Join(ErrValidation, errors.New("end date must be in the future"))
	}
	if a.StartingPrice.IsZero() || a.StartingPrice.IsNegative() {
		return errors.Join(ErrValidation, errors.New("starting price must be positive"))
	}
	if !a.ServiceRequirements.Complete() {
		return errors.Join(ErrValidation, errors.New("service requirements are incomplete"))
	}
	if a.HasAutoExtension && a.AutoExtensionMinutes <= 0 {
		return errors.Join(ErrValidation, errors.New("auto extension window must be positive"))
	}
	if a.IsPrivate && len(a.InvitedVendors) == 0 {
		return errors.Join(ErrValidation, errors.New("private auction requires an invite list"))
	}
	return nil
}

// PublishTarget picks the status a published draft lands in: scheduled
// when the start date is still ahead, active when it already passed.
func PublishTarget(a *models.Auction, now time.Time) models.AuctionStatus {
	if a.StartDate.After(now) {
		return models.StatusScheduled
	}
	return models.StatusActive
}
