package auction

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"auctionhub/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func draftAuction(t models.AuctionType) *models.Auction {
	return &models.Auction{
		ID:              uuid.New(),
		VendorID:        uuid.New(),
		AuctionType:     t,
		SealedBidMode:   models.SealedLowest,
		Status:          models.StatusDraft,
		StartingPrice:   decimal.NewFromInt(1000),
		MinBidIncrement: decimal.NewFromInt(50),
		StartDate:       testNow.Add(time.Hour),
		EndDate:         testNow.Add(24 * time.Hour),
		ServiceRequirements: models.ServiceRequirements{
			Scope:        "Build the data pipeline",
			Deliverables: []string{"ingestion", "dashboard"},
			Timeline:     "6 weeks",
		},
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from models.AuctionStatus
		to   models.AuctionStatus
		want bool
	}{
		{"draft to scheduled", models.StatusDraft, models.StatusScheduled, true},
		{"draft straight to active", models.StatusDraft, models.StatusActive, true},
		{"draft to cancelled", models.StatusDraft, models.StatusCancelled, true},
		{"scheduled to active", models.StatusScheduled, models.StatusActive, true},
		{"active to ended", models.StatusActive, models.StatusEnded, true},
		{"active to awarded", models.StatusActive, models.StatusAwarded, true},
		{"active to cancelled", models.StatusActive, models.StatusCancelled, true},
		{"ended to awarded", models.StatusEnded, models.StatusAwarded, true},
		{"draft to ended", models.StatusDraft, models.StatusEnded, false},
		{"scheduled to ended", models.StatusScheduled, models.StatusEnded, false},
		{"awarded is terminal", models.StatusAwarded, models.StatusCancelled, false},
		{"cancelled is terminal", models.StatusCancelled, models.StatusActive, false},
		{"ended cannot reopen", models.StatusEnded, models.StatusActive, false},
		{"active cannot return to draft", models.StatusActive, models.StatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidateForPublish(t *testing.T) {
	t.Run("complete draft passes", func(t *testing.T) {
		assert.NoError(t, ValidateForPublish(draftAuction(models.AuctionReverse), testNow))
	})

	t.Run("end before start", func(t *testing.T) {
		a := draftAuction(models.AuctionReverse)
		a.EndDate = a.StartDate.Add(-time.Hour)
		assert.ErrorIs(t, ValidateForPublish(a, testNow), ErrValidation)
	})

	t.Run("end in the past", func(t *testing.T) {
		a := draftAuction(models.AuctionReverse)
		a.StartDate = testNow.Add(-48 * time.Hour)
		a.EndDate = testNow.Add(-24 * time.Hour)
		assert.ErrorIs(t, ValidateForPublish(a, testNow), ErrValidation)
	})

	t.Run("zero starting price", func(t *testing.T) {
		a := draftAuction(models.AuctionReverse)
		a.StartingPrice = decimal.Zero
		assert.ErrorIs(t, ValidateForPublish(a, testNow), ErrValidation)
	})

	t.Run("incomplete requirements", func(t *testing.T) {
		a := draftAuction(models.AuctionReverse)
		a.ServiceRequirements.Deliverables = nil
		assert.ErrorIs(t, ValidateForPublish(a, testNow), ErrValidation)
	})

	t.Run("auto extension without window", func(t *testing.T) {
		a := draftAuction(models.AuctionReverse)
		a.HasAutoExtension = true
		a.AutoExtensionMinutes = 0
		assert.ErrorIs(t, ValidateForPublish(a, testNow), ErrValidation)
	})

	t.Run("private without invites", func(t *testing.T) {
		a := draftAuction(models.AuctionReverse)
		a.IsPrivate = true
		assert.ErrorIs(t, ValidateForPublish(a, testNow), ErrValidation)
	})
}

func TestPublishTarget(t *testing.T) {
	a := draftAuction(models.AuctionReverse)
	assert.Equal(t, models.StatusScheduled, PublishTarget(a, testNow))

	a.StartDate = testNow.Add(-time.Minute)
	assert.Equal(t, models.StatusActive, PublishTarget(a, testNow))
}
