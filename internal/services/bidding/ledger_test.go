package bidding

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhub/internal/models"
)

func bidAt(amount string, offset time.Duration) models.Bid {
	return models.Bid{
		ID:        uuid.New(),
		BidderID:  uuid.New(),
		Amount:    dec(amount),
		BidType:   models.BidManual,
		CreatedAt: testNow.Add(offset),
	}
}

func TestLeader_ReverseLowestWins(t *testing.T) {
	a := activeAuction(models.AuctionReverse)
	bids := []models.Bid{
		bidAt("900", 0),
		bidAt("850", time.Minute),
		bidAt("875", 2*time.Minute),
	}

	l := Leader(a, bids)
	require.NotNil(t, l)
	assert.True(t, l.Amount.Equal(dec("850")))
}

func TestLeader_ForwardHighestWins(t *testing.T) {
	a := activeAuction(models.AuctionForward)
	bids := []models.Bid{
		bidAt("1000", 0),
		bidAt("1100", time.Minute),
		bidAt("1050", 2*time.Minute),
	}

	l := Leader(a, bids)
	require.NotNil(t, l)
	assert.True(t, l.Amount.Equal(dec("1100")))
}

func TestLeader_TieGoesToEarliest(t *testing.T) {
	a := activeAuction(models.AuctionReverse)
	first := bidAt("800", 0)
	second := bidAt("800", time.Minute)

	l := Leader(a, []models.Bid{second, first})
	require.NotNil(t, l)
	assert.Equal(t, first.ID, l.ID)
}

func TestLeader_SkipsRetracted(t *testing.T) {
	a := activeAuction(models.AuctionReverse)
	best := bidAt("800", 0)
	retractedAt := testNow.Add(2 * time.Minute)
	best.RetractedAt = &retractedAt
	runnerUp := bidAt("850", time.Minute)

	l := Leader(a, []models.Bid{best, runnerUp})
	require.NotNil(t, l)
	assert.Equal(t, runnerUp.ID, l.ID)
}

func TestLeader_SealedHasNoLeader(t *testing.T) {
	a := activeAuction(models.AuctionSealedBid)
	bids := []models.Bid{bidAt("500", 0), bidAt("400", time.Minute)}

	assert.Nil(t, Leader(a, bids))

	// BestBid still ranks sealed bids for award resolution.
	best := BestBid(a, bids)
	require.NotNil(t, best)
	assert.True(t, best.Amount.Equal(dec("400")))
}

func TestBestBid_SealedHighestMode(t *testing.T) {
	a := activeAuction(models.AuctionSealedBid)
	a.SealedBidMode = models.SealedHighest
	bids := []models.Bid{bidAt("500", 0), bidAt("400", time.Minute)}

	best := BestBid(a, bids)
	require.NotNil(t, best)
	assert.True(t, best.Amount.Equal(dec("500")))
}

func TestLeader_Empty(t *testing.T) {
	a := activeAuction(models.AuctionForward)
	assert.Nil(t, Leader(a, nil))
}
