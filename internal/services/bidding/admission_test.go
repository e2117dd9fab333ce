package bidding

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhub/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func activeAuction(t models.AuctionType) *models.Auction {
	return &models.Auction{
		ID:              uuid.New(),
		VendorID:        uuid.New(),
		AuctionType:     t,
		SealedBidMode:   models.SealedLowest,
		Status:          models.StatusActive,
		StartingPrice:   dec("1000"),
		MinBidIncrement: dec("50"),
		StartDate:       testNow.Add(-time.Hour),
		EndDate:         testNow.Add(time.Hour),
	}
}

func TestCheckAdmissible_ReverseIncrement(t *testing.T) {
	a := activeAuction(models.AuctionReverse)
	bidder := uuid.New()

	// First bid must undercut the starting price by the increment.
	_, err := CheckAdmissible(a, bidder, dec("900"), 0, false, testNow)
	require.NoError(t, err)

	_, err = CheckAdmissible(a, bidder, dec("960"), 0, false, testNow)
	assert.ErrorIs(t, err, ErrBidTooLow)

	// With a standing 900 the next bid must be at most 850.
	a.CurrentBid = nullDec("900")
	_, err = CheckAdmissible(a, bidder, dec("850"), 1, false, testNow)
	require.NoError(t, err)

	// 950 does not improve on the 900 leader at all.
	_, err = CheckAdmissible(a, bidder, dec("950"), 1, false, testNow)
	assert.ErrorIs(t, err, ErrBidTooLow)

	// 860 improves but not by the full increment.
	_, err = CheckAdmissible(a, bidder, dec("860"), 1, false, testNow)
	assert.ErrorIs(t, err, ErrBidTooLow)

	// Reverse bids can never exceed the starting price.
	_, err = CheckAdmissible(a, bidder, dec("1200"), 1, false, testNow)
	assert.ErrorIs(t, err, ErrBidTooHigh)
}

func TestCheckAdmissible_ForwardIncrement(t *testing.T) {
	a := activeAuction(models.AuctionForward)
	bidder := uuid.New()

	// First bid only has to meet the starting price.
	_, err := CheckAdmissible(a, bidder, dec("1000"), 0, false, testNow)
	require.NoError(t, err)

	_, err = CheckAdmissible(a, bidder, dec("999"), 0, false, testNow)
	assert.ErrorIs(t, err, ErrBidTooLow)

	a.CurrentBid = nullDec("1000")
	_, err = CheckAdmissible(a, bidder, dec("1050"), 1, false, testNow)
	require.NoError(t, err)

	_, err = CheckAdmissible(a, bidder, dec("1040"), 1, false, testNow)
	assert.ErrorIs(t, err, ErrBidTooLow)
}

func TestCheckAdmissible_ForwardReserve(t *testing.T) {
	a := activeAuction(models.AuctionForward)
	a.ReservePrice = nullDec("1200")

	_, err := CheckAdmissible(a, uuid.New(), dec("1000"), 0, false, testNow)
	assert.ErrorIs(t, err, ErrBelowReserve)

	_, err = CheckAdmissible(a, uuid.New(), dec("1200"), 0, false, testNow)
	assert.NoError(t, err)
}

func TestCheckAdmissible_SealedSkipsLeaderRules(t *testing.T) {
	a := activeAuction(models.AuctionSealedBid)
	a.CurrentBid = nullDec("500")

	// No increment comparison for sealed bids; any positive amount goes in.
	_, err := CheckAdmissible(a, uuid.New(), dec("999999"), 3, false, testNow)
	assert.NoError(t, err)

	// Reserve is not enforced at submission for sealed auctions.
	a.SealedBidMode = models.SealedHighest
	a.ReservePrice = nullDec("800")
	_, err = CheckAdmissible(a, uuid.New(), dec("700"), 3, false, testNow)
	assert.NoError(t, err)
}

func TestCheckAdmissible_BuyNow(t *testing.T) {
	t.Run("reverse accepts at or under", func(t *testing.T) {
		a := activeAuction(models.AuctionReverse)
		a.BuyNowPrice = nullDec("600")

		adm, err := CheckAdmissible(a, uuid.New(), dec("600"), 0, false, testNow)
		require.NoError(t, err)
		assert.True(t, adm.BuyNow)

		adm, err = CheckAdmissible(a, uuid.New(), dec("900"), 0, false, testNow)
		require.NoError(t, err)
		assert.False(t, adm.BuyNow)
	})

	t.Run("forward accepts at or over", func(t *testing.T) {
		a := activeAuction(models.AuctionForward)
		a.BuyNowPrice = nullDec("2000")

		adm, err := CheckAdmissible(a, uuid.New(), dec("2000"), 0, false, testNow)
		require.NoError(t, err)
		assert.True(t, adm.BuyNow)
	})
}

func TestCheckAdmissible_Gatekeeping(t *testing.T) {
	a := activeAuction(models.AuctionReverse)

	t.Run("zero amount", func(t *testing.T) {
		_, err := CheckAdmissible(a, uuid.New(), decimal.Zero, 0, false, testNow)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("own auction", func(t *testing.T) {
		_, err := CheckAdmissible(a, a.VendorID, dec("900"), 0, false, testNow)
		assert.ErrorIs(t, err, ErrOwnAuction)
	})

	t.Run("not active", func(t *testing.T) {
		ended := activeAuction(models.AuctionReverse)
		ended.Status = models.StatusEnded
		_, err := CheckAdmissible(ended, uuid.New(), dec("900"), 0, false, testNow)
		assert.ErrorIs(t, err, ErrAuctionNotActive)
	})

	t.Run("past end date", func(t *testing.T) {
		late := activeAuction(models.AuctionReverse)
		late.EndDate = testNow.Add(-time.Minute)
		_, err := CheckAdmissible(late, uuid.New(), dec("900"), 0, false, testNow)
		assert.ErrorIs(t, err, ErrAuctionNotActive)
	})

	t.Run("private without invite", func(t *testing.T) {
		priv := activeAuction(models.AuctionReverse)
		priv.IsPrivate = true
		priv.InvitedVendors = models.UUIDList{uuid.New()}
		_, err := CheckAdmissible(priv, uuid.New(), dec("900"), 0, false, testNow)
		assert.ErrorIs(t, err, ErrNotInvited)
	})

	t.Run("private with invite", func(t *testing.T) {
		invited := uuid.New()
		priv := activeAuction(models.AuctionReverse)
		priv.IsPrivate = true
		priv.InvitedVendors = models.UUIDList{invited}
		_, err := CheckAdmissible(priv, invited, dec("900"), 0, false, testNow)
		assert.NoError(t, err)
	})

	t.Run("participant cap", func(t *testing.T) {
		full := activeAuction(models.AuctionReverse)
		full.MaxParticipants = 2
		_, err := CheckAdmissible(full, uuid.New(), dec("900"), 2, false, testNow)
		assert.ErrorIs(t, err, ErrAuctionFull)

		// An existing bidder is not blocked by the cap.
		_, err = CheckAdmissible(full, uuid.New(), dec("900"), 2, true, testNow)
		assert.NoError(t, err)
	})
}
