package bidding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhub/internal/models"
)

func extensibleAuction() *models.Auction {
	a := activeAuction(models.AuctionReverse)
	a.HasAutoExtension = true
	a.AutoExtensionMinutes = 5
	return a
}

func TestMaybeExtend_WithinWindow(t *testing.T) {
	a := extensibleAuction()
	bidTime := a.EndDate.Add(-2 * time.Minute)

	ext := MaybeExtend(a, bidTime, 0, 10)
	require.NotNil(t, ext)
	assert.Equal(t, a.EndDate, ext.OriginalEndDate)
	assert.Equal(t, bidTime.Add(5*time.Minute), ext.NewEndDate)
	assert.Equal(t, 5, ext.ExtensionMinutes)
	assert.Equal(t, models.ExtensionAutomatic, ext.ExtensionType)
}

func TestMaybeExtend_SecondBidExtendsAgain(t *testing.T) {
	a := extensibleAuction()

	first := MaybeExtend(a, a.EndDate.Add(-2*time.Minute), 0, 10)
	require.NotNil(t, first)
	a.EndDate = first.NewEndDate

	// Another last-minute bid against the extended deadline extends once
	// more, from the bid time.
	bidTime := a.EndDate.Add(-time.Minute)
	second := MaybeExtend(a, bidTime, 1, 10)
	require.NotNil(t, second)
	assert.Equal(t, bidTime.Add(5*time.Minute), second.NewEndDate)
	assert.True(t, second.NewEndDate.After(first.NewEndDate))
}

func TestMaybeExtend_OutsideWindow(t *testing.T) {
	a := extensibleAuction()
	assert.Nil(t, MaybeExtend(a, a.EndDate.Add(-30*time.Minute), 0, 10))
}

func TestMaybeExtend_CapReached(t *testing.T) {
	a := extensibleAuction()
	bidTime := a.EndDate.Add(-2 * time.Minute)

	assert.Nil(t, MaybeExtend(a, bidTime, 10, 10))
	assert.NotNil(t, MaybeExtend(a, bidTime, 9, 10))
}

func TestMaybeExtend_Disabled(t *testing.T) {
	a := activeAuction(models.AuctionReverse)
	assert.Nil(t, MaybeExtend(a, a.EndDate.Add(-time.Minute), 0, 10))

	a.HasAutoExtension = true
	a.AutoExtensionMinutes = 0
	assert.Nil(t, MaybeExtend(a, a.EndDate.Add(-time.Minute), 0, 10))
}

func TestMaybeExtend_NeverShortens(t *testing.T) {
	a := extensibleAuction()

	// A bid right at the window edge would produce a new end equal to
	// the current one plus nothing useful; the earliest in-window bid
	// lands exactly on the old end date and is dropped.
	bidTime := a.EndDate.Add(-5 * time.Minute)
	assert.Nil(t, MaybeExtend(a, bidTime, 0, 10))
}
