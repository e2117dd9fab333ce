package bidding

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhub/internal/models"
)

func proxyBid(bidder uuid.UUID, amount, limit string, offset time.Duration) models.Bid {
	return models.Bid{
		ID:        uuid.New(),
		BidderID:  bidder,
		Amount:    dec(amount),
		MaxAmount: nullDec(limit),
		BidType:   models.BidProxy,
		CreatedAt: testNow.Add(offset),
	}
}

func TestNextProxyCounter_ForwardOutbidsUpToLimit(t *testing.T) {
	a := activeAuction(models.AuctionForward)
	a.AllowAutoBidding = true

	proxyHolder := uuid.New()
	proxy := proxyBid(proxyHolder, "1000", "1200", 0)
	leader := bidAt("1100", time.Minute)

	counter := NextProxyCounter(a, []models.Bid{proxy, leader}, &leader, testNow.Add(2*time.Minute))
	require.NotNil(t, counter)
	assert.Equal(t, proxyHolder, counter.BidderID)
	assert.True(t, counter.Amount.Equal(dec("1150")), "counter lands one increment past the leader")
	assert.Equal(t, models.BidAutomatic, counter.BidType)
}

func TestNextProxyCounter_ReverseUndercuts(t *testing.T) {
	a := activeAuction(models.AuctionReverse)
	a.AllowAutoBidding = true

	proxyHolder := uuid.New()
	proxy := proxyBid(proxyHolder, "900", "700", 0)
	leader := bidAt("800", time.Minute)

	counter := NextProxyCounter(a, []models.Bid{proxy, leader}, &leader, testNow.Add(2*time.Minute))
	require.NotNil(t, counter)
	assert.True(t, counter.Amount.Equal(dec("750")))
}

func TestNextProxyCounter_LimitExhausted(t *testing.T) {
	a := activeAuction(models.AuctionForward)
	a.AllowAutoBidding = true

	proxy := proxyBid(uuid.New(), "1000", "1120", 0)
	leader := bidAt("1100", time.Minute)

	// The counter would have to be 1150, above the 1120 limit.
	assert.Nil(t, NextProxyCounter(a, []models.Bid{proxy, leader}, &leader, testNow))
}

func TestNextProxyCounter_LeaderOwnProxyDoesNotFire(t *testing.T) {
	a := activeAuction(models.AuctionForward)
	a.AllowAutoBidding = true

	holder := uuid.New()
	proxy := proxyBid(holder, "1000", "2000", 0)
	leader := proxyBid(holder, "1100", "2000", time.Minute)

	assert.Nil(t, NextProxyCounter(a, []models.Bid{proxy, leader}, &leader, testNow))
}

func TestNextProxyCounter_DisabledOrSealed(t *testing.T) {
	proxy := proxyBid(uuid.New(), "1000", "2000", 0)
	leader := bidAt("1100", time.Minute)

	off := activeAuction(models.AuctionForward)
	assert.Nil(t, NextProxyCounter(off, []models.Bid{proxy, leader}, &leader, testNow))

	sealed := activeAuction(models.AuctionSealedBid)
	sealed.AllowAutoBidding = true
	assert.Nil(t, NextProxyCounter(sealed, []models.Bid{proxy, leader}, &leader, testNow))
}
