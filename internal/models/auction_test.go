package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuction_BidsSealed(t *testing.T) {
	tests := []struct {
		name        string
		auctionType AuctionType
		status      AuctionStatus
		want        bool
	}{
		{name: "sealed active", auctionType: AuctionSealedBid, status: StatusActive, want: true},
		{name: "sealed scheduled", auctionType: AuctionSealedBid, status: StatusScheduled, want: true},
		{name: "sealed ended opens", auctionType: AuctionSealedBid, status: StatusEnded, want: false},
		{name: "sealed awarded opens", auctionType: AuctionSealedBid, status: StatusAwarded, want: false},
		{name: "sealed cancelled opens", auctionType: AuctionSealedBid, status: StatusCancelled, want: false},
		{name: "reverse active never sealed", auctionType: AuctionReverse, status: StatusActive, want: false},
		{name: "forward active never sealed", auctionType: AuctionForward, status: StatusActive, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Auction{AuctionType: tt.auctionType, Status: tt.status}
			assert.Equal(t, tt.want, a.BidsSealed())
		})
	}
}
