package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidAnalytics is a derived, read-only summary of the active bids competing
// on a shipment. All amounts are whole currency units; the average is rounded
// to the nearest whole unit.
type BidAnalytics struct {
	ShipmentID            uuid.UUID       `json:"shipment_id"`
	TotalBids             int             `json:"total_bids"`
	LowestBid             decimal.Decimal `json:"lowest_bid"`
	HighestBid            decimal.Decimal `json:"highest_bid"`
	AverageBid            decimal.Decimal `json:"average_bid"`
	BidSpread             decimal.Decimal `json:"bid_spread"`
	TimeToFirstBidMinutes *int64          `json:"time_to_first_bid_minutes"`
}

// ComputeBidAnalytics summarises the active bids on a shipment. With no
// active bids every amount is zero and TimeToFirstBidMinutes is nil.
func ComputeBidAnalytics(shipmentID uuid.UUID, listedAt time.Time, bids []*Bid) BidAnalytics {
	a := BidAnalytics{ShipmentID: shipmentID}
	if len(bids) == 0 {
		return a
	}

	lowest := bids[0].BidAmount
	highest := bids[0].BidAmount
	sum := decimal.Zero
	first := bids[0].SubmittedAt
	for _, b := range bids {
		if b.BidAmount.LessThan(lowest) {
			lowest = b.BidAmount
		}
		if b.BidAmount.GreaterThan(highest) {
			highest = b.BidAmount
		}
		sum = sum.Add(b.BidAmount)
		if b.SubmittedAt.Before(first) {
			first = b.SubmittedAt
		}
	}

	a.TotalBids = len(bids)
	a.LowestBid = lowest
	a.HighestBid = highest
	a.AverageBid = sum.Div(decimal.NewFromInt(int64(len(bids)))).Round(0)
	a.BidSpread = highest.Sub(lowest)

	if !listedAt.IsZero() {
		minutes := int64(math.Round(first.Sub(listedAt).Minutes()))
		a.TimeToFirstBidMinutes = &minutes
	}
	return a
}
