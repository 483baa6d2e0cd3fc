package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/shopspring/decimal"
)

func TestComputeBidAnalytics_NoBids(t *testing.T) {
	shipmentID := uuid.New()
	a := domain.ComputeBidAnalytics(shipmentID, time.Now().UTC(), nil)

	if a.ShipmentID != shipmentID {
		t.Errorf("shipment id = %s, want %s", a.ShipmentID, shipmentID)
	}
	if a.TotalBids != 0 {
		t.Errorf("total bids = %d, want 0", a.TotalBids)
	}
	if !a.LowestBid.IsZero() || !a.HighestBid.IsZero() || !a.AverageBid.IsZero() || !a.BidSpread.IsZero() {
		t.Error("all amounts must be zero with no bids")
	}
	if a.TimeToFirstBidMinutes != nil {
		t.Errorf("time to first bid = %d, want nil", *a.TimeToFirstBidMinutes)
	}
}

func TestComputeBidAnalytics_Summary(t *testing.T) {
	listedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	shipmentID := uuid.New()
	mk := func(amount int64, submittedAt time.Time) *domain.Bid {
		return &domain.Bid{
			ID:          uuid.New(),
			ShipmentID:  shipmentID,
			BidAmount:   decimal.NewFromInt(amount),
			Status:      domain.BidStatusActive,
			SubmittedAt: submittedAt,
		}
	}
	bids := []*domain.Bid{
		mk(50000, listedAt.Add(45*time.Minute)),
		mk(48000, listedAt.Add(90*time.Minute)),
		mk(45000, listedAt.Add(120*time.Minute)),
	}

	a := domain.ComputeBidAnalytics(shipmentID, listedAt, bids)

	if a.TotalBids != 3 {
		t.Errorf("total bids = %d, want 3", a.TotalBids)
	}
	if want := decimal.NewFromInt(45000); !a.LowestBid.Equal(want) {
		t.Errorf("lowest = %s, want %s", a.LowestBid, want)
	}
	if want := decimal.NewFromInt(50000); !a.HighestBid.Equal(want) {
		t.Errorf("highest = %s, want %s", a.HighestBid, want)
	}
	// 143000 / 3 rounds to 47667 whole units.
	if want := decimal.NewFromInt(47667); !a.AverageBid.Equal(want) {
		t.Errorf("average = %s, want %s", a.AverageBid, want)
	}
	if want := decimal.NewFromInt(5000); !a.BidSpread.Equal(want) {
		t.Errorf("spread = %s, want %s", a.BidSpread, want)
	}
	if a.TimeToFirstBidMinutes == nil || *a.TimeToFirstBidMinutes != 45 {
		t.Errorf("time to first bid = %v, want 45", a.TimeToFirstBidMinutes)
	}
	t.Logf("analytics: %+v", a)
}

func TestComputeBidAnalytics_FirstBidByTimestampNotOrder(t *testing.T) {
	listedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	shipmentID := uuid.New()
	// Later submission appears first in the slice; the earliest timestamp
	// must still win.
	bids := []*domain.Bid{
		{ID: uuid.New(), BidAmount: decimal.NewFromInt(60000), SubmittedAt: listedAt.Add(2 * time.Hour)},
		{ID: uuid.New(), BidAmount: decimal.NewFromInt(61000), SubmittedAt: listedAt.Add(10 * time.Minute)},
	}
	a := domain.ComputeBidAnalytics(shipmentID, listedAt, bids)
	if a.TimeToFirstBidMinutes == nil || *a.TimeToFirstBidMinutes != 10 {
		t.Errorf("time to first bid = %v, want 10", a.TimeToFirstBidMinutes)
	}
}
