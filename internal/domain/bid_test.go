package domain_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/shopspring/decimal"
)

// ── Status machine ────────────────────────────────────────────────────────────

func TestBidStatus_IsTerminal(t *testing.T) {
	cases := []struct {
		status domain.BidStatus
		want   bool
	}{
		{domain.BidStatusActive, false},
		{domain.BidStatusAwarded, true},
		{domain.BidStatusOutbid, true},
		{domain.BidStatusRejected, true},
	}
	for _, tc := range cases {
		if got := tc.status.IsTerminal(); got != tc.want {
			t.Errorf("IsTerminal(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestCanTransition_OnlyActiveMoves(t *testing.T) {
	terminals := []domain.BidStatus{
		domain.BidStatusAwarded, domain.BidStatusOutbid, domain.BidStatusRejected,
	}
	for _, to := range terminals {
		if !domain.CanTransition(domain.BidStatusActive, to) {
			t.Errorf("active -> %s should be allowed", to)
		}
	}
	// Terminal states never move again, not even to each other.
	for _, from := range terminals {
		for _, to := range append(terminals, domain.BidStatusActive) {
			if domain.CanTransition(from, to) {
				t.Errorf("%s -> %s should be rejected", from, to)
			}
		}
	}
}

// ── Breakdown ─────────────────────────────────────────────────────────────────

func TestBidBreakdown_Total(t *testing.T) {
	d := func(v int64) *decimal.Decimal {
		x := decimal.NewFromInt(v)
		return &x
	}
	b := domain.BidBreakdown{
		BaseRate: d(30000),
		FuelCost: d(8000),
		Tolls:    d(2000),
	}
	want := decimal.NewFromInt(40000)
	if !b.Total().Equal(want) {
		t.Errorf("Total() = %s, want %s", b.Total(), want)
	}

	var empty domain.BidBreakdown
	if !empty.Total().IsZero() {
		t.Errorf("empty breakdown Total() = %s, want 0", empty.Total())
	}
}

func TestBidBreakdown_CarriesEveryCostComponent(t *testing.T) {
	// A component the client sends must survive decode, the total, and
	// re-encode; a dropped field would silently lose carrier data.
	raw := `{"base_rate":"30000","fuel_cost":"8000","other_costs":"1500"}`
	var b domain.BidBreakdown
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.OtherCosts == nil || !b.OtherCosts.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("other_costs = %v, want 1500", b.OtherCosts)
	}
	if want := decimal.NewFromInt(39500); !b.Total().Equal(want) {
		t.Errorf("Total() = %s, want %s", b.Total(), want)
	}

	out, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), "other_costs") {
		t.Errorf("other_costs missing from re-encoded breakdown: %s", out)
	}
}

func TestBidBreakdown_HasNegative(t *testing.T) {
	d := func(v int64) *decimal.Decimal {
		x := decimal.NewFromInt(v)
		return &x
	}
	ok := domain.BidBreakdown{BaseRate: d(30000), OtherCosts: d(0)}
	if ok.HasNegative() {
		t.Error("non-negative breakdown must pass")
	}
	bad := domain.BidBreakdown{BaseRate: d(30000), FuelCost: d(-100)}
	if !bad.HasNegative() {
		t.Error("negative fuel_cost must be flagged")
	}
	var empty domain.BidBreakdown
	if empty.HasNegative() {
		t.Error("empty breakdown must pass")
	}
}

// ── Counter-offer construction ────────────────────────────────────────────────

func TestNewCounterOffer_Provenance(t *testing.T) {
	now := time.Now().UTC()
	est := now.Add(72 * time.Hour)
	original := &domain.Bid{
		ID:                    uuid.New(),
		ShipmentID:            uuid.New(),
		TransporterUserID:     uuid.New(),
		BidAmount:             decimal.NewFromInt(100000),
		EstimatedDeliveryDate: &est,
		Status:                domain.BidStatusActive,
		SubmittedAt:           now.Add(-time.Hour),
	}

	counter := domain.NewCounterOffer(original, decimal.NewFromInt(90000), "", now)

	if !counter.IsCounterOffer {
		t.Error("counter offer must carry is_counter_offer = true")
	}
	if counter.OriginalBidID == nil || *counter.OriginalBidID != original.ID {
		t.Errorf("original_bid_id = %v, want %s", counter.OriginalBidID, original.ID)
	}
	if counter.TransporterUserID != original.TransporterUserID {
		t.Error("counter offer must stay attributed to the original carrier")
	}
	if counter.ShipmentID != original.ShipmentID {
		t.Error("counter offer must target the same shipment")
	}
	if counter.Status != domain.BidStatusActive {
		t.Errorf("counter offer status = %s, want active", counter.Status)
	}
	if counter.ID == original.ID {
		t.Error("counter offer must be a new row, not a mutation of the original")
	}
	// Default message embeds the proposed amount.
	if counter.BidMessage != "Counter-offer: 90000" {
		t.Errorf("default message = %q", counter.BidMessage)
	}
	// Original bid is untouched.
	if original.Status != domain.BidStatusActive {
		t.Errorf("original bid status changed to %s", original.Status)
	}
}

func TestNewCounterOffer_CustomMessage(t *testing.T) {
	original := &domain.Bid{ID: uuid.New(), BidAmount: decimal.NewFromInt(100000)}
	counter := domain.NewCounterOffer(original, decimal.NewFromInt(95000), "meet in the middle?", time.Now().UTC())
	if counter.BidMessage != "meet in the middle?" {
		t.Errorf("message = %q, want custom message preserved", counter.BidMessage)
	}
}
