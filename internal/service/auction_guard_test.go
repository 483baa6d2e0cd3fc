package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/service"
	"github.com/shopspring/decimal"
)

func openShipment() *domain.Shipment {
	return &domain.Shipment{
		ID:            uuid.New(),
		ShipperUserID: uuid.New(),
		Status:        domain.StatusOpenForBidding,
	}
}

func activeBid(amount int64) *domain.Bid {
	return &domain.Bid{
		ID:        uuid.New(),
		BidAmount: decimal.NewFromInt(amount),
		Status:    domain.BidStatusActive,
	}
}

func TestAuctionGuard_FirstBidExempt(t *testing.T) {
	guard := service.NewAuctionGuard(1000)
	now := time.Now().UTC()

	// No lowest bid yet: any positive whole amount is admitted.
	if err := guard.Check(openShipment(), nil, decimal.NewFromInt(999999), now); err != nil {
		t.Fatalf("first bid should be exempt from the decrement rule, got %v", err)
	}
}

func TestAuctionGuard_DecrementRule(t *testing.T) {
	guard := service.NewAuctionGuard(1000)
	now := time.Now().UTC()
	lowest := activeBid(100000)

	// 99500 does not undercut 100000 by the full 1000.
	err := guard.Check(openShipment(), lowest, decimal.NewFromInt(99500), now)
	var tooHigh *domain.BidTooHighError
	if !errors.As(err, &tooHigh) {
		t.Fatalf("expected BidTooHighError, got %v", err)
	}
	if !errors.Is(err, domain.ErrBidTooHigh) {
		t.Error("BidTooHighError must unwrap to ErrBidTooHigh")
	}
	if want := decimal.NewFromInt(99000); !tooHigh.RequiredCeiling.Equal(want) {
		t.Errorf("required ceiling = %s, want %s", tooHigh.RequiredCeiling, want)
	}
	if want := decimal.NewFromInt(100000); !tooHigh.CurrentLowest.Equal(want) {
		t.Errorf("current lowest = %s, want %s", tooHigh.CurrentLowest, want)
	}
	t.Logf("rejection: %v", err)

	// Exactly at the ceiling is admitted.
	if err := guard.Check(openShipment(), lowest, decimal.NewFromInt(99000), now); err != nil {
		t.Errorf("bid exactly at the ceiling should pass, got %v", err)
	}
	// Below the ceiling is admitted.
	if err := guard.Check(openShipment(), lowest, decimal.NewFromInt(95000), now); err != nil {
		t.Errorf("bid below the ceiling should pass, got %v", err)
	}
}

func TestAuctionGuard_InvalidAmounts(t *testing.T) {
	guard := service.NewAuctionGuard(1000)
	now := time.Now().UTC()
	s := openShipment()

	for _, amount := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-500),
		decimal.NewFromFloat(99000.50),
	} {
		err := guard.Check(s, nil, amount, now)
		if !errors.Is(err, domain.ErrInvalidBidAmount) {
			t.Errorf("Check(amount=%s) = %v, want ErrInvalidBidAmount", amount, err)
		}
	}
}

func TestAuctionGuard_ClosedAndExpired(t *testing.T) {
	guard := service.NewAuctionGuard(1000)
	now := time.Now().UTC()

	awarded := openShipment()
	awarded.Status = domain.StatusBidAwarded
	if err := guard.Check(awarded, nil, decimal.NewFromInt(50000), now); !errors.Is(err, domain.ErrAuctionClosed) {
		t.Errorf("closed shipment: got %v, want ErrAuctionClosed", err)
	}

	expired := openShipment()
	past := now.Add(-time.Minute)
	expired.BidExpiresAt = &past
	if err := guard.Check(expired, nil, decimal.NewFromInt(50000), now); !errors.Is(err, domain.ErrAuctionExpired) {
		t.Errorf("expired deadline: got %v, want ErrAuctionExpired", err)
	}

	// Amount validation happens before the open check.
	if err := guard.Check(awarded, nil, decimal.NewFromInt(-1), now); !errors.Is(err, domain.ErrInvalidBidAmount) {
		t.Errorf("invalid amount on closed shipment: got %v, want ErrInvalidBidAmount", err)
	}
}

func TestAuctionGuard_CustomDecrement(t *testing.T) {
	guard := service.NewAuctionGuard(2500)
	now := time.Now().UTC()
	lowest := activeBid(80000)

	if err := guard.Check(openShipment(), lowest, decimal.NewFromInt(77501), now); err == nil {
		t.Error("77501 should miss the 2500 decrement against 80000")
	}
	if err := guard.Check(openShipment(), lowest, decimal.NewFromInt(77500), now); err != nil {
		t.Errorf("77500 should satisfy the 2500 decrement, got %v", err)
	}
}
