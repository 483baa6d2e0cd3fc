package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/service"
	"github.com/shopspring/decimal"
)

// Submission input validation runs before the transaction is opened, so these
// paths are exercised without a database.

func validationOnlyBidService() *service.BidService {
	return service.NewBidService(nil, nil, nil, nil, service.NewAuctionGuard(1000))
}

func TestSubmitBid_RejectsNonPositiveAmount(t *testing.T) {
	svc := validationOnlyBidService()
	for _, amount := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-45000),
		decimal.NewFromFloat(45000.50),
	} {
		_, err := svc.SubmitBid(context.Background(), domain.SubmitBidRequest{
			ShipmentID:        uuid.New(),
			TransporterUserID: uuid.New(),
			Amount:            amount,
		})
		if !errors.Is(err, domain.ErrInvalidBidAmount) {
			t.Errorf("SubmitBid(amount=%s) = %v, want ErrInvalidBidAmount", amount, err)
		}
	}
}

func TestSubmitBid_RejectsNegativeBreakdownComponent(t *testing.T) {
	svc := validationOnlyBidService()
	fuel := decimal.NewFromInt(-100)
	_, err := svc.SubmitBid(context.Background(), domain.SubmitBidRequest{
		ShipmentID:        uuid.New(),
		TransporterUserID: uuid.New(),
		Amount:            decimal.NewFromInt(45000),
		Breakdown:         domain.BidBreakdown{FuelCost: &fuel},
	})
	if !errors.Is(err, domain.ErrInvalidBidBreakdown) {
		t.Fatalf("SubmitBid with negative fuel_cost = %v, want ErrInvalidBidBreakdown", err)
	}
}
