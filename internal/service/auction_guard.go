package service

import (
	"time"

	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/shopspring/decimal"
)

// AuctionGuard holds the reverse-auction admission rules. It is pure: the
// caller supplies the shipment and the current lowest active bid, read under
// the shipment row lock, and the guard only decides.
type AuctionGuard struct {
	minDecrement decimal.Decimal
}

// NewAuctionGuard creates a guard with the given minimum decrement in whole
// currency units.
func NewAuctionGuard(minDecrementUnits int64) *AuctionGuard {
	return &AuctionGuard{minDecrement: decimal.NewFromInt(minDecrementUnits)}
}

// MinDecrement returns the configured decrement.
func (g *AuctionGuard) MinDecrement() decimal.Decimal {
	return g.minDecrement
}

// Ceiling returns the highest acceptable amount given the current lowest
// active bid.
func (g *AuctionGuard) Ceiling(currentLowest decimal.Decimal) decimal.Decimal {
	return currentLowest.Sub(g.minDecrement)
}

// Check validates a candidate bid amount against the shipment state and the
// current lowest active bid (nil when the shipment has no active bids yet).
//
// Rules, in order:
//  1. the amount must be a positive whole number of currency units
//  2. the shipment must be open for bidding
//  3. the bidding deadline, when set, must not have passed
//  4. a non-first bid must undercut the lowest active bid by at least the
//     minimum decrement; the first bid is exempt
func (g *AuctionGuard) Check(shipment *domain.Shipment, lowest *domain.Bid, amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() || !amount.IsInteger() {
		return domain.ErrInvalidBidAmount
	}
	if !shipment.IsOpenForBidding() {
		return domain.ErrAuctionClosed
	}
	if shipment.BiddingExpired(now) {
		return domain.ErrAuctionExpired
	}
	if lowest != nil {
		ceiling := g.Ceiling(lowest.BidAmount)
		if amount.GreaterThan(ceiling) {
			return &domain.BidTooHighError{
				CurrentLowest:   lowest.BidAmount,
				RequiredCeiling: ceiling,
			}
		}
	}
	return nil
}
