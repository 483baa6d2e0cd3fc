package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sentinel errors — compare with errors.Is()
// ──────────────────────────────────────────────────────────────────────────────

// Shipment / auction errors
var (
	// ErrShipmentNotFound is returned when no shipment matches the given criteria.
	ErrShipmentNotFound = errors.New("shipment not found")

	// ErrAuctionClosed is returned when a bid is submitted against a shipment
	// that is not in StatusOpenForBidding.
	ErrAuctionClosed = errors.New("shipment is not open for bidding")

	// ErrAuctionExpired is returned when a bid is submitted after the shipment's
	// bidding deadline has passed.
	ErrAuctionExpired = errors.New("bidding window for this shipment has expired")
)

// Bid errors
var (
	// ErrBidNotFound is returned when no bid matches the given criteria.
	ErrBidNotFound = errors.New("bid not found")

	// ErrBidNotActive is returned when an award, rejection or counter-offer is
	// attempted on a bid that is not in BidStatusActive.
	ErrBidNotActive = errors.New("bid is not active")

	// ErrBidTooHigh is returned when a candidate bid does not undercut the
	// current lowest active bid by at least the minimum decrement.
	ErrBidTooHigh = errors.New("bid does not undercut the current lowest bid by the minimum decrement")

	// ErrInvalidBidAmount is returned when a bid amount is zero or negative.
	ErrInvalidBidAmount = errors.New("bid amount must be a positive whole amount")

	// ErrInvalidBidBreakdown is returned when a cost breakdown carries a
	// negative line item.
	ErrInvalidBidBreakdown = errors.New("bid breakdown amounts must not be negative")

	// ErrInvalidAutoAcceptRules is returned when an auto-accept configuration
	// is out of range (rating outside 0-5 or a non-positive delivery window).
	ErrInvalidAutoAcceptRules = errors.New("auto-accept rules are invalid")
)

// Carrier errors
var (
	// ErrCarrierProfileUnavailable is returned when the carrier profile service
	// cannot be reached or answers with a non-success status.
	ErrCarrierProfileUnavailable = errors.New("carrier profile is unavailable")
)

// Auth errors
var (
	// ErrUnauthorized is returned when a valid token is not present.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the authenticated user does not own the
	// resource or lacks the required role.
	ErrForbidden = errors.New("forbidden: insufficient permissions")

	// ErrTokenExpired is returned when a JWT has passed its TTL.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenInvalid is returned when a token cannot be parsed or its signature
	// does not match.
	ErrTokenInvalid = errors.New("token is invalid")
)

// ──────────────────────────────────────────────────────────────────────────────
// BidTooHighError — carries pricing context for the client
// ──────────────────────────────────────────────────────────────────────────────

// BidTooHighError wraps ErrBidTooHigh with the numbers a client needs to
// correct its bid: the lowest active bid and the maximum acceptable amount.
type BidTooHighError struct {
	CurrentLowest   decimal.Decimal
	RequiredCeiling decimal.Decimal
}

func (e *BidTooHighError) Error() string {
	return fmt.Sprintf("bid must be at most %s (current lowest bid is %s)",
		e.RequiredCeiling.String(), e.CurrentLowest.String())
}

// Unwrap lets errors.Is(err, ErrBidTooHigh) match through the wrapper.
func (e *BidTooHighError) Unwrap() error {
	return ErrBidTooHigh
}

// ──────────────────────────────────────────────────────────────────────────────
// Helper predicates
// ──────────────────────────────────────────────────────────────────────────────

// notFoundErrors collects all "entity not found" sentinel errors so that
// IsNotFound can stay in sync automatically.
var notFoundErrors = []error{
	ErrShipmentNotFound,
	ErrBidNotFound,
}

// IsNotFound returns true when err (or any error in its chain) is one of the
// domain "not found" errors. Use this instead of comparing error values directly
// when you need to translate domain errors to HTTP 404 responses.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict returns true for errors that represent a state conflict (e.g.
// bidding on a closed auction or awarding an already-settled bid).
func IsConflict(err error) bool {
	conflictErrors := []error{
		ErrAuctionClosed,
		ErrAuctionExpired,
		ErrBidNotActive,
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsAuthError returns true for authentication/authorisation errors.
func IsAuthError(err error) bool {
	authErrors := []error{
		ErrUnauthorized,
		ErrForbidden,
		ErrTokenExpired,
		ErrTokenInvalid,
	}
	for _, target := range authErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
