package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Types & constants
// ──────────────────────────────────────────────────────────────────────────────

// BidStatus represents the current state of a carrier's bid.
type BidStatus string

const (
	BidStatusActive   BidStatus = "active"   // in competition
	BidStatusAwarded  BidStatus = "awarded"  // chosen by the shipper or auto-accept
	BidStatusOutbid   BidStatus = "outbid"   // a sibling bid was awarded instead
	BidStatusRejected BidStatus = "rejected" // explicitly declined by the shipper
)

// IsTerminal returns true for statuses a bid can never leave.
func (s BidStatus) IsTerminal() bool {
	return s == BidStatusAwarded || s == BidStatusOutbid || s == BidStatusRejected
}

// CanTransition reports whether a status change is allowed. The machine is
// one-directional: only active bids move, and only into a terminal status.
func CanTransition(from, to BidStatus) bool {
	return from == BidStatusActive && to.IsTerminal()
}

// ──────────────────────────────────────────────────────────────────────────────
// BidBreakdown — itemised cost structure stored as JSONB
// ──────────────────────────────────────────────────────────────────────────────

// BidBreakdown itemises how a carrier arrived at its price. Every field is
// optional; the total is informational and is not reconciled against BidAmount.
type BidBreakdown struct {
	BaseRate      *decimal.Decimal `json:"base_rate,omitempty"`
	FuelCost      *decimal.Decimal `json:"fuel_cost,omitempty"`
	DriverPayment *decimal.Decimal `json:"driver_payment,omitempty"`
	Tolls         *decimal.Decimal `json:"tolls,omitempty"`
	Insurance     *decimal.Decimal `json:"insurance,omitempty"`
	Overhead      *decimal.Decimal `json:"overhead,omitempty"`
	ProfitMargin  *decimal.Decimal `json:"profit_margin,omitempty"`
	OtherCosts    *decimal.Decimal `json:"other_costs,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// lineItems returns the populated cost components in declaration order.
func (b BidBreakdown) lineItems() []*decimal.Decimal {
	return []*decimal.Decimal{
		b.BaseRate, b.FuelCost, b.DriverPayment, b.Tolls,
		b.Insurance, b.Overhead, b.ProfitMargin, b.OtherCosts,
	}
}

// Total sums the populated line items.
func (b BidBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.lineItems() {
		if item != nil {
			total = total.Add(*item)
		}
	}
	return total
}

// HasNegative reports whether any populated line item is negative. Cost
// components are amounts paid out, never credits.
func (b BidBreakdown) HasNegative() bool {
	for _, item := range b.lineItems() {
		if item != nil && item.IsNegative() {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer so sqlx can write the breakdown as JSONB.
func (b BidBreakdown) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements sql.Scanner for reading the JSONB column back.
func (b *BidBreakdown) Scan(src interface{}) error {
	if src == nil {
		*b = BidBreakdown{}
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("BidBreakdown.Scan: unexpected type %T", src)
	}
	return json.Unmarshal(raw, b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bid
// ──────────────────────────────────────────────────────────────────────────────

// Bid represents a single carrier offer on a Shipment. Amounts are whole
// currency units; fractional bids are rejected at submission.
type Bid struct {
	ID                    uuid.UUID       `json:"id"                      db:"id"`
	ShipmentID            uuid.UUID       `json:"shipment_id"             db:"shipment_id"`
	TransporterUserID     uuid.UUID       `json:"transporter_user_id"     db:"transporter_user_id"`
	BidAmount             decimal.Decimal `json:"bid_amount"              db:"bid_amount"`
	Breakdown             BidBreakdown    `json:"bid_breakdown"           db:"bid_breakdown"`
	EstimatedDeliveryDate *time.Time      `json:"estimated_delivery_date" db:"estimated_delivery_date"`
	BidMessage            string          `json:"bid_message"             db:"bid_message"`
	Status                BidStatus       `json:"bid_status"              db:"bid_status"`

	AutoBidEnabled   bool             `json:"auto_bid_enabled"    db:"auto_bid_enabled"`
	MaxAutoBidAmount *decimal.Decimal `json:"max_auto_bid_amount" db:"max_auto_bid_amount"`

	IsCounterOffer bool       `json:"is_counter_offer" db:"is_counter_offer"`
	OriginalBidID  *uuid.UUID `json:"original_bid_id"  db:"original_bid_id"`

	SubmittedAt time.Time `json:"submitted_at" db:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"   db:"updated_at"`
}

// IsActive returns true while the bid is still in competition.
func (b *Bid) IsActive() bool {
	return b.Status == BidStatusActive
}

// ──────────────────────────────────────────────────────────────────────────────
// SubmitBidRequest — value object used by BidService
// ──────────────────────────────────────────────────────────────────────────────

// SubmitBidRequest carries the validated inputs for submitting a bid.
type SubmitBidRequest struct {
	ShipmentID            uuid.UUID
	TransporterUserID     uuid.UUID
	Amount                decimal.Decimal
	Breakdown             BidBreakdown
	EstimatedDeliveryDate *time.Time
	Message               string
	AutoBidEnabled        bool
	MaxAutoBidAmount      *decimal.Decimal
}

// NewBid builds an active Bid from a submission request.
func NewBid(req SubmitBidRequest, now time.Time) *Bid {
	return &Bid{
		ID:                    uuid.New(),
		ShipmentID:            req.ShipmentID,
		TransporterUserID:     req.TransporterUserID,
		BidAmount:             req.Amount,
		Breakdown:             req.Breakdown,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
		BidMessage:            req.Message,
		Status:                BidStatusActive,
		AutoBidEnabled:        req.AutoBidEnabled,
		MaxAutoBidAmount:      req.MaxAutoBidAmount,
		SubmittedAt:           now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// NewCounterOffer builds a fresh active bid that records the shipper's
// proposed price. The original bid is referenced, not mutated: it stays
// active so the carrier can still be awarded at its own price.
func NewCounterOffer(original *Bid, amount decimal.Decimal, message string, now time.Time) *Bid {
	if message == "" {
		message = fmt.Sprintf("Counter-offer: %s", amount.String())
	}
	originalID := original.ID
	return &Bid{
		ID:                    uuid.New(),
		ShipmentID:            original.ShipmentID,
		TransporterUserID:     original.TransporterUserID,
		BidAmount:             amount,
		Breakdown:             original.Breakdown,
		EstimatedDeliveryDate: original.EstimatedDeliveryDate,
		BidMessage:            message,
		Status:                BidStatusActive,
		IsCounterOffer:        true,
		OriginalBidID:         &originalID,
		SubmittedAt:           now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// BidResponse is the API-safe view of a bid.
type BidResponse struct {
	ID                    uuid.UUID       `json:"id"`
	ShipmentID            uuid.UUID       `json:"shipment_id"`
	TransporterUserID     uuid.UUID       `json:"transporter_user_id"`
	BidAmount             decimal.Decimal `json:"bid_amount"`
	Breakdown             BidBreakdown    `json:"bid_breakdown"`
	EstimatedDeliveryDate *time.Time      `json:"estimated_delivery_date,omitempty"`
	BidMessage            string          `json:"bid_message,omitempty"`
	Status                BidStatus       `json:"bid_status"`
	IsCounterOffer        bool            `json:"is_counter_offer"`
	OriginalBidID         *uuid.UUID      `json:"original_bid_id,omitempty"`
	SubmittedAt           time.Time       `json:"submitted_at"`
}

// ToResponse converts a Bid to its API response form.
func (b *Bid) ToResponse() BidResponse {
	return BidResponse{
		ID:                    b.ID,
		ShipmentID:            b.ShipmentID,
		TransporterUserID:     b.TransporterUserID,
		BidAmount:             b.BidAmount,
		Breakdown:             b.Breakdown,
		EstimatedDeliveryDate: b.EstimatedDeliveryDate,
		BidMessage:            b.BidMessage,
		Status:                b.Status,
		IsCounterOffer:        b.IsCounterOffer,
		OriginalBidID:         b.OriginalBidID,
		SubmittedAt:           b.SubmittedAt,
	}
}
