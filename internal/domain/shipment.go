// Package domain defines the core business entities and types for the
// freight marketplace bidding and award engine.
package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Types & constants
// ──────────────────────────────────────────────────────────────────────────────

// ShipmentStatus represents the lifecycle state of a shipment listing.
type ShipmentStatus string

const (
	StatusDraft          ShipmentStatus = "draft"            // created, not yet visible to carriers
	StatusOpenForBidding ShipmentStatus = "open_for_bidding" // accepting bids
	StatusBidAwarded     ShipmentStatus = "bid_awarded"      // a winning bid has been chosen
	StatusInTransit      ShipmentStatus = "in_transit"       // carrier picked up the load
	StatusDelivered      ShipmentStatus = "delivered"        // completed
	StatusCancelled      ShipmentStatus = "cancelled"        // withdrawn by the shipper
)

// ──────────────────────────────────────────────────────────────────────────────
// Shipment
// ──────────────────────────────────────────────────────────────────────────────

// Shipment represents a single freight listing put out to reverse auction.
// Bids compete downward: the lowest priced active bid leads.
type Shipment struct {
	ID                  uuid.UUID      `json:"id"                    db:"id"`
	ShipperUserID       uuid.UUID      `json:"shipper_user_id"       db:"shipper_user_id"`
	OriginCity          string         `json:"origin_city"           db:"origin_city"`
	DestinationCity     string         `json:"destination_city"      db:"destination_city"`
	CargoDescription    string         `json:"cargo_description"     db:"cargo_description"`
	WeightKg            *decimal.Decimal `json:"weight_kg"           db:"weight_kg"`
	Status              ShipmentStatus `json:"status"                db:"status"`
	ScheduledPickupDate time.Time      `json:"scheduled_pickup_date" db:"scheduled_pickup_date"`
	BidExpiresAt        *time.Time     `json:"bid_expires_at"        db:"bid_expires_at"`

	AutoAcceptEnabled         bool             `json:"auto_accept_enabled"           db:"auto_accept_enabled"`
	AutoAcceptPriceThreshold  *decimal.Decimal `json:"auto_accept_price_threshold"   db:"auto_accept_price_threshold"`
	AutoAcceptMinRating       *float64         `json:"auto_accept_min_rating"        db:"auto_accept_min_rating"`
	AutoAcceptMaxDeliveryDays *int             `json:"auto_accept_max_delivery_days" db:"auto_accept_max_delivery_days"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsOpenForBidding returns true while the shipment accepts new bids.
func (s *Shipment) IsOpenForBidding() bool {
	return s.Status == StatusOpenForBidding
}

// BiddingExpired returns true once the bidding deadline (if any) has passed.
// A nil BidExpiresAt means the auction stays open until the shipper acts.
func (s *Shipment) BiddingExpired(now time.Time) bool {
	return s.BidExpiresAt != nil && now.After(*s.BidExpiresAt)
}

// AutoAcceptRules extracts the shipment's auto-accept configuration.
func (s *Shipment) AutoAcceptRules() AutoAcceptRules {
	return AutoAcceptRules{
		Enabled:         s.AutoAcceptEnabled,
		PriceThreshold:  s.AutoAcceptPriceThreshold,
		MinRating:       s.AutoAcceptMinRating,
		MaxDeliveryDays: s.AutoAcceptMaxDeliveryDays,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// AutoAcceptRules
// ──────────────────────────────────────────────────────────────────────────────

// Rejection reasons surfaced to clients when a bid fails auto-accept checks.
const (
	ReasonPriceExceedsThreshold = "Price exceeds threshold"
	ReasonRatingBelowMinimum    = "Rating below minimum"
	ReasonDeliveryTooLong       = "Delivery time too long"
	ReasonProfileUnavailable    = "Carrier profile unavailable"
)

// AutoAcceptRules is the per-shipment configuration for instant awarding.
// Each criterion is optional; a nil pointer means the check is skipped.
type AutoAcceptRules struct {
	Enabled         bool             `json:"enabled"`
	PriceThreshold  *decimal.Decimal `json:"price_threshold,omitempty"`
	MinRating       *float64         `json:"min_rating,omitempty"`
	MaxDeliveryDays *int             `json:"max_delivery_days,omitempty"`
}

// PriceOK reports whether the amount passes the price threshold check.
func (r AutoAcceptRules) PriceOK(amount decimal.Decimal) bool {
	return r.PriceThreshold == nil || !amount.GreaterThan(*r.PriceThreshold)
}

// RatingOK reports whether the carrier's rating passes the minimum rating check.
func (r AutoAcceptRules) RatingOK(rating float64) bool {
	return r.MinRating == nil || rating >= *r.MinRating
}

// DeliveryOK reports whether the promised delivery date fits inside the
// maximum delivery window, counted in whole days from the scheduled pickup.
func (r AutoAcceptRules) DeliveryOK(delivery, pickup time.Time) bool {
	return r.MaxDeliveryDays == nil || DeliveryDays(delivery, pickup) <= *r.MaxDeliveryDays
}

// DeliveryDays returns the ceiling whole-day difference between a promised
// delivery date and the scheduled pickup date. A delivery before the pickup
// counts as zero days.
func DeliveryDays(delivery, pickup time.Time) int {
	diff := delivery.Sub(pickup)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}
