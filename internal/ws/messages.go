// Package ws holds WebSocket message types and the Hub implementation.
// messages.go defines all message structs broadcast to connected clients.
package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/shopspring/decimal"
)

// MsgType identifies the kind of WS message so clients can switch on it.
type MsgType string

const (
	MsgTypeBidSubmitted MsgType = "bid_submitted"
	MsgTypeBidAwarded   MsgType = "bid_awarded"
	MsgTypeBidRejected  MsgType = "bid_rejected"
	MsgTypeCounterOffer MsgType = "counter_offer"
	MsgTypeError        MsgType = "error"
)

// msgTypeFor maps a bid lifecycle event to its wire message type.
func msgTypeFor(t domain.BidEventType) MsgType {
	switch t {
	case domain.EventBidAwarded:
		return MsgTypeBidAwarded
	case domain.EventBidRejected:
		return MsgTypeBidRejected
	case domain.EventCounterOffer:
		return MsgTypeCounterOffer
	default:
		return MsgTypeBidSubmitted
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// BidActivityMessage — broadcast on every bid lifecycle change.
// ──────────────────────────────────────────────────────────────────────────────

// BidActivityMessage tells clients watching a shipment that its bid set
// changed: a new offer arrived, the auction settled, or a bid was declined.
type BidActivityMessage struct {
	Type              MsgType          `json:"type"`
	ShipmentID        uuid.UUID        `json:"shipment_id"`
	BidID             uuid.UUID        `json:"bid_id"`
	TransporterUserID uuid.UUID        `json:"transporter_user_id"`
	BidAmount         decimal.Decimal  `json:"bid_amount"`
	BidStatus         domain.BidStatus `json:"bid_status"`
	Reason            string           `json:"reason,omitempty"`
	Timestamp         time.Time        `json:"timestamp"`
}

// ──────────────────────────────────────────────────────────────────────────────
// ErrorMessage — sent to a single client on a non-fatal error.
// ──────────────────────────────────────────────────────────────────────────────

// ErrorMessage is sent directly to one client (not broadcast).
type ErrorMessage struct {
	Type    MsgType `json:"type"`
	Code    string  `json:"code"`
	Message string  `json:"message"`
}
