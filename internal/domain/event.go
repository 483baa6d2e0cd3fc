package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidEventType labels the bid lifecycle moments pushed to websocket clients
// and the Kafka event stream.
type BidEventType string

const (
	EventBidSubmitted BidEventType = "bid_submitted"
	EventBidAwarded   BidEventType = "bid_awarded"
	EventBidRejected  BidEventType = "bid_rejected"
	EventCounterOffer BidEventType = "counter_offer"
)

// BidEvent is the notification payload emitted after a bid lifecycle change
// has been committed. Delivery is best effort; the database row is the source
// of truth.
type BidEvent struct {
	EventID           uuid.UUID       `json:"event_id"`
	Type              BidEventType    `json:"type"`
	ShipmentID        uuid.UUID       `json:"shipment_id"`
	BidID             uuid.UUID       `json:"bid_id"`
	TransporterUserID uuid.UUID       `json:"transporter_user_id"`
	BidAmount         decimal.Decimal `json:"bid_amount"`
	Status            BidStatus       `json:"bid_status"`
	AutoAccepted      bool            `json:"auto_accepted,omitempty"`
	Reason            string          `json:"reason,omitempty"`
	OccurredAt        time.Time       `json:"occurred_at"`
}

// NewBidEvent builds the notification payload for a bid in its current state.
func NewBidEvent(t BidEventType, b *Bid) *BidEvent {
	return &BidEvent{
		EventID:           uuid.New(),
		Type:              t,
		ShipmentID:        b.ShipmentID,
		BidID:             b.ID,
		TransporterUserID: b.TransporterUserID,
		BidAmount:         b.BidAmount,
		Status:            b.Status,
		OccurredAt:        time.Now().UTC(),
	}
}
