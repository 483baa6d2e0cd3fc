package domain

import (
	"time"

	"github.com/google/uuid"
)

// History action types.
const (
	ActionRejected     = "rejected"
	ActionCounterOffer = "counter_offer"
)

// BidHistory records a status transition that carries shipper feedback, such
// as a rejection reason or a counter-offer note. Rows are append-only.
type BidHistory struct {
	ID           uuid.UUID `json:"id"             db:"id"`
	BidID        uuid.UUID `json:"bid_id"         db:"bid_id"`
	ActionType   string    `json:"action_type"    db:"action_type"`
	ActionReason string    `json:"action_reason"  db:"action_reason"`
	ActorUserID  uuid.UUID `json:"actor_user_id"  db:"actor_user_id"`
	CreatedAt    time.Time `json:"created_at"     db:"created_at"`
}
