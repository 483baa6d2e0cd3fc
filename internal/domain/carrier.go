package domain

import (
	"time"

	"github.com/google/uuid"
)

// CarrierProfile is the reputation snapshot fetched from the carrier profile
// service. OverallRating is on a 0-5 scale; SuccessRate is a percentage.
type CarrierProfile struct {
	CarrierID          uuid.UUID  `json:"carrier_id"`
	CompanyName        string     `json:"company_name"`
	OverallRating      float64    `json:"overall_rating"`
	SuccessRate        float64    `json:"success_rate"`
	CompletedShipments int        `json:"completed_shipments"`
	Verified           bool       `json:"verified"`
	LastActiveAt       *time.Time `json:"last_active_at,omitempty"`
}
