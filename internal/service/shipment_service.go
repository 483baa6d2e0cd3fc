package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/repository"
)

// ShipmentService covers the shipper-facing shipment operations the bidding
// flow needs: reading a listing and managing its auto-accept rules.
type ShipmentService struct {
	shipmentRepo *repository.ShipmentRepository
}

// NewShipmentService creates a ShipmentService.
func NewShipmentService(shipmentRepo *repository.ShipmentRepository) *ShipmentService {
	return &ShipmentService{shipmentRepo: shipmentRepo}
}

// GetShipment returns a shipment by id.
func (s *ShipmentService) GetShipment(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	return s.shipmentRepo.GetByID(ctx, id)
}

// ConfigureAutoAccept replaces the shipment's auto-accept rules. Only the
// shipment's owner may change them; the new rules apply to the next
// submission, already-active bids are not re-evaluated.
func (s *ShipmentService) ConfigureAutoAccept(ctx context.Context, shipmentID, actorUserID uuid.UUID, rules domain.AutoAcceptRules) (*domain.Shipment, error) {
	shipment, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.ShipperUserID != actorUserID {
		return nil, domain.ErrForbidden
	}
	if err := validateAutoAcceptRules(rules); err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.UpdateAutoAccept(ctx, shipmentID, rules); err != nil {
		return nil, err
	}
	return s.shipmentRepo.GetByID(ctx, shipmentID)
}

// validateAutoAcceptRules rejects configurations that could never match a
// legal bid.
func validateAutoAcceptRules(rules domain.AutoAcceptRules) error {
	if rules.PriceThreshold != nil && !rules.PriceThreshold.IsPositive() {
		return domain.ErrInvalidAutoAcceptRules
	}
	if rules.MinRating != nil && (*rules.MinRating < 0 || *rules.MinRating > 5) {
		return domain.ErrInvalidAutoAcceptRules
	}
	if rules.MaxDeliveryDays != nil && *rules.MaxDeliveryDays <= 0 {
		return domain.ErrInvalidAutoAcceptRules
	}
	return nil
}
