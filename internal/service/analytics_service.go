package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/repository"
)

// AnalyticsService builds read-only bid summaries for shippers comparing
// offers. It reads a plain snapshot and takes no locks, so the numbers may
// trail a concurrent submission.
type AnalyticsService struct {
	shipmentRepo *repository.ShipmentRepository
	bidRepo      *repository.BidRepository
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(shipmentRepo *repository.ShipmentRepository, bidRepo *repository.BidRepository) *AnalyticsService {
	return &AnalyticsService{shipmentRepo: shipmentRepo, bidRepo: bidRepo}
}

// GetBidAnalytics summarises the active bids on a shipment: count, lowest,
// highest, rounded average, spread, and minutes from listing to first bid.
func (s *AnalyticsService) GetBidAnalytics(ctx context.Context, shipmentID uuid.UUID) (*domain.BidAnalytics, error) {
	shipment, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	bids, err := s.bidRepo.GetActiveByShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("analytics_service.GetBidAnalytics: %w", err)
	}
	analytics := domain.ComputeBidAnalytics(shipment.ID, shipment.CreatedAt, bids)
	return &analytics, nil
}
