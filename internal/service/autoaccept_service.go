package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Interfaces injected into AutoAcceptService
// ──────────────────────────────────────────────────────────────────────────────

// ShipmentSource is the minimal read interface the evaluator needs.
// Implemented by repository.ShipmentRepository.
type ShipmentSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error)
}

// CarrierProfileSource fetches carrier reputation data.
// Implemented by ProfileService.
type CarrierProfileSource interface {
	GetCarrierProfile(ctx context.Context, carrierID uuid.UUID) (*domain.CarrierProfile, error)
}

// Awarder executes the award cascade. Implemented by TransitionService, so an
// auto-accepted bid settles through exactly the same transaction as a manual
// award, with the emitted event flagged as automatic.
type Awarder interface {
	AwardAutoAccepted(ctx context.Context, bidID, actorUserID uuid.UUID) (*domain.Bid, error)
}

// ──────────────────────────────────────────────────────────────────────────────
// AutoAcceptService
// ──────────────────────────────────────────────────────────────────────────────

// AutoAcceptService decides, right after a bid commits, whether the shipment's
// auto-accept rules award it instantly. The checks run in a fixed order and
// short-circuit on the first failure; the carrier profile is only fetched when
// a minimum rating is actually configured.
type AutoAcceptService struct {
	shipments ShipmentSource
	profiles  CarrierProfileSource
	awarder   Awarder // injected after TransitionService is built
}

// NewAutoAcceptService creates an AutoAcceptService.
func NewAutoAcceptService(shipments ShipmentSource, profiles CarrierProfileSource) *AutoAcceptService {
	return &AutoAcceptService{shipments: shipments, profiles: profiles}
}

// SetAwarder injects the TransitionService dependency post-construction.
func (s *AutoAcceptService) SetAwarder(a Awarder) { s.awarder = a }

// Evaluate runs the shipment's auto-accept rules against a freshly committed
// bid. It never returns an error: any failure along the way, including an
// unreachable profile service, counts as "not accepted" and the bid simply
// stays active for manual review.
func (s *AutoAcceptService) Evaluate(ctx context.Context, bid *domain.Bid) AutoAcceptDecision {
	shipment, err := s.shipments.GetByID(ctx, bid.ShipmentID)
	if err != nil {
		slog.Error("auto-accept: load shipment failed", "shipment_id", bid.ShipmentID, "error", err)
		return AutoAcceptDecision{}
	}
	rules := shipment.AutoAcceptRules()

	// ── 1. Feature toggle ────────────────────────────────────────────────────
	if !rules.Enabled {
		return AutoAcceptDecision{}
	}

	// ── 2. Price threshold ───────────────────────────────────────────────────
	if !rules.PriceOK(bid.BidAmount) {
		return AutoAcceptDecision{Reason: domain.ReasonPriceExceedsThreshold}
	}

	// ── 3. Carrier rating ────────────────────────────────────────────────────
	// A profile we cannot fetch is a hard stop: never auto-award a carrier
	// whose reputation is unknown.
	if rules.MinRating != nil {
		profile, err := s.profiles.GetCarrierProfile(ctx, bid.TransporterUserID)
		if err != nil {
			slog.Warn("auto-accept: carrier profile unavailable",
				"carrier_id", bid.TransporterUserID, "error", err)
			return AutoAcceptDecision{Reason: domain.ReasonProfileUnavailable}
		}
		if !rules.RatingOK(profile.OverallRating) {
			return AutoAcceptDecision{Reason: domain.ReasonRatingBelowMinimum}
		}
	}

	// ── 4. Delivery window ───────────────────────────────────────────────────
	if rules.MaxDeliveryDays != nil && bid.EstimatedDeliveryDate != nil {
		if !rules.DeliveryOK(*bid.EstimatedDeliveryDate, shipment.ScheduledPickupDate) {
			return AutoAcceptDecision{Reason: domain.ReasonDeliveryTooLong}
		}
	}

	// ── 5. Award through the shared cascade ──────────────────────────────────
	if s.awarder == nil {
		return AutoAcceptDecision{}
	}
	if _, err := s.awarder.AwardAutoAccepted(ctx, bid.ID, shipment.ShipperUserID); err != nil {
		// Most likely a concurrent manual award got there first.
		slog.Warn("auto-accept: award failed", "bid_id", bid.ID, "error", err)
		return AutoAcceptDecision{}
	}

	slog.Info("bid auto-accepted", "bid_id", bid.ID, "shipment_id", shipment.ID,
		"amount", bid.BidAmount.String())
	return AutoAcceptDecision{Accepted: true}
}
