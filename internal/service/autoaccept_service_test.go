package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/service"
	"github.com/shopspring/decimal"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubShipments struct {
	shipment *domain.Shipment
	err      error
}

func (s *stubShipments) GetByID(_ context.Context, _ uuid.UUID) (*domain.Shipment, error) {
	return s.shipment, s.err
}

type stubProfiles struct {
	profile *domain.CarrierProfile
	err     error
	calls   int
}

func (s *stubProfiles) GetCarrierProfile(_ context.Context, _ uuid.UUID) (*domain.CarrierProfile, error) {
	s.calls++
	return s.profile, s.err
}

type stubAwarder struct {
	err   error
	calls int
	actor uuid.UUID
	bidID uuid.UUID
}

func (s *stubAwarder) AwardAutoAccepted(_ context.Context, bidID, actorUserID uuid.UUID) (*domain.Bid, error) {
	s.calls++
	s.bidID = bidID
	s.actor = actorUserID
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Bid{ID: bidID, Status: domain.BidStatusAwarded}, nil
}

// ── Fixtures ──────────────────────────────────────────────────────────────────

func autoAcceptShipment() *domain.Shipment {
	threshold := decimal.NewFromInt(50000)
	minRating := 4.0
	maxDays := 3
	return &domain.Shipment{
		ID:                        uuid.New(),
		ShipperUserID:             uuid.New(),
		Status:                    domain.StatusOpenForBidding,
		ScheduledPickupDate:       time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		AutoAcceptEnabled:         true,
		AutoAcceptPriceThreshold:  &threshold,
		AutoAcceptMinRating:       &minRating,
		AutoAcceptMaxDeliveryDays: &maxDays,
	}
}

func qualifyingBid(shipment *domain.Shipment) *domain.Bid {
	est := shipment.ScheduledPickupDate.Add(48 * time.Hour)
	return &domain.Bid{
		ID:                    uuid.New(),
		ShipmentID:            shipment.ID,
		TransporterUserID:     uuid.New(),
		BidAmount:             decimal.NewFromInt(48000),
		EstimatedDeliveryDate: &est,
		Status:                domain.BidStatusActive,
	}
}

func goodProfile() *domain.CarrierProfile {
	return &domain.CarrierProfile{CarrierID: uuid.New(), OverallRating: 4.6, Verified: true}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAutoAccept_AllChecksPass(t *testing.T) {
	shipment := autoAcceptShipment()
	bid := qualifyingBid(shipment)
	profiles := &stubProfiles{profile: goodProfile()}
	awarder := &stubAwarder{}

	svc := service.NewAutoAcceptService(&stubShipments{shipment: shipment}, profiles)
	svc.SetAwarder(awarder)

	decision := svc.Evaluate(context.Background(), bid)
	if !decision.Accepted {
		t.Fatalf("expected accepted, got %+v", decision)
	}
	if awarder.calls != 1 {
		t.Errorf("awarder called %d times, want 1", awarder.calls)
	}
	if awarder.bidID != bid.ID {
		t.Errorf("awarded bid %s, want %s", awarder.bidID, bid.ID)
	}
	// Award runs on behalf of the shipment owner.
	if awarder.actor != shipment.ShipperUserID {
		t.Errorf("actor = %s, want shipper %s", awarder.actor, shipment.ShipperUserID)
	}
}

func TestAutoAccept_Disabled(t *testing.T) {
	shipment := autoAcceptShipment()
	shipment.AutoAcceptEnabled = false
	bid := qualifyingBid(shipment)
	profiles := &stubProfiles{profile: goodProfile()}
	awarder := &stubAwarder{}

	svc := service.NewAutoAcceptService(&stubShipments{shipment: shipment}, profiles)
	svc.SetAwarder(awarder)

	decision := svc.Evaluate(context.Background(), bid)
	if decision.Accepted || decision.Reason != "" {
		t.Errorf("disabled rules must decline silently, got %+v", decision)
	}
	if profiles.calls != 0 {
		t.Error("disabled rules must not fetch the carrier profile")
	}
	if awarder.calls != 0 {
		t.Error("disabled rules must not award")
	}
}

func TestAutoAccept_PriceExceedsThreshold(t *testing.T) {
	shipment := autoAcceptShipment()
	bid := qualifyingBid(shipment)
	bid.BidAmount = decimal.NewFromInt(50001)
	profiles := &stubProfiles{profile: goodProfile()}
	awarder := &stubAwarder{}

	svc := service.NewAutoAcceptService(&stubShipments{shipment: shipment}, profiles)
	svc.SetAwarder(awarder)

	decision := svc.Evaluate(context.Background(), bid)
	if decision.Accepted {
		t.Fatal("over-threshold bid must not be accepted")
	}
	if decision.Reason != domain.ReasonPriceExceedsThreshold {
		t.Errorf("reason = %q, want %q", decision.Reason, domain.ReasonPriceExceedsThreshold)
	}
	// Price fails first, so the profile is never fetched.
	if profiles.calls != 0 {
		t.Error("price failure must short-circuit before the profile fetch")
	}
}

func TestAutoAccept_RatingBelowMinimum(t *testing.T) {
	shipment := autoAcceptShipment()
	bid := qualifyingBid(shipment)
	profiles := &stubProfiles{profile: &domain.CarrierProfile{OverallRating: 3.2}}
	awarder := &stubAwarder{}

	svc := service.NewAutoAcceptService(&stubShipments{shipment: shipment}, profiles)
	svc.SetAwarder(awarder)

	decision := svc.Evaluate(context.Background(), bid)
	if decision.Accepted {
		t.Fatal("low-rated carrier must not be accepted")
	}
	if decision.Reason != domain.ReasonRatingBelowMinimum {
		t.Errorf("reason = %q, want %q", decision.Reason, domain.ReasonRatingBelowMinimum)
	}
	if awarder.calls != 0 {
		t.Error("declined bid must not be awarded")
	}
}

func TestAutoAccept_ProfileUnavailableIsHardStop(t *testing.T) {
	shipment := autoAcceptShipment()
	bid := qualifyingBid(shipment)
	profiles := &stubProfiles{err: domain.ErrCarrierProfileUnavailable}
	awarder := &stubAwarder{}

	svc := service.NewAutoAcceptService(&stubShipments{shipment: shipment}, profiles)
	svc.SetAwarder(awarder)

	decision := svc.Evaluate(context.Background(), bid)
	if decision.Accepted {
		t.Fatal("unknown reputation must never auto-award")
	}
	if decision.Reason != domain.ReasonProfileUnavailable {
		t.Errorf("reason = %q, want %q", decision.Reason, domain.ReasonProfileUnavailable)
	}
	if awarder.calls != 0 {
		t.Error("profile failure must stop before the award")
	}
}

func TestAutoAccept_NoRatingRuleSkipsProfileFetch(t *testing.T) {
	shipment := autoAcceptShipment()
	shipment.AutoAcceptMinRating = nil
	bid := qualifyingBid(shipment)
	// Profile source would fail, but it must never be consulted.
	profiles := &stubProfiles{err: errors.New("unreachable")}
	awarder := &stubAwarder{}

	svc := service.NewAutoAcceptService(&stubShipments{shipment: shipment}, profiles)
	svc.SetAwarder(awarder)

	decision := svc.Evaluate(context.Background(), bid)
	if !decision.Accepted {
		t.Fatalf("expected accepted without a rating rule, got %+v", decision)
	}
	if profiles.calls != 0 {
		t.Error("no rating rule configured: the profile fetch must be skipped")
	}
}

func TestAutoAccept_DeliveryTooLong(t *testing.T) {
	shipment := autoAcceptShipment()
	bid := qualifyingBid(shipment)
	late := shipment.ScheduledPickupDate.Add(120 * time.Hour)
	bid.EstimatedDeliveryDate = &late
	profiles := &stubProfiles{profile: goodProfile()}
	awarder := &stubAwarder{}

	svc := service.NewAutoAcceptService(&stubShipments{shipment: shipment}, profiles)
	svc.SetAwarder(awarder)

	decision := svc.Evaluate(context.Background(), bid)
	if decision.Accepted {
		t.Fatal("slow delivery must not be accepted")
	}
	if decision.Reason != domain.ReasonDeliveryTooLong {
		t.Errorf("reason = %q, want %q", decision.Reason, domain.ReasonDeliveryTooLong)
	}
}

func TestAutoAccept_AwardRaceLoses(t *testing.T) {
	shipment := autoAcceptShipment()
	bid := qualifyingBid(shipment)
	profiles := &stubProfiles{profile: goodProfile()}
	// A concurrent manual award got there first.
	awarder := &stubAwarder{err: domain.ErrBidNotActive}

	svc := service.NewAutoAcceptService(&stubShipments{shipment: shipment}, profiles)
	svc.SetAwarder(awarder)

	decision := svc.Evaluate(context.Background(), bid)
	if decision.Accepted {
		t.Fatal("a lost award race must not report accepted")
	}
	if awarder.calls != 1 {
		t.Errorf("awarder called %d times, want 1", awarder.calls)
	}
}
