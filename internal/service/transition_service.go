package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/repository"
	"github.com/shopspring/decimal"
)

// TransitionService drives bid status transitions: awarding, rejecting and
// counter-offering. Every write path locks the shipment row first, the same
// lock bid submission takes, so transitions and submissions serialise.
type TransitionService struct {
	db           *sqlx.DB
	bidRepo      *repository.BidRepository
	shipmentRepo *repository.ShipmentRepository
	historyRepo  *repository.BidHistoryRepository
	notifier     Notifier
}

// NewTransitionService creates a TransitionService.
func NewTransitionService(
	db *sqlx.DB,
	bidRepo *repository.BidRepository,
	shipmentRepo *repository.ShipmentRepository,
	historyRepo *repository.BidHistoryRepository,
) *TransitionService {
	return &TransitionService{
		db:           db,
		bidRepo:      bidRepo,
		shipmentRepo: shipmentRepo,
		historyRepo:  historyRepo,
	}
}

// SetNotifier injects the notification sink post-construction.
func (s *TransitionService) SetNotifier(n Notifier) { s.notifier = n }

// ──────────────────────────────────────────────────────────────────────────────
// AwardBid
// ──────────────────────────────────────────────────────────────────────────────

// AwardBid settles the auction on a bid: the bid becomes awarded, the
// shipment becomes bid_awarded, and every other active bid becomes outbid,
// all inside a single PostgreSQL transaction. Either all three writes commit
// or none do.
//
// actorUserID must be the shipment's owner.
func (s *TransitionService) AwardBid(ctx context.Context, bidID, actorUserID uuid.UUID) (*domain.Bid, error) {
	return s.awardBid(ctx, bidID, actorUserID, false)
}

// AwardAutoAccepted runs the same award cascade on behalf of the auto-accept
// evaluator, acting as the shipment's owner. The emitted event is flagged so
// listeners can tell an instant award from a manual one.
func (s *TransitionService) AwardAutoAccepted(ctx context.Context, bidID, actorUserID uuid.UUID) (*domain.Bid, error) {
	return s.awardBid(ctx, bidID, actorUserID, true)
}

func (s *TransitionService) awardBid(ctx context.Context, bidID, actorUserID uuid.UUID, autoAccepted bool) (*domain.Bid, error) {
	// ── 1. Load the bid ──────────────────────────────────────────────────────
	bid, err := s.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	// ── 2. Begin transaction and lock the shipment row ───────────────────────
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("transition_service.AwardBid: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	shipment, err := s.shipmentRepo.GetByIDForUpdate(ctx, tx, bid.ShipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.ShipperUserID != actorUserID {
		err = domain.ErrForbidden
		return nil, err
	}

	// ── 3. Award cascade ─────────────────────────────────────────────────────
	// Target first: a bid that lost a concurrent award is no longer active and
	// fails here, which aborts the whole cascade.
	if err = s.bidRepo.MarkAwarded(ctx, tx, bid.ID); err != nil {
		return nil, err
	}
	if err = s.shipmentRepo.MarkAwarded(ctx, tx, shipment.ID); err != nil {
		return nil, err
	}
	if err = s.bidRepo.MarkSiblingsOutbid(ctx, tx, shipment.ID, bid.ID); err != nil {
		return nil, err
	}

	// ── 4. Commit ────────────────────────────────────────────────────────────
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("transition_service.AwardBid: commit: %w", err)
	}

	bid.Status = domain.BidStatusAwarded
	if updated, loadErr := s.bidRepo.GetByID(ctx, bid.ID); loadErr == nil {
		bid = updated
	}

	if s.notifier != nil {
		evt := domain.NewBidEvent(domain.EventBidAwarded, bid)
		evt.AutoAccepted = autoAccepted
		go s.notifier.NotifyBidEvent(evt)
	}
	return bid, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// RejectBid
// ──────────────────────────────────────────────────────────────────────────────

// RejectBid declines a single active bid. The shipment stays open and the
// other bids keep competing. When the shipper supplies a reason it is
// recorded in bid_history inside the same transaction as the status change.
func (s *TransitionService) RejectBid(ctx context.Context, bidID, actorUserID uuid.UUID, reason string) (*domain.Bid, error) {
	bid, err := s.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	shipment, err := s.shipmentRepo.GetByID(ctx, bid.ShipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.ShipperUserID != actorUserID {
		return nil, domain.ErrForbidden
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("transition_service.RejectBid: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.bidRepo.MarkRejected(ctx, tx, bid.ID); err != nil {
		return nil, err
	}
	if reason != "" {
		entry := &domain.BidHistory{
			ID:           uuid.New(),
			BidID:        bid.ID,
			ActionType:   domain.ActionRejected,
			ActionReason: reason,
			ActorUserID:  actorUserID,
			CreatedAt:    time.Now().UTC(),
		}
		if err = s.historyRepo.Create(ctx, tx, entry); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("transition_service.RejectBid: commit: %w", err)
	}

	bid.Status = domain.BidStatusRejected
	if s.notifier != nil {
		evt := domain.NewBidEvent(domain.EventBidRejected, bid)
		evt.Reason = reason
		go s.notifier.NotifyBidEvent(evt)
	}
	return bid, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateCounterOffer
// ──────────────────────────────────────────────────────────────────────────────

// CreateCounterOffer records the shipper's proposed price as a new active bid
// on behalf of the original bid's carrier, linked back through
// original_bid_id. The original bid is left untouched and stays active, so
// the shipper can still award it at the carrier's own price.
func (s *TransitionService) CreateCounterOffer(ctx context.Context, bidID, actorUserID uuid.UUID, amount decimal.Decimal, message string) (*domain.Bid, error) {
	if !amount.IsPositive() || !amount.IsInteger() {
		return nil, domain.ErrInvalidBidAmount
	}

	original, err := s.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if !original.IsActive() {
		return nil, domain.ErrBidNotActive
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("transition_service.CreateCounterOffer: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	shipment, err := s.shipmentRepo.GetByIDForUpdate(ctx, tx, original.ShipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.ShipperUserID != actorUserID {
		err = domain.ErrForbidden
		return nil, err
	}
	if !shipment.IsOpenForBidding() {
		err = domain.ErrAuctionClosed
		return nil, err
	}

	now := time.Now().UTC()
	counter := domain.NewCounterOffer(original, amount, message, now)
	if err = s.bidRepo.Create(ctx, tx, counter); err != nil {
		return nil, fmt.Errorf("transition_service.CreateCounterOffer: create: %w", err)
	}
	entry := &domain.BidHistory{
		ID:           uuid.New(),
		BidID:        original.ID,
		ActionType:   domain.ActionCounterOffer,
		ActionReason: counter.BidMessage,
		ActorUserID:  actorUserID,
		CreatedAt:    now,
	}
	if err = s.historyRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("transition_service.CreateCounterOffer: commit: %w", err)
	}

	if s.notifier != nil {
		evt := domain.NewBidEvent(domain.EventCounterOffer, counter)
		go s.notifier.NotifyBidEvent(evt)
	}
	return counter, nil
}
