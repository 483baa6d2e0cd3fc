package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Interfaces injected into BidService to avoid import cycles
// ──────────────────────────────────────────────────────────────────────────────

// AutoAcceptDecision is the outcome of an auto-accept evaluation. Reason is
// only set for rejections whose cause the carrier should see.
type AutoAcceptDecision struct {
	Accepted bool
	Reason   string
}

// Evaluator is the minimal interface BidService needs from AutoAcceptService.
// Evaluation runs after the submission has committed and must never fail the
// submission itself.
type Evaluator interface {
	Evaluate(ctx context.Context, bid *domain.Bid) AutoAcceptDecision
}

// ──────────────────────────────────────────────────────────────────────────────
// BidService
// ──────────────────────────────────────────────────────────────────────────────

// BidService orchestrates bid submission for the reverse auction. Admission
// checks and the insert happen inside a single PostgreSQL transaction that
// holds the shipment row lock, so two carriers can never both pass the
// decrement check against the same stale leader.
type BidService struct {
	db           *sqlx.DB
	bidRepo      *repository.BidRepository
	shipmentRepo *repository.ShipmentRepository
	historyRepo  *repository.BidHistoryRepository
	guard        *AuctionGuard
	evaluator    Evaluator // injected after AutoAcceptService is built
	notifier     Notifier  // injected after the WS hub / publisher are built
}

// NewBidService creates a BidService.
func NewBidService(
	db *sqlx.DB,
	bidRepo *repository.BidRepository,
	shipmentRepo *repository.ShipmentRepository,
	historyRepo *repository.BidHistoryRepository,
	guard *AuctionGuard,
) *BidService {
	return &BidService{
		db:           db,
		bidRepo:      bidRepo,
		shipmentRepo: shipmentRepo,
		historyRepo:  historyRepo,
		guard:        guard,
	}
}

// SetEvaluator injects the AutoAcceptService dependency post-construction.
func (s *BidService) SetEvaluator(e Evaluator) { s.evaluator = e }

// SetNotifier injects the notification sink post-construction.
func (s *BidService) SetNotifier(n Notifier) { s.notifier = n }

// ──────────────────────────────────────────────────────────────────────────────
// SubmitBid
// ──────────────────────────────────────────────────────────────────────────────

// SubmitBid validates the request, locks the shipment row, runs the
// reverse-auction admission rules against the lowest active bid, and inserts
// the new bid, all inside a single PostgreSQL transaction.
//
// After a successful commit it synchronously runs the auto-accept evaluator
// (which may award the bid) and then pushes a bid_submitted event to the
// notification sinks in the background.
func (s *BidService) SubmitBid(ctx context.Context, req domain.SubmitBidRequest) (*domain.Bid, error) {
	// ── 1. Input validation ──────────────────────────────────────────────────
	if !req.Amount.IsPositive() || !req.Amount.IsInteger() {
		return nil, domain.ErrInvalidBidAmount
	}
	if req.Breakdown.HasNegative() {
		return nil, domain.ErrInvalidBidBreakdown
	}

	// ── 2. Begin transaction ─────────────────────────────────────────────────
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("bid_service.SubmitBid: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// ── 3. Lock the shipment row ─────────────────────────────────────────────
	// Concurrent submissions on the same shipment queue up here, so each one
	// sees the leader left behind by the previous commit.
	shipment, err := s.shipmentRepo.GetByIDForUpdate(ctx, tx, req.ShipmentID)
	if err != nil {
		return nil, err
	}

	// ── 4. Read the current leader and run the admission rules ──────────────
	lowest, err := s.bidRepo.GetLowestActive(ctx, tx, req.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("bid_service.SubmitBid: get lowest: %w", err)
	}
	if err = s.guard.Check(shipment, lowest, req.Amount, time.Now().UTC()); err != nil {
		return nil, err
	}

	// ── 5. Persist the bid ───────────────────────────────────────────────────
	bid := domain.NewBid(req, time.Now().UTC())
	if err = s.bidRepo.Create(ctx, tx, bid); err != nil {
		return nil, fmt.Errorf("bid_service.SubmitBid: create bid: %w", err)
	}

	// ── 6. Commit ────────────────────────────────────────────────────────────
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("bid_service.SubmitBid: commit: %w", err)
	}

	// ── 7. Auto-accept evaluation (post-commit, synchronous) ─────────────────
	// The award, if any, runs in its own transaction. An evaluator failure is
	// logged and the submission still succeeds.
	var autoAccepted bool
	if s.evaluator != nil {
		decision := s.evaluator.Evaluate(ctx, bid)
		if decision.Accepted {
			autoAccepted = true
			if updated, loadErr := s.bidRepo.GetByID(ctx, bid.ID); loadErr == nil {
				bid = updated
			}
		} else if decision.Reason != "" {
			slog.Info("auto-accept declined bid",
				"bid_id", bid.ID, "shipment_id", bid.ShipmentID, "reason", decision.Reason)
		}
	}

	// ── 8. Async: notify listeners ───────────────────────────────────────────
	if s.notifier != nil {
		evt := domain.NewBidEvent(domain.EventBidSubmitted, bid)
		evt.AutoAccepted = autoAccepted
		go s.notifier.NotifyBidEvent(evt)
	}

	return bid, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Query helpers
// ──────────────────────────────────────────────────────────────────────────────

// GetShipmentBids returns the active bids competing on a shipment.
func (s *BidService) GetShipmentBids(ctx context.Context, shipmentID uuid.UUID) ([]*domain.Bid, error) {
	if _, err := s.shipmentRepo.GetByID(ctx, shipmentID); err != nil {
		return nil, err
	}
	bids, err := s.bidRepo.GetActiveByShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("bid_service.GetShipmentBids: %w", err)
	}
	return bids, nil
}

// GetMyBids returns paginated bids for a carrier, newest first, optionally
// filtered to one status (empty = all).
func (s *BidService) GetMyBids(ctx context.Context, transporterID uuid.UUID, status domain.BidStatus, limit, offset int) ([]*domain.Bid, error) {
	bids, err := s.bidRepo.GetByTransporter(ctx, transporterID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("bid_service.GetMyBids: %w", err)
	}
	return bids, nil
}

// GetBidHistory returns the feedback trail for a bid. Only the bid's carrier
// and the shipment's owner may read it.
func (s *BidService) GetBidHistory(ctx context.Context, bidID, userID uuid.UUID) ([]*domain.BidHistory, error) {
	bid, err := s.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if bid.TransporterUserID != userID {
		shipment, err := s.shipmentRepo.GetByID(ctx, bid.ShipmentID)
		if err != nil {
			return nil, err
		}
		if shipment.ShipperUserID != userID {
			return nil, domain.ErrForbidden
		}
	}
	entries, err := s.historyRepo.GetByBidID(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("bid_service.GetBidHistory: %w", err)
	}
	return entries, nil
}
