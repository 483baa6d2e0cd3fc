package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
)

// BidRepository handles all database operations for bids.
type BidRepository struct {
	db *sqlx.DB
}

// NewBidRepository creates a new BidRepository.
func NewBidRepository(db *sqlx.DB) *BidRepository {
	return &BidRepository{db: db}
}

// Create inserts a new bid inside an existing transaction.
func (r *BidRepository) Create(ctx context.Context, tx *sqlx.Tx, b *domain.Bid) error {
	query := `
		INSERT INTO bids
			(id, shipment_id, transporter_user_id, bid_amount, bid_breakdown,
			 estimated_delivery_date, bid_message, bid_status,
			 auto_bid_enabled, max_auto_bid_amount,
			 is_counter_offer, original_bid_id,
			 submitted_at, created_at, updated_at)
		VALUES
			(:id, :shipment_id, :transporter_user_id, :bid_amount, :bid_breakdown,
			 :estimated_delivery_date, :bid_message, :bid_status,
			 :auto_bid_enabled, :max_auto_bid_amount,
			 :is_counter_offer, :original_bid_id,
			 :submitted_at, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, b); err != nil {
		return fmt.Errorf("bid_repo.Create: %w", err)
	}
	return nil
}

// GetByID fetches a bid by its primary key.
func (r *BidRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	var b domain.Bid
	err := r.db.GetContext(ctx, &b, `SELECT * FROM bids WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBidNotFound
		}
		return nil, fmt.Errorf("bid_repo.GetByID: %w", err)
	}
	return &b, nil
}

// GetLowestActive returns the leading (lowest) active bid on a shipment, read
// inside the submission transaction so the decrement check sees a consistent
// snapshot. Ties on amount go to the earliest submission, then the smallest
// id, so the leader is deterministic. Returns (nil, nil) when the shipment
// has no active bids yet.
func (r *BidRepository) GetLowestActive(ctx context.Context, tx *sqlx.Tx, shipmentID uuid.UUID) (*domain.Bid, error) {
	var b domain.Bid
	err := tx.GetContext(ctx, &b, `
		SELECT * FROM bids
		WHERE shipment_id = $1 AND bid_status = 'active'
		ORDER BY bid_amount ASC, submitted_at ASC, id ASC
		LIMIT 1`,
		shipmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("bid_repo.GetLowestActive: %w", err)
	}
	return &b, nil
}

// GetActiveByShipment returns all active bids on a shipment in submission order.
func (r *BidRepository) GetActiveByShipment(ctx context.Context, shipmentID uuid.UUID) ([]*domain.Bid, error) {
	var bids []*domain.Bid
	err := r.db.SelectContext(ctx, &bids, `
		SELECT * FROM bids
		WHERE shipment_id = $1 AND bid_status = 'active'
		ORDER BY submitted_at ASC, id ASC`,
		shipmentID)
	if err != nil {
		return nil, fmt.Errorf("bid_repo.GetActiveByShipment: %w", err)
	}
	return bids, nil
}

// GetByTransporter returns a carrier's bids, newest first, paginated. An
// empty status returns bids in every status.
func (r *BidRepository) GetByTransporter(ctx context.Context, transporterID uuid.UUID, status domain.BidStatus, limit, offset int) ([]*domain.Bid, error) {
	var bids []*domain.Bid
	var err error
	if status == "" {
		err = r.db.SelectContext(ctx, &bids, `
			SELECT * FROM bids
			WHERE transporter_user_id = $1
			ORDER BY submitted_at DESC
			LIMIT $2 OFFSET $3`,
			transporterID, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &bids, `
			SELECT * FROM bids
			WHERE transporter_user_id = $1 AND bid_status = $2
			ORDER BY submitted_at DESC
			LIMIT $3 OFFSET $4`,
			transporterID, status, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("bid_repo.GetByTransporter: %w", err)
	}
	return bids, nil
}

// MarkAwarded flips a bid from active to awarded inside the award transaction.
// The status guard makes awarding an already-settled bid a no-op that surfaces
// as ErrBidNotActive, and the partial unique index on (shipment_id) for
// awarded rows backstops the single-award invariant at the schema level.
func (r *BidRepository) MarkAwarded(ctx context.Context, tx *sqlx.Tx, bidID uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE bids
		SET bid_status = 'awarded',
		    updated_at = now()
		WHERE id = $1 AND bid_status = 'active'`,
		bidID)
	if err != nil {
		return fmt.Errorf("bid_repo.MarkAwarded: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBidNotActive
	}
	return nil
}

// MarkRejected flips a bid from active to rejected inside a transaction.
func (r *BidRepository) MarkRejected(ctx context.Context, tx *sqlx.Tx, bidID uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE bids
		SET bid_status = 'rejected',
		    updated_at = now()
		WHERE id = $1 AND bid_status = 'active'`,
		bidID)
	if err != nil {
		return fmt.Errorf("bid_repo.MarkRejected: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBidNotActive
	}
	return nil
}

// MarkSiblingsOutbid moves every other active bid on the shipment to outbid,
// inside the award transaction. Only touches rows still in 'active' status.
func (r *BidRepository) MarkSiblingsOutbid(ctx context.Context, tx *sqlx.Tx, shipmentID, awardedBidID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE bids
		SET bid_status = 'outbid',
		    updated_at = now()
		WHERE shipment_id = $1
		  AND id <> $2
		  AND bid_status = 'active'`,
		shipmentID, awardedBidID)
	if err != nil {
		return fmt.Errorf("bid_repo.MarkSiblingsOutbid: %w", err)
	}
	return nil
}
