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

// ShipmentRepository handles all database operations for shipments.
type ShipmentRepository struct {
	db *sqlx.DB
}

// NewShipmentRepository creates a new ShipmentRepository.
func NewShipmentRepository(db *sqlx.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// GetByID fetches a shipment by its primary key.
func (r *ShipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	var s domain.Shipment
	err := r.db.GetContext(ctx, &s, `SELECT * FROM shipments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, fmt.Errorf("shipment_repo.GetByID: %w", err)
	}
	return &s, nil
}

// GetByIDForUpdate fetches a shipment and takes a row lock inside the given
// transaction. Every writer that touches a shipment's bid set locks the
// shipment row first, which serialises competing submissions and awards.
func (r *ShipmentRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Shipment, error) {
	var s domain.Shipment
	err := tx.GetContext(ctx, &s, `SELECT * FROM shipments WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, fmt.Errorf("shipment_repo.GetByIDForUpdate: %w", err)
	}
	return &s, nil
}

// MarkAwarded moves an open shipment to bid_awarded inside the award
// transaction. The status guard means a shipment leaves open_for_bidding
// exactly once per auction cycle.
func (r *ShipmentRepository) MarkAwarded(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE shipments
		SET status     = 'bid_awarded',
		    updated_at = now()
		WHERE id = $1 AND status = 'open_for_bidding'`,
		id)
	if err != nil {
		return fmt.Errorf("shipment_repo.MarkAwarded: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAuctionClosed
	}
	return nil
}

// UpdateAutoAccept replaces the shipment's auto-accept configuration.
func (r *ShipmentRepository) UpdateAutoAccept(ctx context.Context, id uuid.UUID, rules domain.AutoAcceptRules) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shipments
		SET auto_accept_enabled           = $1,
		    auto_accept_price_threshold   = $2,
		    auto_accept_min_rating        = $3,
		    auto_accept_max_delivery_days = $4,
		    updated_at                    = now()
		WHERE id = $5`,
		rules.Enabled, rules.PriceThreshold, rules.MinRating, rules.MaxDeliveryDays, id)
	if err != nil {
		return fmt.Errorf("shipment_repo.UpdateAutoAccept: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrShipmentNotFound
	}
	return nil
}
