package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
)

// BidHistoryRepository handles the append-only bid_history table.
type BidHistoryRepository struct {
	db *sqlx.DB
}

// NewBidHistoryRepository creates a new BidHistoryRepository.
func NewBidHistoryRepository(db *sqlx.DB) *BidHistoryRepository {
	return &BidHistoryRepository{db: db}
}

// Create appends a history entry inside an existing transaction, so feedback
// commits or rolls back together with the status change it describes.
func (r *BidHistoryRepository) Create(ctx context.Context, tx *sqlx.Tx, h *domain.BidHistory) error {
	query := `
		INSERT INTO bid_history
			(id, bid_id, action_type, action_reason, actor_user_id, created_at)
		VALUES
			(:id, :bid_id, :action_type, :action_reason, :actor_user_id, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, h); err != nil {
		return fmt.Errorf("bid_history_repo.Create: %w", err)
	}
	return nil
}

// GetByBidID returns all history entries for a bid, oldest first.
func (r *BidHistoryRepository) GetByBidID(ctx context.Context, bidID uuid.UUID) ([]*domain.BidHistory, error) {
	var entries []*domain.BidHistory
	err := r.db.SelectContext(ctx, &entries, `
		SELECT * FROM bid_history
		WHERE bid_id = $1
		ORDER BY created_at ASC`,
		bidID)
	if err != nil {
		return nil, fmt.Errorf("bid_history_repo.GetByBidID: %w", err)
	}
	return entries, nil
}
