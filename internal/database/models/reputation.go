package models

import (
	"context"
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/database/dbretry"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ReputationModel handles database operations for the append-only
// reputation ledger. Rows are only ever inserted.
type ReputationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewReputation creates a new reputation model.
func NewReputation(db *bun.DB, logger *zap.Logger) *ReputationModel {
	return &ReputationModel{
		db:     db,
		logger: logger.Named("db_reputation"),
	}
}

// Append adds one ledger entry.
func (r *ReputationModel) Append(ctx context.Context, entry *types.ReputationEntry) error {
	entry.CreatedAt = time.Now()

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().Model(entry).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to append reputation entry: %w", err)
	}

	return nil
}

// AppendTx adds one ledger entry inside the caller's transaction.
func (r *ReputationModel) AppendTx(ctx context.Context, db bun.IDB, entry *types.ReputationEntry) error {
	entry.CreatedAt = time.Now()

	if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return fmt.Errorf("failed to append reputation entry: %w", err)
	}

	return nil
}

// TotalPoints sums a user's ledger. Users without entries total zero.
func (r *ReputationModel) TotalPoints(ctx context.Context, userID int64) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		var total int
		err := r.db.NewSelect().
			Model((*types.ReputationEntry)(nil)).
			ColumnExpr("coalesce(sum(points), 0)").
			Where("user_id = ?", userID).
			Scan(ctx, &total)
		if err != nil {
			return 0, fmt.Errorf("failed to sum reputation: %w", err)
		}
		return total, nil
	})
}

// ListEntries retrieves a page of a user's ledger, newest first,
// optionally filtered by event type.
func (r *ReputationModel) ListEntries(
	ctx context.Context, userID int64, eventType enum.ReputationEvent, limit, offset int,
) ([]*types.ReputationEntry, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ReputationEntry, error) {
		var entries []*types.ReputationEntry
		q := r.db.NewSelect().
			Model(&entries).
			Where("user_id = ?", userID).
			Order("created_at DESC", "id DESC").
			Limit(limit).
			Offset(offset)
		if eventType != "" {
			q = q.Where("event_type = ?", eventType)
		}
		if err := q.Scan(ctx); err != nil {
			return nil, fmt.Errorf("failed to list reputation entries: %w", err)
		}
		return entries, nil
	})
}
