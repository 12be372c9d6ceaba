package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/database/dbretry"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ReportModel handles database operations for content reports.
type ReportModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewReport creates a new report model.
func NewReport(db *bun.DB, logger *zap.Logger) *ReportModel {
	return &ReportModel{
		db:     db,
		logger: logger.Named("db_report"),
	}
}

// CreateReport inserts a new report. The unique (reporter, type, id)
// constraint backs duplicate detection.
func (r *ReportModel) CreateReport(ctx context.Context, report *types.Report) error {
	report.Status = enum.ReportStatusPending
	report.CreatedAt = time.Now()

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().Model(report).Exec(ctx)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateReport
		}
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// GetReportByID retrieves a report by ID.
func (r *ReportModel) GetReportByID(ctx context.Context, id int64) (*types.Report, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Report, error) {
		var report types.Report
		err := r.db.NewSelect().
			Model(&report).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrReportNotFound
			}
			return nil, fmt.Errorf("failed to get report: %w", err)
		}
		return &report, nil
	})
}

// ListReports retrieves a page of reports, newest first, optionally
// filtered by status.
func (r *ReportModel) ListReports(
	ctx context.Context, status enum.ReportStatus, limit, offset int,
) ([]*types.Report, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Report, error) {
		var reports []*types.Report
		q := r.db.NewSelect().
			Model(&reports).
			Order("created_at DESC", "id DESC").
			Limit(limit).
			Offset(offset)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		if err := q.Scan(ctx); err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", err)
		}
		return reports, nil
	})
}

// ListByContent retrieves the open reports against one piece of content.
func (r *ReportModel) ListByContent(
	ctx context.Context, targetType enum.TargetType, targetID int64,
) ([]*types.Report, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Report, error) {
		var reports []*types.Report
		err := r.db.NewSelect().
			Model(&reports).
			Where("reportable_type = ?", targetType).
			Where("reportable_id = ?", targetID).
			Where("status IN ('pending', 'reviewing')").
			Order("created_at ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list reports by content: %w", err)
		}
		return reports, nil
	})
}

// Queue groups pending reports per content item, most-reported first.
func (r *ReportModel) Queue(ctx context.Context, limit, offset int) ([]*types.ReportQueueEntry, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ReportQueueEntry, error) {
		var entries []*types.ReportQueueEntry
		err := r.db.NewSelect().
			Model((*types.Report)(nil)).
			ColumnExpr("reportable_type, reportable_id").
			ColumnExpr("count(DISTINCT reporter_id) AS pending_count").
			ColumnExpr("min(created_at) AS oldest_report").
			ColumnExpr("max(created_at) AS newest_report").
			Where("status = 'pending'").
			GroupExpr("reportable_type, reportable_id").
			OrderExpr("pending_count DESC, oldest_report ASC").
			Limit(limit).
			Offset(offset).
			Scan(ctx, &entries)
		if err != nil {
			return nil, fmt.Errorf("failed to build report queue: %w", err)
		}
		return entries, nil
	})
}

// MarkReviewing moves a pending report to the reviewing state.
// Returns ErrReportAlreadyResolved if the report is no longer open.
func (r *ReportModel) MarkReviewing(ctx context.Context, id int64) error {
	return r.transition(ctx, id, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("status = ?", enum.ReportStatusReviewing)
	})
}

// Resolve finalizes an open report exactly once.
// Returns ErrReportAlreadyResolved if it was resolved concurrently.
func (r *ReportModel) Resolve(ctx context.Context, id, resolvedBy int64, resolution enum.ReportStatus) error {
	return r.transition(ctx, id, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("status = ?", resolution).
			Set("resolved_by = ?", resolvedBy).
			Set("resolved_at = ?", time.Now())
	})
}

// transition applies an update guarded by the report still being open,
// so a lost race surfaces as ErrReportAlreadyResolved.
func (r *ReportModel) transition(ctx context.Context, id int64, apply func(*bun.UpdateQuery) *bun.UpdateQuery) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		q := r.db.NewUpdate().
			Model((*types.Report)(nil)).
			Where("id = ?", id).
			Where("status IN ('pending', 'reviewing')")

		res, err := apply(q).Exec(ctx)
		if err != nil {
			return err
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return types.ErrReportAlreadyResolved
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrReportAlreadyResolved) {
			return types.ErrReportAlreadyResolved
		}
		return fmt.Errorf("failed to transition report: %w", err)
	}

	return nil
}
