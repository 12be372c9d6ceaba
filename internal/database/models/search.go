package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/database/dbretry"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// SearchModel handles full-text search over topics and replies plus
// per-user search history and saved searches.
type SearchModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSearch creates a new search model.
func NewSearch(db *bun.DB, logger *zap.Logger) *SearchModel {
	return &SearchModel{
		db:     db,
		logger: logger.Named("db_search"),
	}
}

// SearchTopics runs a ranked full-text search over visible topics.
func (r *SearchModel) SearchTopics(
	ctx context.Context, query string, filters types.SearchFilters, limit, offset int,
) ([]*types.SearchResult, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.SearchResult, error) {
		var results []*types.SearchResult
		q := r.db.NewSelect().
			Model((*types.Topic)(nil)).
			ColumnExpr("'topic' AS kind").
			ColumnExpr("id, id AS topic_id, title, created_at").
			ColumnExpr("ts_headline('english', content, websearch_to_tsquery('english', ?), 'MaxWords=30') AS snippet", query).
			ColumnExpr("ts_rank(search_vector, websearch_to_tsquery('english', ?)) AS rank", query).
			Where("search_vector @@ websearch_to_tsquery('english', ?)", query).
			Where("is_draft = false").
			Where("status = 'active'")

		q = applySearchFilters(q, filters)

		err := q.OrderExpr("rank DESC, created_at DESC").
			Limit(limit).
			Offset(offset).
			Scan(ctx, &results)
		if err != nil {
			return nil, fmt.Errorf("failed to search topics: %w", err)
		}
		return results, nil
	})
}

// SearchReplies runs a ranked full-text search over non-deleted replies.
// Title carries the parent topic's title for display.
func (r *SearchModel) SearchReplies(
	ctx context.Context, query string, filters types.SearchFilters, limit, offset int,
) ([]*types.SearchResult, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.SearchResult, error) {
		var results []*types.SearchResult
		q := r.db.NewSelect().
			Model((*types.Reply)(nil)).
			ColumnExpr("'reply' AS kind").
			ColumnExpr("reply.id, reply.topic_id, topic.title, reply.created_at").
			ColumnExpr("ts_headline('english', reply.content, websearch_to_tsquery('english', ?), 'MaxWords=30') AS snippet", query).
			ColumnExpr("ts_rank(reply.search_vector, websearch_to_tsquery('english', ?)) AS rank", query).
			Join("JOIN topics AS topic ON topic.id = reply.topic_id").
			Where("reply.search_vector @@ websearch_to_tsquery('english', ?)", query).
			Where("reply.is_deleted = false").
			Where("topic.status = 'active'")

		if filters.CategoryID != 0 {
			q = q.Where("topic.category_id = ?", filters.CategoryID)
		}
		if filters.TopicType != "" {
			q = q.Where("topic.type = ?", filters.TopicType)
		}
		if filters.AuthorID != 0 {
			q = q.Where("reply.author_id = ?", filters.AuthorID)
		}
		if !filters.Since.IsZero() {
			q = q.Where("reply.created_at >= ?", filters.Since)
		}
		if !filters.Until.IsZero() {
			q = q.Where("reply.created_at < ?", filters.Until)
		}

		err := q.OrderExpr("rank DESC, reply.created_at DESC").
			Limit(limit).
			Offset(offset).
			Scan(ctx, &results)
		if err != nil {
			return nil, fmt.Errorf("failed to search replies: %w", err)
		}
		return results, nil
	})
}

// applySearchFilters narrows a topic search query.
func applySearchFilters(q *bun.SelectQuery, filters types.SearchFilters) *bun.SelectQuery {
	if filters.CategoryID != 0 {
		q = q.Where("category_id = ?", filters.CategoryID)
	}
	if filters.TopicType != "" {
		q = q.Where("type = ?", filters.TopicType)
	}
	if filters.AuthorID != 0 {
		q = q.Where("author_id = ?", filters.AuthorID)
	}
	if !filters.Since.IsZero() {
		q = q.Where("created_at >= ?", filters.Since)
	}
	if !filters.Until.IsZero() {
		q = q.Where("created_at < ?", filters.Until)
	}
	return q
}

// AddHistory records a search in the user's history. Repeating the most
// recent query is a no-op, and old rows past the cap are trimmed.
func (r *SearchModel) AddHistory(ctx context.Context, userID int64, query string) error {
	err := dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		var last string
		err := tx.NewSelect().
			Model((*types.SearchRecord)(nil)).
			Column("query").
			Where("user_id = ?", userID).
			Order("created_at DESC", "id DESC").
			Limit(1).
			Scan(ctx, &last)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if last == query {
			return nil
		}

		record := &types.SearchRecord{
			UserID:    userID,
			Query:     query,
			CreatedAt: time.Now(),
		}
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return err
		}

		_, err = tx.NewDelete().
			Model((*types.SearchRecord)(nil)).
			Where("user_id = ?", userID).
			Where("id NOT IN (?)", tx.NewSelect().
				Model((*types.SearchRecord)(nil)).
				Column("id").
				Where("user_id = ?", userID).
				Order("created_at DESC", "id DESC").
				Limit(types.MaxSearchHistory)).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add search history: %w", err)
	}

	return nil
}

// ListHistory retrieves a user's recent searches, newest first.
func (r *SearchModel) ListHistory(ctx context.Context, userID int64, limit int) ([]*types.SearchRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.SearchRecord, error) {
		var records []*types.SearchRecord
		err := r.db.NewSelect().
			Model(&records).
			Where("user_id = ?", userID).
			Order("created_at DESC", "id DESC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list search history: %w", err)
		}
		return records, nil
	})
}

// ClearHistory deletes a user's entire search history.
func (r *SearchModel) ClearHistory(ctx context.Context, userID int64) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewDelete().
			Model((*types.SearchRecord)(nil)).
			Where("user_id = ?", userID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}

	return nil
}

// CreateSavedSearch stores a named search, enforcing the per-user cap
// and name uniqueness.
func (r *SearchModel) CreateSavedSearch(ctx context.Context, search *types.SavedSearch) error {
	search.CreatedAt = time.Now()

	err := dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*types.SavedSearch)(nil)).
			Where("user_id = ?", search.UserID).
			Count(ctx)
		if err != nil {
			return err
		}
		if count >= types.MaxSavedSearches {
			return types.ErrTooManySavedSearches
		}

		_, err = tx.NewInsert().Model(search).Exec(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, types.ErrTooManySavedSearches) {
			return types.ErrTooManySavedSearches
		}
		if isUniqueViolation(err) {
			return types.ErrDuplicateSavedSearch
		}
		return fmt.Errorf("failed to create saved search: %w", err)
	}

	return nil
}

// ListSavedSearches retrieves a user's saved searches, newest first.
func (r *SearchModel) ListSavedSearches(ctx context.Context, userID int64) ([]*types.SavedSearch, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.SavedSearch, error) {
		var searches []*types.SavedSearch
		err := r.db.NewSelect().
			Model(&searches).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list saved searches: %w", err)
		}
		return searches, nil
	})
}

// GetSavedSearch retrieves one saved search owned by the user.
func (r *SearchModel) GetSavedSearch(ctx context.Context, id, userID int64) (*types.SavedSearch, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.SavedSearch, error) {
		var search types.SavedSearch
		err := r.db.NewSelect().
			Model(&search).
			Where("id = ?", id).
			Where("user_id = ?", userID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrSavedSearchNotFound
			}
			return nil, fmt.Errorf("failed to get saved search: %w", err)
		}
		return &search, nil
	})
}

// DeleteSavedSearch removes one saved search owned by the user.
func (r *SearchModel) DeleteSavedSearch(ctx context.Context, id, userID int64) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		res, err := r.db.NewDelete().
			Model((*types.SavedSearch)(nil)).
			Where("id = ?", id).
			Where("user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return err
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return types.ErrSavedSearchNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrSavedSearchNotFound) {
			return types.ErrSavedSearchNotFound
		}
		return fmt.Errorf("failed to delete saved search: %w", err)
	}

	return nil
}

// Suggest returns topic titles matching a prefix, for search-as-you-type.
func (r *SearchModel) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]string, error) {
		var titles []string
		err := r.db.NewSelect().
			Model((*types.Topic)(nil)).
			Column("title").
			Where("title ILIKE ?", prefix+"%").
			Where("is_draft = false").
			Where("status = 'active'").
			OrderExpr("view_count DESC").
			Limit(limit).
			Scan(ctx, &titles)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest titles: %w", err)
		}
		return titles, nil
	})
}
