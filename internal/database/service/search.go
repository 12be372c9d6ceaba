package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/agorahq/agora/internal/async"
	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// MaxSearchQueryLength caps search input before it reaches the database.
const MaxSearchQueryLength = 200

// SanitizeQuery trims and bounds a search query. Returns an empty string
// for queries with no searchable content.
func SanitizeQuery(query string) string {
	query = strings.TrimSpace(query)
	if len(query) > MaxSearchQueryLength {
		query = query[:MaxSearchQueryLength]
	}
	return query
}

// SearchService handles full-text search, history and saved searches.
type SearchService struct {
	model  *models.SearchModel
	runner *async.Runner
	logger *zap.Logger
}

// NewSearch creates a new search service.
func NewSearch(model *models.SearchModel, runner *async.Runner, logger *zap.Logger) *SearchService {
	return &SearchService{
		model:  model,
		runner: runner,
		logger: logger.Named("search_service"),
	}
}

// Search runs a ranked full-text search over topics and replies. The
// query lands in the searcher's history in the background.
func (s *SearchService) Search(
	ctx context.Context, userID int64, query string, filters types.SearchFilters,
	kind enum.TargetType, limit, offset int,
) ([]*types.SearchResult, error) {
	query = SanitizeQuery(query)
	if query == "" {
		return nil, types.ErrEmptyQuery
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	var results []*types.SearchResult
	var err error

	switch kind {
	case enum.TargetTypeReply:
		results, err = s.model.SearchReplies(ctx, query, filters, limit, offset)
	default:
		results, err = s.model.SearchTopics(ctx, query, filters, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	if userID != 0 {
		s.runner.Go("record_search", func(ctx context.Context) {
			if err := s.model.AddHistory(ctx, userID, query); err != nil {
				s.logger.Error("Failed to record search history",
					zap.Error(err),
					zap.Int64("userID", userID))
			}
		})
	}

	return results, nil
}

// History retrieves a user's recent searches.
func (s *SearchService) History(ctx context.Context, userID int64, limit int) ([]*types.SearchRecord, error) {
	if limit < 1 || limit > types.MaxSearchHistory {
		limit = types.MaxSearchHistory
	}

	records, err := s.model.ListHistory(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get search history: %w", err)
	}
	return records, nil
}

// ClearHistory deletes a user's search history.
func (s *SearchService) ClearHistory(ctx context.Context, userID int64) error {
	return s.model.ClearHistory(ctx, userID)
}

// SaveSearch stores a named query with filters for re-running later.
func (s *SearchService) SaveSearch(
	ctx context.Context, userID int64, name, query string, filters types.SearchFilters,
) (*types.SavedSearch, error) {
	name = strings.TrimSpace(name)
	query = SanitizeQuery(query)
	if name == "" || query == "" {
		return nil, types.ErrEmptyQuery
	}

	blob, err := sonic.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search filters: %w", err)
	}

	saved := &types.SavedSearch{
		UserID:  userID,
		Name:    name,
		Query:   query,
		Filters: blob,
	}
	if err := s.model.CreateSavedSearch(ctx, saved); err != nil {
		return nil, err
	}

	return saved, nil
}

// ListSavedSearches retrieves a user's saved searches.
func (s *SearchService) ListSavedSearches(ctx context.Context, userID int64) ([]*types.SavedSearch, error) {
	return s.model.ListSavedSearches(ctx, userID)
}

// DeleteSavedSearch removes one of the user's saved searches.
func (s *SearchService) DeleteSavedSearch(ctx context.Context, id, userID int64) error {
	return s.model.DeleteSavedSearch(ctx, id, userID)
}

// Suggest returns topic titles matching a prefix for search-as-you-type.
func (s *SearchService) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = SanitizeQuery(prefix)
	if prefix == "" {
		return nil, nil
	}
	if limit < 1 || limit > 20 {
		limit = 10
	}

	titles, err := s.model.Suggest(ctx, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}
	return titles, nil
}
