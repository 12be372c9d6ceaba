package types

import (
	"errors"
	"time"

	"github.com/agorahq/agora/internal/database/types/enum"
)

var (
	ErrSavedSearchNotFound  = errors.New("saved search not found")
	ErrDuplicateSavedSearch = errors.New("saved search name already exists")
	ErrTooManySavedSearches = errors.New("saved search limit reached")
	ErrEmptyQuery           = errors.New("search query is empty")
)

// Saved-search and history limits per user.
const (
	MaxSavedSearches = 20
	MaxSearchHistory = 50
)

// SearchFilters narrows a full-text search.
type SearchFilters struct {
	CategoryID int64          `json:"categoryId,omitempty"`
	TopicType  enum.TopicType `json:"topicType,omitempty"`
	AuthorID   int64          `json:"authorId,omitempty"`
	Since      time.Time      `json:"since"`
	Until      time.Time      `json:"until"`
}

// SearchResult is one ranked hit across topics and replies.
type SearchResult struct {
	Kind      enum.TargetType `json:"kind"`
	ID        int64           `json:"id"`
	TopicID   int64           `json:"topicId"`
	Title     string          `json:"title"`
	Snippet   string          `json:"snippet"`
	Rank      float64         `json:"rank"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SearchRecord is one entry in a user's search history.
type SearchRecord struct {
	ID        int64     `bun:",pk,autoincrement" json:"id"`
	UserID    int64     `bun:",notnull"          json:"userId"`
	Query     string    `bun:",notnull"          json:"query"`
	CreatedAt time.Time `bun:",notnull"          json:"createdAt"`
}

// SavedSearch is a named query with filters a user can re-run.
type SavedSearch struct {
	ID        int64     `bun:",pk,autoincrement" json:"id"`
	UserID    int64     `bun:",notnull"          json:"userId"`
	Name      string    `bun:",notnull"          json:"name"`
	Query     string    `bun:",notnull"          json:"query"`
	Filters   []byte    `bun:",nullzero,type:jsonb" json:"filters,omitempty"`
	CreatedAt time.Time `bun:",notnull"          json:"createdAt"`
}
