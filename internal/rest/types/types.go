package types

import (
	"encoding/base64"
	"fmt"
	"time"

	dbTypes "github.com/agorahq/agora/internal/database/types"
	"github.com/bytedance/sonic"
)

// ErrorBody carries the error message in a failed response.
type ErrorBody struct {
	Message string `json:"message"`
}

// Response is the envelope wrapping every API response.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Fail wraps a message in an error envelope.
func Fail(message string) Response {
	return Response{Success: false, Error: &ErrorBody{Message: message}}
}

// EncodeTopicCursor serializes a pagination cursor into an opaque token.
func EncodeTopicCursor(cursor *dbTypes.TopicCursor) string {
	if cursor == nil {
		return ""
	}

	data, err := sonic.Marshal(cursor)
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeTopicCursor parses an opaque cursor token. Empty input yields a
// nil cursor, which means "first page".
func DecodeTopicCursor(token string) (*dbTypes.TopicCursor, error) {
	if token == "" {
		return nil, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}

	var cursor dbTypes.TopicCursor
	if err := sonic.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}

	return &cursor, nil
}

// TopicPage is a paginated topic listing with its next-page cursor.
type TopicPage struct {
	Topics     []*dbTypes.Topic `json:"topics"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// CreateTopicRequest is the body for creating a topic.
type CreateTopicRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	CategoryID  int64    `json:"categoryId"`
	Type        string   `json:"type"`
	Tags        []string `json:"tags"`
	Attachments []string `json:"attachments"`
	IsDraft     bool     `json:"isDraft"`
}

// UpdateTopicRequest is the body for editing a topic.
type UpdateTopicRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Publish bool     `json:"publish"`
}

// CreateReplyRequest is the body for posting a reply.
type CreateReplyRequest struct {
	Content       string `json:"content"`
	ParentReplyID int64  `json:"parentReplyId"`
	QuotedReplyID int64  `json:"quotedReplyId"`
}

// EditReplyRequest is the body for editing a reply.
type EditReplyRequest struct {
	Content string `json:"content"`
}

// VoteRequest is the body for casting a vote. Zero removes the vote.
type VoteRequest struct {
	Vote int `json:"vote"`
}

// CreateCategoryRequest is the body for creating a category.
type CreateCategoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ParentID     int64  `json:"parentId"`
	DisplayOrder int    `json:"displayOrder"`
}

// UpdateCategoryRequest is the body for editing a category. ParentID
// moves the category when present; zero moves it to the root.
type UpdateCategoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"displayOrder"`
	ParentID     *int64 `json:"parentId"`
}

// SetActiveRequest toggles a category's active flag.
type SetActiveRequest struct {
	IsActive bool `json:"isActive"`
}

// ModeratorRequest names a user for moderator assignment.
type ModeratorRequest struct {
	UserID int64 `json:"userId"`
}

// PinRequest is the body for pinning or unpinning a topic.
type PinRequest struct {
	IsPinned bool   `json:"isPinned"`
	Reason   string `json:"reason"`
}

// LockRequest is the body for locking or unlocking a topic.
type LockRequest struct {
	IsLocked bool   `json:"isLocked"`
	Reason   string `json:"reason"`
}

// MoveRequest is the body for moving a topic to another category.
type MoveRequest struct {
	CategoryID int64  `json:"categoryId"`
	Reason     string `json:"reason"`
}

// MergeRequest is the body for merging a topic into another.
type MergeRequest struct {
	TargetTopicID int64  `json:"targetTopicId"`
	Reason        string `json:"reason"`
}

// ReasonRequest carries a bare reason for destructive moderation actions.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// SuspendRequest is the body for suspending a user.
type SuspendRequest struct {
	Days   int    `json:"days"`
	Reason string `json:"reason"`
}

// CreateReportRequest is the body for reporting content.
type CreateReportRequest struct {
	ReportableType string `json:"reportableType"`
	ReportableID   int64  `json:"reportableId"`
	Reason         string `json:"reason"`
	Details        string `json:"details"`
}

// ResolveReportRequest is the body for resolving a report.
type ResolveReportRequest struct {
	Resolution string `json:"resolution"`
}

// CreatePollRequest is the body for attaching a poll to a topic.
type CreatePollRequest struct {
	TopicID    int64     `json:"topicId"`
	Question   string    `json:"question"`
	PollType   string    `json:"pollType"`
	Options    []string  `json:"options"`
	MaxChoices int       `json:"maxChoices"`
	Deadline   time.Time `json:"deadline"`
}

// UpdatePollRequest is the body for reworking a poll before anyone
// has voted in it.
type UpdatePollRequest struct {
	Question string    `json:"question"`
	Options  []string  `json:"options"`
	Deadline time.Time `json:"deadline"`
}

// PollVoteRequest is the body for voting in a poll.
type PollVoteRequest struct {
	OptionIDs []int64 `json:"optionIds"`
}

// SaveSearchRequest is the body for saving a named search.
type SaveSearchRequest struct {
	Name    string                `json:"name"`
	Query   string                `json:"query"`
	Filters dbTypes.SearchFilters `json:"filters"`
}

// UpdatePrefsRequest is the body for updating notification preferences.
type UpdatePrefsRequest struct {
	DisabledTypes []string `json:"disabledTypes"`
	DNDEnabled    bool     `json:"dndEnabled"`
	DNDStartHour  int      `json:"dndStartHour"`
	DNDEndHour    int      `json:"dndEndHour"`
}

// UserRankEntry is the requesting user's standing on a leaderboard.
type UserRankEntry struct {
	Rank  int `json:"rank"`
	Value int `json:"value"`
}
