package types

import (
	"errors"
	"time"

	"github.com/agorahq/agora/internal/database/types/enum"
)

var (
	ErrTopicNotFound      = errors.New("topic not found")
	ErrTopicLocked        = errors.New("topic is locked")
	ErrTopicArchived      = errors.New("topic is archived")
	ErrTopicNotQuestion   = errors.New("topic is not a question")
	ErrNotTopicAuthor     = errors.New("only the topic author may do this")
	ErrSameTopicMerge     = errors.New("cannot merge a topic into itself")
	ErrTitleLength        = errors.New("title must be between 10 and 200 characters")
	ErrContentLength      = errors.New("content length is out of range")
	ErrTooManyTags        = errors.New("too many tags")
	ErrTooManyAttachments = errors.New("too many attachments")
	ErrInvalidTopicType   = errors.New("invalid topic type")
)

// Content limits for topics and replies.
const (
	TitleMinLength        = 10
	TitleMaxLength        = 200
	TopicContentMinLength = 20
	TopicContentMaxLength = 50000
	ReplyContentMinLength = 2
	ReplyContentMaxLength = 10000
	MaxTopicTags          = 5
	MaxTopicAttachments   = 5
)

// AutoHideScore is the vote score at or below which content is treated
// as hidden in read paths. Derived on every read, never persisted.
const AutoHideScore = -5

// Topic is a forum post that replies attach to.
type Topic struct {
	ID              int64            `bun:",pk,autoincrement"      json:"id"`
	Title           string           `bun:",notnull"               json:"title"`
	Slug            string           `bun:",notnull,unique"        json:"slug"`
	Content         string           `bun:",notnull"               json:"content"`
	AuthorID        int64            `bun:",notnull"               json:"authorId"`
	CategoryID      int64            `bun:",notnull"               json:"categoryId"`
	Type            enum.TopicType   `bun:",notnull"               json:"type"`
	Status          enum.TopicStatus `bun:",notnull"               json:"status"`
	Tags            []string         `bun:",array"                 json:"tags"`
	Attachments     []string         `bun:",array"                 json:"attachments"`
	IsDraft         bool             `bun:",notnull,default:false" json:"isDraft"`
	IsPinned        bool             `bun:",notnull,default:false" json:"isPinned"`
	IsLocked        bool             `bun:",notnull,default:false" json:"isLocked"`
	IsFlagged       bool             `bun:",notnull,default:false" json:"isFlagged"`
	ViewCount       int              `bun:",notnull,default:0"     json:"viewCount"`
	ReplyCount      int              `bun:",notnull,default:0"     json:"replyCount"`
	VoteScore       int              `bun:",notnull,default:0"     json:"voteScore"`
	UpvoteCount     int              `bun:",notnull,default:0"     json:"upvoteCount"`
	DownvoteCount   int              `bun:",notnull,default:0"     json:"downvoteCount"`
	AcceptedReplyID int64            `bun:",nullzero"              json:"acceptedReplyId,omitempty"`
	CreatedAt       time.Time        `bun:",notnull"               json:"createdAt"`
	UpdatedAt       time.Time        `bun:",notnull"               json:"updatedAt"`
}

// Hidden reports whether the topic should be treated as hidden in read paths.
func (t *Topic) Hidden() bool {
	return t.VoteScore <= AutoHideScore
}

// TopicCursor is an opaque pagination position in a topic listing.
type TopicCursor struct {
	CreatedAt time.Time `json:"createdAt"`
	Score     int       `json:"score"`
	Views     int       `json:"views"`
	ID        int64     `json:"id"`
}
