package types

import (
	"errors"
	"time"
)

var (
	ErrReplyNotFound       = errors.New("reply not found")
	ErrReplyDeleted        = errors.New("reply is deleted")
	ErrNotReplyAuthor      = errors.New("only the reply author may do this")
	ErrMaxReplyDepth       = errors.New("max reply depth reached")
	ErrParentTopicMismatch = errors.New("parent reply belongs to another topic")
	ErrQuoteTopicMismatch  = errors.New("quoted reply belongs to another topic")
	ErrEditWindowClosed    = errors.New("edit window has closed")
)

// MaxReplyDepth is the deepest nesting level a reply may have.
// Root replies are depth 0, so replies under a depth-2 parent are rejected.
const MaxReplyDepth = 2

// Reply is a threaded comment on a topic.
type Reply struct {
	ID            int64     `bun:",pk,autoincrement"      json:"id"`
	TopicID       int64     `bun:",notnull"               json:"topicId"`
	AuthorID      int64     `bun:",notnull"               json:"authorId"`
	Content       string    `bun:",notnull"               json:"content"`
	ParentReplyID int64     `bun:",nullzero"              json:"parentReplyId,omitempty"`
	QuotedReplyID int64     `bun:",nullzero"              json:"quotedReplyId,omitempty"`
	Depth         int       `bun:",notnull,default:0"     json:"depth"`
	Mentions      []string  `bun:",array"                 json:"mentions"`
	IsAccepted    bool      `bun:",notnull,default:false" json:"isAccepted"`
	IsDeleted     bool      `bun:",notnull,default:false" json:"isDeleted"`
	VoteScore     int       `bun:",notnull,default:0"     json:"voteScore"`
	UpvoteCount   int       `bun:",notnull,default:0"     json:"upvoteCount"`
	DownvoteCount int       `bun:",notnull,default:0"     json:"downvoteCount"`
	CreatedAt     time.Time `bun:",notnull"               json:"createdAt"`
	EditedAt      time.Time `bun:",nullzero"              json:"editedAt"`
}

// Hidden reports whether the reply should be treated as hidden in read paths.
func (r *Reply) Hidden() bool {
	return r.VoteScore <= AutoHideScore
}

// ReplyEdit is an immutable snapshot of a reply's content before an edit.
type ReplyEdit struct {
	ID       int64     `bun:",pk,autoincrement" json:"id"`
	ReplyID  int64     `bun:",notnull"          json:"replyId"`
	EditorID int64     `bun:",notnull"          json:"editorId"`
	Content  string    `bun:",notnull"          json:"content"`
	EditedAt time.Time `bun:",notnull"          json:"editedAt"`
}

// ReplyTree is a reply with its nested children, for threaded listings.
type ReplyTree struct {
	*Reply
	Children []*ReplyTree `json:"children"`
}
