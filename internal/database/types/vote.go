package types

import (
	"errors"
	"time"

	"github.com/agorahq/agora/internal/database/types/enum"
)

var (
	ErrSelfVote               = errors.New("cannot vote on your own content")
	ErrInvalidVoteValue       = errors.New("vote value must be 1, -1 or 0")
	ErrDailyVoteLimit         = errors.New("daily vote limit reached")
	ErrInsufficientReputation = errors.New("not enough reputation")
)

// TopicVote is one user's vote on a topic. Absence of a row means no vote.
type TopicVote struct {
	TopicID   int64     `bun:",pk"      json:"topicId"`
	UserID    int64     `bun:",pk"      json:"userId"`
	Value     int       `bun:",notnull" json:"value"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}

// ReplyVote is one user's vote on a reply. Absence of a row means no vote.
type ReplyVote struct {
	ReplyID   int64     `bun:",pk"      json:"replyId"`
	UserID    int64     `bun:",pk"      json:"userId"`
	Value     int       `bun:",notnull" json:"value"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}

// VoteCounts is the authoritative tally recomputed from the vote table.
type VoteCounts struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// Score returns upvotes minus downvotes.
func (c VoteCounts) Score() int {
	return c.Upvotes - c.Downvotes
}

// VoteResult is what a vote cast returns to the caller.
type VoteResult struct {
	VoteScore     int  `json:"voteScore"`
	UpvoteCount   int  `json:"upvoteCount"`
	DownvoteCount int  `json:"downvoteCount"`
	UserVote      int  `json:"userVote"`
	Hidden        bool `json:"hidden"`
}

// UserVoteRecord is one entry in a user's vote history across both target kinds.
type UserVoteRecord struct {
	TargetType enum.TargetType `json:"targetType"`
	TargetID   int64           `json:"targetId"`
	Value      int             `json:"value"`
	CreatedAt  time.Time       `json:"createdAt"`
}
