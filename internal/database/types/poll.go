package types

import (
	"errors"
	"time"

	"github.com/agorahq/agora/internal/database/types/enum"
)

var (
	ErrPollNotFound        = errors.New("poll not found")
	ErrDuplicatePoll       = errors.New("topic already has a poll")
	ErrPollExpired         = errors.New("poll deadline has passed")
	ErrPollAlreadyVoted    = errors.New("already voted in this poll")
	ErrPollOptionCount     = errors.New("polls require between 2 and 10 options")
	ErrPollOptionEmpty     = errors.New("poll options cannot be empty")
	ErrPollOptionDuplicate = errors.New("poll options must be unique")
	ErrPollOptionUnknown   = errors.New("unknown poll option")
	ErrPollChoiceCount     = errors.New("invalid number of choices for this poll")
	ErrPollHasVotes        = errors.New("poll already has votes")
	ErrInvalidPollType     = errors.New("invalid poll type")
	ErrPollDeadlinePast    = errors.New("poll deadline must be in the future")
)

// Poll option count limits.
const (
	MinPollOptions = 2
	MaxPollOptions = 10
)

// Poll is attached to a topic and owns its options.
type Poll struct {
	ID         int64         `bun:",pk,autoincrement" json:"id"`
	TopicID    int64         `bun:",notnull,unique"   json:"topicId"`
	Question   string        `bun:",notnull"          json:"question"`
	PollType   enum.PollType `bun:",notnull"          json:"pollType"`
	MaxChoices int           `bun:",notnull,default:1" json:"maxChoices"`
	Deadline   time.Time     `bun:",nullzero"         json:"deadline"`
	CreatedAt  time.Time     `bun:",notnull"          json:"createdAt"`

	Options []*PollOption `bun:"rel:has-many,join:id=poll_id" json:"options,omitempty"`
}

// Expired reports whether the poll no longer accepts votes.
func (p *Poll) Expired(now time.Time) bool {
	return !p.Deadline.IsZero() && now.After(p.Deadline)
}

// PollOption is one selectable answer in a poll.
type PollOption struct {
	ID           int64  `bun:",pk,autoincrement"  json:"id"`
	PollID       int64  `bun:",notnull"           json:"pollId"`
	Text         string `bun:",notnull"           json:"text"`
	DisplayOrder int    `bun:",notnull,default:0" json:"displayOrder"`
}

// PollVote is one user's choice of one option. Multiple-choice polls may
// have several rows per user, single-choice polls exactly one.
type PollVote struct {
	PollID    int64     `bun:",pk"      json:"pollId"`
	UserID    int64     `bun:",pk"      json:"userId"`
	OptionID  int64     `bun:",pk"      json:"optionId"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}

// PollOptionResult is the tally for one option.
type PollOptionResult struct {
	OptionID   int64  `json:"optionId"`
	Text       string `json:"text"`
	VoteCount  int    `json:"voteCount"`
	Percentage int    `json:"percentage"`
}

// PollResults is the aggregate outcome of a poll.
type PollResults struct {
	PollID      int64               `json:"pollId"`
	TotalVoters int                 `json:"totalVoters"`
	Options     []*PollOptionResult `json:"options"`
}
