package types

import (
	"errors"
	"time"
)

var ErrBadgeNotFound = errors.New("badge not found")

// Badge is a badge definition seeded by migration.
type Badge struct {
	ID          int64  `bun:",pk,autoincrement" json:"id"`
	Code        string `bun:",notnull,unique"   json:"code"`
	Name        string `bun:",notnull"          json:"name"`
	Description string `bun:",notnull"          json:"description"`
}

// Badge codes known to the awarding rules.
const (
	BadgeFirstTopic          = "first_topic"
	BadgeFirstAcceptedAnswer = "first_accepted_answer"
	BadgeProlificAuthor      = "prolific_author"
	BadgeHelpfulTen          = "helpful_10"
	BadgeUpvotedHundred      = "upvoted_100"
	BadgeVeteran             = "veteran"
)

// UserBadge records that a user earned a badge. Awarding is idempotent.
type UserBadge struct {
	UserID    int64     `bun:",pk"      json:"userId"`
	BadgeID   int64     `bun:",pk"      json:"badgeId"`
	AwardedAt time.Time `bun:",notnull" json:"awardedAt"`

	Badge *Badge `bun:"rel:belongs-to,join:badge_id=id" json:"badge,omitempty"`
}
