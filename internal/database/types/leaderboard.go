package types

import (
	"errors"
	"time"

	"github.com/agorahq/agora/internal/database/types/enum"
)

var ErrInvalidLeaderboard = errors.New("invalid leaderboard period or board")

// LeaderboardEntry is one ranked row of a leaderboard. Ties share a value
// but get distinct ranks by user ID for a stable ordering.
type LeaderboardEntry struct {
	Rank        int    `bun:"-"            json:"rank"`
	UserID      int64  `bun:"user_id"      json:"userId"`
	Username    string `bun:"username"     json:"username"`
	DisplayName string `bun:"display_name" json:"displayName"`
	Value       int    `bun:"value"        json:"value"`
}

// PeriodStart returns the cutoff time for a leaderboard period, or the
// zero time for all-time boards.
func PeriodStart(period enum.LeaderboardPeriod, now time.Time) time.Time {
	switch period {
	case enum.LeaderboardPeriodDay:
		return now.Add(-24 * time.Hour)
	case enum.LeaderboardPeriodWeek:
		return now.Add(-7 * 24 * time.Hour)
	case enum.LeaderboardPeriodMonth:
		return now.Add(-30 * 24 * time.Hour)
	default:
		return time.Time{}
	}
}
