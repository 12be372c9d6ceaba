package enum

// LeaderboardPeriod represents the time window a leaderboard aggregates over.
// Window boundaries are computed in UTC.
type LeaderboardPeriod string

const (
	LeaderboardPeriodDay     LeaderboardPeriod = "day"
	LeaderboardPeriodWeek    LeaderboardPeriod = "week"
	LeaderboardPeriodMonth   LeaderboardPeriod = "month"
	LeaderboardPeriodAllTime LeaderboardPeriod = "all_time"
)

// Valid reports whether the value is a known period.
func (p LeaderboardPeriod) Valid() bool {
	switch p {
	case LeaderboardPeriodDay, LeaderboardPeriodWeek, LeaderboardPeriodMonth, LeaderboardPeriodAllTime:
		return true
	}
	return false
}

// LeaderboardBoard selects which ranking a leaderboard request is for.
type LeaderboardBoard string

const (
	// LeaderboardBoardReputation ranks users by reputation earned in the period.
	LeaderboardBoardReputation LeaderboardBoard = "reputation"
	// LeaderboardBoardTopics ranks topic authors by votes received in the period.
	LeaderboardBoardTopics LeaderboardBoard = "topics"
	// LeaderboardBoardAnswers ranks users by accepted answers in the period.
	LeaderboardBoardAnswers LeaderboardBoard = "answers"
)

// Valid reports whether the value is a known board.
func (b LeaderboardBoard) Valid() bool {
	switch b {
	case LeaderboardBoardReputation, LeaderboardBoardTopics, LeaderboardBoardAnswers:
		return true
	}
	return false
}
