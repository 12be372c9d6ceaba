package types

import (
	"time"

	"github.com/agorahq/agora/internal/database/types/enum"
)

// ReputationEntry is one row in the append-only reputation ledger.
// Entries are never mutated; reversals are recorded as counter-entries.
type ReputationEntry struct {
	ID          int64                `bun:",pk,autoincrement" json:"id"`
	UserID      int64                `bun:",notnull"          json:"userId"`
	EventType   enum.ReputationEvent `bun:",notnull"          json:"eventType"`
	Points      int                  `bun:",notnull"          json:"points"`
	ReferenceID int64                `bun:",nullzero"         json:"referenceId,omitempty"`
	CreatedAt   time.Time            `bun:",notnull"          json:"createdAt"`
}

// LevelProgress describes how far a user is into their current level.
type LevelProgress struct {
	Current            enum.ReputationLevel `json:"current"`
	NextLevelThreshold int                  `json:"nextLevelThreshold"`
	Percentage         int                  `json:"percentage"`
}

// ReputationSummary is the aggregate view of a user's ledger.
type ReputationSummary struct {
	UserID   int64                `json:"userId"`
	Total    int                  `json:"total"`
	Level    enum.ReputationLevel `json:"level"`
	Progress LevelProgress        `json:"progress"`
}
