package types

import (
	"errors"
	"time"

	"github.com/agorahq/agora/internal/database/types/enum"
)

var (
	ErrReportNotFound        = errors.New("report not found")
	ErrDuplicateReport       = errors.New("content already reported by this user")
	ErrSelfReport            = errors.New("cannot report your own content")
	ErrReportAlreadyResolved = errors.New("report is already resolved")
	ErrInvalidResolution     = errors.New("invalid report resolution")
	ErrInvalidReportReason   = errors.New("invalid report reason")
	ErrInvalidReportTarget   = errors.New("invalid report target type")
	ErrReportDetailsTooLong  = errors.New("report details too long")
)

// AttentionReportCount is the number of unique pending reports at which a
// queue entry is surfaced for moderator attention. Advisory only; no content
// flag is written from report counts.
const AttentionReportCount = 5

// Report is a user-submitted complaint about a piece of content.
type Report struct {
	ID             int64             `bun:",pk,autoincrement" json:"id"`
	ReporterID     int64             `bun:",notnull"          json:"reporterId"`
	ReportableType enum.TargetType   `bun:",notnull"          json:"reportableType"`
	ReportableID   int64             `bun:",notnull"          json:"reportableId"`
	Reason         enum.ReportReason `bun:",notnull"          json:"reason"`
	Details        string            `bun:",nullzero"         json:"details,omitempty"`
	Status         enum.ReportStatus `bun:",notnull"          json:"status"`
	ResolvedBy     int64             `bun:",nullzero"         json:"resolvedBy,omitempty"`
	ResolvedAt     time.Time         `bun:",nullzero"         json:"resolvedAt"`
	CreatedAt      time.Time         `bun:",notnull"          json:"createdAt"`
}

// ReportQueueEntry groups pending reports for one piece of content.
type ReportQueueEntry struct {
	ReportableType enum.TargetType `json:"reportableType"`
	ReportableID   int64           `json:"reportableId"`
	PendingCount   int             `json:"pendingCount"`
	OldestReport   time.Time       `json:"oldestReport"`
	NewestReport   time.Time       `json:"newestReport"`
	NeedsAttention bool            `json:"needsAttention"`
}
