package enum

// ReportReason categorizes why content was reported.
type ReportReason string

const (
	ReportReasonSpam           ReportReason = "spam"
	ReportReasonHarassment     ReportReason = "harassment"
	ReportReasonInappropriate  ReportReason = "inappropriate"
	ReportReasonMisinformation ReportReason = "misinformation"
	ReportReasonOther          ReportReason = "other"
)

// Valid reports whether the value is a known report reason.
func (r ReportReason) Valid() bool {
	switch r {
	case ReportReasonSpam, ReportReasonHarassment, ReportReasonInappropriate,
		ReportReasonMisinformation, ReportReasonOther:
		return true
	}
	return false
}

// ReportStatus tracks a report through the moderation queue.
type ReportStatus string

const (
	ReportStatusPending           ReportStatus = "pending"
	ReportStatusReviewing         ReportStatus = "reviewing"
	ReportStatusResolvedViolation ReportStatus = "resolved_violation"
	ReportStatusResolvedNoAction  ReportStatus = "resolved_no_action"
	ReportStatusDismissed         ReportStatus = "dismissed"
)

// Open reports whether the report still awaits a resolution.
func (s ReportStatus) Open() bool {
	return s == ReportStatusPending || s == ReportStatusReviewing
}

// Resolution reports whether the value is a legal final state.
func (s ReportStatus) Resolution() bool {
	switch s {
	case ReportStatusResolvedViolation, ReportStatusResolvedNoAction, ReportStatusDismissed:
		return true
	}
	return false
}
