package enum_test

import (
	"testing"

	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
)

func TestReportStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status     enum.ReportStatus
		open       bool
		resolution bool
	}{
		{enum.ReportStatusPending, true, false},
		{enum.ReportStatusReviewing, true, false},
		{enum.ReportStatusResolvedViolation, false, true},
		{enum.ReportStatusResolvedNoAction, false, true},
		{enum.ReportStatusDismissed, false, true},
		{enum.ReportStatus("unknown"), false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.open, tt.status.Open(), "status=%s", tt.status)
		assert.Equal(t, tt.resolution, tt.status.Resolution(), "status=%s", tt.status)
	}
}

func TestReportReasonValid(t *testing.T) {
	t.Parallel()

	for _, reason := range []enum.ReportReason{
		enum.ReportReasonSpam, enum.ReportReasonHarassment, enum.ReportReasonInappropriate,
		enum.ReportReasonMisinformation, enum.ReportReasonOther,
	} {
		assert.True(t, reason.Valid(), "reason=%s", reason)
	}

	assert.False(t, enum.ReportReason("grudge").Valid())
}
