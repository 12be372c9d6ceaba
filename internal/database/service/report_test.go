package service_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agorahq/agora/internal/async"
	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/service"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReportService(t *testing.T) (*service.ReportService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	nop := zap.NewNop()

	svc := service.NewReport(models.NewReport(db, nop), models.NewTopic(db, nop),
		models.NewReply(db, nop), models.NewUser(db, nop),
		service.NewNotification(models.NewNotification(db, nop), nop),
		async.NewRunner(nop), nop)

	return svc, mock
}

func pendingReportRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "reporter_id", "reportable_type", "reportable_id", "reason", "status"}).
		AddRow(int64(1), int64(4), "topic", int64(9), "spam", "pending")
}

func TestResolveRejectsNonFinalStatus(t *testing.T) {
	t.Parallel()

	svc, _ := newReportService(t)
	moderator := &types.User{ID: 2, Role: enum.UserRoleModerator}

	// Open states are not resolutions; nothing may be written.
	for _, status := range []enum.ReportStatus{enum.ReportStatusPending, enum.ReportStatusReviewing} {
		err := svc.Resolve(t.Context(), moderator, 1, status)
		require.ErrorIs(t, err, types.ErrInvalidResolution)
	}

	err := svc.Resolve(t.Context(), &types.User{ID: 3, Role: enum.UserRoleUser}, 1, enum.ReportStatusDismissed)
	require.ErrorIs(t, err, types.ErrNotModerator)
}

func TestResolveFinalizesOpenReport(t *testing.T) {
	t.Parallel()

	svc, mock := newReportService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "reports"`).WillReturnRows(pendingReportRows())
	mock.ExpectExec(`UPDATE "reports"`).WillReturnResult(sqlmock.NewResult(0, 1))

	moderator := &types.User{ID: 2, Role: enum.UserRoleModerator}
	err := svc.Resolve(t.Context(), moderator, 1, enum.ReportStatusResolvedViolation)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOnlyOnce(t *testing.T) {
	t.Parallel()

	svc, mock := newReportService(t)

	// The update is guarded by the report still being open; a report
	// already finalized (or lost to a concurrent resolver) matches no
	// rows and surfaces as a conflict.
	mock.ExpectQuery(`SELECT (.+) FROM "reports"`).WillReturnRows(pendingReportRows())
	mock.ExpectExec(`UPDATE "reports"`).WillReturnResult(sqlmock.NewResult(0, 0))

	moderator := &types.User{ID: 2, Role: enum.UserRoleModerator}
	err := svc.Resolve(t.Context(), moderator, 1, enum.ReportStatusDismissed)
	require.ErrorIs(t, err, types.ErrReportAlreadyResolved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReviewingOnlyWhileOpen(t *testing.T) {
	t.Parallel()

	svc, mock := newReportService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "reports"`).WillReturnRows(pendingReportRows())
	mock.ExpectExec(`UPDATE "reports"`).WillReturnResult(sqlmock.NewResult(0, 0))

	moderator := &types.User{ID: 2, Role: enum.UserRoleModerator}
	err := svc.MarkReviewing(t.Context(), moderator, 1)
	require.ErrorIs(t, err, types.ErrReportAlreadyResolved)
	require.NoError(t, mock.ExpectationsWereMet())
}
