package service_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agorahq/agora/internal/async"
	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/service"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCanEditReply(t *testing.T) {
	t.Parallel()

	now := time.Now()
	reply := &types.Reply{AuthorID: 7, CreatedAt: now.Add(-5 * time.Minute)}

	// Author inside the edit window
	assert.True(t, service.CanEditReply(reply, 7, enum.UserRoleUser, now))

	// Author after the window closes
	stale := &types.Reply{AuthorID: 7, CreatedAt: now.Add(-service.EditWindow - time.Minute)}
	assert.False(t, service.CanEditReply(stale, 7, enum.UserRoleUser, now))

	// Someone else, even inside the window
	assert.False(t, service.CanEditReply(reply, 8, enum.UserRoleUser, now))

	// Moderators and admins are not bound by the window
	assert.True(t, service.CanEditReply(stale, 8, enum.UserRoleModerator, now))
	assert.True(t, service.CanEditReply(stale, 8, enum.UserRoleAdmin, now))

	// Exactly at the window boundary still counts
	edge := &types.Reply{AuthorID: 7, CreatedAt: now.Add(-service.EditWindow)}
	assert.True(t, service.CanEditReply(edge, 7, enum.UserRoleUser, now))
}

func TestBuildReplyTree(t *testing.T) {
	t.Parallel()

	replies := []*types.Reply{
		{ID: 1},
		{ID: 2, ParentReplyID: 1},
		{ID: 3, ParentReplyID: 1},
		{ID: 4, ParentReplyID: 2},
		{ID: 5},
	}

	roots := service.BuildReplyTree(replies)
	require.Len(t, roots, 2)

	assert.Equal(t, int64(1), roots[0].Reply.ID)
	assert.Equal(t, int64(5), roots[1].Reply.ID)

	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, int64(2), roots[0].Children[0].Reply.ID)
	assert.Equal(t, int64(3), roots[0].Children[1].Reply.ID)

	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, int64(4), roots[0].Children[0].Children[0].Reply.ID)
}

func TestBuildReplyTreeOrphansBecomeRoots(t *testing.T) {
	t.Parallel()

	// A reply whose parent was filtered out still shows up at the top level.
	replies := []*types.Reply{
		{ID: 10, ParentReplyID: 99},
		{ID: 11, ParentReplyID: 10},
	}

	roots := service.BuildReplyTree(replies)
	require.Len(t, roots, 1)
	assert.Equal(t, int64(10), roots[0].Reply.ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, int64(11), roots[0].Children[0].Reply.ID)
}

func newReplyService(t *testing.T) (*service.ReplyService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	nop := zap.NewNop()

	notification := service.NewNotification(models.NewNotification(db, nop), nop)
	badges := service.NewBadge(models.NewBadge(db, nop), models.NewUser(db, nop),
		models.NewTopic(db, nop), models.NewReply(db, nop), models.NewVote(db, nop),
		notification, nop)

	svc := service.NewReply(db, models.NewReply(db, nop), models.NewTopic(db, nop),
		models.NewUser(db, nop), service.NewReputation(models.NewReputation(db, nop), nop),
		notification, badges, async.NewRunner(nop), nop)

	return svc, mock
}

func TestCreateReplyRollsBackOnInsertFailure(t *testing.T) {
	t.Parallel()

	svc, mock := newReplyService(t)

	topicRows := sqlmock.NewRows([]string{"id", "author_id", "category_id", "title", "type", "status"}).
		AddRow(int64(1), int64(2), int64(4), "How do slices grow under append?", "discussion", "active")
	mock.ExpectQuery(`SELECT (.+) FROM "topics"`).WillReturnRows(topicRows)

	// The insert runs inside the recount transaction: when it fails the
	// transaction rolls back and the recount never runs.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "replies"`).WillReturnError(errors.New("insert rejected"))
	mock.ExpectRollback()

	_, err := svc.CreateReply(t.Context(), service.CreateReplyParams{
		TopicID:  1,
		AuthorID: 3,
		Content:  "Capacity doubles until 1024 elements, then grows by a quarter.",
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptAnswerFailsWhenPreviousReplyMissing(t *testing.T) {
	t.Parallel()

	svc, mock := newReplyService(t)

	topicRows := sqlmock.NewRows([]string{"id", "author_id", "title", "type", "status", "accepted_reply_id"}).
		AddRow(int64(1), int64(9), "Why does my goroutine leak here?", "question", "active", int64(5))
	mock.ExpectQuery(`SELECT (.+) FROM "topics"`).WillReturnRows(topicRows)

	replyRows := sqlmock.NewRows([]string{"id", "topic_id", "author_id", "is_accepted", "is_deleted"}).
		AddRow(int64(7), int64(1), int64(3), false, false)
	mock.ExpectQuery(`SELECT (.+) FROM "replies"`).WillReturnRows(replyRows)

	// The currently accepted reply cannot be loaded. The swap must not
	// proceed, or its author would silently keep the award.
	mock.ExpectQuery(`SELECT (.+) FROM "replies"`).WillReturnError(sql.ErrNoRows)

	err := svc.AcceptAnswer(t.Context(), 1, 7, 9)
	require.ErrorIs(t, err, types.ErrReplyNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
