package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	dbTypes "github.com/agorahq/agora/internal/database/types"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      error
		expected int
	}{
		{dbTypes.ErrTopicNotFound, http.StatusNotFound},
		{dbTypes.ErrReplyNotFound, http.StatusNotFound},
		{dbTypes.ErrCategoryNotFound, http.StatusNotFound},
		{dbTypes.ErrDuplicatePoll, http.StatusConflict},
		{dbTypes.ErrReportAlreadyResolved, http.StatusConflict},
		{dbTypes.ErrTopicArchived, http.StatusConflict},
		{dbTypes.ErrNotAdmin, http.StatusForbidden},
		{dbTypes.ErrTopicLocked, http.StatusForbidden},
		{dbTypes.ErrSelfVote, http.StatusForbidden},
		{dbTypes.ErrEditWindowClosed, http.StatusForbidden},
		// The daily vote cap is a business rule, not transport-level
		// throttling: 429 stays reserved for the rate limiter.
		{dbTypes.ErrDailyVoteLimit, http.StatusForbidden},
		{dbTypes.ErrTitleLength, http.StatusBadRequest},
		{dbTypes.ErrInvalidVoteValue, http.StatusBadRequest},
		{dbTypes.ErrPollOptionCount, http.StatusBadRequest},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, statusOf(tt.err), "err=%v", tt.err)
	}
}

func TestStatusOfWrappedErrors(t *testing.T) {
	t.Parallel()

	// Services wrap sentinels with context; mapping must see through it
	wrapped := fmt.Errorf("failed to get topic: %w", dbTypes.ErrTopicNotFound)
	assert.Equal(t, http.StatusNotFound, statusOf(wrapped))
}
