package service_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/service"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidatePollOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		options  []string
		expected error
	}{
		{"valid", []string{"Yes", "No"}, nil},
		{"too few", []string{"Only"}, types.ErrPollOptionCount},
		{"too many", make([]string, types.MaxPollOptions+1), types.ErrPollOptionCount},
		{"empty option", []string{"Yes", "   "}, types.ErrPollOptionEmpty},
		{"duplicate", []string{"Yes", "No", "yes"}, types.ErrPollOptionDuplicate},
		{"duplicate after trim", []string{"Yes", " Yes "}, types.ErrPollOptionDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := service.ValidatePollOptions(tt.options)
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestPercentages(t *testing.T) {
	t.Parallel()

	// Thirds round via largest remainder and still sum to 100
	percentages := service.Percentages([]int{1, 1, 1}, 3)
	require.Len(t, percentages, 3)

	sum := 0
	for _, pct := range percentages {
		sum += pct
	}
	assert.Equal(t, 100, sum)

	// Exact splits stay exact
	assert.Equal(t, []int{50, 50}, service.Percentages([]int{2, 2}, 4))
	assert.Equal(t, []int{75, 25}, service.Percentages([]int{3, 1}, 4))

	// Nobody voted yet
	assert.Equal(t, []int{0, 0}, service.Percentages([]int{0, 0}, 0))
}

func TestPercentagesMultiChoice(t *testing.T) {
	t.Parallel()

	// Multi-choice polls are percentages of voters, so columns can exceed
	// 100 combined; each one is still bounded by its own voter share.
	percentages := service.Percentages([]int{3, 2}, 3)
	assert.Equal(t, []int{100, 66}, percentages)
}

func TestUpdatePollLockedAfterFirstVote(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	nop := zap.NewNop()
	svc := service.NewPoll(models.NewPoll(db, nop), models.NewTopic(db, nop), nop)

	pollRows := sqlmock.NewRows([]string{"id", "topic_id", "question", "poll_type", "max_choices"}).
		AddRow(int64(1), int64(6), "Which proposal should we adopt?", "single", 1)
	mock.ExpectQuery(`SELECT (.+) FROM "polls"`).WillReturnRows(pollRows)

	optionRows := sqlmock.NewRows([]string{"id", "poll_id", "text", "display_order"}).
		AddRow(int64(10), int64(1), "Proposal A", 0).
		AddRow(int64(11), int64(1), "Proposal B", 1)
	mock.ExpectQuery(`SELECT (.+) FROM "poll_options"`).WillReturnRows(optionRows)

	topicRows := sqlmock.NewRows([]string{"id", "author_id", "title", "type", "status"}).
		AddRow(int64(6), int64(3), "Vote on the next proposal", "discussion", "active")
	mock.ExpectQuery(`SELECT (.+) FROM "topics"`).WillReturnRows(topicRows)

	// Somebody already voted: the option set is frozen.
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Update(t.Context(), service.UpdatePollParams{
		PollID:   1,
		AuthorID: 3,
		Question: "Which proposal should we adopt?",
		Options:  []string{"Proposal A", "Proposal B", "Proposal C"},
	})
	require.ErrorIs(t, err, types.ErrPollHasVotes)
	require.NoError(t, mock.ExpectationsWereMet())
}
