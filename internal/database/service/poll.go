package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"go.uber.org/zap"
)

// CreatePollParams carries the inputs for attaching a poll to a topic.
type CreatePollParams struct {
	TopicID    int64
	AuthorID   int64
	Question   string
	PollType   enum.PollType
	Options    []string
	MaxChoices int
	Deadline   time.Time
}

// UpdatePollParams carries the inputs for reworking a poll before
// anyone has voted in it.
type UpdatePollParams struct {
	PollID   int64
	AuthorID int64
	Question string
	Options  []string
	Deadline time.Time
}

// ValidatePollOptions checks option count, emptiness and uniqueness.
// Uniqueness is case-insensitive after trimming.
func ValidatePollOptions(options []string) error {
	if len(options) < types.MinPollOptions || len(options) > types.MaxPollOptions {
		return types.ErrPollOptionCount
	}

	seen := make(map[string]struct{}, len(options))
	for _, option := range options {
		trimmed := strings.TrimSpace(option)
		if trimmed == "" {
			return types.ErrPollOptionEmpty
		}

		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			return types.ErrPollOptionDuplicate
		}
		seen[key] = struct{}{}
	}

	return nil
}

// Percentages computes per-option percentages that sum to exactly 100
// when anyone voted, using largest-remainder rounding.
func Percentages(counts []int, totalVoters int) []int {
	percentages := make([]int, len(counts))
	if totalVoters <= 0 {
		return percentages
	}

	type remainder struct {
		index    int
		fraction float64
	}

	sum := 0
	remainders := make([]remainder, 0, len(counts))
	for i, count := range counts {
		exact := 100 * float64(count) / float64(totalVoters)
		floor := int(exact)
		percentages[i] = floor
		sum += floor
		remainders = append(remainders, remainder{index: i, fraction: exact - float64(floor)})
	}

	sort.SliceStable(remainders, func(a, b int) bool {
		return remainders[a].fraction > remainders[b].fraction
	})

	for i := 0; sum < 100 && i < len(remainders); i++ {
		percentages[remainders[i].index]++
		sum++
	}

	return percentages
}

// PollService handles poll business logic.
type PollService struct {
	model      *models.PollModel
	topicModel *models.TopicModel
	logger     *zap.Logger
}

// NewPoll creates a new poll service.
func NewPoll(model *models.PollModel, topicModel *models.TopicModel, logger *zap.Logger) *PollService {
	return &PollService{
		model:      model,
		topicModel: topicModel,
		logger:     logger.Named("poll_service"),
	}
}

// Create attaches a poll to a topic. Only the topic author may, and only
// while the topic has no poll yet.
func (s *PollService) Create(ctx context.Context, params CreatePollParams) (*types.Poll, error) {
	if err := ValidatePollOptions(params.Options); err != nil {
		return nil, err
	}
	if params.PollType != enum.PollTypeSingle && params.PollType != enum.PollTypeMultiple {
		return nil, types.ErrInvalidPollType
	}
	if !params.Deadline.IsZero() && params.Deadline.Before(time.Now()) {
		return nil, types.ErrPollDeadlinePast
	}

	maxChoices := 1
	if params.PollType == enum.PollTypeMultiple {
		maxChoices = params.MaxChoices
		if maxChoices < 2 || maxChoices > len(params.Options) {
			return nil, types.ErrPollChoiceCount
		}
	}

	topic, err := s.topicModel.GetTopicByID(ctx, params.TopicID)
	if err != nil {
		return nil, err
	}
	if topic.AuthorID != params.AuthorID {
		return nil, types.ErrNotTopicAuthor
	}
	if topic.IsLocked {
		return nil, types.ErrTopicLocked
	}

	poll := &types.Poll{
		TopicID:    params.TopicID,
		Question:   strings.TrimSpace(params.Question),
		PollType:   params.PollType,
		MaxChoices: maxChoices,
		Deadline:   params.Deadline,
		Options:    make([]*types.PollOption, len(params.Options)),
	}
	for i, text := range params.Options {
		poll.Options[i] = &types.PollOption{Text: strings.TrimSpace(text)}
	}

	if err := s.model.CreatePoll(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

// Update reworks a poll's question, options and deadline. Only the
// topic author may, and only while nobody has voted: results must never
// describe options the voters did not see.
func (s *PollService) Update(ctx context.Context, params UpdatePollParams) (*types.Poll, error) {
	if err := ValidatePollOptions(params.Options); err != nil {
		return nil, err
	}
	if !params.Deadline.IsZero() && params.Deadline.Before(time.Now()) {
		return nil, types.ErrPollDeadlinePast
	}

	poll, err := s.model.GetPollByID(ctx, params.PollID)
	if err != nil {
		return nil, err
	}

	topic, err := s.topicModel.GetTopicByID(ctx, poll.TopicID)
	if err != nil {
		return nil, err
	}
	if topic.AuthorID != params.AuthorID {
		return nil, types.ErrNotTopicAuthor
	}

	voted, err := s.model.HasVotes(ctx, params.PollID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, types.ErrPollHasVotes
	}

	if poll.PollType == enum.PollTypeMultiple && poll.MaxChoices > len(params.Options) {
		return nil, types.ErrPollChoiceCount
	}

	poll.Question = strings.TrimSpace(params.Question)
	poll.Deadline = params.Deadline
	poll.Options = make([]*types.PollOption, len(params.Options))
	for i, text := range params.Options {
		poll.Options[i] = &types.PollOption{Text: strings.TrimSpace(text)}
	}

	if err := s.model.ReplacePoll(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

// GetByTopic retrieves a topic's poll with its options.
func (s *PollService) GetByTopic(ctx context.Context, topicID int64) (*types.Poll, error) {
	return s.model.GetPollByTopic(ctx, topicID)
}

// Vote records a user's choices. Votes are final: single-choice polls
// reject a second submission, and there is no retraction.
func (s *PollService) Vote(ctx context.Context, pollID, userID int64, optionIDs []int64) error {
	poll, err := s.model.GetPollByID(ctx, pollID)
	if err != nil {
		return err
	}
	if poll.Expired(time.Now()) {
		return types.ErrPollExpired
	}

	if err := validateChoices(poll, optionIDs); err != nil {
		return err
	}

	existing, err := s.model.GetUserVotes(ctx, pollID, userID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return types.ErrPollAlreadyVoted
	}

	votes := make([]*types.PollVote, len(optionIDs))
	for i, optionID := range optionIDs {
		votes[i] = &types.PollVote{PollID: pollID, UserID: userID, OptionID: optionID}
	}

	return s.model.InsertVotes(ctx, votes)
}

// validateChoices checks choice count against the poll type and that
// every chosen option belongs to the poll, with no duplicates.
func validateChoices(poll *types.Poll, optionIDs []int64) error {
	if len(optionIDs) == 0 {
		return types.ErrPollChoiceCount
	}

	switch poll.PollType {
	case enum.PollTypeSingle:
		if len(optionIDs) != 1 {
			return types.ErrPollChoiceCount
		}
	case enum.PollTypeMultiple:
		if len(optionIDs) > poll.MaxChoices {
			return types.ErrPollChoiceCount
		}
	}

	valid := make(map[int64]struct{}, len(poll.Options))
	for _, option := range poll.Options {
		valid[option.ID] = struct{}{}
	}

	seen := make(map[int64]struct{}, len(optionIDs))
	for _, optionID := range optionIDs {
		if _, ok := valid[optionID]; !ok {
			return types.ErrPollOptionUnknown
		}
		if _, ok := seen[optionID]; ok {
			return types.ErrPollChoiceCount
		}
		seen[optionID] = struct{}{}
	}

	return nil
}

// Results tallies a poll. Percentages always sum to 100 when anyone voted.
func (s *PollService) Results(ctx context.Context, pollID int64) (*types.PollResults, error) {
	poll, err := s.model.GetPollByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	counts, voters, err := s.model.CountVotes(ctx, pollID)
	if err != nil {
		return nil, err
	}

	ordered := make([]int, len(poll.Options))
	for i, option := range poll.Options {
		ordered[i] = counts[option.ID]
	}
	percentages := Percentages(ordered, voters)

	results := &types.PollResults{
		PollID:      pollID,
		TotalVoters: voters,
		Options:     make([]*types.PollOptionResult, len(poll.Options)),
	}
	for i, option := range poll.Options {
		results.Options[i] = &types.PollOptionResult{
			OptionID:   option.ID,
			Text:       option.Text,
			VoteCount:  ordered[i],
			Percentage: percentages[i],
		}
	}

	return results, nil
}

// Voters lists who voted for what. Restricted to the topic author,
// moderators and admins.
func (s *PollService) Voters(ctx context.Context, actor *types.User, pollID int64) ([]*types.PollVote, error) {
	poll, err := s.model.GetPollByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	topic, err := s.topicModel.GetTopicByID(ctx, poll.TopicID)
	if err != nil {
		return nil, err
	}
	if topic.AuthorID != actor.ID && !actor.Role.AtLeast(enum.UserRoleModerator) {
		return nil, types.ErrNotModerator
	}

	votes, err := s.model.ListVoters(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list poll voters: %w", err)
	}
	return votes, nil
}
