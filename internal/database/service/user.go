package service

import (
	"context"
	"fmt"

	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"go.uber.org/zap"
)

// UserProfile is the public view of a user with their standing.
type UserProfile struct {
	User       *types.User              `json:"user"`
	Reputation *types.ReputationSummary `json:"reputation"`
	Badges     []*types.UserBadge       `json:"badges"`
}

// UserService handles user profile business logic.
type UserService struct {
	model      *models.UserModel
	reputation *ReputationService
	badges     *BadgeService
	logger     *zap.Logger
}

// NewUser creates a new user service.
func NewUser(
	model *models.UserModel, reputation *ReputationService, badges *BadgeService,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		model:      model,
		reputation: reputation,
		badges:     badges,
		logger:     logger.Named("user_service"),
	}
}

// GetByID retrieves a user row.
func (s *UserService) GetByID(ctx context.Context, id int64) (*types.User, error) {
	return s.model.GetUserByID(ctx, id)
}

// GetProfile assembles a user's public profile: identity, reputation
// standing and earned badges.
func (s *UserService) GetProfile(ctx context.Context, username string) (*UserProfile, error) {
	user, err := s.model.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	summary, err := s.reputation.Summary(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reputation summary: %w", err)
	}

	badges, err := s.badges.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user badges: %w", err)
	}

	return &UserProfile{
		User:       user,
		Reputation: summary,
		Badges:     badges,
	}, nil
}
