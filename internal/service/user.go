package service

import (
	"context"
	"fmt"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	reqRepo  repository.JoinRequestRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	reqRepo repository.JoinRequestRepository,
) UserService {
	return &userService{userRepo: userRepo, orgRepo: orgRepo, reqRepo: reqRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID int32) (*domain.User, []domain.Organization, []domain.JoinRequest, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}

	clubs, err := s.orgRepo.ListByMember(ctx, userID, domain.OrgKindClub)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	groups, err := s.orgRepo.ListByMember(ctx, userID, domain.OrgKindGroup)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list groups: %w", err)
	}

	pending, err := s.reqRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return user, append(clubs, groups...), pending, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int32, name string, skillRating int32, positions []string, deviceToken string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}

	if name != "" {
		user.Name = name
	}
	if skillRating > 0 {
		user.SkillRating = skillRating
	}
	if positions != nil {
		user.Positions = positions
	}
	if deviceToken != "" {
		user.DeviceToken = deviceToken
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
