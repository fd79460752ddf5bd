package service

import (
	"context"
	"fmt"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/logger"
	"squadhub-backend/internal/repository"
	"squadhub-backend/internal/subscription"
)

type organizationService struct {
	orgRepo    repository.OrganizationRepository
	memberRepo repository.MemberRepository
	reqRepo    repository.JoinRequestRepository
	userRepo   repository.UserRepository
}

func NewOrganizationService(
	orgRepo repository.OrganizationRepository,
	memberRepo repository.MemberRepository,
	reqRepo repository.JoinRequestRepository,
	userRepo repository.UserRepository,
) OrganizationService {
	return &organizationService{
		orgRepo:    orgRepo,
		memberRepo: memberRepo,
		reqRepo:    reqRepo,
		userRepo:   userRepo,
	}
}

func (s *organizationService) CreateOrganization(ctx context.Context, ownerID int32, org *domain.Organization) (*domain.Organization, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, ownerID)
	}

	if !subscription.CanAdminister(owner.Tier) {
		return nil, fmt.Errorf("%w: tier %s may not create organizations", domain.ErrForbidden, owner.Tier)
	}
	if subscription.IsPaid(owner.Tier) && !owner.Subscription.Active {
		return nil, fmt.Errorf("%w: subscription expired", domain.ErrForbidden)
	}

	plan := subscription.PlanFor(owner.Tier)
	owned, err := s.orgRepo.CountByAdmin(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count owned organizations: %w", err)
	}
	if owned >= plan.MaxOrgs {
		return nil, fmt.Errorf("%w: organization quota reached (%d of %d)", domain.ErrBadRequest, owned, plan.MaxOrgs)
	}

	org.AdminID = ownerID
	org.MaxPlayers = subscription.ClampMaxPlayers(owner.Tier, org.MaxPlayers)
	org.Status = domain.OrgStatusActive
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	// Second write: enroll the owner as the first member, profile snapshot
	// copied, counters zeroed. Not atomic with the create above.
	added, err := s.memberRepo.Add(ctx, &domain.Member{
		OrgID:       org.ID,
		UserID:      ownerID,
		SkillRating: owner.SkillRating,
		Positions:   owner.Positions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enroll owner: %w", err)
	}
	if !added {
		logger.Warn("Owner enrollment skipped", "orgID", org.ID, "ownerID", ownerID)
	}
	org.MemberCount = 1

	logger.Info("Organization created", "orgID", org.ID, "kind", org.Kind, "adminID", ownerID, "maxPlayers", org.MaxPlayers)
	return org, nil
}

func (s *organizationService) GetOrganization(ctx context.Context, id int32) (*domain.Organization, error) {
	return s.orgRepo.GetByID(ctx, id)
}

func (s *organizationService) ListMyOrganizations(ctx context.Context, userID int32, kind domain.OrgKind) ([]domain.Organization, error) {
	return s.orgRepo.ListByMember(ctx, userID, kind)
}

func (s *organizationService) UpdateOrganization(ctx context.Context, id, actorID int32, patch *domain.OrganizationPatch) (*domain.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return nil, nil
	}

	role, err := resolveRole(ctx, s.memberRepo, org, actorID)
	if err != nil {
		return nil, err
	}
	if !role.canManage() {
		return nil, nil
	}

	// Captains may edit descriptive fields only; capacity and status stay
	// admin-owned and are dropped from the patch without complaint.
	if !role.isAdmin {
		patch.MaxPlayers = nil
		patch.Status = nil
	}

	if patch.Name != nil {
		org.Name = *patch.Name
	}
	if patch.Description != nil {
		org.Description = *patch.Description
	}
	if patch.Sport != nil {
		org.Sport = *patch.Sport
	}
	if patch.City != nil {
		org.City = *patch.City
	}
	if patch.MaxPlayers != nil {
		if *patch.MaxPlayers <= 0 {
			return nil, fmt.Errorf("%w: max_players must be positive", domain.ErrBadRequest)
		}
		admin, err := s.userRepo.GetByID(ctx, org.AdminID)
		if err != nil {
			return nil, fmt.Errorf("failed to get admin: %w", err)
		}
		if admin == nil {
			return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, org.AdminID)
		}
		org.MaxPlayers = subscription.ClampMaxPlayers(admin.Tier, *patch.MaxPlayers)
	}
	if patch.Status != nil {
		org.Status = *patch.Status
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	if patch.MaxPlayers != nil {
		if err := s.orgRepo.RefreshCapacityStatus(ctx, org.ID); err != nil {
			return nil, fmt.Errorf("failed to refresh capacity status: %w", err)
		}
		return s.orgRepo.GetByID(ctx, org.ID)
	}
	return org, nil
}

func (s *organizationService) DeleteOrganization(ctx context.Context, id, actorID int32) (bool, error) {
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return false, nil
	}
	if !org.IsAdmin(actorID) {
		return false, nil
	}

	// Back-references go first so a crash mid-sequence leaves users pointing
	// at a still-existing organization, never at a deleted one.
	if err := s.reqRepo.RemoveAllForOrg(ctx, id); err != nil {
		return false, fmt.Errorf("failed to remove pending requests: %w", err)
	}
	if err := s.memberRepo.RemoveAllForOrg(ctx, id); err != nil {
		return false, fmt.Errorf("failed to remove members: %w", err)
	}
	if err := s.orgRepo.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete organization: %w", err)
	}

	logger.Info("Organization deleted", "orgID", id, "adminID", actorID)
	return true, nil
}
