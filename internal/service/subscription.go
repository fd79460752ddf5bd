package service

import (
	"context"
	"fmt"
	"time"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/logger"
	"squadhub-backend/internal/repository"
	"squadhub-backend/internal/subscription"
)

type subscriptionService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	noteRepo repository.NotificationRepository
	emailSvc EmailService
}

func NewSubscriptionService(
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) SubscriptionService {
	return &subscriptionService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		noteRepo: noteRepo,
		emailSvc: emailSvc,
	}
}

func (s *subscriptionService) ChangeSubscription(ctx context.Context, userID int32, newTier domain.Tier) (*domain.User, error) {
	if !subscription.IsPaid(newTier) {
		return nil, fmt.Errorf("%w: tier %s is not purchasable", domain.ErrBadRequest, newTier)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	// Same tier with a live period is a no-op; a lapsed subscription goes
	// through the full path so renewal reopens a fresh window.
	if user.Tier == newTier && user.Subscription.Active {
		return user, nil
	}

	plan := subscription.PlanFor(newTier)

	// Downgrade guard A: the user must not already administer more
	// organizations than the new tier allows.
	if plan.MaxOrgs < user.Subscription.MaxOrgs {
		owned, err := s.orgRepo.CountByAdmin(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count owned organizations: %w", err)
		}
		if owned > plan.MaxOrgs {
			return nil, fmt.Errorf("%w: %s allows %d organizations but you administer %d",
				domain.ErrBadRequest, newTier, plan.MaxOrgs, owned)
		}
	}

	owned, err := s.orgRepo.ListByAdmin(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned organizations: %w", err)
	}

	// Downgrade guard B: every administered organization must fit under the
	// new member ceiling before anything is mutated.
	if plan.MaxMembersPerOrg < user.Subscription.MaxMembersPerOrg {
		for i := range owned {
			if owned[i].MemberCount > plan.MaxMembersPerOrg {
				return nil, fmt.Errorf("%w: organization %q has %d members, above the %s ceiling of %d",
					domain.ErrBadRequest, owned[i].Name, owned[i].MemberCount, newTier, plan.MaxMembersPerOrg)
			}
		}
	}

	// Apply the new ceiling to every administered organization. Each update
	// recomputes FULL/ACTIVE from the live count in the same statement.
	for i := range owned {
		if err := s.orgRepo.ApplyMemberCeiling(ctx, owned[i].ID, plan.MaxMembersPerOrg); err != nil {
			return nil, fmt.Errorf("failed to apply member ceiling to organization %d: %w", owned[i].ID, err)
		}
	}

	now := time.Now()
	sub := domain.Subscription{
		MaxOrgs:          plan.MaxOrgs,
		MaxMembersPerOrg: plan.MaxMembersPerOrg,
		CostCents:        plan.CostCents,
		PeriodStart:      now.Format("2006-01-02"),
		PeriodEnd:        now.AddDate(0, 0, subscription.PeriodDays).Format("2006-01-02"),
		Active:           true,
	}
	if err := s.userRepo.UpdateSubscription(ctx, userID, newTier, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	updated, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}

	note := &domain.Notification{
		UserID:  userID,
		Title:   "Subscription updated",
		Message: fmt.Sprintf("Your subscription is now %s.", newTier),
		Attributes: map[string]string{
			"tier": string(newTier),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to store subscription notification", "userID", userID, "error", err)
	}
	if err := s.emailSvc.SendSubscriptionReceipt(ctx, updated.Email, updated.Name, newTier, plan.CostCents); err != nil {
		logger.Error("Failed to send subscription receipt", "userID", userID, "error", err)
	}

	logger.Info("Subscription changed", "userID", userID, "tier", newTier, "maxOrgs", plan.MaxOrgs, "maxMembersPerOrg", plan.MaxMembersPerOrg)
	return updated, nil
}
