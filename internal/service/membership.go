package service

import (
	"context"
	"fmt"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/logger"
	"squadhub-backend/internal/repository"
)

type membershipService struct {
	orgRepo    repository.OrganizationRepository
	memberRepo repository.MemberRepository
	reqRepo    repository.JoinRequestRepository
	userRepo   repository.UserRepository
	noteRepo   repository.NotificationRepository
	emailSvc   EmailService
	pushSvc    PushService
}

func NewMembershipService(
	orgRepo repository.OrganizationRepository,
	memberRepo repository.MemberRepository,
	reqRepo repository.JoinRequestRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	pushSvc PushService,
) MembershipService {
	return &membershipService{
		orgRepo:    orgRepo,
		memberRepo: memberRepo,
		reqRepo:    reqRepo,
		userRepo:   userRepo,
		noteRepo:   noteRepo,
		emailSvc:   emailSvc,
		pushSvc:    pushSvc,
	}
}

func (s *membershipService) RequestJoin(ctx context.Context, orgID, userID int32, role domain.JoinRole, note string) (bool, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return false, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return false, fmt.Errorf("%w: organization %d", domain.ErrNotFound, orgID)
	}
	if org.Status == domain.OrgStatusFull {
		return false, fmt.Errorf("%w: organization is full", domain.ErrBadRequest)
	}

	member, err := s.memberRepo.Get(ctx, orgID, userID)
	if err != nil {
		return false, err
	}
	if member != nil {
		return false, nil
	}

	if role != domain.JoinRoleMember && role != domain.JoinRoleCaptain {
		return false, fmt.Errorf("%w: unknown requested role %q", domain.ErrBadRequest, role)
	}

	// Set-add: a duplicate request comes back false here even when two
	// requests race past the checks above.
	added, err := s.reqRepo.Add(ctx, &domain.JoinRequest{OrgID: orgID, UserID: userID, Role: role, Note: note})
	if err != nil {
		return false, fmt.Errorf("failed to record join request: %w", err)
	}
	if added {
		logger.Info("Join requested", "orgID", orgID, "userID", userID, "role", role)
	}
	return added, nil
}

func (s *membershipService) CancelJoin(ctx context.Context, orgID, userID int32) (bool, error) {
	removed, err := s.reqRepo.Remove(ctx, orgID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to cancel join request: %w", err)
	}
	return removed, nil
}

func (s *membershipService) AcceptJoin(ctx context.Context, orgID, requesterID, actorID int32) (bool, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return false, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return false, fmt.Errorf("%w: organization %d", domain.ErrNotFound, orgID)
	}

	role, err := resolveRole(ctx, s.memberRepo, org, actorID)
	if err != nil {
		return false, err
	}
	if !role.canManage() {
		return false, nil
	}

	req, err := s.reqRepo.Get(ctx, orgID, requesterID)
	if err != nil {
		return false, err
	}
	if req == nil {
		return false, nil
	}

	if org.Status == domain.OrgStatusFull || org.MemberCount >= org.MaxPlayers {
		return false, fmt.Errorf("%w: organization is full", domain.ErrBadRequest)
	}

	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return false, fmt.Errorf("failed to get requester: %w", err)
	}
	if requester == nil {
		return false, fmt.Errorf("%w: user %d", domain.ErrNotFound, requesterID)
	}

	if _, err := s.reqRepo.Remove(ctx, orgID, requesterID); err != nil {
		return false, fmt.Errorf("failed to remove join request: %w", err)
	}

	// Only the admin can grant captaincy; a captain accepting a CAPTAIN
	// request enrolls the user as a plain member.
	grantCaptain := req.Role == domain.JoinRoleCaptain && role.isAdmin

	added, err := s.memberRepo.Add(ctx, &domain.Member{
		OrgID:       orgID,
		UserID:      requesterID,
		IsCaptain:   grantCaptain,
		SkillRating: requester.SkillRating,
		Positions:   requester.Positions,
	})
	if err != nil {
		return false, fmt.Errorf("failed to add member: %w", err)
	}
	if !added {
		// The guarded insert lost a race for the last slot.
		return false, fmt.Errorf("%w: organization is full", domain.ErrBadRequest)
	}

	if err := s.orgRepo.RefreshCapacityStatus(ctx, orgID); err != nil {
		return false, fmt.Errorf("failed to refresh capacity status: %w", err)
	}

	s.notifyDecision(ctx, org, requester, true)
	logger.Info("Join request accepted", "orgID", orgID, "requesterID", requesterID, "actorID", actorID, "captain", grantCaptain)
	return true, nil
}

func (s *membershipService) RejectJoin(ctx context.Context, orgID, requesterID, actorID int32) (bool, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return false, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return false, fmt.Errorf("%w: organization %d", domain.ErrNotFound, orgID)
	}

	role, err := resolveRole(ctx, s.memberRepo, org, actorID)
	if err != nil {
		return false, err
	}
	if !role.canManage() {
		return false, nil
	}

	removed, err := s.reqRepo.Remove(ctx, orgID, requesterID)
	if err != nil {
		return false, fmt.Errorf("failed to remove join request: %w", err)
	}
	if !removed {
		return false, nil
	}

	if requester, err := s.userRepo.GetByID(ctx, requesterID); err == nil && requester != nil {
		s.notifyDecision(ctx, org, requester, false)
	}
	logger.Info("Join request rejected", "orgID", orgID, "requesterID", requesterID, "actorID", actorID)
	return true, nil
}

func (s *membershipService) Leave(ctx context.Context, orgID, userID int32) (bool, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return false, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return false, nil
	}
	if org.IsAdmin(userID) {
		return false, fmt.Errorf("%w: admin cannot leave; delete the organization instead", domain.ErrBadRequest)
	}

	removed, err := s.memberRepo.Remove(ctx, orgID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove member: %w", err)
	}
	if !removed {
		return false, nil
	}

	// A FULL organization reopens once the count drops under capacity.
	if err := s.orgRepo.RefreshCapacityStatus(ctx, orgID); err != nil {
		return false, fmt.Errorf("failed to refresh capacity status: %w", err)
	}

	logger.Info("Member left", "orgID", orgID, "userID", userID)
	return true, nil
}

func (s *membershipService) ListMembers(ctx context.Context, orgID int32) ([]domain.Member, error) {
	return s.memberRepo.List(ctx, orgID)
}

func (s *membershipService) ListJoinRequests(ctx context.Context, orgID, actorID int32) ([]domain.JoinRequest, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
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
	return s.reqRepo.ListByOrg(ctx, orgID)
}

// notifyDecision fans the accept/reject decision out to the in-app feed,
// email and push. All best-effort; delivery failures are logged and dropped.
func (s *membershipService) notifyDecision(ctx context.Context, org *domain.Organization, requester *domain.User, approved bool) {
	outcome := "rejected"
	title := "Join request rejected"
	if approved {
		outcome = "approved"
		title = "Join request approved"
	}

	note := &domain.Notification{
		UserID:  requester.ID,
		OrgID:   org.ID,
		Title:   title,
		Message: fmt.Sprintf("Your request to join %s was %s.", org.Name, outcome),
		Attributes: map[string]string{
			"org_id":  fmt.Sprintf("%d", org.ID),
			"kind":    string(org.Kind),
			"outcome": outcome,
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to store notification", "userID", requester.ID, "orgID", org.ID, "error", err)
	}

	if err := s.emailSvc.SendJoinDecision(ctx, requester.Email, requester.Name, org.Name, approved); err != nil {
		logger.Error("Failed to send decision email", "userID", requester.ID, "orgID", org.ID, "error", err)
	}
	if requester.DeviceToken != "" {
		if err := s.pushSvc.SendJoinDecision(ctx, requester.DeviceToken, org.Name, approved); err != nil {
			logger.Error("Failed to send decision push", "userID", requester.ID, "orgID", org.ID, "error", err)
		}
	}
}
