package service

import (
	"context"

	"squadhub-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string, skillRating int32, positions []string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)                                                            // access, refresh
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, []domain.Organization, []domain.JoinRequest, error)
	UpdateProfile(ctx context.Context, userID int32, name string, skillRating int32, positions []string, deviceToken string) (*domain.User, error)
}

type OrganizationService interface {
	CreateOrganization(ctx context.Context, ownerID int32, org *domain.Organization) (*domain.Organization, error)
	GetOrganization(ctx context.Context, id int32) (*domain.Organization, error)
	ListMyOrganizations(ctx context.Context, userID int32, kind domain.OrgKind) ([]domain.Organization, error)
	// UpdateOrganization returns (nil, nil) when the actor is neither admin
	// nor captain, or the organization does not exist; callers surface that
	// as a neutral not-found-or-not-authorized outcome.
	UpdateOrganization(ctx context.Context, id, actorID int32, patch *domain.OrganizationPatch) (*domain.Organization, error)
	DeleteOrganization(ctx context.Context, id, actorID int32) (bool, error)
}

type MembershipService interface {
	RequestJoin(ctx context.Context, orgID, userID int32, role domain.JoinRole, note string) (bool, error)
	CancelJoin(ctx context.Context, orgID, userID int32) (bool, error)
	AcceptJoin(ctx context.Context, orgID, requesterID, actorID int32) (bool, error)
	RejectJoin(ctx context.Context, orgID, requesterID, actorID int32) (bool, error)
	Leave(ctx context.Context, orgID, userID int32) (bool, error)
	ListMembers(ctx context.Context, orgID int32) ([]domain.Member, error)
	ListJoinRequests(ctx context.Context, orgID, actorID int32) ([]domain.JoinRequest, error)
}

type SubscriptionService interface {
	// ChangeSubscription moves the user to a paid tier, re-applying the new
	// member ceiling to every organization the user administers. Returns
	// (nil, nil) when the user does not exist.
	ChangeSubscription(ctx context.Context, userID int32, newTier domain.Tier) (*domain.User, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendJoinDecision(ctx context.Context, email, name, orgName string, approved bool) error
	SendSubscriptionReceipt(ctx context.Context, email, name string, tier domain.Tier, costCents int32) error
}

type PushService interface {
	SendJoinDecision(ctx context.Context, deviceToken, orgName string, approved bool) error
}
