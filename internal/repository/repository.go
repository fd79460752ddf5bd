package repository

import (
	"context"

	"squadhub-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// UpdateSubscription replaces the user's tier and quota record in one
	// statement.
	UpdateSubscription(ctx context.Context, userID int32, tier domain.Tier, sub domain.Subscription) error
	// ExpireSubscriptions deactivates every active subscription whose period
	// ended before asOf (yyyy-mm-dd). Returns the number of rows touched.
	ExpireSubscriptions(ctx context.Context, asOf string) (int64, error)
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id int32) (*domain.Organization, error)
	ListByAdmin(ctx context.Context, adminID int32) ([]domain.Organization, error)
	ListByMember(ctx context.Context, userID int32, kind domain.OrgKind) ([]domain.Organization, error)
	CountByAdmin(ctx context.Context, adminID int32) (int32, error)
	Update(ctx context.Context, org *domain.Organization) error
	Delete(ctx context.Context, id int32) error
	// ApplyMemberCeiling sets max_players and recomputes FULL/ACTIVE from the
	// live member count in a single statement.
	ApplyMemberCeiling(ctx context.Context, orgID, ceiling int32) error
	// RefreshCapacityStatus converges status with the member count: FULL when
	// at or over capacity, back to ACTIVE when a FULL org drops under it.
	RefreshCapacityStatus(ctx context.Context, orgID int32) error
	// RefreshAllCapacityStatuses runs the same convergence over every
	// organization. Returns the number of rows whose status changed.
	RefreshAllCapacityStatuses(ctx context.Context) (int64, error)
}

type MemberRepository interface {
	// Add inserts the member only while the organization is under capacity.
	// Returns false without error when the guard rejects the insert (org full
	// or the user already enrolled).
	Add(ctx context.Context, m *domain.Member) (bool, error)
	Get(ctx context.Context, orgID, userID int32) (*domain.Member, error)
	List(ctx context.Context, orgID int32) ([]domain.Member, error)
	Count(ctx context.Context, orgID int32) (int32, error)
	// Remove deletes the enrollment (captain flag goes with the row).
	// Returns false when the user was not a member.
	Remove(ctx context.Context, orgID, userID int32) (bool, error)
	RemoveAllForOrg(ctx context.Context, orgID int32) error
}

type JoinRequestRepository interface {
	// Add is a set-add: a duplicate (org, user) pair is a no-op returning
	// false, regardless of concurrent callers.
	Add(ctx context.Context, req *domain.JoinRequest) (bool, error)
	Get(ctx context.Context, orgID, userID int32) (*domain.JoinRequest, error)
	ListByOrg(ctx context.Context, orgID int32) ([]domain.JoinRequest, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.JoinRequest, error)
	Remove(ctx context.Context, orgID, userID int32) (bool, error)
	RemoveAllForOrg(ctx context.Context, orgID int32) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
