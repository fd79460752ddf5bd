package service

import (
	"context"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/repository"
)

// HasTier reports whether the user's tier is in the explicit set. There is no
// implicit hierarchy: SUPER_ADMIN only matches when listed.
func HasTier(user *domain.User, tiers ...domain.Tier) bool {
	for _, t := range tiers {
		if user.Tier == t {
			return true
		}
	}
	return false
}

// actorRole resolves the actor's capability within an organization.
type actorRole struct {
	isAdmin   bool
	isCaptain bool
}

func (r actorRole) canManage() bool {
	return r.isAdmin || r.isCaptain
}

// resolveRole looks up the actor's standing in org. Captaincy requires a
// member row; adminship does not.
func resolveRole(ctx context.Context, members repository.MemberRepository, org *domain.Organization, actorID int32) (actorRole, error) {
	role := actorRole{isAdmin: org.IsAdmin(actorID)}
	m, err := members.Get(ctx, org.ID, actorID)
	if err != nil {
		return actorRole{}, err
	}
	if m != nil {
		role.isCaptain = m.IsCaptain
	}
	return role, nil
}
