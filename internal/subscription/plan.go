package subscription

import (
	"squadhub-backend/internal/domain"
)

// Plan is the quota bundle a tier grants.
type Plan struct {
	Tier             domain.Tier
	MaxOrgs          int32
	MaxMembersPerOrg int32
	CostCents        int32
}

// PeriodDays is the validity window applied on every tier change.
const PeriodDays = 30

// Super admins are bounded by a large sentinel rather than true infinity so
// every quota check stays a plain comparison.
const superAdminOrgLimit = 1_000_000

var plans = map[domain.Tier]Plan{
	domain.TierFree:       {Tier: domain.TierFree, MaxOrgs: 0, MaxMembersPerOrg: 0, CostCents: 0},
	domain.TierSilver:     {Tier: domain.TierSilver, MaxOrgs: 1, MaxMembersPerOrg: 15, CostCents: 999},
	domain.TierGold:       {Tier: domain.TierGold, MaxOrgs: 3, MaxMembersPerOrg: 30, CostCents: 1999},
	domain.TierPremium:    {Tier: domain.TierPremium, MaxOrgs: 10, MaxMembersPerOrg: 50, CostCents: 2999},
	domain.TierSuperAdmin: {Tier: domain.TierSuperAdmin, MaxOrgs: superAdminOrgLimit, MaxMembersPerOrg: 1000, CostCents: 0},
}

// PlanFor returns the quota plan for a tier. Unknown tiers get the free plan.
func PlanFor(t domain.Tier) Plan {
	if p, ok := plans[t]; ok {
		return p
	}
	return plans[domain.TierFree]
}

// IsPaid reports whether t is one of the three purchasable tiers.
func IsPaid(t domain.Tier) bool {
	switch t {
	case domain.TierSilver, domain.TierGold, domain.TierPremium:
		return true
	}
	return false
}

// CanAdminister reports whether t may create and administer organizations.
func CanAdminister(t domain.Tier) bool {
	return IsPaid(t) || t == domain.TierSuperAdmin
}

// ClampMaxPlayers bounds a requested member capacity to the tier ceiling.
// Zero or negative requests, and requests above the ceiling, get the ceiling.
func ClampMaxPlayers(t domain.Tier, requested int32) int32 {
	ceiling := PlanFor(t).MaxMembersPerOrg
	if requested <= 0 || requested > ceiling {
		return ceiling
	}
	return requested
}
