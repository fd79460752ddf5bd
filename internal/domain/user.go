package domain

type Tier string

const (
	TierFree       Tier = "FREE"
	TierSilver     Tier = "SILVER"
	TierGold       Tier = "GOLD"
	TierPremium    Tier = "PREMIUM"
	TierSuperAdmin Tier = "SUPER_ADMIN"
)

// Subscription is the per-user quota record. MaxOrgs bounds how many
// organizations the user may administer, MaxMembersPerOrg caps each of them.
type Subscription struct {
	MaxOrgs          int32  `json:"max_orgs"`
	MaxMembersPerOrg int32  `json:"max_members_per_org"`
	CostCents        int32  `json:"cost_cents"`
	PeriodStart      string `json:"period_start"`
	PeriodEnd        string `json:"period_end"`
	Active           bool   `json:"active"`
}

type User struct {
	ID           int32        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Name         string       `json:"name"`
	Tier         Tier         `json:"tier"`
	SkillRating  int32        `json:"skill_rating"`
	Positions    []string     `json:"positions"`
	DeviceToken  string       `json:"-"`
	Subscription Subscription `json:"subscription"`
	CreatedOn    string       `json:"created_on"`
	UpdatedOn    string       `json:"updated_on"`
}
