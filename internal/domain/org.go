package domain

type OrgKind string

const (
	OrgKindClub  OrgKind = "CLUB"
	OrgKindGroup OrgKind = "GROUP"
)

type OrgStatus string

const (
	OrgStatusActive   OrgStatus = "ACTIVE"
	OrgStatusInactive OrgStatus = "INACTIVE"
	OrgStatusFull     OrgStatus = "FULL"
)

type Organization struct {
	ID          int32     `json:"id"`
	Kind        OrgKind   `json:"kind"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Sport       string    `json:"sport"`
	City        string    `json:"city"`
	AdminID     int32     `json:"admin_id"`
	MaxPlayers  int32     `json:"max_players"`
	Status      OrgStatus `json:"status"`
	MemberCount int32     `json:"member_count"` // populated on load, not stored
	CreatedOn   string    `json:"created_on"`
	UpdatedOn   string    `json:"updated_on"`
}

// IsAdmin reports whether userID administers this organization.
func (o *Organization) IsAdmin(userID int32) bool {
	return o.AdminID == userID
}

// Member is a user's enrollment in one organization. Skill rating and
// positions are snapshots of the user's profile at join time; the match
// counters start at zero.
type Member struct {
	OrgID         int32    `json:"org_id"`
	UserID        int32    `json:"user_id"`
	IsCaptain     bool     `json:"is_captain"`
	SkillRating   int32    `json:"skill_rating"`
	Positions     []string `json:"positions"`
	MatchesPlayed int32    `json:"matches_played"`
	Wins          int32    `json:"wins"`
	JoinedOn      string   `json:"joined_on"`
}

// OrganizationPatch carries the mutable organization fields. Nil means
// "leave unchanged". Membership relations are never patchable through it.
type OrganizationPatch struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Sport       *string    `json:"sport"`
	City        *string    `json:"city"`
	MaxPlayers  *int32     `json:"max_players"`
	Status      *OrgStatus `json:"status"`
}
