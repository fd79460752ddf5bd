package domain

type JoinRole string

const (
	JoinRoleMember  JoinRole = "MEMBER"
	JoinRoleCaptain JoinRole = "CAPTAIN"
)

// JoinRequest is a user's pending intent to join an organization. At most one
// per (org, user); a current member never holds one.
type JoinRequest struct {
	OrgID     int32    `json:"org_id"`
	UserID    int32    `json:"user_id"`
	Role      JoinRole `json:"role"`
	Note      string   `json:"note"`
	CreatedOn string   `json:"created_on"`
}
