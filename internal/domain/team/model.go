package team

import (
	"time"

	"github.com/nodehive/nodehive/internal/types"
)

// Team represents a tenant on the platform. A team owns devices and
// projects, has members with roles and may own at most one billing
// subscription.
type Team struct {
	// ID is the unique identifier for the team
	ID string `db:"id" json:"id"`

	// Name is the display name of the team
	Name string `db:"name" json:"name"`

	// Slug is the url-safe identifier used to build front-end links
	Slug string `db:"slug" json:"slug"`

	// PlanID references the plan (team type) the team was created under
	PlanID string `db:"plan_id" json:"plan_id"`

	// TrialEndsAt is set only while the team is inside a trial window.
	// The trial housekeeper clears it once the team has been processed,
	// so a nil value means "not in trial" or "trial resolved".
	TrialEndsAt *time.Time `db:"trial_ends_at" json:"trial_ends_at,omitempty"`

	types.BaseModel
}

// InTrial reports whether the team's trial window is still open at now.
func (t *Team) InTrial(now time.Time) bool {
	return t.TrialEndsAt != nil && t.TrialEndsAt.After(now)
}

// TrialExpired reports whether the team has an elapsed, unresolved trial.
func (t *Team) TrialExpired(now time.Time) bool {
	return t.TrialEndsAt != nil && !t.TrialEndsAt.After(now)
}

// MemberRole is the role a user holds within a team
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
	MemberRoleViewer MemberRole = "viewer"
)

// Member is a user's membership of a team
type Member struct {
	TeamID string     `db:"team_id" json:"team_id"`
	UserID string     `db:"user_id" json:"user_id"`
	Role   MemberRole `db:"role" json:"role"`

	types.BaseModel
}
