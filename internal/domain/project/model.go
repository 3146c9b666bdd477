package project

import (
	"github.com/nodehive/nodehive/internal/types"
)

// Project is a deployed workspace owned by exactly one team. It carries an
// operational state and a billing state which are mutated independently but
// kept consistent by the billing engine.
type Project struct {
	// ID is the unique identifier for the project
	ID string `db:"id" json:"id"`

	// TeamID is the owning team
	TeamID string `db:"team_id" json:"team_id"`

	// Name is the display name of the project
	Name string `db:"name" json:"name"`

	// Type is the project type, checked against the trial-permitted type
	Type string `db:"type" json:"type"`

	// State is the operational state of the project runtime
	State types.ProjectState `db:"state" json:"state"`

	// BillingState tracks how the project is accounted for against the
	// owning team's subscription
	BillingState types.BillingState `db:"billing_state" json:"billing_state"`

	// Metadata holds free-form key-value settings for the project
	Metadata types.Metadata `db:"metadata" json:"metadata,omitempty"`

	types.BaseModel
}
