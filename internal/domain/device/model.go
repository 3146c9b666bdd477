package device

import (
	"time"

	"github.com/nodehive/nodehive/internal/types"
)

// Device is an edge agent registered to exactly one team. Every device
// contributes one unit to the team's raw device count regardless of its
// connection state.
type Device struct {
	// ID is the unique identifier for the device
	ID string `db:"id" json:"id"`

	// TeamID is the owning team
	TeamID string `db:"team_id" json:"team_id"`

	// Name is the display name of the device
	Name string `db:"name" json:"name"`

	// Type is the hardware/agent type of the device
	Type string `db:"type" json:"type"`

	// LastSeenAt is the time the device last checked in, nil if never
	LastSeenAt *time.Time `db:"last_seen_at" json:"last_seen_at,omitempty"`

	types.BaseModel
}
