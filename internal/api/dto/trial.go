package dto

import (
	"time"
)

// TrialHousekeepingResponse reports a single run of the trial lifecycle
// task. Each expired-trial team contributes one item; a failed team is
// reported and retried on the next run.
type TrialHousekeepingResponse struct {
	Items        []*TrialHousekeepingResponseItem `json:"items"`
	TotalSuccess int                              `json:"total_success"`
	TotalFailed  int                              `json:"total_failed"`
	StartAt      time.Time                        `json:"start_at"`
}

// TrialHousekeepingResponseItem is the outcome for one team
type TrialHousekeepingResponseItem struct {
	TeamID string `json:"team_id"`

	// Suspended is the number of trial projects suspended (no billing)
	Suspended int `json:"suspended"`

	// Migrated is the number of trial projects moved to billed status
	Migrated int `json:"migrated"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
