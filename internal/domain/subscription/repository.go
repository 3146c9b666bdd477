package subscription

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, subscription *Subscription) error
	Get(ctx context.Context, id string) (*Subscription, error)
	Update(ctx context.Context, subscription *Subscription) error

	// GetByTeam returns the team's subscription or ErrNotFound
	GetByTeam(ctx context.Context, teamID string) (*Subscription, error)

	// CountByTeams returns how many of the given teams hold (or have ever
	// held) a subscription record. Used for free-trial eligibility.
	CountByTeams(ctx context.Context, teamIDs []string) (int, error)
}
