package team

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, team *Team) error
	Get(ctx context.Context, id string) (*Team, error)
	Update(ctx context.Context, team *Team) error
	Delete(ctx context.Context, id string) error

	// ListTrialExpired returns teams whose trial window ended before the
	// given instant and has not yet been resolved by the housekeeper.
	ListTrialExpired(ctx context.Context, before time.Time) ([]*Team, error)

	// ListByUser returns the teams the given user is a member of
	ListByUser(ctx context.Context, userID string) ([]*Team, error)

	AddMember(ctx context.Context, member *Member) error
	RemoveMember(ctx context.Context, teamID, userID string) error

	// CountActiveMembers returns the number of active memberships of the
	// team. Always recomputed from persisted state.
	CountActiveMembers(ctx context.Context, teamID string) (int, error)
}
