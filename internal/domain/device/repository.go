package device

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, device *Device) error
	Get(ctx context.Context, id string) (*Device, error)
	Update(ctx context.Context, device *Device) error
	Delete(ctx context.Context, id string) error
	ListByTeam(ctx context.Context, teamID string) ([]*Device, error)

	// CountByTeam returns the raw device count for the team. Always
	// recomputed from persisted state, never tracked incrementally.
	CountByTeam(ctx context.Context, teamID string) (int, error)
}
