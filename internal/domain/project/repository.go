package project

import (
	"context"

	"github.com/nodehive/nodehive/internal/types"
)

type Repository interface {
	Create(ctx context.Context, project *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
	ListByTeam(ctx context.Context, teamID string) ([]*Project, error)
	ListByTeamAndBillingState(ctx context.Context, teamID string, state types.BillingState) ([]*Project, error)
	CountByTeamAndBillingState(ctx context.Context, teamID string, state types.BillingState) (int, error)
}
