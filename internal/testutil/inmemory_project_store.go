package testutil

import (
	"context"

	"github.com/nodehive/nodehive/internal/domain/project"
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/nodehive/nodehive/internal/types"
)

// InMemoryProjectStore implements project.Repository
type InMemoryProjectStore struct {
	*InMemoryStore[*project.Project]
}

func NewInMemoryProjectStore() *InMemoryProjectStore {
	return &InMemoryProjectStore{
		InMemoryStore: NewInMemoryStore[*project.Project](),
	}
}

func (s *InMemoryProjectStore) Create(ctx context.Context, p *project.Project) error {
	if p == nil {
		return ierr.NewError("project cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryProjectStore) Get(ctx context.Context, id string) (*project.Project, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("project not found").
			WithHintf("Project with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryProjectStore) Update(ctx context.Context, p *project.Project) error {
	if p == nil {
		return ierr.NewError("project cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, p.ID, p)
}

func (s *InMemoryProjectStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func (s *InMemoryProjectStore) ListByTeam(ctx context.Context, teamID string) ([]*project.Project, error) {
	return s.InMemoryStore.List(ctx, nil, func(ctx context.Context, p *project.Project, _ interface{}) bool {
		return p.TeamID == teamID
	}, projectSortFn)
}

func (s *InMemoryProjectStore) ListByTeamAndBillingState(ctx context.Context, teamID string, state types.BillingState) ([]*project.Project, error) {
	return s.InMemoryStore.List(ctx, nil, func(ctx context.Context, p *project.Project, _ interface{}) bool {
		return p.TeamID == teamID && p.BillingState == state
	}, projectSortFn)
}

func (s *InMemoryProjectStore) CountByTeamAndBillingState(ctx context.Context, teamID string, state types.BillingState) (int, error) {
	projects, err := s.ListByTeamAndBillingState(ctx, teamID, state)
	if err != nil {
		return 0, err
	}
	return len(projects), nil
}

func projectSortFn(i, j *project.Project) bool {
	return i.CreatedAt.Before(j.CreatedAt)
}
