package testutil

import (
	"context"

	"github.com/nodehive/nodehive/internal/domain/plan"
	ierr "github.com/nodehive/nodehive/internal/errors"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.Plan]
}

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.Plan](),
	}
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.Plan) error {
	if p == nil {
		return ierr.NewError("plan cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("plan not found").
			WithHintf("Plan with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryPlanStore) GetByName(ctx context.Context, name string) (*plan.Plan, error) {
	plans, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, p *plan.Plan, _ interface{}) bool {
		return p.Name == name
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, ierr.NewError("plan not found").
			WithHintf("Plan with name %s was not found", name).
			Mark(ierr.ErrNotFound)
	}
	return plans[0], nil
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *plan.Plan) error {
	if p == nil {
		return ierr.NewError("plan cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, p.ID, p)
}

func (s *InMemoryPlanStore) List(ctx context.Context) ([]*plan.Plan, error) {
	return s.InMemoryStore.List(ctx, nil, nil, func(i, j *plan.Plan) bool {
		return i.Name < j.Name
	})
}
