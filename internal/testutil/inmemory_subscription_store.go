package testutil

import (
	"context"

	"github.com/nodehive/nodehive/internal/domain/subscription"
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/samber/lo"
)

// InMemorySubscriptionStore implements subscription.Repository
type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.Subscription]
}

func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore[*subscription.Subscription](),
	}
}

func (s *InMemorySubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	if sub == nil {
		return ierr.NewError("subscription cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, sub.ID, sub)
}

func (s *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	sub, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("subscription not found").
			WithHintf("Subscription with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return sub, nil
}

func (s *InMemorySubscriptionStore) Update(ctx context.Context, sub *subscription.Subscription) error {
	if sub == nil {
		return ierr.NewError("subscription cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, sub.ID, sub)
}

func (s *InMemorySubscriptionStore) GetByTeam(ctx context.Context, teamID string) (*subscription.Subscription, error) {
	subs, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, sub *subscription.Subscription, _ interface{}) bool {
		return sub.TeamID == teamID
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, ierr.NewError("subscription not found").
			WithHintf("Team %s has no subscription", teamID).
			Mark(ierr.ErrNotFound)
	}
	return subs[0], nil
}

func (s *InMemorySubscriptionStore) CountByTeams(ctx context.Context, teamIDs []string) (int, error) {
	return s.InMemoryStore.Count(ctx, nil, func(ctx context.Context, sub *subscription.Subscription, _ interface{}) bool {
		return lo.Contains(teamIDs, sub.TeamID)
	})
}
