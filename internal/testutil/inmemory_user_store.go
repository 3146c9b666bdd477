package testutil

import (
	"context"

	"github.com/nodehive/nodehive/internal/domain/user"
	ierr "github.com/nodehive/nodehive/internal/errors"
)

// InMemoryUserStore implements user.Repository
type InMemoryUserStore struct {
	*InMemoryStore[*user.User]
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		InMemoryStore: NewInMemoryStore[*user.User](),
	}
}

func (s *InMemoryUserStore) Create(ctx context.Context, u *user.User) error {
	if u == nil {
		return ierr.NewError("user cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, u.ID, u)
}

func (s *InMemoryUserStore) Get(ctx context.Context, id string) (*user.User, error) {
	u, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("user not found").
			WithHintf("User with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return u, nil
}

func (s *InMemoryUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	users, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, u *user.User, _ interface{}) bool {
		return u.Email == email
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ierr.NewError("user not found").
			WithHintf("User with email %s was not found", email).
			Mark(ierr.ErrNotFound)
	}
	return users[0], nil
}

func (s *InMemoryUserStore) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return ierr.NewError("user cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, u.ID, u)
}

func (s *InMemoryUserStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}
