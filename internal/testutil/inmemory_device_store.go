package testutil

import (
	"context"

	"github.com/nodehive/nodehive/internal/domain/device"
	ierr "github.com/nodehive/nodehive/internal/errors"
)

// InMemoryDeviceStore implements device.Repository
type InMemoryDeviceStore struct {
	*InMemoryStore[*device.Device]
}

func NewInMemoryDeviceStore() *InMemoryDeviceStore {
	return &InMemoryDeviceStore{
		InMemoryStore: NewInMemoryStore[*device.Device](),
	}
}

func (s *InMemoryDeviceStore) Create(ctx context.Context, d *device.Device) error {
	if d == nil {
		return ierr.NewError("device cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, d.ID, d)
}

func (s *InMemoryDeviceStore) Get(ctx context.Context, id string) (*device.Device, error) {
	d, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("device not found").
			WithHintf("Device with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return d, nil
}

func (s *InMemoryDeviceStore) Update(ctx context.Context, d *device.Device) error {
	if d == nil {
		return ierr.NewError("device cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, d.ID, d)
}

func (s *InMemoryDeviceStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func (s *InMemoryDeviceStore) ListByTeam(ctx context.Context, teamID string) ([]*device.Device, error) {
	return s.InMemoryStore.List(ctx, nil, func(ctx context.Context, d *device.Device, _ interface{}) bool {
		return d.TeamID == teamID
	}, func(i, j *device.Device) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
}

func (s *InMemoryDeviceStore) CountByTeam(ctx context.Context, teamID string) (int, error) {
	return s.InMemoryStore.Count(ctx, nil, func(ctx context.Context, d *device.Device, _ interface{}) bool {
		return d.TeamID == teamID
	})
}
