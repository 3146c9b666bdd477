package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/nodehive/nodehive/internal/domain/team"
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/nodehive/nodehive/internal/types"
)

// InMemoryTeamStore implements team.Repository
type InMemoryTeamStore struct {
	*InMemoryStore[*team.Team]
	mu      sync.RWMutex
	members map[string][]*team.Member // map[teamID][]members
}

func NewInMemoryTeamStore() *InMemoryTeamStore {
	return &InMemoryTeamStore{
		InMemoryStore: NewInMemoryStore[*team.Team](),
		members:       make(map[string][]*team.Member),
	}
}

func (s *InMemoryTeamStore) Create(ctx context.Context, t *team.Team) error {
	if t == nil {
		return ierr.NewError("team cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, t.ID, t)
}

func (s *InMemoryTeamStore) Get(ctx context.Context, id string) (*team.Team, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("team not found").
			WithHintf("Team with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return t, nil
}

func (s *InMemoryTeamStore) Update(ctx context.Context, t *team.Team) error {
	if t == nil {
		return ierr.NewError("team cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, t.ID, t)
}

func (s *InMemoryTeamStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func (s *InMemoryTeamStore) ListTrialExpired(ctx context.Context, before time.Time) ([]*team.Team, error) {
	return s.InMemoryStore.List(ctx, nil, func(ctx context.Context, t *team.Team, _ interface{}) bool {
		return t.TrialEndsAt != nil && !t.TrialEndsAt.After(before)
	}, func(i, j *team.Team) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
}

func (s *InMemoryTeamStore) ListByUser(ctx context.Context, userID string) ([]*team.Team, error) {
	s.mu.RLock()
	teamIDs := make(map[string]bool)
	for teamID, members := range s.members {
		for _, m := range members {
			if m.UserID == userID && m.Status == types.StatusActive {
				teamIDs[teamID] = true
			}
		}
	}
	s.mu.RUnlock()

	return s.InMemoryStore.List(ctx, nil, func(ctx context.Context, t *team.Team, _ interface{}) bool {
		return teamIDs[t.ID]
	}, nil)
}

func (s *InMemoryTeamStore) AddMember(ctx context.Context, member *team.Member) error {
	if member == nil {
		return ierr.NewError("member cannot be nil").Mark(ierr.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[member.TeamID] = append(s.members[member.TeamID], member)
	return nil
}

func (s *InMemoryTeamStore) RemoveMember(ctx context.Context, teamID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := s.members[teamID]
	for i, m := range members {
		if m.UserID == userID {
			s.members[teamID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return ierr.NewError("membership not found").Mark(ierr.ErrNotFound)
}

func (s *InMemoryTeamStore) CountActiveMembers(ctx context.Context, teamID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, m := range s.members[teamID] {
		if m.Status == types.StatusActive {
			count++
		}
	}
	return count, nil
}
