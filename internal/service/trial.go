package service

import (
	"context"
	"time"

	"github.com/nodehive/nodehive/internal/api/dto"
	"github.com/nodehive/nodehive/internal/domain/team"
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/nodehive/nodehive/internal/types"
)

type TrialService interface {
	// RunTrialHousekeeping processes every team whose trial window has
	// elapsed: trial projects are suspended when the team never configured
	// billing, or migrated to billed status when it did. Failures are
	// isolated per team; a failed team keeps its trial marker and is
	// retried on the next scheduled run.
	RunTrialHousekeeping(ctx context.Context) (*dto.TrialHousekeepingResponse, error)
}

type trialService struct {
	ServiceParams
	billingService BillingService
}

func NewTrialService(params ServiceParams, billingService BillingService) TrialService {
	return &trialService{
		ServiceParams:  params,
		billingService: billingService,
	}
}

func (s *trialService) RunTrialHousekeeping(ctx context.Context) (*dto.TrialHousekeepingResponse, error) {
	now := time.Now().UTC()
	response := &dto.TrialHousekeepingResponse{
		Items:   make([]*dto.TrialHousekeepingResponseItem, 0),
		StartAt: now,
	}

	// Trial configuration is read from the live configuration on every run
	// so toggling trial mode takes effect without a restart
	if !s.Config.Trial.Enabled {
		s.Logger.Debugw("trial mode disabled, skipping housekeeping")
		return response, nil
	}

	teams, err := s.TeamRepo.ListTrialExpired(ctx, now)
	if err != nil {
		return response, err
	}

	s.Logger.Infow("starting trial housekeeping",
		"expired_teams", len(teams),
		"current_time", now,
	)

	for _, t := range teams {
		item := &dto.TrialHousekeepingResponseItem{
			TeamID: t.ID,
		}
		if err := s.processTeam(ctx, t, item); err != nil {
			// One misconfigured team must never block the rest; the team
			// keeps its trial marker and is retried on the next run
			s.Logger.Errorw("failed to process expired trial team",
				"team_id", t.ID,
				"error", err,
			)
			item.Error = err.Error()
			response.TotalFailed++
		} else {
			item.Success = true
			response.TotalSuccess++
		}
		response.Items = append(response.Items, item)
	}

	return response, nil
}

// processTeam resolves a single team's expired trial. Remote registration
// happens before any local write; the local mutations run in one
// transaction per team, with the trial marker cleared last, which makes the
// whole sequence safe to re-run.
func (s *trialService) processTeam(ctx context.Context, t *team.Team, item *dto.TrialHousekeepingResponseItem) error {
	sub, err := s.SubRepo.GetByTeam(ctx, t.ID)
	if err != nil && !ierr.IsNotFound(err) {
		return err
	}

	projects, err := s.ProjectRepo.ListByTeamAndBillingState(ctx, t.ID, types.BillingStateTrial)
	if err != nil {
		return err
	}

	if sub.IsActive() && len(projects) > 0 {
		projectIDs := make([]string, len(projects))
		for i, p := range projects {
			projectIDs[i] = p.ID
		}
		if err := s.billingService.RegisterProjects(ctx, sub, projectIDs...); err != nil {
			return err
		}
	}

	return s.DB.WithTx(ctx, func(ctx context.Context) error {
		if sub.IsActive() {
			// Billing was configured during the trial: migrate projects
			// onto the subscription
			for _, p := range projects {
				p.BillingState = types.BillingStateBilled
				if p.Metadata == nil {
					p.Metadata = types.Metadata{}
				}
				p.Metadata[metadataKeyBillingSubscription] = sub.SubscriptionID
				p.UpdatedAt = time.Now().UTC()
				if err := s.ProjectRepo.Update(ctx, p); err != nil {
					return err
				}
				item.Migrated++
			}

			// One reconciliation pass per team, even when this run found no
			// trial projects left; a retry after a partial earlier run still
			// has to converge the remote quantities
			if err := s.billingService.UpdateTeamDeviceCount(ctx, t); err != nil {
				return err
			}
			if err := s.billingService.UpdateTeamMemberCount(ctx, t); err != nil {
				return err
			}

			s.Logger.Infow("migrated trial projects to billing",
				"team_id", t.ID,
				"migrated", item.Migrated,
			)
		} else {
			// No billing configured: suspend every trial project
			for _, p := range projects {
				p.State = types.ProjectStateSuspended
				p.BillingState = types.BillingStateNotBilled
				p.UpdatedAt = time.Now().UTC()
				if err := s.ProjectRepo.Update(ctx, p); err != nil {
					return err
				}
				item.Suspended++
			}
			s.Logger.Infow("suspended trial projects",
				"team_id", t.ID,
				"suspended", item.Suspended,
			)
		}

		// Clearing the marker is the last step so a failure above leaves
		// the team eligible for the next run
		t.TrialEndsAt = nil
		t.UpdatedAt = time.Now().UTC()
		return s.TeamRepo.Update(ctx, t)
	})
}
