package service

import (
	"context"
	"testing"
	"time"

	"github.com/nodehive/nodehive/internal/config"
	"github.com/nodehive/nodehive/internal/domain/billing"
	"github.com/nodehive/nodehive/internal/domain/project"
	"github.com/nodehive/nodehive/internal/domain/subscription"
	"github.com/nodehive/nodehive/internal/domain/team"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/testutil"
	"github.com/nodehive/nodehive/internal/types"
	"github.com/stretchr/testify/suite"
)

type TrialServiceSuite struct {
	suite.Suite
	ctx            context.Context
	cfg            *config.Configuration
	trialService   TrialService
	billingService BillingService
	provider       *testutil.InMemoryBillingProvider
	teamRepo       *testutil.InMemoryTeamStore
	planRepo       *testutil.InMemoryPlanStore
	deviceRepo     *testutil.InMemoryDeviceStore
	projectRepo    *testutil.InMemoryProjectStore
	subRepo        *testutil.InMemorySubscriptionStore
	userRepo       *testutil.InMemoryUserStore
	teamSeq        int
}

func TestTrialService(t *testing.T) {
	suite.Run(t, new(TrialServiceSuite))
}

func (s *TrialServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.teamSeq = 0

	s.cfg = config.GetDefaultConfig()
	s.cfg.Billing.Stripe = config.StripeConfig{
		TeamProduct:   "defaultteamprod",
		TeamPrice:     "defaultteamprice",
		DeviceProduct: "defaultdeviceprod",
		DevicePrice:   "defaultdeviceprice",
	}
	s.cfg.Trial = config.TrialConfig{
		Enabled:      true,
		DurationDays: 5,
		ProjectType:  "standard",
	}

	s.provider = testutil.NewInMemoryBillingProvider()
	s.provider.PriceProducts["defaultdeviceprice"] = "defaultdeviceprod"
	s.teamRepo = testutil.NewInMemoryTeamStore()
	s.planRepo = testutil.NewInMemoryPlanStore()
	s.deviceRepo = testutil.NewInMemoryDeviceStore()
	s.projectRepo = testutil.NewInMemoryProjectStore()
	s.subRepo = testutil.NewInMemorySubscriptionStore()
	s.userRepo = testutil.NewInMemoryUserStore()

	params := ServiceParams{
		Logger:      logger.GetLogger(),
		Config:      s.cfg,
		DB:          testutil.NewMockPostgresClient(logger.GetLogger()),
		Provider:    s.provider,
		TeamRepo:    s.teamRepo,
		PlanRepo:    s.planRepo,
		DeviceRepo:  s.deviceRepo,
		ProjectRepo: s.projectRepo,
		SubRepo:     s.subRepo,
		UserRepo:    s.userRepo,
	}
	s.billingService = NewBillingService(params)
	s.trialService = NewTrialService(params, s.billingService)
}

// seedTrialTeam creates a team whose trial ended at the given offset from
// now, plus the requested number of trial projects
func (s *TrialServiceSuite) seedTrialTeam(name string, endsIn time.Duration, projects int) *team.Team {
	ends := time.Now().UTC().Add(endsIn)
	t := &team.Team{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		Name:        name,
		Slug:        name,
		TrialEndsAt: &ends,
		BaseModel:   types.GetDefaultBaseModel(s.ctx),
	}
	// Creation order drives housekeeping order
	s.teamSeq++
	t.CreatedAt = time.Now().UTC().Add(-time.Hour + time.Duration(s.teamSeq)*time.Minute)
	s.NoError(s.teamRepo.Create(s.ctx, t))

	for i := 0; i < projects; i++ {
		s.NoError(s.projectRepo.Create(s.ctx, &project.Project{
			ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROJECT),
			TeamID:       t.ID,
			Name:         "trial-project",
			Type:         "standard",
			State:        types.ProjectStateRunning,
			BillingState: types.BillingStateTrial,
			BaseModel:    types.GetDefaultBaseModel(s.ctx),
		}))
	}
	return t
}

func (s *TrialServiceSuite) seedSubscription(teamID string) *subscription.Subscription {
	sub, err := s.billingService.CreateSubscription(s.ctx, teamID, "cus_1234567890", "sub_"+teamID)
	s.NoError(err)
	return sub
}

func (s *TrialServiceSuite) teamProjects(teamID string) []*project.Project {
	projects, err := s.projectRepo.ListByTeam(s.ctx, teamID)
	s.NoError(err)
	return projects
}

func (s *TrialServiceSuite) TestHousekeepingDisabled() {
	s.cfg.Trial.Enabled = false
	s.seedTrialTeam("expired", -time.Hour, 1)

	resp, err := s.trialService.RunTrialHousekeeping(s.ctx)
	s.NoError(err)
	s.Empty(resp.Items)
	s.Zero(resp.TotalSuccess)
	s.Zero(resp.TotalFailed)
}

func (s *TrialServiceSuite) TestHousekeepingSuspendsUnbilledTeam() {
	t := s.seedTrialTeam("expired", -time.Hour, 2)
	future := s.seedTrialTeam("still-trialing", time.Hour, 1)

	resp, err := s.trialService.RunTrialHousekeeping(s.ctx)
	s.NoError(err)
	s.Equal(1, resp.TotalSuccess)
	s.Zero(resp.TotalFailed)
	s.Len(resp.Items, 1)
	s.Equal(t.ID, resp.Items[0].TeamID)
	s.Equal(2, resp.Items[0].Suspended)
	s.Zero(resp.Items[0].Migrated)

	for _, p := range s.teamProjects(t.ID) {
		s.Equal(types.ProjectStateSuspended, p.State)
		s.Equal(types.BillingStateNotBilled, p.BillingState)
	}

	stored, err := s.teamRepo.Get(s.ctx, t.ID)
	s.NoError(err)
	s.Nil(stored.TrialEndsAt)

	// The team still inside its trial window is untouched
	untouched, err := s.teamRepo.Get(s.ctx, future.ID)
	s.NoError(err)
	s.NotNil(untouched.TrialEndsAt)
	for _, p := range s.teamProjects(future.ID) {
		s.Equal(types.ProjectStateRunning, p.State)
		s.Equal(types.BillingStateTrial, p.BillingState)
	}
}

func (s *TrialServiceSuite) TestHousekeepingMigratesBilledTeam() {
	t := s.seedTrialTeam("upgraded", -time.Hour, 2)
	sub := s.seedSubscription(t.ID)
	s.NoError(s.teamRepo.AddMember(s.ctx, &team.Member{
		TeamID:    t.ID,
		UserID:    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		Role:      team.MemberRoleOwner,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}))
	s.provider.SetItems(sub.SubscriptionID,
		billing.LineItem{ID: "123", Quantity: 0, Product: "defaultteamprod"},
	)

	resp, err := s.trialService.RunTrialHousekeeping(s.ctx)
	s.NoError(err)
	s.Equal(1, resp.TotalSuccess)
	s.Equal(2, resp.Items[0].Migrated)
	s.Zero(resp.Items[0].Suspended)

	metadata := s.provider.Metadata(sub.SubscriptionID)
	for _, p := range s.teamProjects(t.ID) {
		s.Equal(types.ProjectStateRunning, p.State)
		s.Equal(types.BillingStateBilled, p.BillingState)
		s.Equal("true", metadata[p.ID])
		s.Equal(sub.SubscriptionID, p.Metadata["billing_subscription"])
	}

	// A single reconciliation pass set the plan item to the two migrated
	// projects
	s.Len(s.provider.UpdateCalls, 1)
	s.Equal(int64(2), s.provider.UpdateCalls[0].Quantity)

	stored, err := s.teamRepo.Get(s.ctx, t.ID)
	s.NoError(err)
	s.Nil(stored.TrialEndsAt)
}

func (s *TrialServiceSuite) TestHousekeepingMigrationIsRerunSafe() {
	t := s.seedTrialTeam("upgraded", -time.Hour, 1)
	sub := s.seedSubscription(t.ID)
	s.provider.SetItems(sub.SubscriptionID,
		billing.LineItem{ID: "123", Quantity: 0, Product: "defaultteamprod"},
	)

	first, err := s.trialService.RunTrialHousekeeping(s.ctx)
	s.NoError(err)
	s.Equal(1, first.TotalSuccess)

	// The marker is cleared, so the next run finds nothing to do
	second, err := s.trialService.RunTrialHousekeeping(s.ctx)
	s.NoError(err)
	s.Empty(second.Items)
	s.Equal(1, s.provider.MetadataCalls)
}

func (s *TrialServiceSuite) TestHousekeepingConvergesPartiallyMigratedTeam() {
	// An earlier run flipped the project to billed but failed before
	// reconciling, leaving the trial marker in place
	t := s.seedTrialTeam("partial", -time.Hour, 0)
	sub := s.seedSubscription(t.ID)
	s.provider.SetItems(sub.SubscriptionID,
		billing.LineItem{ID: "123", Quantity: 0, Product: "defaultteamprod"},
	)
	s.NoError(s.projectRepo.Create(s.ctx, &project.Project{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROJECT),
		TeamID:       t.ID,
		Name:         "trial-project",
		Type:         "standard",
		State:        types.ProjectStateRunning,
		BillingState: types.BillingStateBilled,
		BaseModel:    types.GetDefaultBaseModel(s.ctx),
	}))

	resp, err := s.trialService.RunTrialHousekeeping(s.ctx)
	s.NoError(err)
	s.Equal(1, resp.TotalSuccess)
	s.Zero(resp.Items[0].Migrated)

	// The rerun still converges the plan item to the billed project
	s.Len(s.provider.UpdateCalls, 1)
	s.Equal(int64(1), s.provider.UpdateCalls[0].Quantity)

	stored, err := s.teamRepo.Get(s.ctx, t.ID)
	s.NoError(err)
	s.Nil(stored.TrialEndsAt)
}

func (s *TrialServiceSuite) TestHousekeepingIsolatesFailingTeam() {
	// The first team references a plan that no longer exists, which makes
	// its post-migration reconciliation fail
	broken := s.seedTrialTeam("broken", -time.Hour, 1)
	broken.PlanID = "plan_gone"
	s.NoError(s.teamRepo.Update(s.ctx, broken))
	brokenSub := s.seedSubscription(broken.ID)
	s.provider.SetItems(brokenSub.SubscriptionID,
		billing.LineItem{ID: "123", Quantity: 0, Product: "defaultteamprod"},
	)

	healthy := s.seedTrialTeam("healthy", -time.Hour, 1)

	resp, err := s.trialService.RunTrialHousekeeping(s.ctx)
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(1, resp.TotalFailed)
	s.Equal(1, resp.TotalSuccess)

	s.Equal(broken.ID, resp.Items[0].TeamID)
	s.False(resp.Items[0].Success)
	s.NotEmpty(resp.Items[0].Error)

	s.Equal(healthy.ID, resp.Items[1].TeamID)
	s.True(resp.Items[1].Success)
	s.Equal(1, resp.Items[1].Suspended)

	// The failed team keeps its marker for the next run
	stored, err := s.teamRepo.Get(s.ctx, broken.ID)
	s.NoError(err)
	s.NotNil(stored.TrialEndsAt)

	cleared, err := s.teamRepo.Get(s.ctx, healthy.ID)
	s.NoError(err)
	s.Nil(cleared.TrialEndsAt)
}

func (s *TrialServiceSuite) TestHousekeepingBilledTeamWithoutTrialProjects() {
	t := s.seedTrialTeam("idle", -time.Hour, 0)
	s.seedSubscription(t.ID)

	resp, err := s.trialService.RunTrialHousekeeping(s.ctx)
	s.NoError(err)
	s.Equal(1, resp.TotalSuccess)
	s.Zero(resp.Items[0].Migrated)
	s.Zero(resp.Items[0].Suspended)
	s.Zero(s.provider.MetadataCalls)

	stored, err := s.teamRepo.Get(s.ctx, t.ID)
	s.NoError(err)
	s.Nil(stored.TrialEndsAt)
}
