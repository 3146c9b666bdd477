package service

import (
	"context"
	"testing"
	"time"

	"github.com/nodehive/nodehive/internal/api/dto"
	"github.com/nodehive/nodehive/internal/config"
	"github.com/nodehive/nodehive/internal/domain/billing"
	"github.com/nodehive/nodehive/internal/domain/device"
	"github.com/nodehive/nodehive/internal/domain/plan"
	"github.com/nodehive/nodehive/internal/domain/project"
	"github.com/nodehive/nodehive/internal/domain/subscription"
	"github.com/nodehive/nodehive/internal/domain/team"
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/testutil"
	"github.com/nodehive/nodehive/internal/types"
	"github.com/stretchr/testify/suite"
)

type BillingServiceSuite struct {
	suite.Suite
	ctx            context.Context
	cfg            *config.Configuration
	billingService BillingService
	provider       *testutil.InMemoryBillingProvider
	teamRepo       *testutil.InMemoryTeamStore
	planRepo       *testutil.InMemoryPlanStore
	deviceRepo     *testutil.InMemoryDeviceStore
	projectRepo    *testutil.InMemoryProjectStore
	subRepo        *testutil.InMemorySubscriptionStore
	userRepo       *testutil.InMemoryUserStore
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.ctx = context.Background()

	s.cfg = config.GetDefaultConfig()
	s.cfg.Billing.Stripe = config.StripeConfig{
		TeamProduct:   "defaultteamprod",
		TeamPrice:     "defaultteamprice",
		DeviceProduct: "defaultdeviceprod",
		DevicePrice:   "defaultdeviceprice",
	}

	s.provider = testutil.NewInMemoryBillingProvider()
	s.provider.PriceProducts["defaultdeviceprice"] = "defaultdeviceprod"
	s.teamRepo = testutil.NewInMemoryTeamStore()
	s.planRepo = testutil.NewInMemoryPlanStore()
	s.deviceRepo = testutil.NewInMemoryDeviceStore()
	s.projectRepo = testutil.NewInMemoryProjectStore()
	s.subRepo = testutil.NewInMemorySubscriptionStore()
	s.userRepo = testutil.NewInMemoryUserStore()

	s.billingService = NewBillingService(ServiceParams{
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
	})
}

// seedTeam creates a team with a subscription and the given number of
// active members
func (s *BillingServiceSuite) seedTeam(planID string, members int) (*team.Team, *subscription.Subscription) {
	t := &team.Team{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		Name:      "ATeam",
		Slug:      "ateam",
		PlanID:    planID,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.teamRepo.Create(s.ctx, t))

	sub, err := s.billingService.CreateSubscription(s.ctx, t.ID, "cus_1234567890", "sub_1234567890")
	s.NoError(err)

	for i := 0; i < members; i++ {
		s.NoError(s.teamRepo.AddMember(s.ctx, &team.Member{
			TeamID:    t.ID,
			UserID:    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
			Role:      team.MemberRoleMember,
			BaseModel: types.GetDefaultBaseModel(s.ctx),
		}))
	}
	return t, sub
}

func (s *BillingServiceSuite) addDevices(teamID string, count int) {
	for i := 0; i < count; i++ {
		s.NoError(s.deviceRepo.Create(s.ctx, &device.Device{
			ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DEVICE),
			TeamID:    teamID,
			Name:      "d1",
			Type:      "d1",
			BaseModel: types.GetDefaultBaseModel(s.ctx),
		}))
	}
}

func (s *BillingServiceSuite) addBilledProjects(teamID string, count int) {
	for i := 0; i < count; i++ {
		s.NoError(s.projectRepo.Create(s.ctx, &project.Project{
			ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROJECT),
			TeamID:       teamID,
			Name:         "billing-project",
			Type:         "standard",
			State:        types.ProjectStateRunning,
			BillingState: types.BillingStateBilled,
			BaseModel:    types.GetDefaultBaseModel(s.ctx),
		}))
	}
}

func (s *BillingServiceSuite) TestMemberCount() {
	t, _ := s.seedTeam("", 3)

	count, err := s.billingService.MemberCount(s.ctx, t)
	s.NoError(err)
	s.Equal(int64(3), count)
}

func (s *BillingServiceSuite) TestCreateSubscription() {
	t := &team.Team{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		Name:      "checkout-team",
		Slug:      "checkout-team",
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.teamRepo.Create(s.ctx, t))

	sub, err := s.billingService.CreateSubscription(s.ctx, t.ID, "cus_42", "sub_42")
	s.NoError(err)
	s.Equal(subscription.SubscriptionStatusActive, sub.SubscriptionStatus)

	stored, err := s.subRepo.GetByTeam(s.ctx, t.ID)
	s.NoError(err)
	s.Equal("cus_42", stored.CustomerID)
	s.Equal("sub_42", stored.SubscriptionID)
}

func (s *BillingServiceSuite) TestUpdateTeamMemberCountAlreadyConverged() {
	t, _ := s.seedTeam("", 1)
	s.addBilledProjects(t.ID, 1)
	s.provider.SetItems("sub_1234567890",
		billing.LineItem{ID: "123", Quantity: 1, Product: "defaultteamprod"},
		billing.LineItem{ID: "234", Quantity: 27, Product: "starterteamprod"},
	)

	s.NoError(s.billingService.UpdateTeamMemberCount(s.ctx, t))
	s.Empty(s.provider.UpdateCalls)
}

func (s *BillingServiceSuite) TestUpdateTeamMemberCountDiverged() {
	starter := &plan.Plan{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:          "starter",
		MemberProduct: "starterteamprod",
		MemberPrice:   "starterteamprice",
		BaseModel:     types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.planRepo.Create(s.ctx, starter))

	t, _ := s.seedTeam(starter.ID, 1)
	s.addBilledProjects(t.ID, 1)
	s.provider.SetItems("sub_1234567890",
		billing.LineItem{ID: "123", Quantity: 1, Product: "defaultteamprod"},
		billing.LineItem{ID: "234", Quantity: 27, Product: "starterteamprod"},
	)

	s.NoError(s.billingService.UpdateTeamMemberCount(s.ctx, t))
	s.Len(s.provider.UpdateCalls, 1)
	s.Equal("234", s.provider.UpdateCalls[0].ItemID)
	s.Equal(int64(1), s.provider.UpdateCalls[0].Quantity)
	s.Equal(types.ProrationBehaviorAlwaysInvoice, s.provider.UpdateCalls[0].Proration)
}

func (s *BillingServiceSuite) TestUpdateTeamMemberCountTracksBilledProjects() {
	// One member, two billed projects: the plan item follows the projects
	t, _ := s.seedTeam("", 1)
	s.addBilledProjects(t.ID, 2)
	s.provider.SetItems("sub_1234567890",
		billing.LineItem{ID: "123", Quantity: 1, Product: "defaultteamprod"},
	)

	s.NoError(s.billingService.UpdateTeamMemberCount(s.ctx, t))
	s.Len(s.provider.UpdateCalls, 1)
	s.Equal(int64(2), s.provider.UpdateCalls[0].Quantity)
}

func (s *BillingServiceSuite) TestUpdateTeamMemberCountIdempotent() {
	t, _ := s.seedTeam("", 1)
	s.addBilledProjects(t.ID, 2)
	s.provider.SetItems("sub_1234567890",
		billing.LineItem{ID: "123", Quantity: 1, Product: "defaultteamprod"},
	)

	// First pass converges the remote item, the second finds nothing to do
	s.NoError(s.billingService.UpdateTeamMemberCount(s.ctx, t))
	s.NoError(s.billingService.UpdateTeamMemberCount(s.ctx, t))
	s.Len(s.provider.UpdateCalls, 1)
	s.Equal(int64(2), s.provider.UpdateCalls[0].Quantity)
}

func (s *BillingServiceSuite) TestUpdateTeamDeviceCountNoItemZeroCount() {
	t, _ := s.seedTeam("", 1)

	s.NoError(s.billingService.UpdateTeamDeviceCount(s.ctx, t))
	s.Empty(s.provider.UpdateCalls)
	s.Empty(s.provider.AppendCalls)
}

func (s *BillingServiceSuite) TestUpdateTeamDeviceCountAppendsItem() {
	t, _ := s.seedTeam("", 1)
	s.addDevices(t.ID, 1)

	s.NoError(s.billingService.UpdateTeamDeviceCount(s.ctx, t))
	s.Empty(s.provider.UpdateCalls)
	s.Len(s.provider.AppendCalls, 1)
	s.Equal("sub_1234567890", s.provider.AppendCalls[0].SubscriptionID)
	s.Equal("defaultdeviceprice", s.provider.AppendCalls[0].Price)
	s.Equal(int64(1), s.provider.AppendCalls[0].Quantity)
}

func (s *BillingServiceSuite) TestUpdateTeamDeviceCountZeroesItem() {
	t, _ := s.seedTeam("", 1)
	s.provider.SetItems("sub_1234567890",
		billing.LineItem{ID: "123", Quantity: 27, Product: "defaultdeviceprod"},
	)

	// No devices: the item is zeroed, not deleted
	s.NoError(s.billingService.UpdateTeamDeviceCount(s.ctx, t))
	s.Len(s.provider.UpdateCalls, 1)
	s.Equal("123", s.provider.UpdateCalls[0].ItemID)
	s.Equal(int64(0), s.provider.UpdateCalls[0].Quantity)
	s.Equal(types.ProrationBehaviorAlwaysInvoice, s.provider.UpdateCalls[0].Proration)

	items := s.provider.Items("sub_1234567890")
	s.Len(items, 1)
	s.Equal(int64(0), items[0].Quantity)
}

func (s *BillingServiceSuite) TestUpdateTeamDeviceCountFreeAllocation() {
	allocated := &plan.Plan{
		ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:                 "starter",
		DeviceFreeAllocation: 2,
		BaseModel:            types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.planRepo.Create(s.ctx, allocated))

	t, _ := s.seedTeam(allocated.ID, 1)
	s.provider.SetItems("sub_1234567890",
		billing.LineItem{ID: "123", Quantity: 27, Product: "defaultdeviceprod"},
	)

	// One device, allocation two: remote 27 converges back to 0
	s.addDevices(t.ID, 1)
	s.NoError(s.billingService.UpdateTeamDeviceCount(s.ctx, t))
	s.Len(s.provider.UpdateCalls, 1)
	s.Equal(int64(0), s.provider.UpdateCalls[0].Quantity)

	// Second device still inside the allocation: no call
	s.addDevices(t.ID, 1)
	s.NoError(s.billingService.UpdateTeamDeviceCount(s.ctx, t))
	s.Len(s.provider.UpdateCalls, 1)

	// Third device exceeds the allocation: 3 devices, 2 free
	s.addDevices(t.ID, 1)
	s.NoError(s.billingService.UpdateTeamDeviceCount(s.ctx, t))
	s.Len(s.provider.UpdateCalls, 2)
	s.Equal(int64(1), s.provider.UpdateCalls[1].Quantity)
}

func (s *BillingServiceSuite) TestBillableDeviceCount() {
	testCases := []struct {
		name       string
		devices    int
		allocation int
		expected   int64
	}{
		{name: "no devices no allocation", devices: 0, allocation: 0, expected: 0},
		{name: "devices without allocation", devices: 3, allocation: 0, expected: 3},
		{name: "devices within allocation", devices: 2, allocation: 2, expected: 0},
		{name: "devices exceeding allocation", devices: 5, allocation: 2, expected: 3},
		{name: "allocation exceeding devices", devices: 1, allocation: 10, expected: 0},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			pl := &plan.Plan{
				ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
				Name:                 "sized",
				DeviceFreeAllocation: tc.allocation,
				BaseModel:            types.GetDefaultBaseModel(s.ctx),
			}
			s.NoError(s.planRepo.Create(s.ctx, pl))
			t, _ := s.seedTeam(pl.ID, 1)
			s.addDevices(t.ID, tc.devices)

			count, err := s.billingService.BillableDeviceCount(s.ctx, t)
			s.NoError(err)
			s.Equal(tc.expected, count)
		})
	}
}

func (s *BillingServiceSuite) TestDeviceCountMissingConfiguration() {
	s.cfg.Billing.Stripe.DeviceProduct = ""
	s.cfg.Billing.Stripe.DevicePrice = ""

	t, _ := s.seedTeam("", 1)

	// Not an error while the device class is unused
	s.NoError(s.billingService.UpdateTeamDeviceCount(s.ctx, t))

	// A billable device with no mapping is a configuration error
	s.addDevices(t.ID, 1)
	err := s.billingService.UpdateTeamDeviceCount(s.ctx, t)
	s.Error(err)
	s.True(ierr.IsConfiguration(err))
	s.Empty(s.provider.AppendCalls)
}

func (s *BillingServiceSuite) TestUpdateTeamMemberCountProviderFailure() {
	t, _ := s.seedTeam("", 2)
	s.provider.Err = ierr.NewError("provider unavailable").Mark(ierr.ErrProvider)

	err := s.billingService.UpdateTeamMemberCount(s.ctx, t)
	s.Error(err)
	s.True(ierr.IsProvider(err))
}

func (s *BillingServiceSuite) TestUpdateTeamMemberCountWithoutSubscription() {
	t := &team.Team{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		Name:      "unbilled",
		Slug:      "unbilled",
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.teamRepo.Create(s.ctx, t))

	err := s.billingService.UpdateTeamMemberCount(s.ctx, t)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *BillingServiceSuite) TestCreateSubscriptionSessionDefaultPrice() {
	t := &team.Team{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		Name:      "new-team",
		Slug:      "new-team",
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.teamRepo.Create(s.ctx, t))

	resp, err := s.billingService.CreateSubscriptionSession(s.ctx, dto.CreateSubscriptionSessionRequest{
		TeamID: t.ID,
	})
	s.NoError(err)
	s.NotNil(resp)
	s.NotEmpty(resp.SessionID)

	s.Len(s.provider.Sessions, 1)
	session := s.provider.Sessions[0]
	s.Equal("defaultteamprice", session.Price)
	s.Equal(int64(1), session.Quantity)
	s.Equal(t.ID, session.ClientReferenceID)
	s.Equal("http://localhost:3000/team/new-team/overview?billing_session={CHECKOUT_SESSION_ID}", session.SuccessURL)
	s.Equal("http://localhost:3000/team/new-team/overview", session.CancelURL)
	s.Equal(t.ID, session.SubscriptionMetadata["team"])
	s.NotContains(session.SubscriptionMetadata, "free_trial")
	s.Empty(session.CustomerID)
}

func (s *BillingServiceSuite) TestCreateSubscriptionSessionPlanOverride() {
	starter := &plan.Plan{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:          "starter",
		MemberProduct: "starterteamprod",
		MemberPrice:   "starterteamprice",
		BaseModel:     types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.planRepo.Create(s.ctx, starter))

	t := &team.Team{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		Name:      "new-team",
		Slug:      "new-team",
		PlanID:    starter.ID,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.teamRepo.Create(s.ctx, t))

	_, err := s.billingService.CreateSubscriptionSession(s.ctx, dto.CreateSubscriptionSessionRequest{
		TeamID: t.ID,
	})
	s.NoError(err)
	s.Len(s.provider.Sessions, 1)
	s.Equal("starterteamprice", s.provider.Sessions[0].Price)
}

func (s *BillingServiceSuite) TestCreateSubscriptionSessionExistingCustomer() {
	t, _ := s.seedTeam("", 1)

	_, err := s.billingService.CreateSubscriptionSession(s.ctx, dto.CreateSubscriptionSessionRequest{
		TeamID: t.ID,
	})
	s.NoError(err)
	s.Len(s.provider.Sessions, 1)
	s.Equal("cus_1234567890", s.provider.Sessions[0].CustomerID)
}

func (s *BillingServiceSuite) TestCreateSubscriptionSessionFreeTrialFlag() {
	s.cfg.Billing.Stripe.NewCustomerFreeCredit = 1000

	t := &team.Team{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		Name:      "new-team",
		Slug:      "new-team",
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.teamRepo.Create(s.ctx, t))

	fresh := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER)
	s.NoError(s.teamRepo.AddMember(s.ctx, &team.Member{
		TeamID:    t.ID,
		UserID:    fresh,
		Role:      team.MemberRoleOwner,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}))

	_, err := s.billingService.CreateSubscriptionSession(s.ctx, dto.CreateSubscriptionSessionRequest{
		TeamID: t.ID,
		UserID: fresh,
	})
	s.NoError(err)
	s.Equal("true", s.provider.Sessions[0].SubscriptionMetadata["free_trial"])
}

func (s *BillingServiceSuite) TestCreateSubscriptionSessionFreeTrialIneligible() {
	s.cfg.Billing.Stripe.NewCustomerFreeCredit = 1000

	// The user already belongs to a team with a subscription
	billed, _ := s.seedTeam("", 0)
	veteran := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER)
	s.NoError(s.teamRepo.AddMember(s.ctx, &team.Member{
		TeamID:    billed.ID,
		UserID:    veteran,
		Role:      team.MemberRoleOwner,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}))

	second := &team.Team{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		Name:      "second-team",
		Slug:      "second-team",
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.teamRepo.Create(s.ctx, second))
	s.NoError(s.teamRepo.AddMember(s.ctx, &team.Member{
		TeamID:    second.ID,
		UserID:    veteran,
		Role:      team.MemberRoleOwner,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}))

	_, err := s.billingService.CreateSubscriptionSession(s.ctx, dto.CreateSubscriptionSessionRequest{
		TeamID: second.ID,
		UserID: veteran,
	})
	s.NoError(err)
	s.Equal("false", s.provider.Sessions[0].SubscriptionMetadata["free_trial"])
}

func (s *BillingServiceSuite) TestCreateSubscriptionSessionPromoCode() {
	t := &team.Team{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		Name:      "new-team",
		Slug:      "new-team",
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.teamRepo.Create(s.ctx, t))

	_, err := s.billingService.CreateSubscriptionSession(s.ctx, dto.CreateSubscriptionSessionRequest{
		TeamID:    t.ID,
		PromoCode: "promo_123",
	})
	s.NoError(err)
	s.Equal("promo_123", s.provider.Sessions[0].PromotionCode)
}

func (s *BillingServiceSuite) TestSetupProjectBillingTrial() {
	s.cfg.Trial = config.TrialConfig{
		Enabled:      true,
		DurationDays: 5,
		ProjectType:  "standard",
	}

	ends := time.Now().UTC().Add(24 * time.Hour)
	t := &team.Team{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		Name:        "trial-team",
		Slug:        "trial-team",
		TrialEndsAt: &ends,
		BaseModel:   types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.teamRepo.Create(s.ctx, t))

	proj := &project.Project{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROJECT),
		TeamID:    t.ID,
		Name:      "billing-project",
		Type:      "standard",
		State:     types.ProjectStateRunning,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.projectRepo.Create(s.ctx, proj))

	s.NoError(s.billingService.SetupProjectBilling(s.ctx, t, proj))

	stored, err := s.projectRepo.Get(s.ctx, proj.ID)
	s.NoError(err)
	s.Equal(types.BillingStateTrial, stored.BillingState)
}

func (s *BillingServiceSuite) TestSetupProjectBillingBilled() {
	t, _ := s.seedTeam("", 1)
	s.provider.SetItems("sub_1234567890",
		billing.LineItem{ID: "123", Quantity: 0, Product: "defaultteamprod"},
	)

	proj := &project.Project{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROJECT),
		TeamID:    t.ID,
		Name:      "billing-project",
		Type:      "standard",
		State:     types.ProjectStateRunning,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.projectRepo.Create(s.ctx, proj))

	s.NoError(s.billingService.SetupProjectBilling(s.ctx, t, proj))

	stored, err := s.projectRepo.Get(s.ctx, proj.ID)
	s.NoError(err)
	s.Equal(types.BillingStateBilled, stored.BillingState)
	s.Equal("true", s.provider.Metadata("sub_1234567890")[proj.ID])
	s.Equal("sub_1234567890", stored.Metadata["billing_subscription"])

	// The plan item reconciled to the single billed project
	items := s.provider.Items("sub_1234567890")
	s.Equal(int64(1), items[0].Quantity)
}

func (s *BillingServiceSuite) TestSetupProjectBillingTrialWithCanceledSubscription() {
	s.cfg.Trial = config.TrialConfig{
		Enabled:      true,
		DurationDays: 5,
		ProjectType:  "standard",
	}

	ends := time.Now().UTC().Add(24 * time.Hour)
	t := &team.Team{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		Name:        "returning-team",
		Slug:        "returning-team",
		TrialEndsAt: &ends,
		BaseModel:   types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.teamRepo.Create(s.ctx, t))

	// A canceled subscription record left over from earlier billing does
	// not take the team out of its trial window
	s.NoError(s.subRepo.Create(s.ctx, &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		TeamID:             t.ID,
		CustomerID:         "cus_1234567890",
		SubscriptionID:     "sub_1234567890",
		SubscriptionStatus: subscription.SubscriptionStatusCanceled,
		BaseModel:          types.GetDefaultBaseModel(s.ctx),
	}))

	proj := &project.Project{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROJECT),
		TeamID:    t.ID,
		Name:      "billing-project",
		Type:      "standard",
		State:     types.ProjectStateRunning,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.projectRepo.Create(s.ctx, proj))

	s.NoError(s.billingService.SetupProjectBilling(s.ctx, t, proj))

	stored, err := s.projectRepo.Get(s.ctx, proj.ID)
	s.NoError(err)
	s.Equal(types.BillingStateTrial, stored.BillingState)
	s.Zero(s.provider.MetadataCalls)
}

func (s *BillingServiceSuite) TestSetupProjectBillingNotBilled() {
	t := &team.Team{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		Name:      "plain-team",
		Slug:      "plain-team",
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.teamRepo.Create(s.ctx, t))

	proj := &project.Project{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROJECT),
		TeamID:    t.ID,
		Name:      "plain-project",
		Type:      "standard",
		State:     types.ProjectStateRunning,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.projectRepo.Create(s.ctx, proj))

	s.NoError(s.billingService.SetupProjectBilling(s.ctx, t, proj))

	stored, err := s.projectRepo.Get(s.ctx, proj.ID)
	s.NoError(err)
	s.Equal(types.BillingStateNotBilled, stored.BillingState)
}
