package service

import (
	"context"
	"strconv"
	"time"

	"github.com/nodehive/nodehive/internal/api/dto"
	"github.com/nodehive/nodehive/internal/domain/billing"
	"github.com/nodehive/nodehive/internal/domain/plan"
	"github.com/nodehive/nodehive/internal/domain/project"
	"github.com/nodehive/nodehive/internal/domain/subscription"
	"github.com/nodehive/nodehive/internal/domain/team"
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/nodehive/nodehive/internal/types"
	"github.com/samber/lo"
)

// metadataTrue is the value recorded against a project id in subscription
// metadata once the project is registered for billing
const metadataTrue = "true"

// metadataKeyBillingSubscription records on the project which provider
// subscription it is billed under
const metadataKeyBillingSubscription = "billing_subscription"

type BillingService interface {
	// MemberCount returns the number of active memberships of the team
	MemberCount(ctx context.Context, t *team.Team) (int64, error)

	// BillableDeviceCount returns the team's device count in excess of the
	// plan's free allocation, floored at zero
	BillableDeviceCount(ctx context.Context, t *team.Team) (int64, error)

	// BilledProjectCount returns the number of the team's projects billed
	// against its subscription
	BilledProjectCount(ctx context.Context, t *team.Team) (int64, error)

	// UpdateTeamMemberCount reconciles the team plan line item with the
	// number of billed projects. Idempotent; no remote write when converged.
	UpdateTeamMemberCount(ctx context.Context, t *team.Team) error

	// UpdateTeamDeviceCount reconciles the remote device line item with the
	// current billable device count. Idempotent; creates the item on first
	// billable device, zeroes (never deletes) it when the count drops.
	UpdateTeamDeviceCount(ctx context.Context, t *team.Team) error

	// CreateSubscriptionSession builds a provider checkout session for the
	// team using the resolved member seat price
	CreateSubscriptionSession(ctx context.Context, req dto.CreateSubscriptionSessionRequest) (*dto.SubscriptionSessionResponse, error)

	// CreateSubscription records the provider identifiers for a team after
	// a completed checkout or during trial-to-billed migration
	CreateSubscription(ctx context.Context, teamID, customerID, subscriptionID string) (*subscription.Subscription, error)

	// SetupProjectBilling determines and persists a new project's billing
	// state from the owning team's trial eligibility
	SetupProjectBilling(ctx context.Context, t *team.Team, proj *project.Project) error

	// RegisterProjects records project ids in the subscription's metadata
	RegisterProjects(ctx context.Context, sub *subscription.Subscription, projectIDs ...string) error
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{
		ServiceParams: params,
	}
}

func (s *billingService) MemberCount(ctx context.Context, t *team.Team) (int64, error) {
	count, err := s.TeamRepo.CountActiveMembers(ctx, t.ID)
	if err != nil {
		return 0, err
	}
	return int64(count), nil
}

func (s *billingService) BillableDeviceCount(ctx context.Context, t *team.Team) (int64, error) {
	total, err := s.DeviceRepo.CountByTeam(ctx, t.ID)
	if err != nil {
		return 0, err
	}

	pl, err := s.getPlan(ctx, t)
	if err != nil {
		return 0, err
	}

	free := 0
	if pl != nil {
		free = pl.DeviceFreeAllocation
	}

	billable := total - free
	if billable < 0 {
		billable = 0
	}
	return int64(billable), nil
}

func (s *billingService) BilledProjectCount(ctx context.Context, t *team.Team) (int64, error) {
	count, err := s.ProjectRepo.CountByTeamAndBillingState(ctx, t.ID, types.BillingStateBilled)
	if err != nil {
		return 0, err
	}
	return int64(count), nil
}

func (s *billingService) UpdateTeamMemberCount(ctx context.Context, t *team.Team) error {
	sub, err := s.SubRepo.GetByTeam(ctx, t.ID)
	if err != nil {
		return err
	}

	// The team plan item is billed per project, not per member
	desired, err := s.BilledProjectCount(ctx, t)
	if err != nil {
		return err
	}

	pl, err := s.getPlan(ctx, t)
	if err != nil {
		return err
	}
	product, _, err := s.memberProductPrice(pl)
	if err != nil {
		return err
	}

	items, err := s.Provider.RetrieveSubscriptionItems(ctx, sub.SubscriptionID)
	if err != nil {
		return err
	}

	existing, found := lo.Find(items, func(item billing.LineItem) bool {
		return item.Product == product
	})
	if !found {
		s.Logger.Warnw("no member line item on subscription, skipping reconciliation",
			"team_id", t.ID,
			"subscription_id", sub.SubscriptionID,
			"product", product,
		)
		return nil
	}

	if existing.Quantity == desired {
		s.Logger.Debugw("member line item already converged",
			"team_id", t.ID,
			"quantity", desired,
		)
		return nil
	}

	return s.Provider.UpdateSubscriptionItem(ctx, existing.ID, desired, types.ProrationBehaviorAlwaysInvoice)
}

func (s *billingService) UpdateTeamDeviceCount(ctx context.Context, t *team.Team) error {
	sub, err := s.SubRepo.GetByTeam(ctx, t.ID)
	if err != nil {
		return err
	}

	desired, err := s.BillableDeviceCount(ctx, t)
	if err != nil {
		return err
	}

	pl, err := s.getPlan(ctx, t)
	if err != nil {
		return err
	}
	product, price, err := s.deviceProductPrice(pl)
	if err != nil {
		// A missing mapping only matters once the resource class is in use
		if desired == 0 {
			return nil
		}
		return err
	}

	items, err := s.Provider.RetrieveSubscriptionItems(ctx, sub.SubscriptionID)
	if err != nil {
		return err
	}

	existing, found := lo.Find(items, func(item billing.LineItem) bool {
		return item.Product == product
	})

	if !found {
		// Never create a zero-quantity item
		if desired == 0 {
			return nil
		}
		return s.Provider.AppendSubscriptionItem(ctx, sub.SubscriptionID, price, desired)
	}

	if existing.Quantity == desired {
		return nil
	}

	// The item is zeroed rather than deleted when the count drops to 0,
	// keeping the identifier stable for re-activation
	return s.Provider.UpdateSubscriptionItem(ctx, existing.ID, desired, types.ProrationBehaviorAlwaysInvoice)
}

func (s *billingService) CreateSubscriptionSession(ctx context.Context, req dto.CreateSubscriptionSessionRequest) (*dto.SubscriptionSessionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.TeamRepo.Get(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}

	pl, err := s.getPlan(ctx, t)
	if err != nil {
		return nil, err
	}
	_, price, err := s.memberProductPrice(pl)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"team": t.ID,
	}

	// The free-trial flag is attached only when the free-credit setting is
	// configured; eligibility is then recorded either way so the checkout
	// completion handler can act on it
	if s.Config.Billing.Stripe.NewCustomerFreeCredit > 0 && req.UserID != "" {
		eligible, err := s.userEligibleForFreeTrial(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		metadata["free_trial"] = strconv.FormatBool(eligible)
	}

	baseURL := s.Config.Server.BaseURL
	params := &billing.CheckoutSessionParams{
		ClientReferenceID:    t.ID,
		Price:                price,
		Quantity:             1,
		SuccessURL:           baseURL + "/team/" + t.Slug + "/overview?billing_session={CHECKOUT_SESSION_ID}",
		CancelURL:            baseURL + "/team/" + t.Slug + "/overview",
		SubscriptionMetadata: metadata,
		PromotionCode:        req.PromoCode,
	}

	// Reuse the provider customer when the team already has a subscription
	// record from an earlier checkout
	if sub, err := s.SubRepo.GetByTeam(ctx, t.ID); err == nil {
		params.CustomerID = sub.CustomerID
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	session, err := s.Provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created subscription checkout session",
		"team_id", t.ID,
		"session_id", session.ID,
	)

	return &dto.SubscriptionSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

func (s *billingService) CreateSubscription(ctx context.Context, teamID, customerID, subscriptionID string) (*subscription.Subscription, error) {
	sub := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		TeamID:             teamID,
		CustomerID:         customerID,
		SubscriptionID:     subscriptionID,
		SubscriptionStatus: subscription.SubscriptionStatusActive,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	if err := s.SubRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.Logger.Infow("created subscription record",
		"team_id", teamID,
		"subscription_id", subscriptionID,
	)
	return sub, nil
}

func (s *billingService) SetupProjectBilling(ctx context.Context, t *team.Team, proj *project.Project) error {
	trialCfg := s.Config.Trial
	now := time.Now().UTC()

	sub, err := s.SubRepo.GetByTeam(ctx, t.ID)
	if err != nil && !ierr.IsNotFound(err) {
		return err
	}

	// A lingering canceled subscription record does not disqualify the team
	// from trial state
	switch {
	case trialCfg.Enabled && trialCfg.ProjectType == proj.Type && !sub.IsActive() && t.InTrial(now):
		proj.BillingState = types.BillingStateTrial

	case sub.IsActive():
		proj.BillingState = types.BillingStateBilled

	default:
		proj.BillingState = types.BillingStateNotBilled
	}

	// Billed projects are registered and counted immediately. A provider
	// failure here is deferred-consistency: the project stays created and
	// billing converges on a later reconciliation pass.
	registered := false
	if proj.BillingState == types.BillingStateBilled {
		if err := s.RegisterProjects(ctx, sub, proj.ID); err != nil {
			s.Logger.Warnw("failed to register project with subscription, will converge later",
				"error", err,
				"team_id", t.ID,
				"project_id", proj.ID,
			)
		} else {
			registered = true
			if proj.Metadata == nil {
				proj.Metadata = types.Metadata{}
			}
			proj.Metadata[metadataKeyBillingSubscription] = sub.SubscriptionID
		}
	}

	if err := s.ProjectRepo.Update(ctx, proj); err != nil {
		return err
	}
	if !registered {
		return nil
	}

	if err := s.UpdateTeamMemberCount(ctx, t); err != nil {
		s.Logger.Warnw("failed to reconcile member count after project creation",
			"error", err,
			"team_id", t.ID,
		)
	}
	if err := s.UpdateTeamDeviceCount(ctx, t); err != nil {
		s.Logger.Warnw("failed to reconcile device count after project creation",
			"error", err,
			"team_id", t.ID,
		)
	}
	return nil
}

func (s *billingService) RegisterProjects(ctx context.Context, sub *subscription.Subscription, projectIDs ...string) error {
	if len(projectIDs) == 0 {
		return nil
	}
	metadata := make(map[string]string, len(projectIDs))
	for _, id := range projectIDs {
		metadata[id] = metadataTrue
	}
	return s.Provider.SetSubscriptionMetadata(ctx, sub.SubscriptionID, metadata)
}

// getPlan loads the team's plan, or nil when the team has none and platform
// defaults apply
func (s *billingService) getPlan(ctx context.Context, t *team.Team) (*plan.Plan, error) {
	if t.PlanID == "" {
		return nil, nil
	}
	return s.PlanRepo.Get(ctx, t.PlanID)
}

// memberProductPrice resolves the product/price pair for member seats,
// applying the plan override when present
func (s *billingService) memberProductPrice(pl *plan.Plan) (string, string, error) {
	product := s.Config.Billing.Stripe.TeamProduct
	price := s.Config.Billing.Stripe.TeamPrice
	if pl != nil && pl.MemberProduct != "" {
		product = pl.MemberProduct
		price = pl.MemberPrice
	}
	if product == "" || price == "" {
		return "", "", ierr.NewError("no member product/price configured").
			WithHint("Configure a default team product and price or a plan override").
			WithReportableDetails(map[string]any{
				"plan": planName(pl),
			}).
			Mark(ierr.ErrConfiguration)
	}
	return product, price, nil
}

// deviceProductPrice resolves the product/price pair for billable devices,
// applying the plan override when present
func (s *billingService) deviceProductPrice(pl *plan.Plan) (string, string, error) {
	product := s.Config.Billing.Stripe.DeviceProduct
	price := s.Config.Billing.Stripe.DevicePrice
	if pl != nil && pl.DeviceProduct != "" {
		product = pl.DeviceProduct
		price = pl.DevicePrice
	}
	if product == "" || price == "" {
		return "", "", ierr.NewError("no device product/price configured").
			WithHint("Configure a default device product and price or a plan override").
			WithReportableDetails(map[string]any{
				"plan": planName(pl),
			}).
			Mark(ierr.ErrConfiguration)
	}
	return product, price, nil
}

// userEligibleForFreeTrial reports whether the user has never belonged to a
// team holding a subscription
func (s *billingService) userEligibleForFreeTrial(ctx context.Context, userID string) (bool, error) {
	teams, err := s.TeamRepo.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(teams) == 0 {
		return true, nil
	}

	teamIDs := lo.Map(teams, func(t *team.Team, _ int) string {
		return t.ID
	})
	count, err := s.SubRepo.CountByTeams(ctx, teamIDs)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func planName(pl *plan.Plan) string {
	if pl == nil {
		return "default"
	}
	return pl.Name
}
