package types

import (
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/samber/lo"
)

// BillingState tracks how a project is accounted for against the owning
// team's subscription.
type BillingState string

const (
	// BillingStateTrial marks a project running inside the team's trial window.
	BillingStateTrial BillingState = "trial"
	// BillingStateBilled marks a project counted into the team's subscription.
	BillingStateBilled BillingState = "billed"
	// BillingStateNotBilled marks a project outside billing entirely.
	BillingStateNotBilled BillingState = "not_billed"
)

var BillingStateValues = []BillingState{
	BillingStateTrial,
	BillingStateBilled,
	BillingStateNotBilled,
}

func (b BillingState) String() string {
	return string(b)
}

func (b BillingState) Validate() error {
	if !lo.Contains(BillingStateValues, b) {
		return ierr.NewError("invalid billing state").
			WithHint("Billing state must be one of the allowed values").
			WithReportableDetails(map[string]any{
				"billing_state":  b,
				"allowed_values": BillingStateValues,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ProjectState is the operational state of a project's runtime.
type ProjectState string

const (
	ProjectStateRunning   ProjectState = "running"
	ProjectStateSuspended ProjectState = "suspended"
)

func (p ProjectState) String() string {
	return string(p)
}

// ProrationBehavior defines how the billing provider applies quantity changes.
type ProrationBehavior string

const (
	// ProrationBehaviorAlwaysInvoice invoices the difference immediately
	// rather than deferring it to the next billing cycle.
	ProrationBehaviorAlwaysInvoice ProrationBehavior = "always_invoice"
	// ProrationBehaviorCreateProrations creates credits/charges on the next invoice
	ProrationBehaviorCreateProrations ProrationBehavior = "create_prorations"
	// ProrationBehaviorNone applies the change without prorating
	ProrationBehaviorNone ProrationBehavior = "none"
)

func (p ProrationBehavior) String() string {
	return string(p)
}
