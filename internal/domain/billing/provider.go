package billing

import (
	"context"

	"github.com/nodehive/nodehive/internal/types"
)

// LineItem is a priced component of a remote subscription as reported by
// the billing provider. Mirrored only; internal counts remain the source
// of truth and the remote item is reconciled toward them.
type LineItem struct {
	// ID is the provider's identifier for the line item
	ID string `json:"id"`

	// Quantity is the current billed quantity
	Quantity int64 `json:"quantity"`

	// Product is the provider's product identifier the item bills for
	Product string `json:"product"`
}

// CheckoutSessionParams describes a checkout/subscription session to create.
type CheckoutSessionParams struct {
	// CustomerID reuses an existing provider customer when set
	CustomerID string

	// ClientReferenceID ties the session back to the team
	ClientReferenceID string

	// Price and Quantity form the single session line item
	Price    string
	Quantity int64

	SuccessURL string
	CancelURL  string

	// SubscriptionMetadata is attached to the subscription created by the
	// session
	SubscriptionMetadata map[string]string

	// PromotionCode applies a provider promotion code to the session
	PromotionCode string
}

// CheckoutSession is the descriptor of a created session
type CheckoutSession struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	CustomerID string `json:"customer_id,omitempty"`
}

// Provider is the thin boundary over the external billing provider. All
// calls are bounded by the context deadline; transient failures surface as
// ErrProvider and must leave no partial local state behind.
type Provider interface {
	// RetrieveSubscriptionItems returns the current line items of the
	// remote subscription.
	RetrieveSubscriptionItems(ctx context.Context, subscriptionID string) ([]LineItem, error)

	// UpdateSubscriptionItem sets an existing line item's quantity using
	// the given proration behavior.
	UpdateSubscriptionItem(ctx context.Context, itemID string, quantity int64, proration types.ProrationBehavior) error

	// AppendSubscriptionItem adds a new line item to the subscription as a
	// whole-subscription update. Used when no item for the price's product
	// exists yet.
	AppendSubscriptionItem(ctx context.Context, subscriptionID string, price string, quantity int64) error

	// SetSubscriptionMetadata merges the given keys into the remote
	// subscription's metadata.
	SetSubscriptionMetadata(ctx context.Context, subscriptionID string, metadata map[string]string) error

	// CreateCheckoutSession creates a provider checkout session in
	// subscription mode.
	CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CheckoutSession, error)
}
