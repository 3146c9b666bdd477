package subscription

import (
	"github.com/nodehive/nodehive/internal/types"
)

// SubscriptionStatus is the lifecycle status of a team's subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// Subscription links a team to its billing provider records. Exactly one
// subscription exists per billed team; it is created lazily on the first
// successful checkout or during trial-to-billed migration. The remote
// subscription's line items are mirrored, never the source of truth.
type Subscription struct {
	// ID is the unique identifier for the subscription record
	ID string `db:"id" json:"id"`

	// TeamID is the owning team (1:1)
	TeamID string `db:"team_id" json:"team_id"`

	// CustomerID is the billing provider's customer identifier
	CustomerID string `db:"customer_id" json:"customer_id"`

	// SubscriptionID is the billing provider's subscription identifier
	SubscriptionID string `db:"subscription_id" json:"subscription_id"`

	// SubscriptionStatus is the lifecycle status of the subscription
	SubscriptionStatus SubscriptionStatus `db:"subscription_status" json:"subscription_status"`

	types.BaseModel
}

// IsActive reports whether the subscription can be billed against
func (s *Subscription) IsActive() bool {
	return s != nil && s.SubscriptionStatus == SubscriptionStatusActive
}
