package stripe

import (
	"context"

	"github.com/nodehive/nodehive/internal/domain/billing"
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/stripe/stripe-go/v82"
)

// CreateCheckoutSession creates a subscription-mode checkout session. When a
// customer identifier is supplied the session reuses it instead of creating
// a new provider customer.
func (p *provider) CreateCheckoutSession(ctx context.Context, sessionParams *billing.CheckoutSessionParams) (*billing.CheckoutSession, error) {
	stripeClient, err := p.client.GetStripeClient()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	params := &stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID: stripe.String(sessionParams.ClientReferenceID),
		SuccessURL:        stripe.String(sessionParams.SuccessURL),
		CancelURL:         stripe.String(sessionParams.CancelURL),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(sessionParams.Price),
				Quantity: stripe.Int64(sessionParams.Quantity),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionCreateSubscriptionDataParams{
			Metadata: sessionParams.SubscriptionMetadata,
		},
	}

	if sessionParams.CustomerID != "" {
		params.Customer = stripe.String(sessionParams.CustomerID)
		// Stripe requires customer_update when an existing customer is
		// attached to a session that collects billing details
		params.CustomerUpdate = &stripe.CheckoutSessionCreateCustomerUpdateParams{
			Name: stripe.String("auto"),
		}
	}

	if sessionParams.PromotionCode != "" {
		params.Discounts = []*stripe.CheckoutSessionCreateDiscountParams{
			{
				PromotionCode: stripe.String(sessionParams.PromotionCode),
			},
		}
	} else {
		params.AllowPromotionCodes = stripe.Bool(true)
	}

	session, err := stripeClient.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		p.logger.Errorw("failed to create Stripe checkout session",
			"error", err,
			"client_reference_id", sessionParams.ClientReferenceID,
		)
		return nil, ierr.WithError(err).
			WithHint("Unable to create a checkout session with the billing provider").
			WithReportableDetails(map[string]any{
				"client_reference_id": sessionParams.ClientReferenceID,
			}).
			Mark(ierr.ErrProvider)
	}

	result := &billing.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}
	if session.Customer != nil {
		result.CustomerID = session.Customer.ID
	}
	return result, nil
}
