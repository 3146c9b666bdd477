package stripe

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/nodehive/nodehive/internal/domain/billing"
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/types"
	"github.com/stripe/stripe-go/v82"
)

// provider implements billing.Provider against the Stripe API
type provider struct {
	client *Client
	logger *logger.Logger
}

// NewProvider creates the Stripe-backed billing provider
func NewProvider(client *Client, logger *logger.Logger) billing.Provider {
	return &provider{
		client: client,
		logger: logger,
	}
}

// RetrieveSubscriptionItems fetches the current line items of a remote
// subscription with the price's product expanded.
func (p *provider) RetrieveSubscriptionItems(ctx context.Context, subscriptionID string) ([]billing.LineItem, error) {
	stripeClient, err := p.client.GetStripeClient()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	params := &stripe.SubscriptionRetrieveParams{
		Expand: []*string{
			stripe.String("items.data.price.product"),
		},
	}

	var stripeSub *stripe.Subscription
	err = backoff.Retry(func() error {
		var retrieveErr error
		stripeSub, retrieveErr = stripeClient.V1Subscriptions.Retrieve(ctx, subscriptionID, params)
		if retrieveErr != nil && !isRetryable(retrieveErr) {
			return backoff.Permanent(retrieveErr)
		}
		return retrieveErr
	}, backoff.WithContext(newRetryBackoff(), ctx))
	if err != nil {
		p.logger.Errorw("failed to retrieve subscription from Stripe",
			"error", err,
			"subscription_id", subscriptionID,
		)
		return nil, ierr.WithError(err).
			WithHint("Could not fetch subscription information from the billing provider").
			WithReportableDetails(map[string]any{
				"subscription_id": subscriptionID,
			}).
			Mark(ierr.ErrProvider)
	}

	items := make([]billing.LineItem, 0, len(stripeSub.Items.Data))
	for _, item := range stripeSub.Items.Data {
		lineItem := billing.LineItem{
			ID:       item.ID,
			Quantity: item.Quantity,
		}
		if item.Price != nil && item.Price.Product != nil {
			lineItem.Product = item.Price.Product.ID
		}
		items = append(items, lineItem)
	}
	return items, nil
}

// UpdateSubscriptionItem sets an existing line item's quantity. Quantities
// are set to exactly the desired value, down to and including zero; items
// are never deleted so the identifier survives for re-activation.
func (p *provider) UpdateSubscriptionItem(ctx context.Context, itemID string, quantity int64, proration types.ProrationBehavior) error {
	stripeClient, err := p.client.GetStripeClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	params := &stripe.SubscriptionItemUpdateParams{
		Quantity:          stripe.Int64(quantity),
		ProrationBehavior: stripe.String(proration.String()),
	}

	err = backoff.Retry(func() error {
		_, updateErr := stripeClient.V1SubscriptionItems.Update(ctx, itemID, params)
		if updateErr != nil && !isRetryable(updateErr) {
			return backoff.Permanent(updateErr)
		}
		return updateErr
	}, backoff.WithContext(newRetryBackoff(), ctx))
	if err != nil {
		p.logger.Errorw("failed to update subscription item quantity",
			"error", err,
			"item_id", itemID,
			"quantity", quantity,
		)
		return ierr.WithError(err).
			WithHint("Could not update the billing quantity with the provider").
			WithReportableDetails(map[string]any{
				"item_id":  itemID,
				"quantity": quantity,
			}).
			Mark(ierr.ErrProvider)
	}

	p.logger.Infow("updated subscription item quantity",
		"item_id", itemID,
		"quantity", quantity,
		"proration_behavior", proration,
	)
	return nil
}

// AppendSubscriptionItem adds a new line item to the subscription. This is a
// whole-subscription update since the item does not exist yet.
func (p *provider) AppendSubscriptionItem(ctx context.Context, subscriptionID string, price string, quantity int64) error {
	stripeClient, err := p.client.GetStripeClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	params := &stripe.SubscriptionUpdateParams{
		Items: []*stripe.SubscriptionUpdateItemParams{
			{
				Price:    stripe.String(price),
				Quantity: stripe.Int64(quantity),
			},
		},
	}

	err = backoff.Retry(func() error {
		_, updateErr := stripeClient.V1Subscriptions.Update(ctx, subscriptionID, params)
		if updateErr != nil && !isRetryable(updateErr) {
			return backoff.Permanent(updateErr)
		}
		return updateErr
	}, backoff.WithContext(newRetryBackoff(), ctx))
	if err != nil {
		p.logger.Errorw("failed to append subscription item",
			"error", err,
			"subscription_id", subscriptionID,
			"price", price,
			"quantity", quantity,
		)
		return ierr.WithError(err).
			WithHint("Could not add the line item with the provider").
			WithReportableDetails(map[string]any{
				"subscription_id": subscriptionID,
				"price":           price,
				"quantity":        quantity,
			}).
			Mark(ierr.ErrProvider)
	}

	p.logger.Infow("appended subscription item",
		"subscription_id", subscriptionID,
		"price", price,
		"quantity", quantity,
	)
	return nil
}

// SetSubscriptionMetadata merges the given keys into the remote
// subscription's metadata.
func (p *provider) SetSubscriptionMetadata(ctx context.Context, subscriptionID string, metadata map[string]string) error {
	stripeClient, err := p.client.GetStripeClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	params := &stripe.SubscriptionUpdateParams{
		Metadata: metadata,
	}

	err = backoff.Retry(func() error {
		_, updateErr := stripeClient.V1Subscriptions.Update(ctx, subscriptionID, params)
		if updateErr != nil && !isRetryable(updateErr) {
			return backoff.Permanent(updateErr)
		}
		return updateErr
	}, backoff.WithContext(newRetryBackoff(), ctx))
	if err != nil {
		p.logger.Errorw("failed to update subscription metadata",
			"error", err,
			"subscription_id", subscriptionID,
		)
		return ierr.WithError(err).
			WithHint("Could not update subscription metadata with the provider").
			WithReportableDetails(map[string]any{
				"subscription_id": subscriptionID,
			}).
			Mark(ierr.ErrProvider)
	}
	return nil
}
