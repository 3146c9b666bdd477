package stripe

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nodehive/nodehive/internal/config"
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/stripe/stripe-go/v82"
)

const (
	// callTimeout bounds every provider call so a hung request never holds
	// up a reconciliation pass
	callTimeout = 30 * time.Second

	// maxRetries is the number of retries for transient provider failures
	maxRetries = 2
)

// Client handles Stripe API client setup and configuration
type Client struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

// NewClient creates a new Stripe client
func NewClient(cfg *config.Configuration, logger *logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
	}
}

// GetStripeClient returns a configured Stripe API client
func (c *Client) GetStripeClient() (*stripe.Client, error) {
	key := c.cfg.Billing.Stripe.SecretKey
	if key == "" {
		return nil, ierr.NewError("stripe secret key not configured").
			WithHint("Billing is not configured for this platform").
			Mark(ierr.ErrConfiguration)
	}
	return stripe.NewClient(key, nil), nil
}

// newRetryBackoff returns the retry policy used around transient provider
// calls. Non-transient failures are wrapped in backoff.Permanent by callers.
func newRetryBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = callTimeout
	return backoff.WithMaxRetries(bo, maxRetries)
}

// isRetryable reports whether a Stripe error is worth retrying. Invalid
// request errors will fail identically on every attempt.
func isRetryable(err error) bool {
	var stripeErr *stripe.Error
	if ierr.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeInvalidRequest, stripe.ErrorTypeCard:
			return false
		}
	}
	return true
}
