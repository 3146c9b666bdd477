package dto

import (
	"github.com/nodehive/nodehive/internal/validator"
)

// CreateSubscriptionSessionRequest asks for a checkout session that sets up
// billing for a team.
type CreateSubscriptionSessionRequest struct {
	// TeamID is the team billing is being configured for
	TeamID string `json:"team_id" binding:"required" validate:"required"`

	// PromoCode optionally applies a provider promotion code
	PromoCode string `json:"promo_code,omitempty"`

	// UserID is the acting user, used for free-trial eligibility
	UserID string `json:"user_id,omitempty"`
}

func (r *CreateSubscriptionSessionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// SubscriptionSessionResponse is the descriptor of a created checkout session
type SubscriptionSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
