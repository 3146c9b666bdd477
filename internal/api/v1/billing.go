package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nodehive/nodehive/internal/api/dto"
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/service"
)

type BillingHandler struct {
	service service.BillingService
	log     *logger.Logger
}

func NewBillingHandler(service service.BillingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{service: service, log: log}
}

// CreateSubscriptionSession creates a checkout session for a team and
// returns the redirect url
func (h *BillingHandler) CreateSubscriptionSession(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreateSubscriptionSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	response, err := h.service.CreateSubscriptionSession(ctx, req)
	if err != nil {
		h.log.Errorw("failed to create subscription session", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response)
}
