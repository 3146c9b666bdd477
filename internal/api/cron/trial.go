package cron

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/service"
)

// TrialHandler handles trial lifecycle cron jobs
type TrialHandler struct {
	trialService service.TrialService
	logger       *logger.Logger
}

func NewTrialHandler(trialService service.TrialService, logger *logger.Logger) *TrialHandler {
	return &TrialHandler{
		trialService: trialService,
		logger:       logger,
	}
}

// RunTrialHousekeeping processes every team whose trial window has elapsed
func (h *TrialHandler) RunTrialHousekeeping(c *gin.Context) {
	ctx := c.Request.Context()
	response, err := h.trialService.RunTrialHousekeeping(ctx)
	if err != nil {
		h.logger.Errorw("failed to run trial housekeeping",
			"error", err)

		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
