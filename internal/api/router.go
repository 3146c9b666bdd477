package api

import (
	"github.com/gin-gonic/gin"
	"github.com/nodehive/nodehive/internal/api/cron"
	v1 "github.com/nodehive/nodehive/internal/api/v1"
	"github.com/nodehive/nodehive/internal/rest/middleware"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Billing   *v1.BillingHandler
	CronTrial *cron.TrialHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	cronGroup := router.Group("/cron")
	registerCronRoutes(cronGroup, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	billing := router.Group("/billing")
	{
		billing.POST("/sessions", handlers.Billing.CreateSubscriptionSession)
	}
}

func registerCronRoutes(router *gin.RouterGroup, handlers Handlers) {
	trial := router.Group("/trial")
	{
		trial.POST("/housekeeping", handlers.CronTrial.RunTrialHousekeeping)
	}
}
