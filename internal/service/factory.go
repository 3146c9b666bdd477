package service

import (
	"github.com/nodehive/nodehive/internal/config"
	"github.com/nodehive/nodehive/internal/domain/billing"
	"github.com/nodehive/nodehive/internal/domain/device"
	"github.com/nodehive/nodehive/internal/domain/plan"
	"github.com/nodehive/nodehive/internal/domain/project"
	"github.com/nodehive/nodehive/internal/domain/subscription"
	"github.com/nodehive/nodehive/internal/domain/team"
	"github.com/nodehive/nodehive/internal/domain/user"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/postgres"
)

// NewServiceParams bundles the shared service dependencies for wiring
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	provider billing.Provider,
	teamRepo team.Repository,
	planRepo plan.Repository,
	deviceRepo device.Repository,
	projectRepo project.Repository,
	subRepo subscription.Repository,
	userRepo user.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:      logger,
		Config:      config,
		DB:          db,
		Provider:    provider,
		TeamRepo:    teamRepo,
		PlanRepo:    planRepo,
		DeviceRepo:  deviceRepo,
		ProjectRepo: projectRepo,
		SubRepo:     subRepo,
		UserRepo:    userRepo,
	}
}

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Provider is the external billing provider boundary
	Provider billing.Provider

	// Repositories
	TeamRepo    team.Repository
	PlanRepo    plan.Repository
	DeviceRepo  device.Repository
	ProjectRepo project.Repository
	SubRepo     subscription.Repository
	UserRepo    user.Repository
}
