package repository

import (
	"github.com/nodehive/nodehive/internal/cache"
	"github.com/nodehive/nodehive/internal/domain/device"
	"github.com/nodehive/nodehive/internal/domain/plan"
	"github.com/nodehive/nodehive/internal/domain/project"
	"github.com/nodehive/nodehive/internal/domain/subscription"
	"github.com/nodehive/nodehive/internal/domain/team"
	"github.com/nodehive/nodehive/internal/domain/user"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/postgres"
	postgresRepo "github.com/nodehive/nodehive/internal/repository/postgres"
)

func NewTeamRepository(db *postgres.DB, logger *logger.Logger) team.Repository {
	return postgresRepo.NewTeamRepository(db, logger)
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger, cache cache.Cache) plan.Repository {
	return postgresRepo.NewPlanRepository(db, logger, cache)
}

func NewDeviceRepository(db *postgres.DB, logger *logger.Logger) device.Repository {
	return postgresRepo.NewDeviceRepository(db, logger)
}

func NewProjectRepository(db *postgres.DB, logger *logger.Logger) project.Repository {
	return postgresRepo.NewProjectRepository(db, logger)
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionRepository(db, logger)
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return postgresRepo.NewUserRepository(db, logger)
}
