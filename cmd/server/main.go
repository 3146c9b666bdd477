package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nodehive/nodehive/internal/api"
	"github.com/nodehive/nodehive/internal/api/cron"
	v1 "github.com/nodehive/nodehive/internal/api/v1"
	"github.com/nodehive/nodehive/internal/cache"
	"github.com/nodehive/nodehive/internal/config"
	"github.com/nodehive/nodehive/internal/integration/stripe"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/postgres"
	"github.com/nodehive/nodehive/internal/repository"
	"github.com/nodehive/nodehive/internal/service"
	"github.com/nodehive/nodehive/internal/types"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			postgres.NewDB,
			func(db *postgres.DB) postgres.IClient { return db },

			// Cache
			cache.NewInMemoryCache,

			// Billing provider
			stripe.NewClient,
			stripe.NewProvider,

			// Repositories
			repository.NewTeamRepository,
			repository.NewPlanRepository,
			repository.NewDeviceRepository,
			repository.NewProjectRepository,
			repository.NewSubscriptionRepository,
			repository.NewUserRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewBillingService,
			service.NewTrialService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	billingService service.BillingService,
	trialService service.TrialService,
) api.Handlers {
	return api.Handlers{
		Health:    v1.NewHealthHandler(logger),
		Billing:   v1.NewBillingHandler(billingService, logger),
		CronTrial: cron.NewTrialHandler(trialService, logger),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	trialService service.TrialService,
	shutdowner fx.Shutdowner,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeHousekeeper:
		runHousekeeper(lc, trialService, shutdowner, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

// runHousekeeper runs a single trial housekeeping pass and exits. Intended
// for scheduled job runners that invoke the binary on an interval.
func runHousekeeper(
	lc fx.Lifecycle,
	trialService service.TrialService,
	shutdowner fx.Shutdowner,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				response, err := trialService.RunTrialHousekeeping(context.Background())
				if err != nil {
					log.Errorw("trial housekeeping run failed", "error", err)
				} else {
					log.Infow("trial housekeeping run completed",
						"succeeded", response.TotalSuccess,
						"failed", response.TotalFailed,
					)
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
	})
}
