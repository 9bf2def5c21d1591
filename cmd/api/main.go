package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/complaint-desk/complaint-service/internal/api/http"
	"github.com/complaint-desk/complaint-service/internal/api/http/handlers"
	"github.com/complaint-desk/complaint-service/internal/auth"
	"github.com/complaint-desk/complaint-service/internal/config"
	"github.com/complaint-desk/complaint-service/internal/events"
	"github.com/complaint-desk/complaint-service/internal/observability"
	"github.com/complaint-desk/complaint-service/internal/persistence"
	"github.com/complaint-desk/complaint-service/internal/repository"
	"github.com/complaint-desk/complaint-service/internal/seed"
	"github.com/complaint-desk/complaint-service/internal/service"
	"github.com/complaint-desk/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var (
		accountRepo   repository.AccountRepository
		complaintRepo repository.ComplaintRepository
	)
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		accountRepo = repository.NewAccountRepository(pg.Pool)
		complaintRepo = repository.NewComplaintRepository(pg.Pool)
		metrics.ObservePool(pg.Pool)
	} else {
		store := repository.NewMemoryStore()
		accountRepo = store.Accounts()
		complaintRepo = store.Complaints()
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	natsConn, err := events.ConnectNATS(cfg.NATS.URL, cfg.App.Name, logger)
	if err != nil {
		logger.Fatal("failed to connect nats", zap.Error(err))
	}
	var forwarder events.Forwarder
	if natsConn != nil {
		forwarder = events.NewNATSForwarder(natsConn, cfg.NATS.SubjectPrefix)
	}

	dispatcher := events.NewInMemoryDispatcher(logger)

	accountService := service.NewAccountService(service.AccountDependencies{
		AccountRepo: accountRepo,
		BcryptCost:  cfg.Auth.BcryptCost,
		Logger:      logger,
	})
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(accountService, tokenManager)
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		AccountRepo:   accountRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})

	var dashboardCache service.DashboardCache
	if redis != nil && cfg.Analytics.CacheTTL() > 0 {
		dashboardCache = service.NewRedisDashboardCache(redis.Client, cfg.Analytics.CacheTTL())
	}
	analyticsService := service.NewAnalyticsService(service.AnalyticsDependencies{
		ComplaintRepo: complaintRepo,
		Cache:         dashboardCache,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		Forwarder:  forwarder,
		Recorder:   metrics,
		Logger:     logger,
		Config:     cfg.Notification,
	})
	worker.StartEventSubscribers(notificationService, analyticsService)

	if cfg.Seed.DemoAccounts {
		if _, err := seed.Apply(ctx, seed.DemoAccounts{Password: cfg.Seed.DemoPassword}, accountService, logger); err != nil {
			logger.Fatal("failed to seed demo accounts", zap.Error(err))
		}
	}

	var limiterStorage fiber.Storage
	dependencies := []handlers.Dependency{{Name: "postgres"}, {Name: "redis"}}
	if pg.Enabled() {
		dependencies[0].Check = pg
	}
	if redis != nil {
		dependencies[1].Check = redis
		limiterStorage = persistence.NewRedisStorage(redis.Client, cfg.App.Name+":ratelimit:")
	}

	app := httptransport.NewServer(logger, metrics, httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		HTTP:           cfg.HTTP,
		RequestTimeout: cfg.App.RequestTimeout(),
		LimiterStorage: limiterStorage,
		Routes: httptransport.RouteConfig{
			Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies...),
			Auth:           handlers.NewAuthHandler(authService),
			Complaints:     handlers.NewComplaintsHandler(complaintService, analyticsService),
			Users:          handlers.NewUsersHandler(accountService),
			AuthMiddleware: auth.NewAuthMiddleware(tokenManager, accountRepo),
			Metrics:        metrics,
		},
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(cfg.App.ShutdownTimeout()); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if natsConn != nil {
		if err := natsConn.Drain(); err != nil {
			logger.Warn("nats drain", zap.Error(err))
		}
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
