package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/complaint-desk/complaint-service/internal/config"
	"github.com/complaint-desk/complaint-service/internal/observability"
)

// ServerConfig describes the fiber application to build.
type ServerConfig struct {
	AppName        string
	HTTP           config.HTTPConfig
	RequestTimeout time.Duration
	LimiterStorage fiber.Storage
	Routes         RouteConfig
}

// NewServer builds the fiber application with middlewares and routes attached.
func NewServer(logger *zap.Logger, metrics *observability.Metrics, cfg ServerConfig) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		BodyLimit:             cfg.HTTP.BodyLimitBytes,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger, metrics),
	})

	RegisterMiddlewares(app, logger, metrics, MiddlewareConfig{
		HTTP:           cfg.HTTP,
		RequestTimeout: cfg.RequestTimeout,
		LimiterStorage: cfg.LimiterStorage,
	})
	if cfg.Routes.Metrics == nil {
		cfg.Routes.Metrics = metrics
	}
	RegisterRoutes(app, cfg.Routes)
	return app
}
