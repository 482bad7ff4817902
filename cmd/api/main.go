package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/config"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/database"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/database/migration"
	handlers "github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/http/handler"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/http/middleware"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/logging"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/otel"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/repository/postgres"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/service"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger, err := logging.New(cfg.Log, cfg.ServiceName)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Tracing degrades to a noop provider when the collector is unreachable
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize repositories and the inspection service
	inspectionRepo := postgres.NewInspectionPostgres(db)
	zoneRepo := postgres.NewZonePostgres(db)
	elementRepo := postgres.NewElementPostgres(db)
	svc := service.NewInspectionService(inspectionRepo, zoneRepo, elementRepo, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, svc)

	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
