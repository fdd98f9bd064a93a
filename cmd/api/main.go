package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"shopapi/docs"
	"shopapi/internal/config"
	"shopapi/internal/database"
	"shopapi/internal/database/migration"
	handlers "shopapi/internal/http/handler"
	"shopapi/internal/http/middleware"
	"shopapi/internal/logger"
	"shopapi/internal/otel"
	"shopapi/internal/repository/postgres"
	"shopapi/internal/seed"
	"shopapi/internal/service"
	"shopapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Shop API
// @version 1.0
// @description Members, items and orders served through several loading strategies.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.Default(cfg.Location())

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error().Err(err).Msg("tracing shutdown failed")
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
	}

	// Item images are optional; without storage the image endpoints answer 503.
	var objStore storage.Storage
	if cfg.MinIO.Enabled() {
		objStore, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize object storage")
		}
	} else {
		log.Warn().Str("component", "storage").Msg("object storage disabled, item images unavailable")
	}

	// Initialize repositories and services
	memberRepo := postgres.NewMemberPostgres(db)
	itemRepo := postgres.NewItemPostgres(db)
	orderRepo := postgres.NewOrderPostgres(db)
	orderQueryRepo := postgres.NewOrderQueryPostgres(db)

	svc := handlers.Services{
		Members:    service.NewMemberService(memberRepo),
		Items:      service.NewItemService(itemRepo, objStore, log),
		Orders:     service.NewOrderService(orderRepo, memberRepo, itemRepo, cfg.BatchFetchSize),
		OrderQuery: service.NewOrderQueryService(orderQueryRepo),
	}

	if cfg.SeedDemoData {
		if err := seed.Demo(ctx, log, memberRepo, svc.Members, svc.Items, svc.Orders); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	app := newApp(log, db, svc)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("server starting")
	if err := app.Listen(addr); err != nil {
		log.Error().Err(err).Msg("failed to start server")
	}
}

func newApp(log zerolog.Logger, db handlers.Pinger, svc handlers.Services) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(log))

	prom, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}
	app.Use(prom.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, svc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	return app
}
