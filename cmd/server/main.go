// Package main is the entry point of the screening server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"antifraud/internal/config"
	"antifraud/internal/handlers"
	"antifraud/internal/logging"
	"antifraud/internal/metrics"
	"antifraud/internal/repositories"
	"antifraud/internal/repositories/cache"
	"antifraud/internal/repositories/memory"
	"antifraud/internal/routes"
	"antifraud/internal/services/screening"
	"antifraud/internal/services/threshold"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
	poolStatsEvery  = time.Minute
)

type storage struct {
	history   repositories.TransactionRepository
	blocklist repositories.BlocklistRepository
	db        *gorm.DB
	redis     *redis.Client
}

func main() {
	config.LoadEnv()
	cfg := config.LoadServer()

	zl, err := logging.New(config.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.ServerConfig, zl *zap.Logger) error {
	collector := metrics.NewCollector()

	store, err := openStorage(cfg, collector, zl)
	if err != nil {
		return err
	}
	defer store.close(zl)

	done := make(chan struct{})
	defer close(done)
	if store.db != nil {
		go repositories.LogPoolStats(store.db, zl, poolStatsEvery, done)
	}

	limits := threshold.NewStore(threshold.Limits{
		MaxAllowed:          cfg.Screening.MaxAllowed,
		MaxManualProcessing: cfg.Screening.MaxManualProcessing,
	})
	screeningService := screening.NewService(
		store.history,
		store.blocklist,
		limits,
		screening.Config{
			CorrelationWindow: cfg.Screening.CorrelationWindow,
			OperationTimeout:  cfg.Screening.OperationTimeout,
		},
		collector,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: routes.ErrorHandler,
		ReadTimeout:  cfg.Screening.OperationTimeout * 2,
		WriteTimeout: cfg.Screening.OperationTimeout * 2,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,HEAD",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/antifraud/transaction", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("SCORE_RATE_LIMIT", 600),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Screening: handlers.NewScreeningHandler(screeningService, zl),
		Health:    handlers.NewHealthHandler(version, store.healthChecks()),
		Metrics:   collector.GetHandler(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening",
			zap.String("port", cfg.Port),
			zap.String("storage", cfg.StorageDriver),
			zap.Int64("max_allowed", cfg.Screening.MaxAllowed),
			zap.Int64("max_manual_processing", cfg.Screening.MaxManualProcessing),
		)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to listen: %w", err)
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func openStorage(cfg config.ServerConfig, collector *metrics.Collector, zl *zap.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		zl.Warn("using in-memory storage; data is lost on restart")
		return &storage{
			history:   memory.NewTransactionRepository(),
			blocklist: memory.NewBlocklist(
				config.SplitList(config.GetEnv("BLOCKLIST_IPS", "")),
				config.SplitList(config.GetEnv("BLOCKLIST_CARDS", "")),
			),
		}, nil

	case config.StoragePostgres:
		db, err := repositories.InitDB(cfg.Database, zl)
		if err != nil {
			return nil, err
		}
		s := &storage{
			history: repositories.NewTransactionRepository(db),
			db:      db,
		}

		var blocklist repositories.BlocklistRepository = repositories.NewBlocklistRepository(db)
		if cfg.Redis.Enabled {
			client := cache.NewRedisClient(&cache.RedisConfig{
				Host:     cfg.Redis.Host,
				Port:     cfg.Redis.Port,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := cache.HealthCheck(ctx, client)
			cancel()
			if err != nil {
				zl.Warn("redis unavailable at startup; lookups fall back to postgres", zap.Error(err))
			} else {
				zl.Info("connected to redis", zap.String("host", cfg.Redis.Host))
			}
			blocklist = cache.NewBlocklistCache(client, blocklist, cfg.Screening.BlocklistCacheTTL, zl).
				WithObserver(collector)
			s.redis = client
		}
		s.blocklist = blocklist
		return s, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func (s *storage) healthChecks() map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{}
	if s.db != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := s.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if s.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return cache.HealthCheck(ctx, s.redis)
		}
	}
	return checks
}

func (s *storage) close(zl *zap.Logger) {
	if err := repositories.Close(s.db); err != nil {
		zl.Warn("failed to close database connection", zap.Error(err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			zl.Warn("failed to close redis connection", zap.Error(err))
		}
	}
}
