package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bankingapi/configs"
	"bankingapi/internal/handlers"
	"bankingapi/internal/repositories"
	"bankingapi/internal/services"
	"bankingapi/pkg"
	"bankingapi/pkg/cache"
	"bankingapi/pkg/database"
	middleware "bankingapi/pkg/middlewares"
)

// NewApp wires dependencies, builds the Gin engine, and returns an *http.Server and a cleanup func.
// It reads configuration from environment variables via configs.Load.
func NewApp(ctx context.Context, logger *zap.Logger) (*http.Server, func(), error) {
	// Load config
	cfg, err := configs.Load(logger)
	if err != nil {
		return nil, nil, err
	}

	// Initialize postgres db
	dbConfig := database.Config{
		PrimaryDSN:  cfg.PrimaryDbAddr,
		ReplicaDSNs: []string{cfg.ReplicaDbAddr},
		MaxConns:    cfg.MaxDbCons,
		MinConns:    cfg.MinDbCons,
	}
	db, disconnect, err := database.New(ctx, logger, dbConfig)
	if err != nil {
		return nil, nil, err
	}

	// Run migrations on primary
	if err = database.RunMigrations(ctx, logger, db); err != nil {
		disconnect()
		return nil, nil, err
	}

	// Optional redis-backed rate limiter for the transaction routes
	var limiter *pkg.DistributedLimiter
	closeRedis := func() {}
	if cfg.RedisAddr != "" {
		redisClient, closer, err := cache.New(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			disconnect()
			return nil, nil, err
		}
		closeRedis = closer
		limiter = pkg.NewDistributedLimiter(redisClient, "global:txn_rate", cfg.RateLimit, cfg.RateBurst, time.Minute, logger)
	}

	// Post-commit transaction event publisher (noop when no brokers configured)
	publisher, err := services.NewKafkaEventPublisher(logger, ctx, cfg)
	if err != nil {
		closeRedis()
		disconnect()
		return nil, nil, err
	}

	// Setup dependencies
	accountRepo := repositories.NewAccountRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	transferService := services.NewTransferService(logger, db, accountRepo, transactionRepo, publisher)

	baseHandler := handlers.NewBaseHandler(logger)
	accountHandler := handlers.NewAccountHandler(logger, transferService)
	transactionHandler := handlers.NewTransactionHandler(logger, transferService)

	// Router. The account and transaction routes are mounted at the root,
	// unprefixed, because the dashboard UI hard-codes those paths.
	r := gin.Default()

	api := r.Group("")
	api.Use(middleware.TraceID())
	api.Use(middleware.Metrics())
	api.Use(middleware.RateLimit(limiter))

	accountHandler.RegisterRoutes(api)
	transactionHandler.RegisterRoutes(api)
	baseHandler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	cleanup := func() {
		publisher.Close()
		closeRedis()
		disconnect()
	}

	return srv, cleanup, nil
}
