package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rafaelleal24/catalog/internal/adapters/auth"
	"github.com/rafaelleal24/catalog/internal/adapters/config"
	"github.com/rafaelleal24/catalog/internal/adapters/http"
	"github.com/rafaelleal24/catalog/internal/adapters/http/controllers"
	"github.com/rafaelleal24/catalog/internal/adapters/mongo"
	"github.com/rafaelleal24/catalog/internal/adapters/mongo/repository"
	"github.com/rafaelleal24/catalog/internal/adapters/outbox"
	"github.com/rafaelleal24/catalog/internal/adapters/rabbitmq"
	"github.com/rafaelleal24/catalog/internal/adapters/redis"
	"github.com/rafaelleal24/catalog/internal/adapters/storage"
	"github.com/rafaelleal24/catalog/internal/core/domain"
	"github.com/rafaelleal24/catalog/internal/core/logger"
	"github.com/rafaelleal24/catalog/internal/core/service"
)

// @title       Catalog API
// @version     1.0
// @description Merchant product catalog with ordered product images

// @host     localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization

//go:generate swag init -d ../.. -g cmd/http/main.go -o ../../docs --parseInternal

func main() {
	// initialize config and logger
	cfg := config.NewConfig()
	if err := logger.Initialize(cfg.Logger.Endpoint, cfg.Logger.ServiceName, cfg.Logger.Level, cfg.Logger.IsProduction); err != nil {
		// logger not available yet, fall back to stderr
		fmt.Println("failed to initialize logger: " + err.Error())
		os.Exit(1)
	}

	// cancellable context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database connection
	mongoClient, err := mongo.NewConnection(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to MongoDB", err, nil)
	}
	defer mongo.Disconnect(mongoClient)
	logger.Info(ctx, "Connected to MongoDB", map[string]any{"database": cfg.Mongo.Database})

	// initialize redis connection
	redisClient, err := redis.NewConnection(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to Redis", err, nil)
	}
	defer redisClient.Close()
	logger.Info(ctx, "Connected to Redis", nil)

	// initialize rabbitmq connection
	broker, err := rabbitmq.NewRabbitMQAdapter(cfg.RabbitMQ)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to RabbitMQ", err, nil)
	}
	defer broker.Close()
	logger.Info(ctx, "Connected to RabbitMQ", nil)

	// image storage
	imageStorage, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize image storage", err, map[string]any{"driver": cfg.Storage.Driver})
	}
	defer imageStorage.Close()
	logger.Info(ctx, "Image storage ready", map[string]any{"driver": cfg.Storage.Driver})

	// initialize database and repos
	database := mongoClient.Database(cfg.Mongo.Database)
	txManager := mongo.NewTransactionManager(mongoClient)
	outboxRepository := repository.NewOutboxRepository(database)
	productRepository := repository.NewProductRepository(database, txManager, outboxRepository)
	userRepository := repository.NewUserRepository(database)

	// caches and rate limiter
	productCache := redis.NewCache[domain.ProductSnapshot](redisClient, "cache")
	idempotencyCache := redis.NewCache[service.IdempotencyEntry[domain.ProductSnapshot]](redisClient, "cache")
	rateLimiter := redis.NewRateLimiter(redisClient, "http")

	// outbox handler (uses cancellable context)
	outboxHandler := outbox.NewHandler(outboxRepository, broker, cfg.Outbox)
	go outboxHandler.Start(ctx)
	logger.Info(ctx, "Outbox handler started", map[string]any{"interval": cfg.Outbox.Interval.String(), "batch_size": cfg.Outbox.BatchSize})

	// auth adapters
	tokens, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize token service", err, nil)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	// services
	authService := service.NewAuthService(userRepository, hasher, tokens)
	idempotencyService := service.NewIdempotencyService("product", idempotencyCache,
		cfg.Idempotency.TTL, cfg.Idempotency.PollInterval, cfg.Idempotency.PollTimeout)
	productService := service.NewProductService(productRepository, imageStorage, productCache, idempotencyService,
		service.ProductServiceConfig{
			StorageTimeout:    cfg.Product.StorageTimeout,
			RepositoryTimeout: cfg.Product.RepositoryTimeout,
			CacheTTL:          cfg.Product.CacheTTL,
		})

	// controllers
	authController := controllers.NewAuthController(authService)
	productController := controllers.NewProductController(productService, cfg.Storage.MaxUploadBytes)
	healthController := controllers.NewHealthController([]controllers.HealthChecker{
		{Name: "mongodb", Check: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
		{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx) }},
		{Name: "rabbitmq", Check: func(ctx context.Context) error { return broker.HealthCheck() }},
		{Name: "storage", Check: imageStorage.Check},
	})

	// router
	router := http.NewRouter(healthController, authController, productController, authService, rateLimiter, cfg)

	// graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info(ctx, "Received shutdown signal", map[string]any{"signal": sig.String()})
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := logger.Shutdown(shutdownCtx); err != nil {
			fmt.Println("logger shutdown error: " + err.Error())
		}
	}()

	logger.Info(ctx, "Starting HTTP server", map[string]any{"addr": cfg.HTTP.BindInterface + ":" + cfg.HTTP.Port})
	err = router.ListenAndServe(ctx, cfg.HTTP)
	if err != nil {
		logger.Fatal(ctx, "Failed to start HTTP server", err, nil)
	}
}
