package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"travelbot/internal/catalog"
	"travelbot/internal/config"
	"travelbot/internal/handler"
	"travelbot/internal/repository"
	"travelbot/internal/service"
	"travelbot/internal/store"
	"travelbot/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.InitLogger(cfg.Logging.Env, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Travel booking action server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()
	refs := catalog.Default()

	// Reference database is optional; the compiled-in catalog always works
	var searchLog service.SearchLogger
	if cfg.PostgreSQL.Enabled {
		repo, err := connectRepository(ctx, cfg, refs)
		if err != nil {
			logger.Warn("PostgreSQL unavailable, using built-in reference data", zap.Error(err))
		} else {
			defer repo.Close()
			searchLog = repo
		}
	}

	offers := newOfferStore(ctx, cfg)

	providers := service.NewProviders(cfg, refs, nil)
	logger.Info("Providers initialized",
		zap.Bool("search_enabled", cfg.Search.Enabled),
		zap.Bool("status_enabled", cfg.Status.Enabled),
		zap.Float64("usd_to_mad", cfg.Rates.USDToMAD),
	)

	flow := service.NewBookingFlow(service.BookingDeps{
		Catalog:         refs,
		Flights:         providers.Flights,
		Hotels:          providers.Hotels,
		Status:          providers.Status,
		Fallback:        providers.Fallback,
		Offers:          offers,
		SearchLog:       searchLog,
		ReferencePrefix: cfg.Booking.ReferencePrefix,
	})
	registry := service.NewActionRegistry(flow)
	webhookHandler := handler.NewWebhookHandler(registry)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = append(splitList(cfg.Server.AllowedHeaders), handler.RequestIDHeader)
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "travel-booking-actions",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.POST("/webhook", webhookHandler.Handle)
	router.GET("/actions", webhookHandler.Actions)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.Info("Starting server", zap.String("addr", addr), zap.Int("actions", len(registry.Names())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func connectRepository(ctx context.Context, cfg *config.Config, refs *catalog.Catalog) (*repository.PostgresRepository, error) {
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		return nil, err
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, err
	}

	cities, hotels, err := repo.OverlayCatalog(ctx, refs)
	if err != nil {
		repo.Close()
		return nil, err
	}

	zap.L().Info("Connected to PostgreSQL reference database",
		zap.Int("cities", cities),
		zap.Int("hotels", hotels),
	)
	return repo, nil
}

func newOfferStore(ctx context.Context, cfg *config.Config) store.OfferStore {
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisStore := store.NewRedisOfferStore(client, cfg.Booking.SnapshotTTL)

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		err := redisStore.Ping(pingCtx)
		if err == nil {
			zap.L().Info("Using Redis offer snapshots", zap.String("addr", cfg.Redis.Addr))
			return redisStore
		}
		zap.L().Warn("Redis unavailable, using in-memory offer snapshots", zap.Error(err))
		client.Close()
	}
	return store.NewMemoryOfferStore(cfg.Booking.SnapshotTTL)
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
