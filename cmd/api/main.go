package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mvasseur/fripe-backend/api/controllers"
	"github.com/mvasseur/fripe-backend/api/routes"
	"github.com/mvasseur/fripe-backend/internal/offers"
	"github.com/mvasseur/fripe-backend/internal/users"
	"github.com/mvasseur/fripe-backend/pkg/config"
	"github.com/mvasseur/fripe-backend/pkg/db"
	"github.com/mvasseur/fripe-backend/pkg/logger"
	"github.com/mvasseur/fripe-backend/pkg/metrics"
	"github.com/mvasseur/fripe-backend/pkg/redis"
	"github.com/mvasseur/fripe-backend/pkg/storage/cloudinary"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate {
		if err := dbClient.AutoMigrate(); err != nil {
			logg.Error(ctx, "failed to run dev auto-migration", err)
			os.Exit(1)
		}
		logg.Info(ctx, "dev auto-migration applied")
	}

	pingers := map[string]controllers.Pinger{"db": dbClient}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		pingers["redis"] = redisClient
	}

	mediaClient, err := cloudinary.NewClient(cfg.Cloudinary, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap media client", err)
		os.Exit(1)
	}
	pingers["cloudinary"] = mediaClient

	userService, err := users.NewService(users.NewRepository(dbClient.DB()), mediaClient, cfg.Cloudinary.Folder, logg)
	if err != nil {
		logg.Error(ctx, "failed to create user service", err)
		os.Exit(1)
	}

	offerService, err := offers.NewService(offers.NewRepository(dbClient.DB()), userService, mediaClient, cfg.Cloudinary.Folder, logg)
	if err != nil {
		logg.Error(ctx, "failed to create offer service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	requestMetrics := metrics.NewRequestMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			Registry:     registry,
			Metrics:      requestMetrics,
			RedisClient:  redisClient,
			UserService:  userService,
			OfferService: offerService,
			Pingers:      pingers,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(startCtx, "graceful shutdown failed", err)
		}
	}
}
