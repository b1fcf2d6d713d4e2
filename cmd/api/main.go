package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/timerapp/timerapp-backend/api/routes"
	"github.com/timerapp/timerapp-backend/internal/auth"
	"github.com/timerapp/timerapp-backend/internal/challenges"
	"github.com/timerapp/timerapp-backend/internal/coins"
	"github.com/timerapp/timerapp-backend/internal/friends"
	"github.com/timerapp/timerapp-backend/internal/settings"
	"github.com/timerapp/timerapp-backend/internal/usage"
	"github.com/timerapp/timerapp-backend/internal/users"
	"github.com/timerapp/timerapp-backend/pkg/auth/session"
	"github.com/timerapp/timerapp-backend/pkg/config"
	"github.com/timerapp/timerapp-backend/pkg/db"
	"github.com/timerapp/timerapp-backend/pkg/logger"
	"github.com/timerapp/timerapp-backend/pkg/metrics"
	"github.com/timerapp/timerapp-backend/pkg/migrate"
	"github.com/timerapp/timerapp-backend/pkg/pagination"
	"github.com/timerapp/timerapp-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api exited with error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	coinService, err := coins.NewService(coins.NewRepository(dbClient.DB()), dbClient, metrics.NewCoinMetrics(registry))
	if err != nil {
		return err
	}

	challengeService, err := challenges.NewService(
		challenges.NewRepository(dbClient.DB()),
		coinService,
		dbClient,
		metrics.NewChallengeMetrics(registry),
		pagination.Limits{Default: cfg.Challenges.DefaultListLimit, Max: cfg.Challenges.MaxListLimit},
	)
	if err != nil {
		return err
	}

	userService, err := users.NewService(users.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:          userService,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	friendService, err := friends.NewService(friends.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return err
	}

	usageService, err := usage.NewService(usage.ServiceParams{
		Repo:     usage.NewRepository(dbClient.DB()),
		Friends:  friendService,
		Cache:    redisClient,
		CacheTTL: cfg.Leaderboard.CacheTTL,
		Limits:   pagination.DefaultLimits,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			HTTPMetrics: metrics.NewHTTPMetrics(registry),
			Gatherer:    registry,
			Auth:        authService,
			Users:       userService,
			Coins:       coinService,
			Challenges:  challengeService,
			Usage:       usageService,
			Settings:    settingsService,
			Friends:     friendService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
