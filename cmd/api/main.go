// Package main is the entrypoint for the Ugmi API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/ugmi/ugmi/internal/auth"
	"github.com/ugmi/ugmi/internal/cache"
	"github.com/ugmi/ugmi/internal/config"
	"github.com/ugmi/ugmi/internal/confirm"
	"github.com/ugmi/ugmi/internal/handler"
	"github.com/ugmi/ugmi/internal/metrics"
	"github.com/ugmi/ugmi/internal/middleware"
	"github.com/ugmi/ugmi/internal/repository"
	"github.com/ugmi/ugmi/internal/server"
	"github.com/ugmi/ugmi/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if cfg.AutoMigrate {
		if err := repository.MigrateUp(ctx, cfg.DatabaseURL); err != nil {
			logger.Error("failed to apply migrations", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	var (
		recorder       metrics.Recorder = metrics.NewNoop()
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		prom := metrics.NewPrometheus()
		recorder = prom
		metricsHandler = prom.Handler()
	}

	policy := cfg.Policy()
	authority := auth.NewAuthority(repo, policy.TokenTTL, recorder)

	var confirmer service.Confirmer
	var worker *confirm.Worker
	if cfg.ConfirmEnabled {
		confirmer = confirm.NewPublisher(cacheClient.Client(), logger, recorder)
		worker = confirm.NewWorker(cacheClient.Client(), confirm.NewLogMailer(logger), logger, confirm.NewConsumerID(), recorder)
	}

	users := service.NewUserService(repo, authority, confirmer, policy, recorder)
	comments := service.NewCommentService(repo, recorder)

	router := handler.NewRouter(handler.RouterDeps{
		Logger:   logger,
		API:      handler.New(users, comments, logger),
		Health:   handler.NewHealthHandler(repo, cacheClient),
		Tokens:   authority,
		Recorder: recorder,
		Metrics:  metricsHandler,
		RateLimit: middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: cacheClient,
			Enabled: cfg.RateLimitEnabled,
			RPS:     cfg.RateLimitRPS,
			Burst:   cfg.RateLimitBurst,
		},
		Security:           middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()},
		CORSOrigins:        cfg.GetCORSAllowedOrigins(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	if worker != nil {
		go func() {
			if err := worker.Run(ctx); err != nil {
				logger.Error("confirmation worker stopped", "error", err)
			}
		}()
		srv.OnShutdown("confirm-worker", worker.Shutdown)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"confirm_enabled", cfg.ConfirmEnabled,
		"metrics_enabled", cfg.MetricsEnabled,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
