// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-cognitive-score/internal/bootstrap"
	"github.com/AccelByte/extend-cognitive-score/internal/config"
	"github.com/AccelByte/extend-cognitive-score/internal/server"
	"github.com/AccelByte/extend-cognitive-score/pkg/handler"
	"github.com/AccelByte/extend-cognitive-score/pkg/session"
	"github.com/AccelByte/extend-cognitive-score/pkg/state"
	"github.com/cenkalti/backoff/v4"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const healthCheckInterval = 10 * time.Second

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	grpcServer        *server.GRPCServer
	httpServer        *server.HTTPServer
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	healthChecker     *state.HealthChecker
	sessions          *session.Manager
	cancelSessions    context.CancelFunc
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance.
//
// ============================================================
// DEVELOPER: Application initialization order
// ============================================================
// Components are initialized in dependency order:
// 1. Redis (daily documents, progression, exams, change feed)
// 2. Burnout rule engine (config/burnout.yaml)
// 3. External collaborators (wearable feed, insight service)
// 4. Session manager (one live session per user)
// 5. Servers (HTTP API, gRPC health, metrics)
// 6. Telemetry (OpenTelemetry tracing)
// ============================================================
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: Initialize Redis
	// ============================================================
	if err := app.initRedis(ctx); err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	store := state.NewRedisStore(app.redisClient)
	app.healthChecker = state.NewHealthChecker(app.redisClient)

	// ============================================================
	// Step 2: Load burnout rules
	// ============================================================
	ruleEngine, err := bootstrap.InitRuleEngine(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init rule engine: %w", err)
	}

	// ============================================================
	// Step 3: Initialize external collaborators
	// ============================================================
	wearable, insight := bootstrap.InitCollaborators(cfg)

	// ============================================================
	// Step 4: Session manager
	// ============================================================
	// Sessions outlive the request that started them, so they get
	// their own context, cancelled during shutdown after the queued
	// writes are flushed.
	// ============================================================
	sessionCtx, cancel := context.WithCancel(context.Background())
	app.cancelSessions = cancel
	app.sessions, err = bootstrap.InitSessionManager(sessionCtx, cfg, store, ruleEngine, wearable)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to init session manager: %w", err)
	}

	// ============================================================
	// Step 5: Setup servers
	// ============================================================
	loc, err := cfg.Location()
	if err != nil {
		cancel()
		return nil, err
	}
	api := handler.New(app.sessions, store, insight, app.healthChecker, handler.Config{
		Location: loc,
		Logger:   logrus.WithField("service", cfg.ServiceName),
	})
	app.httpServer = server.NewHTTPServer(cfg.HTTPPort, api.Router())

	app.grpcServer = server.NewGRPCServer(cfg.GRPCPort)
	if err := app.grpcServer.Setup(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup gRPC server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// ============================================================
	// Step 6: Setup telemetry
	// ============================================================
	shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.ServiceName, cfg.Environment, 0, cfg.ZipkinEndpoint)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup telemetry: %w", err)
	}
	app.shutdownTelemetry = shutdownTelemetry

	logrus.Info("application initialized successfully")

	return app, nil
}

// initRedis initializes the Redis client.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisAddr(),
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	maxRetries := backoff.WithContext(backoff.WithMaxRetries(b, a.cfg.RedisMaxRetries), ctx)

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		maxRetries,
	)

	if err != nil {
		client.Close()
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}
