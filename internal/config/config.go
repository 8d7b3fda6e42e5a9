// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import "time"

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
//
// ============================================================
// DEVELOPER: Add new configuration fields here.
// ============================================================
// Use struct tags to define:
// - `env:"VAR_NAME"` - the environment variable name
// - `env:",required"` - make it required
// - `envDefault:"value"` - set a default value
//
// After adding fields here, update loader.go Validate() if custom
// validation is needed.
// ============================================================
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"6565"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"CognitiveScoreService"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// ============================================================
	// Redis configuration
	// ============================================================
	RedisHost       string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisMaxRetries uint64 `env:"REDIS_MAX_RETRIES" envDefault:"5"`

	// ============================================================
	// Scoring configuration
	// ============================================================
	RulesPath string `env:"RULES_PATH" envDefault:"config/burnout.yaml"`
	// Timezone decides where a calendar day starts and ends.
	Timezone  string `env:"TIMEZONE" envDefault:"UTC"`

	// ============================================================
	// Session timing
	// ============================================================
	ActivityTick         time.Duration `env:"ACTIVITY_TICK" envDefault:"1s"`
	RecomputeInterval    time.Duration `env:"RECOMPUTE_INTERVAL" envDefault:"5s"`
	WearableSyncInterval time.Duration `env:"WEARABLE_SYNC_INTERVAL" envDefault:"1m"`

	// ============================================================
	// Collaborators
	// ============================================================
	// Leave WEARABLE_BASE_URL empty to run every user on simulated biometrics.
	WearableBaseURL    string `env:"WEARABLE_BASE_URL"`
	WearableMaxRetries uint64 `env:"WEARABLE_MAX_RETRIES" envDefault:"2"`
	InsightBaseURL     string `env:"INSIGHT_BASE_URL"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	ZipkinEndpoint string `env:"OTEL_EXPORTER_ZIPKIN_ENDPOINT"`
}
