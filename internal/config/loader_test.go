// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		GRPCPort:             6565,
		HTTPPort:             8000,
		MetricsPort:          8080,
		LogLevel:             "info",
		Timezone:             "UTC",
		ActivityTick:         time.Second,
		RecomputeInterval:    5 * time.Second,
		WearableSyncInterval: time.Minute,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("RECOMPUTE_INTERVAL", "10s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPPort != 9000 {
		t.Errorf("HTTPPort = %d, expected 9000", cfg.HTTPPort)
	}
	if cfg.RecomputeInterval != 10*time.Second {
		t.Errorf("RecomputeInterval = %s, expected 10s", cfg.RecomputeInterval)
	}
	if cfg.ActivityTick != time.Second {
		t.Errorf("ActivityTick = %s, expected 1s", cfg.ActivityTick)
	}
	if cfg.RulesPath != "config/burnout.yaml" {
		t.Errorf("RulesPath = %q", cfg.RulesPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port out of range", func(c *Config) { c.GRPCPort = 0 }, "GRPC_PORT"},
		{"port clash", func(c *Config) { c.HTTPPort = c.MetricsPort }, "both use port"},
		{"zero tick", func(c *Config) { c.ActivityTick = 0 }, "ACTIVITY_TICK"},
		{"recompute faster than tick", func(c *Config) { c.RecomputeInterval = 500 * time.Millisecond }, "RECOMPUTE_INTERVAL"},
		{"zero wearable interval", func(c *Config) { c.WearableSyncInterval = 0 }, "WEARABLE_SYNC_INTERVAL"},
		{"unknown timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "TIMEZONE"},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, expected nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, expected mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestRedisAddr(t *testing.T) {
	cfg := &Config{RedisHost: "redis", RedisPort: "6380"}
	if got := cfg.RedisAddr(); got != "redis:6380" {
		t.Errorf("RedisAddr() = %q", got)
	}
}
