// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"

	"github.com/AccelByte/extend-cognitive-score/internal/config"
	"github.com/AccelByte/extend-cognitive-score/pkg/rule"
	"github.com/AccelByte/extend-cognitive-score/pkg/service"
	"github.com/AccelByte/extend-cognitive-score/pkg/session"
	"github.com/sirupsen/logrus"
)

// InitCollaborators creates the wearable and insight clients.
//
// ============================================================
// DEVELOPER: External collaborators
// ============================================================
// Both clients sit behind a circuit breaker. With no base URL
// configured the wearable client reports every user as not
// linked (sessions use simulated biometrics) and the insight
// client always fails over to the static insight text.
// ============================================================
func InitCollaborators(cfg *config.Config) (*service.WearableClient, *service.InsightClient) {
	wearable := service.NewWearableClient(service.WearableClientConfig{
		BaseURL:    cfg.WearableBaseURL,
		MaxRetries: cfg.WearableMaxRetries,
	})
	if cfg.WearableBaseURL == "" {
		logrus.Info("no wearable feed configured, sessions use simulated biometrics")
	}

	insight := service.NewInsightClient(service.InsightClientConfig{
		BaseURL: cfg.InsightBaseURL,
	})
	if cfg.InsightBaseURL == "" {
		logrus.Info("no insight service configured, serving the static insight")
	}

	return wearable, insight
}

// InitSessionManager creates the manager of live per-user sessions. The
// sessions end when ctx is cancelled.
func InitSessionManager(ctx context.Context, cfg *config.Config, store session.Store, engine *rule.Engine, wearable service.WearableFetcher) (*session.Manager, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	manager := session.NewManager(ctx, session.Deps{
		Store:    store,
		Assessor: engine,
		Wearable: wearable,
	}, session.Config{
		ActivityInterval:  cfg.ActivityTick,
		RecomputeInterval: cfg.RecomputeInterval,
		WearableInterval:  cfg.WearableSyncInterval,
		Location:          loc,
	})

	logrus.Infof("initialized session manager (timezone %s)", loc)
	return manager, nil
}
