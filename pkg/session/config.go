// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"math/rand"
	"time"

	"github.com/AccelByte/extend-cognitive-score/pkg/monitor"
	"github.com/AccelByte/extend-cognitive-score/pkg/service"
	"github.com/AccelByte/extend-cognitive-score/pkg/simulator"
)

const (
	DefaultRecomputeInterval = 5 * time.Second
	DefaultWearableInterval  = time.Minute
	DefaultStoreTimeout      = 5 * time.Second
)

// Config holds the session timing. Zero values take the defaults.
type Config struct {
	ActivityInterval  time.Duration
	RecomputeInterval time.Duration
	WearableInterval  time.Duration
	StoreTimeout      time.Duration

	// Location decides the calendar day boundary.
	Location *time.Location

	// Now is the clock. Tests replace it to cross day boundaries.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.ActivityInterval <= 0 {
		c.ActivityInterval = monitor.DefaultTickInterval
	}
	if c.RecomputeInterval <= 0 {
		c.RecomputeInterval = DefaultRecomputeInterval
	}
	if c.WearableInterval <= 0 {
		c.WearableInterval = DefaultWearableInterval
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = DefaultStoreTimeout
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Deps are the collaborators shared by all sessions.
type Deps struct {
	Store     Store
	Assessor  Assessor
	Wearable  service.WearableFetcher
	Simulator *simulator.Simulator
}

func (d Deps) withDefaults() Deps {
	if d.Simulator == nil {
		d.Simulator = simulator.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	return d
}
