// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package metrics holds the Prometheus collectors of the score engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cognitive_score"

var (
	ActivitySeconds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_seconds_total",
			Help:      "Screen time accrued by the activity monitor, by bucket",
		},
		[]string{"bucket"},
	)

	RemoteWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_writes_total",
			Help:      "Field-merge writes issued to the store, by result",
		},
		[]string{"result"},
	)

	RemoteFields = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_fields_total",
			Help:      "Fields delivered by the remote listener, by outcome",
		},
		[]string{"outcome"},
	)

	ScoreComputations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_computations_total",
			Help:      "Live recomputations of score and burnout risk",
		},
	)

	BurnoutAssessments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "burnout_assessments_total",
			Help:      "Burnout classifications, by risk",
		},
		[]string{"risk"},
	)

	ScoreValue = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Distribution of computed scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
	)

	WearableSyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wearable_syncs_total",
			Help:      "Biometric syncs, by source",
		},
		[]string{"source"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of running user sessions",
		},
	)
)

// Register adds all collectors to the registry.
func Register(registry prometheus.Registerer) {
	registry.MustRegister(
		ActivitySeconds,
		RemoteWrites,
		RemoteFields,
		ScoreComputations,
		BurnoutAssessments,
		ScoreValue,
		WearableSyncs,
		ActiveSessions,
	)
}
