// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mock

import (
	"context"
	"sync"

	"github.com/AccelByte/extend-cognitive-score/pkg/service"
)

// InsightGenerator is a mock implementation of service.InsightGenerator for testing
type InsightGenerator struct {
	// GenerateFunc is called when Generate is invoked
	GenerateFunc func(ctx context.Context, summary service.MetricsSummary) (string, error)

	DefaultText  string
	DefaultError error

	mu        sync.Mutex
	summaries []service.MetricsSummary
}

// NewInsightGenerator creates a mock generator returning a fixed text
func NewInsightGenerator() *InsightGenerator {
	return &InsightGenerator{DefaultText: "You focused well today."}
}

// Generate implements service.InsightGenerator
func (m *InsightGenerator) Generate(ctx context.Context, summary service.MetricsSummary) (string, error) {
	m.mu.Lock()
	m.summaries = append(m.summaries, summary)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, summary)
	}
	return m.DefaultText, m.DefaultError
}

// Summaries returns the summaries passed to Generate
func (m *InsightGenerator) Summaries() []service.MetricsSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.MetricsSummary(nil), m.summaries...)
}
