// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// FallbackInsight is shown when no insight could be generated.
const FallbackInsight = "Keep a steady rhythm: sleep well, take breaks and stay active."

var errInsightDisabled = errors.New("insight service not configured")

// InsightClient requests insights over HTTP: POST {baseURL}/insights with
// the summary, expecting {"text": "..."}.
type InsightClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

type InsightClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

func NewInsightClient(cfg InsightClientConfig) *InsightClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &InsightClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    newBreaker("insight", nil),
	}
}

func (c *InsightClient) Generate(ctx context.Context, summary MetricsSummary) (string, error) {
	if c.baseURL == "" {
		return "", errInsightDisabled
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generate(ctx, summary)
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate insight: %w", err)
	}
	return result.(string), nil
}

func (c *InsightClient) generate(ctx context.Context, summary MetricsSummary) (string, error) {
	body, err := json.Marshal(summary)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/insights", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insight service returned %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode insight: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("insight service returned empty text")
	}
	return out.Text, nil
}
