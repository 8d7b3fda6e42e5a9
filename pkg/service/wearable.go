// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// WearableClient fetches daily readings over HTTP:
// GET {baseURL}/users/{userID}/daily/{date}.
type WearableClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	maxRetries uint64
}

type WearableClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
}

// NewWearableClient creates a wearable client. An empty base URL yields a
// client that reports every user as not linked.
func NewWearableClient(cfg WearableClientConfig) *WearableClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &WearableClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker: newBreaker("wearable", func(err error) bool {
			return err == nil || errors.Is(err, ErrWearableNotLinked)
		}),
		maxRetries: cfg.MaxRetries,
	}
}

func (c *WearableClient) FetchDaily(ctx context.Context, userID, date string) (*WearableReading, error) {
	if c.baseURL == "" {
		return nil, ErrWearableNotLinked
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var reading *WearableReading
		b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
		err := backoff.Retry(func() error {
			var err error
			reading, err = c.fetch(ctx, userID, date)
			return err
		}, b)
		return reading, err
	})
	if err != nil {
		if errors.Is(err, ErrWearableNotLinked) {
			return nil, ErrWearableNotLinked
		}
		return nil, fmt.Errorf("failed to fetch wearable reading: %w", err)
	}

	return result.(*WearableReading), nil
}

func (c *WearableClient) fetch(ctx context.Context, userID, date string) (*WearableReading, error) {
	endpoint := fmt.Sprintf("%s/users/%s/daily/%s", c.baseURL, url.PathEscape(userID), url.PathEscape(date))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.Debugf("wearable request failed for user %s: %v", userID, err)
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(ErrWearableNotLinked)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("wearable service returned %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("wearable service returned %d", resp.StatusCode))
	}

	var reading WearableReading
	if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode wearable reading: %w", err))
	}
	if reading.Steps < 0 || reading.Calories < 0 || reading.AvgHR < 0 || reading.SleepHours < 0 {
		return nil, backoff.Permanent(fmt.Errorf("wearable reading has negative values"))
	}

	return &reading, nil
}
