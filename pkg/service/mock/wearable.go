// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mock

import (
	"context"
	"sync"

	"github.com/AccelByte/extend-cognitive-score/pkg/service"
)

// WearableFetcher is a mock implementation of service.WearableFetcher for testing
type WearableFetcher struct {
	// FetchDailyFunc is called when FetchDaily is invoked
	FetchDailyFunc func(ctx context.Context, userID, date string) (*service.WearableReading, error)

	// Default data, used when FetchDailyFunc is nil
	DefaultReading *service.WearableReading
	DefaultError   error

	mu    sync.Mutex
	calls []FetchDailyCall
}

// FetchDailyCall tracks parameters for FetchDaily calls
type FetchDailyCall struct {
	UserID string
	Date   string
}

// NewWearableFetcher creates a mock fetcher for a user with no linked feed
func NewWearableFetcher() *WearableFetcher {
	return &WearableFetcher{DefaultError: service.ErrWearableNotLinked}
}

// FetchDaily implements service.WearableFetcher
func (m *WearableFetcher) FetchDaily(ctx context.Context, userID, date string) (*service.WearableReading, error) {
	m.mu.Lock()
	m.calls = append(m.calls, FetchDailyCall{UserID: userID, Date: date})
	m.mu.Unlock()

	if m.FetchDailyFunc != nil {
		return m.FetchDailyFunc(ctx, userID, date)
	}
	return m.DefaultReading, m.DefaultError
}

// Calls returns a copy of the recorded calls
func (m *WearableFetcher) Calls() []FetchDailyCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FetchDailyCall(nil), m.calls...)
}
