// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestWearableClient_FetchDaily(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/user-1/daily/2026-03-10":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"steps":6400,"calories":1700,"avgHr":71,"sleepHours":7.2}`))
		case "/users/user-2/daily/2026-03-10":
			_, _ = w.Write([]byte(`{"steps":-1}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewWearableClient(WearableClientConfig{BaseURL: server.URL + "/"})

	reading, err := client.FetchDaily(context.Background(), "user-1", "2026-03-10")
	if err != nil {
		t.Fatalf("FetchDaily() error = %v", err)
	}
	expected := WearableReading{Steps: 6400, Calories: 1700, AvgHR: 71, SleepHours: 7.2}
	if *reading != expected {
		t.Errorf("reading = %+v, expected %+v", *reading, expected)
	}

	if _, err := client.FetchDaily(context.Background(), "nobody", "2026-03-10"); !errors.Is(err, ErrWearableNotLinked) {
		t.Errorf("404: error = %v, expected ErrWearableNotLinked", err)
	}

	if _, err := client.FetchDaily(context.Background(), "user-2", "2026-03-10"); err == nil || errors.Is(err, ErrWearableNotLinked) {
		t.Errorf("negative values: error = %v, expected validation error", err)
	}
}

func TestWearableClient_NoBaseURL(t *testing.T) {
	client := NewWearableClient(WearableClientConfig{})

	if _, err := client.FetchDaily(context.Background(), "user-1", "2026-03-10"); !errors.Is(err, ErrWearableNotLinked) {
		t.Errorf("error = %v, expected ErrWearableNotLinked", err)
	}
}

func TestWearableClient_RetriesServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"steps":100,"calories":1210,"avgHr":65,"sleepHours":0}`))
	}))
	defer server.Close()

	client := NewWearableClient(WearableClientConfig{BaseURL: server.URL, MaxRetries: 2})

	reading, err := client.FetchDaily(context.Background(), "user-1", "2026-03-10")
	if err != nil {
		t.Fatalf("FetchDaily() error = %v", err)
	}
	if reading.Steps != 100 {
		t.Errorf("Steps = %d, expected 100", reading.Steps)
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("attempts = %d, expected 2", got)
	}
}

func TestWearableClient_NotLinkedDoesNotTripBreaker(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := NewWearableClient(WearableClientConfig{BaseURL: server.URL})

	for i := 0; i < 10; i++ {
		if _, err := client.FetchDaily(context.Background(), "user-1", "2026-03-10"); !errors.Is(err, ErrWearableNotLinked) {
			t.Fatalf("call %d: error = %v, expected ErrWearableNotLinked", i, err)
		}
	}
}
