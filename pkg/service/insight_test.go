// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInsightClient_Generate(t *testing.T) {
	var received MetricsSummary
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/insights" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		_, _ = w.Write([]byte(`{"text":"Great focus today."}`))
	}))
	defer server.Close()

	client := NewInsightClient(InsightClientConfig{BaseURL: server.URL})

	text, err := client.Generate(context.Background(), MetricsSummary{UserID: "user-1", Score: 72})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "Great focus today." {
		t.Errorf("text = %q", text)
	}
	if received.UserID != "user-1" || received.Score != 72 {
		t.Errorf("server received %+v", received)
	}
}

func TestInsightClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"empty text", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"text":"  "}`)) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`nope`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewInsightClient(InsightClientConfig{BaseURL: server.URL})
			if _, err := client.Generate(context.Background(), MetricsSummary{}); err == nil {
				t.Error("Expected error")
			}
		})
	}

	if _, err := NewInsightClient(InsightClientConfig{}).Generate(context.Background(), MetricsSummary{}); err == nil {
		t.Error("Expected error without base URL")
	}
}
