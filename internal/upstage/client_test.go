// Copyright 2024 Policy Navigator Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package upstage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "solar-pro2",
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "https://api.upstage.ai", Model: "solar-pro2"}, zap.NewNop())
	assert.Error(t, err, "missing API key must be rejected")

	_, err = NewClient(Config{APIKey: "k", BaseURL: "https://api.upstage.ai"}, zap.NewNop())
	assert.Error(t, err, "missing model must be rejected")
}

func TestEnsureV1(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://api.upstage.ai", "https://api.upstage.ai/v1"},
		{"https://api.upstage.ai/", "https://api.upstage.ai/v1"},
		{"https://api.upstage.ai/v1", "https://api.upstage.ai/v1"},
		{"https://api.upstage.ai/v1/", "https://api.upstage.ai/v1"},
	}
	for _, tt := range tests {
		if got := ensureV1(tt.in); got != tt.want {
			t.Errorf("ensureV1(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompleteForwardsReasoningEffortOnlyWhenSet(t *testing.T) {
	var lastBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "응답 텍스트"}, "finish_reason": "stop"}],
			"usage": {"completion_tokens": 10}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	out, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "테스트 프롬프트",
		Temperature: 0.2,
		MaxTokens:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, "응답 텍스트", out)
	_, present := lastBody["reasoning_effort"]
	assert.False(t, present, "reasoning_effort must not be sent when unset")

	_, err = client.Complete(context.Background(), CompletionRequest{
		Prompt:          "테스트 프롬프트",
		ReasoningEffort: "high",
	})
	require.NoError(t, err)
	assert.Equal(t, "high", lastBody["reasoning_effort"])
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	out, err := client.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Empty(t, out, "no choices means no usable output, not an error")
}

func TestCompletePropagatesTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	assert.Error(t, err)
}
