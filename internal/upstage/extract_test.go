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
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractInformationSuccess(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/information-extraction/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "{\"program_name\": \"청년도약계좌\"}"}}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	out, ok := client.ExtractInformation(context.Background(), writeTestDocument(t), PolicySchema())
	require.True(t, ok)
	assert.JSONEq(t, `{"program_name": "청년도약계좌"}`, out)

	assert.Equal(t, extractModel, gotBody["model"])

	// The document travels inline as a base64 PDF data URL.
	messages := gotBody["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	part := content[0].(map[string]any)
	assert.Equal(t, "image_url", part["type"])
	url := part["image_url"].(map[string]any)["url"].(string)
	assert.True(t, strings.HasPrefix(url, "data:application/pdf;base64,"), "unexpected data URL prefix: %.50s", url)

	// Schema-constrained response format is requested.
	format := gotBody["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
}

func TestExtractInformationFailuresAreSwallowed(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error": {"message": "boom"}}`, http.StatusInternalServerError)
			},
		},
		{
			name: "Auth error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error": {"message": "bad key"}}`, http.StatusUnauthorized)
			},
		},
		{
			name: "Non-JSON content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "정상적인 JSON이 아님"}}]}`))
			},
		},
		{
			name: "No choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"choices": []}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := newTestClient(t, server.URL)
			out, ok := client.ExtractInformation(context.Background(), writeTestDocument(t), PolicySchema())
			assert.False(t, ok, "failures must be reported as ok=false, never raised")
			assert.Empty(t, out)
		})
	}
}

func TestExtractInformationMissingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a missing file")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, ok := client.ExtractInformation(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"), PolicySchema())
	assert.False(t, ok)
}

func TestMimeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", mimeFor("/tmp/doc.PDF"))
	assert.Equal(t, "application/pdf", mimeFor("doc.pdf"))
	assert.Equal(t, "image/png", mimeFor("scan.png"))
	assert.Equal(t, "image/png", mimeFor("scan.jpg"))
}
