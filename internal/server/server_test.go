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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/your-org/policy-navigator/internal/agent"
	"github.com/your-org/policy-navigator/internal/upstage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRunner struct {
	result  *agent.Result
	err     error
	profile string
	docPath string
}

func (f *fakeRunner) Run(_ context.Context, profileText, docPath string) (*agent.Result, error) {
	f.profile = profileText
	f.docPath = docPath
	return f.result, f.err
}

func doConsult(t *testing.T, runner Runner, body string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New(runner, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/v1/consult", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := New(&fakeRunner{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestConsultSuccess(t *testing.T) {
	runner := &fakeRunner{result: &agent.Result{
		Report: "[자격 판단]\n- 충족",
		Plan: agent.PlanResult{
			CertainConditions:   []string{"연령 충족"},
			UncertainConditions: []string{"소득 미확인"},
			ActionCandidates:    []string{"청년도약계좌 신청"},
		},
		OpenQuestions: []agent.Question{{Field: "월소득", Question: "월소득이 얼마인가요?"}},
	}}

	rec := doConsult(t, runner, `{"profile": "29세/수도권", "document_path": "/tmp/policy.pdf"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "29세/수도권", runner.profile)
	assert.Equal(t, "/tmp/policy.pdf", runner.docPath)

	var resp ConsultResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "[자격 판단]\n- 충족", resp.Report)
	assert.Equal(t, []string{"연령 충족"}, resp.CertainConditions)
	assert.Equal(t, []string{"소득 미확인"}, resp.UncertainConditions)
	assert.Equal(t, []string{"청년도약계좌 신청"}, resp.ActionCandidates)
	require.Len(t, resp.OpenQuestions, 1)
	assert.Equal(t, "월소득", resp.OpenQuestions[0].Field)
}

func TestConsultMissingProfile(t *testing.T) {
	runner := &fakeRunner{result: &agent.Result{}}

	rec := doConsult(t, runner, `{"document_path": "/tmp/policy.pdf"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, runner.profile, "runner must not be invoked on invalid input")
}

func TestConsultBlankProfile(t *testing.T) {
	rec := doConsult(t, &fakeRunner{}, `{"profile": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConsultMalformedBody(t *testing.T) {
	rec := doConsult(t, &fakeRunner{}, `{"profile": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConsultErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "missing document",
			err:        fmt.Errorf("%w: /tmp/absent.pdf", agent.ErrDocumentNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "upstream failure",
			err:        fmt.Errorf("parse: %w", &upstage.StatusError{StatusCode: 500, Body: "oops"}),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unexpected failure",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doConsult(t, &fakeRunner{err: tt.err}, `{"profile": "29세"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}
