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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const documentParsePath = "/document-digitization"

// maxErrorBodyLen bounds how much of an error response body is echoed back
// to the user.
const maxErrorBodyLen = 200

// StatusError is a non-success response from the document-parse endpoint.
// Its message gives status-specific guidance: server errors are transient,
// 401 points at credentials or billing, anything else echoes a truncated
// body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("document parse API error (%d): ", e.StatusCode)
	switch {
	case e.StatusCode >= http.StatusInternalServerError:
		return msg + "Upstage 서버 일시 오류입니다. 잠시 후 다시 시도하세요."
	case e.StatusCode == http.StatusUnauthorized:
		return msg + "API 키를 확인하거나 결제/크레딧 상태를 확인하세요."
	default:
		body := e.Body
		if len(body) > maxErrorBodyLen {
			body = body[:maxErrorBodyLen]
		}
		return msg + body
	}
}

// ParseDocument uploads a PDF (or image) to the document-digitization
// endpoint and returns the raw parsed response. The file must exist and be
// readable. The request runs under the client's liberal parse timeout.
func (c *Client) ParseDocument(ctx context.Context, path string) (map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = file.Close() }()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("create multipart form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	fields := map[string]string{
		"model":             c.cfg.ParseModel,
		"mode":              "auto",
		"ocr":               "auto",
		"chart_recognition": "true",
		"coordinates":       "true",
		"output_formats":    `["html"]`,
		"base64_encoding":   `["figure"]`,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart form: %w", err)
	}

	url := c.baseURL + documentParsePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("build parse request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Info("Parsing document",
		zap.String("path", path),
		zap.String("parse_model", c.cfg.ParseModel),
	)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("document parse request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Error("Document parse failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("path", path),
		)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var parsed map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode parse response: %w", err)
	}

	c.logger.Info("Document parsed", zap.String("path", path))
	return parsed, nil
}
