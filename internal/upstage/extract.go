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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"
)

const (
	informationExtractPath = "/information-extraction"
	extractModel           = "information-extract"
)

// PolicySchema is the fixed extraction schema for policy documents. Leaf
// types only; the extraction endpoint does not accept nested objects at the
// top level.
func PolicySchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"program_name":       {Type: jsonschema.String, Description: "정책/프로그램 이름"},
			"eligibility":        {Type: jsonschema.String, Description: "지원 자격 요건"},
			"application_period": {Type: jsonschema.String, Description: "신청 기간"},
			"benefit":            {Type: jsonschema.String, Description: "지원 내용 및 혜택"},
			"required_documents": {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}, Description: "제출 서류"},
			"application_method": {Type: jsonschema.String, Description: "신청 방법"},
			"notes":              {Type: jsonschema.String, Description: "기타 참고 사항"},
		},
	}
}

// ExtractInformation runs schema-constrained extraction over a document,
// passed inline as a base64 data URL. The call is strictly best-effort:
// every failure (network, auth, malformed response) is logged and reported
// as ok=false, never as an error, because the pipeline proceeds without
// this enrichment.
func (c *Client) ExtractInformation(ctx context.Context, path string, schema *jsonschema.Definition) (string, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		c.logger.Warn("Information extraction skipped: unreadable document",
			zap.String("path", path), zap.Error(err))
		return "", false
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeFor(path), base64.StdEncoding.EncodeToString(raw))

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ParseTimeout)
	defer cancel()

	resp, err := c.extract.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: extractModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "policy_schema",
				Schema: schema,
			},
		},
	})
	if err != nil {
		c.logger.Warn("Information extraction failed", zap.String("path", path), zap.Error(err))
		return "", false
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn("Information extraction returned no choices", zap.String("path", path))
		return "", false
	}

	content := resp.Choices[0].Message.Content
	if !json.Valid([]byte(content)) {
		c.logger.Warn("Information extraction returned invalid JSON", zap.String("path", path))
		return "", false
	}

	c.logger.Info("Information extraction succeeded",
		zap.String("path", path),
		zap.Int("result_len", len(content)),
	)
	return content, true
}

// mimeFor picks the data-URL media type by file extension; the extraction
// endpoint accepts PDFs and images.
func mimeFor(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return "application/pdf"
	}
	return "image/png"
}
