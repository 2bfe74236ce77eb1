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

// Package upstage wraps the three hosted Upstage operations the pipeline
// depends on: Solar chat completion, document parsing, and schema-constrained
// information extraction.
package upstage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// DefaultParseTimeout is the document-parse request timeout. Parsing is
	// slow; minutes, not seconds.
	DefaultParseTimeout = 2 * time.Minute
	// DefaultParseModel is the document-digitization model identifier.
	DefaultParseModel = "document-parse-nightly"
)

// Config carries the credentials and model selection for all three
// operations. It is constructed explicitly so tests can point the client at
// fakes.
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	ParseModel   string
	ParseTimeout time.Duration
}

// CompletionRequest is a single chat-completion call.
type CompletionRequest struct {
	Prompt      string
	Temperature float32
	MaxTokens   int
	// ReasoningEffort is forwarded only when non-empty so the model's
	// default behavior is preserved.
	ReasoningEffort string
}

// Client is the Upstage API client. Safe for concurrent use.
type Client struct {
	chat    *openai.Client
	extract *openai.Client
	httpc   *http.Client
	logger  *zap.Logger
	cfg     Config
	baseURL string
}

// NewClient creates an Upstage client from explicit configuration.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.ParseModel == "" {
		cfg.ParseModel = DefaultParseModel
	}
	if cfg.ParseTimeout <= 0 {
		cfg.ParseTimeout = DefaultParseTimeout
	}

	baseURL := ensureV1(cfg.BaseURL)

	chatCfg := openai.DefaultConfig(cfg.APIKey)
	chatCfg.BaseURL = baseURL

	extractCfg := openai.DefaultConfig(cfg.APIKey)
	extractCfg.BaseURL = baseURL + informationExtractPath

	client := &Client{
		chat:    openai.NewClientWithConfig(chatCfg),
		extract: openai.NewClientWithConfig(extractCfg),
		httpc:   &http.Client{Timeout: cfg.ParseTimeout},
		logger:  logger,
		cfg:     cfg,
		baseURL: baseURL,
	}

	logger.Info("Upstage client initialized",
		zap.String("base_url", baseURL),
		zap.String("model", cfg.Model),
		zap.String("parse_model", cfg.ParseModel),
		zap.Duration("parse_timeout", cfg.ParseTimeout),
	)

	return client, nil
}

// Complete sends a single user-role prompt to the Solar model and returns
// the completion text. An empty string with a nil error means the model
// produced no usable output; callers apply their own fallback policy.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.ReasoningEffort != "" {
		chatReq.ReasoningEffort = req.ReasoningEffort
	}

	c.logger.Debug("Sending chat completion request",
		zap.String("model", c.cfg.Model),
		zap.Int("prompt_len", len(req.Prompt)),
		zap.Int("max_tokens", req.MaxTokens),
		zap.Float64("temperature", float64(req.Temperature)),
	)

	resp, err := c.chat.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn("Chat completion returned no choices")
		return "", nil
	}

	c.logger.Debug("Chat completion succeeded",
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}

// ensureV1 normalizes the base URL; the Upstage API requires a /v1 path.
func ensureV1(baseURL string) string {
	trimmed := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(trimmed, "/v1") {
		return trimmed
	}
	return trimmed + "/v1"
}
