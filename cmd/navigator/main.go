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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/your-org/policy-navigator/internal/agent"
	"github.com/your-org/policy-navigator/internal/config"
	"github.com/your-org/policy-navigator/internal/upstage"
)

var (
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "navigator",
	Short: "Policy eligibility consultation assistant",
	Long: "Parses Korean government policy documents, matches them against a user profile,\n" +
		"asks clarifying questions, and produces a personalized eligibility report.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		logger, err = initializeLogger(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		masked := cfg.MaskSensitiveValues()
		logger.Info("Configuration loaded successfully",
			zap.String("upstage_api_key", masked.Upstage.APIKey),
			zap.String("base_url", masked.Upstage.BaseURL),
			zap.String("model", masked.Upstage.Model),
			zap.String("parse_model", masked.DocParse.Model),
			zap.Float64("temperature", masked.Planning.Temperature),
			zap.Int("max_tokens", masked.Planning.MaxTokens),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildAgent wires the Upstage client into a consultation agent. The
// client serves all three roles: chat completion, document parse, and
// information extraction.
func buildAgent(asker agent.Asker) (*agent.Agent, error) {
	client, err := upstage.NewClient(upstage.Config{
		APIKey:       cfg.Upstage.APIKey,
		BaseURL:      cfg.Upstage.BaseURL,
		Model:        cfg.Upstage.Model,
		ParseModel:   cfg.DocParse.Model,
		ParseTimeout: time.Duration(cfg.DocParse.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init upstage client: %w", err)
	}

	opts := agent.Options{
		Temperature:     float32(cfg.Planning.Temperature),
		MaxTokens:       cfg.Planning.MaxTokens,
		ReasoningEffort: cfg.Planning.ReasoningEffort,
	}

	return agent.New(client, client, client, asker, logger, opts), nil
}

// initializeLogger creates a logger based on configuration settings
func initializeLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if cfg.Logging.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	switch cfg.Logging.Level {
	case "debug":
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "info":
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	case "warn":
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	if cfg.Logging.Output == "file" {
		zapConfig.OutputPaths = []string{"navigator.log"}
		zapConfig.ErrorOutputPaths = []string{"navigator.log"}
	} else {
		// Keep stdout clean for the interactive consultation
		zapConfig.OutputPaths = []string{"stderr"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	return zapConfig.Build()
}
