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
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/your-org/policy-navigator/internal/config"
	"github.com/your-org/policy-navigator/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve consultations over HTTP",
	Long: "Starts the HTTP API. Consultations run non-interactively: unanswered\n" +
		"clarifying questions come back in the response as open_questions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// No asker: the server returns open questions instead of blocking
		a, err := buildAgent(nil)
		if err != nil {
			return err
		}

		if cfg.Logging.Level == "debug" {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}

		// Hot reload only adjusts what a restart would pick up; the
		// running server keeps its current wiring
		if err := config.WatchConfig(configPath, func(next *config.Config) {
			logger.Info("Configuration reloaded", zap.Int("port", next.Server.Port))
		}); err != nil {
			logger.Warn("Config watching disabled", zap.Error(err))
		}

		return server.New(a, logger).Run(cfg.Server.Port)
	},
}
