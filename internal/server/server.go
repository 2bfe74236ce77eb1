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

// Package server exposes the consultation pipeline over HTTP. The server
// never blocks on stdin: clarifying questions that would be asked
// interactively are returned to the caller as open_questions instead.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/your-org/policy-navigator/internal/agent"
	"github.com/your-org/policy-navigator/internal/upstage"
)

// Runner executes one consultation. *agent.Agent satisfies this.
type Runner interface {
	Run(ctx context.Context, profileText, docPath string) (*agent.Result, error)
}

// ConsultRequest represents the incoming consultation request
type ConsultRequest struct {
	Profile      string `json:"profile" binding:"required"`
	DocumentPath string `json:"document_path"`
}

// ConsultResponse represents the consultation result
type ConsultResponse struct {
	Report              string           `json:"report"`
	OpenQuestions       []agent.Question `json:"open_questions"`
	CertainConditions   []string         `json:"certain_conditions"`
	UncertainConditions []string         `json:"uncertain_conditions"`
	ActionCandidates    []string         `json:"action_candidates"`
}

// Server wraps the gin router and the consultation runner.
type Server struct {
	runner Runner
	logger *zap.Logger
	router *gin.Engine
}

// New creates the HTTP server and registers its routes.
func New(runner Runner, logger *zap.Logger) *Server {
	s := &Server{
		runner: runner,
		logger: logger,
		router: gin.New(),
	}
	s.router.Use(gin.Recovery())

	s.router.GET("/health", s.handleHealth)
	s.router.POST("/v1/consult", s.handleConsult)

	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server on the given port and blocks.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.logger.Info("Starting consultation service", zap.String("addr", addr))
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "policy-navigator",
		"version": "1.0.0",
	})
}

func (s *Server) handleConsult(c *gin.Context) {
	startTime := time.Now()

	var req ConsultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Error("Failed to parse consultation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	if strings.TrimSpace(req.Profile) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": "profile cannot be empty",
		})
		return
	}

	s.logger.Info("Consultation request received",
		zap.String("client_ip", c.ClientIP()),
		zap.Bool("has_document", req.DocumentPath != ""),
	)

	result, err := s.runner.Run(c.Request.Context(), req.Profile, req.DocumentPath)
	if err != nil {
		s.writeRunError(c, err)
		return
	}

	s.logger.Info("Consultation completed",
		zap.Duration("processing_time", time.Since(startTime)),
		zap.Int("open_questions", len(result.OpenQuestions)),
		zap.Int("report_length", len(result.Report)),
	)

	c.JSON(http.StatusOK, ConsultResponse{
		Report:              result.Report,
		OpenQuestions:       result.OpenQuestions,
		CertainConditions:   result.Plan.CertainConditions,
		UncertainConditions: result.Plan.UncertainConditions,
		ActionCandidates:    result.Plan.ActionCandidates,
	})
}

// writeRunError maps pipeline failures to HTTP statuses: a missing
// document is the caller's fault, an upstream API failure is a bad
// gateway, anything else is internal.
func (s *Server) writeRunError(c *gin.Context, err error) {
	var statusErr *upstage.StatusError

	switch {
	case errors.Is(err, agent.ErrDocumentNotFound):
		s.logger.Warn("Consultation rejected, document not found", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Document not found",
			"details": err.Error(),
		})
	case errors.As(err, &statusErr):
		s.logger.Error("Upstream API failure", zap.Int("status", statusErr.StatusCode), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Upstream document service failed",
			"details": err.Error(),
		})
	default:
		s.logger.Error("Consultation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to run consultation",
			"details": err.Error(),
		})
	}
}
