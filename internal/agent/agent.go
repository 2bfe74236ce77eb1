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

// Package agent drives the consultation pipeline: parse the policy
// document, structure the user profile, plan, ask clarifying questions,
// replan, and produce the final five-section report.
//
// Only two failures abort a run: a missing input document and a failed
// document-parse call. Every model-output failure falls back to a
// documented default so a run always completes with a best-effort report.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/your-org/policy-navigator/internal/docparse"
	"github.com/your-org/policy-navigator/internal/jsonx"
	"github.com/your-org/policy-navigator/internal/profile"
	"github.com/your-org/policy-navigator/internal/prompt"
	"github.com/your-org/policy-navigator/internal/report"
	"github.com/your-org/policy-navigator/internal/upstage"
)

// ErrDocumentNotFound is returned when the input document path does not
// exist. This is one of the two fatal errors of a run.
var ErrDocumentNotFound = fmt.Errorf("document not found")

// LLM produces a chat completion for a rendered prompt.
type LLM interface {
	Complete(ctx context.Context, req upstage.CompletionRequest) (string, error)
}

// DocumentParser converts a PDF/image into the parse service's raw
// response.
type DocumentParser interface {
	ParseDocument(ctx context.Context, path string) (map[string]any, error)
}

// InformationExtractor runs best-effort schema-constrained extraction.
type InformationExtractor interface {
	ExtractInformation(ctx context.Context, path string, schema *jsonschema.Definition) (string, bool)
}

// Options are the completion parameters shared by all planning calls.
type Options struct {
	Temperature     float32
	MaxTokens       int
	ReasoningEffort string
}

// Result is the outcome of one consultation run.
type Result struct {
	// Report always contains the five mandatory section headers.
	Report string
	// Plan is the final plan (post-replan when the question loop ran).
	Plan PlanResult
	// OpenQuestions are filtered questions that remain unanswered; in
	// non-interactive mode this is every surviving question.
	OpenQuestions []Question
	// AnsweredFields maps explicit question field names to the user's
	// literal answers.
	AnsweredFields map[string]string
}

// Agent orchestrates one consultation at a time. A single control goroutine
// drives the pipeline; the only concurrency is the bounded two-task fan-out
// over the document-analysis calls.
type Agent struct {
	llm       LLM
	parser    DocumentParser
	extractor InformationExtractor
	asker     Asker
	logger    *zap.Logger
	opts      Options
}

// New creates an agent. asker may be nil for non-interactive use; parser
// and extractor may be nil when runs never supply a document path.
func New(llm LLM, parser DocumentParser, extractor InformationExtractor, asker Asker, logger *zap.Logger, opts Options) *Agent {
	return &Agent{
		llm:       llm,
		parser:    parser,
		extractor: extractor,
		asker:     asker,
		logger:    logger,
		opts:      opts,
	}
}

// Run executes the full pipeline for one user profile and an optional
// document path (empty means the bundled sample policy).
func (a *Agent) Run(ctx context.Context, profileText, docPath string) (*Result, error) {
	policyText, ieExtract, err := a.ingest(ctx, docPath)
	if err != nil {
		return nil, err
	}

	prof := profile.New(profileText)
	a.structureProfile(ctx, prof)

	plan := a.plan(ctx, prof, policyText, ieExtract)
	questions := a.filterQuestions(ctx, prof, plan.Questions)

	answered := map[string]string{}
	if a.asker != nil && len(questions) > 0 {
		if a.collectAnswers(ctx, prof, questions, answered) {
			// Replan with the enriched profile; the prior plan is
			// replaced entirely.
			a.structureProfile(ctx, prof)
			plan = a.plan(ctx, prof, policyText, ieExtract)
		}
	}

	reportText := a.finalReport(ctx, prof, policyText, plan, answered, ieExtract)

	return &Result{
		Report:         reportText,
		Plan:           plan,
		OpenQuestions:  openQuestions(questions, answered),
		AnsweredFields: answered,
	}, nil
}

// ingest resolves the policy text and the optional extraction enrichment.
// Document parse and information extraction run concurrently; both are
// always awaited, and an extraction failure never fails the run.
func (a *Agent) ingest(ctx context.Context, docPath string) (string, string, error) {
	if docPath == "" {
		a.logger.Info("No document supplied, using bundled sample policy")
		return docparse.Normalize(SamplePolicyText), "", nil
	}

	if _, err := os.Stat(docPath); err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrDocumentNotFound, docPath)
	}

	var (
		parsed    map[string]any
		ieExtract string
	)

	var g errgroup.Group
	g.SetLimit(2)
	g.Go(func() error {
		doc, err := a.parser.ParseDocument(ctx, docPath)
		if err != nil {
			return err
		}
		parsed = doc
		return nil
	})
	g.Go(func() error {
		if a.extractor == nil {
			return nil
		}
		if out, ok := a.extractor.ExtractInformation(ctx, docPath, upstage.PolicySchema()); ok {
			ieExtract = out
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}

	return docparse.PolicyText(parsed), ieExtract, nil
}

// structureProfile asks the model for a one-line structured rendering of
// the profile. Any failure leaves the profile unchanged.
func (a *Agent) structureProfile(ctx context.Context, prof *profile.Profile) {
	out, err := a.llm.Complete(ctx, a.request(prompt.BuildProfileParse(prof.String())))
	if err != nil {
		a.logger.Warn("Profile structuring failed, keeping original text", zap.Error(err))
		return
	}

	parsed, ok := jsonx.RecoverObject(out)
	if !ok {
		a.logger.Warn("Profile structuring returned no JSON, keeping original text")
		return
	}

	prof.SetStructured(prompt.FormatStructured(parsed))
	a.logger.Debug("Profile structured", zap.String("profile", prof.String()))
}

// plan classifies conditions and proposes questions. An unparseable
// response yields the empty plan; the pipeline never halts here.
func (a *Agent) plan(ctx context.Context, prof *profile.Profile, policyText, ieExtract string) PlanResult {
	out, err := a.llm.Complete(ctx, a.request(prompt.BuildPlan(prof.String(), policyText, ieExtract)))
	if err != nil {
		a.logger.Warn("Plan call failed, using empty plan", zap.Error(err))
		return emptyPlan()
	}

	parsed, ok := jsonx.RecoverObject(out)
	if !ok {
		a.logger.Warn("Plan response unparseable, using empty plan")
		return emptyPlan()
	}

	plan := planFromMap(parsed)
	a.logger.Info("Plan generated",
		zap.Int("certain", len(plan.CertainConditions)),
		zap.Int("uncertain", len(plan.UncertainConditions)),
		zap.Int("questions", len(plan.Questions)),
	)
	return plan
}

// filterQuestions drops questions already answered by the profile. If the
// filtering call fails in any way the unfiltered list is returned: asking
// one question too many beats silently dropping one.
func (a *Agent) filterQuestions(ctx context.Context, prof *profile.Profile, questions []Question) []Question {
	if len(questions) == 0 {
		return questions
	}

	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return questions
	}

	out, err := a.llm.Complete(ctx, a.request(prompt.BuildQuestionFilter(prof.String(), string(questionsJSON))))
	if err != nil {
		a.logger.Warn("Question filtering failed, keeping all questions", zap.Error(err))
		return questions
	}

	arr, ok := jsonx.RecoverArray(out)
	if !ok {
		a.logger.Warn("Question filter response unparseable, keeping all questions")
		return questions
	}

	filtered := questionList(arr)
	a.logger.Info("Questions filtered",
		zap.Int("before", len(questions)),
		zap.Int("after", len(filtered)),
	)
	return filtered
}

// collectAnswers runs the interactive question loop. It reports whether at
// least one answer was merged, which gates the replan.
func (a *Agent) collectAnswers(ctx context.Context, prof *profile.Profile, questions []Question, answered map[string]string) bool {
	anyAnswered := false

	for _, q := range questions {
		answer, err := a.asker.Ask(q.Question)
		if err != nil {
			a.logger.Warn("Answer collection interrupted", zap.Error(err))
			break
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			continue
		}

		anyAnswered = true
		a.mergeAnswer(ctx, prof, q, answer)
		if q.Field != "" {
			answered[q.Field] = answer
		}
	}

	return anyAnswered
}

// mergeAnswer extracts field/value pairs from an answer and merges them
// first-write-wins. When extraction fails the answer is appended directly
// under the question's hinted field.
func (a *Agent) mergeAnswer(ctx context.Context, prof *profile.Profile, q Question, answer string) {
	out, err := a.llm.Complete(ctx, a.request(prompt.BuildProfileExtract(answer, q.Question, q.Field)))
	if err == nil {
		if fields, ok := jsonx.RecoverObject(out); ok {
			for _, name := range sortedKeys(fields) {
				if value := strings.TrimSpace(asString(fields[name])); value != "" {
					prof.Merge(name, value)
				}
			}
			return
		}
	}

	name := q.Field
	if name == "" {
		name = q.Question
	}
	a.logger.Warn("Field extraction failed, appending answer directly", zap.String("field", name))
	prof.Merge(name, answer)
}

// finalReport renders the consultation prompt, strips stray bold markers,
// and guarantees the five section headers.
func (a *Agent) finalReport(ctx context.Context, prof *profile.Profile, policyText string, plan PlanResult, answered map[string]string, ieExtract string) string {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		planJSON = []byte("{}")
	}

	var answeredJSON string
	if len(answered) > 0 {
		if data, err := json.Marshal(answered); err == nil {
			answeredJSON = string(data)
		}
	}

	out, err := a.llm.Complete(ctx, a.request(prompt.BuildFinalReport(
		prof.String(), policyText, string(planJSON), answeredJSON, ieExtract)))
	if err != nil {
		a.logger.Warn("Final report call failed, emitting placeholder sections", zap.Error(err))
		out = ""
	}

	return report.EnsureHeaders(report.StripBold(out))
}

func (a *Agent) request(p string) upstage.CompletionRequest {
	return upstage.CompletionRequest{
		Prompt:          p,
		Temperature:     a.opts.Temperature,
		MaxTokens:       a.opts.MaxTokens,
		ReasoningEffort: a.opts.ReasoningEffort,
	}
}

// openQuestions returns the questions with no recorded answer.
func openQuestions(questions []Question, answered map[string]string) []Question {
	open := make([]Question, 0, len(questions))
	for _, q := range questions {
		if q.Field != "" {
			if _, ok := answered[q.Field]; ok {
				continue
			}
		}
		open = append(open, q)
	}
	return open
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
