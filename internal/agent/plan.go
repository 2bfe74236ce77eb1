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

package agent

import "fmt"

// Question is a clarifying question proposed by the plan step. Field may be
// empty when the model emitted a bare question string.
type Question struct {
	Field    string `json:"field"`
	Question string `json:"question"`
}

// PlanResult is the model's classification of eligibility conditions plus
// the questions and action candidates derived from them. It is regenerated
// wholesale after the user answers clarifying questions.
type PlanResult struct {
	CertainConditions   []string   `json:"certain_conditions"`
	UncertainConditions []string   `json:"uncertain_conditions"`
	Questions           []Question `json:"questions"`
	ActionCandidates    []string   `json:"action_candidates"`
}

// emptyPlan is the fallback when the plan response is unparseable; the
// pipeline never halts for a malformed plan.
func emptyPlan() PlanResult {
	return PlanResult{
		CertainConditions:   []string{},
		UncertainConditions: []string{},
		Questions:           []Question{},
		ActionCandidates:    []string{},
	}
}

// planFromMap builds a PlanResult from a recovered JSON object, tolerating
// missing fields and heterogeneous question entries.
func planFromMap(m map[string]any) PlanResult {
	return PlanResult{
		CertainConditions:   stringSlice(m["certain_conditions"]),
		UncertainConditions: stringSlice(m["uncertain_conditions"]),
		Questions:           questionList(anySlice(m["questions"])),
		ActionCandidates:    stringSlice(m["action_candidates"]),
	}
}

// questionList normalizes question entries: objects keep their field name,
// plain strings become unnamed-field questions, anything else is dropped.
func questionList(items []any) []Question {
	questions := make([]Question, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if v != "" {
				questions = append(questions, Question{Question: v})
			}
		case map[string]any:
			q := Question{Field: asString(v["field"]), Question: asString(v["question"])}
			if q.Question != "" {
				questions = append(questions, q)
			}
		}
	}
	return questions
}

func anySlice(v any) []any {
	items, _ := v.([]any)
	return items
}

func stringSlice(v any) []string {
	items := anySlice(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}
