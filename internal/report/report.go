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

// Package report post-processes the final consultation text so that every
// downstream consumer can locate the five mandatory sections by literal
// substring search.
package report

import "strings"

// RequiredHeaders lists the section headers every report must contain,
// in presentation order.
var RequiredHeaders = []string{
	"[자격 판단]",
	"[신청 가능 정책]",
	"[예상 혜택]",
	"[다음 단계]",
	"[확인 필요 사항]",
}

const missingSectionBody = "- 내용이 생성되지 않았습니다. 입력/프롬프트를 확인해주세요."

// maxBoldStripPasses bounds removal of nested bold markers.
const maxBoldStripPasses = 5

// StripBold removes markdown bold markers the model may emit despite being
// instructed not to. The removal is repeated until a fixpoint or the pass
// limit is reached, so nested markup cannot survive.
func StripBold(text string) string {
	for i := 0; i < maxBoldStripPasses; i++ {
		next := strings.ReplaceAll(text, "**", "")
		if next == text {
			break
		}
		text = next
	}
	return text
}

// EnsureHeaders guarantees that all required section headers appear in the
// report. Missing headers are appended with a placeholder body; existing
// content is never removed or reordered, and the operation is idempotent.
func EnsureHeaders(text string) string {
	trimmed := strings.TrimSpace(text)

	var missing []string
	for _, header := range RequiredHeaders {
		if !strings.Contains(trimmed, header) {
			missing = append(missing, header)
		}
	}
	if len(missing) == 0 {
		return trimmed
	}

	parts := make([]string, 0, len(missing)+1)
	if trimmed != "" {
		parts = append(parts, trimmed)
	}
	for _, header := range missing {
		parts = append(parts, "\n"+header+"\n"+missingSectionBody)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
