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

// Package prompt renders the instruction templates sent to the Solar model.
//
// Templates follow a Role / Instructions / Constraints / Format / Query
// layout. JSON-producing prompts state "Return ONLY" constraints and carry a
// verification checklist; the recovery parser still handles responses that
// violate them.
package prompt

import (
	"fmt"
	"sort"
	"strings"
)

// MaxPolicyTextRunes caps the policy excerpt embedded in the plan prompt.
const MaxPolicyTextRunes = 8000

// preferredFieldOrder fixes the rendering order for the common profile
// fields; anything else is appended alphabetically.
var preferredFieldOrder = []string{"나이", "지역", "직업", "월소득", "혼인상태"}

// BuildProfileParse asks the model to convert a free-text profile into a
// JSON object with Korean field names.
func BuildProfileParse(profileText string) string {
	return fmt.Sprintf(`# Role
당신은 사용자 프로필 문자열을 구조화된 데이터로 변환하는 전문가입니다.

# Instructions
주어진 프로필 문자열을 분석하여 JSON 객체로 변환하세요.
- 슬래시(/)로 구분된 각 항목을 적절한 필드로 매핑
- 나이, 지역, 직업/상태, 월소득, 혼인/가족 정보 추출
- 각 필드는 한국어 키로 표현

# Constraints
- MUST return ONLY valid JSON object
- NEVER add explanations, markdown, or code blocks
- 빈 필드는 빈 문자열("")로 표시
- 추가 정보가 있으면 적절한 필드명으로 추가

# Format
{
  "나이": "29세",
  "지역": "수도권",
  "직업": "중소기업",
  "월소득": "월250",
  "혼인상태": "미혼"
}

# Query
프로필: %s

위 프로필을 분석하여 JSON 객체로 변환하세요.`, profileText)
}

// FormatStructured renders a parsed profile object as the one-line
// "키: 값, 키: 값" form. Known fields come first in a fixed order so the
// rendering is deterministic; empty values are dropped.
func FormatStructured(parsed map[string]any) string {
	if len(parsed) == 0 {
		return ""
	}

	used := make(map[string]bool, len(parsed))
	var parts []string

	appendField := func(key string) {
		value, ok := parsed[key]
		if !ok || used[key] {
			return
		}
		used[key] = true
		s := strings.TrimSpace(fmt.Sprintf("%v", value))
		if s == "" {
			return
		}
		parts = append(parts, key+": "+s)
	}

	for _, key := range preferredFieldOrder {
		appendField(key)
	}

	rest := make([]string, 0, len(parsed))
	for key := range parsed {
		if !used[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		appendField(key)
	}

	return strings.Join(parts, ", ")
}

// BuildPlan asks the model to classify eligibility conditions and propose
// clarifying questions and action candidates. The policy text is capped at
// MaxPolicyTextRunes; ieExtract is optional enrichment.
func BuildPlan(profileText, policyText, ieExtract string) string {
	var ieSection string
	if ieExtract != "" {
		ieSection = fmt.Sprintf("\n## 추출된 핵심 정보 (참고용)\n%s\n", ieExtract)
	}

	return fmt.Sprintf(`# Role
당신은 정부 정책 문서를 분석하여 개인 맞춤형 자격 조건과 필요 질문을 도출하는 정책 분석 전문가입니다.

# Instructions
사용자 프로필과 정책 본문을 비교 분석하여 다음을 도출하세요:

1. 확실한 조건 (certain_conditions): 프로필로 명확히 판단 가능한 자격 조건
2. 불확실한 조건 (uncertain_conditions): 프로필만으로는 판단하기 어려운 조건
3. 질문 (questions): uncertain_conditions를 해소하기 위해 필요한 질문 목록
4. 행동 후보 (action_candidates): 신청 가능하거나 검토가 필요한 정책 목록

## 질문 생성 원칙 (CRITICAL)
- certain_conditions에 이미 결론 낸 내용은 절대 questions에 넣지 말 것
  - 예: certain에 "자녀 없음"이면 "자녀 있나요?" 질문 금지
- 프로필에 이미 답이 있는 내용은 질문하지 않음
- 질문은 한 문장으로 짧고 간결하게
  - 정책명, 혜택 설명 등을 질문에 포함하지 말 것
  - 바람직: "자녀가 있나요?", "신용카드를 사용하고 있나요?"
- 연관 질문의 논리적 순서
  - 선행 질문에서 "아니오"가 확정되면 후속 질문 생성 금지
  - 선행 질문에 "예"일 때만 의미 있는 후속 질문만 포함

# Constraints
- CRITICAL: Return ONLY valid JSON object
- NEVER add markdown code blocks or explanations
- questions 배열: 각 항목은 {"field": "필드명", "question": "질문 전문"} 구조 필수
- question 필드: 한 문장으로 짧게, 정책명/혜택 설명 포함 금지
- 정책 본문에 근거 없는 내용 생성 금지
- 모든 배열 필드는 반드시 존재해야 함 (빈 배열이라도 [] 표시)

# Format
{
  "certain_conditions": ["조건1: 설명", "조건2: 설명"],
  "uncertain_conditions": ["불확실 조건1: 이유"],
  "questions": [
    {"field": "주식거래여부", "question": "주식 거래 경험이 있나요?"},
    {"field": "배당소득여부", "question": "배당소득이 있나요?"}
  ],
  "action_candidates": ["정책A 신청 가능", "정책B 검토 필요"]
}

# VERIFICATION CHECKLIST
응답 전 반드시 확인:
1. certain_conditions에 있는 내용과 questions가 겹치지 않는가?
2. 각 question이 간결하며, 정책명/혜택 설명이 포함되지 않았는가?
3. 연관 질문 중 선행 "아니오" 시 의미 없는 후속 질문은 제외했는가?
4. JSON 구조가 위 Format과 정확히 일치하는가?
5. questions 배열의 각 항목에 field와 question이 모두 있는가?

# Context
## 사용자 프로필
%s

## 정책 문서
%s
%s
# Query
위 프로필과 정책을 종합 분석하여 JSON을 생성하세요. 코드 블록 없이 JSON만 출력하세요.`,
		profileText, truncateRunes(policyText, MaxPolicyTextRunes), ieSection)
}

// BuildQuestionFilter asks the model to drop questions whose answers are
// already explicit in the profile. questionsJSON is the serialized question
// list.
func BuildQuestionFilter(profileText, questionsJSON string) string {
	return fmt.Sprintf(`# Role
당신은 사용자 프로필을 분석하여 불필요한 질문을 걸러내는 전문가입니다.

# Instructions
프로필에 명시적으로 답이 적힌 질문만 제외하고, 나머지 질문은 그대로 반환하세요.

## 판단 기준 (CRITICAL)
- 제외: 프로필에 해당 정보가 직접·명시적으로 적혀 있을 때만 제외
  - 예: 프로필에 "자녀: 2명" 적혀 있으면 "자녀 있나요?" 제외
- 제외 금지: 유추·추측으로 제외하지 말 것
  - 예: "미혼"만 있다고 "자녀 없음"으로 추측해서 제외 금지
  - 예: "월0"만 있다고 "신용카드/보육수당 불필요"로 추측해서 제외 금지
- 프로필 형식: "나이/지역/직업/월소득/혼인상태" 등 → 자녀, 신용카드 등은 보통 없음 → 이 질문들은 유지

# Constraints
- MUST return ONLY a JSON array
- 각 항목은 원본 질문 객체 구조 유지 (field, question 포함)
- NEVER add explanations or markdown
- 모든 질문을 제외해야 한다면 빈 배열 [] 반환

# Format
[
  {"field": "필드명", "question": "질문"},
  {"field": "필드명2", "question": "질문2"}
]

# Context
## 사용자 프로필
%s

## 질문 목록
%s

# Query
위 프로필에 명시적으로 답이 적힌 질문만 제외하고, 나머지는 그대로 JSON 배열로 반환하세요. 헷갈리면 질문을 유지하세요. 코드 블록 없이 JSON 배열만 출력하세요.`,
		profileText, questionsJSON)
}

// BuildProfileExtract asks the model to extract profile fields from the
// user's answer to a clarifying question. fieldName is an optional hint.
func BuildProfileExtract(answer, questionText, fieldName string) string {
	var fieldHint string
	if fieldName != "" {
		fieldHint = "\n필드명 힌트: " + fieldName
	}

	return fmt.Sprintf(`# Role
당신은 사용자 답변에서 프로필 정보를 추출하는 전문가입니다.

# Instructions
질문과 사용자 답변을 분석하여 프로필에 추가할 필드명과 값을 JSON으로 반환하세요.

## 추출 원칙
- 답변에서 명확히 확인된 정보만 추출
- 필드명은 한국어로 간결하게 (예: "주식거래여부", "자녀수", "자동차보유")
- 값은 구체적이고 명확하게 (예: "있음", "없음", "2명")

# Constraints
- Return ONLY valid JSON object
- NEVER add explanations or markdown
- 키: 필드명 (한국어)
- 값: 문자열
- 답변에서 추출할 정보가 없으면 빈 객체 {} 반환

# Format
{
  "필드명1": "값1",
  "필드명2": "값2"
}

# Context
질문: %s%s

사용자 답변: %s

# Query
위 답변에서 프로필 필드를 추출하여 JSON으로 반환하세요. 코드 블록 없이 JSON만 출력하세요.`,
		questionText, fieldHint, answer)
}

// BuildFinalReport renders the final consultation prompt. planJSON is the
// serialized plan result; answeredJSON and ieExtract are optional.
func BuildFinalReport(profileText, policyText, planJSON, answeredJSON, ieExtract string) string {
	var answeredSection string
	if answeredJSON != "" {
		answeredSection = fmt.Sprintf("\n## 추가 확인된 정보\n%s\n", answeredJSON)
	}

	var ieSection string
	if ieExtract != "" {
		ieSection = fmt.Sprintf("\n## 추출된 핵심 정보 (참고용)\n%s\n", ieExtract)
	}

	return fmt.Sprintf(`# Role
당신은 정부 정책을 개인 맞춤형 행동 가이드로 변환하는 정책 상담 전문가입니다.

# Instructions
사용자 프로필, 정책 문서, Agent 분석 결과를 종합하여 최종 상담 결과를 생성하세요.

## 출력 구조 (MANDATORY)
반드시 아래 5개 섹션을 정확한 헤더명으로 포함해야 합니다:

[자격 판단]
- 각 정책별 자격 충족 여부와 구체적 이유
- "자격 충족", "자격 미충족", "자격 판단 필요" 중 하나로 명시

[신청 가능 정책]
- 지금 당장 신청할 수 있는 정책 2~3가지
- 각 정책의 간단한 설명 포함

[예상 혜택]
- 각 정책의 구체적이고 실질적인 혜택
- 금액, 비율, 기간 등 정량적 정보 포함

[다음 단계]
- 구체적이고 실행 가능한 행동 순서
- 번호 매기기로 명확하게 제시

[확인 필요 사항]
- 더 정확한 판단을 위해 추가로 확인이 필요한 정보
- 구체적인 확인 항목 나열

# Constraints
- CRITICAL: 위 5개 헤더를 정확히 사용 (대괄호 [...] 포함)
- 정책 본문과 Agent 분석에 근거한 내용만 작성
- 구체적이고 실행 가능한 안내 제공
- NEVER use markdown bold (**text**) - 터미널 출력용
- 근거 없는 추측이나 할루시네이션 금지

# VERIFICATION CHECKLIST
응답 전 반드시 확인:
1. [자격 판단] 섹션이 있는가?
2. [신청 가능 정책] 섹션이 있는가?
3. [예상 혜택] 섹션이 있는가?
4. [다음 단계] 섹션이 있는가?
5. [확인 필요 사항] 섹션이 있는가?
6. 각 섹션에 구체적인 내용이 포함되어 있는가?
7. 정책 본문에 근거한 내용인가?

# Context
## 사용자 프로필
%s
%s
## Agent 분석 결과
%s

## 정책 문서
%s
%s
# Query
위 정보를 종합하여 최종 상담 결과를 생성하세요. 5개 필수 섹션을 모두 포함하고, 구체적이고 실행 가능한 안내를 제공하세요.`,
		profileText, answeredSection, planJSON, policyText, ieSection)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
