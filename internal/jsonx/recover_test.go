package jsonx

import (
	"testing"
)

func TestRecoverObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantOK   bool
		wantKeys map[string]string
	}{
		{
			name:     "Bare JSON object",
			input:    `{"나이": "29세", "지역": "수도권"}`,
			wantOK:   true,
			wantKeys: map[string]string{"나이": "29세", "지역": "수도권"},
		},
		{
			name:     "Object inside fenced code block",
			input:    "```json\n{\"나이\": \"29세\"}\n```",
			wantOK:   true,
			wantKeys: map[string]string{"나이": "29세"},
		},
		{
			name:     "Object inside unlabelled fence",
			input:    "```\n{\"지역\": \"수도권\"}\n```",
			wantOK:   true,
			wantKeys: map[string]string{"지역": "수도권"},
		},
		{
			name:     "Reasoning block before fenced object",
			input:    "<think>프로필을 분석해보면...</think>\n```json\n{\"나이\": \"29세\"}\n```",
			wantOK:   true,
			wantKeys: map[string]string{"나이": "29세"},
		},
		{
			name:     "Object surrounded by prose",
			input:    "다음은 결과입니다: {\"혼인상태\": \"미혼\"} 확인 바랍니다.",
			wantOK:   true,
			wantKeys: map[string]string{"혼인상태": "미혼"},
		},
		{
			name:   "Unparseable garbage",
			input:  "죄송합니다. 답변을 생성할 수 없습니다.",
			wantOK: false,
		},
		{
			name:   "Broken braces",
			input:  "{\"나이\": ",
			wantOK: false,
		},
		{
			name:   "Empty input",
			input:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, ok := RecoverObject(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("RecoverObject(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !tt.wantOK {
				if obj != nil {
					t.Errorf("expected nil object on failure, got %v", obj)
				}
				return
			}
			for key, want := range tt.wantKeys {
				got, exists := obj[key]
				if !exists {
					t.Errorf("missing key %q in recovered object", key)
					continue
				}
				if got != want {
					t.Errorf("key %q = %v, want %v", key, got, want)
				}
			}
		})
	}
}

func TestRecoverObjectReasoningEquivalence(t *testing.T) {
	plain := "```json\n{\"자녀수\": \"2명\"}\n```"
	wrapped := "<think>질문과 답변을 대조한다</think>" + plain

	a, okA := RecoverObject(plain)
	b, okB := RecoverObject(wrapped)
	if !okA || !okB {
		t.Fatalf("both variants should recover: plain=%v wrapped=%v", okA, okB)
	}
	if a["자녀수"] != b["자녀수"] {
		t.Errorf("reasoning wrapper changed result: %v vs %v", a, b)
	}
}

func TestRecoverArray(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantLen int
	}{
		{
			name:    "Bare array",
			input:   `[{"field": "자녀수", "question": "자녀가 있나요?"}]`,
			wantOK:  true,
			wantLen: 1,
		},
		{
			name:    "Fenced array",
			input:   "```json\n[\"a\", \"b\"]\n```",
			wantOK:  true,
			wantLen: 2,
		},
		{
			name:    "Array in prose",
			input:   "필터링 결과: [\"질문1\"] 입니다",
			wantOK:  true,
			wantLen: 1,
		},
		{
			name:    "Empty array",
			input:   "[]",
			wantOK:  true,
			wantLen: 0,
		},
		{
			name:   "No array present",
			input:  "모든 질문이 필요합니다",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arr, ok := RecoverArray(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("RecoverArray(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if tt.wantOK && len(arr) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(arr), tt.wantLen)
			}
		})
	}
}
