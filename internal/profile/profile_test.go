package profile

import (
	"strings"
	"testing"
)

func TestMergeFirstWriteWins(t *testing.T) {
	p := New("29세/수도권/중소기업/월250/미혼")

	if !p.Merge("자녀수", "2명") {
		t.Fatal("first merge of 자녀수 should succeed")
	}
	before := p.String()

	if p.Merge("자녀수", "3명") {
		t.Error("second merge of same field should be rejected")
	}
	if p.String() != before {
		t.Errorf("profile changed by rejected merge:\nbefore: %s\nafter:  %s", before, p.String())
	}
	if got := p.Fields()[0].Value; got != "2명" {
		t.Errorf("first write should win, value = %q", got)
	}
}

func TestMergeAppendsAndPreserves(t *testing.T) {
	p := New("29세/수도권")
	p.Merge("자녀수", "2명")

	before := p.String()
	if !p.Merge("자동차보유", "없음") {
		t.Fatal("merging a new field should succeed")
	}

	after := p.String()
	if len(after) <= len(before) {
		t.Errorf("appending a new field should grow the profile: %q -> %q", before, after)
	}
	if !strings.Contains(after, before) {
		t.Errorf("prior profile content not preserved verbatim:\nbefore: %s\nafter:  %s", before, after)
	}
	if !strings.Contains(after, "자동차보유: 없음") {
		t.Errorf("new field fragment missing from %q", after)
	}
}

func TestMergeNameInsideValueIsNotDuplicate(t *testing.T) {
	// The field name 자녀 appears inside the value of 비고; a substring check
	// would wrongly treat 자녀 as already present.
	p := New("29세/수도권")
	p.Merge("비고", "자녀: 관련 상담 이력 있음 참고")

	if !p.Merge("자녀", "있음") {
		t.Error("field name occurring inside another field's value must not block a merge")
	}
}

func TestHasAgainstStructuredLine(t *testing.T) {
	p := New("29세/수도권/미혼")
	p.SetStructured("나이: 29세, 지역: 수도권, 혼인상태: 미혼")

	if !p.Has("나이") {
		t.Error("Has should see fields named in the structured line")
	}
	if p.Has("자녀수") {
		t.Error("Has should not report absent fields")
	}
	if p.Merge("지역", "서울") {
		t.Error("merge must respect fields already in the structured line")
	}
}

func TestStringFallsBackToRaw(t *testing.T) {
	p := New("29세/수도권/중소기업/월250/미혼")
	if got := p.String(); got != "29세/수도권/중소기업/월250/미혼" {
		t.Errorf("String() = %q, want raw profile", got)
	}

	p.SetStructured("")
	if got := p.String(); got != "29세/수도권/중소기업/월250/미혼" {
		t.Errorf("empty structured line must not replace raw text, got %q", got)
	}
}

func TestStringSkipsStructuredDuplicates(t *testing.T) {
	p := New("29세")
	p.Merge("자녀수", "2명")
	p.SetStructured("나이: 29세, 자녀수: 2명")

	s := p.String()
	if strings.Count(s, "자녀수") != 1 {
		t.Errorf("field repeated in rendering: %q", s)
	}
}

func TestMergeRejectsEmpty(t *testing.T) {
	p := New("29세")
	if p.Merge("", "값") {
		t.Error("empty name must be rejected")
	}
	if p.Merge("필드", "  ") {
		t.Error("empty value must be rejected")
	}
}
