// Package jsonx recovers JSON values from free-form model output.
//
// Models are instructed to return bare JSON, but in practice responses may
// carry a reasoning block, a fenced code block, or surrounding prose. The
// recovery functions here reduce the text step by step and report ok=false
// when nothing parseable remains; failure to recover is not an error.
package jsonx

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	reasoningOpen  = "<think>"
	reasoningClose = "</think>"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// RecoverObject extracts a JSON object from text.
func RecoverObject(text string) (map[string]any, bool) {
	reduced := reduce(text)

	var obj map[string]any
	if err := json.Unmarshal([]byte(reduced), &obj); err == nil {
		return obj, true
	}

	span, ok := bracketSpan(reduced, '{', '}')
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// RecoverArray extracts a JSON array from text.
func RecoverArray(text string) ([]any, bool) {
	reduced := reduce(text)

	var arr []any
	if err := json.Unmarshal([]byte(reduced), &arr); err == nil {
		return arr, true
	}

	span, ok := bracketSpan(reduced, '[', ']')
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal([]byte(span), &arr); err != nil {
		return nil, false
	}
	return arr, true
}

// reduce strips a reasoning block and a fenced code block, in that order.
// The reasoning block is only removed when its closing marker is present;
// an unterminated block would otherwise swallow the whole payload.
func reduce(text string) string {
	if end := strings.Index(text, reasoningClose); end >= 0 {
		start := strings.Index(text, reasoningOpen)
		if start < 0 || start > end {
			start = 0
		}
		text = text[:start] + text[end+len(reasoningClose):]
	}

	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	return strings.TrimSpace(text)
}

// bracketSpan returns the substring from the first opening bracket to the
// last closing bracket of the expected kind, inclusive.
func bracketSpan(text string, open, closing byte) (string, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, closing)
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
