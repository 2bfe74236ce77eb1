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

// Package docparse turns the document-parse service's shape-shifting
// response into a single bounded text blob usable in prompts.
package docparse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// MaxPolicyTextLen caps the normalized policy text, bounding downstream
// prompt size.
const MaxPolicyTextLen = 20000

// shape classifies the parsed-document response. The parsing service
// returns one of a small closed set of layouts; dispatch is explicit
// rather than probing fields ad hoc.
type shape int

const (
	shapeFlat shape = iota
	shapeNested
	shapeElements
	shapeUnknown
)

var (
	flatKeys    = []string{"html", "text", "content"}
	wrapperKeys = []string{"content", "html"}
	nestedKeys  = []string{"html", "text"}
	elementKeys = []string{"text", "markdown", "html"}

	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// PolicyText derives the canonical policy text from a parsed document.
// It never returns an unusable value: when no textual field matches, the
// document is serialized as a last resort.
func PolicyText(doc map[string]any) string {
	var raw string
	switch classify(doc) {
	case shapeFlat:
		raw = flatText(doc)
	case shapeNested:
		raw = nestedText(doc)
	case shapeElements:
		raw = elementText(doc)
	default:
		raw = serialize(doc)
	}
	return Normalize(raw)
}

// Normalize strips markup tags, collapses whitespace runs to single spaces,
// and truncates to MaxPolicyTextLen characters.
func Normalize(raw string) string {
	text := tagPattern.ReplaceAllString(raw, " ")
	text = spacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) > MaxPolicyTextLen {
		runes = runes[:MaxPolicyTextLen]
	}
	return string(runes)
}

func classify(doc map[string]any) shape {
	for _, key := range flatKeys {
		if s, ok := doc[key].(string); ok && strings.TrimSpace(s) != "" {
			return shapeFlat
		}
	}
	for _, key := range wrapperKeys {
		wrapper, ok := doc[key].(map[string]any)
		if !ok {
			continue
		}
		for _, nested := range nestedKeys {
			if s, ok := wrapper[nested].(string); ok && strings.TrimSpace(s) != "" {
				return shapeNested
			}
		}
	}
	if elements, ok := doc["elements"].([]any); ok && len(elements) > 0 {
		return shapeElements
	}
	return shapeUnknown
}

func flatText(doc map[string]any) string {
	for _, key := range flatKeys {
		if s, ok := doc[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func nestedText(doc map[string]any) string {
	for _, key := range wrapperKeys {
		wrapper, ok := doc[key].(map[string]any)
		if !ok {
			continue
		}
		for _, nested := range nestedKeys {
			if s, ok := wrapper[nested].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// elementText concatenates the textual content of each typed element in
// document order, one space between elements.
func elementText(doc map[string]any) string {
	elements, _ := doc["elements"].([]any)

	var parts []string
	for _, raw := range elements {
		element, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if s := elementContent(element); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func elementContent(element map[string]any) string {
	if content, ok := element["content"].(map[string]any); ok {
		for _, key := range elementKeys {
			if s, ok := content[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	if s, ok := element["text"].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return ""
}

func serialize(doc map[string]any) string {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Sprintf("%v", doc)
	}
	return string(data)
}
