// Package profile holds what is known about the user during a consultation.
//
// The profile starts as free text ("29세/수도권/중소기업/월250/미혼"), may be
// replaced by a model-structured one-line rendering, and accumulates fields
// learned from clarifying questions. Merging is first-write-wins by exact
// field name; a field name appearing inside another field's value never
// counts as a duplicate.
package profile

import "strings"

// Field is a single named profile attribute.
type Field struct {
	Name  string
	Value string
}

// Profile is an ordered, append-only record of user attributes.
// It is mutated by a single goroutine only.
type Profile struct {
	raw        string
	structured string
	fields     []Field
}

// New creates a profile from the user's free-text description.
func New(raw string) *Profile {
	return &Profile{raw: strings.TrimSpace(raw)}
}

// Raw returns the original free-text profile.
func (p *Profile) Raw() string {
	return p.raw
}

// SetStructured installs the model-structured one-line rendering
// ("나이: 29세, 지역: 수도권, ..."). An empty line is ignored so a failed
// structuring step leaves the profile untouched.
func (p *Profile) SetStructured(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	p.structured = line
}

// Structured returns the structured rendering, or "" if none was set.
func (p *Profile) Structured() string {
	return p.structured
}

// Has reports whether a field of the given name is already present, either
// as a merged field or named in the structured line.
func (p *Profile) Has(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, f := range p.fields {
		if f.Name == name {
			return true
		}
	}
	for _, n := range p.structuredNames() {
		if n == name {
			return true
		}
	}
	return false
}

// Merge appends a field unless one of the same name already exists.
// It reports whether the field was added.
func (p *Profile) Merge(name, value string) bool {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return false
	}
	if p.Has(name) {
		return false
	}
	p.fields = append(p.fields, Field{Name: name, Value: value})
	return true
}

// Fields returns the merged fields in insertion order.
func (p *Profile) Fields() []Field {
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// String renders the profile as a single line: the structured rendering
// (or the raw text when structuring never succeeded) followed by merged
// fields as "이름: 값" fragments. Fields already named in the structured
// line are not repeated.
func (p *Profile) String() string {
	var b strings.Builder

	if p.structured != "" {
		b.WriteString(p.structured)
	} else {
		b.WriteString(p.raw)
	}

	names := p.structuredNames()
	for _, f := range p.fields {
		if containsName(names, f.Name) {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
	}

	return b.String()
}

// structuredNames parses field names out of the structured line.
func (p *Profile) structuredNames() []string {
	if p.structured == "" {
		return nil
	}
	parts := strings.Split(p.structured, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name, _, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
