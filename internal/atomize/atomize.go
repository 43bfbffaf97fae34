// Package atomize splits compound recipe instructions into single-action
// steps before the FSM is initialized.
//
// Atomization granularity is a policy, not a constant: which conjunctions
// split an instruction is configurable per recipe source. Remote extraction
// collaborators atomize on their side; this package applies the same policy
// to locally loaded recipe books. It runs once, at load time, so step numbering
// is never regenerated afterward.
package atomize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Policy controls how instructions are split.
type Policy struct {
	// Conjunctions are scanned in order; the first one found splits the
	// instruction, and the remainder is re-scanned. Matching is
	// case-insensitive.
	Conjunctions []string
}

// DefaultPolicy splits on sequential and simultaneous conjunctions.
// Coordinating "and" is deliberately not split on: "mix flour and eggs" is
// one action.
func DefaultPolicy() Policy {
	return Policy{
		Conjunctions: []string{
			", and then ",
			" and then ",
			", then ",
			" then ",
			", while ",
			" while ",
			"; ",
		},
	}
}

// Split breaks an instruction into atomic actions. Fragments are trimmed and
// capitalized; empty fragments are dropped. A text with no conjunction comes
// back as a single action.
func (p Policy) Split(text string) []string {
	parts := []string{text}
	for _, conj := range p.Conjunctions {
		var next []string
		for _, part := range parts {
			next = append(next, splitFold(part, conj)...)
		}
		parts = next
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(strings.Trim(strings.TrimSpace(part), ".,;"))
		if part == "" {
			continue
		}
		out = append(out, capitalize(part))
	}
	return out
}

// SplitAll applies the policy to an ordered instruction list.
func (p Policy) SplitAll(texts []string) []string {
	var out []string
	for _, t := range texts {
		out = append(out, p.Split(t)...)
	}
	return out
}

// splitFold splits s around sep, case-insensitively.
func splitFold(s, sep string) []string {
	lower := strings.ToLower(s)
	sep = strings.ToLower(sep)

	var parts []string
	for {
		i := strings.Index(lower, sep)
		if i < 0 {
			parts = append(parts, s)
			return parts
		}
		parts = append(parts, s[:i])
		s = s[i+len(sep):]
		lower = lower[i+len(sep):]
	}
}

// capitalize uppercases the first rune. Byte-based slicing would split a
// multibyte leading rune and corrupt the step text.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
