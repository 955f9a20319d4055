package value

import (
	"fmt"
	"regexp"
	"strings"
)

// patternFlagOrder is the canonical flag order. Flags() always reports in
// this order regardless of construction order.
const patternFlagOrder = "dgimsuvy"

// Pattern is a compiled text-matching pattern with its source and flags.
// Matching uses RE2 syntax; the i, m and s flags become inline flags,
// the remaining flags are carried for fidelity only.
type Pattern struct {
	source string
	flags  string
	re     *regexp.Regexp
}

func (*Pattern) value() {}

// NewPattern compiles source with flags.
// Returns an error on unknown or repeated flags and on invalid syntax.
func NewPattern(source, flags string) (*Pattern, error) {
	normalized, err := normalizeFlags(flags)
	if err != nil {
		return nil, err
	}

	var inline strings.Builder
	for _, f := range normalized {
		switch f {
		case 'i', 'm', 's':
			inline.WriteRune(f)
		}
	}
	expr := source
	if inline.Len() > 0 {
		expr = "(?" + inline.String() + ")" + source
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern /%s/: %w", source, err)
	}
	return &Pattern{source: source, flags: normalized, re: re}, nil
}

// MustPattern is like NewPattern but panics on error.
func MustPattern(source, flags string) *Pattern {
	p, err := NewPattern(source, flags)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the pattern text as written.
func (p *Pattern) Source() string { return p.source }

// Flags returns the flags in canonical order.
func (p *Pattern) Flags() string { return p.flags }

// Regexp returns the compiled expression.
func (p *Pattern) Regexp() *regexp.Regexp { return p.re }

// MatchString reports whether s contains a match.
func (p *Pattern) MatchString(s string) bool { return p.re.MatchString(s) }

// String renders the pattern as /source/flags.
func (p *Pattern) String() string { return "/" + p.source + "/" + p.flags }

// ParsePattern parses the /source/flags form produced by String.
func ParsePattern(s string) (*Pattern, error) {
	end := strings.LastIndexByte(s, '/')
	if len(s) < 2 || s[0] != '/' || end == 0 {
		return nil, fmt.Errorf("pattern %q: expected /source/flags", s)
	}
	return NewPattern(s[1:end], s[end+1:])
}

func normalizeFlags(flags string) (string, error) {
	seen := make(map[rune]bool, len(flags))
	for _, f := range flags {
		if !strings.ContainsRune(patternFlagOrder, f) {
			return "", fmt.Errorf("unknown pattern flag %q", f)
		}
		if seen[f] {
			return "", fmt.Errorf("repeated pattern flag %q", f)
		}
		seen[f] = true
	}

	var b strings.Builder
	for _, f := range patternFlagOrder {
		if seen[f] {
			b.WriteRune(f)
		}
	}
	return b.String(), nil
}
