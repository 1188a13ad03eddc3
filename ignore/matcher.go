package ignore

import (
	"bufio"
	"bytes"
	"strings"
)

// Matcher holds one parsed ignore file: an ordered list of patterns,
// each with include/exclude polarity and a directory-only flag.
type Matcher struct {
	patterns      []*Pattern
	caseSensitive bool
}

// Option configures a Matcher at construction.
type Option func(*matcherConfig)

type matcherConfig struct {
	caseSensitive bool
}

// CaseSensitive controls whether pattern matching folds case, to
// match EdenFS's case-insensitive mode on some platforms. Default
// true.
func CaseSensitive(v bool) Option {
	return func(c *matcherConfig) { c.caseSensitive = v }
}

// Parse parses the contents of one ignore file (e.g. a ".gitignore"
// blob) into a Matcher. Patterns are evaluated in declared order, last
// match wins. Malformed lines are skipped rather than surfaced.
func Parse(contents []byte, opts ...Option) *Matcher {
	cfg := matcherConfig{caseSensitive: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Matcher{caseSensitive: cfg.caseSensitive}

	scanner := bufio.NewScanner(bytes.NewReader(contents))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		p, err := parsePattern(trimmed, cfg.caseSensitive)
		if err != nil {
			// IgnorePatternParseError: behave as if the pattern were
			// absent rather than failing the whole matcher.
			continue
		}
		m.patterns = append(m.patterns, p)
	}
	return m
}

// Empty reports whether the matcher has no usable patterns — callers
// use this to skip pushing a no-op frame onto an IgnoreStack.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// Match evaluates path (relative to this matcher's own scope root)
// against every pattern in order and returns the last one that had an
// opinion, or NoMatch if none did.
func (m *Matcher) Match(path string, isDir bool) MatchResult {
	if m == nil {
		return NoMatch
	}
	result := NoMatch
	for _, p := range m.patterns {
		if !p.Matches(path, isDir) {
			continue
		}
		if p.Negated {
			result = Include
		} else {
			result = Exclude
		}
	}
	return result
}
