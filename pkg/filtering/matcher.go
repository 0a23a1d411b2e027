package filtering

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Matcher defines the interface for string matching strategies.
type Matcher interface {
	// Match tests if the given value matches.
	Match(value string) bool

	// String returns a string representation of the matcher.
	String() string
}

// CompileFull compiles pattern so that it only matches an entire string.
//
// The pattern is wrapped as ^(?:pattern)$ which keeps alternations inside the
// anchors and leaves capture group numbering untouched.
//
// Parameters:
//   - pattern: RE2 pattern from settings
//
// Returns:
//   - *regexp.Regexp: Anchored expression
//   - error: Compile error with the original pattern quoted
func CompileFull(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", pattern, err)
	}
	return re, nil
}

// SetMatcher matches strings contained in a fixed set of names.
//
// Example:
//
//	matcher := filtering.NewSetMatcher([]string{"linux", "linux-lts"})
//	matcher.Match("linux")     // returns true
//	matcher.Match("linux-zen") // returns false
type SetMatcher struct {
	names map[string]struct{}
}

// NewSetMatcher creates a matcher for the given names.
func NewSetMatcher(names []string) *SetMatcher {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return &SetMatcher{names: set}
}

// Match tests if value is one of the names.
func (m *SetMatcher) Match(value string) bool {
	_, ok := m.names[value]
	return ok
}

// String returns the sorted names joined with commas.
func (m *SetMatcher) String() string {
	names := make([]string, 0, len(m.names))
	for name := range m.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// RegexMatcher matches strings whose entire content matches a pattern.
//
// Fields:
//   - Pattern: The regex pattern string as written in settings
//   - regex: Anchored compiled regex (set by NewRegexMatcher)
//
// Example:
//
//	matcher, _ := filtering.NewRegexMatcher(`linux(-\w+)?`)
//	matcher.Match("linux-zen")  // returns true
//	matcher.Match("linux-zen-headers") // returns false
type RegexMatcher struct {
	// Pattern is the original regex pattern string.
	Pattern string

	// regex is the compiled, anchored regular expression.
	regex *regexp.Regexp
}

// NewRegexMatcher creates a full-string regex matcher.
//
// Parameters:
//   - pattern: Regex pattern matched against the whole value
//
// Returns:
//   - *RegexMatcher: A RegexMatcher instance
//   - error: Error if the pattern does not compile
func NewRegexMatcher(pattern string) (*RegexMatcher, error) {
	regex, err := CompileFull(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexMatcher{Pattern: pattern, regex: regex}, nil
}

// Match tests if the whole value matches the pattern.
func (m *RegexMatcher) Match(value string) bool {
	if m.regex == nil {
		return false
	}
	return m.regex.MatchString(value)
}

// String returns the regex pattern prefixed with a tilde.
func (m *RegexMatcher) String() string {
	return "~" + m.Pattern
}

// AnyMatcher matches if any of its matchers match.
type AnyMatcher struct {
	Matchers []Matcher
}

// NewAnyMatcher creates a matcher that matches when any child matches.
func NewAnyMatcher(matchers ...Matcher) *AnyMatcher {
	return &AnyMatcher{Matchers: matchers}
}

// Match tests if value matches any child matcher.
func (m *AnyMatcher) Match(value string) bool {
	for _, matcher := range m.Matchers {
		if matcher.Match(value) {
			return true
		}
	}
	return false
}

// String joins the child matchers with " | ".
func (m *AnyMatcher) String() string {
	parts := make([]string, 0, len(m.Matchers))
	for _, matcher := range m.Matchers {
		parts = append(parts, matcher.String())
	}
	return strings.Join(parts, " | ")
}

// NewRuleMatcher builds the name matcher for one verbose rule.
//
// A name matches when it is in names OR the whole name matches pattern.
// An empty pattern adds no regex matcher, so a rule with neither names nor
// pattern matches nothing.
//
// Parameters:
//   - names: Explicit package names
//   - pattern: Optional full-name regex
//
// Returns:
//   - Matcher: Combined matcher
//   - error: Error if pattern does not compile
func NewRuleMatcher(names []string, pattern string) (Matcher, error) {
	matchers := []Matcher{NewSetMatcher(names)}
	if pattern != "" {
		re, err := NewRegexMatcher(pattern)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, re)
	}
	return NewAnyMatcher(matchers...), nil
}

// Verify interface implementations.
var (
	_ Matcher = (*SetMatcher)(nil)
	_ Matcher = (*RegexMatcher)(nil)
	_ Matcher = (*AnyMatcher)(nil)
)
