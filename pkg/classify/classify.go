package classify

import (
	"fmt"
	"regexp"

	"github.com/ajxudir/pacwatch/pkg/filtering"
)

// Component names one granularity of version change.
type Component string

// Pseudo components that are not produced by rules.
const (
	// NotInstalled is reported when the old version is NotInstalledVersion.
	NotInstalled Component = "not-installed"

	// Unknown is reported when no rule matches both versions.
	Unknown Component = "unknown"
)

// NotInstalledVersion is the old-version sentinel for packages that were not
// installed under their pending name.
const NotInstalledVersion = "not installed"

// Rule maps the capture groups of Pattern, in order, to Parts.
//
// When Parts is empty the names of the pattern's named groups are used.
type Rule struct {
	Pattern string
	Parts   []Component
}

// RuleError reports a rule whose pattern does not compile.
type RuleError struct {
	Index   int
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d: %v", e.Index, e.Err)
}

// Unwrap returns the compile error.
func (e *RuleError) Unwrap() error {
	return e.Err
}

type compiledRule struct {
	re    *regexp.Regexp
	parts []Component
}

// Classifier compares version strings with an ordered rule list.
// It is immutable after Compile and safe for concurrent use.
type Classifier struct {
	rules []compiledRule
}

// Compile builds a Classifier from rules, preserving their order.
//
// Parameters:
//   - rules: Ordered rules, highest priority first
//
// Returns:
//   - *Classifier: Ready to use classifier
//   - error: *RuleError for the first pattern that does not compile
func Compile(rules []Rule) (*Classifier, error) {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for i, rule := range rules {
		re, err := filtering.CompileFull(rule.Pattern)
		if err != nil {
			return nil, &RuleError{Index: i, Pattern: rule.Pattern, Err: err}
		}
		parts := rule.Parts
		if len(parts) == 0 {
			for _, name := range re.SubexpNames()[1:] {
				parts = append(parts, Component(name))
			}
		}
		c.rules = append(c.rules, compiledRule{re: re, parts: parts})
	}
	return c, nil
}

// MustCompile is like Compile but panics if a pattern does not compile.
func MustCompile(rules []Rule) *Classifier {
	c, err := Compile(rules)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of rules.
func (c *Classifier) Len() int {
	return len(c.rules)
}

// Classify returns the most significant component that differs between old
// and new.
//
// It performs the following operations:
//   - Step 1: old == NotInstalledVersion yields NotInstalled
//   - Step 2: identical strings yield no change
//   - Step 3: the first rule matching both strings in full decides; the first
//     capture position whose values differ names the component. An optional
//     group that did not participate differs from one that matched empty.
//   - Step 4: no rule matching both strings yields Unknown
//
// Parameters:
//   - old: Installed version
//   - new: Pending version
//
// Returns:
//   - Component: The differing component; empty when changed is false
//   - bool: false when the deciding rule finds no difference
func (c *Classifier) Classify(old, new string) (Component, bool) {
	if old == NotInstalledVersion {
		return NotInstalled, true
	}
	if old == new {
		return "", false
	}

	for _, rule := range c.rules {
		oldIdx := rule.re.FindStringSubmatchIndex(old)
		if oldIdx == nil {
			continue
		}
		newIdx := rule.re.FindStringSubmatchIndex(new)
		if newIdx == nil {
			continue
		}

		groups := rule.re.NumSubexp()
		for i, part := range rule.parts {
			if i >= groups {
				break
			}
			if capture(old, oldIdx, i+1) != capture(new, newIdx, i+1) {
				return part, true
			}
		}
		return "", false
	}

	return Unknown, true
}

// group is a capture group value; ok is false when the group did not take
// part in the match.
type group struct {
	text string
	ok   bool
}

func capture(s string, idx []int, n int) group {
	start, end := idx[2*n], idx[2*n+1]
	if start < 0 {
		return group{}
	}
	return group{text: s[start:end], ok: true}
}
