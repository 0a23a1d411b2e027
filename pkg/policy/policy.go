// Package policy decides which pending upgrades are reported in verbose form.
//
// Rules are evaluated in order and the first rule that fully matches a
// package decides. A rule that matches the name but fails one of its gates
// (explicit-only, when-condition) is skipped and evaluation continues.
package policy

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr/vm"

	"github.com/ajxudir/pacwatch/pkg/classify"
	"github.com/ajxudir/pacwatch/pkg/filtering"
	"github.com/ajxudir/pacwatch/pkg/packages"
	"github.com/ajxudir/pacwatch/pkg/verbose"
)

// Rule is one verbose rule.
//
// Fields:
//   - Packages: Explicit package names
//   - Regex: Pattern matched against the whole package name
//   - Explicit: Only match packages the user installed explicitly
//   - All: Match regardless of the classified component
//   - Groups: Components this rule applies to when All is false
//   - NoVerbose: Force the condensed form for matching packages
//   - When: Optional boolean expression over name, old, new and component
type Rule struct {
	Packages  []string
	Regex     string
	Explicit  bool
	All       bool
	Groups    []classify.Component
	NoVerbose bool
	When      string
}

// ExplicitSource lists the packages that were installed explicitly.
type ExplicitSource interface {
	ListExplicit(ctx context.Context) ([]string, error)
}

// ExplicitSourceFunc adapts a function to ExplicitSource.
type ExplicitSourceFunc func(ctx context.Context) ([]string, error)

// ListExplicit calls f.
func (f ExplicitSourceFunc) ListExplicit(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// RuleError reports a verbose rule that cannot be compiled.
type RuleError struct {
	Index int
	Field string
	Err   error
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("verbose rule %d: %s: %v", e.Index, e.Field, e.Err)
}

// Unwrap returns the compile error.
func (e *RuleError) Unwrap() error {
	return e.Err
}

type compiledRule struct {
	names     filtering.Matcher
	explicit  bool
	all       bool
	groups    map[classify.Component]struct{}
	noVerbose bool
	when      *vm.Program
}

// Engine evaluates verbose rules for one run.
//
// The explicit package set is queried at most once, the first time an
// explicit-only rule needs it, and kept for the lifetime of the Engine.
type Engine struct {
	rules  []compiledRule
	source ExplicitSource

	explicit       map[string]struct{}
	explicitLoaded bool
}

// New compiles rules into an Engine.
//
// Parameters:
//   - rules: Ordered verbose rules
//   - source: Provider of the explicit package set; may be nil when no rule
//     sets Explicit
//
// Returns:
//   - *Engine: Engine ready for IsVerbose
//   - error: *RuleError for the first rule that does not compile
func New(rules []Rule, source ExplicitSource) (*Engine, error) {
	e := &Engine{source: source, rules: make([]compiledRule, 0, len(rules))}
	for i, rule := range rules {
		names, err := filtering.NewRuleMatcher(rule.Packages, rule.Regex)
		if err != nil {
			return nil, &RuleError{Index: i, Field: "regex", Err: err}
		}

		cr := compiledRule{
			names:     names,
			explicit:  rule.Explicit,
			all:       rule.All,
			groups:    make(map[classify.Component]struct{}, len(rule.Groups)),
			noVerbose: rule.NoVerbose,
		}
		for _, g := range rule.Groups {
			cr.groups[g] = struct{}{}
		}

		if rule.When != "" {
			program, err := compileWhen(rule.When)
			if err != nil {
				return nil, &RuleError{Index: i, Field: "when", Err: err}
			}
			cr.when = program
		}

		e.rules = append(e.rules, cr)
	}
	return e, nil
}

// IsVerbose reports whether u should be shown in verbose form.
//
// It performs the following operations:
//   - Step 1: Skips rules whose names and pattern do not match u.Name
//   - Step 2: Skips explicit-only rules when u.Name is not explicit
//   - Step 3: Skips rules whose when-condition is false
//   - Step 4: Skips rules that neither match all components nor list u.Component
//   - Step 5: The first remaining rule decides: verbose unless NoVerbose
//
// Parameters:
//   - ctx: Context for the explicit package query
//   - u: The classified update
//
// Returns:
//   - bool: true for verbose output
//   - error: Error from the explicit package query or a when-condition
func (e *Engine) IsVerbose(ctx context.Context, u packages.Update) (bool, error) {
	for i, rule := range e.rules {
		if !rule.names.Match(u.Name) {
			continue
		}

		if rule.explicit {
			explicit, err := e.isExplicit(ctx, u.Name)
			if err != nil {
				return false, err
			}
			if !explicit {
				continue
			}
		}

		if rule.when != nil {
			ok, err := runWhen(rule.when, u)
			if err != nil {
				return false, fmt.Errorf("verbose rule %d: %w", i, err)
			}
			if !ok {
				continue
			}
		}

		if !rule.all {
			if _, ok := rule.groups[u.Component]; !ok {
				continue
			}
		}

		verbose.RuleMatched(u.Name, i, !rule.noVerbose)
		return !rule.noVerbose, nil
	}
	return false, nil
}

// isExplicit loads the explicit package set on first use.
func (e *Engine) isExplicit(ctx context.Context, name string) (bool, error) {
	if !e.explicitLoaded {
		if e.source == nil {
			return false, fmt.Errorf("explicit package list is not available")
		}
		names, err := e.source.ListExplicit(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to list explicitly installed packages: %w", err)
		}
		e.explicit = make(map[string]struct{}, len(names))
		for _, n := range names {
			e.explicit[n] = struct{}{}
		}
		e.explicitLoaded = true
		verbose.Infof("Loaded %d explicitly installed packages", len(names))
	}
	_, ok := e.explicit[name]
	return ok, nil
}
