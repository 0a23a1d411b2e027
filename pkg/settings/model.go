// Package settings loads, validates and writes the pacwatch settings file.
//
// The file lives under the user's XDG config directory and is created from
// the embedded defaults on first run. Its schema is versioned through
// settings_version; a file written for another version is rejected before
// any pacman query runs.
package settings

import (
	"github.com/ajxudir/pacwatch/pkg/classify"
	"github.com/ajxudir/pacwatch/pkg/policy"
)

// CurrentVersion is the settings schema version understood by this build.
const CurrentVersion = 2

// Settings is the root settings structure.
type Settings struct {
	Version       int              `yaml:"settings_version"`
	PacmanCommand string           `yaml:"pacman_command"`
	Groups        []string         `yaml:"groups"`
	Rules         []VersionRuleCfg `yaml:"rules"`
	Verbose       []VerboseRuleCfg `yaml:"verbose,omitempty"`
}

// VersionRuleCfg is one version classification rule.
type VersionRuleCfg struct {
	Regex string   `yaml:"regex"`
	Parts []string `yaml:"parts,omitempty"`
}

// VerboseRuleCfg is one verbose rule.
type VerboseRuleCfg struct {
	Packages  []string `yaml:"packages,omitempty"`
	Regex     string   `yaml:"regex,omitempty"`
	Explicit  bool     `yaml:"explicit,omitempty"`
	All       bool     `yaml:"all,omitempty"`
	Groups    []string `yaml:"groups,omitempty"`
	NoVerbose bool     `yaml:"no_verbose,omitempty"`
	When      string   `yaml:"when,omitempty"`
}

// VersionRules converts the configured rules for classify.Compile.
func (s *Settings) VersionRules() []classify.Rule {
	rules := make([]classify.Rule, 0, len(s.Rules))
	for _, r := range s.Rules {
		rules = append(rules, classify.Rule{Pattern: r.Regex, Parts: toComponents(r.Parts)})
	}
	return rules
}

// PolicyRules converts the configured verbose rules for policy.New.
func (s *Settings) PolicyRules() []policy.Rule {
	rules := make([]policy.Rule, 0, len(s.Verbose))
	for _, r := range s.Verbose {
		rules = append(rules, policy.Rule{
			Packages:  r.Packages,
			Regex:     r.Regex,
			Explicit:  r.Explicit,
			All:       r.All,
			Groups:    toComponents(r.Groups),
			NoVerbose: r.NoVerbose,
			When:      r.When,
		})
	}
	return rules
}

// GroupOrder returns the configured bucket order.
func (s *Settings) GroupOrder() []classify.Component {
	return toComponents(s.Groups)
}

// UsesExplicit reports whether any verbose rule needs the explicit package set.
func (s *Settings) UsesExplicit() bool {
	for _, r := range s.Verbose {
		if r.Explicit {
			return true
		}
	}
	return false
}

func toComponents(names []string) []classify.Component {
	if len(names) == 0 {
		return nil
	}
	out := make([]classify.Component, len(names))
	for i, n := range names {
		out[i] = classify.Component(n)
	}
	return out
}
