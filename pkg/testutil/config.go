package testutil

import (
	"github.com/ajxudir/pacwatch/pkg/settings"
)

// SettingsBuilder provides a fluent API for building test settings.
//
// It starts from the built-in defaults so a test only states what it
// changes.
type SettingsBuilder struct {
	s *settings.Settings
}

// NewSettings creates a SettingsBuilder seeded with settings.Default.
//
// Returns:
//   - *SettingsBuilder: New builder instance ready for method chaining
func NewSettings() *SettingsBuilder {
	return &SettingsBuilder{s: settings.Default()}
}

// WithPacmanCommand sets pacman_command.
func (b *SettingsBuilder) WithPacmanCommand(command string) *SettingsBuilder {
	b.s.PacmanCommand = command
	return b
}

// WithVersion sets settings_version.
func (b *SettingsBuilder) WithVersion(version int) *SettingsBuilder {
	b.s.Version = version
	return b
}

// WithGroups replaces the bucket order.
func (b *SettingsBuilder) WithGroups(groups ...string) *SettingsBuilder {
	b.s.Groups = groups
	return b
}

// WithRules replaces the version rules.
func (b *SettingsBuilder) WithRules(rules ...settings.VersionRuleCfg) *SettingsBuilder {
	b.s.Rules = rules
	return b
}

// WithoutVerbose removes every verbose rule.
func (b *SettingsBuilder) WithoutVerbose() *SettingsBuilder {
	b.s.Verbose = nil
	return b
}

// WithVerbose appends verbose rules after the existing ones.
//
// Parameters:
//   - rules: Rules to append, evaluated after any rule already present
//
// Returns:
//   - *SettingsBuilder: Self for method chaining
func (b *SettingsBuilder) WithVerbose(rules ...settings.VerboseRuleCfg) *SettingsBuilder {
	b.s.Verbose = append(b.s.Verbose, rules...)
	return b
}

// Build returns the built settings.
func (b *SettingsBuilder) Build() *settings.Settings {
	return b.s
}
