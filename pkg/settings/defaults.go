package settings

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultSettingsYAML string

// Default returns a fresh copy of the built-in settings.
//
// The embedded YAML is parsed on every call so callers may modify the
// result freely.
//
// Returns:
//   - *Settings: the default settings
func Default() *Settings {
	var s Settings
	if err := yaml.Unmarshal([]byte(defaultSettingsYAML), &s); err != nil {
		panic("settings: embedded defaults are invalid: " + err.Error())
	}
	return &s
}

// DefaultYAML returns the embedded default settings file, comments included.
func DefaultYAML() string {
	return defaultSettingsYAML
}
