// Package constants provides centralized string constants used throughout the application.
// This eliminates magic strings and provides a single source of truth for shared values.
package constants

// AppName is the program name used for the settings directory and help output.
const AppName = "pacwatch"

// Icon constants used as prefixes in CLI messages.
const (
	// IconWarn is the warning prefix for messages.
	IconWarn = "⚠️"

	// IconError indicates an error or failed state (red X).
	IconError = "❌"

	// IconCheckmarkBox indicates successful validation (checkmark in box).
	IconCheckmarkBox = "✅"

	// IconLightbulb indicates a hint or suggestion.
	IconLightbulb = "💡"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Report formats accepted by --format.
const (
	// FormatText is the default human-readable report.
	FormatText = "text"

	// FormatJSON writes the report as a JSON document.
	FormatJSON = "json"
)
