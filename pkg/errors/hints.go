package errors

import (
	"strings"
)

// ErrorHint provides actionable resolution hints for common errors.
//
// Fields:
//   - Pattern: Substring to match in error message (case-insensitive)
//   - Hint: Brief description of the issue
//   - Resolution: Command or action to resolve the issue
type ErrorHint struct {
	Pattern    string
	Hint       string
	Resolution string
}

// CommonErrorHints maps error patterns to actionable hints.
// These are used by EnhanceErrorWithHint to add context to errors.
var CommonErrorHints = []ErrorHint{
	{
		Pattern:    "settings version mismatch",
		Hint:       "Settings were written for another pacwatch version",
		Resolution: "Run 'pacwatch --reset' to restore the defaults, or migrate the file by hand ('pacwatch --edit')",
	},
	{
		Pattern:    "not found in type",
		Hint:       "Settings file contains an unknown key",
		Resolution: "Compare with 'pacwatch config --show-defaults'",
	},
	{
		Pattern:    "invalid yaml",
		Hint:       "Settings file is not valid YAML",
		Resolution: "Fix the syntax with 'pacwatch --edit' or start over with 'pacwatch --reset'",
	},
	{
		Pattern:    "invalid regex",
		Hint:       "A pattern in the settings does not compile",
		Resolution: "Patterns use Go RE2 syntax (no lookarounds or backreferences)",
	},
	{
		Pattern:    "package listing",
		Hint:       "pacman printed something unexpected",
		Resolution: "Check that pacman_command points at pacman (see 'pacwatch config --path')",
	},
	{
		Pattern:    "upgrade failed",
		Hint:       "The upgrade did not complete",
		Resolution: "Review the pacman output above and rerun 'pacman -Su' manually",
	},
	{
		Pattern:    "command not found",
		Hint:       "The package manager command could not be started",
		Resolution: "Override it with --pacman or set pacman_command in the settings",
	},
	{
		Pattern:    "permission denied",
		Hint:       "Insufficient permissions",
		Resolution: "pacman needs root for -Sy and -Su; keep 'sudo' in pacman_command",
	},
}

// GetHint returns an actionable hint for the given error.
//
// Parameters:
//   - err: The error to get a hint for
//
// Returns:
//   - string: The hint with resolution, or empty string if no hint found
func GetHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := strings.ToLower(err.Error())
	for _, hint := range CommonErrorHints {
		if strings.Contains(errStr, strings.ToLower(hint.Pattern)) {
			return hint.Hint + ": " + hint.Resolution
		}
	}

	return ""
}

// EnhanceErrorWithHint adds actionable hints to an error message if a matching pattern is found.
//
// Parameters:
//   - err: The error to enhance
//
// Returns:
//   - string: Error message with hint appended if found, otherwise just the error message
func EnhanceErrorWithHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()
	if hint := GetHint(err); hint != "" {
		return errStr + "\n  \U0001F4A1 " + hint
	}

	return errStr
}
