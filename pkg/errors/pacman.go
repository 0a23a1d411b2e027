package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigVersionError is returned when the settings file was written for a
// different schema version. There is no automatic migration.
type ConfigVersionError struct {
	// Path is the settings file that was read.
	Path string

	// Found is the settings_version stored in the file; 0 when it is absent.
	Found int

	// Expected is the schema version this build understands.
	Expected int
}

// Error implements the error interface.
func (e *ConfigVersionError) Error() string {
	found := "missing"
	if e.Found != 0 {
		found = fmt.Sprintf("%d", e.Found)
	}
	msg := fmt.Sprintf("settings version mismatch: found %s, expected %d", found, e.Expected)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	return msg
}

// IsConfigVersionError checks if err is a ConfigVersionError and returns it.
func IsConfigVersionError(err error) (*ConfigVersionError, bool) {
	var ve *ConfigVersionError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// MalformedListingError reports a package listing line that does not split
// into exactly a name and a version.
type MalformedListingError struct {
	// Source names the query that produced the line (e.g. "installed").
	Source string

	// Line is the 1-based line number.
	Line int

	// Text is the offending line.
	Text string
}

// Error implements the error interface.
func (e *MalformedListingError) Error() string {
	return fmt.Sprintf("failed to parse %s package listing at line %d: expected \"name version\", got %q", e.Source, e.Line, e.Text)
}

// UnresolvedPackageError reports a pending package that is not installed
// under its own name and for which no installed provider was found.
type UnresolvedPackageError struct {
	// Package is the name from the pending update list.
	Package string

	// Err is the error returned by the provider lookup, may be nil.
	Err error
}

// Error implements the error interface.
func (e *UnresolvedPackageError) Error() string {
	msg := fmt.Sprintf("cannot find installed package providing %q, skipped", e.Package)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the lookup error.
func (e *UnresolvedPackageError) Unwrap() error {
	return e.Err
}

// ExternalToolError reports a failed invocation of an external program.
//
// Fields:
//   - Command: The command line that was run
//   - ExitCode: Process exit code, -1 when the process did not start or was killed
//   - Output: Captured stderr (or stdout when stderr was empty); empty for
//     commands attached to the terminal
//   - Upgrade: true when the failing command was the final upgrade
//   - Err: The underlying exec error
type ExternalToolError struct {
	Command  string
	ExitCode int
	Output   string
	Upgrade  bool
	Err      error
}

// Error implements the error interface.
func (e *ExternalToolError) Error() string {
	var sb strings.Builder
	if e.Upgrade {
		sb.WriteString("upgrade failed")
	} else {
		sb.WriteString("command failed")
	}
	sb.WriteString(fmt.Sprintf(" (exit %d): %s", e.ExitCode, e.Command))
	if out := strings.TrimSpace(e.Output); out != "" {
		sb.WriteString("\n")
		for _, line := range strings.Split(out, "\n") {
			sb.WriteString("  | " + line + "\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	}
	return sb.String()
}

// Unwrap returns the underlying exec error.
func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// IsExternalToolError checks if err is an ExternalToolError and returns it.
func IsExternalToolError(err error) (*ExternalToolError, bool) {
	var te *ExternalToolError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
