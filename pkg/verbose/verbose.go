// Package verbose provides debug logging for pacwatch.
//
// Messages are only written when logging was enabled with Enable (the
// --verbose flag). Everything goes to stderr by default so the report on
// stdout stays clean.
package verbose

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	enabled bool
	writer  io.Writer = os.Stderr
)

// Enable turns on verbose logging and allows debug messages to be printed.
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// Disable turns off verbose logging.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// IsEnabled returns whether verbose logging is currently enabled.
//
// Returns:
//   - bool: true if verbose logging is enabled, false otherwise
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetWriter sets the output writer for verbose messages.
//
// Parameters:
//   - w: The io.Writer to use for output; if nil, the writer remains unchanged
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		writer = w
	}
}

func getWriter() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return writer
}

// Printf prints a formatted verbose message if enabled.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Printf(format string, args ...any) {
	if IsEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] "+format+"\n", args...)
	}
}

// Info prints an informational verbose message if enabled.
func Info(msg string) {
	if IsEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] %s\n", msg)
	}
}

// Infof prints a formatted informational verbose message if enabled.
func Infof(format string, args ...any) {
	if IsEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] "+format+"\n", args...)
	}
}

// CommandExec logs the command line about to be executed.
//
// Parameters:
//   - cmd: The command string being executed
//   - attached: true when the command inherits the terminal instead of
//     having its output captured
func CommandExec(cmd string, attached bool) {
	if !IsEnabled() {
		return
	}
	mode := "captured"
	if attached {
		mode = "attached"
	}
	_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Executing (%s): %s\n", mode, cmd)
}

// CommandResult logs command execution results if enabled.
//
// It performs the following operations:
//   - Prints the command status (succeeded or failed) with exit code
//   - Truncates long command strings to 60 characters for readability
//   - If output is provided, prints up to 5 lines with truncation
//
// Parameters:
//   - cmd: The command string that was executed
//   - exitCode: The exit code returned by the command (0 for success)
//   - output: The command output (stdout/stderr)
func CommandResult(cmd string, exitCode int, output string) {
	if !IsEnabled() {
		return
	}
	w := getWriter()
	if exitCode == 0 {
		_, _ = fmt.Fprintf(w, "[DEBUG] Command succeeded: %s\n", truncate(cmd, 60))
	} else {
		_, _ = fmt.Fprintf(w, "[DEBUG] Command failed (exit %d): %s\n", exitCode, truncate(cmd, 60))
	}
	if output == "" {
		return
	}
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 5 {
		for _, line := range lines[:3] {
			_, _ = fmt.Fprintf(w, "        | %s\n", truncate(line, 100))
		}
		_, _ = fmt.Fprintf(w, "        | ... (%d more lines)\n", len(lines)-3)
		return
	}
	for _, line := range lines {
		_, _ = fmt.Fprintf(w, "        | %s\n", truncate(line, 100))
	}
}

// SettingsLoaded logs which settings file was used.
func SettingsLoaded(path string, created bool) {
	if !IsEnabled() {
		return
	}
	if created {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Settings not found, wrote defaults to: %s\n", path)
		return
	}
	_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Settings loaded: %s\n", path)
}

// PackageClassified logs the bucket a pending package was sorted into.
//
// Parameters:
//   - name: Package name
//   - old: Installed version
//   - new: Pending version
//   - component: Classified component, empty when the versions are equivalent
func PackageClassified(name, old, new, component string) {
	if !IsEnabled() {
		return
	}
	if component == "" {
		component = "(no change)"
	}
	_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Package '%s': %s → %s classified as %s\n", name, old, new, component)
}

// PackageSkipped logs when a package is left out of the report.
func PackageSkipped(name, reason string) {
	if IsEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Package '%s' skipped: %s\n", name, reason)
	}
}

// RuleMatched logs the verbose rule that decided how a package is shown.
//
// Parameters:
//   - name: Package name
//   - index: Zero-based index of the rule in the verbose rule list
//   - verbose: The decision taken by the rule
func RuleMatched(name string, index int, verbose bool) {
	if IsEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Package '%s' matched verbose rule #%d (verbose=%t)\n", name, index+1, verbose)
	}
}

// truncate shortens a string to the specified maximum length.
//
// Parameters:
//   - s: The string to truncate
//   - maxLen: The maximum length for the returned string (must be at least 3)
//
// Returns:
//   - string: The original or truncated string with "..." suffix if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
