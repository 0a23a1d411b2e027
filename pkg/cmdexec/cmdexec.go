// Package cmdexec runs external commands through the user's shell.
//
// Commands are either captured (stdout returned, stderr kept for error
// messages) or attached to the terminal so the user can follow and answer
// them. Both honour context cancellation.
package cmdexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	pkgerrors "github.com/ajxudir/pacwatch/pkg/errors"
	"github.com/ajxudir/pacwatch/pkg/verbose"
	"github.com/ajxudir/pacwatch/pkg/warnings"
)

// getShell returns the user's shell and args to run a command.
//
// This function checks the SHELL environment variable first (Unix systems),
// and falls back to platform-specific defaults if not set. Using the user's
// shell keeps aliases such as a custom pacman wrapper working.
//
// Returns:
//   - shell: The path to the shell executable
//   - args: The shell arguments needed to execute a command string
func getShell() (shell string, args []string) {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh, []string{"-c"}
	}
	return getDefaultShell()
}

// CaptureFunc is the function signature for captured command execution.
//
// Parameters:
//   - ctx: Context for cancellation
//   - command: Command line passed to the shell
//
// Returns:
//   - []byte: stdout of the command
//   - error: *errors.ExternalToolError on a non-zero exit, or the context error
type CaptureFunc func(ctx context.Context, command string) ([]byte, error)

// AttachFunc is the function signature for commands attached to the terminal.
type AttachFunc func(ctx context.Context, command string) error

// Capture is the default captured execution function.
//
// It can be replaced with a mock implementation for testing.
var Capture CaptureFunc = capture

// Attach is the default attached execution function.
//
// It can be replaced with a mock implementation for testing.
var Attach AttachFunc = attach

// capture runs command and returns its stdout.
//
// The command runs in its own process group so that cancelling ctx kills
// every process the shell started, not only the shell itself.
func capture(ctx context.Context, command string) ([]byte, error) {
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("empty command")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	verbose.CommandExec(command, false)

	cmd := shellCommand(ctx, command)
	setProcGroup(cmd)
	cmd.Cancel = func() error {
		if err := killProcGroup(cmd); err != nil {
			warnings.Warnf("failed to kill process group: %v\n", err)
		}
		return nil
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", command, ctx.Err())
		}
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(stdout.String())
		}
		code := exitCode(err)
		verbose.CommandResult(command, code, output)
		return nil, &pkgerrors.ExternalToolError{Command: command, ExitCode: code, Output: output, Err: err}
	}

	verbose.CommandResult(command, 0, stdout.String())
	return stdout.Bytes(), nil
}

// attach runs command with the terminal's stdin, stdout and stderr.
//
// The child stays in the foreground process group so it can prompt the
// user and receives terminal signals itself.
func attach(ctx context.Context, command string) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("empty command")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	verbose.CommandExec(command, true)

	cmd := shellCommand(ctx, command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", command, ctx.Err())
		}
		code := exitCode(err)
		verbose.CommandResult(command, code, "")
		return &pkgerrors.ExternalToolError{Command: command, ExitCode: code, Err: err}
	}

	verbose.CommandResult(command, 0, "")
	return nil
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	shell, shellArgs := getShell()
	args := append(append([]string{}, shellArgs...), command)
	return exec.CommandContext(ctx, shell, args...)
}

// exitCode extracts the process exit code from a Run error, -1 when the
// process did not start or was killed by a signal.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// ShellEscape escapes a string for safe use in shell commands.
//
// This function wraps values in single quotes and properly escapes any single quotes
// within the value. Safe characters (alphanumeric, dash, underscore, etc.) are returned
// unquoted for readability.
//
// Parameters:
//   - s: String to escape for shell usage
//
// Returns:
//   - string: Shell-safe escaped string, either quoted or unquoted if safe
func ShellEscape(s string) string {
	if s == "" {
		return "''"
	}

	needsEscape := false
	for _, r := range s {
		if !isShellSafe(r) {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return s
	}

	var escaped strings.Builder
	escaped.WriteRune('\'')
	for _, r := range s {
		if r == '\'' {
			escaped.WriteString("'\\''")
		} else {
			escaped.WriteRune(r)
		}
	}
	escaped.WriteRune('\'')
	return escaped.String()
}

// isShellSafe returns true if the character is safe to use unquoted in shell.
func isShellSafe(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '-' || r == '_' || r == '.' ||
		r == '/' || r == '@' || r == ':' ||
		r == '+' || r == '='
}

// JoinArgs shell-escapes every argument and joins them with spaces.
func JoinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = ShellEscape(a)
	}
	return strings.Join(quoted, " ")
}
