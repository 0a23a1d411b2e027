// Package preflight checks that the configured pacman command can be run
// before any package query starts.
package preflight

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ajxudir/pacwatch/pkg/cmdexec"
	"github.com/ajxudir/pacwatch/pkg/verbose"
)

// CommandResolutionHints maps command names to installation instructions.
var CommandResolutionHints = map[string]string{
	"pacman": "pacman ships with Arch Linux and its derivatives; pacwatch does not work without it",
	"sudo":   "Install sudo (pacman -S sudo) or set pacman_command to use doas or run0",
	"doas":   "Install opendoas (pacman -S opendoas) or set pacman_command to use sudo",
	"run0":   "run0 ships with systemd 256 and later",
	"yay":    "Install yay from the AUR: https://github.com/Jguer/yay",
	"paru":   "Install paru from the AUR: https://github.com/Morganamilo/paru",
}

// privilegeWrappers run the next word of the command line as root.
var privilegeWrappers = map[string]bool{
	"sudo": true,
	"doas": true,
	"run0": true,
}

// MissingCommandError represents a missing command with resolution hints.
//
// Fields:
//   - Command: The name of the missing command
//   - Hint: Installation instructions, empty if none is known
type MissingCommandError struct {
	Command string
	Hint    string
}

// Error returns a formatted error message with resolution instructions.
func (e *MissingCommandError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("command not found: %s\n  Resolution: %s", e.Command, e.Hint)
	}
	return fmt.Sprintf("command not found: %s\n  Resolution: Ensure '%s' is installed and available in your PATH, or change pacman_command.", e.Command, e.Command)
}

// CheckCommand verifies that the programs named by a pacman command line
// exist.
//
// It performs the following operations:
//   - Step 1: Takes the first word of the command line
//   - Step 2: When that word is sudo, doas or run0, also takes the first
//     following word that is not an option
//   - Step 3: Looks each program up in PATH, then as a shell alias or function
//
// Parameters:
//   - ctx: Context for the shell lookup
//   - command: pacman_command or the --pacman override, e.g. "sudo pacman"
//
// Returns:
//   - error: *MissingCommandError for the first program not found
func CheckCommand(ctx context.Context, command string) error {
	for _, program := range Programs(command) {
		if err := checkProgram(ctx, program); err != nil {
			return err
		}
	}
	return nil
}

// Programs returns the program names CheckCommand looks up for command.
func Programs(command string) []string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	programs := []string{fields[0]}
	if !privilegeWrappers[fields[0]] {
		return programs
	}
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, "-") || strings.Contains(f, "=") {
			continue
		}
		return append(programs, f)
	}
	return programs
}

func checkProgram(ctx context.Context, program string) error {
	verbose.Printf("Preflight: checking command %q\n", program)

	if _, err := exec.LookPath(program); err == nil {
		return nil
	}

	// Aliases and shell functions are only visible to the shell.
	if _, err := cmdexec.Capture(ctx, "command -v "+cmdexec.ShellEscape(program)); err == nil {
		verbose.Printf("Preflight: command %q found as shell alias/function\n", program)
		return nil
	}

	return &MissingCommandError{
		Command: program,
		Hint:    CommandResolutionHints[program],
	}
}
