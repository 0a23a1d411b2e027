// Package pacman queries and drives the pacman package manager.
package pacman

import (
	"context"
	"fmt"
	"strings"

	"github.com/ajxudir/pacwatch/pkg/cmdexec"
	pkgerrors "github.com/ajxudir/pacwatch/pkg/errors"
	"github.com/ajxudir/pacwatch/pkg/packages"
)

// Client is the set of package manager operations a run needs.
type Client interface {
	// Refresh synchronizes the package databases.
	Refresh(ctx context.Context) error

	// ListInstalled returns every installed package with its version.
	ListInstalled(ctx context.Context) ([]packages.Entry, error)

	// ListPending returns the packages a system upgrade would install.
	ListPending(ctx context.Context) ([]packages.Entry, error)

	// ResolveProvider returns the installed package that provides name.
	ResolveProvider(ctx context.Context, name string) (string, error)

	// ListExplicit returns the names of explicitly installed packages.
	ListExplicit(ctx context.Context) ([]string, error)

	// Upgrade runs the interactive system upgrade.
	Upgrade(ctx context.Context, extraArgs []string) error
}

// Shell runs pacman through cmdexec.
//
// Command is the configured pacman_command, e.g. "sudo pacman". It is used
// as shell text, so it may hold a wrapper or extra flags.
type Shell struct {
	Command string

	// Color adds --color=always to commands attached to the terminal.
	Color bool
}

// NewShell returns a Shell for command.
func NewShell(command string, color bool) *Shell {
	return &Shell{Command: strings.TrimSpace(command), Color: color}
}

// Refresh runs "-Sy" attached to the terminal.
func (s *Shell) Refresh(ctx context.Context) error {
	return cmdexec.Attach(ctx, s.line(true, true, "-Sy"))
}

// ListInstalled runs "-Q" and parses the listing.
func (s *Shell) ListInstalled(ctx context.Context) ([]packages.Entry, error) {
	out, err := cmdexec.Capture(ctx, s.line(true, false, "-Q"))
	if err != nil {
		return nil, err
	}
	return packages.ParseListing("installed", out)
}

// ListPending runs "-Sup" printing one "name version" row per package.
func (s *Shell) ListPending(ctx context.Context) ([]packages.Entry, error) {
	out, err := cmdexec.Capture(ctx, s.line(true, false, "-Sup", "--print-format", "%n %v"))
	if err != nil {
		return nil, err
	}
	return packages.ParseListing("pending", out)
}

// ResolveProvider runs "-Qq <name>", which pacman also answers for names
// that an installed package only provides or replaces.
//
// Returns:
//   - string: the installed package name
//   - error: the query error, or an error when pacman printed nothing
func (s *Shell) ResolveProvider(ctx context.Context, name string) (string, error) {
	out, err := cmdexec.Capture(ctx, s.line(true, false, "-Qq", name))
	if err != nil {
		return "", err
	}
	names := packages.ParseNames(out)
	if len(names) == 0 {
		return "", fmt.Errorf("no installed package provides %q", name)
	}
	return names[0], nil
}

// ListExplicit runs "-Qqe".
func (s *Shell) ListExplicit(ctx context.Context) ([]string, error) {
	out, err := cmdexec.Capture(ctx, s.line(true, false, "-Qqe"))
	if err != nil {
		return nil, err
	}
	return packages.ParseNames(out), nil
}

// Upgrade runs "-Su" attached to the terminal without --noconfirm so the
// user confirms the transaction.
//
// Parameters:
//   - ctx: Context for cancellation
//   - extraArgs: additional pacman arguments, shell-escaped before use
//
// Returns:
//   - error: *errors.ExternalToolError with Upgrade set on failure
func (s *Shell) Upgrade(ctx context.Context, extraArgs []string) error {
	args := append([]string{"-Su"}, extraArgs...)
	err := cmdexec.Attach(ctx, s.line(false, true, args...))
	if toolErr, ok := pkgerrors.IsExternalToolError(err); ok {
		toolErr.Upgrade = true
	}
	return err
}

// line builds "<command> [--noconfirm] [--color=always] <args>".
func (s *Shell) line(noConfirm, attached bool, args ...string) string {
	parts := []string{s.Command}
	if noConfirm {
		parts = append(parts, "--noconfirm")
	}
	if attached && s.Color {
		parts = append(parts, "--color=always")
	}
	parts = append(parts, cmdexec.JoinArgs(args))
	return strings.Join(parts, " ")
}
