package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"

	pkgerrors "github.com/ajxudir/pacwatch/pkg/errors"
	"github.com/ajxudir/pacwatch/pkg/packages"
)

// FakePacman is an in-memory pacman.Client.
//
// Installed and Pending hold "name version" rows in listing order.
// Providers maps a pending name to the installed package providing it.
// Every call is appended to Calls so tests can assert what ran and in
// which order.
type FakePacman struct {
	Installed []packages.Entry
	Pending   []packages.Entry
	Explicit  []string
	Providers map[string]string

	// Failures makes the named operation ("refresh", "installed", "pending",
	// "provider", "explicit", "upgrade") return the given error.
	Failures map[string]error

	// OnUpgrade runs before Upgrade returns, e.g. to cancel a context.
	OnUpgrade func()

	Calls       []string
	UpgradeArgs []string
}

// NewFakePacman creates a FakePacman from "name version" rows.
//
// Parameters:
//   - installed: Rows of the installed listing, e.g. "foo 1.2.3-1"
//   - pending: Rows of the pending listing
//
// Returns:
//   - *FakePacman: Fake client with empty explicit set and providers
func NewFakePacman(installed, pending []string) *FakePacman {
	return &FakePacman{
		Installed: entries(installed),
		Pending:   entries(pending),
		Providers: map[string]string{},
		Failures:  map[string]error{},
	}
}

func entries(rows []string) []packages.Entry {
	out := make([]packages.Entry, 0, len(rows))
	for _, row := range rows {
		fields := strings.Fields(row)
		if len(fields) != 2 {
			panic(fmt.Sprintf("testutil: bad row %q", row))
		}
		out = append(out, packages.Entry{Name: fields[0], Version: fields[1]})
	}
	return out
}

func (f *FakePacman) call(op string) error {
	f.Calls = append(f.Calls, op)
	return f.Failures[op]
}

// Refresh records the call.
func (f *FakePacman) Refresh(ctx context.Context) error {
	return f.call("refresh")
}

// ListInstalled returns Installed.
func (f *FakePacman) ListInstalled(ctx context.Context) ([]packages.Entry, error) {
	if err := f.call("installed"); err != nil {
		return nil, err
	}
	return f.Installed, nil
}

// ListPending returns Pending.
func (f *FakePacman) ListPending(ctx context.Context) ([]packages.Entry, error) {
	if err := f.call("pending"); err != nil {
		return nil, err
	}
	return f.Pending, nil
}

// ResolveProvider looks name up in Providers.
func (f *FakePacman) ResolveProvider(ctx context.Context, name string) (string, error) {
	if err := f.call("provider " + name); err != nil {
		return "", err
	}
	if err := f.Failures["provider"]; err != nil {
		return "", err
	}
	provider, ok := f.Providers[name]
	if !ok {
		return "", &pkgerrors.ExternalToolError{
			Command:  "pacman -Qq " + name,
			ExitCode: 1,
			Output:   fmt.Sprintf("error: package '%s' was not found", name),
		}
	}
	return provider, nil
}

// ListExplicit returns Explicit sorted.
func (f *FakePacman) ListExplicit(ctx context.Context) ([]string, error) {
	if err := f.call("explicit"); err != nil {
		return nil, err
	}
	names := append([]string(nil), f.Explicit...)
	sort.Strings(names)
	return names, nil
}

// Upgrade records extraArgs.
func (f *FakePacman) Upgrade(ctx context.Context, extraArgs []string) error {
	f.UpgradeArgs = extraArgs
	if f.OnUpgrade != nil {
		f.OnUpgrade()
	}
	return f.call("upgrade")
}

// CallCount returns how many times op was called.
func (f *FakePacman) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}
