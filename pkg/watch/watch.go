// Package watch runs one pacwatch pass: refresh, classify, report, upgrade.
package watch

import (
	"context"
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/ajxudir/pacwatch/pkg/classify"
	pkgerrors "github.com/ajxudir/pacwatch/pkg/errors"
	"github.com/ajxudir/pacwatch/pkg/output"
	"github.com/ajxudir/pacwatch/pkg/packages"
	"github.com/ajxudir/pacwatch/pkg/pacman"
	"github.com/ajxudir/pacwatch/pkg/policy"
	"github.com/ajxudir/pacwatch/pkg/report"
	"github.com/ajxudir/pacwatch/pkg/settings"
	"github.com/ajxudir/pacwatch/pkg/verbose"
	"github.com/ajxudir/pacwatch/pkg/warnings"
)

// Watcher holds everything one run needs.
//
// Fields:
//   - Settings: Loaded settings; validated again before any query
//   - Client: Package manager client
//   - Out: Destination of the report
//   - Format: Report format
//   - Profile: Color profile for the text report
//   - NoUpgrade: Stop after the report
//   - UpgradeArgs: Extra arguments for the final upgrade
type Watcher struct {
	Settings    *settings.Settings
	Client      pacman.Client
	Out         io.Writer
	Format      output.Format
	Profile     termenv.Profile
	NoUpgrade   bool
	UpgradeArgs []string
}

// Run performs the full pipeline.
//
// It performs the following operations:
//   - Step 1: Validates settings and compiles the rules
//   - Step 2: Refreshes the package databases
//   - Step 3: Collects the pending upgrades (see Collect)
//   - Step 4: Decides verbose or bucket per upgrade and writes the report
//   - Step 5: Stops if ctx was cancelled, otherwise runs the upgrade
//
// Parameters:
//   - ctx: Cancelled on SIGINT/SIGTERM
//
// Returns:
//   - error: nil on success; an *errors.ExitError with ExitInterrupted after
//     cancellation; *errors.ExternalToolError for failed pacman calls
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Settings.Validate(); err != nil {
		return err
	}
	classifier, err := classify.Compile(w.Settings.VersionRules())
	if err != nil {
		return err
	}
	engine, err := policy.New(w.Settings.PolicyRules(), w.Client)
	if err != nil {
		return err
	}

	if err := w.Client.Refresh(ctx); err != nil {
		return interrupted(ctx, err)
	}

	updates, err := Collect(ctx, w.Client, classifier)
	if err != nil {
		return interrupted(ctx, err)
	}

	rep := report.New(w.Settings.GroupOrder())
	for _, u := range updates {
		isVerbose, err := engine.IsVerbose(ctx, u)
		if err != nil {
			return interrupted(ctx, err)
		}
		rep.Add(u, isVerbose)
	}

	if err := w.write(rep); err != nil {
		return err
	}

	if ctx.Err() != nil {
		return interrupted(ctx, ctx.Err())
	}
	if w.NoUpgrade {
		verbose.Info("Skipping upgrade (--no-upgrade)")
		return nil
	}
	if err := w.Client.Upgrade(ctx, w.UpgradeArgs); err != nil {
		return interrupted(ctx, err)
	}
	return nil
}

func (w *Watcher) write(rep *report.Report) error {
	if w.Format == output.FormatJSON {
		return rep.WriteJSON(w.Out)
	}
	return rep.Render(w.Out, report.Options{Profile: w.Profile})
}

// Collect lists installed and pending packages and classifies every
// pending upgrade.
//
// A pending package that is not installed under its own name is looked up
// with ResolveProvider; when that succeeds it is reported as not installed,
// otherwise a warning is printed and the package is left out. Upgrades whose
// versions compare equal are dropped.
//
// Parameters:
//   - ctx: Context for the queries
//   - client: Package manager client
//   - classifier: Compiled version rules
//
// Returns:
//   - []packages.Update: Classified upgrades in pending-list order
//   - error: Query or listing errors
func Collect(ctx context.Context, client pacman.Client, classifier *classify.Classifier) ([]packages.Update, error) {
	installedList, err := client.ListInstalled(ctx)
	if err != nil {
		return nil, err
	}
	installed := packages.VersionMap(installedList)

	pending, err := client.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	verbose.Infof("%d installed, %d pending", len(installedList), len(pending))

	seen := make(map[string]bool, len(pending))
	updates := make([]packages.Update, 0, len(pending))
	for _, p := range pending {
		if seen[p.Name] {
			verbose.PackageSkipped(p.Name, "listed twice")
			continue
		}
		seen[p.Name] = true

		u := packages.Update{Name: p.Name, New: p.Version}
		if old, ok := installed[p.Name]; ok {
			u.Old = old
		} else {
			provider, err := client.ResolveProvider(ctx, p.Name)
			if err != nil {
				if ctx.Err() != nil {
					return nil, err
				}
				warnings.Warningf("%s", &pkgerrors.UnresolvedPackageError{Package: p.Name, Err: err})
				verbose.PackageSkipped(p.Name, "no installed provider")
				continue
			}
			u.Old = classify.NotInstalledVersion
			u.Provider = provider
		}

		component, changed := classifier.Classify(u.Old, u.New)
		verbose.PackageClassified(u.Name, u.Old, u.New, string(component))
		if !changed {
			continue
		}
		u.Component = component
		updates = append(updates, u)
	}
	return updates, nil
}

// interrupted turns any error seen after cancellation into the interrupt
// exit error.
func interrupted(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return pkgerrors.NewExitError(pkgerrors.ExitInterrupted, fmt.Errorf("interrupted: %w", ctx.Err()))
	}
	return err
}
