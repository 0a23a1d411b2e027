package watch

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/pacwatch/pkg/classify"
	pkgerrors "github.com/ajxudir/pacwatch/pkg/errors"
	"github.com/ajxudir/pacwatch/pkg/output"
	"github.com/ajxudir/pacwatch/pkg/pacman"
	"github.com/ajxudir/pacwatch/pkg/settings"
	"github.com/ajxudir/pacwatch/pkg/testutil"
	"github.com/ajxudir/pacwatch/pkg/warnings"
)

func newWatcher(s *settings.Settings, client pacman.Client) (*Watcher, *bytes.Buffer) {
	var out bytes.Buffer
	return &Watcher{
		Settings: s,
		Client:   client,
		Out:      &out,
		Format:   output.FormatText,
		Profile:  termenv.Ascii,
	}, &out
}

func captureWarnings(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	restore := warnings.SetWarningWriter(&buf)
	t.Cleanup(restore)
	return &buf
}

// TestRun tests the full pipeline against a fake pacman.
//
// It verifies:
//   - Calls happen in order: refresh, installed, pending, upgrade
//   - The condensed bucket line is printed
//   - Upgrade receives the extra arguments
func TestRun(t *testing.T) {
	fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1"})
	w, out := newWatcher(testutil.NewSettings().WithoutVerbose().Build(), fake)
	w.UpgradeArgs = []string{"--needed"}

	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, "patch (1) foo-1.2.4-1\n", out.String())
	assert.Equal(t, []string{"refresh", "installed", "pending", "upgrade"}, fake.Calls)
	assert.Equal(t, []string{"--needed"}, fake.UpgradeArgs)
}

func TestRun_VerboseAndBuckets(t *testing.T) {
	fake := testutil.NewFakePacman(
		[]string{"linux 6.1.2-1", "bar 1.0.0-1", "baz 2.0-1"},
		[]string{"linux 6.1.3-1", "bar 2.0.0-1", "baz 2.0-2"},
	)
	w, out := newWatcher(testutil.NewSettings().Build(), fake)

	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t,
		"1.0.0-1 -> 2.0.0-1: bar\n"+
			"6.1.2-1 -> 6.1.3-1: linux\n"+
			"pkgrel (1) baz-2.0-2\n",
		out.String())
}

func TestRun_NothingPending(t *testing.T) {
	fake := testutil.NewFakePacman([]string{"foo 1.0-1"}, nil)
	w, out := newWatcher(testutil.NewSettings().Build(), fake)

	require.NoError(t, w.Run(context.Background()))

	assert.Empty(t, out.String())
	assert.Equal(t, 1, fake.CallCount("upgrade"))
}

func TestRun_JSON(t *testing.T) {
	fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1"})
	w, out := newWatcher(testutil.NewSettings().WithoutVerbose().Build(), fake)
	w.Format = output.FormatJSON
	w.NoUpgrade = true

	require.NoError(t, w.Run(context.Background()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Contains(t, doc, "verbose")
	groups, ok := doc["groups"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, groups, "patch")
}

// TestRun_UnresolvedPackage tests pending packages with no installed
// provider.
//
// It verifies:
//   - A warning naming the package is printed
//   - The package is left out of the report
//   - The run still succeeds and upgrades
func TestRun_UnresolvedPackage(t *testing.T) {
	warn := captureWarnings(t)
	fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1", "ghost 1.0-1"})
	w, out := newWatcher(testutil.NewSettings().WithoutVerbose().Build(), fake)

	require.NoError(t, w.Run(context.Background()))

	assert.Contains(t, warn.String(), `"ghost"`)
	assert.Contains(t, warn.String(), "package 'ghost' was not found")
	assert.NotContains(t, out.String(), "ghost")
	assert.Equal(t, 1, fake.CallCount("provider ghost"))
	assert.Equal(t, 1, fake.CallCount("upgrade"))
}

func TestRun_ProviderResolved(t *testing.T) {
	fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo-git 1.3.0-1"})
	fake.Providers["foo-git"] = "foo"
	w, out := newWatcher(testutil.NewSettings().WithoutVerbose().Build(), fake)
	w.NoUpgrade = true

	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, "not-installed (1) foo-git-1.3.0-1\n", out.String())
}

func TestRun_VersionMismatchRunsNothing(t *testing.T) {
	fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1"})
	w, out := newWatcher(testutil.NewSettings().WithVersion(1).Build(), fake)

	err := w.Run(context.Background())

	_, ok := pkgerrors.IsConfigVersionError(err)
	assert.True(t, ok)
	assert.Equal(t, pkgerrors.ExitConfigError, pkgerrors.GetExitCode(err))
	assert.Empty(t, fake.Calls)
	assert.Empty(t, out.String())
}

func TestRun_UpgradeFailure(t *testing.T) {
	fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1"})
	fake.Failures["upgrade"] = &pkgerrors.ExternalToolError{Command: "sudo pacman -Su", ExitCode: 1, Upgrade: true}
	w, out := newWatcher(testutil.NewSettings().WithoutVerbose().Build(), fake)

	err := w.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, pkgerrors.ExitUpgradeFailure, pkgerrors.GetExitCode(err))
	assert.Equal(t, "patch (1) foo-1.2.4-1\n", out.String())
}

func TestRun_QueryFailures(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		err       error
		calls     []string
	}{
		{
			name:      "refresh",
			operation: "refresh",
			err:       &pkgerrors.ExternalToolError{Command: "sudo pacman -Sy", ExitCode: 1},
			calls:     []string{"refresh"},
		},
		{
			name:      "malformed installed listing",
			operation: "installed",
			err:       &pkgerrors.MalformedListingError{Source: "installed", Line: 2, Text: "broken"},
			calls:     []string{"refresh", "installed"},
		},
		{
			name:      "pending",
			operation: "pending",
			err:       &pkgerrors.ExternalToolError{Command: "sudo pacman -Sup", ExitCode: 1},
			calls:     []string{"refresh", "installed", "pending"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1"})
			fake.Failures[tt.operation] = tt.err
			w, out := newWatcher(testutil.NewSettings().Build(), fake)

			err := w.Run(context.Background())

			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, pkgerrors.ExitFailure, pkgerrors.GetExitCode(err))
			assert.Equal(t, tt.calls, fake.Calls)
			assert.Empty(t, out.String())
		})
	}
}

func TestRun_NoUpgrade(t *testing.T) {
	fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1"})
	w, out := newWatcher(testutil.NewSettings().WithoutVerbose().Build(), fake)
	w.NoUpgrade = true

	require.NoError(t, w.Run(context.Background()))

	assert.NotEmpty(t, out.String())
	assert.Zero(t, fake.CallCount("upgrade"))
}

// TestRun_Interrupted tests cancellation before the upgrade starts.
//
// It verifies:
//   - The report is still printed in full
//   - Upgrade is never called
//   - The error carries the interrupt exit code
func TestRun_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1"})
	fake.Explicit = []string{"foo"}
	s := testutil.NewSettings().WithoutVerbose().WithVerbose(settings.VerboseRuleCfg{
		Regex:    ".*",
		Explicit: true,
		All:      true,
	}).Build()
	w, out := newWatcher(s, &cancelOnExplicit{FakePacman: fake, cancel: cancel})

	err := w.Run(ctx)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.ExitInterrupted, pkgerrors.GetExitCode(err))
	assert.Equal(t, "1.2.3-1 -> 1.2.4-1: foo\n", out.String())
	assert.Zero(t, fake.CallCount("upgrade"))
}

func TestRun_InterruptedDuringQuery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1"})
	fake.Failures["refresh"] = context.Canceled
	w, out := newWatcher(testutil.NewSettings().Build(), fake)

	err := w.Run(ctx)

	assert.Equal(t, pkgerrors.ExitInterrupted, pkgerrors.GetExitCode(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

// cancelOnExplicit cancels the run while the verbose policy queries
// explicit packages, after which the report is still written.
type cancelOnExplicit struct {
	*testutil.FakePacman
	cancel context.CancelFunc
}

func (c *cancelOnExplicit) ListExplicit(ctx context.Context) ([]string, error) {
	names, err := c.FakePacman.ListExplicit(ctx)
	c.cancel()
	return names, err
}

func TestRun_ExplicitQueriedOnce(t *testing.T) {
	fake := testutil.NewFakePacman(
		[]string{"foo 1.2.3-1", "bar 1.0.0-1", "baz 3.1.4-1"},
		[]string{"foo 1.2.4-1", "bar 1.0.1-1", "baz 3.1.5-1"},
	)
	fake.Explicit = []string{"bar"}
	s := testutil.NewSettings().WithoutVerbose().WithVerbose(settings.VerboseRuleCfg{
		Regex:    ".*",
		Explicit: true,
		Groups:   []string{"patch"},
	}).Build()
	w, out := newWatcher(s, fake)
	w.NoUpgrade = true

	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, 1, fake.CallCount("explicit"))
	assert.Equal(t,
		"1.0.0-1 -> 1.0.1-1: bar\n"+
			"patch (2) baz-3.1.5-1 foo-1.2.4-1\n",
		out.String())
}

func TestCollect(t *testing.T) {
	fake := testutil.NewFakePacman(
		[]string{"foo 1.2.3-1", "same 1.0-1"},
		[]string{"foo 1.2.4-1", "same 1.0-1", "foo 1.2.4-1", "odd abc"},
	)
	fake.Installed = append(fake.Installed, fake.Pending[3])
	fake.Installed[2].Version = "xyz"
	classifier, err := classify.Compile(settings.Default().VersionRules())
	require.NoError(t, err)

	updates, err := Collect(context.Background(), fake, classifier)

	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, "foo", updates[0].Name)
	assert.Equal(t, classify.Component("patch"), updates[0].Component)
	assert.Equal(t, "odd", updates[1].Name)
	assert.Equal(t, classify.Unknown, updates[1].Component)
}
