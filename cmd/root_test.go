package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ajxudir/pacwatch/pkg/errors"
	"github.com/ajxudir/pacwatch/pkg/pacman"
	"github.com/ajxudir/pacwatch/pkg/preflight"
	"github.com/ajxudir/pacwatch/pkg/settings"
	"github.com/ajxudir/pacwatch/pkg/testutil"
	"github.com/ajxudir/pacwatch/pkg/verbose"
)

// clientStub records how the root command built its pacman client.
type clientStub struct {
	fake    *testutil.FakePacman
	command string
	color   bool
	calls   int
}

// setupRoot resets every flag, points the root command at fresh buffers and
// swaps in a fake pacman client. Everything is restored on cleanup.
func setupRoot(t *testing.T, fake *testutil.FakePacman) (*clientStub, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	resetFlags()
	stub := &clientStub{fake: fake}
	oldNewClient := newClientFunc
	oldLoad := loadSettingsFunc
	oldEdit := editSettingsFunc
	oldPreflight := preflightFunc
	preflightFunc = func(ctx context.Context, command string) error { return nil }
	newClientFunc = func(command string, color bool) pacman.Client {
		stub.command = command
		stub.color = color
		stub.calls++
		return fake
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)

	t.Cleanup(func() {
		newClientFunc = oldNewClient
		loadSettingsFunc = oldLoad
		editSettingsFunc = oldEdit
		preflightFunc = oldPreflight
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags()
		verbose.Disable()
	})
	return stub, &out, &errOut
}

// resetFlags restores every flag of the command tree to its default,
// including cobra's help flag and the position of "--" from the last parse.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		c.Flags().Init(c.Name(), pflag.ContinueOnError)
	}
}

func run(args ...string) error {
	rootCmd.SetArgs(append([]string{"--skip-build-checks"}, args...))
	return ExecuteTest()
}

// TestRootPipeline tests a full run with a fresh settings directory.
//
// It verifies:
//   - Missing settings are created from the defaults
//   - The report is written to the command output
//   - Arguments after -- reach the upgrade
func TestRootPipeline(t *testing.T) {
	fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1"})
	stub, out, errOut := setupRoot(t, fake)
	path := filepath.Join(t.TempDir(), "pacwatch", "settings.yml")

	err := run("--config", path, "--color", "never", "--", "--needed")

	require.NoError(t, err)
	assert.Equal(t, "patch (1) foo-1.2.4-1\n", out.String())
	assert.Contains(t, errOut.String(), "Created default settings")
	assert.FileExists(t, path)
	assert.Equal(t, "sudo pacman", stub.command)
	assert.False(t, stub.color)
	assert.Equal(t, []string{"--needed"}, fake.UpgradeArgs)
	assert.Equal(t, []string{"refresh", "installed", "pending", "upgrade"}, fake.Calls)
}

func TestRootFlags(t *testing.T) {
	t.Run("pacman override and color", func(t *testing.T) {
		fake := testutil.NewFakePacman(nil, nil)
		stub, _, _ := setupRoot(t, fake)
		path := filepath.Join(t.TempDir(), "settings.yml")

		require.NoError(t, run("--config", path, "-p", "yay", "--color", "always", "--no-upgrade"))

		assert.Equal(t, "yay", stub.command)
		assert.True(t, stub.color)
		assert.Zero(t, fake.CallCount("upgrade"))
	})

	t.Run("json format", func(t *testing.T) {
		fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1"})
		_, out, _ := setupRoot(t, fake)
		path := filepath.Join(t.TempDir(), "settings.yml")

		require.NoError(t, run("--config", path, "--format", "json", "--no-upgrade"))

		assert.Contains(t, out.String(), `"groups"`)
		assert.Contains(t, out.String(), `"foo"`)
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, _ = setupRoot(t, testutil.NewFakePacman(nil, nil))
		err := run("--config", filepath.Join(t.TempDir(), "settings.yml"), "--format", "yaml")
		assert.Error(t, err)
	})

	t.Run("bad color", func(t *testing.T) {
		_, _, _ = setupRoot(t, testutil.NewFakePacman(nil, nil))
		err := run("--config", filepath.Join(t.TempDir(), "settings.yml"), "--color", "sometimes")
		assert.ErrorContains(t, err, "sometimes")
	})

	t.Run("arguments without dash", func(t *testing.T) {
		stub, _, _ := setupRoot(t, testutil.NewFakePacman(nil, nil))
		err := run("--needed")
		assert.Error(t, err)

		err = run("foo")
		assert.ErrorContains(t, err, "after --")
		assert.Zero(t, stub.calls)
	})
}

func TestRootVersionFlag(t *testing.T) {
	_, out, _ := setupRoot(t, testutil.NewFakePacman(nil, nil))

	require.NoError(t, run("-v"))

	assert.Contains(t, out.String(), "Version: "+Version)
}

func TestRootReset(t *testing.T) {
	stub, out, _ := setupRoot(t, testutil.NewFakePacman(nil, nil))
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte("settings_version: 1\n"), 0o644))

	require.NoError(t, run("--config", path, "--reset"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultYAML(), string(data))
	assert.Contains(t, out.String(), "Settings reset: "+path)
	assert.Zero(t, stub.calls)
}

func TestRootEdit(t *testing.T) {
	stub, _, _ := setupRoot(t, testutil.NewFakePacman(nil, nil))
	var edited string
	editSettingsFunc = func(ctx context.Context, path string) error {
		edited = path
		return nil
	}

	require.NoError(t, run("--config", "/tmp/pacwatch-test.yml", "-e"))

	assert.Equal(t, "/tmp/pacwatch-test.yml", edited)
	assert.Zero(t, stub.calls)
}

// TestRootSettingsErrors tests that broken settings stop the run before
// pacman is touched.
func TestRootSettingsErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{name: "old schema", content: "groups: [major]\n", contains: "settings version mismatch"},
		{name: "newer schema", content: "settings_version: 3\n", contains: "found 3"},
		{name: "unknown key", content: "settings_version: 2\npacman: pacman\n", contains: "invalid YAML"},
		{name: "invalid rule", content: settings.DefaultYAML() + "\n" + "  - regex: '('\n    groups: [major]\n", contains: "verbose[2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakePacman(nil, nil)
			stub, out, _ := setupRoot(t, fake)
			path := filepath.Join(t.TempDir(), "settings.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			err := run("--config", path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Equal(t, pkgerrors.ExitConfigError, pkgerrors.GetExitCode(err))
			assert.Zero(t, stub.calls)
			assert.Empty(t, fake.Calls)
			assert.Empty(t, out.String())
		})
	}
}

func TestRootUpgradeFailureExitCode(t *testing.T) {
	fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1"})
	fake.Failures["upgrade"] = &pkgerrors.ExternalToolError{Command: "sudo pacman -Su", ExitCode: 1, Upgrade: true}
	_, out, _ := setupRoot(t, fake)

	err := run("--config", filepath.Join(t.TempDir(), "settings.yml"), "--color", "never")

	assert.Equal(t, pkgerrors.ExitUpgradeFailure, pkgerrors.GetExitCode(err))
	assert.Equal(t, "patch (1) foo-1.2.4-1\n", out.String())
}

func TestRootPreflight(t *testing.T) {
	fake := testutil.NewFakePacman(nil, nil)
	stub, _, _ := setupRoot(t, fake)
	var checked []string
	preflightFunc = func(ctx context.Context, command string) error {
		checked = append(checked, command)
		return &preflight.MissingCommandError{Command: "paru"}
	}
	path := filepath.Join(t.TempDir(), "settings.yml")

	err := run("--config", path, "-p", "paru")

	assert.ErrorContains(t, err, "command not found: paru")
	assert.Equal(t, pkgerrors.ExitFailure, pkgerrors.GetExitCode(err))
	assert.Equal(t, []string{"paru"}, checked)
	assert.Zero(t, stub.calls)

	resetFlags()
	checked = nil
	require.NoError(t, run("--config", path, "--skip-preflight", "--no-upgrade"))
	assert.Empty(t, checked)
	assert.Equal(t, 1, stub.calls)
}

// TestRootRepeatedRuns verifies that one invocation leaves no state behind
// for the next: a --help run or a run with -- must not change how later
// arguments are handled.
func TestRootRepeatedRuns(t *testing.T) {
	fake := testutil.NewFakePacman([]string{"foo 1.2.3-1"}, []string{"foo 1.2.4-1"})
	stub, out, _ := setupRoot(t, fake)
	path := filepath.Join(t.TempDir(), "settings.yml")

	require.NoError(t, run("--help"))
	assert.Contains(t, out.String(), "Usage:")

	resetFlags()
	out.Reset()
	require.NoError(t, run("--config", path, "--color", "never", "--", "--needed"))
	assert.Equal(t, "patch (1) foo-1.2.4-1\n", out.String())
	assert.Equal(t, 1, stub.calls)

	resetFlags()
	err := run("--config", path, "foo")
	assert.ErrorContains(t, err, "after --")
	assert.Equal(t, 1, stub.calls)
}
