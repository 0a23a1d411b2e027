package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ajxudir/pacwatch/pkg/errors"
	"github.com/ajxudir/pacwatch/pkg/testutil"
)

// TestExecuteWithExitCodes tests the behavior of Execute with different exit codes.
//
// It verifies:
//   - Successful commands do not call exitFunc
//   - Errors call exitFunc with the matching exit code
//   - The error is printed with its hint
func TestExecuteWithExitCodes(t *testing.T) {
	oldExit := exitFunc
	defer func() { exitFunc = oldExit }()

	t.Run("success does not exit", func(t *testing.T) {
		_, _, _ = setupRoot(t, testutil.NewFakePacman(nil, nil))
		exitCode := -1
		exitFunc = func(code int) { exitCode = code }

		rootCmd.SetArgs([]string{"--help"})
		Execute()

		assert.Equal(t, -1, exitCode)
	})

	t.Run("unknown flag exits with failure", func(t *testing.T) {
		_, _, _ = setupRoot(t, testutil.NewFakePacman(nil, nil))
		exitCode := -1
		exitFunc = func(code int) { exitCode = code }

		rootCmd.SetArgs([]string{"--skip-build-checks", "--no-such-flag"})
		testutil.CaptureStderr(t, Execute)

		assert.Equal(t, pkgerrors.ExitFailure, exitCode)
	})

	t.Run("settings error exits with config code", func(t *testing.T) {
		_, _, _ = setupRoot(t, testutil.NewFakePacman(nil, nil))
		exitCode := -1
		exitFunc = func(code int) { exitCode = code }
		path := filepath.Join(t.TempDir(), "settings.yml")
		require.NoError(t, os.WriteFile(path, []byte("settings_version: 1\n"), 0o644))

		rootCmd.SetArgs([]string{"--skip-build-checks", "--config", path})
		stderr := testutil.CaptureStderr(t, Execute)

		assert.Equal(t, pkgerrors.ExitConfigError, exitCode)
		assert.Contains(t, stderr, "settings version mismatch")
		assert.Contains(t, stderr, "pacwatch --reset")
	})
}
