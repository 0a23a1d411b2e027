// Package cmd implements the pacwatch command line.
//
// The root command refreshes the package databases, prints the pending
// upgrades grouped by how much each version changes, and then hands over
// to "pacman -Su".
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	pkgerrors "github.com/ajxudir/pacwatch/pkg/errors"
	"github.com/ajxudir/pacwatch/pkg/output"
	"github.com/ajxudir/pacwatch/pkg/pacman"
	"github.com/ajxudir/pacwatch/pkg/preflight"
	"github.com/ajxudir/pacwatch/pkg/report"
	"github.com/ajxudir/pacwatch/pkg/settings"
	"github.com/ajxudir/pacwatch/pkg/verbose"
	"github.com/ajxudir/pacwatch/pkg/watch"
)

var exitFunc = os.Exit

var (
	verboseFlag         bool
	versionFlag         bool
	skipBuildChecksFlag bool
	resetFlag           bool
	editFlag            bool
	noUpgradeFlag       bool
	skipPreflightFlag   bool
	pacmanFlag          string
	configFlag          string
	colorFlag           string
	formatFlag          string
)

var (
	loadSettingsFunc = settings.Load
	editSettingsFunc = settings.Edit
	preflightFunc    = preflight.CheckCommand
	newClientFunc    = func(command string, color bool) pacman.Client {
		return pacman.NewShell(command, color)
	}
)

var rootCmd = &cobra.Command{
	Use:   "pacwatch [flags] [-- pacman -Su arguments]",
	Short: "Review pending pacman upgrades before applying them",
	Long: `Refresh the package databases, show pending upgrades grouped by the part
of the version that changes, then run the system upgrade.

Arguments after -- are passed to "pacman -Su".`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verboseFlag {
			verbose.Enable()
		}
		// Build warnings go to stderr so the report stays clean.
		if !skipBuildChecksFlag {
			if warnings := GetBuildWarnings(); warnings != "" {
				fmt.Fprint(os.Stderr, warnings)
				fmt.Fprintln(os.Stderr)
			}
		}
	},
	RunE: runRoot,
}

// Execute runs the root command and exits with the matching code:
//   - 0: Success
//   - 1: The report was printed but the upgrade failed
//   - 2: Any other failure
//   - 3: Settings error
//   - 130: Interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		code := pkgerrors.GetExitCode(err)
		pkgerrors.PrintErrorWithHints(os.Stderr, []error{err}, verboseFlag)
		verbose.Infof("Exit code %d: %v", code, err)
		stop()
		exitFunc(code)
	}
}

// ExecuteTest runs the root command for testing (returns error instead of exiting).
//
// Unlike Execute(), this function returns the error directly without calling
// os.Exit and installs no signal handler.
//
// Returns:
//   - error: Command execution error, or nil on success
func ExecuteTest() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().BoolVar(&skipBuildChecksFlag, "skip-build-checks", false, "Skip build validation warnings (dev build, arch mismatch)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Settings file (default $XDG_CONFIG_HOME/pacwatch/settings.yml)")

	// -v/--version is local so it only works on the root command
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version information")
	rootCmd.Flags().BoolVar(&resetFlag, "reset", false, "Restore the default settings file and exit")
	rootCmd.Flags().BoolVarP(&editFlag, "edit", "e", false, "Open the settings file in $VISUAL/$EDITOR and exit")
	rootCmd.Flags().StringVarP(&pacmanFlag, "pacman", "p", "", "Command used to run pacman for this run (overrides pacman_command)")
	rootCmd.Flags().StringVar(&colorFlag, "color", "auto", "Colorize the report: auto, always or never")
	rootCmd.Flags().StringVar(&formatFlag, "format", "text", "Report format: text or json")
	rootCmd.Flags().BoolVar(&noUpgradeFlag, "no-upgrade", false, "Print the report without running the upgrade")
	rootCmd.Flags().BoolVar(&skipPreflightFlag, "skip-preflight", false, "Do not check that the pacman command exists")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// runRoot runs the default pacwatch pipeline.
//
// It performs the following operations:
//   - Step 1: Handles --version, --reset and --edit, which exit early
//   - Step 2: Loads the settings before any package query
//   - Step 3: Checks that the pacman command exists
//   - Step 4: Builds the pacman client and runs the watcher
func runRoot(cmd *cobra.Command, args []string) error {
	if dash := cmd.ArgsLenAtDash(); len(args) > 0 && dash != 0 {
		return fmt.Errorf("unexpected arguments %q: pass pacman arguments after --", args)
	}

	out := cmd.OutOrStdout()
	if versionFlag {
		printVersionOutput(out)
		return nil
	}

	path := settings.Path(configFlag)
	if resetFlag {
		if err := settings.Reset(path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Settings reset: %s\n", path)
		return nil
	}
	if editFlag {
		return editSettingsFunc(cmd.Context(), path)
	}

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	profile, err := report.ColorProfile(colorFlag, out)
	if err != nil {
		return err
	}

	s, created, err := loadSettingsFunc(path)
	if err != nil {
		return pkgerrors.NewExitError(pkgerrors.ExitConfigError, err)
	}
	if created {
		fmt.Fprintf(cmd.ErrOrStderr(), "Created default settings: %s\n", path)
	}

	command := s.PacmanCommand
	if pacmanFlag != "" {
		command = pacmanFlag
	}
	if !skipPreflightFlag {
		if err := preflightFunc(cmd.Context(), command); err != nil {
			return err
		}
	}

	w := &watch.Watcher{
		Settings:    s,
		Client:      newClientFunc(command, profile != termenv.Ascii),
		Out:         out,
		Format:      format,
		Profile:     profile,
		NoUpgrade:   noUpgradeFlag,
		UpgradeArgs: args,
	}
	return w.Run(cmd.Context())
}

// printVersionOutput prints version, build, and runtime information.
//
// Output includes build target platform, runtime platform (if different),
// Go version, build date, git commit, and version string.
func printVersionOutput(w io.Writer) {
	// Show build architecture (what binary was compiled for)
	buildOS, buildArch := getBuildTarget()
	fmt.Fprintf(w, "  Build:   %s/%s\n", buildOS, buildArch)

	// Show runtime (what user is running on) only if different
	if buildOS != runtime.GOOS || buildArch != runtime.GOARCH {
		fmt.Fprintf(w, "  Runtime: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}

	fmt.Fprintf(w, "  Go:      %s\n", runtime.Version())
	if BuildTime != "" {
		fmt.Fprintf(w, "  Date:    %s\n", BuildTime)
	}
	fmt.Fprintln(w)
	if GitCommit != "" {
		fmt.Fprintf(w, "  Git:     %s\n", GitCommit)
	}
	fmt.Fprintf(w, "  Version: %s\n", Version)
}
