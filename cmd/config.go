package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajxudir/pacwatch/pkg/constants"
	pkgerrors "github.com/ajxudir/pacwatch/pkg/errors"
	"github.com/ajxudir/pacwatch/pkg/settings"
	"github.com/ajxudir/pacwatch/pkg/verbose"
)

var (
	configShowDefaultsFlag  bool
	configShowEffectiveFlag bool
	configPathOnlyFlag      bool
	configValidateFlag      bool
)

var readFileFunc = os.ReadFile

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or check the settings file",
	Long:  `Show the settings file location, the built-in defaults, or check a settings file.`,
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShowDefaultsFlag, "show-defaults", false, "Show the default settings")
	configCmd.Flags().BoolVar(&configShowEffectiveFlag, "show-effective", false, "Summarize the settings in use")
	configCmd.Flags().BoolVar(&configPathOnlyFlag, "path", false, "Print the settings file location")
	configCmd.Flags().BoolVar(&configValidateFlag, "validate", false, "Check the settings file and list every problem")
}

// runConfig executes the config command with the specified flags.
//
// Behavior depends on flags:
//   - --path: Prints the settings file location
//   - --validate: Checks the settings file and reports every problem
//   - --show-defaults: Prints the embedded default settings
//   - --show-effective: Summarizes the loaded settings
//
// Returns:
//   - error: ExitError with ExitConfigError when the settings are invalid
func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := settings.Path(configFlag)

	switch {
	case configPathOnlyFlag:
		fmt.Fprintln(out, path)
		return nil
	case configValidateFlag:
		return validateSettingsFile(out, path)
	case configShowDefaultsFlag:
		fmt.Fprint(out, settings.DefaultYAML())
		return nil
	case configShowEffectiveFlag:
		s, _, err := loadSettingsFunc(path)
		if err != nil {
			return pkgerrors.NewExitError(pkgerrors.ExitConfigError, err)
		}
		printEffective(out, path, s)
		return nil
	}

	return cmd.Help()
}

// validateSettingsFile reports every problem in the settings file at path.
func validateSettingsFile(out io.Writer, path string) error {
	data, err := readFileFunc(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file '%s': %w", path, err)
	}

	var problems []error
	s, err := settings.Decode(data)
	if err != nil {
		problems = []error{err}
	} else {
		problems = s.Problems()
	}

	if len(problems) == 0 {
		fmt.Fprintf(out, "%s Settings valid: %s\n", constants.IconCheckmarkBox, path)
		return nil
	}

	fmt.Fprintf(out, "%s Settings validation failed for: %s\n\n", constants.IconError, path)
	for _, p := range problems {
		msg := p.Error()
		if ve, ok := pkgerrors.IsValidationError(p); ok && verbose.IsEnabled() {
			msg = ve.VerboseError()
		}
		fmt.Fprintf(out, "  ERROR: %s\n", msg)
		if hint := pkgerrors.GetHint(p); hint != "" {
			fmt.Fprintf(out, "    %s %s\n", constants.IconLightbulb, hint)
		}
	}
	fmt.Fprintln(out)
	if !verbose.IsEnabled() {
		fmt.Fprintf(out, "%s Run with --verbose for details\n", constants.IconLightbulb)
	}
	verbose.Infof("Exit code %d (config error): settings validation failed for %s", pkgerrors.ExitConfigError, path)
	return pkgerrors.NewExitErrorf(pkgerrors.ExitConfigError, "settings validation failed: %d problem(s)", len(problems))
}

func printEffective(out io.Writer, path string, s *settings.Settings) {
	fmt.Fprintf(out, "Settings: %s\n", path)
	fmt.Fprintf(out, "Pacman command: %s\n", s.PacmanCommand)
	fmt.Fprintf(out, "Groups: %s\n\n", strings.Join(s.Groups, ", "))

	fmt.Fprintf(out, "Version rules: %d\n", len(s.Rules))
	for i, r := range s.Rules {
		fmt.Fprintf(out, "  %d. %s\n", i+1, r.Regex)
		if len(r.Parts) > 0 {
			fmt.Fprintf(out, "     parts: %s\n", strings.Join(r.Parts, ", "))
		}
	}

	fmt.Fprintf(out, "\nVerbose rules: %d\n", len(s.Verbose))
	for i, r := range s.Verbose {
		var match []string
		if len(r.Packages) > 0 {
			match = append(match, "packages: "+strings.Join(r.Packages, ", "))
		}
		if r.Regex != "" {
			match = append(match, "regex: "+r.Regex)
		}
		fmt.Fprintf(out, "  %d. %s\n", i+1, strings.Join(match, "; "))
		if r.All {
			fmt.Fprintf(out, "     groups: all\n")
		} else {
			fmt.Fprintf(out, "     groups: %s\n", strings.Join(r.Groups, ", "))
		}
		if r.Explicit {
			fmt.Fprintf(out, "     explicit only\n")
		}
		if r.When != "" {
			fmt.Fprintf(out, "     when: %s\n", r.When)
		}
		if r.NoVerbose {
			fmt.Fprintf(out, "     condensed\n")
		}
	}
}
