package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/ajxudir/pacwatch/pkg/constants"
)

// ColorProfile resolves a --color mode for w.
//
// "always" forces basic ANSI colors, "never" disables styling and "auto"
// colors only when w is a terminal and the environment (NO_COLOR,
// CLICOLOR_FORCE) allows it.
//
// Parameters:
//   - mode: constants.ColorAuto, constants.ColorAlways or constants.ColorNever
//   - w: The writer the report will go to
//
// Returns:
//   - termenv.Profile: termenv.ANSI or termenv.Ascii
//   - error: When mode is not recognized
func ColorProfile(mode string, w io.Writer) (termenv.Profile, error) {
	switch mode {
	case constants.ColorAlways:
		return termenv.ANSI, nil
	case constants.ColorNever:
		return termenv.Ascii, nil
	case constants.ColorAuto, "":
		if termenv.NewOutput(w).EnvColorProfile() == termenv.Ascii {
			return termenv.Ascii, nil
		}
		return termenv.ANSI, nil
	default:
		return termenv.Ascii, fmt.Errorf("unknown color mode %q (valid: %s, %s, %s)",
			mode, constants.ColorAuto, constants.ColorAlways, constants.ColorNever)
	}
}

type styles struct {
	removed lipgloss.Style
	added   lipgloss.Style
	label   lipgloss.Style
}

func newStyles(w io.Writer, profile termenv.Profile) styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return styles{
		removed: r.NewStyle().Foreground(lipgloss.Color("1")),
		added:   r.NewStyle().Foreground(lipgloss.Color("2")),
		label:   r.NewStyle().Foreground(lipgloss.Color("5")),
	}
}

func render(style lipgloss.Style, s string) string {
	if s == "" {
		return ""
	}
	return style.Render(s)
}
