package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// displayWidth returns the number of terminal cells s occupies.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// padding returns the spaces needed to grow plain text s to width cells.
//
// Parameters:
//   - s: Unstyled text whose width is measured
//   - width: Target display width in cells
//
// Returns:
//   - string: Spaces to add, empty if s is already wide enough
func padding(s string, width int) string {
	current := displayWidth(s)
	if current >= width {
		return ""
	}
	return strings.Repeat(" ", width-current)
}

// commonPrefix returns the number of leading runes old and new share,
// capped so that both keep at least one rune after the split.
func commonPrefix(old, new []rune) int {
	n := 0
	for n+1 < len(old) && n+1 < len(new) && old[n] == new[n] {
		n++
	}
	return n
}
