// Package packages holds the per-run package records and the parser for the
// "name version" listings printed by pacman.
package packages

import (
	"bufio"
	"strings"

	"github.com/ajxudir/pacwatch/pkg/errors"
)

// Entry is one "name version" row of a package listing.
type Entry struct {
	Name    string
	Version string
}

// ParseListing parses pacman output made of "name version" rows.
//
// It performs the following operations:
//   - Skips blank lines (and lines holding a single stray character)
//   - Splits every other line on whitespace
//   - Rejects any line that does not yield exactly two fields
//
// Parameters:
//   - source: Name of the query, used in error messages (e.g. "installed")
//   - output: Raw command output
//
// Returns:
//   - []Entry: Rows in output order
//   - error: *errors.MalformedListingError for the first bad line
func ParseListing(source string, output []byte) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(strings.TrimSpace(line)) <= 1 {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, &errors.MalformedListingError{Source: source, Line: lineNo, Text: line}
		}
		entries = append(entries, Entry{Name: fields[0], Version: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ParseNames parses output holding one package name per line, such as the
// output of "pacman -Qqe". Blank lines are skipped.
func ParseNames(output []byte) []string {
	var names []string
	for _, line := range strings.Split(string(output), "\n") {
		name := strings.TrimSpace(line)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// VersionMap indexes entries by name. A later duplicate overwrites an
// earlier one.
func VersionMap(entries []Entry) map[string]string {
	versions := make(map[string]string, len(entries))
	for _, e := range entries {
		versions[e.Name] = e.Version
	}
	return versions
}
