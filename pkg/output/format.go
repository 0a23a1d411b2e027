// Package output selects the report format and writes structured output.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/ajxudir/pacwatch/pkg/constants"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is the default colored terminal report.
	FormatText Format = constants.FormatText
	// FormatJSON outputs the report as JSON.
	FormatJSON Format = constants.FormatJSON
)

// ParseFormat parses a format string into a Format type.
//
// The parsing is case-insensitive and an empty string selects FormatText.
//
// Parameters:
//   - s: Format string to parse (e.g., "text", "JSON")
//
// Returns:
//   - Format: The parsed format
//   - error: When s names no known format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", constants.FormatText:
		return FormatText, nil
	case constants.FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: %s, %s)", s, FormatText, FormatJSON)
	}
}

// IsStructured returns true if the format is meant for machine consumption.
func (f Format) IsStructured() bool {
	return f == FormatJSON
}

// WriteJSON writes data as indented JSON followed by a newline.
//
// Ordered maps anywhere in data keep their key order and, like the rest of
// the document, are written without HTML escaping.
//
// Parameters:
//   - w: Destination writer
//   - data: The data to marshal, typically holding *orderedmap.OrderedMap values
//
// Returns:
//   - error: Returns error if encoding or writing fails
func WriteJSON(w io.Writer, data interface{}) error {
	out, err := marshalJSON(data)
	if err != nil {
		return err
	}
	_, err = w.Write(append(out, '\n'))
	return err
}

// marshalJSON marshals data with two-space indentation and no HTML escaping.
func marshalJSON(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	normalizeOrderedMapEscaping(data)
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// disableOrderedMapEscape recursively disables HTML escaping for an ordered
// map and all nested maps.
func disableOrderedMapEscape(m *orderedmap.OrderedMap) {
	m.SetEscapeHTML(false)
	for _, key := range m.Keys() {
		val, _ := m.Get(key)
		normalizeOrderedMapEscaping(val)
	}
}

// normalizeOrderedMapEscaping walks val and disables HTML escaping on every
// ordered map it reaches.
func normalizeOrderedMapEscaping(val interface{}) {
	switch v := val.(type) {
	case *orderedmap.OrderedMap:
		disableOrderedMapEscape(v)
	case []interface{}:
		for _, item := range v {
			normalizeOrderedMapEscaping(item)
		}
	}
}
