package output

import (
	"bytes"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" json ", FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, FormatJSON.IsStructured())
	assert.False(t, FormatText.IsStructured())
}

// TestWriteJSON tests the behavior of WriteJSON.
//
// It verifies:
//   - Ordered map keys keep insertion order, including nested maps
//   - HTML characters are not escaped
func TestWriteJSON(t *testing.T) {
	inner := orderedmap.New()
	inner.Set("z", "<b>")
	inner.Set("a", "x&y")

	outer := orderedmap.New()
	outer.Set("second", 2)
	outer.Set("first", []interface{}{inner})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, outer))

	want := "{\n" +
		"  \"second\": 2,\n" +
		"  \"first\": [\n" +
		"    {\n" +
		"      \"z\": \"<b>\",\n" +
		"      \"a\": \"x&y\"\n" +
		"    }\n" +
		"  ]\n" +
		"}\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteJSONStruct(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, struct {
		Name string `json:"name"`
	}{Name: "a<b"}))
	assert.Equal(t, "{\n  \"name\": \"a<b\"\n}\n", buf.String())
}
