package ui

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevErr := Out, Err
	Out, Err = &buf, &buf
	t.Cleanup(func() { Out, Err = prevOut, prevErr })
	return &buf
}

func TestMessages(t *testing.T) {
	buf := capture(t)

	PrintSuccess("inserted %d row", 1)
	PrintError("failed: %s", "boom")
	PrintWarning("no where clause")
	PrintInfo("dry run")

	out := buf.String()
	assert.Contains(t, out, "inserted 1 row")
	assert.Contains(t, out, "failed: boom")
	assert.Contains(t, out, "no where clause")
	assert.Contains(t, out, "dry run")
}

func TestPrintRows(t *testing.T) {
	buf := capture(t)

	err := PrintRows([]map[string]any{
		{"gid": json.Number("1"), "st_astext": "POINT(1 2)"},
		{"gid": json.Number("2"), "st_astext": nil, "props": map[string]any{"a": 1}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "gid")
	assert.Contains(t, out, "st_astext")
	assert.Contains(t, out, "POINT(1 2)")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, `{"a":1}`)
}

func TestPrintRows_Empty(t *testing.T) {
	buf := capture(t)
	require.NoError(t, PrintRows(nil))
	assert.Contains(t, buf.String(), "No rows")
}

func TestPrintJSON(t *testing.T) {
	buf := capture(t)
	require.NoError(t, PrintJSON([][]any{{1}}))
	assert.JSONEq(t, "[[1]]", buf.String())
}

func TestPrintSQL(t *testing.T) {
	buf := capture(t)
	require.NoError(t, PrintSQL("DELETE FROM d.points where gid=$1", []any{1}))
	assert.Contains(t, buf.String(), "DELETE FROM d.points")
	assert.Contains(t, buf.String(), "$1")
}

func TestPrintKeyValue(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })
	buf := capture(t)

	PrintKeyValue("postgis", "3.4.2")
	assert.Equal(t, "postgis: 3.4.2\n", buf.String())
}

func TestPrintHeader(t *testing.T) {
	buf := capture(t)

	PrintHeader("d.points", "4 columns, 1 geometry")
	assert.Contains(t, buf.String(), "d.points")
	assert.Contains(t, buf.String(), "4 columns, 1 geometry")
}
