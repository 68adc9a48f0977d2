package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaw(t *testing.T) {
	c, err := Raw(
		"depth, description, geom",
		[]any{12.15, "water well", "POINT(100 200)"},
		"?,?,st_transform(st_geometryfromtext(?,25830),25831)",
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"depth", "description", "geom"}, c.Columns)
	assert.Equal(t, []string{"?", "?", "st_transform(st_geometryfromtext(?,25830),25831)"}, c.Expressions)
	assert.Equal(t, 3, c.Len())
}

func TestRaw_Misaligned(t *testing.T) {
	_, err := Raw("a, b", []any{1}, "?,?")
	assert.ErrorIs(t, err, ErrMisalignedFields)
}

func TestRaw_QuotedCommas(t *testing.T) {
	c, err := Raw("a,b", []any{nil, 2}, "coalesce(?, 'x,y'),?")
	require.NoError(t, err)
	assert.Equal(t, []string{"coalesce(?, 'x,y')", "?"}, c.Expressions)
}

func TestNew_DuplicateColumn(t *testing.T) {
	_, err := New([]string{"a", "a"}, []any{1, 2}, []string{"?", "?"})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}
