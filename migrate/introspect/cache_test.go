package introspect

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnCache_LRU(t *testing.T) {
	c := NewColumnCache(2, 0)
	c.Set("a", []string{"x"})
	c.Set("b", []string{"y"})

	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", []string{"z"})

	_, ok = c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 2.0/3.0, stats.HitRate(), 1e-9)
}

func TestColumnCache_TTL(t *testing.T) {
	c := NewColumnCache(4, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", []string{"x"})
	_, ok := c.Get("a")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Size)
}

func TestColumnCache_ReturnsCopies(t *testing.T) {
	c := NewColumnCache(4, 0)
	names := []string{"gid", "geom"}
	c.Set("a", names)
	names[0] = "changed"

	got, _ := c.Get("a")
	got[1] = "changed too"

	again, _ := c.Get("a")
	assert.Equal(t, []string{"gid", "geom"}, again)
}

func TestColumnCache_Invalidate(t *testing.T) {
	c := NewColumnCache(8, 0)
	c.Set(tableKey("points")+"true|geom", []string{"a"})
	c.Set(tableKey("public.points")+"false|geom", []string{"a"})
	c.Set(tableKey("d.points")+"true|geom", []string{"a"})

	c.Invalidate("points")
	assert.Equal(t, 1, c.Stats().Size)

	c.Clear()
	assert.Equal(t, 0, c.Stats().Size)
}

func TestColumnNames_Cached(t *testing.T) {
	in, mock := newMock(t)
	in.WithCache(NewColumnCache(8, 0))

	mock.ExpectQuery(columnNamesSQL).WithArgs("d", "points").WillReturnRows(
		sqlmock.NewRows([]string{"column_name"}).AddRow("gid").AddRow("geom"))
	mock.ExpectQuery(columnNamesSQL).WithArgs("d", "points").WillReturnRows(
		sqlmock.NewRows([]string{"column_name"}).AddRow("gid").AddRow("geom"))

	ctx := context.Background()
	first, err := in.ColumnNames(ctx, "d.points")
	require.NoError(t, err)
	second, err := in.ColumnNames(ctx, "d.points")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// different options miss the cache
	plain, err := in.ColumnNames(ctx, "d.points", WithGeoJSON(false))
	require.NoError(t, err)
	assert.Equal(t, []string{"gid", "geom"}, plain)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, int64(1), in.Cache().Stats().Hits)
}
