package workspace

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triples-mcp/internal/simulation"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "workspace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	return st
}

func int64p(v int64) *int64 { return &v }

func TestStore_ManualUpsert(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertManual(ctx, simulation.ManualEntry{DrawNumber: 101, HasEvent: false}))
	require.NoError(t, st.UpsertManual(ctx, simulation.ManualEntry{DrawNumber: 101, HasEvent: true}))
	require.NoError(t, st.UpsertManual(ctx, simulation.ManualEntry{DrawNumber: 100}))

	set, err := st.ManualEntries(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	e, ok := set.Get(101)
	require.True(t, ok)
	assert.True(t, e.HasEvent)
	assert.False(t, e.CreatedAt.IsZero())

	removed, err := st.RemoveManual(ctx, 100)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = st.RemoveManual(ctx, 100)
	require.NoError(t, err)
	assert.False(t, removed)

	n, err := st.ResetManual(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	set, err = st.ManualEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestStore_RecordLoadResetRule(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	last, err := st.LastLoad(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	first, err := st.RecordLoad(ctx, "a.xlsx", 500, int64p(500))
	require.NoError(t, err)
	assert.False(t, first.Reset, "nothing to compare against")
	assert.Nil(t, first.PreviousMax)
	assert.NotEmpty(t, first.ID)

	require.NoError(t, st.UpsertManual(ctx, simulation.ManualEntry{DrawNumber: 501, HasEvent: true}))

	same, err := st.RecordLoad(ctx, "a.xlsx", 500, int64p(500))
	require.NoError(t, err)
	assert.False(t, same.Reset)
	set, err := st.ManualEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len(), "equal max keeps the entries")

	older, err := st.RecordLoad(ctx, "old.xlsx", 490, int64p(490))
	require.NoError(t, err)
	assert.False(t, older.Reset)
	require.NotNil(t, older.PreviousMax)
	assert.Equal(t, int64(500), *older.PreviousMax)

	newer, err := st.RecordLoad(ctx, "b.xlsx", 510, int64p(510))
	require.NoError(t, err)
	assert.True(t, newer.Reset)
	require.NotNil(t, newer.PreviousMax)
	assert.Equal(t, int64(490), *newer.PreviousMax, "the stored max is always the last loaded one")
	set, err = st.ManualEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())

	last, err = st.LastLoad(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "b.xlsx", last.File)
	assert.Equal(t, 510, last.Rows)
	assert.True(t, last.Reset)
}

func TestStore_RecordLoadWithoutMax(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.RecordLoad(ctx, "a.csv", 10, int64p(10))
	require.NoError(t, err)
	require.NoError(t, st.UpsertManual(ctx, simulation.ManualEntry{DrawNumber: 11}))

	l, err := st.RecordLoad(ctx, "nonumbers.csv", 10, nil)
	require.NoError(t, err)
	assert.False(t, l.Reset)
	assert.Nil(t, l.MaxDraw)

	l, err = st.RecordLoad(ctx, "c.csv", 12, int64p(12))
	require.NoError(t, err)
	assert.False(t, l.Reset, "previous max is unknown")

	set, err := st.ManualEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}

func TestStore_PragmasOnEveryConnection(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Hold two connections at once so the pool has to open a second one.
	conns := make([]*sql.Conn, 2)
	for i := range conns {
		c, err := st.db.Conn(ctx)
		require.NoError(t, err)
		t.Cleanup(func() { c.Close() }) //nolint:errcheck
		conns[i] = c
	}

	for i, c := range conns {
		var timeout, synchronous int
		var mode string
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA synchronous").Scan(&synchronous))
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, 5000, timeout, "conn %d", i)
		assert.Equal(t, 1, synchronous, "conn %d: NORMAL", i)
		assert.Equal(t, "wal", strings.ToLower(mode), "conn %d", i)
	}
}
