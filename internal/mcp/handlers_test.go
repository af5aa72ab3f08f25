package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triples-mcp/internal/config"
	"triples-mcp/internal/simulation"
	"triples-mcp/internal/stats"
	"triples-mcp/internal/workspace"
)

// writeTable writes n oldest-first draws numbered from first; rows at eventIdx hold three aces.
func writeTable(t *testing.T, dir string, first, n int, eventIdx ...int) string {
	t.Helper()
	isEvent := map[int]bool{}
	for _, i := range eventIdx {
		isEvent[i] = true
	}
	var sb strings.Builder
	sb.WriteString("date,draw,club,diamond,heart,spade\n")
	for i := 0; i < n; i++ {
		cards := "2,3,4,5"
		if isEvent[i] {
			cards = "A,A,7,A"
		}
		fmt.Fprintf(&sb, ",%d,%s\n", first+i, cards)
	}
	path := filepath.Join(dir, fmt.Sprintf("draws_%d_%d.csv", first, n))
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func newTestServer(t *testing.T, ws Workspace) *Server {
	t.Helper()
	cfg := &config.AppConfig{Analysis: stats.DefaultOptions()}
	s, err := NewServer(cfg, ws)
	require.NoError(t, err)
	return s
}

// envelope unwraps a handler result: envelope(t)(s.handleX(ctx, in)).
func envelope(t *testing.T) func(any, error) ResponseEnvelope {
	t.Helper()
	return func(res any, err error) ResponseEnvelope {
		t.Helper()
		require.NoError(t, err)
		env, ok := res.(ResponseEnvelope)
		require.True(t, ok)
		return env
	}
}

func boolp(v bool) *bool { return &v }

func TestNewServer_RegistersTools(t *testing.T) {
	s := newTestServer(t, nil)
	assert.ElementsMatch(t, []string{
		"load_table", "get_current_status", "get_lag_behavior", "get_cluster_behavior",
		"list_events", "list_long_gaps", "add_manual_entry", "list_manual_entries",
		"reset_manual_entries", "export_workbook", "get_charts",
	}, s.Tools())
}

func TestHandlers_RequireTable(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()

	_, err := s.handleGetCurrentStatus(ctx, EmptyInput{})
	assert.True(t, eris.Is(err, ErrNoTable))
	_, err = s.handleGetLagBehavior(ctx, LagBehaviorInput{})
	assert.True(t, eris.Is(err, ErrNoTable))
	_, err = s.handleExportWorkbook(ctx, ExportWorkbookInput{OutputPath: "x.xlsx"})
	assert.True(t, eris.Is(err, ErrNoTable))

	// Manual entries can be recorded before any table is loaded.
	env := envelope(t)(s.handleAddManualEntry(ctx, AddManualEntryInput{DrawNumber: 5, HasEvent: boolp(true)}))
	assert.NotEmpty(t, env.Guidance)
}

func TestHandlers_LoadAndStatus(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()
	path := writeTable(t, t.TempDir(), 1, 10, 3, 4)

	env := envelope(t)(s.handleLoadTable(ctx, LoadTableInput{Path: path}))
	assert.NotEmpty(t, env.SnapshotID)
	data := env.Data.(map[string]any)
	assert.Equal(t, 10, data["rows"])
	assert.Equal(t, 2, data["events"])
	assert.Equal(t, "10", data["max_draw_number"])
	assert.Equal(t, false, data["manual_reset"])

	env = envelope(t)(s.handleGetCurrentStatus(ctx, EmptyInput{}))
	status := env.Data.(currentStatus)
	assert.Equal(t, 5, status.FileLag)
	assert.Equal(t, 5, status.Current.Lag)
	assert.Equal(t, status.FileWindows, status.Current.Windows)
	assert.True(t, status.Cluster.Active)

	envelope(t)(s.handleAddManualEntry(ctx, AddManualEntryInput{DrawNumber: 11, HasEvent: boolp(false)}))
	env = envelope(t)(s.handleAddManualEntry(ctx, AddManualEntryInput{DrawNumber: 12, HasEvent: boolp(true)}))
	overlay := env.Data.(map[string]any)["current"].(simulation.Overlay)
	assert.Equal(t, 0, overlay.Lag)

	env = envelope(t)(s.handleGetCurrentStatus(ctx, EmptyInput{}))
	status = env.Data.(currentStatus)
	assert.Equal(t, 5, status.FileLag, "file state ignores manual entries")
	assert.Equal(t, 0, status.Current.Lag)
	assert.NotEmpty(t, env.Guidance)
}

func TestHandlers_LoadResetRule(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()
	dir := t.TempDir()

	envelope(t)(s.handleLoadTable(ctx, LoadTableInput{Path: writeTable(t, dir, 1, 10, 2)}))
	envelope(t)(s.handleAddManualEntry(ctx, AddManualEntryInput{DrawNumber: 11, HasEvent: boolp(true)}))

	env := envelope(t)(s.handleLoadTable(ctx, LoadTableInput{Path: writeTable(t, dir, 1, 10, 2)}))
	assert.Equal(t, false, env.Data.(map[string]any)["manual_reset"], "same max keeps entries")
	assert.Len(t, s.state.ManualEntries(), 1)

	env = envelope(t)(s.handleLoadTable(ctx, LoadTableInput{Path: writeTable(t, dir, 1, 12, 2)}))
	data := env.Data.(map[string]any)
	assert.Equal(t, true, data["manual_reset"])
	assert.Equal(t, 1, data["manual_entries_cleared"])
	assert.Equal(t, int64(10), data["previous_max_draw_number"])
	assert.Empty(t, s.state.ManualEntries())
}

func TestHandlers_Queries(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()
	// gaps 3, 5, 3, 150, 2 and a current lag of 5
	path := writeTable(t, t.TempDir(), 1, 170, 1, 4, 9, 12, 162, 164)
	envelope(t)(s.handleLoadTable(ctx, LoadTableInput{Path: path}))

	env := envelope(t)(s.handleGetLagBehavior(ctx, LagBehaviorInput{}))
	b := env.Data.(map[string]any)["behavior"].(stats.LagBehavior)
	assert.Equal(t, 5, b.Lag)
	assert.Equal(t, 1, b.Count)
	assert.Empty(t, env.Warnings)

	lag := 77
	env = envelope(t)(s.handleGetLagBehavior(ctx, LagBehaviorInput{Lag: &lag}))
	assert.Equal(t, false, env.Data.(map[string]any)["found"])
	assert.NotEmpty(t, env.Warnings)

	env = envelope(t)(s.handleListEvents(ctx, ListEventsInput{Limit: 2, NewestFirst: true}))
	events := env.Data.(map[string]any)["events"].([]stats.Event)
	require.Len(t, events, 2)
	assert.Equal(t, 164, events[0].Idx)
	assert.Equal(t, 6, env.Data.(map[string]any)["total"])

	env = envelope(t)(s.handleListEvents(ctx, ListEventsInput{Limit: 2}))
	events = env.Data.(map[string]any)["events"].([]stats.Event)
	assert.Equal(t, 162, events[0].Idx)

	env = envelope(t)(s.handleListLongGaps(ctx, ListLongGapsInput{}))
	assert.Equal(t, 1, env.Data.(map[string]any)["count"])
	env = envelope(t)(s.handleListLongGaps(ctx, ListLongGapsInput{Threshold: 3}))
	assert.Equal(t, 2, env.Data.(map[string]any)["count"])

	env = envelope(t)(s.handleGetClusterBehavior(ctx, EmptyInput{}))
	assert.Equal(t, stats.DefaultClusterMaxGap, env.Data.(map[string]any)["max_gap"])
}

func TestHandlers_ExportAndCharts(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()
	dir := t.TempDir()
	envelope(t)(s.handleLoadTable(ctx, LoadTableInput{Path: writeTable(t, dir, 1, 60, 0, 1, 4, 50, 53, 56)}))

	out := filepath.Join(dir, "out.xlsx")
	envelope(t)(s.handleExportWorkbook(ctx, ExportWorkbookInput{OutputPath: out}))
	_, err := os.Stat(out)
	assert.NoError(t, err)

	env := envelope(t)(s.handleGetCharts(ctx, ChartsInput{}))
	assert.NotEmpty(t, env.Data.(map[string]any)["charts"])

	page := filepath.Join(dir, "charts.html")
	envelope(t)(s.handleGetCharts(ctx, ChartsInput{Format: "html", OutputPath: page}))
	html, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(html), "echarts")
}

func TestHandlers_ManualList(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()
	envelope(t)(s.handleAddManualEntry(ctx, AddManualEntryInput{DrawNumber: 101, HasEvent: boolp(false)}))
	envelope(t)(s.handleAddManualEntry(ctx, AddManualEntryInput{DrawNumber: 101, HasEvent: boolp(true)}))
	envelope(t)(s.handleAddManualEntry(ctx, AddManualEntryInput{DrawNumber: 102, HasEvent: boolp(false)}))

	env := envelope(t)(s.handleListManualEntries(ctx, EmptyInput{}))
	data := env.Data.(map[string]any)
	assert.Equal(t, 2, data["count"])
	assert.Equal(t, 1, data["with_event"])

	env = envelope(t)(s.handleResetManualEntries(ctx, EmptyInput{}))
	assert.Equal(t, 2, env.Data.(map[string]any)["removed"])
	assert.Empty(t, s.state.ManualEntries())
}

func TestAnalysisContext_Workspace(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := workspace.Open(ctx, filepath.Join(dir, "ws.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() }) //nolint:errcheck

	s := newTestServer(t, store)
	envelope(t)(s.handleLoadTable(ctx, LoadTableInput{Path: writeTable(t, dir, 1, 10, 2)}))
	envelope(t)(s.handleAddManualEntry(ctx, AddManualEntryInput{DrawNumber: 11, HasEvent: boolp(true)}))

	restored := newTestServer(t, store)
	require.NoError(t, restored.state.Restore(ctx))
	require.Len(t, restored.state.ManualEntries(), 1)

	env := envelope(t)(restored.handleLoadTable(ctx, LoadTableInput{Path: writeTable(t, dir, 1, 11, 2)}))
	assert.Equal(t, true, env.Data.(map[string]any)["manual_reset"])
	assert.Empty(t, restored.state.ManualEntries())

	set, err := store.ManualEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestAnalysisContext_ConcurrentLoads(t *testing.T) {
	s := newTestServer(t, nil)
	path := writeTable(t, t.TempDir(), 1, 200, 5, 50, 120)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.state.Load(context.Background(), path, nil)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}

	snap, _, err := s.state.Current()
	require.NoError(t, err)
	assert.Equal(t, 200, snap.Analysis.RowCount)
}
