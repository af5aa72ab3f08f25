package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triples-mcp/internal/stats"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("LOGS_FOLDER", "")
	t.Setenv("TRIPLES_DB_PATH", "")
	t.Setenv("TRIPLES_WINDOWS", "50, 150")
	t.Setenv("TRIPLES_CLUSTER_MAX_GAP", "12")
	t.Setenv("TRIPLES_LONG_GAP", "")
	t.Setenv("TRIPLES_LAST_EVENTS", "10")
	t.Setenv("TRIPLES_SHEET", "1")
	t.Setenv("ENABLE_MERMAID_CHARTS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataPath)
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogDir)
	assert.Equal(t, filepath.Join(dir, "triples.db"), cfg.DBPath)
	assert.Equal(t, 1, cfg.SheetIndex)
	assert.Equal(t, []int{50, 150}, cfg.Analysis.Windows)
	assert.Equal(t, 12, cfg.Analysis.ClusterMaxGap)
	assert.Equal(t, stats.DefaultLongGap, cfg.Analysis.LongGap)
	assert.Equal(t, 10, cfg.Analysis.RecentEvents)
	assert.True(t, cfg.EnableMermaidCharts)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("TRIPLES_SHEET", "0")

	t.Run("bad window list", func(t *testing.T) {
		t.Setenv("TRIPLES_WINDOWS", "100,abc")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "abc")
	})

	t.Run("non-positive window", func(t *testing.T) {
		t.Setenv("TRIPLES_WINDOWS", "100,0")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gt")
	})

	for _, key := range []string{"TRIPLES_CLUSTER_MAX_GAP", "TRIPLES_LONG_GAP", "TRIPLES_LAST_EVENTS"} {
		t.Run("zero "+key, func(t *testing.T) {
			t.Setenv("TRIPLES_WINDOWS", "")
			t.Setenv(key, "0")
			_, err := Load()
			require.Error(t, err, "zero must be rejected, not replaced by the default")
			assert.Contains(t, err.Error(), "gt=0")
		})
	}

	t.Run("negative sheet", func(t *testing.T) {
		t.Setenv("TRIPLES_WINDOWS", "")
		t.Setenv("TRIPLES_SHEET", "-1")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SheetIndex")
	})
}

func TestParseWindows(t *testing.T) {
	w, err := parseWindows("")
	require.NoError(t, err)
	assert.Equal(t, stats.DefaultWindows, w)

	w, err = parseWindows("10,,20 ")
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, w)
}

func TestValidate(t *testing.T) {
	type input struct {
		Draw int64 `json:"draw" validate:"gt=0"`
	}
	assert.NoError(t, Validate(input{Draw: 1}))
	err := Validate(input{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input.draw failed gt=0")
}
