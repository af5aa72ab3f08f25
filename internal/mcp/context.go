package mcp

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"triples-mcp/internal/ingest"
	"triples-mcp/internal/simulation"
	"triples-mcp/internal/stats"
	"triples-mcp/internal/workspace"
)

// ErrNoTable is returned by tools that need a loaded table before one was loaded.
var ErrNoTable = eris.New("no table loaded; call load_table first")

// Workspace persists the manual-entry set and the reset rule between runs.
type Workspace interface {
	ManualEntries(ctx context.Context) (*simulation.ManualSet, error)
	UpsertManual(ctx context.Context, e simulation.ManualEntry) error
	ResetManual(ctx context.Context) (int, error)
	RecordLoad(ctx context.Context, file string, rows int, maxDraw *int64) (*workspace.Load, error)
}

// Snapshot is an immutable loaded table and its file-only analysis.
type Snapshot struct {
	ID       string
	File     string
	LoadedAt time.Time
	Analysis stats.Analysis
}

// LoadResult reports what a load changed.
type LoadResult struct {
	Snapshot    *Snapshot
	PreviousMax *int64
	Reset       bool
	Cleared     int
}

// AnalysisContext holds the state shared by all tool calls. Readers get
// snapshots; writers replace them under the lock.
type AnalysisContext struct {
	ingest ingest.Options
	opts   stats.Options
	ws     Workspace // nil keeps the manual entries in memory only

	mu       sync.RWMutex
	snapshot *Snapshot
	manual   *simulation.ManualSet
	lastMax  *int64

	loads singleflight.Group
}

// NewAnalysisContext creates an empty context.
func NewAnalysisContext(in ingest.Options, opts stats.Options, ws Workspace) *AnalysisContext {
	return &AnalysisContext{
		ingest: in,
		opts:   opts,
		ws:     ws,
		manual: simulation.NewManualSet(),
	}
}

type analyzed struct {
	file     string
	analysis stats.Analysis
}

// Load reads and analyzes a table file and makes it the active snapshot.
// Concurrent loads of the same file share one read.
func (c *AnalysisContext) Load(ctx context.Context, path string, sheet *int) (*LoadResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve path %s", path)
	}
	opts := c.ingest
	key := abs
	if sheet != nil {
		opts.SheetIndex = *sheet
		key = abs + "#" + strconv.Itoa(*sheet)
	}

	v, err, shared := c.loads.Do(key, func() (any, error) {
		table, err := ingest.ReadFile(ctx, abs, opts)
		if err != nil {
			return nil, err
		}
		return analyzed{file: abs, analysis: stats.Analyze(table, c.opts)}, nil
	})
	if err != nil {
		return nil, err
	}
	res := v.(analyzed)
	if shared {
		log.Debug().Str("file", abs).Msg("Shared in-flight load")
	}

	snap := &Snapshot{
		ID:       uuid.New().String(),
		File:     res.file,
		LoadedAt: time.Now().UTC(),
		Analysis: res.analysis,
	}
	return c.activate(ctx, snap)
}

func (c *AnalysisContext) activate(ctx context.Context, snap *Snapshot) (*LoadResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	newMax := snap.Analysis.MaxDrawNumber
	out := &LoadResult{Snapshot: snap, PreviousMax: c.lastMax}

	if c.ws != nil {
		load, err := c.ws.RecordLoad(ctx, snap.File, snap.Analysis.RowCount, newMax)
		if err != nil {
			return nil, err
		}
		out.PreviousMax = load.PreviousMax
		out.Reset = load.Reset
		if load.Reset {
			out.Cleared = c.manual.Len()
		}
		set, err := c.ws.ManualEntries(ctx)
		if err != nil {
			return nil, err
		}
		c.manual = set
	} else if simulation.ShouldReset(c.lastMax, newMax) {
		out.Reset = true
		out.Cleared = c.manual.Len()
		c.manual = simulation.NewManualSet()
	}

	c.lastMax = newMax
	c.snapshot = snap

	log.Info().
		Str("snapshot", snap.ID).
		Str("file", snap.File).
		Int("rows", snap.Analysis.RowCount).
		Int("events", len(snap.Analysis.Events)).
		Bool("manualReset", out.Reset).
		Msg("Table activated")
	return out, nil
}

// Current returns the active snapshot and a copy of the manual entries.
func (c *AnalysisContext) Current() (*Snapshot, []simulation.ManualEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil, nil, ErrNoTable
	}
	return c.snapshot, c.manual.Entries(), nil
}

// ManualEntries returns the manual entries ordered by draw number.
func (c *AnalysisContext) ManualEntries() []simulation.ManualEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.manual.Entries()
}

// AddManual upserts a manual entry.
func (c *AnalysisContext) AddManual(ctx context.Context, e simulation.ManualEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ws != nil {
		if err := c.ws.UpsertManual(ctx, e); err != nil {
			return err
		}
	}
	next := c.manual.Clone()
	next.Upsert(e)
	c.manual = next
	return nil
}

// ResetManual clears the manual entries and returns how many there were.
func (c *AnalysisContext) ResetManual(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.manual.Len()
	if c.ws != nil {
		stored, err := c.ws.ResetManual(ctx)
		if err != nil {
			return 0, err
		}
		n = stored
	}
	c.manual = simulation.NewManualSet()
	return n, nil
}

// Restore loads the persisted manual entries, if a workspace is attached.
func (c *AnalysisContext) Restore(ctx context.Context) error {
	if c.ws == nil {
		return nil
	}
	set, err := c.ws.ManualEntries(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.manual = set
	c.mu.Unlock()
	return nil
}
