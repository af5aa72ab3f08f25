package mcp

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/rotisserie/eris"

	"triples-mcp/internal/draws"
	"triples-mcp/internal/export"
	"triples-mcp/internal/report"
	"triples-mcp/internal/simulation"
	"triples-mcp/internal/stats"
)

func (s *Server) handleLoadTable(ctx context.Context, in LoadTableInput) (any, error) {
	res, err := s.state.Load(ctx, in.Path, in.Sheet)
	if err != nil {
		return nil, err
	}
	a := res.Snapshot.Analysis

	data := map[string]any{
		"rows":            a.RowCount,
		"chronology":      a.Chronology,
		"max_draw_number": drawNumberLabel(a.MaxDrawNumber),
		"events":          len(a.Events),
		"current_lag":     a.CurrentLag,
		"manual_reset":    res.Reset,
	}
	if res.PreviousMax != nil {
		data["previous_max_draw_number"] = *res.PreviousMax
	}
	if res.Reset {
		data["manual_entries_cleared"] = res.Cleared
	}

	guidance := []string{
		"Call get_current_status for the lag, window rates and cluster state.",
		"Call get_lag_behavior to see what historically followed the current lag.",
	}
	return WrapResponse(data, res.Snapshot, analysisWarnings(a), guidance), nil
}

type currentStatus struct {
	RowCount      int                    `json:"row_count"`
	Chronology    draws.Chronology       `json:"chronology"`
	MaxDrawNumber string                 `json:"max_draw_number"`
	Events        int                    `json:"events"`
	Baseline      *float64               `json:"baseline_every"`
	FileLag       int                    `json:"file_lag"`
	FileWindows   []stats.ClassifiedRate `json:"file_windows"`
	Current       simulation.Overlay     `json:"current"`
	MaxGap        *int                   `json:"max_gap"`
	LongGaps      int                    `json:"long_gaps"`
	Cluster       stats.ClusterStatus    `json:"cluster"`
}

func (s *Server) handleGetCurrentStatus(_ context.Context, _ EmptyInput) (any, error) {
	snap, manual, err := s.state.Current()
	if err != nil {
		return nil, err
	}
	a := snap.Analysis

	data := currentStatus{
		RowCount:      a.RowCount,
		Chronology:    a.Chronology,
		MaxDrawNumber: drawNumberLabel(a.MaxDrawNumber),
		Events:        len(a.Events),
		Baseline:      a.Baseline,
		FileLag:       a.CurrentLag,
		FileWindows:   a.Windows,
		Current:       simulation.Simulate(a, manual),
		MaxGap:        a.MaxGap,
		LongGaps:      len(a.LongGaps),
		Cluster:       a.ClusterStatus,
	}

	var guidance []string
	if len(manual) > 0 {
		guidance = append(guidance, "The 'current' block includes manual entries; file_lag and file_windows do not.")
	}
	return WrapResponse(data, snap, analysisWarnings(a), guidance), nil
}

func (s *Server) handleGetLagBehavior(_ context.Context, in LagBehaviorInput) (any, error) {
	snap, _, err := s.state.Current()
	if err != nil {
		return nil, err
	}
	a := snap.Analysis

	lag := a.CurrentLag
	if in.Lag != nil {
		lag = *in.Lag
	}
	b := a.BehaviorForLag(lag)

	var warnings []string
	if !b.Found() {
		warnings = append(warnings, "No historical gap of exactly this length; there is no precedent to summarize.")
	}
	return WrapResponse(map[string]any{
		"behavior":     b,
		"found":        b.Found(),
		"distribution": b.BucketLine(),
	}, snap, warnings, nil), nil
}

func (s *Server) handleGetClusterBehavior(_ context.Context, _ EmptyInput) (any, error) {
	snap, _, err := s.state.Current()
	if err != nil {
		return nil, err
	}
	a := snap.Analysis

	var warnings []string
	switch {
	case len(a.Clusters) == 0:
		warnings = append(warnings, "No historical clusters under the configured threshold.")
	case !a.AfterClusters.Found():
		warnings = append(warnings, "Every cluster ends at the final event; nothing followed yet.")
	}
	return WrapResponse(map[string]any{
		"max_gap":        a.Options.ClusterMaxGap,
		"clusters":       a.Clusters,
		"current":        a.ClusterStatus,
		"after_clusters": a.AfterClusters,
		"distribution":   a.AfterClusters.BucketLine(),
	}, snap, warnings, nil), nil
}

func (s *Server) handleListEvents(_ context.Context, in ListEventsInput) (any, error) {
	snap, _, err := s.state.Current()
	if err != nil {
		return nil, err
	}

	events := snap.Analysis.Events
	if in.NewestFirst {
		events = slices.Clone(events)
		slices.Reverse(events)
	}
	total := len(events)
	if in.Limit > 0 && in.Limit < total {
		if in.NewestFirst {
			events = events[:in.Limit]
		} else {
			events = events[total-in.Limit:]
		}
	}
	return WrapResponse(map[string]any{
		"total":  total,
		"events": events,
	}, snap, nil, nil), nil
}

func (s *Server) handleListLongGaps(_ context.Context, in ListLongGapsInput) (any, error) {
	snap, _, err := s.state.Current()
	if err != nil {
		return nil, err
	}
	a := snap.Analysis

	threshold := a.Options.LongGap
	if in.Threshold > 0 {
		threshold = in.Threshold
	}
	gaps := stats.LongGaps(a.Gaps, threshold)
	return WrapResponse(map[string]any{
		"threshold": threshold,
		"count":     len(gaps),
		"max_gap":   a.MaxGap,
		"gaps":      gaps,
	}, snap, nil, nil), nil
}

func (s *Server) handleAddManualEntry(ctx context.Context, in AddManualEntryInput) (any, error) {
	e := simulation.ManualEntry{DrawNumber: in.DrawNumber, HasEvent: *in.HasEvent}
	if err := s.state.AddManual(ctx, e); err != nil {
		return nil, err
	}

	snap, manual, err := s.state.Current()
	if eris.Is(err, ErrNoTable) {
		return WrapResponse(map[string]any{"entries": s.state.ManualEntries()}, nil, nil,
			[]string{"Load a table to see the manual entries applied to the current state."}), nil
	}
	if err != nil {
		return nil, err
	}

	var warnings []string
	if last := snap.Analysis.MaxDrawNumber; last != nil && in.DrawNumber <= *last {
		warnings = append(warnings, "This draw number is not after the table's last draw; it is still appended after the last row.")
	}
	overlay := simulation.Simulate(snap.Analysis, manual)
	return WrapResponse(map[string]any{
		"entries": manual,
		"current": overlay,
	}, snap, warnings, nil), nil
}

func (s *Server) handleListManualEntries(_ context.Context, _ EmptyInput) (any, error) {
	entries := s.state.ManualEntries()
	with := 0
	for _, e := range entries {
		if e.HasEvent {
			with++
		}
	}
	return WrapResponse(map[string]any{
		"count":         len(entries),
		"with_event":    with,
		"without_event": len(entries) - with,
		"entries":       entries,
	}, nil, nil, nil), nil
}

func (s *Server) handleResetManualEntries(ctx context.Context, _ EmptyInput) (any, error) {
	n, err := s.state.ResetManual(ctx)
	if err != nil {
		return nil, err
	}
	return WrapResponse(map[string]any{"removed": n}, nil, nil, nil), nil
}

func (s *Server) handleExportWorkbook(_ context.Context, in ExportWorkbookInput) (any, error) {
	snap, manual, err := s.state.Current()
	if err != nil {
		return nil, err
	}

	out, err := filepath.Abs(in.OutputPath)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve path %s", in.OutputPath)
	}
	meta := export.Meta{File: filepath.Base(snap.File), ManualEntries: len(manual)}
	if err := export.Save(out, snap.Analysis, meta); err != nil {
		return nil, err
	}
	return WrapResponse(map[string]any{"path": out}, snap, nil, nil), nil
}

func (s *Server) handleGetCharts(_ context.Context, in ChartsInput) (any, error) {
	snap, manual, err := s.state.Current()
	if err != nil {
		return nil, err
	}
	r := report.New(filepath.Base(snap.File), snap.Analysis, manual, nil)

	if in.Format != "html" {
		return WrapResponse(map[string]any{"charts": report.Mermaid(r)}, snap, nil, nil), nil
	}

	out, err := filepath.Abs(in.OutputPath)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve path %s", in.OutputPath)
	}
	f, err := os.Create(out)
	if err != nil {
		return nil, eris.Wrap(err, "create chart page")
	}
	defer f.Close()
	if err := report.WriteHTML(f, r); err != nil {
		return nil, eris.Wrap(err, "render chart page")
	}
	return WrapResponse(map[string]any{"path": out}, snap, nil, nil), nil
}
