// Package export writes a file-only analysis as an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"triples-mcp/internal/draws"
	"triples-mcp/internal/stats"
)

// Sheet names, in workbook order.
const (
	SheetSummary  = "Summary"
	SheetAll      = "All events"
	SheetLag      = "Lag behavior"
	SheetClusters = "Cluster behavior"
)

// Meta carries what the workbook reports beyond the analysis itself.
type Meta struct {
	File          string
	ManualEntries int // only flagged in the summary; never part of the data sheets
}

// Build assembles the six-sheet workbook.
func Build(a stats.Analysis, meta Meta) (*xlsx.File, error) {
	f := xlsx.NewFile()

	steps := []struct {
		name  string
		write func(*xlsx.Sheet)
	}{
		{SheetSummary, func(s *xlsx.Sheet) { writeSummary(s, a, meta) }},
		{recentSheetName(a), func(s *xlsx.Sheet) { writeRecent(s, a.RecentEvents) }},
		{SheetAll, func(s *xlsx.Sheet) { writeAll(s, a.Events) }},
		{longGapSheetName(a), func(s *xlsx.Sheet) { writeLongGaps(s, a.LongGaps) }},
		{SheetLag, func(s *xlsx.Sheet) { writeLagBehavior(s, a.LagBehavior) }},
		{SheetClusters, func(s *xlsx.Sheet) { writeClusterBehavior(s, a.AfterClusters) }},
	}
	for _, st := range steps {
		sheet, err := f.AddSheet(st.name)
		if err != nil {
			return nil, eris.Wrapf(err, "export: add sheet %q", st.name)
		}
		st.write(sheet)
	}
	return f, nil
}

// Save builds the workbook and writes it to path.
func Save(path string, a stats.Analysis, meta Meta) error {
	f, err := Build(a, meta)
	if err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, a stats.Analysis, meta Meta) error {
	f, err := Build(a, meta)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "export: write workbook")
}

func recentSheetName(a stats.Analysis) string {
	return fmt.Sprintf("Last %d events", a.Options.RecentEvents)
}

func longGapSheetName(a stats.Analysis) string {
	return fmt.Sprintf("Gaps over %d", a.Options.LongGap)
}

func addRow(sheet *xlsx.Sheet, values ...any) {
	row := sheet.AddRow()
	for _, v := range values {
		cell := row.AddCell()
		switch x := v.(type) {
		case int:
			cell.SetInt(x)
		case float64:
			cell.SetFloat(x)
		case string:
			cell.SetString(x)
		default:
			cell.SetString(fmt.Sprint(x))
		}
	}
}

func orUnavailable[T any](v *T) any {
	if v == nil {
		return "unavailable"
	}
	return *v
}

func writeSummary(sheet *xlsx.Sheet, a stats.Analysis, meta Meta) {
	addRow(sheet, "Metric", "Value")
	addRow(sheet, "File", meta.File)
	addRow(sheet, "Rows (draws)", a.RowCount)
	addRow(sheet, "Max draw number", maxDraw(a.MaxDrawNumber))
	addRow(sheet, "Chronology", string(a.Chronology.Method))
	addRow(sheet, "Reversed", strconv.FormatBool(a.Chronology.WasReversed))
	addRow(sheet, "Events in file", len(a.Events))

	if a.LastEvent != nil {
		addRow(sheet, "Last event draw", a.LastEvent.Draw)
		addRow(sheet, "Last event date", a.LastEvent.Date.String())
	} else {
		addRow(sheet, "Last event draw", "not found")
		addRow(sheet, "Last event date", "-")
	}
	addRow(sheet, "Current lag", a.CurrentLag)
	addRow(sheet, "Max gap", orUnavailable(a.MaxGap))
	addRow(sheet, fmt.Sprintf("Gaps over %d", a.Options.LongGap), len(a.LongGaps))
	if a.Baseline != nil {
		addRow(sheet, "Baseline rate", stats.FormatEvery(a.Baseline))
	} else {
		addRow(sheet, "Baseline rate", "unavailable")
	}
	for _, w := range a.Windows {
		addRow(sheet, fmt.Sprintf("Window %d", w.Size),
			fmt.Sprintf("%d | %s | %s", w.Events, stats.FormatEvery(w.Every), w.Class))
	}
	if meta.ManualEntries > 0 {
		addRow(sheet, "Manual input active", fmt.Sprintf("yes (%d)", meta.ManualEntries))
	} else {
		addRow(sheet, "Manual input active", "no")
	}
	addRow(sheet, "Note", "Manual input is not part of the historical data or this export, except for the flag above.")
}

func maxDraw(v *int64) any {
	if v == nil {
		return "unavailable"
	}
	return strconv.FormatInt(*v, 10)
}

func cardHeaders() []any {
	out := make([]any, len(draws.CardColumns))
	for i, c := range draws.CardColumns {
		out[i] = string(c)
	}
	return out
}

func cardValues(ev stats.Event) []any {
	out := make([]any, len(draws.CardColumns))
	for i, c := range draws.CardColumns {
		out[i] = ev.Values[c]
	}
	return out
}

func writeRecent(sheet *xlsx.Sheet, events []stats.Event) {
	addRow(sheet, append([]any{"Order", "Draw", "Date", "Value", "Size"}, cardHeaders()...)...)
	for i, ev := range events {
		addRow(sheet, append([]any{i + 1, ev.Draw, ev.Date.String(), ev.Value, ev.SizeLabel()}, cardValues(ev)...)...)
	}
}

func writeAll(sheet *xlsx.Sheet, events []stats.Event) {
	addRow(sheet, append([]any{"Index", "Draw", "Date", "Value", "Size", "Matching columns", "Missing columns"}, cardHeaders()...)...)
	for _, ev := range events {
		addRow(sheet, append([]any{ev.Idx, ev.Draw, ev.Date.String(), ev.Value, ev.SizeLabel(), ev.MatchList(), ev.MissingList()}, cardValues(ev)...)...)
	}
}

func writeLongGaps(sheet *xlsx.Sheet, gaps []stats.Gap) {
	addRow(sheet, "Gap", "From draw", "From date", "From value", "To draw", "To date", "To value")
	for _, g := range gaps {
		addRow(sheet, g.Distance,
			g.From.Draw, g.From.Date.String(), g.From.Value,
			g.To.Draw, g.To.Date.String(), g.To.Value)
	}
}

func writeBehavior(sheet *xlsx.Sheet, title, countLabel string, count int, s stats.Summary, emptyMessage string) {
	if !s.Found() {
		addRow(sheet, "Title", countLabel, "Message")
		addRow(sheet, title, count, emptyMessage)
		return
	}
	addRow(sheet, "Title", countLabel, "Mean to next event", "Median to next event", "Min", "Max", "Distribution")
	addRow(sheet, title, count, s.Stats.Mean, s.Stats.Median, s.Stats.Min, s.Stats.Max, s.BucketLine())
}

func writeLagBehavior(sheet *xlsx.Sheet, b stats.LagBehavior) {
	writeBehavior(sheet,
		fmt.Sprintf("Historical behavior, lag %d", b.Lag),
		"Cases found", b.Count, b.Summary,
		fmt.Sprintf("No historical gap of exactly %d draws in the file", b.Lag))
}

func writeClusterBehavior(sheet *xlsx.Sheet, b stats.ClusterBehavior) {
	msg := "No historical clusters in the file"
	if b.Clusters > 0 {
		msg = "No data after the end of any cluster"
	}
	writeBehavior(sheet, "Historical behavior, cluster", "Clusters found", b.Clusters, b.Summary, msg)
}
