package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"triples-mcp/internal/stats"
)

// WriteText renders the report as plain-text tables.
func WriteText(w io.Writer, r Report) error {
	sections := []string{
		overviewTable(r),
		currentTable(r),
		windowsTable(r),
		recentTable(r.Analysis),
		longGapsTable(r.Analysis),
		clusterTable(r.Analysis),
		behaviorTable(fmt.Sprintf("Historical behavior after a gap of %d", r.Lag.Lag), r.Lag.Summary,
			fmt.Sprintf("No historical gap of exactly %d draws", r.Lag.Lag)),
		behaviorTable(fmt.Sprintf("Historical behavior after %d clusters", r.Analysis.AfterClusters.Clusters),
			r.Analysis.AfterClusters.Summary, afterClusterMessage(r.Analysis.AfterClusters)),
	}
	_, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n")
	return err
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetTitle(title)
	t.SetStyle(table.StyleLight)
	// Headers keep their case; the default style upper-cases them.
	t.Style().Format.Header = text.FormatDefault
	return t
}

func optional[T any](v *T) any {
	if v == nil {
		return "unavailable"
	}
	return *v
}

func overviewTable(r Report) string {
	a := r.Analysis
	t := newTable(r.File)
	t.AppendRows([]table.Row{
		{"Rows", a.RowCount},
		{"Chronology", fmt.Sprintf("%s (reversed: %t)", a.Chronology.Method, a.Chronology.WasReversed)},
		{"Max draw number", optional(a.MaxDrawNumber)},
		{"Events", len(a.Events)},
		{"Baseline", stats.FormatEvery(a.Baseline)},
		{"Max gap", optional(a.MaxGap)},
		{fmt.Sprintf("Gaps over %d", a.Options.LongGap), len(a.LongGaps)},
	})
	return t.Render()
}

func currentTable(r Report) string {
	c := r.Current
	t := newTable("Current state")
	last := "none"
	if c.LastEvent != nil {
		last = fmt.Sprintf("draw %s, %s, %s (%s)", c.LastEvent.Draw, c.LastEvent.Date, c.LastEvent.Value, sizeName(c.LastEvent.Size))
	}
	t.AppendRows([]table.Row{
		{"Last event", last},
		{"Current lag", c.Lag},
	})
	if c.ManualCount > 0 {
		t.AppendRows([]table.Row{
			{"File-only lag", r.Analysis.CurrentLag},
			{"Manual entries", fmt.Sprintf("%d (with event %d, without %d)", c.ManualCount, c.ManualWithEvent, c.ManualWithoutEvent)},
		})
	}
	return t.Render()
}

func sizeName(size int) string {
	if size == 4 {
		return "quadruple"
	}
	return "triple"
}

func windowsTable(r Report) string {
	t := newTable("Trailing windows")
	header := table.Row{"Window", "Draws", "Events", "Rate", "Class"}
	overlay := r.Current.ManualCount > 0
	if overlay {
		header = append(header, "With manual", "Class with manual")
	}
	t.AppendHeader(header)
	for _, w := range r.Analysis.Windows {
		row := table.Row{w.Size, w.Draws, w.Events, stats.FormatEvery(w.Every), w.Class}
		if overlay {
			if sim, ok := r.Current.Window(w.Size); ok {
				row = append(row, fmt.Sprintf("%d | %s", sim.Events, stats.FormatEvery(sim.Every)), sim.Class)
			}
		}
		t.AppendRow(row)
	}
	return t.Render()
}

func recentTable(a stats.Analysis) string {
	t := newTable(fmt.Sprintf("Last %d events", a.Options.RecentEvents))
	t.AppendHeader(table.Row{"#", "Draw", "Date", "Value", "Size", "Missing"})
	for i, ev := range a.RecentEvents {
		t.AppendRow(table.Row{i + 1, ev.Draw, ev.Date.String(), ev.Value, ev.SizeLabel(), ev.MissingList()})
	}
	return t.Render()
}

func longGapsTable(a stats.Analysis) string {
	t := newTable(fmt.Sprintf("Gaps over %d", a.Options.LongGap))
	t.AppendHeader(table.Row{"Gap", "From", "To"})
	for _, g := range a.LongGaps {
		t.AppendRow(table.Row{g.Distance, g.From.Draw + " " + g.From.Date.String(), g.To.Draw + " " + g.To.Date.String()})
	}
	return t.Render()
}

func clusterTable(a stats.Analysis) string {
	t := newTable(fmt.Sprintf("Clusters (max gap %d)", a.Options.ClusterMaxGap))
	s := a.ClusterStatus
	if !s.Active {
		t.AppendRows([]table.Row{
			{"Active", "no"},
			{"Historical clusters", len(a.Clusters)},
		})
		return t.Render()
	}
	gaps := make([]string, len(s.Gaps))
	for i, g := range s.Gaps {
		gaps[i] = strconv.Itoa(g)
	}
	t.AppendRows([]table.Row{
		{"Active", "yes"},
		{"Events", s.TripleCount},
		{"Draw span", s.DrawSpan},
		{"Gaps", strings.Join(gaps, ", ")},
		{"From draw", s.StartDraw},
		{"To draw", s.EndDraw},
		{"Historical clusters", len(a.Clusters)},
	})
	return t.Render()
}

func afterClusterMessage(b stats.ClusterBehavior) string {
	if b.Clusters == 0 {
		return "No historical clusters"
	}
	return "No data after the end of any cluster"
}

func behaviorTable(title string, s stats.Summary, emptyMessage string) string {
	t := newTable(title)
	if !s.Found() {
		t.AppendRow(table.Row{emptyMessage})
		return t.Render()
	}
	t.AppendRows([]table.Row{
		{"Cases", s.Count},
		{"Mean to next event", fmt.Sprintf("%.2f", s.Stats.Mean)},
		{"Median to next event", fmt.Sprintf("%.1f", s.Stats.Median)},
		{"Min", s.Stats.Min},
		{"Max", s.Stats.Max},
	})
	t.AppendSeparator()
	for _, b := range s.Buckets {
		t.AppendRow(table.Row{b.Label, fmt.Sprintf("%d (%d%%)", b.Count, b.Percent)})
	}
	return t.Render()
}
