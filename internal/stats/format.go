package stats

import (
	"fmt"
	"strings"

	"triples-mcp/internal/draws"
)

// FormatEvery renders a draws-per-event rate as "1 in N".
func FormatEvery(every *float64) string {
	if every == nil {
		return "no events in window"
	}
	return fmt.Sprintf("1 in %.2f", *every)
}

// SizeLabel names an event by its size.
func (e Event) SizeLabel() string {
	if e.IsQuadruple() {
		return "quadruple"
	}
	return "triple"
}

// BucketLine renders the distribution on one line, or "-" when there is none.
func (s Summary) BucketLine() string {
	if len(s.Buckets) == 0 {
		return "-"
	}
	parts := make([]string, len(s.Buckets))
	for i, b := range s.Buckets {
		parts[i] = fmt.Sprintf("%s: %d%%", b.Label, b.Percent)
	}
	return strings.Join(parts, " | ")
}

func joinColumns(cols []draws.Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// MatchList renders the matching columns as a comma separated list.
func (e Event) MatchList() string {
	return joinColumns(e.MatchColumns)
}

// MissingList renders the non-matching columns as a comma separated list.
func (e Event) MissingList() string {
	return joinColumns(e.MissingColumns)
}
