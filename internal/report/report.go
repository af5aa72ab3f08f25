// Package report renders an analysis for people: terminal tables, Mermaid
// charts and a standalone HTML chart page.
package report

import (
	"triples-mcp/internal/simulation"
	"triples-mcp/internal/stats"
)

// Report bundles everything shown for one file.
type Report struct {
	File     string             `json:"file"`
	Analysis stats.Analysis     `json:"analysis"`
	Current  simulation.Overlay `json:"current"`     // overlay applied; equals the file state without manual entries
	Lag      stats.LagBehavior  `json:"lagBehavior"` // for the requested lag, the file's current lag by default
}

// New builds a report. A nil lag selects the file's current lag.
func New(file string, a stats.Analysis, manual []simulation.ManualEntry, lag *int) Report {
	r := Report{
		File:     file,
		Analysis: a,
		Current:  simulation.Simulate(a, manual),
		Lag:      a.LagBehavior,
	}
	if lag != nil && *lag != a.CurrentLag {
		r.Lag = a.BehaviorForLag(*lag)
	}
	return r
}
