package simulation

import (
	"strconv"

	"triples-mcp/internal/draws"
	"triples-mcp/internal/stats"
)

// ManualDateLabel marks the simulated last event when it comes from a manual entry.
const (
	ManualDateLabel  = "manual"
	ManualValueLabel = "—"
)

// EventLabel identifies the latest event of the simulated timeline.
type EventLabel struct {
	Draw           string         `json:"draw"`
	Date           string         `json:"date"`
	Value          string         `json:"value"`
	Size           int            `json:"size"`
	MissingColumns []draws.Column `json:"missingColumns"`
	Manual         bool           `json:"manual"`
}

// Overlay is the current state of the timeline with manual entries appended
// as virtual draws. Historical events, gaps and clusters are not part of it;
// they always come from the file-only analysis.
type Overlay struct {
	BaseDraws      int                    `json:"baseDraws"`
	SimulatedDraws int                    `json:"simulatedDraws"`
	VirtualEvents  []int                  `json:"virtualEvents"` // positions >= BaseDraws
	Lag            int                    `json:"lag"`
	LastEvent      *EventLabel            `json:"lastEvent"`
	Windows        []stats.ClassifiedRate `json:"windows"`
	Baseline       *float64               `json:"baselineEvery"` // always the file-only baseline

	ManualCount        int `json:"manualCount"`
	ManualWithEvent    int `json:"manualWithEvent"`
	ManualWithoutEvent int `json:"manualWithoutEvent"`
}

// Window returns the simulated rate for a configured window size.
func (o Overlay) Window(size int) (stats.ClassifiedRate, bool) {
	for _, w := range o.Windows {
		if w.Size == size {
			return w, true
		}
	}
	return stats.ClassifiedRate{}, false
}

// Simulate appends the manual entries, ordered by draw number, after the last
// historical row and recomputes the lag and trailing-window rates. The base
// analysis is only read. With no entries the result matches the file-only
// current state exactly.
func Simulate(base stats.Analysis, entries []ManualEntry) Overlay {
	ordered := NewManualSet(entries...).Entries()
	baseN := base.RowCount
	simN := baseN + len(ordered)

	lastIdx := -1
	var last *EventLabel
	if base.LastEvent != nil {
		lastIdx = base.LastEvent.Idx
		last = labelFor(*base.LastEvent)
	}

	virtual := []int{}
	withEvent := 0
	for k, e := range ordered {
		if !e.HasEvent {
			continue
		}
		withEvent++
		pos := baseN + k
		virtual = append(virtual, pos)
		lastIdx = pos
		last = &EventLabel{
			Draw:           strconv.FormatInt(e.DrawNumber, 10),
			Date:           ManualDateLabel,
			Value:          ManualValueLabel,
			Size:           stats.MinEventSize,
			MissingColumns: []draws.Column{},
			Manual:         true,
		}
	}

	lag := simN
	if lastIdx >= 0 {
		lag = simN - 1 - lastIdx
	}

	rates := make([]stats.WindowRate, len(base.Options.Windows))
	for i, w := range base.Options.Windows {
		rates[i] = simulatedRate(base.Events, virtual, baseN, simN, w)
	}

	return Overlay{
		BaseDraws:          baseN,
		SimulatedDraws:     simN,
		VirtualEvents:      virtual,
		Lag:                lag,
		LastEvent:          last,
		Windows:            stats.ClassifyWindows(rates, base.Baseline),
		Baseline:           base.Baseline,
		ManualCount:        len(ordered),
		ManualWithEvent:    withEvent,
		ManualWithoutEvent: len(ordered) - withEvent,
	}
}

// simulatedRate counts historical events in [start, baseN) and virtual events
// in [start, simN) for a window that ends at the last simulated position.
func simulatedRate(events []stats.Event, virtual []int, baseN, simN, w int) stats.WindowRate {
	start := stats.WindowStart(simN, w)
	count := 0
	for _, ev := range events {
		if ev.Idx >= start && ev.Idx < baseN {
			count++
		}
	}
	for _, pos := range virtual {
		if pos >= start && pos < simN {
			count++
		}
	}
	return stats.NewWindowRate(w, simN-start, count)
}

func labelFor(ev stats.Event) *EventLabel {
	return &EventLabel{
		Draw:           ev.Draw,
		Date:           ev.Date.String(),
		Value:          ev.Value,
		Size:           ev.Size,
		MissingColumns: ev.MissingColumns,
	}
}
