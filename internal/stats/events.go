package stats

import (
	"triples-mcp/internal/draws"
)

// MinEventSize is the number of agreeing card columns that makes a row an event.
const MinEventSize = 3

// Event is a draw where at least three of the four card columns share a rank.
type Event struct {
	Idx            int                     `json:"idx"` // position in the oldest-first sequence
	Draw           string                  `json:"draw"`
	DrawNumber     *int64                  `json:"drawNumber,omitempty"`
	Date           draws.Cell              `json:"date"`
	Value          string                  `json:"value"`
	Size           int                     `json:"size"` // 3 (triple) or 4 (quadruple)
	MatchColumns   []draws.Column          `json:"matchColumns"`
	MissingColumns []draws.Column          `json:"missingColumns"`
	Values         map[draws.Column]string `json:"values"`
}

// IsQuadruple reports whether all four columns agreed.
func (e Event) IsQuadruple() bool {
	return e.Size == 4
}

// tally counts values while remembering the order they were first seen.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int, 4)}
}

func (t *tally) add(v string) {
	if _, seen := t.counts[v]; !seen {
		t.order = append(t.order, v)
	}
	t.counts[v]++
}

// best returns the most frequent value; ties go to the value seen first.
func (t *tally) best() (string, int) {
	var bestVal string
	bestCount := 0
	for _, v := range t.order {
		if c := t.counts[v]; c > bestCount {
			bestVal, bestCount = v, c
		}
	}
	return bestVal, bestCount
}

// DetectEvents scans oldest-first rows and returns one event per qualifying row,
// in ascending Idx order.
func DetectEvents(rows []draws.Row) []Event {
	var events []Event
	for idx, r := range rows {
		ev, ok := detectRow(r)
		if !ok {
			continue
		}
		ev.Idx = idx
		events = append(events, ev)
	}
	return events
}

func detectRow(r draws.Row) (Event, bool) {
	var normalized [4]string
	t := newTally()
	for i, cell := range r.Cards {
		normalized[i] = draws.Normalize(cell.Raw)
		if normalized[i] == "" {
			continue
		}
		t.add(normalized[i])
	}

	value, count := t.best()
	if count < MinEventSize {
		return Event{}, false
	}

	ev := Event{
		Draw:   r.Draw.String(),
		Date:   r.Date,
		Value:  value,
		Size:   count,
		Values: make(map[draws.Column]string, 4),
	}
	if n, ok := draws.ParseDrawNumber(r.Draw); ok {
		ev.DrawNumber = &n
	}
	for i, col := range draws.CardColumns {
		ev.Values[col] = normalized[i]
		if normalized[i] == value {
			ev.MatchColumns = append(ev.MatchColumns, col)
		} else {
			ev.MissingColumns = append(ev.MissingColumns, col)
		}
	}
	return ev, true
}
