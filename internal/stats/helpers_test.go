package stats

import (
	"strconv"

	"triples-mcp/internal/draws"
)

// drawTable builds n oldest-first rows numbered 1..n. Rows at the given
// positions carry three matching aces; every other row has four distinct ranks.
func drawTable(n int, eventIdx ...int) draws.Table {
	isEvent := make(map[int]bool, len(eventIdx))
	for _, i := range eventIdx {
		isEvent[i] = true
	}

	rows := make([]draws.Row, n)
	for i := range rows {
		r := draws.Row{Draw: draws.TextCell(strconv.Itoa(i + 1))}
		cards := []string{"2", "3", "4", "5"}
		if isEvent[i] {
			cards = []string{"A", "A", "7", "A"}
		}
		for c, v := range cards {
			r.Cards[c] = draws.TextCell(v)
		}
		rows[i] = r
	}
	return draws.Table{Rows: rows}
}

func eventsAt(idx ...int) []Event {
	events := make([]Event, len(idx))
	for i, v := range idx {
		events[i] = Event{Idx: v, Draw: strconv.Itoa(v + 1), Size: 3, Value: "A"}
	}
	return events
}

func gapsOf(distances ...int) []Gap {
	idx := []int{0}
	for _, d := range distances {
		idx = append(idx, idx[len(idx)-1]+d)
	}
	return CalculateGaps(eventsAt(idx...))
}
