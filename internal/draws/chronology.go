package draws

import "slices"

// Method names the evidence used to decide a table's direction.
type Method string

const (
	MethodNone       Method = "none" // fewer than two rows
	MethodDate       Method = "date"
	MethodDrawNumber Method = "draw-number"
	MethodUnknown    Method = "unknown"
)

// Chronology is a row sequence in oldest-first order together with how that
// order was established.
type Chronology struct {
	Rows        []Row  `json:"-"`
	WasReversed bool   `json:"wasReversed"`
	Method      Method `json:"method"`
}

// ResolveChronology returns rows oldest-first. It compares the dates of the
// first and last rows, falling back to their draw numbers, and leaves the
// sequence untouched when neither is decidable. The input slice is never
// modified; a reversal returns a new slice.
func ResolveChronology(rows []Row) Chronology {
	if len(rows) < 2 {
		return Chronology{Rows: rows, Method: MethodNone}
	}

	first, last := rows[0], rows[len(rows)-1]

	dFirst, okFirst := ParseDate(first.Date)
	dLast, okLast := ParseDate(last.Date)
	if okFirst && okLast {
		if dFirst.After(dLast) {
			return Chronology{Rows: reversed(rows), WasReversed: true, Method: MethodDate}
		}
		return Chronology{Rows: rows, Method: MethodDate}
	}

	nFirst, okFirst := ParseDrawNumber(first.Draw)
	nLast, okLast := ParseDrawNumber(last.Draw)
	if okFirst && okLast {
		if nFirst > nLast {
			return Chronology{Rows: reversed(rows), WasReversed: true, Method: MethodDrawNumber}
		}
		return Chronology{Rows: rows, Method: MethodDrawNumber}
	}

	return Chronology{Rows: rows, Method: MethodUnknown}
}

func reversed(rows []Row) []Row {
	out := slices.Clone(rows)
	slices.Reverse(out)
	return out
}
