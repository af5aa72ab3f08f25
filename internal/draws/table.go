package draws

import (
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrEmptyTable is returned when a table has no data rows.
	ErrEmptyTable = eris.New("draws: table is empty")
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = eris.New("draws: missing required column")
)

// Schema maps each required column to the header names accepted for it.
// Header matching ignores surrounding whitespace and ASCII case.
type Schema map[Column][]string

// DefaultSchema accepts the Hebrew headers of the operator's export files
// and their English equivalents.
func DefaultSchema() Schema {
	return Schema{
		ColDate:    {"תאריך", "date"},
		ColDraw:    {"הגרלה", "draw"},
		ColClub:    {"תלתן", "club"},
		ColDiamond: {"יהלום", "diamond"},
		ColHeart:   {"לב", "heart"},
		ColSpade:   {"עלה", "spade"},
	}
}

// Resolve finds the index of every required column in header.
func (s Schema) Resolve(header []string) (map[Column]int, error) {
	positions := make(map[Column]int, len(RequiredColumns))
	for _, col := range RequiredColumns {
		idx := -1
		for i, h := range header {
			if s.matches(col, h) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, eris.Wrapf(ErrMissingColumn, "column %q", s.displayName(col))
		}
		positions[col] = idx
	}
	return positions, nil
}

func (s Schema) matches(col Column, header string) bool {
	h := strings.TrimSpace(header)
	for _, alias := range s[col] {
		if strings.EqualFold(h, alias) {
			return true
		}
	}
	return false
}

func (s Schema) displayName(col Column) string {
	if names := s[col]; len(names) > 0 {
		return names[0]
	}
	return string(col)
}

// Table is the ordered row sequence exactly as read from the source.
type Table struct {
	Rows []Row
}

// NewTable maps raw records onto rows using schema. Entirely blank records are
// skipped; short records are padded with blank cells. An empty table or a
// header missing any required column rejects the whole batch.
func NewTable(header []string, records [][]Cell, schema Schema) (Table, error) {
	if schema == nil {
		schema = DefaultSchema()
	}
	if len(records) == 0 {
		return Table{}, ErrEmptyTable
	}

	positions, err := schema.Resolve(header)
	if err != nil {
		return Table{}, err
	}

	at := func(rec []Cell, col Column) Cell {
		i := positions[col]
		if i < len(rec) {
			return rec[i]
		}
		return Cell{}
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{
			Date: at(rec, ColDate),
			Draw: at(rec, ColDraw),
		}
		for i, col := range CardColumns {
			row.Cards[i] = at(rec, col)
		}
		if row.isBlank() {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return Table{}, ErrEmptyTable
	}
	return Table{Rows: rows}, nil
}

// MaxDrawNumber returns the largest parseable draw number, or nil when no row has one.
func (t Table) MaxDrawNumber() *int64 {
	var max *int64
	for _, r := range t.Rows {
		n, ok := ParseDrawNumber(r.Draw)
		if !ok {
			continue
		}
		if max == nil || n > *max {
			v := n
			max = &v
		}
	}
	return max
}
