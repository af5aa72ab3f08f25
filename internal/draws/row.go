package draws

import (
	"encoding/json"
	"strings"
	"time"
)

// Column identifies one of the six required fields of a draw table.
type Column string

const (
	ColDate    Column = "date"
	ColDraw    Column = "draw"
	ColClub    Column = "club"
	ColDiamond Column = "diamond"
	ColHeart   Column = "heart"
	ColSpade   Column = "spade"
)

// CardColumns lists the four card-value columns in their fixed evaluation order.
// Tie-breaks in event detection depend on this order.
var CardColumns = [4]Column{ColClub, ColDiamond, ColHeart, ColSpade}

// RequiredColumns lists every column a table must expose.
var RequiredColumns = []Column{ColDate, ColDraw, ColClub, ColDiamond, ColHeart, ColSpade}

// Cell is a raw value read from the source table. Time is set only when the
// source supplied a native date value.
type Cell struct {
	Raw  string
	Time time.Time
}

// TextCell wraps a plain text value.
func TextCell(s string) Cell {
	return Cell{Raw: s}
}

// TimeCell wraps a native date value.
func TimeCell(t time.Time) Cell {
	return Cell{Raw: t.Format("2006-01-02"), Time: t}
}

// IsBlank reports whether the cell carries no value at all.
func (c Cell) IsBlank() bool {
	return c.Time.IsZero() && strings.TrimSpace(c.Raw) == ""
}

func (c Cell) String() string {
	return strings.TrimSpace(c.Raw)
}

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Row is one historical draw. Rows are never modified after they are read.
type Row struct {
	Date  Cell
	Draw  Cell
	Cards [4]Cell // indexed like CardColumns
}

// Card returns the raw cell for a card column, or a blank cell for any other column.
func (r Row) Card(col Column) Cell {
	for i, c := range CardColumns {
		if c == col {
			return r.Cards[i]
		}
	}
	return Cell{}
}

func (r Row) isBlank() bool {
	if !r.Date.IsBlank() || !r.Draw.IsBlank() {
		return false
	}
	for _, c := range r.Cards {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}
