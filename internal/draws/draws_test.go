package draws

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(date, draw string, cards ...string) Row {
	r := Row{Date: TextCell(date), Draw: TextCell(draw)}
	for i := 0; i < len(cards) && i < 4; i++ {
		r.Cards[i] = TextCell(cards[i])
	}
	return r
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"10", "10"},
		{"ט", "10"},
		{" j ", "J"},
		{"ג", "J"},
		{"ג׳", "J"},
		{`ג"`, "J"},
		{"q", "Q"},
		{"ק", "Q"},
		{"כ׳", "K"},
		{"א", "A"},
		{"a", "A"},
		{"7", "7"},
		{"Ｑ", "Q"},  // full-width
		{"１０", "10"}, // full-width digits
		{"joker", "JOKER"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestParseDate(t *testing.T) {
	utc := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	native := time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cell Cell
		want time.Time
		ok   bool
	}{
		{"native", TimeCell(native), native, true},
		{"serial", TextCell("45000"), utc(2023, time.March, 15), true},
		{"serial with fraction", TextCell("45000.5"), utc(2023, time.March, 15).Add(12 * time.Hour), true},
		{"day month short year", TextCell("5/3/24"), utc(2024, time.March, 5), true},
		{"dashes long year", TextCell("05-03-2024"), utc(2024, time.March, 5), true},
		{"dots", TextCell("5.3.2024"), utc(2024, time.March, 5), true},
		{"day overflow rolls over", TextCell("31/2/2024"), utc(2024, time.March, 2), true},
		{"iso via generic parser", TextCell("2024-03-05"), utc(2024, time.March, 5), true},
		{"blank", TextCell("  "), time.Time{}, false},
		{"garbage", TextCell("not a date"), time.Time{}, false},
		{"serial out of range", TextCell("1e12"), time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.cell)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			}
		})
	}
}

func TestParseDrawNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{" 1234 ", 1234, true},
		{"12.0", 12, true},
		{"12.5", 12, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-3", -3, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDrawNumber(TextCell(tt.in))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveChronology(t *testing.T) {
	t.Run("fewer than two rows", func(t *testing.T) {
		c := ResolveChronology([]Row{row("1/1/24", "1")})
		assert.False(t, c.WasReversed)
		assert.Equal(t, MethodNone, c.Method)
	})

	t.Run("newest first by date", func(t *testing.T) {
		rows := []Row{row("3/1/24", "3"), row("2/1/24", "2"), row("1/1/24", "1")}
		c := ResolveChronology(rows)
		assert.True(t, c.WasReversed)
		assert.Equal(t, MethodDate, c.Method)
		assert.Equal(t, "1", c.Rows[0].Draw.String())
		assert.Equal(t, "3", rows[0].Draw.String(), "input must not be modified")
	})

	t.Run("equal dates keep order", func(t *testing.T) {
		rows := []Row{row("1/1/24", "9"), row("1/1/24", "1")}
		c := ResolveChronology(rows)
		assert.False(t, c.WasReversed)
		assert.Equal(t, MethodDate, c.Method)
	})

	t.Run("falls back to draw numbers", func(t *testing.T) {
		rows := []Row{row("", "30"), row("bad", "20"), row("", "10")}
		c := ResolveChronology(rows)
		assert.True(t, c.WasReversed)
		assert.Equal(t, MethodDrawNumber, c.Method)
	})

	t.Run("oldest first by draw number", func(t *testing.T) {
		c := ResolveChronology([]Row{row("", "1"), row("", "2")})
		assert.False(t, c.WasReversed)
		assert.Equal(t, MethodDrawNumber, c.Method)
	})

	t.Run("undecidable", func(t *testing.T) {
		c := ResolveChronology([]Row{row("", "x"), row("", "y")})
		assert.False(t, c.WasReversed)
		assert.Equal(t, MethodUnknown, c.Method)
	})

	t.Run("round trip", func(t *testing.T) {
		rows := []Row{row("3/1/24", "3"), row("2/1/24", "2"), row("1/1/24", "1")}
		first := ResolveChronology(rows)
		require.True(t, first.WasReversed)

		second := ResolveChronology(first.Rows)
		assert.False(t, second.WasReversed)
		assert.Equal(t, first.Method, second.Method)
		assert.Equal(t, first.Rows, second.Rows)
	})
}

func TestNewTable(t *testing.T) {
	header := []string{"תאריך", "הגרלה", "תלתן", "יהלום", "לב", "עלה"}

	t.Run("maps columns by header", func(t *testing.T) {
		shuffled := []string{"הגרלה", "עלה", "תאריך", "לב", "יהלום", "תלתן", "extra"}
		records := [][]Cell{
			{TextCell("7"), TextCell("S"), TextCell("1/1/24"), TextCell("H"), TextCell("D"), TextCell("C"), TextCell("x")},
		}
		tbl, err := NewTable(shuffled, records, nil)
		require.NoError(t, err)
		require.Len(t, tbl.Rows, 1)
		r := tbl.Rows[0]
		assert.Equal(t, "7", r.Draw.String())
		assert.Equal(t, "1/1/24", r.Date.String())
		assert.Equal(t, "C", r.Card(ColClub).String())
		assert.Equal(t, "D", r.Card(ColDiamond).String())
		assert.Equal(t, "H", r.Card(ColHeart).String())
		assert.Equal(t, "S", r.Card(ColSpade).String())
	})

	t.Run("english aliases", func(t *testing.T) {
		tbl, err := NewTable([]string{"Date", "DRAW", "club", "diamond", "heart", "spade"},
			[][]Cell{{TextCell("1/1/24"), TextCell("1")}}, DefaultSchema())
		require.NoError(t, err)
		assert.True(t, tbl.Rows[0].Card(ColSpade).IsBlank())
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := NewTable(header[:5], [][]Cell{{TextCell("1")}}, nil)
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrMissingColumn))
		assert.Contains(t, err.Error(), "עלה")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewTable(header, nil, nil)
		assert.True(t, eris.Is(err, ErrEmptyTable))

		_, err = NewTable(header, [][]Cell{{TextCell(""), TextCell(" ")}}, nil)
		assert.True(t, eris.Is(err, ErrEmptyTable))
	})

	t.Run("blank rows skipped", func(t *testing.T) {
		tbl, err := NewTable(header, [][]Cell{
			{TextCell("1/1/24"), TextCell("1")},
			{},
			{TextCell("2/1/24"), TextCell("2")},
		}, nil)
		require.NoError(t, err)
		assert.Len(t, tbl.Rows, 2)
	})
}

func TestMaxDrawNumber(t *testing.T) {
	tbl := Table{Rows: []Row{row("", "5"), row("", "n/a"), row("", "12"), row("", "")}}
	got := tbl.MaxDrawNumber()
	require.NotNil(t, got)
	assert.Equal(t, int64(12), *got)

	frac := Table{Rows: []Row{row("", "12"), row("", "13.5")}}.MaxDrawNumber()
	require.NotNil(t, frac)
	assert.Equal(t, int64(13), *frac, "fractional draw numbers still count")

	assert.Nil(t, Table{Rows: []Row{row("", "x")}}.MaxDrawNumber())
}
