package engine

import (
	"encoding/csv"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"triples-mcp/internal/draws"
	"triples-mcp/internal/stats"
)

var ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// hebrew spellings written instead of the Latin rank now and then.
var hebrew = map[string]string{"10": "ט", "J": "ג", "Q": "ק", "K": "כ", "A": "א"}

type GeneratorConfig struct {
	Count     int
	Order     string  // "oldest" or "newest" first
	Rate      float64 // probability that a draw is an event
	Clustered bool    // raise the rate right after each event
	Seed      int64
	FirstDraw int64
	Start     time.Time
}

// Draw is one generated table row.
type Draw struct {
	Number int64
	Date   time.Time
	Cards  [4]string
	Event  bool
}

func Generate(cfg GeneratorConfig) []Draw {
	if cfg.FirstDraw <= 0 {
		cfg.FirstDraw = 1
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	out := make([]Draw, cfg.Count)
	hot := 0
	for i := range out {
		rate := cfg.Rate
		if cfg.Clustered && hot > 0 {
			// Clusters need a gap of exactly 1 to start; favor it strongly.
			rate = min(1, cfg.Rate*8)
			hot--
		}

		d := Draw{
			Number: cfg.FirstDraw + int64(i),
			Date:   cfg.Start.AddDate(0, 0, i),
			Event:  rng.Float64() < rate,
		}
		if d.Event {
			d.Cards = eventCards(rng)
			hot = stats.DefaultClusterMaxGap
		} else {
			d.Cards = plainCards(rng)
		}
		for c := range d.Cards {
			if h, ok := hebrew[d.Cards[c]]; ok && rng.Float64() < 0.15 {
				d.Cards[c] = h
			}
		}
		out[i] = d
	}

	if cfg.Order == "newest" {
		slices.Reverse(out)
	}
	return out
}

// eventCards returns a triple, or a quadruple one time in ten.
func eventCards(rng *rand.Rand) [4]string {
	rank := ranks[rng.Intn(len(ranks))]
	cards := [4]string{rank, rank, rank, rank}
	if rng.Float64() < 0.1 {
		return cards
	}
	other := rank
	for other == rank {
		other = ranks[rng.Intn(len(ranks))]
	}
	cards[rng.Intn(4)] = other
	return cards
}

// plainCards returns four cards in which no rank appears three times.
func plainCards(rng *rand.Rand) [4]string {
	for {
		var cards [4]string
		counts := make(map[string]int, 4)
		ok := true
		for c := range cards {
			cards[c] = ranks[rng.Intn(len(ranks))]
			counts[cards[c]]++
			if counts[cards[c]] >= stats.MinEventSize {
				ok = false
			}
		}
		if ok {
			return cards
		}
	}
}

// Events counts the generated events.
func Events(rows []Draw) int {
	n := 0
	for _, d := range rows {
		if d.Event {
			n++
		}
	}
	return n
}

func header() []string {
	schema := draws.DefaultSchema()
	h := make([]string, len(draws.RequiredColumns))
	for i, col := range draws.RequiredColumns {
		h[i] = schema[col][0]
	}
	return h
}

func WriteCSV(w io.Writer, rows []Draw) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header()); err != nil {
		return eris.Wrap(err, "drawgen: write header")
	}
	for _, d := range rows {
		rec := []string{
			strconv.Itoa(d.Date.Day()) + "/" + strconv.Itoa(int(d.Date.Month())) + "/" + strconv.Itoa(d.Date.Year()),
			strconv.FormatInt(d.Number, 10),
		}
		rec = append(rec, d.Cards[:]...)
		if err := cw.Write(rec); err != nil {
			return eris.Wrap(err, "drawgen: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "drawgen: flush csv")
}

func BuildXLSX(rows []Draw) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("draws")
	if err != nil {
		return nil, eris.Wrap(err, "drawgen: add sheet")
	}
	hr := sheet.AddRow()
	for _, h := range header() {
		hr.AddCell().SetString(h)
	}
	for _, d := range rows {
		r := sheet.AddRow()
		r.AddCell().SetDate(d.Date)
		r.AddCell().SetInt64(d.Number)
		for _, c := range d.Cards {
			r.AddCell().SetString(c)
		}
	}
	return f, nil
}

// Save writes rows to path as csv or xlsx.
func Save(path, format string, rows []Draw) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return eris.Wrap(err, "drawgen: create output directory")
	}

	switch strings.ToLower(format) {
	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "drawgen: create %s", path)
		}
		defer f.Close()
		return WriteCSV(f, rows)
	case "xlsx":
		wb, err := BuildXLSX(rows)
		if err != nil {
			return err
		}
		return eris.Wrapf(wb.Save(path), "drawgen: save %s", path)
	default:
		return eris.Errorf("drawgen: unknown format %q (want csv or xlsx)", format)
	}
}
