// Package ingest reads draw tables from CSV and XLSX files.
package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"triples-mcp/internal/draws"
)

// ErrUnsupportedFormat is returned for file extensions other than .csv and .xlsx.
var ErrUnsupportedFormat = eris.New("ingest: unsupported file format")

// Options configures how a table file is read.
type Options struct {
	SheetIndex int    // xlsx only, default 0
	SheetName  string // xlsx only, overrides SheetIndex
	Schema     draws.Schema
}

// ReadFile reads path according to its extension and maps the first row as header.
func ReadFile(ctx context.Context, path string, opts Options) (draws.Table, error) {
	var (
		header  []string
		records [][]draws.Cell
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		header, records, err = readCSVFile(ctx, path)
	case ".xlsx":
		header, records, err = readXLSX(ctx, path, opts)
	default:
		return draws.Table{}, eris.Wrapf(ErrUnsupportedFormat, "extension %q", ext)
	}
	if err != nil {
		return draws.Table{}, err
	}

	table, err := draws.NewTable(header, records, opts.Schema)
	if err != nil {
		return draws.Table{}, eris.Wrapf(err, "ingest: %s", filepath.Base(path))
	}

	log.Debug().
		Str("file", path).
		Int("records", len(records)).
		Int("rows", len(table.Rows)).
		Msg("Table loaded")
	return table, nil
}

func splitHeader(raw [][]string) ([]string, [][]draws.Cell) {
	if len(raw) == 0 {
		return nil, nil
	}
	header := raw[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	records := make([][]draws.Cell, 0, len(raw)-1)
	for _, r := range raw[1:] {
		rec := make([]draws.Cell, len(r))
		for i, v := range r {
			rec[i] = draws.TextCell(v)
		}
		records = append(records, rec)
	}
	return header, records
}
