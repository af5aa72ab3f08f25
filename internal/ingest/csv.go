package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"triples-mcp/internal/draws"
)

// ReadCSV reads a comma-separated table whose first record is the header.
func ReadCSV(ctx context.Context, r io.Reader, schema draws.Schema) (draws.Table, error) {
	header, records, err := readCSV(ctx, r)
	if err != nil {
		return draws.Table{}, err
	}
	return draws.NewTable(header, records, schema)
}

func readCSVFile(ctx context.Context, path string) ([]string, [][]draws.Cell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "ingest: open csv")
	}
	defer f.Close()
	return readCSV(ctx, f)
}

func readCSV(ctx context.Context, r io.Reader) ([]string, [][]draws.Cell, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var raw [][]string
	for {
		if ctx.Err() != nil {
			return nil, nil, eris.Wrap(ctx.Err(), "ingest: csv read cancelled")
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "ingest: read csv row")
		}
		raw = append(raw, record)
	}

	header, records := splitHeader(raw)
	return header, records, nil
}
