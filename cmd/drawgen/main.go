package main

import (
	"flag"
	"fmt"
	"os"

	"triples-mcp/cmd/drawgen/engine"
)

func main() {
	count := flag.Int("count", 1000, "Number of draws to generate")
	order := flag.String("order", "newest", "Row order: oldest or newest first")
	format := flag.String("format", "csv", "Output format: csv or xlsx")
	rate := flag.Float64("rate", 0.05, "Approximate probability that a draw is a triple")
	clustered := flag.Bool("clustered", false, "Make events more likely right after an event")
	seed := flag.Int64("seed", 1, "Random seed")
	first := flag.Int64("first", 1, "Draw number of the oldest draw")
	out := flag.String("out", "", "Output file (default ./.cache/draws.<format>)")
	flag.Parse()

	if *order != "oldest" && *order != "newest" {
		fmt.Fprintf(os.Stderr, "invalid -order %q\n", *order)
		os.Exit(2)
	}
	path := *out
	if path == "" {
		path = "./.cache/draws." + *format
	}

	cfg := engine.GeneratorConfig{
		Count:     *count,
		Order:     *order,
		Rate:      *rate,
		Clustered: *clustered,
		Seed:      *seed,
		FirstDraw: *first,
	}

	fmt.Printf("Generating %d draws (rate %.3f, clustered %t, %s first) to %s...\n", cfg.Count, cfg.Rate, cfg.Clustered, cfg.Order, path)

	rows := engine.Generate(cfg)
	if err := engine.Save(path, *format, rows); err != nil {
		fmt.Printf("Failed to save draws: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. %d events.\n", engine.Events(rows))
}
