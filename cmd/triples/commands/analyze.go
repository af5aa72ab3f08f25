package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"triples-mcp/internal/config"
	"triples-mcp/internal/report"
	"triples-mcp/internal/simulation"
	"triples-mcp/internal/stats"
)

var (
	analyzeLag     int
	analyzeJSON    bool
	analyzeMermaid bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Report events, gaps, windows, clusters and historical outcomes",
	Long: `Analyze one or more draw tables. Files are analyzed concurrently and reported in
argument order. The first file is the working table: its maximum draw number is
recorded in the workspace (clearing manual entries when it grew) and the manual
entries are overlaid on its current state.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		analyses := make([]stats.Analysis, len(args))
		g, gctx := errgroup.WithContext(ctx)
		for i, path := range args {
			g.Go(func() error {
				a, err := readAndAnalyze(gctx, path)
				if err != nil {
					return err
				}
				analyses[i] = a
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		store, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		load, err := store.RecordLoad(ctx, displayName(args[0]), analyses[0].RowCount, analyses[0].MaxDrawNumber)
		if err != nil {
			return err
		}
		if load.Reset {
			log.Info().
				Int64("previousMax", *load.PreviousMax).
				Int64("newMax", *load.MaxDraw).
				Msg("Newer table loaded, manual entries cleared")
		}
		set, err := store.ManualEntries(ctx)
		if err != nil {
			return err
		}

		var lag *int
		if cmd.Flags().Changed("lag") {
			lag = &analyzeLag
		}

		reports := make([]report.Report, len(args))
		for i, path := range args {
			var manual []simulation.ManualEntry
			if i == 0 {
				manual = set.Entries()
			}
			reports[i] = report.New(displayName(path), analyses[i], manual, lag)
		}
		out := outputOptions{
			JSON:    analyzeJSON,
			Mermaid: withMermaid(cmd.Flags().Changed("mermaid"), analyzeMermaid, cfg),
		}
		return writeReports(cmd.OutOrStdout(), reports, out)
	},
}

type outputOptions struct {
	JSON    bool
	Mermaid bool
}

// withMermaid lets an explicit --mermaid flag override ENABLE_MERMAID_CHARTS.
func withMermaid(flagSet, flagValue bool, cfg *config.AppConfig) bool {
	if flagSet || cfg == nil {
		return flagValue
	}
	return cfg.EnableMermaidCharts
}

func writeReports(w io.Writer, reports []report.Report, out outputOptions) error {
	if out.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}
		return enc.Encode(reports)
	}

	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if len(reports) > 1 {
			fmt.Fprintf(w, "== %s ==\n", r.File)
		}
		if err := report.WriteText(w, r); err != nil {
			return err
		}
		if out.Mermaid {
			if err := report.WriteMermaid(w, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeLag, "lag", 0, "summarize what followed this lag instead of the current one")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "emit JSON instead of tables")
	analyzeCmd.Flags().BoolVar(&analyzeMermaid, "mermaid", false, "append Mermaid charts (default from ENABLE_MERMAID_CHARTS)")
	rootCmd.AddCommand(analyzeCmd)
}
