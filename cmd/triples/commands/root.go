package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"triples-mcp/internal/config"
	"triples-mcp/internal/ingest"
	"triples-mcp/internal/logging"
	"triples-mcp/internal/stats"
	"triples-mcp/internal/workspace"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	sheet   int
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "triples",
	Short: "Triples analyzes triple and quadruple events in card-draw tables",
	Long: `Triples reads a lottery draw table (CSV or XLSX), detects draws where three or four
card columns share a rank and reports gaps, trailing-window rates, clusters and
what historically followed the current state. Without a subcommand it serves the
same analytics as an MCP server over stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(verbose); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("sheet") {
			cfg.SheetIndex = sheet
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("command", cmd.Name()).
			Msg("triples starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// Execute runs the root command until it returns or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().IntVar(&sheet, "sheet", 0, "xlsx sheet index (overrides TRIPLES_SHEET)")
}

// readAndAnalyze loads one table and runs the file-only analysis on it.
func readAndAnalyze(ctx context.Context, path string) (stats.Analysis, error) {
	table, err := ingest.ReadFile(ctx, path, ingest.Options{SheetIndex: cfg.SheetIndex})
	if err != nil {
		return stats.Analysis{}, err
	}
	return stats.Analyze(table, cfg.Analysis), nil
}

func openWorkspace(ctx context.Context) (*workspace.Store, error) {
	return workspace.Open(ctx, cfg.DBPath)
}

func displayName(path string) string {
	return filepath.Base(path)
}
