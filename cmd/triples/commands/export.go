package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"triples-mcp/internal/export"
	"triples-mcp/internal/stats"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the analysis of a table to an XLSX workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := readAndAnalyze(ctx, args[0])
		if err != nil {
			return err
		}

		store, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		set, err := store.ManualEntries(ctx)
		if err != nil {
			return err
		}

		meta := export.Meta{File: displayName(args[0]), ManualEntries: set.Len()}
		if err := saveWorkbook(cmd.OutOrStdout(), exportOut, a, meta); err != nil {
			return err
		}
		log.Info().Str("path", exportOut).Int("events", len(a.Events)).Msg("Workbook exported")
		return nil
	},
}

// saveWorkbook writes to path, or streams the workbook to stdout when path is "-".
func saveWorkbook(stdout io.Writer, path string, a stats.Analysis, meta export.Meta) error {
	if path == "-" {
		return export.Write(stdout, a, meta)
	}
	if err := export.Save(path, a, meta); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Workbook written to %s\n", path)
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "triples.xlsx", "output workbook path, - for stdout")
	rootCmd.AddCommand(exportCmd)
}
