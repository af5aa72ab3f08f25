package commands

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"triples-mcp/internal/report"
)

var (
	chartOut  string
	chartOpen bool
)

var chartCmd = &cobra.Command{
	Use:   "chart <file>",
	Short: "Render gap, window-rate and bucket charts as an HTML page",
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

		f, err := os.Create(chartOut)
		if err != nil {
			return eris.Wrapf(err, "chart: create %s", chartOut)
		}
		if err := report.WriteHTML(f, report.New(displayName(args[0]), a, set.Entries(), nil)); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return eris.Wrapf(err, "chart: close %s", chartOut)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Charts written to %s\n", chartOut)

		if chartOpen {
			return browser.OpenFile(chartOut)
		}
		return nil
	},
}

func init() {
	chartCmd.Flags().StringVarP(&chartOut, "output", "o", "triples.html", "output HTML path")
	chartCmd.Flags().BoolVar(&chartOpen, "open", false, "open the page in the default browser")
	rootCmd.AddCommand(chartCmd)
}
