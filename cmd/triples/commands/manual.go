package commands

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"triples-mcp/internal/simulation"
	"triples-mcp/internal/workspace"
)

var (
	manualEvent   bool
	manualNoEvent bool
)

var manualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Manage hypothetical draws appended after the loaded table",
}

var manualAddCmd = &cobra.Command{
	Use:   "add <draw-number>",
	Short: "Add or replace a manual entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || n <= 0 {
			return eris.Errorf("draw number must be a positive integer, got %q", args[0])
		}

		store, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		e := simulation.ManualEntry{DrawNumber: n, HasEvent: manualEvent}
		if err := store.UpsertManual(cmd.Context(), e); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Draw %d recorded (%s)\n", n, eventWord(manualEvent))
		return nil
	},
}

var manualRemoveCmd = &cobra.Command{
	Use:   "remove <draw-number>",
	Short: "Remove a manual entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return eris.Errorf("invalid draw number %q", args[0])
		}

		store, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		ok, err := store.RemoveManual(cmd.Context(), n)
		if err != nil {
			return err
		}
		if !ok {
			return eris.Errorf("no manual entry for draw %d", n)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Draw %d removed\n", n)
		return nil
	},
}

var manualListCmd = &cobra.Command{
	Use:   "list",
	Short: "List manual entries in draw order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		set, err := store.ManualEntries(cmd.Context())
		if err != nil {
			return err
		}
		last, err := store.LastLoad(cmd.Context())
		if err != nil {
			return err
		}
		return writeManualList(cmd, set, last)
	},
}

var manualResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove all manual entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.ResetManual(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d manual entries removed\n", n)
		return nil
	},
}

func writeManualList(cmd *cobra.Command, set *simulation.ManualSet, last *workspace.Load) error {
	w := cmd.OutOrStdout()
	if last != nil {
		maxDraw := "-"
		if last.MaxDraw != nil {
			maxDraw = strconv.FormatInt(*last.MaxDraw, 10)
		}
		fmt.Fprintf(w, "Last loaded table: %s (%d rows, max draw %s)\n", last.File, last.Rows, maxDraw)
	}
	if set.Len() == 0 {
		fmt.Fprintln(w, "No manual entries")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Draw", "Event", "Added"})
	for _, e := range set.Entries() {
		t.AppendRow(table.Row{e.DrawNumber, eventWord(e.HasEvent), e.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	t.Render()
	return nil
}

func eventWord(hasEvent bool) string {
	if hasEvent {
		return "event"
	}
	return "no event"
}

func init() {
	manualAddCmd.Flags().BoolVar(&manualEvent, "event", false, "the draw had a triple or quadruple")
	manualAddCmd.Flags().BoolVar(&manualNoEvent, "no-event", false, "the draw had no triple")
	manualAddCmd.MarkFlagsMutuallyExclusive("event", "no-event")
	manualAddCmd.MarkFlagsOneRequired("event", "no-event")

	manualCmd.AddCommand(manualAddCmd, manualRemoveCmd, manualListCmd, manualResetCmd)
	rootCmd.AddCommand(manualCmd)
}
