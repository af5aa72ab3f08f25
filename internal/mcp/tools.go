package mcp

import (
	"context"
	"errors"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"triples-mcp/internal/config"
)

// LoadTableInput selects the table file to analyze.
type LoadTableInput struct {
	Path  string `json:"path" jsonschema:"Path to a .csv or .xlsx draw table" validate:"required"`
	Sheet *int   `json:"sheet,omitempty" jsonschema:"Zero-based worksheet index for .xlsx files" validate:"omitempty,gte=0"`
}

// LagBehaviorInput asks for the history of a specific lag.
type LagBehaviorInput struct {
	Lag *int `json:"lag,omitempty" jsonschema:"Lag to condition on; defaults to the current file lag" validate:"omitempty,gte=0"`
}

// ListEventsInput pages through the detected events.
type ListEventsInput struct {
	Limit       int  `json:"limit,omitempty" jsonschema:"Maximum number of events; 0 returns all" validate:"gte=0"`
	NewestFirst bool `json:"newest_first,omitempty" jsonschema:"Return the most recent events first"`
}

// ListLongGapsInput overrides the long-gap threshold.
type ListLongGapsInput struct {
	Threshold int `json:"threshold,omitempty" jsonschema:"List gaps strictly greater than this; defaults to the configured threshold" validate:"gte=0"`
}

// AddManualEntryInput records a hypothetical draw after the table's end.
type AddManualEntryInput struct {
	DrawNumber int64 `json:"draw_number" jsonschema:"Draw number of the hypothetical draw" validate:"gt=0"`
	HasEvent   *bool `json:"has_event" jsonschema:"Whether that draw had a triple or quadruple" validate:"required"`
}

// ExportWorkbookInput names the workbook to write.
type ExportWorkbookInput struct {
	OutputPath string `json:"output_path" jsonschema:"Destination .xlsx path" validate:"required"`
}

// ChartsInput selects the chart rendering.
type ChartsInput struct {
	Format     string `json:"format,omitempty" jsonschema:"mermaid (default) or html" validate:"omitempty,oneof=mermaid html"`
	OutputPath string `json:"output_path,omitempty" jsonschema:"Destination .html path, required for the html format" validate:"required_if=Format html"`
}

// EmptyInput is used by tools without arguments.
type EmptyInput struct{}

func (s *Server) registerTools() error {
	return errors.Join(
		addTool(s, "load_table",
			"Load a draw table (.csv or .xlsx) and analyze it. Must be called before any other analysis tool. "+
				"Loading a table whose highest draw number exceeds the previous one clears the manual entries.",
			s.handleLoadTable),
		addTool(s, "get_current_status",
			"Current state of the loaded table: last event, current lag, baseline and trailing-window rates with classification, "+
				"active cluster. Manual entries are applied as an overlay to the lag and windows only.",
			s.handleGetCurrentStatus),
		addTool(s, "get_lag_behavior",
			"Historical behavior after every gap of exactly the given lag: how many draws until the next event (mean, median, range, buckets). "+
				"A result with count 0 means there is no historical precedent.",
			s.handleGetLagBehavior),
		addTool(s, "get_cluster_behavior",
			"Historical clusters of events and the gap that followed each completed cluster.",
			s.handleGetClusterBehavior),
		addTool(s, "list_events", "List detected triples and quadruples from the file.", s.handleListEvents),
		addTool(s, "list_long_gaps", "List gaps between consecutive events longer than a threshold.", s.handleListLongGaps),
		addTool(s, "add_manual_entry",
			"Record a hypothetical draw after the end of the table. Entries are keyed by draw number; re-adding a draw replaces it. "+
				"They affect only the current lag and window rates, never the historical statistics.",
			s.handleAddManualEntry),
		addTool(s, "list_manual_entries", "List the manual entries in draw-number order.", s.handleListManualEntries),
		addTool(s, "reset_manual_entries", "Remove every manual entry.", s.handleResetManualEntries),
		addTool(s, "export_workbook",
			"Write the file-only analysis to a six-sheet .xlsx workbook (summary, recent events, all events, long gaps, lag behavior, cluster behavior).",
			s.handleExportWorkbook),
		addTool(s, "get_charts",
			"Render charts for the loaded table: Mermaid xycharts inline, or a standalone HTML page written to output_path.",
			s.handleGetCharts),
	)
}

// addTool registers a handler whose input schema is derived from In.
func addTool[In any](s *Server, name, description string, handle func(context.Context, In) (any, error)) error {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return err
	}
	s.tools = append(s.tools, name)
	sdk.AddTool(s.mcp, &sdk.Tool{Name: name, Description: description, InputSchema: schema},
		func(ctx context.Context, _ *sdk.CallToolRequest, in In) (*sdk.CallToolResult, any, error) {
			log.Info().Str("tool", name).Msg("Tool call")
			if err := config.Validate(in); err != nil {
				return nil, nil, err
			}
			res, err := handle(ctx, in)
			if err != nil {
				log.Error().Err(err).Str("tool", name).Msg("Tool failed")
				return nil, nil, err
			}
			return &sdk.CallToolResult{
				Content: []sdk.Content{&sdk.TextContent{Text: s.formatResult(res)}},
			}, nil, nil
		})
	return nil
}
