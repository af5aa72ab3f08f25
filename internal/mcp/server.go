package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"triples-mcp/internal/config"
	"triples-mcp/internal/ingest"
)

// Version is reported to MCP clients.
var Version = "0.1.0"

// Server exposes the analytics as MCP tools over stdio.
type Server struct {
	cfg   *config.AppConfig
	state *AnalysisContext
	mcp   *sdk.Server
	tools []string
}

// NewServer creates a server. A nil workspace keeps manual entries in memory.
func NewServer(cfg *config.AppConfig, ws Workspace) (*Server, error) {
	s := &Server{
		cfg:   cfg,
		state: NewAnalysisContext(ingest.Options{SheetIndex: cfg.SheetIndex}, cfg.Analysis, ws),
		mcp:   sdk.NewServer(&sdk.Implementation{Name: "triples-mcp", Version: Version}, nil),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	return s, nil
}

// Tools lists the registered tool names.
func (s *Server) Tools() []string {
	return s.tools
}

// Start restores persisted manual entries and serves until ctx is done or stdin closes.
func (s *Server) Start(ctx context.Context) error {
	if err := s.state.Restore(ctx); err != nil {
		return err
	}
	log.Info().Int("tools", len(s.tools)).Msg("MCP server listening on stdio")
	return s.mcp.Run(ctx, &sdk.StdioTransport{})
}
