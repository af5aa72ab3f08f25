package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"triples-mcp/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	store, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	mcp.Version = Version
	server, err := mcp.NewServer(cfg, store)
	if err != nil {
		return err
	}
	log.Info().Str("db", cfg.DBPath).Msg("MCP Server starting Stdio loop")
	return server.Start(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
