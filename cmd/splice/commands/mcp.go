package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/splice/pkg/mcp"
	"github.com/Sumatoshi-tech/splice/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes splice as tools that AI agents can discover and invoke:
  - splice_apply: Apply rewrite rules to inline source code
  - splice_parse: Print the syntax tree of inline source code`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sess, err := openSession(ctx, cmd, observability.ModeMCP, func(cfg *observability.Config) {
				if debug {
					cfg.LogLevel = slog.LevelDebug
					cfg.DebugTrace = true
				}
			})
			if err != nil {
				return err
			}
			defer sess.close()

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  sess.providers.Logger,
				Metrics: sess.providers.RED,
				Tracer:  sess.providers.Tracer,
				Engine:  sess.engine,
			})

			return srv.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}
