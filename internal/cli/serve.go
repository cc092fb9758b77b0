package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a3tai/policy-tracker/internal/logging"
	"github.com/a3tai/policy-tracker/internal/mcp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP tool server",
		Long: `Run the MCP tool server.

In stdio mode (default) the parent process talks to the server over
stdin/stdout. With --mode server it listens for SSE clients on --host/--port.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *App) error {
			server, err := mcp.NewServer(app.Config, app.Customers, app.PDF, app.Logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			if err := server.Run(ctx); err != nil {
				return err
			}
			app.Logger.Info("server stopped", logging.String("mode", app.Config.Mode))
			return nil
		}),
	}
}
