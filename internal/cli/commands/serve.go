package commands

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sqldash-labs/sqldash/internal/seed"
	"github.com/sqldash-labs/sqldash/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Seed bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		Long: `Start the HTTP server backing the dashboard.

The server exposes the dashboard page, schema introspection under
/api/schema and ad-hoc SQL execution under /api/query for every
registered database.`,
		Example: `  # Serve on the default port
  sqldash serve

  # Serve on a custom port
  sqldash serve --port 8080

  # Reload the bundled datasets before serving
  sqldash serve --seed`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "Load the bundled datasets before serving")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	// CLI flag overrides config file
	seedOnStart := cmdCtx.Cfg.Seed.OnStart
	if cmd.Flags().Changed("seed") {
		seedOnStart = opts.Seed
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		cmdCtx.Logger.Info("shutting down")
		cancel()
	}()

	if seedOnStart {
		if err := seed.Run(ctx, cmdCtx.Logger, cmdCtx.Registry); err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
	}

	srv := server.NewServer(server.Config{
		Registry: cmdCtx.Registry,
		Host:     cmdCtx.Cfg.Server.Host,
		Port:     cmdCtx.Cfg.Server.Port,
		Logger:   cmdCtx.Logger,
	})

	addr := net.JoinHostPort(cmdCtx.Cfg.Server.Host, strconv.Itoa(cmdCtx.Cfg.Server.Port))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving dashboard on http://%s\n", addr)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	return srv.Serve(ctx)
}
