package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/inference-gateway/triage/internal/logger"
	cobra "github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the triage tools over MCP",
	Long: `Start an MCP server exposing every triage tool.

With the stdio transport (the default) the server speaks MCP on stdin/stdout
and all logs go to stderr. With the http transport it listens on
server.address and serves the endpoint at server.path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if transport, _ := cmd.Flags().GetString("transport"); transport != "" {
			cfg.Server.Transport = transport
		}
		if address, _ := cmd.Flags().GetString("address"); address != "" {
			cfg.Server.Address = address
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		stopTracing, err := startTracing()
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer stopTracing()

		services, err := newContainer()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.GitHub.Token == "" {
			logger.Warn("No GitHub token configured, remote tools will fail until GITHUB_TOKEN is set")
		}

		return services.GetMCPServer().Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().String("transport", "", "transport to serve on: stdio or http (overrides server.transport)")
	serveCmd.Flags().String("address", "", "listen address for the http transport (overrides server.address)")
	rootCmd.AddCommand(serveCmd)
}
