package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/quotebank/internal/adapters/driving/mcp"
	"github.com/custodia-labs/quotebank/internal/logger"
)

var serveMCPPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the background backfill scheduler",
	Long: `Runs scheduled tasks until interrupted. Edits to the settings file are
picked up without a restart.

With --mcp-port the MCP server is served over HTTP alongside the scheduler.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&serveMCPPort, "mcp-port", 0, "also serve MCP over HTTP on this port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		if err := scheduler.Start(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return scheduler.Stop()
	})

	if configWatcher != nil && settingsService != nil {
		g.Go(func() error {
			err := configWatcher.Watch(ctx, func() { applySettings(ctx) })
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		})
	}

	if serveMCPPort > 0 {
		server, err := mcp.NewServer(mcpPorts())
		if err != nil {
			return err
		}
		addr := fmt.Sprintf(":%d", serveMCPPort)
		cmd.Printf("MCP server listening on http://localhost%s\n", addr)
		g.Go(func() error {
			return server.RunHTTP(ctx, addr)
		})
	}

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")
	return g.Wait()
}

// applySettings pushes the current scheduler settings to the running scheduler.
func applySettings(ctx context.Context) {
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("Reload settings: %v", err)
		return
	}
	if err := scheduler.ApplyConfig(ctx, settings.Scheduler); err != nil {
		logger.Warn("Apply scheduler settings: %v", err)
	}
}
