package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"promptcheck/internal/application/common/slogger"

	"github.com/spf13/cobra"
)

const defaultStartTimeout = 10 * time.Second

// newAPICmd creates the api command.
func newAPICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Start the API server",
		Long: `Start the HTTP API server.

The server provides endpoints for:
- Health checks (GET /health)
- Bracket checks (POST /check)
- Settings search (POST /settings/search)

Configuration is loaded from config files and environment variables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runAPIServer(ctx)
		},
	}
}

func runAPIServer(ctx context.Context) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	factory := NewServiceFactory(cfg, slogger.Logger())
	server, err := factory.CreateServer()
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	startCtx, startCancel := context.WithTimeout(ctx, defaultStartTimeout)
	defer startCancel()

	if err := server.Start(startCtx); err != nil {
		return err
	}

	slogger.Info(ctx, "API server started", slogger.Fields{
		"address":    server.Address(),
		"middleware": server.MiddlewareCount(),
		"routes":     server.RouteCount(),
	})

	<-ctx.Done()
	slogger.InfoNoCtx("Shutdown signal received, stopping API server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slogger.ErrorWithErrorNoCtx(err, "Server forced to shutdown", nil)
		return err
	}
	if err := factory.Shutdown(shutdownCtx); err != nil {
		slogger.ErrorWithErrorNoCtx(err, "Failed to shut down meter provider", nil)
	}

	slogger.InfoNoCtx("API server stopped", nil)
	return nil
}
