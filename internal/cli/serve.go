package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thedreamteamconsultancy/workstatus/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the auto-delay scanner",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "8080", "HTTP server port")
	serveCmd.Flags().Duration("sweep-interval", 0, "scanner tick interval (default from config)")
	serveCmd.Flags().String("redis-addr", "", "Redis address for the shared scanner lease; empty keeps it in-process")
	serveCmd.Flags().String("otel-endpoint", "", "OTLP HTTP endpoint for tracing (e.g. localhost:4318); empty disables tracing")

	bindFlag("server.port", serveCmd.Flags(), "port")
	bindFlag("engine.sweep_interval", serveCmd.Flags(), "sweep-interval")
	bindFlag("redis.addr", serveCmd.Flags(), "redis-addr")
	bindFlag("telemetry.otel_endpoint", serveCmd.Flags(), "otel-endpoint")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		a.Shutdown()
		return err
	}
	return a.Run(ctx)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
