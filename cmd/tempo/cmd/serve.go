package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/tempo/internal/probe"
	"github.com/MeKo-Tech/tempo/internal/server"
	"github.com/MeKo-Tech/tempo/internal/stopwatch"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Continuously time configured probes and expose them over HTTP",
	Long: `Start a daemon that runs each configured probe command on its
interval, times every run, and serves the measurements.

Endpoints:
  GET /healthz  - health check
  GET /probes   - configured probes
  GET /results  - retained measurements (optionally ?probe=<name>)
  GET /metrics  - Prometheus metrics
  GET /ws       - live measurement feed (WebSocket)

Probes come from the probes section of the config file:

  probes:
    - name: ping
      command: ping
      args: ["-c", "1", "localhost"]
      interval_seconds: 10

Examples:
  tempo serve
  tempo serve --port 9090 --host 0.0.0.0`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		corsOrigin := cfg.Server.CORSOrigin
		if cmd.Flags().Changed("cors-origin") {
			corsOrigin, _ = cmd.Flags().GetString("cors-origin")
		}

		timeout := cfg.Server.TimeoutSec
		if cmd.Flags().Changed("timeout") {
			timeout, _ = cmd.Flags().GetInt("timeout")
		}

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if cmd.Flags().Changed("shutdown-timeout") {
			shutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
		}

		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", port)
		}

		if len(cfg.Probes) == 0 {
			return errors.New("no probes configured (add a probes section to the config file)")
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		runner := probe.NewRunner(cfg.Probes, cfg.Server.HistorySize)
		runner.Observe(server.ObserveMeasurement)

		srv := server.NewServer(server.Config{CORSOrigin: corsOrigin}, runner)
		mux := http.NewServeMux()
		srv.SetupRoutes(mux)

		httpServer := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       time.Duration(timeout) * time.Second,
			WriteTimeout:      time.Duration(timeout) * time.Second,
		}

		// Report total uptime on the way out.
		uptime := stopwatch.NewAuto("tempo serve uptime")
		uptime.SetOutput(os.Stderr)
		defer func() { _ = uptime.Close() }()

		runnerDone := make(chan struct{})
		go func() {
			defer close(runnerDone)
			runner.Run(ctx)
		}()

		go func() {
			slog.Info("Starting measurement server", "host", host, "port", port, "probes", len(cfg.Probes))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Server error", "error", err)
				cancel()
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
		case <-ctx.Done():
			slog.Info("Context cancelled, initiating shutdown")
		}

		slog.Info("Starting graceful shutdown", "timeout", fmt.Sprintf("%ds", shutdownTimeout))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		} else {
			slog.Info("HTTP server shutdown completed")
		}

		// Stop the probe loops and wait for them to drain.
		cancel()
		select {
		case <-runnerDone:
		case <-shutdownCtx.Done():
			slog.Warn("Probe runner did not stop before the shutdown deadline")
		}

		slog.Info("Graceful shutdown completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	serveCmd.Flags().Int("timeout", 30, "request timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
}
