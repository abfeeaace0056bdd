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

	"github.com/spf13/cobra"

	"github.com/teemow/sheettodo/internal/config"
	"github.com/teemow/sheettodo/internal/server"
	"github.com/teemow/sheettodo/internal/tasks"
	"github.com/teemow/sheettodo/internal/web"
)

// defaultSecretKey is the placeholder shipped in config.Default.
const defaultSecretKey = "replace-me"

// serveFlags holds the serve flags that override the loaded configuration.
type serveFlags struct {
	addr           string
	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the task web UI",
		Long: `Start the web UI for the task spreadsheet.

The UI lists tasks by due date or priority and lets you add, edit, complete
and delete them. Health endpoints (/healthz, /readyz, /healthz/detailed) are
served on the same address. Prometheus metrics are served on a dedicated
address when the metrics server is enabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", config.DefaultHTTPAddr, "Web UI listen address. Can also use HTTP_ADDR env var.")
	cmd.Flags().BoolVar(&flags.metricsEnabled, "metrics-enabled", false, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", config.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// apply copies explicitly set flags over cfg. Unset flags leave the file and
// environment values in place.
func (f serveFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("addr") {
		cfg.Web.Addr = f.addr
	}
	if cmd.Flags().Changed("metrics-enabled") {
		cfg.Metrics.Enabled = f.metricsEnabled
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.Metrics.Addr = f.metricsAddr
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := setupLogging(cfg)

	provider, err := newInstrumentation(shutdownCtx, false)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error("instrumentation shutdown failed", slog.Any("error", err))
		}
	}()
	metrics := provider.Metrics()

	worksheet, err := openWorksheet(shutdownCtx, cfg, metrics, logger)
	if err != nil {
		return err
	}
	// The readiness check keeps retrying, so an unreachable sheet is not fatal here.
	if title, err := worksheet.Title(shutdownCtx); err != nil {
		logger.Warn("spreadsheet not reachable at startup", slog.Any("error", err))
	} else {
		logger.Info("using worksheet", slog.String("worksheet", title))
	}

	if cfg.Web.SecretKey == defaultSecretKey {
		logger.Warn("using the default secret key for flash cookies; set SECRET_KEY")
	}

	handler, err := web.NewHandler(tasks.NewRepository(worksheet), cfg.Web.SecretKey,
		web.WithLogger(logger),
		web.WithMetrics(metrics),
		web.WithAuditLogger(provider.AuditLogger(logger)),
	)
	if err != nil {
		return fmt.Errorf("failed to create web handler: %w", err)
	}

	health := server.NewHealthChecker()
	health.AddCheck("spreadsheet", worksheet.Ping)

	mux := http.NewServeMux()
	handler.Register(mux)
	health.RegisterHealthEndpoints(mux)

	webServer := server.NewWebServer(cfg.Web.Addr, web.Instrument(mux, metrics), health)

	var metricsServer *server.MetricsServer
	if cfg.Metrics.Enabled {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.Metrics.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	serverErr := make(chan error, 2)
	go func() {
		serverErr <- webServer.Start()
	}()
	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-shutdownCtx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serverErr:
		if runErr != nil {
			logger.Error("server stopped", slog.Any("error", runErr))
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer stopCancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(stopCtx); err != nil {
			logger.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}
	if err := webServer.Shutdown(stopCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("web server shutdown: %w", err))
	}
	return runErr
}
