package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/teemow/sheettodo/internal/config"
	"github.com/teemow/sheettodo/internal/google"
	"github.com/teemow/sheettodo/internal/instrumentation"
	"github.com/teemow/sheettodo/internal/logging"
	"github.com/teemow/sheettodo/internal/sheets"
)

// loadConfig loads the configuration and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if debugMode {
		cfg.Debug = true
	}
	return cfg, nil
}

// setupLogging installs the default logger. Logs always go to stderr so that
// stdout stays free for command output and the MCP stdio transport.
func setupLogging(cfg *config.Config) *slog.Logger {
	return logging.Setup(os.Stderr, cfg.Debug)
}

// newInstrumentation creates the OpenTelemetry provider from the environment.
// With stdio set, exporters that write to stdout are switched off.
func newInstrumentation(ctx context.Context, stdio bool) (*instrumentation.Provider, error) {
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if stdio {
		instrConfig = stdioSafe(instrConfig)
	}

	if err := instrConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid instrumentation config: %w", err)
	}

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	return provider, nil
}

// stdioSafe disables exporters that write to stdout.
func stdioSafe(c instrumentation.Config) instrumentation.Config {
	if c.MetricsExporter == instrumentation.ExporterStdout {
		c.MetricsExporter = instrumentation.ExporterPrometheus
	}
	if c.TracingExporter == instrumentation.ExporterStdout {
		c.TracingExporter = instrumentation.ExporterNone
	}
	return c
}

// openWorksheet authenticates as the service account and returns the task
// worksheet. Nothing is fetched until the first call on the worksheet.
func openWorksheet(ctx context.Context, cfg *config.Config, metrics *instrumentation.Metrics, logger *slog.Logger) (*sheets.Worksheet, error) {
	if err := cfg.ValidateStore(); err != nil {
		return nil, err
	}

	creds, err := google.LoadCredentials(cfg.Credentials.JSON, cfg.Credentials.File)
	if err != nil {
		return nil, err
	}

	client, err := sheets.NewClient(ctx, creds, cfg.Spreadsheet.ID)
	if err != nil {
		return nil, err
	}
	client.SetMetrics(metrics)
	client.SetLogger(logger)

	logger.Debug("opened spreadsheet",
		slog.String("spreadsheet_id", client.SpreadsheetID()),
		slog.String("worksheet", cfg.Spreadsheet.Worksheet),
		slog.String("service_account", creds.ClientEmail))

	return client.Worksheet(cfg.Spreadsheet.Worksheet), nil
}
