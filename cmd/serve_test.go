package cmd

import (
	"testing"

	"github.com/teemow/sheettodo/internal/config"
)

func TestServeFlags_Apply(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantAddr    string
		wantEnabled bool
		wantMetrics string
	}{
		{
			name:        "unset flags keep config values",
			args:        nil,
			wantAddr:    ":3000",
			wantEnabled: true,
			wantMetrics: ":9999",
		},
		{
			name:        "explicit flags override config",
			args:        []string{"--addr", "127.0.0.1:8081", "--metrics-enabled=false", "--metrics-addr", ":9191"},
			wantAddr:    "127.0.0.1:8081",
			wantEnabled: false,
			wantMetrics: ":9191",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newServeCmd()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags() error = %v", err)
			}

			cfg := config.Default()
			cfg.Web.Addr = ":3000"
			cfg.Metrics.Enabled = true
			cfg.Metrics.Addr = ":9999"

			var flags serveFlags
			flags.addr, _ = cmd.Flags().GetString("addr")
			flags.metricsEnabled, _ = cmd.Flags().GetBool("metrics-enabled")
			flags.metricsAddr, _ = cmd.Flags().GetString("metrics-addr")
			flags.apply(cmd, cfg)

			if cfg.Web.Addr != tt.wantAddr {
				t.Errorf("Web.Addr = %q, want %q", cfg.Web.Addr, tt.wantAddr)
			}
			if cfg.Metrics.Enabled != tt.wantEnabled {
				t.Errorf("Metrics.Enabled = %v, want %v", cfg.Metrics.Enabled, tt.wantEnabled)
			}
			if cfg.Metrics.Addr != tt.wantMetrics {
				t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, tt.wantMetrics)
			}
		})
	}
}

func TestRunServe_RequiresSpreadsheet(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "false")

	cfg := config.Default()
	if err := runServe(t.Context(), cfg); err == nil {
		t.Fatal("expected an error without a spreadsheet id")
	}
}
