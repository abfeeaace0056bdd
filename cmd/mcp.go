package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/sheettodo/internal/config"
	"github.com/teemow/sheettodo/internal/resources"
	"github.com/teemow/sheettodo/internal/tasks"
	"github.com/teemow/sheettodo/internal/tools/common"
	"github.com/teemow/sheettodo/internal/tools/tasks_tools"
)

func newMCPCmd() *cobra.Command {
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the task tools over MCP stdio",
		Long: `Start an MCP (Model Context Protocol) server on stdin/stdout that exposes
the task spreadsheet to AI assistants.

Tools: tasks_list, tasks_get, and unless --read-only is set tasks_add,
tasks_update, tasks_toggle, tasks_delete and tasks_delete_completed.
Resources: tasks://summary and tasks://reminder.
Logs are written to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runMCP(cmd.Context(), cfg, readOnly)
		},
	}

	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Only register the read tools (tasks_list, tasks_get)")

	return cmd
}

// newMCPServer creates the MCP server with the task tools and resources registered.
func newMCPServer(store tasks_tools.Store, source resources.RecordSource, inst common.Instruments, readOnly bool) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("sheettodo", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)
	if err := tasks_tools.RegisterTasksTools(mcpSrv, store, inst, readOnly); err != nil {
		return nil, fmt.Errorf("failed to register task tools: %w", err)
	}
	if err := resources.RegisterTaskResources(mcpSrv, source, nil); err != nil {
		return nil, fmt.Errorf("failed to register task resources: %w", err)
	}
	return mcpSrv, nil
}

func runMCP(ctx context.Context, cfg *config.Config, readOnly bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := setupLogging(cfg)

	// stdout carries the protocol.
	provider, err := newInstrumentation(ctx, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error("instrumentation shutdown failed", slog.Any("error", err))
		}
	}()
	metrics := provider.Metrics()

	worksheet, err := openWorksheet(ctx, cfg, metrics, logger)
	if err != nil {
		return err
	}

	mcpSrv, err := newMCPServer(tasks.NewRepository(worksheet), worksheet, common.Instruments{
		Metrics: metrics,
		Audit:   provider.AuditLogger(logger),
	}, readOnly)
	if err != nil {
		return err
	}

	if readOnly {
		logger.Info("starting MCP server in read-only mode")
	} else {
		logger.Info("starting MCP server with write tools enabled")
	}

	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
