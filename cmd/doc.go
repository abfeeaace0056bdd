// Package cmd implements the command-line interface for sheettodo.
//
// This package provides the following commands:
//   - serve: Start the task web UI (default when no subcommand is given)
//   - remind: Push today's and tomorrow's open tasks to LINE
//   - mcp: Serve the task tools to AI assistants over stdio
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for the MCP tools
package cmd
