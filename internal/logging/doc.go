// Package logging provides structured logging utilities for sheettodo.
//
// It centralizes attribute names so log lines from the web handlers, the
// spreadsheet client, the reminder and the MCP tools can be correlated:
//
//	logger := logging.WithOperation(slog.Default(), "tasks.toggle")
//	logger.Info("task toggled", logging.TaskID(id), logging.Status(logging.StatusSuccess))
//
// Chat recipients are hashed and access tokens are never logged directly.
package logging
