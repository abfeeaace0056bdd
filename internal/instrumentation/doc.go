// Package instrumentation provides OpenTelemetry instrumentation for sheettodo.
//
// # Metrics
//
// HTTP Metrics (web UI):
//   - http_requests_total: Counter of HTTP requests by method, route pattern, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Outbound API Metrics:
//   - api_operations_total: Counter of Google Sheets and LINE calls by service, operation, status
//   - api_operation_duration_seconds: Histogram of outbound call durations
//
// Task Metrics:
//   - task_mutations_total: Counter of create/update/toggle/delete/delete_completed by source and status
//   - reminder_runs_total: Counter of reminder runs by status
//   - reminder_tasks_notified_total: Counter of tasks included in pushed reminders
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// Route labels are the registered ServeMux patterns ("POST /toggle/{id}"), never
// raw paths, so task identifiers do not leak into label values.
//
// # Tracing
//
// Spans are created for:
//   - HTTP request handling (otelhttp)
//   - MCP tool invocations (tool.<name>)
//   - Google Sheets calls (google.sheets.<operation>)
//   - Reminder runs (reminder.run)
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: sheettodo)
//   - AUDIT_LOGGING_ENABLED: Audit trail of task mutations (default: true)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordAPIOperation(ctx, instrumentation.ServiceSheets, instrumentation.OperationRead, instrumentation.StatusSuccess, time.Since(start))
package instrumentation
