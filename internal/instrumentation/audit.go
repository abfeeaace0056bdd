package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/sheettodo/internal/logging"
)

// AuditEvent captures one change to the task store, or one MCP tool call,
// for the audit trail.
type AuditEvent struct {
	// Source is where the request came from (web, mcp).
	Source string

	// Action is the mutation (create, update, toggle, delete, delete_completed)
	// or the tool name for MCP invocations.
	Action string

	// TaskID is the affected task, empty for bulk operations.
	TaskID string

	// Count is the number of rows affected by bulk operations.
	Count int

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// NewAuditEvent creates a new AuditEvent with timing started.
// Call Complete when the operation finishes.
func NewAuditEvent(source, action string) *AuditEvent {
	return &AuditEvent{
		Source:    source,
		Action:    action,
		StartTime: time.Now(),
	}
}

// WithTask sets the affected task identifier.
func (e *AuditEvent) WithTask(id string) *AuditEvent {
	e.TaskID = id
	return e
}

// WithCount sets the number of affected rows.
func (e *AuditEvent) WithCount(n int) *AuditEvent {
	e.Count = n
	return e
}

// WithSpanContext extracts trace context from the current span.
func (e *AuditEvent) WithSpanContext(ctx context.Context) *AuditEvent {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		e.TraceID = span.SpanContext().TraceID().String()
		e.SpanID = span.SpanContext().SpanID().String()
	}
	return e
}

// Complete marks the event as finished. A nil error means success.
func (e *AuditEvent) Complete(err error) *AuditEvent {
	e.Duration = time.Since(e.StartTime)
	e.Success = err == nil
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// Status returns "success" or "error" based on the Success field.
func (e *AuditEvent) Status() string {
	if e.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging.
func (e *AuditEvent) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("source", e.Source),
		slog.String("action", e.Action),
		slog.Duration(logging.KeyDuration, e.Duration),
		logging.Status(e.Status()),
	}

	if e.TaskID != "" {
		attrs = append(attrs, logging.TaskID(e.TaskID))
	}
	if e.Count > 0 {
		attrs = append(attrs, logging.Count(e.Count))
	}
	if e.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", e.TraceID))
	}
	if e.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", e.SpanID))
	}
	if e.Error != "" {
		attrs = append(attrs, slog.String(logging.KeyError, e.Error))
	}

	return attrs
}

// AuditLogger writes audit events to a slog.Logger.
// A nil *AuditLogger discards events.
type AuditLogger struct {
	logger  *slog.Logger
	enabled bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:  logger,
		enabled: true,
	}
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// Log writes the event. Failed operations are logged at warn level.
func (al *AuditLogger) Log(ctx context.Context, e *AuditEvent) {
	if al == nil || !al.enabled || e == nil {
		return
	}

	level := slog.LevelInfo
	if !e.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "audit", e.LogAttrs()...)
}
