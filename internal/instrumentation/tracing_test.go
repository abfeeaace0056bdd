package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestStartSheetsSpan(t *testing.T) {
	recorder := installRecorder(t)

	ctx, span := StartSheetsSpan(context.Background(), OperationRead)
	if GetTraceID(ctx) == "" {
		t.Error("expected trace id in context")
	}
	if GetSpanID(ctx) == "" {
		t.Error("expected span id in context")
	}
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "google.sheets.read" {
		t.Errorf("span name = %q, want google.sheets.read", ended[0].Name())
	}
	if ended[0].Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", ended[0].Status().Code)
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := installRecorder(t)

	_, span := StartToolSpan(context.Background(), "tasks_add")
	SetSpanError(span, errors.New("boom"))
	SetSpanError(span, nil)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "tool.tasks_add" {
		t.Errorf("span name = %q, want tool.tasks_add", ended[0].Name())
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", ended[0].Status().Code)
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if got := GetTraceID(context.Background()); got != "" {
		t.Errorf("GetTraceID() = %q, want empty", got)
	}
	if got := GetSpanID(context.Background()); got != "" {
		t.Errorf("GetSpanID() = %q, want empty", got)
	}
}
