package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := Setup(&buf, false)
	logger.Debug("hidden")
	logger.Info("visible", TaskID("001"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "task_id=001") {
		t.Errorf("expected task_id attribute in %q", out)
	}

	buf.Reset()
	logger = Setup(&buf, true)
	logger.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug message missing with debug enabled: %q", buf.String())
	}
}

func TestWithHelpers(t *testing.T) {
	logger := slog.Default()
	if WithOperation(logger, "tasks.list") == nil {
		t.Error("WithOperation returned nil")
	}
	if WithTool(logger, "tasks_add") == nil {
		t.Error("WithTool returned nil")
	}
	if WithService(logger, "sheets") == nil {
		t.Error("WithService returned nil")
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		name    string
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		{"operation", Operation("tasks.create"), KeyOperation, "tasks.create"},
		{"task id", TaskID("007"), KeyTaskID, "007"},
		{"count", Count(3), KeyCount, "3"},
		{"status", Status(StatusSuccess), KeyStatus, "success"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantVal {
				t.Errorf("value = %q, want %q", tt.attr.Value.String(), tt.wantVal)
			}
		})
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	if attr.Key != KeyError || attr.Value.String() != "boom" {
		t.Errorf("Err() = %v, want error=boom", attr)
	}

	// Empty Group has empty key
	if attr := Err(nil); attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty string (empty group)", attr.Key)
	}
}

func TestAnonymizeRecipient(t *testing.T) {
	if got := AnonymizeRecipient(""); got != "" {
		t.Errorf("AnonymizeRecipient(\"\") = %q, want empty", got)
	}

	a := AnonymizeRecipient("U1234567890abcdef")
	b := AnonymizeRecipient("U1234567890abcdef")
	c := AnonymizeRecipient("Uother")

	if a != b {
		t.Error("AnonymizeRecipient should be deterministic")
	}
	if a == c {
		t.Error("different recipients should produce different hashes")
	}
	if !strings.HasPrefix(a, "recipient:") || len(a) != len("recipient:")+16 {
		t.Errorf("unexpected format %q", a)
	}
	if strings.Contains(a, "U1234567890abcdef") {
		t.Error("raw recipient leaked into anonymized value")
	}

	if attr := Recipient("U1"); attr.Key != KeyRecipient {
		t.Errorf("Recipient key = %q, want %q", attr.Key, KeyRecipient)
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		token    string
		expected string
	}{
		{"", "<empty>"},
		{"abc123", "[token:6 chars]"},
		{"a_very_long_token_string", "[token:24 chars]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := SanitizeToken(tt.token); got != tt.expected {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, got, tt.expected)
			}
		})
	}
}
