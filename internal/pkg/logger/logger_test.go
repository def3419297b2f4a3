package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func newBufferedLogger(level string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := New(Config{
		Level:       level,
		Format:      "json",
		Output:      buf,
		ServiceName: "linewall-test",
	})
	return log, buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log output, got none")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("failed to decode log line %q: %v", line, err)
	}
	return m
}

func TestJSONOutput(t *testing.T) {
	log, buf := newBufferedLogger("info")
	log.Info("wallpaper rendered", "template_id", "wallpaper_1")

	m := decodeLine(t, buf)
	if m["msg"] != "wallpaper rendered" {
		t.Errorf("expected msg field, got %v", m["msg"])
	}
	if m["template_id"] != "wallpaper_1" {
		t.Errorf("expected template_id attr, got %v", m["template_id"])
	}
	if m["service"] != "linewall-test" {
		t.Errorf("expected service attr, got %v", m["service"])
	}
}

func TestLevelFiltering(t *testing.T) {
	log, buf := newBufferedLogger("warn")

	log.Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("info log should be filtered at warn level, got %q", buf.String())
	}

	log.Warn("should appear")
	if buf.Len() == 0 {
		t.Error("warn log should pass at warn level")
	}
}

func TestTextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Config{Level: "info", Format: "text", Output: buf})

	log.Info("delivery queued")
	if !strings.Contains(buf.String(), "delivery queued") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestWithHelpers(t *testing.T) {
	log, buf := newBufferedLogger("info")

	log.WithComponent("pipeline").
		WithRequestID("req-1").
		WithDeliveryID("del-1").
		Info("stage complete")

	m := decodeLine(t, buf)
	if m["component"] != "pipeline" {
		t.Errorf("expected component attr, got %v", m["component"])
	}
	if m["request_id"] != "req-1" {
		t.Errorf("expected request_id attr, got %v", m["request_id"])
	}
	if m["delivery_id"] != "del-1" {
		t.Errorf("expected delivery_id attr, got %v", m["delivery_id"])
	}
}

func TestWithError(t *testing.T) {
	log, buf := newBufferedLogger("info")

	log.WithError(fmt.Errorf("push rejected")).Error("delivery failed")

	m := decodeLine(t, buf)
	if m["error"] != "push rejected" {
		t.Errorf("expected error attr, got %v", m["error"])
	}

	// nil error must be a no-op wrapper
	if log.WithError(nil) != log {
		t.Error("WithError(nil) should return the same logger")
	}
}

func TestFromContext(t *testing.T) {
	log, buf := newBufferedLogger("info")

	ctx := ContextWithRequestID(context.Background(), "req-42")
	ctx = ContextWithDeliveryID(ctx, "del-42")

	log.FromContext(ctx).Info("looked up template")

	m := decodeLine(t, buf)
	if m["request_id"] != "req-42" {
		t.Errorf("expected request_id from context, got %v", m["request_id"])
	}
	if m["delivery_id"] != "del-42" {
		t.Errorf("expected delivery_id from context, got %v", m["delivery_id"])
	}
}

func TestLogError(t *testing.T) {
	log, buf := newBufferedLogger("info")

	log.LogError(context.Background(), "upload failed", fmt.Errorf("bucket unreachable"))

	m := decodeLine(t, buf)
	if m["error"] != "bucket unreachable" {
		t.Errorf("expected error attr, got %v", m["error"])
	}
	if _, ok := m["source"]; !ok {
		t.Error("expected source attr with caller info")
	}

	// nil error should produce no output
	buf.Reset()
	log.LogError(context.Background(), "noop", nil)
	if buf.Len() != 0 {
		t.Errorf("LogError(nil) should not log, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"WARN", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"bogus", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in).String(); got != tt.want {
				t.Errorf("parseLevel(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
