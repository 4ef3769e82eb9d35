package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithContextAddsRequestScopedFields(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "user-1")
	l.WithContext(ctx).Info("hello")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-1"`) {
		t.Fatalf("expected the request id in the log line, got %s", out)
	}
	if !strings.Contains(out, `"user_id":"user-1"`) {
		t.Fatalf("expected the user id in the log line, got %s", out)
	}
}

func TestWithContextWithoutValues(t *testing.T) {
	l := New("test")
	if got := l.WithContext(nil); got != l {
		t.Fatalf("expected the same logger for a nil context")
	}
	if got := l.WithContext(context.Background()); got != l {
		t.Fatalf("expected the same logger when no values are set")
	}
}
