package events

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"quotehub_backend/platform/logger"

	"github.com/google/uuid"
)

func capturingLogger() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &logger.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}, &buf
}

func TestAuditLoggerStatusChangeCarriesReason(t *testing.T) {
	log, buf := capturingLogger()
	audit := NewAuditLogger(log)

	event := QuoteStatusChanged{
		BaseEvent:   NewBaseEvent(),
		QuoteID:     uuid.New(),
		QuoteNumber: "QUO-2026-0001",
		OldStatus:   "Approved",
		NewStatus:   "Lost",
		ActorID:     uuid.New(),
		Reason:      "competitor undercut",
	}
	if err := audit.Handle(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"reason":"competitor undercut"`) {
		t.Fatalf("expected the reason in the audit line, got %s", out)
	}

	buf.Reset()
	event.Reason = ""
	if err := audit.Handle(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if strings.Contains(buf.String(), `"reason"`) {
		t.Fatalf("expected no reason field when none was given, got %s", buf.String())
	}
}
