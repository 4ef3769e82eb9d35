package scheduler

import (
	"testing"
	"time"
)

func TestQuoteExpirySweepPayloadRoundTrip(t *testing.T) {
	requested := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	task, err := NewQuoteExpirySweepTask(QuoteExpirySweepPayload{RequestedAt: requested})
	if err != nil {
		t.Fatalf("NewQuoteExpirySweepTask: %v", err)
	}
	if task.Type() != TaskQuoteExpirySweep {
		t.Fatalf("task type = %q, want %q", task.Type(), TaskQuoteExpirySweep)
	}

	payload, err := ParseQuoteExpirySweepPayload(task)
	if err != nil {
		t.Fatalf("ParseQuoteExpirySweepPayload: %v", err)
	}
	if !payload.RequestedAt.Equal(requested) {
		t.Fatalf("RequestedAt = %v, want %v", payload.RequestedAt, requested)
	}
}

func TestRedisClientOpt(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@redis.internal:6380/2", false)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.Addr != "redis.internal:6380" {
		t.Fatalf("addr = %q", opt.Addr)
	}
	if opt.Password != "secret" {
		t.Fatalf("password = %q", opt.Password)
	}
	if opt.DB != 2 {
		t.Fatalf("db = %d", opt.DB)
	}
	if opt.TLSConfig != nil {
		t.Fatalf("expected no tls config for redis scheme")
	}
}

func TestRedisClientOptTLSInsecure(t *testing.T) {
	opt, err := redisClientOpt("rediss://redis.internal:6380", true)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.TLSConfig == nil {
		t.Fatalf("expected tls config for rediss scheme")
	}
	if !opt.TLSConfig.InsecureSkipVerify {
		t.Fatalf("expected InsecureSkipVerify")
	}

	if _, err := redisClientOpt("not a url", false); err == nil {
		t.Fatalf("expected parse error")
	}
}
