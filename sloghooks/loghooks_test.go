package sloghooks

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
)

type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) count(msg string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Message == msg {
			n++
		}
	}
	return n
}

func (h *captureHandler) lastAttr(t *testing.T, msg, key string) string {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.records) - 1; i >= 0; i-- {
		if h.records[i].Message != msg {
			continue
		}
		var got string
		found := false
		h.records[i].Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				got = a.Value.String()
				found = true
				return false
			}
			return true
		})
		if !found {
			t.Fatalf("record %q has no attr %q", msg, key)
		}
		return got
	}
	t.Fatalf("no record %q", msg)
	return ""
}

func TestSamplesHits(t *testing.T) {
	sink := &captureHandler{}
	h := New(slog.New(sink), Options{HitEvery: 10})

	for i := 0; i < 30; i++ {
		h.Hit("local")
	}
	if got := sink.count("cache.hit"); got != 3 {
		t.Fatalf("logged %d hits, want 3", got)
	}
}

func TestLogsEveryRemoteError(t *testing.T) {
	sink := &captureHandler{}
	h := New(slog.New(sink), Options{})

	for i := 0; i < 3; i++ {
		h.RemoteError("get", errors.New("down"))
	}
	if got := sink.count("cache.remote_error"); got != 3 {
		t.Fatalf("logged %d errors, want 3", got)
	}
	if op := sink.lastAttr(t, "cache.remote_error", "op"); op != "get" {
		t.Fatalf("op = %q, want %q", op, "get")
	}
}

func TestRedactsKeysByDefault(t *testing.T) {
	sink := &captureHandler{}
	h := New(slog.New(sink), Options{})

	h.SelfHeal("app:user:42", "decode")

	key := sink.lastAttr(t, "cache.self_heal", "key")
	if key == "app:user:42" {
		t.Fatal("raw key leaked into the log")
	}
	if len(key) != 16 {
		t.Fatalf("redacted key %q, want 16 hex chars", key)
	}
}

func TestCustomRedactor(t *testing.T) {
	sink := &captureHandler{}
	h := New(slog.New(sink), Options{Redact: func(string) string { return "<key>" }})

	h.Evicted("app:user:42")

	if key := sink.lastAttr(t, "cache.evicted", "key"); key != "<key>" {
		t.Fatalf("key = %q, want %q", key, "<key>")
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	h := New(nil, Options{})
	h.Hit("remote")
	h.Miss()
	h.RemoteError("set", errors.New("x"))
	h.SelfHeal("k", "envelope")
	h.NearExpirySkip("k")
	h.Evicted("k")
	h.TagInvalidated("news", 1, 2)
}
