package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestSamplingAndRedaction(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := New(l, Options{SelfHealEvery: 3})

	secret := "\x02users\x00\x02alice\x00"
	for i := 0; i < 6; i++ {
		h.SelfHeal(secret, "corrupt")
	}
	if n := strings.Count(buf.String(), "tuplekv.self_heal"); n != 2 {
		t.Fatalf("sampled self-heal lines = %d, want 2", n)
	}
	if strings.Contains(buf.String(), "alice") {
		t.Fatalf("key leaked into log: %s", buf.String())
	}

	buf.Reset()
	h.CommitFailed(9, 1, 3, errors.New("boom"))
	out := buf.String()
	if !strings.Contains(out, "tuplekv.commit_failed") || !strings.Contains(out, "version=9") {
		t.Fatalf("commit_failed line = %q", out)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	h := New(nil, Options{})
	h.SelfHeal("k", "corrupt")
	h.ProviderSetRejected("k")
	h.VersionSourceError(errors.New("x"))
	h.UndecodableKey("k", errors.New("x"))
	h.CommitFailed(1, 0, 1, errors.New("x"))
}
