package zap

import (
	"errors"
	"testing"

	"github.com/unkn0wn-root/tuplekv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldsAndWith(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := ZapLogger{L: zap.New(core)}.With(tuplekv.Fields{"ns": "users"})

	l.Warn("commit failed", tuplekv.Fields{"version": uint64(7), "err": errors.New("boom")})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["ns"] != "users" || ctx["version"] != uint64(7) || ctx["err"] != "boom" {
		t.Fatalf("context = %v", ctx)
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("level = %v", entries[0].Level)
	}
}
