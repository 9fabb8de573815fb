// Package sloghooks logs tuplekv hook events to a *slog.Logger, with
// sampling for the noisy ones and redacted keys.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/tuplekv"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery uint64
	BadKeyEvery   uint64
	// Optional key redactor. Defaults to SHA-256 prefix. Keys are raw packed
	// tuples; internal/util.Printable-style escaping is up to the redactor.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr atomic.Uint64
	badKeyCtr   atomic.Uint64
}

var _ tuplekv.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("tuplekv.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("tuplekv.provider_set_rejected",
		"key", h.redact(storageKey))
}

func (h *Hooks) VersionSourceError(err error) {
	if h.l == nil {
		return
	}
	h.l.Error("tuplekv.version_source_error", "err", err)
}

func (h *Hooks) UndecodableKey(storageKey string, err error) {
	if h.l == nil || !sample(h.opts.BadKeyEvery, &h.badKeyCtr) {
		return
	}
	h.l.Warn("tuplekv.undecodable_key",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) CommitFailed(version uint64, applied, total int, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("tuplekv.commit_failed",
		"version", version,
		"applied", applied,
		"total", total,
		"err", err)
}
