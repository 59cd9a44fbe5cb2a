package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	cache "github.com/NextSpark-js/nextspark-sub008"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	HitEvery      uint64
	MissEvery     uint64
	SelfHealEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr      atomic.Uint64
	missCtr     atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ cache.Hooks = (*Hooks)(nil)

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

func (h *Hooks) Hit(tier string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("cache.hit", "tier", tier)
}

func (h *Hooks) Miss() {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("cache.miss")
}

func (h *Hooks) RemoteError(op string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("cache.remote_error",
		"op", op,
		"err", err)
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("cache.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) NearExpirySkip(key string) {
	if h.l == nil {
		return
	}
	h.l.Debug("cache.near_expiry_skip",
		"key", h.redact(key))
}

func (h *Hooks) Evicted(key string) {
	if h.l == nil {
		return
	}
	h.l.Debug("cache.evicted",
		"key", h.redact(key))
}

func (h *Hooks) TagInvalidated(tag string, localN, remoteN int) {
	if h.l == nil {
		return
	}
	h.l.Info("cache.tag_invalidated",
		"tag", tag,
		"local", localN,
		"remote", remoteN)
}
