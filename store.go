package tuplekv

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	c "github.com/unkn0wn-root/tuplekv/codec"
	"github.com/unkn0wn-root/tuplekv/internal/util"
	"github.com/unkn0wn-root/tuplekv/internal/wire"
	pr "github.com/unkn0wn-root/tuplekv/provider"
	"github.com/unkn0wn-root/tuplekv/subspace"
	"github.com/unkn0wn-root/tuplekv/tuple"
	vs "github.com/unkn0wn-root/tuplekv/versionsource"
)

const stampLen = 12

type store[V any] struct {
	ns       string
	sub      subspace.Subspace
	provider pr.Provider
	scanner  pr.Scanner // nil => no GetRange
	codec    c.Codec[V]
	log      Logger
	hooks    Hooks
	versions vs.Source

	defaultTTL     time.Duration
	computeSetCost SetCostFunc

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func newStore[V any](opts Options[V]) (*store[V], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("tuplekv: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("tuplekv: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("tuplekv: namespace is required")
	}
	sub, err := subspace.Sub(tuple.Tuple{tuple.String(opts.Namespace)})
	if err != nil {
		return nil, err
	}

	s := &store[V]{
		ns:       opts.Namespace,
		sub:      sub,
		provider: opts.Provider,
		codec:    opts.Codec,
	}
	s.scanner, _ = opts.Provider.(pr.Scanner)

	// defaults
	s.log = coalesce[Logger](opts.Logger, NopLogger{}).With(Fields{"ns": opts.Namespace})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	s.defaultTTL = opts.DefaultTTL
	if opts.ComputeSetCost != nil {
		s.computeSetCost = opts.ComputeSetCost
	} else {
		s.computeSetCost = defaultSetCost
	}
	if opts.Versions != nil {
		s.versions = opts.Versions
	} else {
		s.versions = vs.NewLocal(0)
	}
	return s, nil
}

func (s *store[V]) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		// versions first (best effort)
		if err := s.versions.Close(ctx); err != nil {
			s.log.Warn("version source close failed", Fields{"err": err})
		}
		s.closeErr = s.provider.Close(ctx)
	})
	return s.closeErr
}

func (s *store[V]) Get(ctx context.Context, key tuple.Tuple) (V, bool, error) {
	var zero V
	if s.closed.Load() {
		return zero, false, ErrClosed
	}
	k, err := s.sub.Key(key)
	if err != nil {
		return zero, false, err
	}
	sk := string(k)
	raw, ok, err := s.provider.Get(ctx, sk)
	if err != nil || !ok {
		return zero, false, err
	}
	v, _, ok := s.decodeRecord(ctx, sk, raw)
	return v, ok, nil
}

// decodeRecord unwraps and decodes a stored record, deleting it when either
// step fails.
func (s *store[V]) decodeRecord(ctx context.Context, sk string, raw []byte) (V, uint64, bool) {
	var zero V
	ver, payload, err := wire.DecodeRecord(raw)
	if err != nil {
		s.heal(ctx, sk, "corrupt")
		return zero, 0, false
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		s.heal(ctx, sk, "value_decode")
		return zero, 0, false
	}
	return v, ver, true
}

func (s *store[V]) heal(ctx context.Context, sk, reason string) {
	_ = s.provider.Del(ctx, sk)
	s.hooks.SelfHeal(sk, reason)
	s.log.Debug("deleted unreadable entry", Fields{"key": util.PrintableString(sk), "reason": reason})
}

func (s *store[V]) Set(ctx context.Context, key tuple.Tuple, value V, ttl time.Duration) error {
	b := s.NewBatch()
	b.TTL = ttl
	if err := b.Set(key, value); err != nil {
		return err
	}
	_, err := s.Commit(ctx, b)
	return err
}

func (s *store[V]) Delete(ctx context.Context, key tuple.Tuple) error {
	b := s.NewBatch()
	if err := b.Delete(key); err != nil {
		return err
	}
	_, err := s.Commit(ctx, b)
	return err
}

func (s *store[V]) SetVersionstamped(ctx context.Context, key tuple.Tuple, value V, ttl time.Duration) (tuple.Versionstamp, error) {
	b := s.NewBatch()
	b.TTL = ttl
	if err := b.SetVersionstamped(key, value); err != nil {
		return tuple.Versionstamp{}, err
	}
	res, err := s.Commit(ctx, b)
	if err != nil {
		return tuple.Versionstamp{}, err
	}
	return res.Stamps[0], nil
}

func (s *store[V]) GetRange(ctx context.Context, prefix tuple.Tuple, limit int) ([]KV[V], error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if s.scanner == nil {
		return nil, ErrRangeUnsupported
	}
	r, err := s.sub.Range(prefix)
	if err != nil {
		return nil, err
	}
	items, err := s.scanner.Scan(ctx, string(r.Begin), string(r.End), limit)
	if err != nil {
		return nil, err
	}
	out := make([]KV[V], 0, len(items))
	for _, it := range items {
		key, err := s.sub.Unpack([]byte(it.Key))
		if err != nil {
			s.hooks.UndecodableKey(it.Key, err)
			s.log.Warn("skipping undecodable key", Fields{"key": util.PrintableString(it.Key), "err": err})
			continue
		}
		v, ver, ok := s.decodeRecord(ctx, it.Key, it.Value)
		if !ok {
			continue
		}
		out = append(out, KV[V]{Key: key, Value: v, Version: ver})
	}
	return out, nil
}

func (s *store[V]) Commit(ctx context.Context, b *Batch[V]) (CommitResult, error) {
	if b == nil || len(b.muts) == 0 {
		return CommitResult{}, nil
	}
	if b.s != s {
		return CommitResult{}, fmt.Errorf("%w: batch belongs to another store", ErrKeyOutsideStore)
	}
	return s.apply(ctx, b.muts, b.TTL)
}

func (s *store[V]) CommitFrame(ctx context.Context, frame []byte, ttl time.Duration) (CommitResult, error) {
	muts, err := wire.DecodeMutations(frame)
	if err != nil {
		return CommitResult{}, err
	}
	if len(muts) > maxBatchSize {
		return CommitResult{}, ErrBatchTooLarge
	}
	for i, m := range muts {
		if err := s.checkFrameMutation(m); err != nil {
			return CommitResult{}, fmt.Errorf("mutation %d: %w", i, err)
		}
	}
	if len(muts) == 0 {
		return CommitResult{}, nil
	}
	return s.apply(ctx, muts, ttl)
}

// checkFrameMutation holds a decoded mutation to what Batch would have
// produced: a key in this namespace and a value the codec can read.
func (s *store[V]) checkFrameMutation(m wire.Mutation) error {
	if !s.sub.Contains(m.Key) {
		return ErrKeyOutsideStore
	}
	if m.Op == wire.OpSetVersionstampedKey {
		if err := s.checkFramePlaceholder(m); err != nil {
			return err
		}
	} else if _, err := s.sub.Unpack(m.Key); err != nil {
		return err
	}
	if m.Op == wire.OpDelete {
		return nil
	}
	_, err := s.codec.Decode(m.Value)
	return err
}

// checkFramePlaceholder accepts a versionstamped key only when its stamp
// offset lands on a versionstamp element after the namespace prefix, so the
// fill cannot overwrite the prefix or the inside of another element.
func (s *store[V]) checkFramePlaceholder(m wire.Mutation) error {
	plen := len(s.sub.Bytes())
	if m.StampOffset < plen+1 {
		return ErrKeyOutsideStore
	}
	ph := tuple.Placeholder{Offset: m.StampOffset - plen, UserVersionOffset: wire.NoOffset}
	if m.UserVersionOffset != wire.NoOffset {
		ph.UserVersionOffset = m.UserVersionOffset - plen
	}
	t, err := tuple.Packed{Bytes: m.Key[plen:], Stamp: &ph}.Unpack()
	if err != nil {
		return err
	}
	if !hasIncomplete(t) {
		return fmt.Errorf("%w: stamp offset %d is not a versionstamp", ErrNoVersionstamp, m.StampOffset)
	}
	return nil
}

func hasIncomplete(t tuple.Tuple) bool {
	for _, el := range t {
		switch v := el.(type) {
		case tuple.IncompleteVersionstamp:
			return true
		case tuple.Tuple:
			if hasIncomplete(v) {
				return true
			}
		}
	}
	return false
}

// apply reserves one commit version and writes muts in order. Placeholders
// get the commit's transaction version; a user version left open gets the
// mutation index.
func (s *store[V]) apply(ctx context.Context, muts []wire.Mutation, ttl time.Duration) (CommitResult, error) {
	if s.closed.Load() {
		return CommitResult{}, ErrClosed
	}
	ver, err := s.versions.Next(ctx)
	if err != nil {
		s.hooks.VersionSourceError(err)
		s.log.Error("reserve commit version failed", Fields{"err": err})
		return CommitResult{}, &VersionError{Err: err}
	}
	ttl = ttlOr(ttl, s.defaultTTL)
	tr := vs.Stamp(ver, 0)
	res := CommitResult{Version: ver}

	for i, m := range muts {
		if err := ctx.Err(); err != nil {
			return res, s.commitFailed(ver, i, len(muts), m.Key, err)
		}
		key := m.Key
		if m.Op == wire.OpSetVersionstampedKey {
			key = append([]byte(nil), m.Key...)
			ph := tuple.Placeholder{Offset: m.StampOffset, UserVersionOffset: m.UserVersionOffset}
			if err := ph.Fill(key, tr, uint16(i)); err != nil {
				return res, s.commitFailed(ver, i, len(muts), key, err)
			}
			st, err := tuple.VersionstampFromBytes(key[m.StampOffset : m.StampOffset+stampLen])
			if err != nil {
				return res, s.commitFailed(ver, i, len(muts), key, err)
			}
			res.Stamps = append(res.Stamps, st)
		}

		sk := string(key)
		if m.Op == wire.OpDelete {
			err = s.provider.Del(ctx, sk)
		} else {
			err = s.put(ctx, sk, wire.EncodeRecord(ver, m.Value), ttl)
		}
		if err != nil {
			return res, s.commitFailed(ver, i, len(muts), key, err)
		}
	}
	s.log.Debug("commit applied", Fields{"version": ver, "mutations": len(muts)})
	return res, nil
}

func (s *store[V]) put(ctx context.Context, sk string, record []byte, ttl time.Duration) error {
	ok, err := s.provider.Set(ctx, sk, record, s.computeSetCost(sk, record), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.hooks.ProviderSetRejected(sk)
		s.log.Debug("set rejected by provider (pressure)", Fields{"key": util.PrintableString(sk)})
	}
	return nil
}

func (s *store[V]) commitFailed(ver uint64, i, total int, key []byte, err error) error {
	s.hooks.CommitFailed(ver, i, total, err)
	s.log.Error("commit failed", Fields{
		"version": ver, "applied": i, "total": total,
		"key": util.Printable(key), "err": err,
	})
	return &CommitError{Version: ver, Index: i, Key: key, Err: err}
}
