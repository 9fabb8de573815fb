package tuplekv

import (
	"time"

	"github.com/unkn0wn-root/tuplekv/internal/wire"
	"github.com/unkn0wn-root/tuplekv/tuple"
)

// Batch collects mutations for one commit. Values are encoded when added,
// so a codec failure surfaces at the call site, not at Commit.
// A Batch is not safe for concurrent use.
type Batch[V any] struct {
	s    *store[V]
	muts []wire.Mutation
	// TTL for every value written by the batch; 0 uses the store default,
	// negative disables expiry.
	TTL time.Duration
}

func (s *store[V]) NewBatch() *Batch[V] { return &Batch[V]{s: s} }

// Len reports the number of queued mutations.
func (b *Batch[V]) Len() int { return len(b.muts) }

// Reset drops queued mutations so the batch can be reused.
func (b *Batch[V]) Reset() { b.muts = b.muts[:0] }

// Set queues a write under a complete key.
func (b *Batch[V]) Set(key tuple.Tuple, value V) error {
	k, err := b.s.sub.Key(key)
	if err != nil {
		return err
	}
	payload, err := b.s.codec.Encode(value)
	if err != nil {
		return err
	}
	return b.add(wire.Mutation{
		Op:                wire.OpSet,
		Key:               k,
		StampOffset:       wire.NoOffset,
		UserVersionOffset: wire.NoOffset,
		Value:             payload,
	})
}

// Delete queues removal of a complete key.
func (b *Batch[V]) Delete(key tuple.Tuple) error {
	k, err := b.s.sub.Key(key)
	if err != nil {
		return err
	}
	return b.add(wire.Mutation{
		Op:                wire.OpDelete,
		Key:               k,
		StampOffset:       wire.NoOffset,
		UserVersionOffset: wire.NoOffset,
	})
}

// SetVersionstamped queues a write under a key with one incomplete
// versionstamp. Commit fills it; a missing user version becomes the
// mutation's index in the batch.
func (b *Batch[V]) SetVersionstamped(key tuple.Tuple, value V) error {
	p, err := b.s.sub.Pack(key)
	if err != nil {
		return err
	}
	if !p.Incomplete() {
		return ErrNoVersionstamp
	}
	payload, err := b.s.codec.Encode(value)
	if err != nil {
		return err
	}
	return b.add(wire.Mutation{
		Op:                wire.OpSetVersionstampedKey,
		Key:               p.Bytes,
		StampOffset:       p.Stamp.Offset,
		UserVersionOffset: p.Stamp.UserVersionOffset,
		Value:             payload,
	})
}

func (b *Batch[V]) add(m wire.Mutation) error {
	if len(b.muts) >= maxBatchSize {
		return ErrBatchTooLarge
	}
	b.muts = append(b.muts, m)
	return nil
}

// MarshalBinary serializes the queued mutations for Store.CommitFrame.
func (b *Batch[V]) MarshalBinary() ([]byte, error) {
	return wire.EncodeMutations(b.muts)
}
