package tuplekv

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/tuplekv/codec"
	pr "github.com/unkn0wn-root/tuplekv/provider"
	"github.com/unkn0wn-root/tuplekv/tuple"
	vs "github.com/unkn0wn-root/tuplekv/versionsource"
)

// SetCostFunc sizes a stored record for cost-aware providers (Ristretto).
type SetCostFunc func(storageKey string, record []byte) int64

// Store is the typed tuple-keyed API. V is the caller's value type.
type Store[V any] interface {
	Close(context.Context) error

	// Get reads a complete key. A corrupt or undecodable record is deleted
	// and reported as a miss.
	Get(ctx context.Context, key tuple.Tuple) (v V, ok bool, err error)
	// Set writes one value in its own commit. ttl 0 uses DefaultTTL.
	Set(ctx context.Context, key tuple.Tuple, value V, ttl time.Duration) error
	Delete(ctx context.Context, key tuple.Tuple) error
	// SetVersionstamped writes under a key holding exactly one incomplete
	// versionstamp and returns the versionstamp the key was resolved to.
	SetVersionstamped(ctx context.Context, key tuple.Tuple, value V, ttl time.Duration) (tuple.Versionstamp, error)

	// GetRange returns entries whose key starts with prefix, in key order.
	// limit <= 0 means no limit. Needs a provider.Scanner.
	GetRange(ctx context.Context, prefix tuple.Tuple, limit int) ([]KV[V], error)

	// Batches
	NewBatch() *Batch[V]
	Commit(ctx context.Context, b *Batch[V]) (CommitResult, error)
	// CommitFrame applies a batch serialized with Batch.MarshalBinary.
	CommitFrame(ctx context.Context, frame []byte, ttl time.Duration) (CommitResult, error)
}

// KV is one GetRange result. Version is the commit version the value was
// written at.
type KV[V any] struct {
	Key     tuple.Tuple
	Value   V
	Version uint64
}

// CommitResult describes an applied commit. Stamps holds the resolved
// versionstamp of each versionstamped mutation, in batch order.
type CommitResult struct {
	Version uint64
	Stamps  []tuple.Versionstamp
}

// Options configure a Store.
// Namespace, Provider and Codec are required; others have defaults.
type Options[V any] struct {
	// Required
	Namespace string // becomes the first element of every stored key
	Provider  pr.Provider
	Codec     c.Codec[V]

	Logger         Logger        // if nil, NopLogger is used
	Hooks          Hooks         // if nil, NopHooks is used
	Versions       vs.Source     // nil => versionsource.Local starting at 0
	DefaultTTL     time.Duration // 0 => no expiry
	ComputeSetCost SetCostFunc   // default 1
}

func New[V any](opts Options[V]) (Store[V], error) {
	return newStore[V](opts)
}
