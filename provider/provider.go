// Package provider defines the byte stores tuplekv writes to.
//
// Keys are packed tuples held in Go strings, so they are arbitrary bytes.
// Implementations MUST be byte-for-byte transparent on both keys and values:
// Get returns exactly the []byte previously passed to Set, and a key is never
// re-encoded or truncated at a 0x00 byte.
//
// Range reads need ordered keys. Stores that can enumerate keys in bytewise
// order implement Scanner in addition to Provider; hash caches (Ristretto,
// BigCache) only serve point reads.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs.
// Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL (<= 0 means no expiry). May ignore
	// cost if unsupported. Returns ok=false when the store rejected the write
	// under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Item is one key-value pair returned by Scan.
type Item struct {
	Key   string
	Value []byte
}

// Scanner is implemented by providers that keep keys in bytewise order.
type Scanner interface {
	// Scan returns live items with begin <= key < end in ascending key order.
	// limit <= 0 means no limit.
	Scan(ctx context.Context, begin, end string, limit int) ([]Item, error)
}
