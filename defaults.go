package tuplekv

import "time"

// a commit's user versions are mutation indexes, so a batch fits in u16
const maxBatchSize = 1 << 16

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func defaultSetCost(string, []byte) int64 { return 1 }

// ttlOr picks the per-call ttl, then the store default. Negative means none.
func ttlOr(ttl, def time.Duration) time.Duration {
	if ttl == 0 {
		return def
	}
	if ttl < 0 {
		return 0
	}
	return ttl
}
