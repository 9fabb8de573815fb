// Package tuplekv is a typed key-value store whose keys are order-preserving
// tuples. Keys are packed with the tuple encoding, so bytewise key order
// equals tuple order and a prefix tuple selects a contiguous key range.
//
// Components:
//   - tuple: the key encoding (pack, unpack, ranges, versionstamps).
//   - Provider: byte store with TTL (memory, Redis, Ristretto, BigCache).
//     Stores that implement provider.Scanner also serve GetRange.
//   - Codec[V]: (de)serializes V <-> []byte.
//   - versionsource.Source: hands out commit versions (local or Redis).
//
// Keys live under a subspace derived from Options.Namespace:
//
//	("<ns>", <key elements...>)
//
// Every write goes through Commit. A commit reserves one commit version,
// resolves incomplete versionstamps in keys, and stores each value framed
// with the commit version it was written at:
//
//	b := store.NewBatch()
//	_ = b.SetVersionstamped(tuple.Tuple{tuple.String("log"), tuple.IncompleteStamp()}, ev)
//	res, err := store.Commit(ctx, b)
//	// res.Stamps[0] is the versionstamp now in the key
package tuplekv
