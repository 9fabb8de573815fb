// Package versionsource hands out commit versions. A commit version is the
// monotonically increasing part of every versionstamp the store resolves.
package versionsource

import (
	"context"
	"encoding/binary"
)

// Source abstracts where commit versions come from.
// Use Local for a single process, or Redis to share one counter across
// processes and restarts.
type Source interface {
	// Next reserves and returns a new commit version, greater than any
	// returned before.
	Next(ctx context.Context) (uint64, error)
	// Current returns the last reserved version; nothing reserved => 0.
	Current(ctx context.Context) (uint64, error)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}

// Stamp builds a 10-byte transaction version: the commit version (u64 be)
// followed by the batch order (u16 be) within that commit.
func Stamp(commitVersion uint64, batch uint16) [10]byte {
	var tr [10]byte
	binary.BigEndian.PutUint64(tr[:8], commitVersion)
	binary.BigEndian.PutUint16(tr[8:], batch)
	return tr
}

// CommitVersion is the inverse of Stamp for the commit version part.
func CommitVersion(tr [10]byte) uint64 {
	return binary.BigEndian.Uint64(tr[:8])
}
