package tuplekv

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/tuplekv/internal/util"
)

var (
	// ErrRangeUnsupported is returned by GetRange when the provider cannot
	// enumerate keys in order (it does not implement provider.Scanner).
	ErrRangeUnsupported = errors.New("tuplekv: provider does not support range reads")
	ErrBatchTooLarge    = errors.New("tuplekv: batch exceeds 65536 mutations")
	ErrKeyOutsideStore  = errors.New("tuplekv: key outside store namespace")
	ErrNoVersionstamp   = errors.New("tuplekv: key has no incomplete versionstamp")
	ErrClosed           = errors.New("tuplekv: store closed")
)

// CommitError reports a commit that stopped part way. Mutations before
// Index were applied at Version; the rest were not. Providers have no
// transactions, so a partial commit is not rolled back.
type CommitError struct {
	Version uint64
	Index   int
	Key     []byte
	Err     error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("tuplekv: commit %d failed at mutation %d (key %s): %v",
		e.Version, e.Index, util.Printable(e.Key), e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// VersionError wraps a failure of the version source. Nothing was written.
type VersionError struct {
	Err error
}

func (e *VersionError) Error() string { return "tuplekv: reserve commit version: " + e.Err.Error() }

func (e *VersionError) Unwrap() error { return e.Err }
