// Package subspace scopes tuple keys under a fixed byte prefix, so several
// logical keyspaces can share one sorted store without colliding.
package subspace

import (
	"bytes"
	"errors"

	"github.com/unkn0wn-root/tuplekv/tuple"
)

var ErrNotInSubspace = errors.New("subspace: key is not in subspace")

// Subspace is an immutable key prefix.
type Subspace struct {
	prefix []byte
}

// Sub returns the subspace whose prefix is the packed form of t.
func Sub(t tuple.Tuple) (Subspace, error) {
	b, err := t.Pack()
	if err != nil {
		return Subspace{}, err
	}
	return Subspace{prefix: b}, nil
}

// FromBytes returns the subspace with a raw prefix. b is copied.
func FromBytes(b []byte) Subspace {
	return Subspace{prefix: append([]byte{}, b...)}
}

// Bytes returns a copy of the prefix.
func (s Subspace) Bytes() []byte { return append([]byte{}, s.prefix...) }

// Sub returns the child subspace s + t.
func (s Subspace) Sub(t tuple.Tuple) (Subspace, error) {
	b, err := t.Pack()
	if err != nil {
		return Subspace{}, err
	}
	return Subspace{prefix: s.join(b)}, nil
}

// Pack packs t under the prefix. Placeholder offsets are shifted so they
// index into the returned bytes.
func (s Subspace) Pack(t tuple.Tuple) (tuple.Packed, error) {
	p, err := tuple.Pack(t)
	if err != nil {
		return tuple.Packed{}, err
	}
	out := tuple.Packed{Bytes: s.join(p.Bytes)}
	if p.Stamp != nil {
		st := *p.Stamp
		st.Offset += len(s.prefix)
		if st.UserVersionOffset >= 0 {
			st.UserVersionOffset += len(s.prefix)
		}
		out.Stamp = &st
	}
	return out, nil
}

// Key packs a complete tuple under the prefix.
func (s Subspace) Key(t tuple.Tuple) ([]byte, error) {
	b, err := t.Pack()
	if err != nil {
		return nil, err
	}
	return s.join(b), nil
}

// Unpack strips the prefix from key and decodes the rest.
func (s Subspace) Unpack(key []byte, opts ...tuple.UnpackOption) (tuple.Tuple, error) {
	if !s.Contains(key) {
		return nil, ErrNotInSubspace
	}
	return tuple.Unpack(key[len(s.prefix):], opts...)
}

// Contains reports whether key starts with the prefix.
func (s Subspace) Contains(key []byte) bool { return bytes.HasPrefix(key, s.prefix) }

// Range returns the key range of every tuple in s that starts with t.
func (s Subspace) Range(t tuple.Tuple) (tuple.KeyRange, error) {
	b, err := t.Pack()
	if err != nil {
		return tuple.KeyRange{}, err
	}
	return tuple.RangeOf(s.join(b)), nil
}

func (s Subspace) join(b []byte) []byte {
	out := make([]byte, 0, len(s.prefix)+len(b))
	out = append(out, s.prefix...)
	return append(out, b...)
}
