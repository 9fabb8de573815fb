package codec

import "github.com/unkn0wn-root/tuplekv/tuple"

// Tuple stores tuple values with the tuple encoding itself. Incomplete
// versionstamps are rejected; they only make sense inside keys.
type Tuple struct{}

var _ Codec[tuple.Tuple] = Tuple{}

func (Tuple) Encode(t tuple.Tuple) ([]byte, error) { return t.Pack() }

func (Tuple) Decode(b []byte) (tuple.Tuple, error) { return tuple.Unpack(b) }
