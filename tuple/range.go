package tuple

import "bytes"

// KeyRange is a byte range [Begin, End) over packed keys.
type KeyRange struct {
	Begin []byte
	End   []byte
}

// Range returns the range holding every key that packs a tuple starting with
// prefix. Keys that merely share a byte prefix with a shorter element (e.g.
// "ab" for prefix "a") fall outside: the prefix's own string terminator sorts
// before any continuation.
func Range(prefix Tuple) (KeyRange, error) {
	p, err := Pack(prefix)
	if err != nil {
		return KeyRange{}, err
	}
	if p.Incomplete() {
		return KeyRange{}, &ValidationError{
			Msg: "cannot compute the range of a tuple with an incomplete versionstamp",
			Err: ErrIncompleteVersionstamp,
		}
	}
	return RangeOf(p.Bytes), nil
}

// RangeOf returns the range of keys extending an already packed prefix.
func RangeOf(packed []byte) KeyRange {
	n := len(packed)
	begin := make([]byte, n+1)
	copy(begin, packed)
	begin[n] = 0x00

	end := make([]byte, n+1)
	copy(end, packed)
	end[n] = 0xFF

	return KeyRange{Begin: begin, End: end}
}

// Contains reports whether Begin <= key < End.
func (r KeyRange) Contains(key []byte) bool {
	return bytes.Compare(key, r.Begin) >= 0 && bytes.Compare(key, r.End) < 0
}
