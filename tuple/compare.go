package tuple

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"math"
)

// Compare orders tuples the way their packed forms sort: element by element,
// a proper prefix first. Elements of different kinds order by type code;
// integers numerically, floats by IEEE-754 total order, byte strings and
// strings lexicographically, nested tuples recursively.
func Compare(a, b Tuple) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareElements(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareElements(a, b Element) int {
	a, b = normalize(a), normalize(b)
	if c := cmp.Compare(rank(a), rank(b)); c != 0 {
		return c
	}
	switch x := a.(type) {
	case Int:
		return cmp.Compare(x, b.(Int))
	case Bytes:
		return bytes.Compare(x, b.(Bytes))
	case String:
		return cmp.Compare(x, b.(String))
	case Tuple:
		return Compare(x, b.(Tuple))
	case Float:
		return cmp.Compare(floatKey(x), floatKey(b.(Float)))
	case Double:
		return cmp.Compare(doubleKey(x), doubleKey(b.(Double)))
	case UUID:
		y := b.(UUID)
		return bytes.Compare(x[:], y[:])
	case Versionstamp, IncompleteVersionstamp:
		return bytes.Compare(stampBytes(a), stampBytes(b))
	}
	return 0
}

func normalize(el Element) Element {
	if i, ok := el.(Int); ok && (i > MaxSafeInt || i < -MaxSafeInt) {
		return Double{Value: float64(i)}
	}
	return el
}

// rank is the type code an element sorts by. All integers share one rank.
func rank(el Element) int {
	switch v := el.(type) {
	case Null:
		return int(nullCode)
	case Bytes:
		return int(bytesCode)
	case String:
		return int(stringCode)
	case Tuple:
		return int(nestedCode)
	case Int:
		return int(intZeroCode)
	case Float:
		return int(floatCode)
	case Double:
		return int(doubleCode)
	case Bool:
		if v {
			return int(trueCode)
		}
		return int(falseCode)
	case UUID:
		return int(uuidCode)
	case Versionstamp, IncompleteVersionstamp:
		return int(versionstampCode)
	}
	return -1
}

func floatKey(f Float) uint32 {
	var b [4]byte
	if len(f.Raw) == len(b) {
		copy(b[:], f.Raw)
	} else {
		binary.BigEndian.PutUint32(b[:], math.Float32bits(f.Value))
	}
	orderFloat(b[:])
	return binary.BigEndian.Uint32(b[:])
}

func doubleKey(d Double) uint64 {
	var b [8]byte
	if len(d.Raw) == len(b) {
		copy(b[:], d.Raw)
	} else {
		binary.BigEndian.PutUint64(b[:], math.Float64bits(d.Value))
	}
	orderFloat(b[:])
	return binary.BigEndian.Uint64(b[:])
}

// stampBytes is the payload a versionstamp packs to; placeholders read as
// zero transaction versions.
func stampBytes(el Element) []byte {
	switch v := el.(type) {
	case Versionstamp:
		return v.Bytes()
	case IncompleteVersionstamp:
		b := make([]byte, versionstampLen)
		binary.BigEndian.PutUint16(b[transactionVersionLen:], v.UserVersion)
		return b
	}
	return nil
}
