package tuple

import (
	"github.com/google/uuid"
)

// Type codes. Their numeric order is the cross-type sort order.
const (
	nullCode         byte = 0x00
	bytesCode        byte = 0x01
	stringCode       byte = 0x02
	nestedCode       byte = 0x05
	negIntStart      byte = 0x0c
	intZeroCode      byte = 0x14
	posIntEnd        byte = 0x1c
	floatCode        byte = 0x20
	doubleCode       byte = 0x21
	falseCode        byte = 0x26
	trueCode         byte = 0x27
	uuidCode         byte = 0x30
	versionstampCode byte = 0x33
)

const (
	escapeByte byte = 0xFF

	// MaxSafeInt is the largest integer magnitude packed with the integer codes.
	// Larger Int values are packed as Double.
	MaxSafeInt = 1<<53 - 1

	// maxDecodeBits bounds the magnitude accepted when unpacking integers.
	maxDecodeBits = 54

	uuidLen               = 16
	versionstampLen       = 12
	transactionVersionLen = 10
	userVersionLen        = 2
)

// Element is one typed value of a tuple. The set of implementations is closed:
// Null, Bool, Int, Float, Double, Bytes, String, Tuple, UUID, Versionstamp and
// IncompleteVersionstamp.
type Element interface {
	isElement()
}

// Null is the null element.
type Null struct{}

// Bool is a boolean element.
type Bool bool

// Int is an integer element. Magnitudes above MaxSafeInt pack as Double.
type Int int64

// Float is a single-precision element. Raw, when set, holds the exact 4-byte
// big-endian IEEE-754 pattern to pack instead of Value (distinct NaNs).
type Float struct {
	Value float32
	Raw   []byte
}

// Double is a double-precision element. Raw, when set, holds the exact 8-byte
// big-endian IEEE-754 pattern to pack instead of Value.
type Double struct {
	Value float64
	Raw   []byte
}

// Bytes is a raw byte string element.
type Bytes []byte

// String is a UTF-8 text element.
type String string

// Tuple is an ordered sequence of elements. A Tuple inside a Tuple is packed
// as a nested tuple.
type Tuple []Element

// UUID is a 16-byte identifier element.
type UUID uuid.UUID

// Versionstamp is a resolved commit-time value: the 10-byte transaction
// version assigned by the store followed by a 2-byte user version.
type Versionstamp struct {
	TransactionVersion [transactionVersionLen]byte
	UserVersion        uint16
}

// IncompleteVersionstamp is a placeholder for a Versionstamp that is only
// known at commit. At most one may appear in a packed tuple.
type IncompleteVersionstamp struct {
	UserVersion    uint16
	HasUserVersion bool
}

func (Null) isElement()                   {}
func (Bool) isElement()                   {}
func (Int) isElement()                    {}
func (Float) isElement()                  {}
func (Double) isElement()                 {}
func (Bytes) isElement()                  {}
func (String) isElement()                 {}
func (Tuple) isElement()                  {}
func (UUID) isElement()                   {}
func (Versionstamp) isElement()           {}
func (IncompleteVersionstamp) isElement() {}

// UUIDFromBytes validates b as a 16-byte UUID payload.
func UUIDFromBytes(b []byte) (UUID, error) {
	var u UUID
	if len(b) != uuidLen {
		return u, &ValidationError{
			Msg: "uuid payload must be 16 bytes",
			Err: ErrPayloadLength,
		}
	}
	copy(u[:], b)
	return u, nil
}

func (u UUID) String() string { return uuid.UUID(u).String() }
