package tuple

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
)

// Placeholder locates the reserved bytes of an IncompleteVersionstamp inside
// a packed tuple.
type Placeholder struct {
	// Offset is the position of the 10 reserved transaction version bytes.
	Offset int
	// UserVersionOffset is the position of the 2 reserved user version bytes,
	// or -1 when the user version was given at pack time.
	UserVersionOffset int
}

// Packed is the result of Pack. Stamp is nil unless the tuple held an
// IncompleteVersionstamp.
type Packed struct {
	Bytes []byte
	Stamp *Placeholder
}

// Incomplete reports whether p still carries an unresolved versionstamp.
func (p Packed) Incomplete() bool { return p.Stamp != nil }

// Unpack decodes p, returning IncompleteVersionstamp for its placeholder.
func (p Packed) Unpack(opts ...UnpackOption) (Tuple, error) {
	return unpack(p.Bytes, p.Stamp, opts)
}

// Pack encodes t. All elements share one buffer and one placeholder record,
// so a second IncompleteVersionstamp anywhere in t, nested tuples included,
// is rejected.
func Pack(t Tuple) (Packed, error) {
	e := encoder{buf: newBuffer(16 * len(t))}
	for _, el := range t {
		if err := e.encode(el, false); err != nil {
			return Packed{}, err
		}
	}
	return Packed{Bytes: e.buf.finalize(), Stamp: e.stamp}, nil
}

// Pack encodes t as a plain key. It fails on an IncompleteVersionstamp.
func (t Tuple) Pack() ([]byte, error) {
	p, err := Pack(t)
	if err != nil {
		return nil, err
	}
	if p.Incomplete() {
		return nil, &ValidationError{
			Msg: "tuple with an incomplete versionstamp needs Pack and a commit-time fill",
			Err: ErrIncompleteVersionstamp,
		}
	}
	return p.Bytes, nil
}

type encoder struct {
	buf   *buffer
	stamp *Placeholder
}

func (e *encoder) encode(el Element, nested bool) error {
	switch v := el.(type) {
	case nil:
		return &ValidationError{Msg: "nil element", Err: ErrNilElement}
	case Null:
		e.buf.appendByte(nullCode)
		if nested {
			e.buf.appendByte(escapeByte)
		}
	case Bool:
		if v {
			e.buf.appendByte(trueCode)
		} else {
			e.buf.appendByte(falseCode)
		}
	case Bytes:
		e.buf.appendByte(bytesCode)
		e.buf.appendEscaped(v)
		e.buf.appendByte(0x00)
	case String:
		e.buf.appendByte(stringCode)
		e.buf.appendEscapedString(string(v))
		e.buf.appendByte(0x00)
	case Tuple:
		e.buf.appendByte(nestedCode)
		for _, child := range v {
			if err := e.encode(child, true); err != nil {
				return err
			}
		}
		e.buf.appendByte(0x00)
	case Int:
		return e.encodeInt(int64(v))
	case Float:
		return e.encodeFloat(v)
	case Double:
		return e.encodeDouble(v)
	case UUID:
		e.buf.appendByte(uuidCode)
		e.buf.appendBytes(v[:])
	case Versionstamp:
		e.buf.appendByte(versionstampCode)
		e.buf.appendBytes(v.TransactionVersion[:])
		var uv [userVersionLen]byte
		binary.BigEndian.PutUint16(uv[:], v.UserVersion)
		e.buf.appendBytes(uv[:])
	case IncompleteVersionstamp:
		return e.encodeIncomplete(v)
	default:
		return &ValidationError{
			Msg: fmt.Sprintf("packed items must be one of the supported basic types or nested sequences, got %T", el),
			Err: ErrUnsupportedType,
		}
	}
	return nil
}

func (e *encoder) encodeInt(i int64) error {
	if i == 0 {
		e.buf.appendByte(intZeroCode)
		return nil
	}
	if i > MaxSafeInt || i < -MaxSafeInt {
		return e.encodeDouble(Double{Value: float64(i)})
	}

	mag := uint64(i)
	if i < 0 {
		mag = uint64(-i)
	}
	n := (bits.Len64(mag) + 7) / 8

	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], mag)
	body := scratch[8-n:]

	if i > 0 {
		e.buf.appendByte(intZeroCode + byte(n))
	} else {
		e.buf.appendByte(intZeroCode - byte(n))
		for j := range body {
			body[j] = ^body[j]
		}
	}
	e.buf.appendBytes(body)
	return nil
}

func (e *encoder) encodeFloat(f Float) error {
	var b [4]byte
	if f.Raw != nil {
		if len(f.Raw) != len(b) {
			return &ValidationError{Msg: "float raw bytes must be 4 bytes", Err: ErrPayloadLength}
		}
		copy(b[:], f.Raw)
	} else {
		binary.BigEndian.PutUint32(b[:], math.Float32bits(f.Value))
	}
	orderFloat(b[:])
	e.buf.appendByte(floatCode)
	e.buf.appendBytes(b[:])
	return nil
}

func (e *encoder) encodeDouble(d Double) error {
	var b [8]byte
	if d.Raw != nil {
		if len(d.Raw) != len(b) {
			return &ValidationError{Msg: "double raw bytes must be 8 bytes", Err: ErrPayloadLength}
		}
		copy(b[:], d.Raw)
	} else {
		binary.BigEndian.PutUint64(b[:], math.Float64bits(d.Value))
	}
	orderFloat(b[:])
	e.buf.appendByte(doubleCode)
	e.buf.appendBytes(b[:])
	return nil
}

func (e *encoder) encodeIncomplete(v IncompleteVersionstamp) error {
	if e.stamp != nil {
		return &ValidationError{
			Msg: "a tuple may hold at most one incomplete versionstamp",
			Err: ErrMultipleIncomplete,
		}
	}
	e.buf.appendByte(versionstampCode)
	p := &Placeholder{
		Offset:            e.buf.reserve(transactionVersionLen),
		UserVersionOffset: -1,
	}
	if v.HasUserVersion {
		var uv [userVersionLen]byte
		binary.BigEndian.PutUint16(uv[:], v.UserVersion)
		e.buf.appendBytes(uv[:])
	} else {
		p.UserVersionOffset = e.buf.reserve(userVersionLen)
	}
	e.stamp = p
	return nil
}

// orderFloat maps big-endian IEEE-754 bytes onto an unsigned byte order:
// negatives are complemented, non-negatives get the sign bit set.
func orderFloat(b []byte) {
	if b[0]&0x80 != 0 {
		for i := range b {
			b[i] = ^b[i]
		}
		return
	}
	b[0] ^= 0x80
}

// unorderFloat inverts orderFloat.
func unorderFloat(b []byte) {
	if b[0]&0x80 != 0 {
		b[0] ^= 0x80
		return
	}
	for i := range b {
		b[i] = ^b[i]
	}
}
