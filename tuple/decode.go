package tuple

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// UnpackOption tunes Unpack.
type UnpackOption func(*decoder)

// PreserveRaw makes Unpack return Float and Double elements with Raw set to
// their exact IEEE-754 bytes, so packing them again reproduces the input bit
// for bit (NaN payloads included).
func PreserveRaw() UnpackOption {
	return func(d *decoder) { d.preserveRaw = true }
}

// Unpack decodes a packed tuple. Versionstamps always decode as complete; use
// Packed.Unpack to get an IncompleteVersionstamp back for a placeholder.
// Integers above MaxSafeInt (up to 54 bits) decode as Int but pack back as
// Double, so such input does not survive an unpack/pack round trip.
func Unpack(b []byte, opts ...UnpackOption) (Tuple, error) {
	return unpack(b, nil, opts)
}

type decoder struct {
	b           []byte
	pos         int
	stamp       *Placeholder
	preserveRaw bool
}

func unpack(b []byte, stamp *Placeholder, opts []UnpackOption) (Tuple, error) {
	d := &decoder{b: b, stamp: stamp}
	for _, o := range opts {
		o(d)
	}
	t := Tuple{}
	for d.pos < len(d.b) {
		el, err := d.decode()
		if err != nil {
			return nil, err
		}
		t = append(t, el)
	}
	return t, nil
}

func (d *decoder) errorf(at int, cause error, format string, args ...any) error {
	return &DecodeError{Offset: at, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// take returns the next n bytes and advances past them.
func (d *decoder) take(at, n int) ([]byte, error) {
	if len(d.b)-d.pos < n {
		return nil, d.errorf(at, ErrTruncated, "need %d bytes, have %d", n, len(d.b)-d.pos)
	}
	p := d.b[d.pos : d.pos+n]
	d.pos += n
	return p, nil
}

func (d *decoder) decode() (Element, error) {
	at := d.pos
	code := d.b[d.pos]
	d.pos++

	switch {
	case code == nullCode:
		return Null{}, nil
	case code == falseCode:
		return Bool(false), nil
	case code == trueCode:
		return Bool(true), nil
	case code == bytesCode:
		p, err := d.unescape(at)
		if err != nil {
			return nil, err
		}
		return Bytes(p), nil
	case code == stringCode:
		p, err := d.unescape(at)
		if err != nil {
			return nil, err
		}
		return String(p), nil
	case code == nestedCode:
		return d.decodeNested(at)
	case code >= negIntStart && code <= posIntEnd:
		return d.decodeInt(at, code)
	case code == floatCode:
		p, err := d.take(at, 4)
		if err != nil {
			return nil, err
		}
		raw := append([]byte(nil), p...)
		unorderFloat(raw)
		f := Float{Value: math.Float32frombits(binary.BigEndian.Uint32(raw))}
		if d.preserveRaw {
			f.Raw = raw
		}
		return f, nil
	case code == doubleCode:
		p, err := d.take(at, 8)
		if err != nil {
			return nil, err
		}
		raw := append([]byte(nil), p...)
		unorderFloat(raw)
		f := Double{Value: math.Float64frombits(binary.BigEndian.Uint64(raw))}
		if d.preserveRaw {
			f.Raw = raw
		}
		return f, nil
	case code == uuidCode:
		p, err := d.take(at, uuidLen)
		if err != nil {
			return nil, err
		}
		var u UUID
		copy(u[:], p)
		return u, nil
	case code == versionstampCode:
		return d.decodeVersionstamp(at)
	default:
		return nil, d.errorf(at, ErrUnknownTypeCode, "unknown type code 0x%02x", code)
	}
}

// unescape reads a 0x00-terminated field, turning 0x00 0xFF back into 0x00.
func (d *decoder) unescape(at int) ([]byte, error) {
	out := []byte{}
	for {
		i := bytes.IndexByte(d.b[d.pos:], 0x00)
		if i < 0 {
			return nil, d.errorf(at, ErrTruncated, "unterminated field")
		}
		out = append(out, d.b[d.pos:d.pos+i]...)
		d.pos += i
		if d.pos+1 < len(d.b) && d.b[d.pos+1] == escapeByte {
			out = append(out, 0x00)
			d.pos += 2
			continue
		}
		d.pos++
		return out, nil
	}
}

func (d *decoder) decodeNested(at int) (Tuple, error) {
	t := Tuple{}
	for {
		if d.pos >= len(d.b) {
			return nil, d.errorf(at, ErrTruncated, "unterminated nested tuple")
		}
		if d.b[d.pos] == nullCode {
			if d.pos+1 < len(d.b) && d.b[d.pos+1] == escapeByte {
				t = append(t, Null{})
				d.pos += 2
				continue
			}
			d.pos++
			return t, nil
		}
		el, err := d.decode()
		if err != nil {
			return nil, err
		}
		t = append(t, el)
	}
}

func (d *decoder) decodeInt(at int, code byte) (Element, error) {
	n := int(code) - int(intZeroCode)
	if n == 0 {
		return Int(0), nil
	}
	neg := n < 0
	if neg {
		n = -n
	}
	p, err := d.take(at, n)
	if err != nil {
		return nil, err
	}

	var mag uint64
	for _, c := range p {
		if neg {
			c = ^c
		}
		mag = mag<<8 | uint64(c)
	}
	if mag>>maxDecodeBits != 0 {
		return nil, d.errorf(at, ErrIntegerOverflow, "integer magnitude needs more than %d bits", maxDecodeBits)
	}
	if neg {
		return Int(-int64(mag)), nil
	}
	return Int(mag), nil
}

func (d *decoder) decodeVersionstamp(at int) (Element, error) {
	p, err := d.take(at, versionstampLen)
	if err != nil {
		return nil, err
	}
	uv := binary.BigEndian.Uint16(p[transactionVersionLen:])
	if d.stamp != nil && at+1 == d.stamp.Offset {
		if d.stamp.UserVersionOffset < 0 {
			return IncompleteVersionstamp{UserVersion: uv, HasUserVersion: true}, nil
		}
		return IncompleteVersionstamp{}, nil
	}
	var v Versionstamp
	copy(v.TransactionVersion[:], p)
	v.UserVersion = uv
	return v, nil
}
