package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	version    byte = 1
	kindRecord byte = 1
	kindBatch  byte = 2
	NoOffset        = -1
)

// Mutation ops.
const (
	OpSet    byte = 1
	OpDelete byte = 2
	// OpSetVersionstampedKey carries a key with placeholder offsets to fill.
	OpSetVersionstampedKey byte = 3
)

var (
	ErrCorrupt = errors.New("tuplekv: corrupt entry")
	magic4     = [...]byte{'T', 'K', 'V', '1'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Record: magic(4) | ver(1) | kind(1=record) | commitVersion(u64 be) | vlen(u32 be) | payload(vlen)
func EncodeRecord(commitVersion uint64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindRecord)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], commitVersion)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeRecord returns a zero-copy payload slice into b.
func DecodeRecord(b []byte) (commitVersion uint64, payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindRecord {
		return 0, nil, ErrCorrupt
	}

	off := 6

	commitVersion = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // exact: trailing bytes are corruption
		return 0, nil, ErrCorrupt
	}

	return commitVersion, b[off : off+vlen], nil
}

// Mutation is one write of a batch. StampOffset and UserVersionOffset locate
// versionstamp placeholders in Key; both are -1 when unused.
type Mutation struct {
	Op                byte
	Key               []byte
	StampOffset       int
	UserVersionOffset int
	Value             []byte
}

// Batch:
//
//	magic(4) | ver(1) | kind(2=batch) | n(u32 be)
//	op(1) | keyLen(u16 be) | key | stampOff(i32 be) | userOff(i32 be) | vlen(u32 be) | value  * n
func EncodeMutations(ms []Mutation) ([]byte, error) {
	total := 4 + 1 + 1 + 4
	for _, m := range ms {
		total += 1 + 2 + len(m.Key) + 4 + 4 + 4 + len(m.Value)
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBatch)

	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint32(u4[:], uint32(len(ms)))
	buf.Write(u4[:])

	for i, m := range ms {
		if l := len(m.Key); l == 0 || l > 0xFFFF {
			return nil, fmt.Errorf("tuplekv: mutation %d: invalid key length %d", i, l)
		}
		if err := checkOffsets(m); err != nil {
			return nil, fmt.Errorf("tuplekv: mutation %d: %w", i, err)
		}
		buf.WriteByte(m.Op)

		binary.BigEndian.PutUint16(u2[:], uint16(len(m.Key)))
		buf.Write(u2[:])
		buf.Write(m.Key)

		binary.BigEndian.PutUint32(u4[:], uint32(int32(m.StampOffset)))
		buf.Write(u4[:])
		binary.BigEndian.PutUint32(u4[:], uint32(int32(m.UserVersionOffset)))
		buf.Write(u4[:])

		binary.BigEndian.PutUint32(u4[:], uint32(len(m.Value)))
		buf.Write(u4[:])
		buf.Write(m.Value)
	}

	return buf.Bytes(), nil
}

func DecodeMutations(b []byte) ([]Mutation, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindBatch {
		return nil, ErrCorrupt
	}

	off := 6

	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// every mutation takes at least 16 bytes; don't trust n for preallocation
	if n < 0 || n > (len(b)-off)/16 {
		return nil, ErrCorrupt
	}

	ms := make([]Mutation, 0, n)
	for i := 0; i < n; i++ {
		// op + keyLen
		if off+3 > len(b) {
			return nil, ErrCorrupt
		}
		op := b[off]
		off++
		klen := int(binary.BigEndian.Uint16(b[off : off+2]))
		off += 2
		if klen <= 0 || klen > len(b)-off {
			return nil, ErrCorrupt
		}
		key := b[off : off+klen]
		off += klen

		// offsets + vlen
		if off+12 > len(b) {
			return nil, ErrCorrupt
		}
		stampOff := int(int32(binary.BigEndian.Uint32(b[off : off+4])))
		off += 4
		userOff := int(int32(binary.BigEndian.Uint32(b[off : off+4])))
		off += 4
		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen < 0 || vlen > len(b)-off {
			return nil, ErrCorrupt
		}
		value := b[off : off+vlen]
		off += vlen

		m := Mutation{
			Op:                op,
			Key:               key,
			StampOffset:       stampOff,
			UserVersionOffset: userOff,
			Value:             value,
		}
		if op < OpSet || op > OpSetVersionstampedKey || checkOffsets(m) != nil {
			return nil, ErrCorrupt
		}
		ms = append(ms, m)
	}
	if off != len(b) {
		return nil, ErrCorrupt
	}

	return ms, nil
}

func checkOffsets(m Mutation) error {
	if m.Op != OpSetVersionstampedKey {
		if m.StampOffset != NoOffset || m.UserVersionOffset != NoOffset {
			return errors.New("placeholder offsets on a plain mutation")
		}
		return nil
	}
	if m.StampOffset < 0 || m.StampOffset+12 > len(m.Key) {
		return errors.New("versionstamp offset outside key")
	}
	if m.UserVersionOffset != NoOffset && m.UserVersionOffset != m.StampOffset+10 {
		return errors.New("user version offset does not follow versionstamp")
	}
	return nil
}
