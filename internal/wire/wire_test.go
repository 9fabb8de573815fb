package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"
)

func mustDecodeRecord(t *testing.T, b []byte) (uint64, []byte) {
	t.Helper()
	v, p, err := DecodeRecord(b)
	if err != nil {
		t.Fatalf("DecodeRecord error: %v", err)
	}
	return v, p
}

func mustDecodeMutations(t *testing.T, b []byte) []Mutation {
	t.Helper()
	ms, err := DecodeMutations(b)
	if err != nil {
		t.Fatalf("DecodeMutations error: %v", err)
	}
	return ms
}

func plain(op byte, key, value string) Mutation {
	return Mutation{Op: op, Key: []byte(key), StampOffset: NoOffset, UserVersionOffset: NoOffset, Value: []byte(value)}
}

func TestRecordRoundTrip(t *testing.T) {
	cases := []struct {
		version uint64
		payload []byte
	}{
		{0, nil},
		{42, []byte("hello")},
		{math.MaxUint64, []byte{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		enc := EncodeRecord(tc.version, tc.payload)
		v, p := mustDecodeRecord(t, enc)
		if v != tc.version {
			t.Fatalf("version mismatch: got %d want %d", v, tc.version)
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestRecordRejectsTrailingBytes(t *testing.T) {
	enc := EncodeRecord(7, []byte("x"))
	enc = append(enc, 0xDE, 0xAD)
	if _, _, err := DecodeRecord(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestRecordCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeRecord(1, []byte("abc"))

	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, _, err := DecodeRecord(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, _, err := DecodeRecord(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	badKind := append([]byte(nil), enc...)
	badKind[5] = kindBatch
	if _, _, err := DecodeRecord(badKind); err == nil {
		t.Fatalf("expected error on bad kind")
	}

	// vlen sits at 14..17 (4 magic +1 ver +1 kind +8 version)
	tooLong := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(tooLong[14:18], uint32(len("abc")+1))
	if _, _, err := DecodeRecord(tooLong); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	if _, _, err := DecodeRecord(enc[:len(enc)-1]); err == nil {
		t.Fatalf("expected error on truncated buffer")
	}
}

func TestRecordZeroCopyPayload(t *testing.T) {
	enc := EncodeRecord(1, []byte("Z"))
	_, p := mustDecodeRecord(t, enc)
	p[0] = 'Q'
	_, p2 := mustDecodeRecord(t, enc)
	if p2[0] != 'Q' {
		t.Fatalf("expected zero-copy slice into enc buffer")
	}
}

func TestMutationsRoundTrip(t *testing.T) {
	stamped := Mutation{
		Op:                OpSetVersionstampedKey,
		Key:               append([]byte{0x02, 'k', 0x00, 0x33}, make([]byte, 12)...),
		StampOffset:       4,
		UserVersionOffset: 14,
		Value:             []byte("v"),
	}
	cases := [][]Mutation{
		nil,
		{plain(OpSet, "a", "x")},
		{
			plain(OpSet, "a", "x"),
			plain(OpDelete, "b", ""),
			stamped,
		},
		// duplicates are kept in order
		{plain(OpSet, "dup", "old"), plain(OpSet, "dup", "new")},
	}
	for _, ms := range cases {
		enc, err := EncodeMutations(ms)
		if err != nil {
			t.Fatalf("EncodeMutations error: %v", err)
		}
		got := mustDecodeMutations(t, enc)
		if len(got) != len(ms) {
			t.Fatalf("len mismatch: got %d want %d", len(got), len(ms))
		}
		for i := range ms {
			w, g := ms[i], got[i]
			if g.Op != w.Op || !bytes.Equal(g.Key, w.Key) || !bytes.Equal(g.Value, w.Value) ||
				g.StampOffset != w.StampOffset || g.UserVersionOffset != w.UserVersionOffset {
				t.Fatalf("mutation %d mismatch: got=%+v want=%+v", i, g, w)
			}
		}
	}
}

func TestMutationsRejectTrailingBytes(t *testing.T) {
	enc, err := EncodeMutations([]Mutation{plain(OpSet, "k", "v")})
	if err != nil {
		t.Fatalf("EncodeMutations: %v", err)
	}
	enc = append(enc, 0xBE, 0xEF)
	if _, err := DecodeMutations(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestMutationsBogusCount(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBatch)
	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], ^uint32(0))
	buf.Write(u4[:])
	if _, err := DecodeMutations(buf.Bytes()); err == nil {
		t.Fatalf("expected error on bogus n with insufficient bytes")
	}

	buf.Reset()
	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBatch)
	binary.BigEndian.PutUint32(u4[:], 1)
	buf.Write(u4[:])
	if _, err := DecodeMutations(buf.Bytes()); err == nil {
		t.Fatalf("expected error on truncated mutation list")
	}
}

func TestMutationKeyLengthValidation(t *testing.T) {
	if _, err := EncodeMutations([]Mutation{plain(OpSet, "", "x")}); err == nil {
		t.Fatalf("expected error on empty key")
	}
	if _, err := EncodeMutations([]Mutation{plain(OpSet, strings.Repeat("a", 0x10000), "")}); err == nil {
		t.Fatalf("expected error on key length > 0xFFFF")
	}
	if _, err := EncodeMutations([]Mutation{plain(OpSet, strings.Repeat("b", 0xFFFF), "")}); err != nil {
		t.Fatalf("boundary key length should succeed: %v", err)
	}
}

func TestMutationOffsetValidation(t *testing.T) {
	bad := []Mutation{
		{Op: OpSet, Key: []byte("k"), StampOffset: 0, UserVersionOffset: NoOffset},
		{Op: OpSetVersionstampedKey, Key: make([]byte, 8), StampOffset: 0, UserVersionOffset: NoOffset},
		{Op: OpSetVersionstampedKey, Key: make([]byte, 13), StampOffset: 1, UserVersionOffset: 3},
	}
	for i, m := range bad {
		if _, err := EncodeMutations([]Mutation{m}); err == nil {
			t.Fatalf("case %d: expected offset validation error", i)
		}
	}
}

func TestMutationsCorruptOp(t *testing.T) {
	enc, err := EncodeMutations([]Mutation{plain(OpDelete, "k", "")})
	if err != nil {
		t.Fatalf("EncodeMutations: %v", err)
	}
	// header is 10 bytes; op is the first byte of the mutation
	enc[10] = 0x7f
	if _, err := DecodeMutations(enc); err == nil {
		t.Fatalf("expected error on unknown op")
	}
}

func TestMutationsZeroCopySlices(t *testing.T) {
	enc, err := EncodeMutations([]Mutation{plain(OpSet, "a", "X"), plain(OpSet, "b", "Y")})
	if err != nil {
		t.Fatalf("EncodeMutations: %v", err)
	}
	got := mustDecodeMutations(t, enc)
	got[0].Value[0] = 'Q'
	got2 := mustDecodeMutations(t, enc)
	if got2[0].Value[0] != 'Q' {
		t.Fatalf("expected zero-copy value subslices into enc buffer")
	}
}
