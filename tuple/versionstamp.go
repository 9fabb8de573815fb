package tuple

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
)

// IncompleteStamp returns a placeholder whose user version is left for the
// commit path to fill.
func IncompleteStamp() IncompleteVersionstamp {
	return IncompleteVersionstamp{}
}

// IncompleteStampWith returns a placeholder with a fixed user version.
func IncompleteStampWith(userVersion uint16) IncompleteVersionstamp {
	return IncompleteVersionstamp{UserVersion: userVersion, HasUserVersion: true}
}

// VersionstampFromBytes validates b as a 12-byte versionstamp payload.
func VersionstampFromBytes(b []byte) (Versionstamp, error) {
	var v Versionstamp
	if len(b) != versionstampLen {
		return v, &ValidationError{
			Msg: "versionstamp payload must be 12 bytes",
			Err: ErrPayloadLength,
		}
	}
	copy(v.TransactionVersion[:], b)
	v.UserVersion = binary.BigEndian.Uint16(b[transactionVersionLen:])
	return v, nil
}

// Bytes returns the 12-byte payload of v.
func (v Versionstamp) Bytes() []byte {
	b := make([]byte, versionstampLen)
	copy(b, v.TransactionVersion[:])
	binary.BigEndian.PutUint16(b[transactionVersionLen:], v.UserVersion)
	return b
}

func (v Versionstamp) String() string {
	return hex.EncodeToString(v.TransactionVersion[:]) + ":" + strconv.FormatUint(uint64(v.UserVersion), 10)
}

// Fill writes the transaction version, and the user version when it was
// reserved, into b at the placeholder's offsets.
func (p Placeholder) Fill(b []byte, tr [transactionVersionLen]byte, userVersion uint16) error {
	if p.Offset < 0 || p.Offset+transactionVersionLen > len(b) {
		return &ValidationError{Msg: "versionstamp placeholder outside key", Err: ErrPlaceholderRange}
	}
	if p.UserVersionOffset >= 0 && p.UserVersionOffset+userVersionLen > len(b) {
		return &ValidationError{Msg: "user version placeholder outside key", Err: ErrPlaceholderRange}
	}
	copy(b[p.Offset:], tr[:])
	if p.UserVersionOffset >= 0 {
		binary.BigEndian.PutUint16(b[p.UserVersionOffset:], userVersion)
	}
	return nil
}

// Complete returns a filled copy of p's bytes and the versionstamp now stored
// in them. p itself is left untouched.
func (p Packed) Complete(tr [transactionVersionLen]byte, userVersion uint16) ([]byte, Versionstamp, error) {
	if p.Stamp == nil {
		return nil, Versionstamp{}, &ValidationError{
			Msg: "packed tuple has no incomplete versionstamp",
			Err: ErrIncompleteVersionstamp,
		}
	}
	if p.Stamp.Offset < 0 || p.Stamp.Offset+versionstampLen > len(p.Bytes) {
		return nil, Versionstamp{}, &ValidationError{Msg: "versionstamp placeholder outside key", Err: ErrPlaceholderRange}
	}
	b := append([]byte(nil), p.Bytes...)
	if err := p.Stamp.Fill(b, tr, userVersion); err != nil {
		return nil, Versionstamp{}, err
	}
	vs, err := VersionstampFromBytes(b[p.Stamp.Offset : p.Stamp.Offset+versionstampLen])
	if err != nil {
		return nil, Versionstamp{}, err
	}
	return b, vs, nil
}
