// Package tuple implements an order-preserving encoding of typed tuples.
//
// A tuple is an ordered sequence of Elements. Pack turns a tuple into a byte
// string such that bytes.Compare over packed tuples agrees with Compare over
// the tuples themselves, which lets a sorted key-value store answer prefix
// and range queries on multi-field keys with plain byte-range scans.
//
// Layout of one element (type code first, numeric order = sort order):
//
//	0x00        null (0x00 0xFF when nested inside another tuple)
//	0x01        byte string, 0x00 escaped as 0x00 0xFF, terminated by 0x00
//	0x02        UTF-8 string, same escaping as byte strings
//	0x05        nested tuple, children then 0x00
//	0x0c..0x1c  integer, 0x14 +/- magnitude length, big-endian magnitude
//	            (ones' complement for negatives)
//	0x20        float32, ordered IEEE-754 big-endian
//	0x21        float64, ordered IEEE-754 big-endian
//	0x26 0x27   false, true
//	0x30        UUID, 16 raw bytes
//	0x33        versionstamp, 10-byte transaction version + 2-byte user version
//
// An IncompleteVersionstamp packs to zeroed placeholder bytes. Pack reports
// their offsets in Packed.Stamp so the commit path can fill in the real
// transaction version before the key is written.
package tuple
