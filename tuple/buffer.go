package tuple

import (
	"bytes"
	"strings"
)

// buffer is the write side of a single Pack call.
type buffer struct {
	b bytes.Buffer
}

func newBuffer(hint int) *buffer {
	w := &buffer{}
	w.b.Grow(hint)
	return w
}

func (w *buffer) appendByte(c byte)    { w.b.WriteByte(c) }
func (w *buffer) appendBytes(p []byte) { w.b.Write(p) }

// reserve writes n zero bytes and returns their offset. Callers patch the
// window through the offset once packing is done: later appends may move the
// backing array, so a slice into it would go stale.
func (w *buffer) reserve(n int) int {
	off := w.b.Len()
	for i := 0; i < n; i++ {
		w.b.WriteByte(0)
	}
	return off
}

// finalize returns the written bytes; never nil.
func (w *buffer) finalize() []byte {
	if w.b.Len() == 0 {
		return []byte{}
	}
	return w.b.Bytes()
}

// appendEscaped writes p with every 0x00 followed by 0xFF.
func (w *buffer) appendEscaped(p []byte) {
	for {
		i := bytes.IndexByte(p, 0x00)
		if i < 0 {
			w.b.Write(p)
			return
		}
		w.b.Write(p[:i+1])
		w.b.WriteByte(escapeByte)
		p = p[i+1:]
	}
}

func (w *buffer) appendEscapedString(s string) {
	for {
		i := strings.IndexByte(s, 0x00)
		if i < 0 {
			w.b.WriteString(s)
			return
		}
		w.b.WriteString(s[:i+1])
		w.b.WriteByte(escapeByte)
		s = s[i+1:]
	}
}
