package util

import (
	"strings"
)

const hexDigits = "0123456789abcdef"

// Printable renders a binary key for logs: printable ASCII is kept, a
// backslash is doubled, anything else becomes \xNN.
func Printable(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			sb.WriteString(`\x`)
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0x0f])
		}
	}
	return sb.String()
}

// PrintableString is Printable for keys already held as strings.
func PrintableString(s string) string { return Printable([]byte(s)) }
