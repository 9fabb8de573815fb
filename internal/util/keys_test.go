package util

import "testing"

func TestPrintable(t *testing.T) {
	cases := []struct {
		in   []byte
		want string
	}{
		{nil, ""},
		{[]byte("abc"), "abc"},
		{[]byte{0x02, 'h', 'i', 0x00}, `\x02hi\x00`},
		{[]byte{'a', '\\', 'b'}, `a\\b`},
		{[]byte{0xff, 0x7f}, `\xff\x7f`},
	}
	for _, tc := range cases {
		if got := Printable(tc.in); got != tc.want {
			t.Fatalf("Printable(%x) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := PrintableString("\x00k"); got != `\x00k` {
		t.Fatalf("PrintableString = %q", got)
	}
}
