package tuple

import (
	"strconv"
	"strings"

	"github.com/unkn0wn-root/tuplekv/internal/util"
)

// String renders t for logs, e.g. (1, "hi", null, b"\x00", (true)).
func (t Tuple) String() string {
	var sb strings.Builder
	t.format(&sb)
	return sb.String()
}

func (t Tuple) format(sb *strings.Builder) {
	sb.WriteByte('(')
	for i, el := range t {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatElement(sb, el)
	}
	sb.WriteByte(')')
}

func formatElement(sb *strings.Builder, el Element) {
	switch v := el.(type) {
	case nil, Null:
		sb.WriteString("null")
	case Bool:
		sb.WriteString(strconv.FormatBool(bool(v)))
	case Int:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case Float:
		sb.WriteString(strconv.FormatFloat(float64(v.Value), 'g', -1, 32))
		sb.WriteByte('f')
	case Double:
		sb.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case Bytes:
		sb.WriteString(`b"`)
		sb.WriteString(util.Printable(v))
		sb.WriteByte('"')
	case String:
		sb.WriteString(strconv.Quote(string(v)))
	case Tuple:
		v.format(sb)
	case UUID:
		sb.WriteString(v.String())
	case Versionstamp:
		sb.WriteString("vs(" + v.String() + ")")
	case IncompleteVersionstamp:
		if v.HasUserVersion {
			sb.WriteString("vs(incomplete:" + strconv.FormatUint(uint64(v.UserVersion), 10) + ")")
		} else {
			sb.WriteString("vs(incomplete)")
		}
	default:
		sb.WriteString("?")
	}
}
