package tuple

import (
	"fmt"

	"github.com/google/uuid"
)

// FromValues builds a tuple from native Go values: nil, bool, signed and
// unsigned integers, float32, float64, []byte, string, uuid.UUID, [16]byte,
// []any (nested) and Elements. Integers beyond MaxSafeInt become Double.
func FromValues(vs ...any) (Tuple, error) {
	t := make(Tuple, 0, len(vs))
	for i, v := range vs {
		el, err := element(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		t = append(t, el)
	}
	return t, nil
}

func element(v any) (Element, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Element:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return intElement(int64(x)), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return intElement(x), nil
	case uint:
		return uintElement(uint64(x)), nil
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case uint64:
		return uintElement(x), nil
	case float32:
		return Float{Value: x}, nil
	case float64:
		return Double{Value: x}, nil
	case []byte:
		return Bytes(x), nil
	case string:
		return String(x), nil
	case uuid.UUID:
		return UUID(x), nil
	case [uuidLen]byte:
		return UUID(x), nil
	case []any:
		return FromValues(x...)
	default:
		return nil, &ValidationError{
			Msg: fmt.Sprintf("packed items must be one of the supported basic types or nested sequences, got %T", v),
			Err: ErrUnsupportedType,
		}
	}
}

func intElement(i int64) Element {
	if i > MaxSafeInt || i < -MaxSafeInt {
		return Double{Value: float64(i)}
	}
	return Int(i)
}

func uintElement(u uint64) Element {
	if u > MaxSafeInt {
		return Double{Value: float64(u)}
	}
	return Int(u)
}
