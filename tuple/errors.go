package tuple

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation classifies every error raised while packing.
	ErrValidation = errors.New("tuple: invalid value")
	// ErrDecode classifies every error raised while unpacking.
	ErrDecode = errors.New("tuple: malformed encoding")

	ErrNilElement             = errors.New("nil element")
	ErrUnsupportedType        = errors.New("unsupported type")
	ErrPayloadLength          = errors.New("wrong payload length")
	ErrMultipleIncomplete     = errors.New("more than one incomplete versionstamp")
	ErrIncompleteVersionstamp = errors.New("incomplete versionstamp")
	ErrPlaceholderRange       = errors.New("placeholder outside key")

	ErrUnknownTypeCode = errors.New("unknown type code")
	ErrIntegerOverflow = errors.New("integer exceeds safe range")
	ErrTruncated       = errors.New("truncated input")
)

// ValidationError reports a value that cannot be packed.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string { return "tuple: " + e.Msg }

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// DecodeError reports malformed input to Unpack. Offset is the position of
// the element being decoded.
type DecodeError struct {
	Offset int
	Msg    string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("tuple: decode at offset %d: %s", e.Offset, e.Msg)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecode}
	}
	return []error{ErrDecode, e.Err}
}
