package decoder

import "fmt"

// TruncatedStreamError means the byte source ended mid-message.
type TruncatedStreamError struct {
	Wanted int
	Got    int
}

func (e *TruncatedStreamError) Error() string {
	return fmt.Sprintf("decoder: truncated stream: wanted %d bytes, got %d", e.Wanted, e.Got)
}

// UnknownTypeError means the leading tag byte has no entry in the length
// table.
type UnknownTypeError struct {
	Tag byte
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("decoder: unknown message type %q (0x%02x)", e.Tag, e.Tag)
}

// LengthMismatchError means a length-prefixed frame's declared length
// disagrees with the fixed length the tag table expects.
type LengthMismatchError struct {
	Tag      byte
	Declared int
	Expected int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("decoder: length mismatch for %q: frame declared %d bytes, table expects %d", e.Tag, e.Declared, e.Expected)
}
