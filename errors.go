package brief

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnexpectedEnd indicates the input ended in the middle of a value.
	ErrUnexpectedEnd = errors.New("brief: expected more data but reached the end of the input")

	// ErrExcessData indicates that bytes remained after the decoded value.
	ErrExcessData = errors.New("brief: excess data at the end of the input")

	// ErrBufferTooSmall indicates that a fixed output or scratch buffer ran
	// out of space.
	ErrBufferTooSmall = errors.New("brief: buffer too small")

	// ErrLengthOverflow indicates that a decoded length does not fit the
	// platform's int.
	ErrLengthOverflow = errors.New("brief: length does not fit into int")

	// ErrLimitReached indicates that the configured size limit was hit.
	ErrLimitReached = errors.New("brief: configured size limit reached")

	// ErrVarIntTooLarge indicates that an encoded integer does not fit the
	// requested width.
	ErrVarIntTooLarge = errors.New("brief: encoded integer too large for the requested type")

	// ErrIntegerRange indicates that a decoded integer is out of range of
	// the requested type, such as a negative value for an unsigned target.
	ErrIntegerRange = errors.New("brief: integer out of range of the requested type")

	// ErrNotOneChar indicates that a string was decoded as a single
	// character but did not contain exactly one.
	ErrNotOneChar = errors.New("brief: string does not contain exactly one character")

	// ErrInvalidUTF8 indicates that string data was not valid UTF-8.
	ErrInvalidUTF8 = errors.New("brief: string data is not valid UTF-8")

	// ErrNilTarget indicates that a decode target was not a usable pointer.
	ErrNilTarget = errors.New("brief: decode target must be a non-nil pointer")
)

// InvalidTypeError reports a designator byte that is not part of the format.
type InvalidTypeError byte

func (e InvalidTypeError) Error() string {
	return fmt.Sprintf("brief: invalid type designator 0x%02X", byte(e))
}

// WrongTypeError reports a well-formed designator that does not match what
// the caller asked to decode.
type WrongTypeError struct {
	Found    Type
	Expected []Type
}

func (e *WrongTypeError) Error() string {
	names := make([]string, len(e.Expected))
	for i, t := range e.Expected {
		names[i] = t.String()
	}
	return fmt.Sprintf("brief: found type %s but expected one of [%s]", e.Found, strings.Join(names, ", "))
}

func wrongType(found Type, expected ...Type) error {
	return &WrongTypeError{Found: found, Expected: expected}
}
