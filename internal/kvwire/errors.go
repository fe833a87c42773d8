package kvwire

import (
	"errors"
	"fmt"
)

// ErrEndOfInput reports a clean end of input at a top-level tag position.
// It is a sentinel, not a failure: callers iterating a stream of values use
// it to distinguish "no more values" from a corrupt or truncated stream.
var ErrEndOfInput = errors.New("kvwire: end of input")

// ErrorKind classifies encode and decode failures.
type ErrorKind int

const (
	ErrTruncatedInput ErrorKind = iota + 1
	ErrUnknownTag
	ErrLengthOverflow
	ErrMissingTerminator
	ErrInvalidUTF8
	ErrSimpleStringTooLong
	ErrMalformedScalar
	ErrDepthExceeded
	ErrInvalidSimpleString
	ErrValueOutOfRange
)

var errorKindNames = map[ErrorKind]string{
	ErrTruncatedInput:      "truncated input",
	ErrUnknownTag:          "unknown tag",
	ErrLengthOverflow:      "length overflow",
	ErrMissingTerminator:   "missing terminator",
	ErrInvalidUTF8:         "invalid utf8",
	ErrSimpleStringTooLong: "simple string too long",
	ErrMalformedScalar:     "malformed scalar",
	ErrDepthExceeded:       "depth exceeded",
	ErrInvalidSimpleString: "invalid simple string",
	ErrValueOutOfRange:     "value out of range",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error carries the byte offset at which a failure was detected alongside
// its classification. Offset is -1 for encode-time errors, which have no
// input position.
type Error struct {
	Kind   ErrorKind
	Offset int64
	Detail string
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("kvwire: %v at offset %d: %s", e.Kind, e.Offset, e.Detail)
	}
	return fmt.Sprintf("kvwire: %v: %s", e.Kind, e.Detail)
}

// errAt builds a decode-time error pinned to a byte offset.
func errAt(kind ErrorKind, offset int64, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

// encodeErr builds an encode-time error with no offset.
func encodeErr(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: -1, Detail: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is (or wraps) a codec *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
