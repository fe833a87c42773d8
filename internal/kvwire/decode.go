package kvwire

import (
	"bytes"
	"errors"
	"io"
	"math/big"
	"strconv"
	"unicode/utf8"
)

// Preallocation guard for attacker-declared element counts. Containers
// claiming more elements grow by appending as elements actually decode.
const maxPrealloc = 1024

// Decoder is a recursive-descent parser producing Value trees from a byte
// stream. It validates every length, terminator and scalar payload and
// fails fast on the first malformed byte; a failed decode never yields a
// partial value.
type Decoder struct {
	cur      *Cursor
	maxDepth int
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{cur: NewCursor(r), maxDepth: DefaultMaxDepth}
}

// SetMaxDepth overrides the recursion bound used against adversarial
// nesting. Values below 1 are ignored.
func (d *Decoder) SetMaxDepth(n int) {
	if n >= 1 {
		d.maxDepth = n
	}
}

// Offset returns the number of input bytes consumed so far.
func (d *Decoder) Offset() int64 {
	return d.cur.Offset()
}

// Unmarshal decodes the first value in data. Trailing bytes after that
// value are ignored; use a Decoder to walk multi-value streams.
func Unmarshal(data []byte) (Value, error) {
	return NewDecoder(bytes.NewReader(data)).Decode()
}

// Decode reads the next top-level value. A clean end of input at the tag
// position returns ErrEndOfInput so callers can distinguish stream
// exhaustion from corruption; end of input anywhere else is truncation.
func (d *Decoder) Decode() (Value, error) {
	tagOff := d.cur.Offset()
	tag, err := d.cur.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, ErrEndOfInput
		}
		return Value{}, err
	}
	return d.decodeTagged(tag, tagOff, 0)
}

// decodeOne decodes a nested value, where end of input even at the tag
// position means the enclosing container was cut short.
func (d *Decoder) decodeOne(depth int) (Value, error) {
	tagOff := d.cur.Offset()
	tag, err := d.cur.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, errAt(ErrTruncatedInput, tagOff, "stream ended inside a container")
		}
		return Value{}, err
	}
	return d.decodeTagged(tag, tagOff, depth)
}

func (d *Decoder) decodeTagged(tag byte, tagOff int64, depth int) (Value, error) {
	if depth > d.maxDepth {
		return Value{}, errAt(ErrDepthExceeded, tagOff, "nesting deeper than %d", d.maxDepth)
	}
	kind, ok := KindForTag(tag)
	if !ok {
		return Value{}, errAt(ErrUnknownTag, tagOff, "byte 0x%02x is not an indicator", tag)
	}

	switch kind {
	case KindBool:
		if err := d.requireNewline(); err != nil {
			return Value{}, err
		}
		return Bool(tag == TagBoolTrue), nil

	case KindNil:
		if err := d.requireNewline(); err != nil {
			return Value{}, err
		}
		return Nil(), nil

	case KindSimpleString:
		payloadOff := d.cur.Offset()
		line, err := d.cur.ReadLine()
		if err != nil {
			return Value{}, err
		}
		if len(line) > MaxSimpleStringLen {
			return Value{}, errAt(ErrSimpleStringTooLong, payloadOff, "payload is %d bytes, cap is %d", len(line), MaxSimpleStringLen)
		}
		if !utf8.Valid(line) {
			return Value{}, errAt(ErrInvalidUTF8, payloadOff, "SimpleString payload is not valid UTF-8")
		}
		return SimpleString(string(line)), nil

	case KindIdentifier:
		tok, err := d.readToken("identifier")
		if err != nil {
			return Value{}, err
		}
		return Identifier(tok), nil

	case KindString:
		n, err := d.readLengthLine()
		if err != nil {
			return Value{}, err
		}
		payloadOff := d.cur.Offset()
		payload, err := d.cur.ReadExact(n)
		if err != nil {
			return Value{}, err
		}
		if err := d.requireNewline(); err != nil {
			return Value{}, err
		}
		if !utf8.Valid(payload) {
			return Value{}, errAt(ErrInvalidUTF8, payloadOff, "String payload is not valid UTF-8")
		}
		return String(string(payload)), nil

	case KindBinary:
		n, err := d.readLengthLine()
		if err != nil {
			return Value{}, err
		}
		payload, err := d.cur.ReadExact(n)
		if err != nil {
			return Value{}, err
		}
		if err := d.requireNewline(); err != nil {
			return Value{}, err
		}
		return Binary(payload), nil

	case KindChar, KindInt8, KindInt16, KindInt32, KindInt64, KindInt128,
		KindUint8, KindUint16, KindUint32, KindUint64, KindUint128,
		KindFloat32, KindFloat64:
		return d.decodeScalar(kind)

	case KindSequence, KindTuple:
		count, err := d.readLengthLine()
		if err != nil {
			return Value{}, err
		}
		elems, err := d.decodeElems(count, depth)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, Elems: elems}, nil

	case KindNamedTuple:
		count, err := d.readLengthLine()
		if err != nil {
			return Value{}, err
		}
		name, err := d.readToken("tuple struct name")
		if err != nil {
			return Value{}, err
		}
		elems, err := d.decodeElems(count, depth)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindNamedTuple, Name: name, Elems: elems}, nil

	case KindMap:
		count, err := d.readLengthLine()
		if err != nil {
			return Value{}, err
		}
		entries := make([]Entry, 0, min(count, maxPrealloc))
		for i := 0; i < count; i++ {
			key, err := d.decodeOne(depth + 1)
			if err != nil {
				return Value{}, err
			}
			val, err := d.decodeOne(depth + 1)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Entry{Key: key, Val: val})
		}
		return Value{Kind: KindMap, Entries: entries}, nil

	case KindStruct:
		count, err := d.readLengthLine()
		if err != nil {
			return Value{}, err
		}
		name, err := d.readToken("struct name")
		if err != nil {
			return Value{}, err
		}
		fields := make([]Field, 0, min(count, maxPrealloc))
		for i := 0; i < count; i++ {
			markerOff := d.cur.Offset()
			marker, err := d.cur.ReadByte()
			if err != nil {
				return Value{}, errAt(ErrTruncatedInput, markerOff, "stream ended where a field marker was expected")
			}
			if marker != TagFieldMarker {
				return Value{}, errAt(ErrUnknownTag, markerOff, "expected field marker ']', found 0x%02x", marker)
			}
			fname, err := d.readToken("field name")
			if err != nil {
				return Value{}, err
			}
			fval, err := d.decodeOne(depth + 1)
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, Field{Name: fname, Value: fval})
		}
		return Value{Kind: KindStruct, Name: name, Fields: fields}, nil

	case KindEnumUnit:
		enum, err := d.readToken("enum name")
		if err != nil {
			return Value{}, err
		}
		variant, err := d.readToken("variant name")
		if err != nil {
			return Value{}, err
		}
		return EnumUnit(enum, variant), nil

	case KindEnumTuple:
		arity, err := d.readLengthLine()
		if err != nil {
			return Value{}, err
		}
		enum, err := d.readToken("enum name")
		if err != nil {
			return Value{}, err
		}
		variant, err := d.readToken("variant name")
		if err != nil {
			return Value{}, err
		}
		elems, err := d.decodeElems(arity, depth)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindEnumTuple, Name: enum, Variant: variant, Elems: elems}, nil

	case KindEnumStruct:
		count, err := d.readLengthLine()
		if err != nil {
			return Value{}, err
		}
		enum, err := d.readToken("enum name")
		if err != nil {
			return Value{}, err
		}
		variant, err := d.readToken("variant name")
		if err != nil {
			return Value{}, err
		}
		fields := make([]Field, 0, min(count, maxPrealloc))
		for i := 0; i < count; i++ {
			fname, err := d.readToken("variant field name")
			if err != nil {
				return Value{}, err
			}
			fval, err := d.decodeOne(depth + 1)
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, Field{Name: fname, Value: fval})
		}
		return Value{Kind: KindEnumStruct, Name: enum, Variant: variant, Fields: fields}, nil

	default:
		return Value{}, errAt(ErrUnknownTag, tagOff, "byte 0x%02x is not an indicator", tag)
	}
}

func (d *Decoder) decodeElems(count, depth int) ([]Value, error) {
	elems := make([]Value, 0, min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		el, err := d.decodeOne(depth + 1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	return elems, nil
}

// decodeScalar consumes one newline-terminated textual payload and parses
// it per the kind's grammar.
func (d *Decoder) decodeScalar(kind Kind) (Value, error) {
	off := d.cur.Offset()
	line, err := d.cur.ReadLine()
	if err != nil {
		return Value{}, err
	}
	text := string(line)
	malformed := func() *Error {
		return errAt(ErrMalformedScalar, off, "%v payload %q does not parse", kind, text)
	}

	switch kind {
	case KindChar:
		cp, perr := strconv.ParseUint(text, 10, 32)
		if perr != nil {
			return Value{}, malformed()
		}
		r := rune(cp)
		if checkChar(r) != nil {
			return Value{}, malformed()
		}
		return Char(r), nil

	case KindInt8, KindInt16, KindInt32, KindInt64:
		bits := map[Kind]int{KindInt8: 8, KindInt16: 16, KindInt32: 32, KindInt64: 64}[kind]
		n, perr := strconv.ParseInt(text, 10, bits)
		if perr != nil {
			return Value{}, malformed()
		}
		return Value{Kind: kind, Int: n}, nil

	case KindUint8, KindUint16, KindUint32, KindUint64:
		bits := map[Kind]int{KindUint8: 8, KindUint16: 16, KindUint32: 32, KindUint64: 64}[kind]
		n, perr := strconv.ParseUint(text, 10, bits)
		if perr != nil {
			return Value{}, malformed()
		}
		return Value{Kind: kind, Uint: n}, nil

	case KindInt128:
		n, ok := new(big.Int).SetString(text, 10)
		if !ok || n.Cmp(minInt128) < 0 || n.Cmp(maxInt128) > 0 {
			return Value{}, malformed()
		}
		return Value{Kind: KindInt128, Big: n}, nil

	case KindUint128:
		n, ok := new(big.Int).SetString(text, 10)
		if !ok || n.Sign() < 0 || n.Cmp(maxUint128) > 0 {
			return Value{}, malformed()
		}
		return Value{Kind: KindUint128, Big: n}, nil

	case KindFloat32:
		f, perr := parseFloatText(text, 32)
		if perr != nil {
			return Value{}, malformed()
		}
		return Float32(float32(f)), nil

	case KindFloat64:
		f, perr := parseFloatText(text, 64)
		if perr != nil {
			return Value{}, malformed()
		}
		return Float64(f), nil
	}
	return Value{}, malformed()
}

// parseFloatText parses decimal float text. Out-of-range magnitudes round
// to infinity or zero rather than failing, matching standard decimal float
// conversion; only syntactically bad text is an error.
func parseFloatText(text string, bits int) (float64, error) {
	f, err := strconv.ParseFloat(text, bits)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return f, nil
		}
		return 0, err
	}
	return f, nil
}

func (d *Decoder) readLengthLine() (int, error) {
	off := d.cur.Offset()
	line, err := d.cur.ReadLine()
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseUint(string(line), 10, 32)
	if perr != nil {
		return 0, errAt(ErrLengthOverflow, off, "length %q is not a decimal in [0, 2^32)", line)
	}
	return int(n), nil
}

func (d *Decoder) readToken(what string) (string, error) {
	off := d.cur.Offset()
	line, err := d.cur.ReadLine()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(line) {
		return "", errAt(ErrInvalidUTF8, off, "%s is not valid UTF-8", what)
	}
	return string(line), nil
}

func (d *Decoder) requireNewline() error {
	off := d.cur.Offset()
	b, err := d.cur.ReadByte()
	if err != nil {
		return errAt(ErrTruncatedInput, off, "stream ended where a terminator was expected")
	}
	if b != '\n' {
		return errAt(ErrMissingTerminator, off, "expected newline, found 0x%02x", b)
	}
	return nil
}
