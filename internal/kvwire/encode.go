package kvwire

import (
	"bytes"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// 128-bit integer bounds, computed once. The wire carries these as decimal
// text so range enforcement happens here rather than in the bit layout.
var (
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// Encoder serializes Values into the wire grammar. Encoding is
// deterministic: the same Value always produces the same bytes.
type Encoder struct {
	w *Writer
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: NewWriter(w)}
}

// Encode writes one complete value to the sink.
func (e *Encoder) Encode(v Value) error {
	if err := e.encodeValue(v); err != nil {
		return err
	}
	return e.w.Error()
}

// Marshal encodes a single value into a fresh byte slice.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) encodeValue(v Value) error {
	switch v.Kind {
	case KindSimpleString:
		if err := checkSimpleString(v.Str); err != nil {
			return err
		}
		e.w.writeByte(TagSimpleString)
		e.w.writeLine(v.Str)

	case KindString:
		if !utf8.ValidString(v.Str) {
			return encodeErr(ErrInvalidUTF8, "string payload is not valid UTF-8")
		}
		if err := checkLength(len(v.Str), "string"); err != nil {
			return err
		}
		e.w.writeHeader(TagString, len(v.Str))
		e.w.writeLine(v.Str)

	case KindIdentifier:
		if err := checkToken(v.Str, "identifier"); err != nil {
			return err
		}
		e.w.writeByte(TagIdentifier)
		e.w.writeLine(v.Str)

	case KindBinary:
		if err := checkLength(len(v.Bin), "binary"); err != nil {
			return err
		}
		e.w.writeHeader(TagBinary, len(v.Bin))
		e.w.write(v.Bin)
		e.w.writeByte('\n')

	case KindChar:
		if err := checkChar(v.Char); err != nil {
			return err
		}
		e.w.writeByte(TagChar)
		e.w.writeLine(strconv.FormatUint(uint64(uint32(v.Char)), 10))

	case KindInt8, KindInt16, KindInt32, KindInt64:
		if err := checkSignedWidth(v.Kind, v.Int); err != nil {
			return err
		}
		tag, _ := TagForKind(v.Kind)
		e.w.writeByte(tag)
		e.w.writeLine(strconv.FormatInt(v.Int, 10))

	case KindUint8, KindUint16, KindUint32, KindUint64:
		if err := checkUnsignedWidth(v.Kind, v.Uint); err != nil {
			return err
		}
		tag, _ := TagForKind(v.Kind)
		e.w.writeByte(tag)
		e.w.writeLine(strconv.FormatUint(v.Uint, 10))

	case KindInt128:
		if v.Big == nil {
			return encodeErr(ErrMalformedScalar, "SignedInt128 value is nil")
		}
		if v.Big.Cmp(minInt128) < 0 || v.Big.Cmp(maxInt128) > 0 {
			return encodeErr(ErrValueOutOfRange, "value %s out of SignedInt128 range", v.Big)
		}
		e.w.writeByte(TagInt128)
		e.w.writeLine(v.Big.String())

	case KindUint128:
		if v.Big == nil {
			return encodeErr(ErrMalformedScalar, "UnsignedInt128 value is nil")
		}
		if v.Big.Sign() < 0 || v.Big.Cmp(maxUint128) > 0 {
			return encodeErr(ErrValueOutOfRange, "value %s out of UnsignedInt128 range", v.Big)
		}
		e.w.writeByte(TagUint128)
		e.w.writeLine(v.Big.String())

	case KindFloat32:
		e.w.writeByte(TagFloat32)
		e.w.writeLine(formatFloatText(v.Float, true))

	case KindFloat64:
		e.w.writeByte(TagFloat64)
		e.w.writeLine(formatFloatText(v.Float, false))

	case KindBool:
		if v.Bool {
			e.w.writeByte(TagBoolTrue)
		} else {
			e.w.writeByte(TagBoolFalse)
		}
		e.w.writeByte('\n')

	case KindNil:
		e.w.writeByte(TagNil)
		e.w.writeByte('\n')

	case KindSequence, KindTuple:
		if err := checkLength(len(v.Elems), "element count"); err != nil {
			return err
		}
		tag, _ := TagForKind(v.Kind)
		e.w.writeHeader(tag, len(v.Elems))
		for _, el := range v.Elems {
			if err := e.encodeValue(el); err != nil {
				return err
			}
		}

	case KindNamedTuple:
		if err := checkToken(v.Name, "tuple struct name"); err != nil {
			return err
		}
		if err := checkLength(len(v.Elems), "element count"); err != nil {
			return err
		}
		e.w.writeHeader(TagNamedTuple, len(v.Elems))
		e.w.writeLine(v.Name)
		for _, el := range v.Elems {
			if err := e.encodeValue(el); err != nil {
				return err
			}
		}

	case KindMap:
		if err := checkLength(len(v.Entries), "pair count"); err != nil {
			return err
		}
		e.w.writeHeader(TagMap, len(v.Entries))
		for _, ent := range v.Entries {
			if err := e.encodeValue(ent.Key); err != nil {
				return err
			}
			if err := e.encodeValue(ent.Val); err != nil {
				return err
			}
		}

	case KindStruct:
		if err := checkToken(v.Name, "struct name"); err != nil {
			return err
		}
		if err := checkLength(len(v.Fields), "field count"); err != nil {
			return err
		}
		e.w.writeHeader(TagStruct, len(v.Fields))
		e.w.writeLine(v.Name)
		for _, f := range v.Fields {
			if err := checkToken(f.Name, "field name"); err != nil {
				return err
			}
			e.w.writeByte(TagFieldMarker)
			e.w.writeLine(f.Name)
			if err := e.encodeValue(f.Value); err != nil {
				return err
			}
		}

	case KindEnumUnit:
		if err := checkEnumNames(v.Name, v.Variant); err != nil {
			return err
		}
		e.w.writeByte(TagEnumUnit)
		e.w.writeLine(v.Name)
		e.w.writeLine(v.Variant)

	case KindEnumTuple:
		if err := checkEnumNames(v.Name, v.Variant); err != nil {
			return err
		}
		if err := checkLength(len(v.Elems), "variant arity"); err != nil {
			return err
		}
		e.w.writeHeader(TagEnumTuple, len(v.Elems))
		e.w.writeLine(v.Name)
		e.w.writeLine(v.Variant)
		for _, el := range v.Elems {
			if err := e.encodeValue(el); err != nil {
				return err
			}
		}

	case KindEnumStruct:
		if err := checkEnumNames(v.Name, v.Variant); err != nil {
			return err
		}
		if err := checkLength(len(v.Fields), "variant field count"); err != nil {
			return err
		}
		e.w.writeHeader(TagEnumStruct, len(v.Fields))
		e.w.writeLine(v.Name)
		e.w.writeLine(v.Variant)
		for _, f := range v.Fields {
			if err := checkToken(f.Name, "variant field name"); err != nil {
				return err
			}
			e.w.writeLine(f.Name)
			if err := e.encodeValue(f.Value); err != nil {
				return err
			}
		}

	default:
		return encodeErr(ErrMalformedScalar, "cannot encode %v", v.Kind)
	}
	return e.w.Error()
}

func checkSimpleString(s string) error {
	if len(s) > MaxSimpleStringLen {
		return encodeErr(ErrInvalidSimpleString, "payload is %d bytes, cap is %d", len(s), MaxSimpleStringLen)
	}
	if strings.IndexByte(s, '\n') >= 0 {
		return encodeErr(ErrInvalidSimpleString, "payload contains a newline")
	}
	if !utf8.ValidString(s) {
		return encodeErr(ErrInvalidSimpleString, "payload is not valid UTF-8")
	}
	return nil
}

// checkToken validates a name token: struct, enum, variant and field names
// travel as bare newline-terminated UTF-8 fragments.
func checkToken(s, what string) error {
	if strings.IndexByte(s, '\n') >= 0 {
		return encodeErr(ErrInvalidSimpleString, "%s contains a newline", what)
	}
	if !utf8.ValidString(s) {
		return encodeErr(ErrInvalidSimpleString, "%s is not valid UTF-8", what)
	}
	return nil
}

func checkEnumNames(enum, variant string) error {
	if err := checkToken(enum, "enum name"); err != nil {
		return err
	}
	return checkToken(variant, "variant name")
}

func checkLength(n int, what string) error {
	if n < 0 || uint64(n) > MaxLength {
		return encodeErr(ErrLengthOverflow, "%s %d exceeds the 32-bit length ceiling", what, n)
	}
	return nil
}

func checkChar(r rune) error {
	if r < 0 || r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
		return encodeErr(ErrValueOutOfRange, "code point %d is not a Unicode scalar value", r)
	}
	return nil
}

func checkSignedWidth(k Kind, v int64) error {
	var lo, hi int64
	switch k {
	case KindInt8:
		lo, hi = math.MinInt8, math.MaxInt8
	case KindInt16:
		lo, hi = math.MinInt16, math.MaxInt16
	case KindInt32:
		lo, hi = math.MinInt32, math.MaxInt32
	default:
		return nil
	}
	if v < lo || v > hi {
		return encodeErr(ErrValueOutOfRange, "value %d out of %v range", v, k)
	}
	return nil
}

func checkUnsignedWidth(k Kind, v uint64) error {
	var hi uint64
	switch k {
	case KindUint8:
		hi = math.MaxUint8
	case KindUint16:
		hi = math.MaxUint16
	case KindUint32:
		hi = math.MaxUint32
	default:
		return nil
	}
	if v > hi {
		return encodeErr(ErrValueOutOfRange, "value %d out of %v range", v, k)
	}
	return nil
}

// formatFloatText renders the shortest decimal text that round-trips to
// the same IEEE-754 bit pattern. Non-finite values use the spellings the
// wire grammar documents: inf, -inf, nan.
func formatFloatText(f float64, is32 bool) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if is32 {
		return strconv.FormatFloat(f, 'g', -1, 32)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
