package kvwire

import (
	"bytes"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUnmarshal(t *testing.T, data string) Value {
	t.Helper()
	v, err := Unmarshal([]byte(data))
	require.NoError(t, err)
	return v
}

func TestDecodeScalars(t *testing.T) {
	cases := []struct {
		name string
		data string
		want Value
	}{
		{"int8", "b1\n", Int8(1)},
		{"int8 min", "b-128\n", Int8(-128)},
		{"int8 plus sign", "b+5\n", Int8(5)},
		{"uint8 max", "B255\n", Uint8(255)},
		{"int64", "d-9223372036854775808\n", Int64(-9223372036854775808)},
		{"uint64 max", "D18446744073709551615\n", Uint64(18446744073709551615)},
		{"float32", "f3.14\n", Float32(3.14)},
		{"float64", "F-6.28\n", Float64(-6.28)},
		{"float64 exponent", "F1e10\n", Float64(1e10)},
		{"float64 inf", "Finf\n", Float64(math.Inf(1))},
		{"float64 -inf", "F-inf\n", Float64(math.Inf(-1))},
		{"char", "c65\n", Char('A')},
		{"char max", "c1114111\n", Char(0x10FFFF)},
		{"bool true", "1\n", Bool(true)},
		{"bool false", "0\n", Bool(false)},
		{"nil", "!\n", Nil()},
		{"identifier", "=some_field\n", Identifier("some_field")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mustUnmarshal(t, tc.data)
			assert.True(t, tc.want.Equal(got), "want %v, got %v", tc.want, got)
		})
	}
}

func TestDecodeNaN(t *testing.T) {
	v := mustUnmarshal(t, "Fnan\n")
	require.Equal(t, KindFloat64, v.Kind)
	assert.True(t, v.Float != v.Float, "payload must be NaN")
}

func TestDecode128BitIntegers(t *testing.T) {
	v := mustUnmarshal(t, "q-170141183460469231731687303715884105728\n")
	require.Equal(t, KindInt128, v.Kind)
	want, _ := new(big.Int).SetString("-170141183460469231731687303715884105728", 10)
	assert.Zero(t, v.Big.Cmp(want))

	v = mustUnmarshal(t, "Q340282366920938463463374607431768211455\n")
	require.Equal(t, KindUint128, v.Kind)
	wantU, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	assert.Zero(t, v.Big.Cmp(wantU))
}

func TestDecodeStrings(t *testing.T) {
	assert.True(t, SimpleString("Test").Equal(mustUnmarshal(t, "$Test\n")))
	assert.True(t, SimpleString("").Equal(mustUnmarshal(t, "$\n")))
	assert.True(t, String("a\nb").Equal(mustUnmarshal(t, "&3\na\nb\n")))
	assert.True(t, String("").Equal(mustUnmarshal(t, "&0\n\n")))
	assert.True(t, Binary([]byte{1, 2, 3}).Equal(mustUnmarshal(t, "%3\n\x01\x02\x03\n")))
}

func TestDecodeMapLiteral(t *testing.T) {
	// The documented two-pair example.
	v := mustUnmarshal(t, "{2\nb1\n$Test\nb2\n$Test2\n")
	want := Map(
		Entry{Int8(1), SimpleString("Test")},
		Entry{Int8(2), SimpleString("Test2")},
	)
	assert.True(t, want.Equal(v), "got %v", v)
}

func TestDecodeStruct(t *testing.T) {
	v := mustUnmarshal(t, "}2\nPoint\n]x\ni3\n]y\ni4\n")
	want := Struct("Point", Field{"x", Int32(3)}, Field{"y", Int32(4)})
	require.True(t, want.Equal(v), "got %v", v)
	assert.Equal(t, "Point", v.Name)
	assert.Equal(t, "x", v.Fields[0].Name)
	assert.Equal(t, "y", v.Fields[1].Name)
}

func TestDecodeEnums(t *testing.T) {
	assert.True(t, EnumUnit("Color", "Red").Equal(mustUnmarshal(t, "@Color\nRed\n")))
	assert.True(t,
		EnumTuple("Shape", "Circle", Float64(1.5)).Equal(mustUnmarshal(t, "^1\nShape\nCircle\nF1.5\n")))
	assert.True(t,
		EnumStruct("Shape", "Rect", Field{"w", Int32(3)}, Field{"h", Int32(4)}).
			Equal(mustUnmarshal(t, "#2\nShape\nRect\nw\ni3\nh\ni4\n")))
}

func TestDecodeNestedContainers(t *testing.T) {
	v := mustUnmarshal(t, "`2\n~1\n!\n{1\n$k\n`0\n")
	want := Sequence(Tuple(Nil()), Map(Entry{SimpleString("k"), Sequence()}))
	assert.True(t, want.Equal(v), "got %v", v)
}

func TestDecodeEndOfInput(t *testing.T) {
	_, err := Unmarshal(nil)
	assert.ErrorIs(t, err, ErrEndOfInput)
}

func TestDecodeStream(t *testing.T) {
	dec := NewDecoder(strings.NewReader("b1\n$two\n!\n"))

	v, err := dec.Decode()
	require.NoError(t, err)
	assert.True(t, Int8(1).Equal(v))

	v, err = dec.Decode()
	require.NoError(t, err)
	assert.True(t, SimpleString("two").Equal(v))

	v, err = dec.Decode()
	require.NoError(t, err)
	assert.True(t, Nil().Equal(v))

	_, err = dec.Decode()
	assert.ErrorIs(t, err, ErrEndOfInput)
}

func TestDecodeUnknownTag(t *testing.T) {
	_, err := Unmarshal([]byte{0x05})
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrUnknownTag))

	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, int64(0), werr.Offset)
}

func TestDecodeTruncatedString(t *testing.T) {
	// Declares five payload bytes but only three follow.
	_, err := Unmarshal([]byte("&5\nabc"))
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrTruncatedInput), "got %v", err)
}

func TestDecodeMissingTerminator(t *testing.T) {
	// X where the newline after the declared payload must be.
	_, err := Unmarshal([]byte("&3\nabcX"))
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrMissingTerminator), "got %v", err)

	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, int64(6), werr.Offset)
}

func TestDecodeBoolMissingTerminator(t *testing.T) {
	_, err := Unmarshal([]byte("1X"))
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrMissingTerminator))

	_, err = Unmarshal([]byte("1"))
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrTruncatedInput))
}

func TestDecodeMalformedScalars(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"uint8 overflow", "B256\n"},
		{"int8 underflow", "b-129\n"},
		{"int8 overflow", "b128\n"},
		{"uint rejects sign", "B-1\n"},
		{"not a number", "iabc\n"},
		{"empty payload", "i\n"},
		{"char past unicode", "c1114112\n"},
		{"char surrogate", "c55296\n"},
		{"char negative", "c-1\n"},
		{"float junk", "Fnot-a-float\n"},
		{"i128 overflow", "q170141183460469231731687303715884105728\n"},
		{"u128 negative", "Q-1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tc.data))
			require.Error(t, err)
			assert.True(t, IsKind(err, ErrMalformedScalar), "got %v", err)
		})
	}
}

func TestDecodeBadLengths(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"negative count", "`-1\n"},
		{"non-numeric count", "`abc\n"},
		{"count past 32 bits", "`4294967296\n"},
		{"negative byte length", "&-5\nabcde\n"},
		{"map junk count", "{x\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tc.data))
			require.Error(t, err)
			assert.True(t, IsKind(err, ErrLengthOverflow), "got %v", err)
		})
	}
}

func TestDecodeSimpleStringTooLong(t *testing.T) {
	data := "$" + strings.Repeat("a", MaxSimpleStringLen+1) + "\n"
	_, err := Unmarshal([]byte(data))
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrSimpleStringTooLong))
}

func TestDecodeSimpleStringAtCap(t *testing.T) {
	payload := strings.Repeat("a", MaxSimpleStringLen)
	v := mustUnmarshal(t, "$"+payload+"\n")
	assert.True(t, SimpleString(payload).Equal(v))
}

func TestDecodeInvalidUTF8(t *testing.T) {
	_, err := Unmarshal([]byte("$\xff\xfe\n"))
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrInvalidUTF8))

	_, err = Unmarshal([]byte("&2\n\xff\xfe\n"))
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrInvalidUTF8))

	// Binary takes the same bytes without complaint.
	v := mustUnmarshal(t, "%2\n\xff\xfe\n")
	assert.True(t, Binary([]byte{0xFF, 0xFE}).Equal(v))
}

func TestDecodeDepthExceeded(t *testing.T) {
	data := strings.Repeat("~1\n", DefaultMaxDepth+10)
	_, err := Unmarshal([]byte(data))
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrDepthExceeded), "got %v", err)
}

func TestDecodeDepthConfigurable(t *testing.T) {
	data := strings.Repeat("~1\n", 20) + "!\n"

	dec := NewDecoder(bytes.NewReader([]byte(data)))
	dec.SetMaxDepth(10)
	_, err := dec.Decode()
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrDepthExceeded))

	dec = NewDecoder(bytes.NewReader([]byte(data)))
	dec.SetMaxDepth(50)
	_, err = dec.Decode()
	assert.NoError(t, err)
}

func TestDecodeStructBadFieldMarker(t *testing.T) {
	_, err := Unmarshal([]byte("}1\nPoint\nx\ni3\n"))
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrUnknownTag), "bare field name without ']' marker must fail, got %v", err)
}

func TestDecodeTruncatedContainer(t *testing.T) {
	// Sequence declares three elements, only two present.
	_, err := Unmarshal([]byte("`3\nb1\nb2\n"))
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrTruncatedInput), "got %v", err)
}

func TestDecodeOffsetsAdvance(t *testing.T) {
	dec := NewDecoder(strings.NewReader("b1\nB2\n"))
	_, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, int64(3), dec.Offset())
	_, err = dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, int64(6), dec.Offset())
}
