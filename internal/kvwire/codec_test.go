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

func roundTrip(t *testing.T, v Value) {
	t.Helper()
	data, err := Marshal(v)
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, v.Equal(got), "encoded %q, decoded to %v", data, got)
}

func TestRoundTripEveryKind(t *testing.T) {
	maxU128, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	minI128, _ := new(big.Int).SetString("-170141183460469231731687303715884105728", 10)

	values := []Value{
		SimpleString("Test"),
		SimpleString(""),
		String("multi\nline\ntext"),
		Identifier("column_name"),
		Char('A'),
		Char('é'),
		Char(0x10FFFF),
		Binary([]byte{0, 1, 2, 0xFF}),
		Binary(nil),
		Bool(true),
		Bool(false),
		Nil(),
		Int8(-128), Int8(127),
		Int16(-32768), Int16(32767),
		Int32(math.MinInt32), Int32(math.MaxInt32),
		Int64(math.MinInt64), Int64(math.MaxInt64),
		Uint8(0), Uint8(255),
		Uint16(65535),
		Uint32(math.MaxUint32),
		Uint64(math.MaxUint64),
		Int128(minI128),
		Uint128(maxU128),
		Float32(1.5), Float32(float32(math.Inf(1))),
		Float64(-2.75), Float64(math.NaN()),
		Sequence(),
		Sequence(Int8(1), SimpleString("x"), Nil()),
		Tuple(),
		Tuple(Bool(true), Float64(0.5)),
		NamedTuple("Meters", Int32(5)),
		Map(),
		Map(Entry{Int8(1), SimpleString("Test")}, Entry{Int8(2), SimpleString("Test2")}),
		Struct("Marker"),
		Struct("Point", Field{"x", Int32(3)}, Field{"y", Int32(4)}),
		EnumUnit("Color", "Red"),
		EnumTuple("Shape", "Circle", Float64(1.5)),
		EnumStruct("Shape", "Rect", Field{"w", Int32(3)}, Field{"h", Int32(4)}),
	}
	for _, v := range values {
		t.Run(v.Kind.String()+"/"+v.String(), func(t *testing.T) {
			roundTrip(t, v)
		})
	}
}

func TestRoundTripDeepNesting(t *testing.T) {
	v := Nil()
	for i := 0; i < 100; i++ {
		v = Tuple(v)
	}
	roundTrip(t, v)
}

func TestRoundTripFloatPrecision(t *testing.T) {
	for _, f := range []float64{0, math.Copysign(0, -1), 0.1, 1.0 / 3.0, math.MaxFloat64, math.SmallestNonzeroFloat64} {
		roundTrip(t, Float64(f))
	}
	for _, f := range []float32{0.1, math.MaxFloat32, math.SmallestNonzeroFloat32} {
		roundTrip(t, Float32(f))
	}
}

func TestRoundTripStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	values := []Value{
		Int8(1),
		Struct("Point", Field{"x", Int32(3)}, Field{"y", Int32(4)}),
		SimpleString("done"),
	}
	for _, v := range values {
		require.NoError(t, enc.Encode(v))
	}

	dec := NewDecoder(&buf)
	for _, want := range values {
		got, err := dec.Decode()
		require.NoError(t, err)
		assert.True(t, want.Equal(got))
	}
	_, err := dec.Decode()
	assert.ErrorIs(t, err, ErrEndOfInput)
}

func TestRoundTripCanonical(t *testing.T) {
	// decode(encode(v)) == v and encode(decode(b)) == b for well-formed b.
	data := []byte("}2\nPoint\n]x\ni3\n]y\ni4\n")
	v, err := Unmarshal(data)
	require.NoError(t, err)
	again, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestRoundTripBinaryWithNewlines(t *testing.T) {
	// Payload bytes equal to the terminator must not confuse the framing.
	payload := []byte("\n\n\n")
	roundTrip(t, Binary(payload))
	roundTrip(t, String(strings.Repeat("\n", 5)))
}
