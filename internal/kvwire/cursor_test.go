package kvwire

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorReadByteTracksOffset(t *testing.T) {
	c := NewCursor(strings.NewReader("ab"))

	b, err := c.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)
	assert.Equal(t, int64(1), c.Offset())

	b, err = c.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('b'), b)
	assert.Equal(t, int64(2), c.Offset())

	_, err = c.ReadByte()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, int64(2), c.Offset())
}

func TestCursorReadExact(t *testing.T) {
	c := NewCursor(strings.NewReader("hello"))
	got, err := c.ReadExact(5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
	assert.Equal(t, int64(5), c.Offset())
}

func TestCursorReadExactTruncated(t *testing.T) {
	c := NewCursor(strings.NewReader("abc"))
	_, err := c.ReadExact(5)
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrTruncatedInput))

	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, int64(3), werr.Offset)
}

func TestCursorReadLine(t *testing.T) {
	c := NewCursor(strings.NewReader("first\nsecond\n"))

	line, err := c.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), line)
	assert.Equal(t, int64(6), c.Offset())

	line, err = c.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), line)
	assert.Equal(t, int64(13), c.Offset())
}

func TestCursorReadLineEmpty(t *testing.T) {
	c := NewCursor(strings.NewReader("\n"))
	line, err := c.ReadLine()
	require.NoError(t, err)
	assert.Empty(t, line)
}

func TestCursorReadLineTruncated(t *testing.T) {
	c := NewCursor(strings.NewReader("no newline"))
	_, err := c.ReadLine()
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrTruncatedInput))
}

func TestCursorChunkedSource(t *testing.T) {
	// One byte per Read call; the cursor must still assemble whole lines.
	c := NewCursor(iotest.OneByteReader(strings.NewReader("x42\n")))
	b, err := c.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('x'), b)

	line, err := c.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, []byte("42"), line)
	assert.Equal(t, int64(4), c.Offset())
}
