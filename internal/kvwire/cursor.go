package kvwire

import (
	"bufio"
	"io"
)

// Cursor wraps an input byte source and tracks the current byte offset so
// every decode failure can be pinned to a position. All reads past the
// available input fail with ErrTruncatedInput, except ReadByte which
// passes a clean io.EOF through so the decoder can tell "no more values"
// apart from a stream that ended mid-value.
type Cursor struct {
	r   *bufio.Reader
	off int64
}

// NewCursor creates a Cursor reading from r. The source may deliver bytes
// in arbitrary chunks; the cursor buffers internally.
func NewCursor(r io.Reader) *Cursor {
	return &Cursor{r: bufio.NewReader(r)}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int64 {
	return c.off
}

// ReadByte reads the next single byte. A clean end of input surfaces as
// io.EOF with the byte count unchanged.
func (c *Cursor) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		return 0, err
	}
	c.off++
	return b, nil
}

// ReadExact reads exactly n bytes, failing with ErrTruncatedInput when the
// input ends short. The returned slice is freshly allocated and owned by
// the caller.
func (c *Cursor) ReadExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(c.r, buf)
	c.off += int64(read)
	if err != nil {
		return nil, errAt(ErrTruncatedInput, c.off, "stream ended after %d of %d payload bytes", read, n)
	}
	return buf, nil
}

// ReadLine reads bytes up to and including the next newline and returns
// them without the newline. Input ending before a newline is seen fails
// with ErrTruncatedInput.
func (c *Cursor) ReadLine() ([]byte, error) {
	line, err := c.r.ReadBytes('\n')
	c.off += int64(len(line))
	if err != nil {
		return nil, errAt(ErrTruncatedInput, c.off, "stream ended before terminating newline")
	}
	return line[:len(line)-1], nil
}
