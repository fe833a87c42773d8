package kvwire

import (
	"bytes"
	"io"
	"strconv"
)

// Writer wraps an output sink and provides the primitive writes the
// encoder is built from. It keeps the first error encountered and turns
// every later write into a no-op, so encoding code can stay linear and
// check Error() once at the end.
type Writer struct {
	w   io.Writer
	err error
	n   int
}

// NewWriter creates a Writer emitting to w. A bytes.Buffer is commonly
// used as the underlying sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Error returns the first error that occurred during writing, if any.
func (w *Writer) Error() error {
	return w.err
}

// BytesWritten returns the number of bytes successfully written so far.
func (w *Writer) BytesWritten() int {
	return w.n
}

// Bytes returns the accumulated output if the underlying sink is a
// *bytes.Buffer, nil otherwise.
func (w *Writer) Bytes() []byte {
	if w.err != nil {
		return nil
	}
	if bb, ok := w.w.(*bytes.Buffer); ok {
		return bb.Bytes()
	}
	return nil
}

func (w *Writer) recordError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

func (w *Writer) writeByte(b byte) {
	if w.err != nil {
		return
	}
	_, err := w.w.Write([]byte{b})
	if err == nil {
		w.n++
	}
	w.recordError(err)
}

func (w *Writer) write(p []byte) {
	if w.err != nil || len(p) == 0 {
		return
	}
	written, err := w.w.Write(p)
	w.n += written
	w.recordError(err)
}

func (w *Writer) writeString(s string) {
	w.write([]byte(s))
}

// writeLine writes s followed by the terminating newline.
func (w *Writer) writeLine(s string) {
	w.writeString(s)
	w.writeByte('\n')
}

// writeHeader writes an indicator byte followed by a decimal length or
// count line.
func (w *Writer) writeHeader(tag byte, n int) {
	w.writeByte(tag)
	w.writeLine(strconv.FormatUint(uint64(n), 10))
}
