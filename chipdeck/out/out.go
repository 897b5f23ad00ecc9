// Package out provides byte outputs for running the player on a host
// machine without a chip attached: discard, trace logging, raw dumps
// and a ring-buffer tap for the status view.
package out

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/chipdeck/go-chipdeck/chipdeck/psg"
)

// Discard drops every byte. Useful for headless timing runs.
var Discard psg.ByteOut = discard{}

type discard struct{}

func (discard) SendByte(b byte) error { return nil }

// Trace logs every byte at debug level.
type Trace struct{}

func (Trace) SendByte(b byte) error {
	slog.Debug("psg write", "byte", fmt.Sprintf("0x%02x", b))
	return nil
}

// Writer dumps the raw command bytes to an io.Writer, e.g. a file for
// later inspection.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) SendByte(b byte) error {
	_, err := w.w.Write([]byte{b})
	return err
}

// Ring forwards bytes to another output while remembering the most
// recent ones. The status view reads them to show live register
// activity.
type Ring struct {
	next  psg.ByteOut
	buf   []byte
	start int
	size  int
	total uint64
}

// NewRing creates a tap holding the last n bytes in front of next.
// n is clamped to at least 1.
func NewRing(next psg.ByteOut, n int) *Ring {
	if n < 1 {
		n = 1
	}
	return &Ring{next: next, buf: make([]byte, n)}
}

func (r *Ring) SendByte(b byte) error {
	if err := r.next.SendByte(b); err != nil {
		return err
	}
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = b
		r.size++
	} else {
		r.buf[r.start] = b
		r.start = (r.start + 1) % len(r.buf)
	}
	r.total++
	return nil
}

// Recent returns the buffered bytes, oldest first.
func (r *Ring) Recent() []byte {
	res := make([]byte, r.size)
	for i := 0; i < r.size; i++ {
		res[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return res
}

// Total returns how many bytes have passed through the tap.
func (r *Ring) Total() uint64 {
	return r.total
}
