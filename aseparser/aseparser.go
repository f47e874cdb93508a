package aseparser

import (
	"encoding/binary"
	"fmt"
)

// FormatError reports malformed or unsupported file content.
// It always aborts the whole decode.
type FormatError struct {
	Offset int
	Msg    string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("aseparser: %s at offset %d: %v", e.Msg, e.Offset, e.Err)
	}
	return fmt.Sprintf("aseparser: %s at offset %d", e.Msg, e.Offset)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ReferenceError reports a cel or tag pointing at a frame or layer that
// does not exist in the file.
type ReferenceError struct {
	Frame int
	Layer int
	Msg   string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("aseparser: frame %d, layer %d: %s", e.Frame, e.Layer, e.Msg)
}

// reader is a little-endian cursor over a byte slice.
// The first failure sticks; later reads return zero values.
type reader struct {
	buf  []byte
	off  int
	base int
	err  error
}

func newReader(buf []byte, base int) *reader {
	return &reader{buf: buf, base: base}
}

func (r *reader) fail(msg string) {
	if r.err == nil {
		r.err = &FormatError{Offset: r.base + r.off, Msg: msg}
	}
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.buf) {
		r.fail("unexpected end of data")
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() byte {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) u16() uint16 {
	if b := r.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *reader) i16() int16 {
	return int16(r.u16())
}

func (r *reader) u32() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *reader) bytes(n int) []byte {
	return r.take(n)
}

func (r *reader) skip(n int) {
	r.take(n)
}

// rest consumes everything left in the buffer.
func (r *reader) rest() []byte {
	if r.err != nil {
		return nil
	}
	return r.take(len(r.buf) - r.off)
}

// utf8 reads a u16 length-prefixed UTF-8 string without terminator.
func (r *reader) utf8() string {
	n := int(r.u16())
	return string(r.take(n))
}

func (r *reader) magic16(expected uint16) {
	off := r.off
	if got := r.u16(); r.err == nil && got != expected {
		r.err = &FormatError{
			Offset: r.base + off,
			Msg:    fmt.Sprintf("file validation failed: magic 0x%04X, expected 0x%04X", got, expected),
		}
	}
}

func (r *reader) magic32(expected uint32) {
	off := r.off
	if got := r.u32(); r.err == nil && got != expected {
		r.err = &FormatError{
			Offset: r.base + off,
			Msg:    fmt.Sprintf("file validation failed: magic 0x%08X, expected 0x%08X", got, expected),
		}
	}
}

// sub returns a reader over the next n bytes and advances past them.
func (r *reader) sub(n int) *reader {
	start := r.base + r.off
	b := r.take(n)
	if b == nil {
		return &reader{err: r.err}
	}
	return newReader(b, start)
}

func (r *reader) pos() int {
	return r.base + r.off
}

func (r *reader) len() int {
	return len(r.buf) - r.off
}
