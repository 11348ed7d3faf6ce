package storage

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Reader is a sequential little-endian cursor over an in-memory buffer.
// Every accessor takes the field name being read so that short reads
// surface as errors naming the field and its byte offset.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a cursor positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) take(field string, n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("field %q at offset %d (need %d bytes, have %d): %w",
			field, r.off, n, r.Remaining(), ErrUnexpectedEOF)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Uint8 reads one byte.
func (r *Reader) Uint8(field string) (uint8, error) {
	b, err := r.take(field, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a little-endian 16-bit value.
func (r *Reader) Uint16(field string) (uint16, error) {
	b, err := r.take(field, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 reads a little-endian 32-bit value.
func (r *Reader) Uint32(field string) (uint32, error) {
	b, err := r.take(field, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 reads a little-endian 64-bit value.
func (r *Reader) Uint64(field string) (uint64, error) {
	b, err := r.take(field, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Int32 reads a little-endian signed 32-bit value.
func (r *Reader) Int32(field string) (int32, error) {
	v, err := r.Uint32(field)
	return int32(v), err
}

// Float32 reads a little-endian IEEE 754 single.
func (r *Reader) Float32(field string) (float32, error) {
	v, err := r.Uint32(field)
	return math.Float32frombits(v), err
}

// Float64 reads a little-endian IEEE 754 double.
func (r *Reader) Float64(field string) (float64, error) {
	v, err := r.Uint64(field)
	return math.Float64frombits(v), err
}

// Bytes reads n bytes into a freshly allocated slice. The copy keeps
// decoded structures independent of the input buffer's lifetime.
func (r *Reader) Bytes(field string, n int) ([]byte, error) {
	b, err := r.take(field, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// String reads n bytes and validates them as UTF-8.
func (r *Reader) String(field string, n int) (string, error) {
	b, err := r.take(field, n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", &InvalidTextError{Field: field}
	}
	return string(b), nil
}

// CheckCount guards a decoded element count against the remaining input
// before any allocation sized by it. minElemSize is the smallest possible
// encoding of one element; a count that cannot fit is corruption.
func (r *Reader) CheckCount(field string, count uint64, minElemSize int) error {
	if minElemSize > 0 && count > uint64(r.Remaining())/uint64(minElemSize) {
		return fmt.Errorf("field %q at offset %d (count %d exceeds remaining input): %w",
			field, r.off, count, ErrUnexpectedEOF)
	}
	return nil
}
