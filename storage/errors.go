package storage

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is returned when the input ends before the declared
// length fields are satisfied. Decode errors wrap it with the field name
// and byte offset of the short read.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// UnsupportedVersionError reports an object written with a format version
// newer than this codec understands. Permanent for a given stored object.
type UnsupportedVersionError struct {
	Version   uint32
	Supported uint32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("format version %d is newer than supported version %d",
		e.Version, e.Supported)
}

// InvalidEnumError reports a byte field that decoded to an out-of-range
// enum tag.
type InvalidEnumError struct {
	Field string
	Value uint8
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("field %q: invalid enum value %d", e.Field, e.Value)
}

// InvalidTextError reports non-UTF-8 bytes where text is required.
type InvalidTextError struct {
	Field string
}

func (e *InvalidTextError) Error() string {
	return fmt.Sprintf("field %q: text is not valid UTF-8", e.Field)
}

// CorruptError reports structural corruption that is not a plain short
// read, such as a filter descriptor whose config bytes disagree with its
// declared metadata length.
type CorruptError struct {
	Field  string
	Offset int
	Detail string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("field %q at offset %d: %s", e.Field, e.Offset, e.Detail)
}
