package vfs

import (
	"fmt"
	"io"
)

// Mem is an in-memory VFS keyed by URI, for tests and tooling.
type Mem struct {
	objects map[string][]byte
}

// NewMem returns an empty in-memory VFS.
func NewMem() *Mem {
	return &Mem{objects: make(map[string][]byte)}
}

// Put stores data under uri, replacing any previous object.
func (m *Mem) Put(uri string, data []byte) {
	m.objects[uri] = append([]byte(nil), data...)
}

// Size returns the object's length in bytes.
func (m *Mem) Size(uri string) (uint64, error) {
	data, ok := m.objects[uri]
	if !ok {
		return 0, fmt.Errorf("no object at %q", uri)
	}
	return uint64(len(data)), nil
}

// Read returns length bytes at offset; ReadToEnd reads the remainder of
// the object.
func (m *Mem) Read(uri string, length, offset uint64) ([]byte, error) {
	data, ok := m.objects[uri]
	if !ok {
		return nil, fmt.Errorf("no object at %q", uri)
	}
	size := uint64(len(data))
	if offset > size {
		return nil, io.ErrUnexpectedEOF
	}
	if length == ReadToEnd {
		length = size - offset
	}
	// Compare against the remaining bytes; offset+length could overflow.
	if length > size-offset {
		return nil, io.ErrUnexpectedEOF
	}
	return append([]byte(nil), data[offset:offset+length]...), nil
}

// Exists reports whether an object is present at uri.
func (m *Mem) Exists(uri string) (bool, error) {
	_, ok := m.objects[uri]
	return ok, nil
}
