package vfs

import (
	"io"
	"os"
	"strings"
)

// Posix serves local files. URIs may carry a file:// prefix or be plain
// paths.
type Posix struct{}

// NewPosix returns a local-file VFS.
func NewPosix() *Posix {
	return &Posix{}
}

func localPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// Size returns the file's length in bytes.
func (p *Posix) Size(uri string) (uint64, error) {
	fi, err := os.Stat(localPath(uri))
	if err != nil {
		return 0, err
	}
	return uint64(fi.Size()), nil
}

// Read returns length bytes at offset; ReadToEnd reads the remainder of
// the file.
func (p *Posix) Read(uri string, length, offset uint64) ([]byte, error) {
	f, err := os.Open(localPath(uri))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := uint64(fi.Size())
	if offset > size {
		return nil, io.ErrUnexpectedEOF
	}
	if length == ReadToEnd {
		length = size - offset
	}
	// Compare against the remaining bytes before allocating; offset+length
	// could overflow, and length itself may be a hostile header value.
	if length > size-offset {
		return nil, io.ErrUnexpectedEOF
	}

	buf := make([]byte, length)
	if _, err := f.ReadAt(buf, int64(offset)); err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}

// Exists reports whether the file is present.
func (p *Posix) Exists(uri string) (bool, error) {
	_, err := os.Stat(localPath(uri))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
