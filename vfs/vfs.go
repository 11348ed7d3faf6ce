// Package vfs abstracts the byte storage the codec reads from. The codec
// never lists directories or interprets URI schemes; it only issues
// offset/length reads against URIs supplied by the caller.
package vfs

// ReadToEnd as a read length means "read from offset to end of file".
const ReadToEnd = ^uint64(0)

// VFS is the narrow storage surface the codec consumes. Implementations
// own any locking, retries, and timeouts; the codec treats every returned
// error as a surfaced I/O failure.
type VFS interface {
	// Size returns the byte length of the object at uri.
	Size(uri string) (uint64, error)

	// Read returns length bytes starting at offset. A length of ReadToEnd
	// reads to the end of the object. Short objects are an error.
	Read(uri string, length, offset uint64) ([]byte, error)

	// Exists reports whether an object is present at uri.
	Exists(uri string) (bool, error)
}
