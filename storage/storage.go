// Package storage implements the persisted wire format of the array
// engine: generic tile headers, filter pipelines, chunked payloads with
// their compression framing, and the version-gated array schema layout.
// All multi-byte fields are little-endian.
//
// Decoding is a strict sequential cursor read. Field presence in the
// schema is gated by the schema's own format version; absent fields take
// documented defaults. Enum bytes always decode (unknown values map to an
// Invalid sentinel); rejection of Invalid values belongs to validation,
// except where a value's width is consumed structurally during the read.
package storage

// CurrentFormatVersion is the newest on-disk format version this codec
// understands. Objects written with a newer version are rejected.
const CurrentFormatVersion uint32 = 21

// CellVarSize marks a variable-length cell value count. String-like data
// types default to it.
const CellVarSize uint32 = 0xFFFFFFFF

// GenericTileHeaderSize is the fixed byte length of a GenericTileHeader.
const GenericTileHeaderSize = 34
