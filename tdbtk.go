// Package tdbtk reads the on-disk format of a columnar array storage
// engine: generic tiles (the engine's unit of stored data) and the array
// schemas persisted inside them. It reverses the ordered pipeline of
// byte-level filters (compression and others) applied at write time.
//
// Byte storage is abstracted behind vfs.VFS; the codec only issues
// offset/length reads against caller-supplied URIs. Decoding is
// synchronous and allocation-isolated: concurrent callers may decode
// independent tiles without coordination.
package tdbtk

import (
	"fmt"

	"github.com/davisp/tdbtk/array"
	"github.com/davisp/tdbtk/filters"
	"github.com/davisp/tdbtk/storage"
	"github.com/davisp/tdbtk/vfs"
)

// ReadGenericTile reads the tile stored at offset in the object at uri
// and returns its logical bytes: it decodes the fixed header, the filter
// pipeline, and the chunked payload, then runs the reverse-order
// unfilter walk.
func ReadGenericTile(fs vfs.VFS, uri string, offset uint64) ([]byte, error) {
	raw, err := fs.Read(uri, storage.GenericTileHeaderSize, offset)
	if err != nil {
		return nil, err
	}
	header, err := storage.DecodeGenericTileHeader(storage.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("tile header at %s offset %d: %w", uri, offset, err)
	}

	pipelineOffset := offset + storage.GenericTileHeaderSize
	raw, err = fs.Read(uri, uint64(header.FilterPipelineSize), pipelineOffset)
	if err != nil {
		return nil, err
	}
	pipeline, err := storage.DecodeFilterList(storage.NewReader(raw), header.Version)
	if err != nil {
		return nil, fmt.Errorf("tile pipeline at %s offset %d: %w", uri, pipelineOffset, err)
	}
	chain, err := filters.NewChain(pipeline)
	if err != nil {
		return nil, err
	}

	dataOffset := pipelineOffset + uint64(header.FilterPipelineSize)
	raw, err = fs.Read(uri, header.PersistedSize, dataOffset)
	if err != nil {
		return nil, err
	}
	chunks, err := storage.DecodeChunkedData(storage.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("tile payload at %s offset %d: %w", uri, dataOffset, err)
	}

	data, err := chain.UnfilterChunks(chunks)
	if err != nil {
		return nil, fmt.Errorf("unfiltering tile at %s offset %d: %w", uri, offset, err)
	}
	return data, nil
}

// WriteGenericTile encodes data as a generic tile: it filters the payload
// through the pipeline and frames it behind a header. The inverse of
// ReadGenericTile for implemented filters.
func WriteGenericTile(pipeline *storage.FilterList, data []byte) ([]byte, error) {
	chain, err := filters.NewChain(pipeline)
	if err != nil {
		return nil, err
	}
	chunks, err := chain.FilterChunks(data, pipeline.MaxChunkSize)
	if err != nil {
		return nil, err
	}

	pw := storage.NewWriter()
	pipeline.Encode(pw, storage.CurrentFormatVersion)
	cw := storage.NewWriter()
	chunks.Encode(cw)

	header := storage.GenericTileHeader{
		Version:            storage.CurrentFormatVersion,
		PersistedSize:      uint64(cw.Len()),
		TileSize:           uint64(len(data)),
		CellSize:           1,
		FilterPipelineSize: uint32(pw.Len()),
	}
	w := storage.NewWriter()
	header.Encode(w)
	w.Raw(pw.Bytes())
	w.Raw(cw.Bytes())
	return w.Bytes(), nil
}

// LoadArraySchema reads the array schema stored as a generic tile at the
// start of the object at uri, decodes its version-gated layout, and
// returns the validated logical schema.
func LoadArraySchema(fs vfs.VFS, uri string) (*array.Schema, error) {
	data, err := ReadGenericTile(fs, uri, 0)
	if err != nil {
		return nil, err
	}
	ws, err := storage.DecodeArraySchema(data)
	if err != nil {
		return nil, fmt.Errorf("schema at %s: %w", uri, err)
	}
	schema, err := array.NewSchema(ws)
	if err != nil {
		return nil, fmt.Errorf("schema at %s: %w", uri, err)
	}
	return schema, nil
}
