package storage

import "fmt"

// GenericTileHeader is the fixed 34-byte header read first at any tile's
// storage offset. It governs how much to read next: FilterPipelineSize
// bytes of pipeline immediately follow the header, then PersistedSize
// bytes of chunked payload.
type GenericTileHeader struct {
	Version            uint32
	PersistedSize      uint64
	TileSize           uint64
	Datatype           uint8
	CellSize           uint64
	EncryptionType     uint8
	FilterPipelineSize uint32
}

// DecodeGenericTileHeader decodes the fixed header at the cursor.
func DecodeGenericTileHeader(r *Reader) (*GenericTileHeader, error) {
	h := &GenericTileHeader{}
	var err error
	if h.Version, err = r.Uint32("version"); err != nil {
		return nil, err
	}
	if h.Version > CurrentFormatVersion {
		return nil, &UnsupportedVersionError{Version: h.Version, Supported: CurrentFormatVersion}
	}
	if h.PersistedSize, err = r.Uint64("persisted_size"); err != nil {
		return nil, err
	}
	if h.TileSize, err = r.Uint64("tile_size"); err != nil {
		return nil, err
	}
	if h.Datatype, err = r.Uint8("datatype"); err != nil {
		return nil, err
	}
	if h.CellSize, err = r.Uint64("cell_size"); err != nil {
		return nil, err
	}
	if h.EncryptionType, err = r.Uint8("encryption_type"); err != nil {
		return nil, err
	}
	if h.FilterPipelineSize, err = r.Uint32("filter_pipeline_size"); err != nil {
		return nil, err
	}
	return h, nil
}

// Encode appends the header's fixed 34-byte wire form.
func (h *GenericTileHeader) Encode(w *Writer) {
	w.Uint32(h.Version)
	w.Uint64(h.PersistedSize)
	w.Uint64(h.TileSize)
	w.Uint8(h.Datatype)
	w.Uint64(h.CellSize)
	w.Uint8(h.EncryptionType)
	w.Uint32(h.FilterPipelineSize)
}

// Chunk is one independently filtered slice of a tile. OriginalSize is
// the chunk's pre-filter length; Metadata carries filter-specific
// side-channel framing; Data carries the filtered payload.
type Chunk struct {
	OriginalSize uint32
	Metadata     []byte
	Data         []byte
}

// ChunkedData is a tile's persisted payload: an ordered chunk sequence.
type ChunkedData struct {
	Chunks []Chunk
}

// DecodeChunkedData decodes the chunk framing at the cursor.
func DecodeChunkedData(r *Reader) (*ChunkedData, error) {
	count, err := r.Uint64("num_chunks")
	if err != nil {
		return nil, err
	}
	// Smallest chunk: the three size fields.
	if err := r.CheckCount("num_chunks", count, 12); err != nil {
		return nil, err
	}
	cd := &ChunkedData{Chunks: make([]Chunk, 0, count)}
	for i := uint64(0); i < count; i++ {
		c, err := decodeChunk(r)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		cd.Chunks = append(cd.Chunks, c)
	}
	return cd, nil
}

func decodeChunk(r *Reader) (Chunk, error) {
	c := Chunk{}
	var err error
	if c.OriginalSize, err = r.Uint32("original_size"); err != nil {
		return Chunk{}, err
	}
	dataSize, err := r.Uint32("data_size")
	if err != nil {
		return Chunk{}, err
	}
	metadataSize, err := r.Uint32("metadata_size")
	if err != nil {
		return Chunk{}, err
	}
	if c.Metadata, err = r.Bytes("metadata", int(metadataSize)); err != nil {
		return Chunk{}, err
	}
	if c.Data, err = r.Bytes("data", int(dataSize)); err != nil {
		return Chunk{}, err
	}
	return c, nil
}

// Encode appends the payload's wire form.
func (cd *ChunkedData) Encode(w *Writer) {
	w.Uint64(uint64(len(cd.Chunks)))
	for i := range cd.Chunks {
		c := &cd.Chunks[i]
		w.Uint32(c.OriginalSize)
		w.Uint32(uint32(len(c.Data)))
		w.Uint32(uint32(len(c.Metadata)))
		w.Raw(c.Metadata)
		w.Raw(c.Data)
	}
}

// CompressionChunkInfo maps one compressed byte range to its decompressed
// length.
type CompressionChunkInfo struct {
	UncompressedSize uint32
	CompressedSize   uint32
}

// CompressionChunks is the nested sub-framing a compression filter stores
// in a chunk's metadata. The compressed bytes for the metadata parts
// precede those for the data parts in the chunk's contiguous data field.
type CompressionChunks struct {
	MetadataParts []CompressionChunkInfo
	DataParts     []CompressionChunkInfo
}

// DecodeCompressionChunks decodes the sub-framing from a chunk's metadata
// bytes.
func DecodeCompressionChunks(metadata []byte) (*CompressionChunks, error) {
	r := NewReader(metadata)
	numMeta, err := r.Uint32("num_metadata_parts")
	if err != nil {
		return nil, err
	}
	numData, err := r.Uint32("num_data_parts")
	if err != nil {
		return nil, err
	}
	if err := r.CheckCount("num_metadata_parts", uint64(numMeta)+uint64(numData), 8); err != nil {
		return nil, err
	}
	cc := &CompressionChunks{
		MetadataParts: make([]CompressionChunkInfo, numMeta),
		DataParts:     make([]CompressionChunkInfo, numData),
	}
	if err := decodeChunkInfos(r, cc.MetadataParts); err != nil {
		return nil, err
	}
	if err := decodeChunkInfos(r, cc.DataParts); err != nil {
		return nil, err
	}
	return cc, nil
}

func decodeChunkInfos(r *Reader, parts []CompressionChunkInfo) error {
	for i := range parts {
		var err error
		if parts[i].UncompressedSize, err = r.Uint32("uncompressed_size"); err != nil {
			return err
		}
		if parts[i].CompressedSize, err = r.Uint32("compressed_size"); err != nil {
			return err
		}
	}
	return nil
}

// Encode returns the sub-framing's wire form.
func (cc *CompressionChunks) Encode() []byte {
	w := NewWriter()
	w.Uint32(uint32(len(cc.MetadataParts)))
	w.Uint32(uint32(len(cc.DataParts)))
	for _, p := range cc.MetadataParts {
		w.Uint32(p.UncompressedSize)
		w.Uint32(p.CompressedSize)
	}
	for _, p := range cc.DataParts {
		w.Uint32(p.UncompressedSize)
		w.Uint32(p.CompressedSize)
	}
	return w.Bytes()
}
