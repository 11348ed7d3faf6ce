package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGenericTileHeaderRoundTrip tests the fixed 34-byte header layout.
func TestGenericTileHeaderRoundTrip(t *testing.T) {
	h := &GenericTileHeader{
		Version:            21,
		PersistedSize:      1000,
		TileSize:           4096,
		Datatype:           3,
		CellSize:           8,
		EncryptionType:     0,
		FilterPipelineSize: 17,
	}

	w := NewWriter()
	h.Encode(w)
	require.Equal(t, GenericTileHeaderSize, w.Len())

	got, err := DecodeGenericTileHeader(NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, h, got)
}

// TestGenericTileHeaderFieldOffsets pins the exact little-endian layout.
func TestGenericTileHeaderFieldOffsets(t *testing.T) {
	h := &GenericTileHeader{
		Version:            1,
		PersistedSize:      0x0102030405060708,
		TileSize:           13,
		Datatype:           11,
		CellSize:           1,
		EncryptionType:     2,
		FilterPipelineSize: 9,
	}
	w := NewWriter()
	h.Encode(w)
	raw := w.Bytes()

	require.Equal(t, []byte{1, 0, 0, 0}, raw[0:4])                       // version
	require.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, raw[4:12])          // persisted_size
	require.Equal(t, []byte{13, 0, 0, 0, 0, 0, 0, 0}, raw[12:20])        // tile_size
	require.Equal(t, byte(11), raw[20])                                  // datatype
	require.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, raw[21:29])         // cell_size
	require.Equal(t, byte(2), raw[29])                                   // encryption_type
	require.Equal(t, []byte{9, 0, 0, 0}, raw[30:34])                     // filter_pipeline_size
}

// TestGenericTileHeaderUnsupportedVersion tests rejection of newer tiles.
func TestGenericTileHeaderUnsupportedVersion(t *testing.T) {
	h := &GenericTileHeader{Version: CurrentFormatVersion + 1}
	w := NewWriter()
	h.Encode(w)

	_, err := DecodeGenericTileHeader(NewReader(w.Bytes()))
	var verr *UnsupportedVersionError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, CurrentFormatVersion+1, verr.Version)
}

// TestChunkedDataRoundTrip tests chunk framing encode/decode.
func TestChunkedDataRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cd   ChunkedData
	}{
		{"no chunks", ChunkedData{}},
		{"one chunk", ChunkedData{Chunks: []Chunk{
			{OriginalSize: 5, Metadata: []byte{9}, Data: []byte("hello")},
		}}},
		{"several chunks", ChunkedData{Chunks: []Chunk{
			{OriginalSize: 3, Data: []byte("abc")},
			{OriginalSize: 0},
			{OriginalSize: 2, Metadata: []byte{1, 2, 3, 4}, Data: []byte("xy")},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			tt.cd.Encode(w)

			got, err := DecodeChunkedData(NewReader(w.Bytes()))
			require.NoError(t, err)
			require.Len(t, got.Chunks, len(tt.cd.Chunks))
			for i := range tt.cd.Chunks {
				require.Equal(t, tt.cd.Chunks[i].OriginalSize, got.Chunks[i].OriginalSize)
				require.Equal(t, tt.cd.Chunks[i].Metadata, got.Chunks[i].Metadata)
				require.Equal(t, tt.cd.Chunks[i].Data, got.Chunks[i].Data)
			}
		})
	}
}

// TestChunkedDataTruncated tests short reads and hostile counts.
func TestChunkedDataTruncated(t *testing.T) {
	w := NewWriter()
	w.Uint64(1)
	w.Uint32(10) // original_size
	w.Uint32(10) // data_size
	w.Uint32(0)  // metadata_size
	w.Raw([]byte("short"))

	_, err := DecodeChunkedData(NewReader(w.Bytes()))
	require.ErrorIs(t, err, ErrUnexpectedEOF)

	w = NewWriter()
	w.Uint64(1 << 50) // impossible chunk count
	_, err = DecodeChunkedData(NewReader(w.Bytes()))
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

// TestCompressionChunksRoundTrip tests the nested sub-framing.
func TestCompressionChunksRoundTrip(t *testing.T) {
	cc := &CompressionChunks{
		MetadataParts: []CompressionChunkInfo{{UncompressedSize: 4, CompressedSize: 2}},
		DataParts: []CompressionChunkInfo{
			{UncompressedSize: 6, CompressedSize: 3},
			{UncompressedSize: 100, CompressedSize: 80},
		},
	}

	got, err := DecodeCompressionChunks(cc.Encode())
	require.NoError(t, err)
	require.Equal(t, cc, got)
}

// TestCompressionChunksEmptyMetadata tests decoding from an empty
// metadata buffer fails as truncation.
func TestCompressionChunksEmptyMetadata(t *testing.T) {
	_, err := DecodeCompressionChunks(nil)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}
