package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davisp/tdbtk/datatype"
)

// TestNewFilterType tests byte mapping including the Invalid sentinel.
func TestNewFilterType(t *testing.T) {
	require.Equal(t, FilterNone, NewFilterType(0))
	require.Equal(t, FilterDelta, NewFilterType(19))
	require.Equal(t, FilterInvalid, NewFilterType(20))
	require.Equal(t, FilterInvalid, NewFilterType(255))
}

// TestIsCompression tests the config-shape classification.
func TestIsCompression(t *testing.T) {
	compression := []FilterType{
		FilterGZip, FilterZstd, FilterLZ4, FilterRLE, FilterBZip2,
		FilterDelta, FilterDoubleDelta, FilterDictionary,
	}
	for _, ft := range compression {
		require.True(t, ft.IsCompression(), "%s", ft)
	}
	for _, ft := range []FilterType{FilterNone, FilterBitShuffle, FilterWebP, FilterInvalid} {
		require.False(t, ft.IsCompression(), "%s", ft)
	}
}

// TestDecodeFilterConfigs tests each descriptor config shape round-trip.
func TestDecodeFilterConfigs(t *testing.T) {
	tests := []struct {
		name    string
		version uint32
		filter  Filter
	}{
		{
			name:    "no config",
			version: 10,
			filter:  Filter{Type: FilterByteShuffle},
		},
		{
			name:    "compression",
			version: 10,
			filter: Filter{
				Type:   FilterGZip,
				Config: &CompressionConfig{CompressorType: FilterGZip, Level: 6},
			},
		},
		{
			name:    "bit width reduction",
			version: 10,
			filter: Filter{
				Type:   FilterBitWidthReduction,
				Config: &BitWidthReductionConfig{MaxWindowSize: 256},
			},
		},
		{
			name:    "positive delta",
			version: 10,
			filter: Filter{
				Type:   FilterPositiveDelta,
				Config: &PositiveDeltaConfig{MaxWindowSize: 1024},
			},
		},
		{
			name:    "scale float",
			version: 10,
			filter: Filter{
				Type:   FilterScaleFloat,
				Config: &ScaleFloatConfig{Scale: 0.5, Offset: 10.25, ByteWidth: 4},
			},
		},
		{
			name:    "webp",
			version: 10,
			filter: Filter{
				Type: FilterWebP,
				Config: &WebPConfig{
					Quality: 85.5, Format: 1, Lossless: 0, YExtent: 480, XExtent: 640,
				},
			},
		},
		{
			name:    "delta with reinterpret type",
			version: 19,
			filter: Filter{
				Type: FilterDelta,
				Config: &CompressionConfig{
					CompressorType:     FilterDelta,
					Level:              -1,
					ReinterpretType:    datatype.Uint64,
					HasReinterpretType: true,
				},
			},
		},
		{
			name:    "double delta with reinterpret type",
			version: 20,
			filter: Filter{
				Type: FilterDoubleDelta,
				Config: &CompressionConfig{
					CompressorType:     FilterDoubleDelta,
					Level:              0,
					ReinterpretType:    datatype.Int32,
					HasReinterpretType: true,
				},
			},
		},
		{
			name:    "double delta before reinterpret gate",
			version: 19,
			filter: Filter{
				Type: FilterDoubleDelta,
				Config: &CompressionConfig{
					CompressorType: FilterDoubleDelta,
					Level:          0,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			tt.filter.Encode(w, tt.version)

			got, err := DecodeFilter(NewReader(w.Bytes()), tt.version)
			require.NoError(t, err)
			require.Equal(t, tt.filter.Type, got.Type)
			require.Equal(t, tt.filter.Config, got.Config)
		})
	}
}

// TestDecodeFilterUnknownType tests that raw decode accepts an unknown
// type byte and skips its opaque payload, keeping descriptors after it
// decodable.
func TestDecodeFilterUnknownType(t *testing.T) {
	w := NewWriter()
	w.Uint32(65536)
	w.Uint32(2) // two filters
	w.Uint8(77) // unknown type byte
	w.Uint32(6) // opaque payload
	w.Raw([]byte{1, 2, 3, 4, 5, 6})
	w.Uint8(uint8(FilterGZip))
	w.Uint32(5)
	w.Uint8(uint8(FilterGZip))
	w.Int32(6)

	got, err := DecodeFilterList(NewReader(w.Bytes()), 10)
	require.NoError(t, err)
	require.Len(t, got.Filters, 2)
	require.Equal(t, FilterInvalid, got.Filters[0].Type)
	require.Equal(t, uint32(6), got.Filters[0].MetadataLen)
	require.Nil(t, got.Filters[0].Config)
	require.Equal(t, FilterGZip, got.Filters[1].Type)

	// A truncated opaque payload is still a short read.
	w = NewWriter()
	w.Uint8(77)
	w.Uint32(6)
	w.Raw([]byte{1, 2, 3})
	_, err = DecodeFilter(NewReader(w.Bytes()), 10)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

// TestDecodeFilterMetadataLenMismatch tests that a descriptor whose
// declared metadata length disagrees with its config shape is corruption.
func TestDecodeFilterMetadataLenMismatch(t *testing.T) {
	w := NewWriter()
	w.Uint8(uint8(FilterGZip))
	w.Uint32(3) // compression config is 5 bytes at this version
	w.Uint8(uint8(FilterGZip))
	w.Int32(6)

	_, err := DecodeFilter(NewReader(w.Bytes()), 10)
	var corrupt *CorruptError
	require.ErrorAs(t, err, &corrupt)
}

// TestDecodeFilterListRoundTrip tests pipeline encode/decode.
func TestDecodeFilterListRoundTrip(t *testing.T) {
	list := &FilterList{
		MaxChunkSize: 65536,
		Filters: []Filter{
			{Type: FilterByteShuffle},
			{Type: FilterZstd, Config: &CompressionConfig{CompressorType: FilterZstd, Level: 3}},
		},
	}

	w := NewWriter()
	list.Encode(w, CurrentFormatVersion)

	got, err := DecodeFilterList(NewReader(w.Bytes()), CurrentFormatVersion)
	require.NoError(t, err)
	require.Equal(t, uint32(65536), got.MaxChunkSize)
	require.Len(t, got.Filters, 2)
	require.Equal(t, FilterByteShuffle, got.Filters[0].Type)
	require.Equal(t, FilterZstd, got.Filters[1].Type)
}

// TestDecodeFilterListTruncated tests short input and an impossible count.
func TestDecodeFilterListTruncated(t *testing.T) {
	w := NewWriter()
	w.Uint32(65536)
	w.Uint32(100) // declares 100 filters, provides none

	_, err := DecodeFilterList(NewReader(w.Bytes()), CurrentFormatVersion)
	require.ErrorIs(t, err, ErrUnexpectedEOF)

	_, err = DecodeFilterList(NewReader([]byte{1, 2}), CurrentFormatVersion)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}
