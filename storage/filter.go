package storage

import (
	"fmt"

	"github.com/davisp/tdbtk/datatype"
)

// FilterType identifies a byte-transform stage in a filter pipeline.
type FilterType uint8

// Filter type codes as persisted on disk.
const (
	FilterNone              FilterType = 0
	FilterGZip              FilterType = 1
	FilterZstd              FilterType = 2
	FilterLZ4               FilterType = 3
	FilterRLE               FilterType = 4
	FilterBZip2             FilterType = 5
	FilterDoubleDelta       FilterType = 6
	FilterBitWidthReduction FilterType = 7
	FilterBitShuffle        FilterType = 8
	FilterByteShuffle       FilterType = 9
	FilterPositiveDelta     FilterType = 10
	FilterEncryption        FilterType = 11
	FilterChecksumMD5       FilterType = 12
	FilterChecksumSHA256    FilterType = 13
	FilterDictionary        FilterType = 14
	FilterScaleFloat        FilterType = 15
	FilterXor               FilterType = 16
	FilterDeprecated        FilterType = 17
	FilterWebP              FilterType = 18
	FilterDelta             FilterType = 19

	// FilterInvalid is the sentinel for unrecognized filter type bytes.
	FilterInvalid FilterType = 255
)

// NewFilterType maps a raw byte to a FilterType; unknown bytes become
// FilterInvalid. Raw descriptor decode never rejects an unknown type;
// only chain construction does.
func NewFilterType(b uint8) FilterType {
	if b <= uint8(FilterDelta) {
		return FilterType(b)
	}
	return FilterInvalid
}

var filterNames = map[FilterType]string{
	FilterNone:              "NONE",
	FilterGZip:              "GZIP",
	FilterZstd:              "ZSTD",
	FilterLZ4:               "LZ4",
	FilterRLE:               "RLE",
	FilterBZip2:             "BZIP2",
	FilterDoubleDelta:       "DOUBLE_DELTA",
	FilterBitWidthReduction: "BIT_WIDTH_REDUCTION",
	FilterBitShuffle:        "BIT_SHUFFLE",
	FilterByteShuffle:       "BYTE_SHUFFLE",
	FilterPositiveDelta:     "POSITIVE_DELTA",
	FilterEncryption:        "ENCRYPTION",
	FilterChecksumMD5:       "CHECKSUM_MD5",
	FilterChecksumSHA256:    "CHECKSUM_SHA256",
	FilterDictionary:        "DICTIONARY",
	FilterScaleFloat:        "SCALE_FLOAT",
	FilterXor:               "XOR",
	FilterDeprecated:        "DEPRECATED",
	FilterWebP:              "WEBP",
	FilterDelta:             "DELTA",
}

// String returns the canonical name of the filter type.
func (t FilterType) String() string {
	if name, ok := filterNames[t]; ok {
		return name
	}
	return fmt.Sprintf("INVALID(%d)", uint8(t))
}

// IsCompression reports whether descriptors of this type carry a
// compression config payload.
func (t FilterType) IsCompression() bool {
	switch t {
	case FilterGZip, FilterZstd, FilterLZ4, FilterRLE, FilterBZip2,
		FilterDelta, FilterDoubleDelta, FilterDictionary:
		return true
	default:
		return false
	}
}

// hasReinterpretType reports whether a compression config of this type
// carries the trailing reinterpret datatype byte at this format version.
func hasReinterpretType(version uint32, t FilterType) bool {
	if version >= 19 && t == FilterDelta {
		return true
	}
	if version >= 20 && t == FilterDoubleDelta {
		return true
	}
	return false
}

// FilterConfig is the type-dependent configuration payload of a filter
// descriptor. It is a closed union: exactly the types below implement it,
// and a descriptor with no payload carries a nil config.
type FilterConfig interface {
	isFilterConfig()
}

// CompressionConfig configures the compression filter family.
type CompressionConfig struct {
	CompressorType FilterType
	Level          int32

	// ReinterpretType is only on the wire for Delta (version >= 19) and
	// DoubleDelta (version >= 20) descriptors; HasReinterpretType records
	// whether it was present.
	ReinterpretType    datatype.DataType
	HasReinterpretType bool
}

// BitWidthReductionConfig configures the bit-width reduction filter.
type BitWidthReductionConfig struct {
	MaxWindowSize uint32
}

// PositiveDeltaConfig configures the positive-delta filter.
type PositiveDeltaConfig struct {
	MaxWindowSize uint32
}

// ScaleFloatConfig configures the float-scaling filter.
type ScaleFloatConfig struct {
	Scale     float64
	Offset    float64
	ByteWidth uint64
}

// WebPConfig configures the WebP image filter.
type WebPConfig struct {
	Quality  float32
	Format   uint8
	Lossless uint8
	YExtent  uint16
	XExtent  uint16
}

func (*CompressionConfig) isFilterConfig()       {}
func (*BitWidthReductionConfig) isFilterConfig() {}
func (*PositiveDeltaConfig) isFilterConfig()     {}
func (*ScaleFloatConfig) isFilterConfig()        {}
func (*WebPConfig) isFilterConfig()              {}

// Filter is a single decoded filter descriptor.
type Filter struct {
	Type        FilterType
	MetadataLen uint32
	Config      FilterConfig
}

// FilterList is an ordered filter pipeline as persisted; order is the
// write-time application order.
type FilterList struct {
	MaxChunkSize uint32
	Filters      []Filter
}

// DecodeFilter decodes a single filter descriptor at the cursor. The type
// byte always decodes (unknown values map to FilterInvalid, whose payload
// is skipped as opaque bytes); the config shape is a pure classification
// of the type. For known types the config bytes must consume exactly the
// descriptor's declared metadata length.
func DecodeFilter(r *Reader, version uint32) (Filter, error) {
	raw, err := r.Uint8("filter_type")
	if err != nil {
		return Filter{}, err
	}
	f := Filter{Type: NewFilterType(raw)}

	f.MetadataLen, err = r.Uint32("filter_metadata_len")
	if err != nil {
		return Filter{}, err
	}

	// An unrecognized kind still frames its config: skip the declared
	// payload so the rest of the pipeline stays decodable.
	if f.Type == FilterInvalid {
		if _, err := r.Bytes("filter_metadata", int(f.MetadataLen)); err != nil {
			return Filter{}, err
		}
		return f, nil
	}

	start := r.Offset()
	f.Config, err = decodeFilterConfig(r, version, f.Type)
	if err != nil {
		return Filter{}, err
	}
	if consumed := r.Offset() - start; consumed != int(f.MetadataLen) {
		return Filter{}, &CorruptError{
			Field:  "filter_metadata_len",
			Offset: start,
			Detail: fmt.Sprintf("%s config consumed %d bytes, descriptor declares %d",
				f.Type, consumed, f.MetadataLen),
		}
	}
	return f, nil
}

func decodeFilterConfig(r *Reader, version uint32, t FilterType) (FilterConfig, error) {
	switch {
	case t.IsCompression():
		cfg := &CompressionConfig{}
		raw, err := r.Uint8("compressor_type")
		if err != nil {
			return nil, err
		}
		cfg.CompressorType = NewFilterType(raw)
		if cfg.Level, err = r.Int32("compression_level"); err != nil {
			return nil, err
		}
		if hasReinterpretType(version, t) {
			rt, err := r.Uint8("reinterpret_type")
			if err != nil {
				return nil, err
			}
			cfg.ReinterpretType = datatype.New(rt)
			cfg.HasReinterpretType = true
		}
		return cfg, nil

	case t == FilterBitWidthReduction:
		w, err := r.Uint32("max_window_size")
		if err != nil {
			return nil, err
		}
		return &BitWidthReductionConfig{MaxWindowSize: w}, nil

	case t == FilterPositiveDelta:
		w, err := r.Uint32("max_window_size")
		if err != nil {
			return nil, err
		}
		return &PositiveDeltaConfig{MaxWindowSize: w}, nil

	case t == FilterScaleFloat:
		cfg := &ScaleFloatConfig{}
		var err error
		if cfg.Scale, err = r.Float64("scale"); err != nil {
			return nil, err
		}
		if cfg.Offset, err = r.Float64("offset"); err != nil {
			return nil, err
		}
		if cfg.ByteWidth, err = r.Uint64("byte_width"); err != nil {
			return nil, err
		}
		return cfg, nil

	case t == FilterWebP:
		cfg := &WebPConfig{}
		var err error
		if cfg.Quality, err = r.Float32("quality"); err != nil {
			return nil, err
		}
		if cfg.Format, err = r.Uint8("format"); err != nil {
			return nil, err
		}
		if cfg.Lossless, err = r.Uint8("lossless"); err != nil {
			return nil, err
		}
		if cfg.YExtent, err = r.Uint16("y_extent"); err != nil {
			return nil, err
		}
		cfg.XExtent, err = r.Uint16("x_extent")
		return cfg, err

	default:
		return nil, nil
	}
}

// DecodeFilterList decodes a pipeline: a chunk-size ceiling followed by a
// count-prefixed descriptor sequence.
func DecodeFilterList(r *Reader, version uint32) (*FilterList, error) {
	list := &FilterList{}
	var err error
	if list.MaxChunkSize, err = r.Uint32("max_chunk_size"); err != nil {
		return nil, err
	}
	count, err := r.Uint32("num_filters")
	if err != nil {
		return nil, err
	}
	// Smallest descriptor: type byte plus metadata length.
	if err := r.CheckCount("num_filters", uint64(count), 5); err != nil {
		return nil, err
	}
	list.Filters = make([]Filter, 0, count)
	for i := uint32(0); i < count; i++ {
		f, err := DecodeFilter(r, version)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		list.Filters = append(list.Filters, f)
	}
	return list, nil
}

// Encode appends the descriptor's wire form. The metadata length is
// computed from the config shape, not taken from MetadataLen.
func (f *Filter) Encode(w *Writer, version uint32) {
	w.Uint8(uint8(f.Type))

	cw := NewWriter()
	encodeFilterConfig(cw, version, f.Type, f.Config)
	w.Uint32(uint32(cw.Len()))
	w.Raw(cw.Bytes())
}

func encodeFilterConfig(w *Writer, version uint32, t FilterType, config FilterConfig) {
	switch cfg := config.(type) {
	case *CompressionConfig:
		w.Uint8(uint8(cfg.CompressorType))
		w.Int32(cfg.Level)
		if hasReinterpretType(version, t) {
			w.Uint8(uint8(cfg.ReinterpretType))
		}
	case *BitWidthReductionConfig:
		w.Uint32(cfg.MaxWindowSize)
	case *PositiveDeltaConfig:
		w.Uint32(cfg.MaxWindowSize)
	case *ScaleFloatConfig:
		w.Float64(cfg.Scale)
		w.Float64(cfg.Offset)
		w.Uint64(cfg.ByteWidth)
	case *WebPConfig:
		w.Float32(cfg.Quality)
		w.Uint8(cfg.Format)
		w.Uint8(cfg.Lossless)
		w.Uint16(cfg.YExtent)
		w.Uint16(cfg.XExtent)
	}
}

// Encode appends the pipeline's wire form.
func (l *FilterList) Encode(w *Writer, version uint32) {
	w.Uint32(l.MaxChunkSize)
	w.Uint32(uint32(len(l.Filters)))
	for i := range l.Filters {
		l.Filters[i].Encode(w, version)
	}
}
