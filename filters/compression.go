package filters

import (
	"fmt"

	"github.com/davisp/tdbtk/storage"
)

// compressor is the primitive behind a compression filter: whole-buffer
// compression, and decompression into an exactly-sized destination.
type compressor interface {
	compress(src []byte) ([]byte, error)
	decompress(src, dst []byte) error
}

// CompressionFilter reverses (and applies) one compression stage. All
// compression kinds share the chunk sub-framing: the chunk's metadata
// field carries a CompressionChunks record mapping compressed byte ranges
// in the chunk's data field to their decompressed lengths.
type CompressionFilter struct {
	ftype storage.FilterType
	comp  compressor
}

// Type returns the filter's pipeline type code.
func (f *CompressionFilter) Type() storage.FilterType {
	return f.ftype
}

func (f *CompressionFilter) fail(err error) error {
	return &FilterError{Type: f.ftype, Chunk: -1, Err: err}
}

// Unfilter decompresses one chunk. A single input cursor advances through
// the chunk's data across both the metadata-parts pass and the data-parts
// pass (metadata's compressed bytes precede data's in the same contiguous
// input); each output buffer has its own cursor starting at zero.
func (f *CompressionFilter) Unfilter(input, output *storage.Chunk) error {
	framing, err := storage.DecodeCompressionChunks(input.Metadata)
	if err != nil {
		return f.fail(err)
	}

	metaOut := make([]byte, sumUncompressed(framing.MetadataParts))
	dataOut := make([]byte, sumUncompressed(framing.DataParts))

	cursor := 0
	if cursor, err = f.decompressParts(framing.MetadataParts, input.Data, cursor, metaOut); err != nil {
		return err
	}
	if _, err = f.decompressParts(framing.DataParts, input.Data, cursor, dataOut); err != nil {
		return err
	}

	output.OriginalSize = input.OriginalSize
	output.Metadata = metaOut
	output.Data = dataOut
	return nil
}

func (f *CompressionFilter) decompressParts(parts []storage.CompressionChunkInfo, in []byte, cursor int, out []byte) (int, error) {
	outCursor := 0
	for i, p := range parts {
		cs, us := int(p.CompressedSize), int(p.UncompressedSize)
		if cursor+cs > len(in) {
			return 0, f.fail(fmt.Errorf("part %d: compressed range [%d, %d) exceeds input length %d",
				i, cursor, cursor+cs, len(in)))
		}
		if err := f.comp.decompress(in[cursor:cursor+cs], out[outCursor:outCursor+us]); err != nil {
			return 0, f.fail(fmt.Errorf("part %d: %w", i, err))
		}
		cursor += cs
		outCursor += us
	}
	return cursor, nil
}

func sumUncompressed(parts []storage.CompressionChunkInfo) int {
	total := 0
	for _, p := range parts {
		total += int(p.UncompressedSize)
	}
	return total
}

// Filter compresses one chunk, emitting one metadata part (when the chunk
// carries metadata) and one data part, with the sub-framing written into
// the output chunk's metadata field.
func (f *CompressionFilter) Filter(input, output *storage.Chunk) error {
	framing := &storage.CompressionChunks{}
	var packed []byte

	if len(input.Metadata) > 0 {
		cm, err := f.comp.compress(input.Metadata)
		if err != nil {
			return f.fail(err)
		}
		framing.MetadataParts = []storage.CompressionChunkInfo{{
			UncompressedSize: uint32(len(input.Metadata)),
			CompressedSize:   uint32(len(cm)),
		}}
		packed = append(packed, cm...)
	}

	cd, err := f.comp.compress(input.Data)
	if err != nil {
		return f.fail(err)
	}
	framing.DataParts = []storage.CompressionChunkInfo{{
		UncompressedSize: uint32(len(input.Data)),
		CompressedSize:   uint32(len(cd)),
	}}
	packed = append(packed, cd...)

	output.OriginalSize = input.OriginalSize
	output.Metadata = framing.Encode()
	output.Data = packed
	return nil
}

// compressionConfig narrows a descriptor config for a compression filter
// of the given type.
func compressionConfig(config storage.FilterConfig, t storage.FilterType) (*storage.CompressionConfig, error) {
	cfg, ok := config.(*storage.CompressionConfig)
	if !ok {
		return nil, fmt.Errorf("invalid config %T for the %s filter", config, t)
	}
	if cfg.CompressorType != t {
		return nil, fmt.Errorf("%s filter config names compressor %s", t, cfg.CompressorType)
	}
	return cfg, nil
}
