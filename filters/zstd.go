package filters

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/davisp/tdbtk/storage"
)

type zstdCompressor struct {
	level zstd.EncoderLevel
}

func newZstdFilter(config storage.FilterConfig) (Filter, error) {
	cfg, err := compressionConfig(config, storage.FilterZstd)
	if err != nil {
		return nil, err
	}
	// Levels outside the codec's range fall back to the default of 3.
	level := cfg.Level
	if level < 1 || level > 22 {
		level = 3
	}
	return &CompressionFilter{
		ftype: storage.FilterZstd,
		comp:  &zstdCompressor{level: zstd.EncoderLevelFromZstd(int(level))},
	}, nil
}

func (z *zstdCompressor) compress(src []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(z.level))
	if err != nil {
		return nil, err
	}
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll(src, nil), nil
}

func (z *zstdCompressor) decompress(src, dst []byte) error {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer dec.Close()

	out, err := dec.DecodeAll(src, dst[:0])
	if err != nil {
		return err
	}
	if len(out) != len(dst) {
		return fmt.Errorf("zstd frame decompressed to %d bytes, expected %d", len(out), len(dst))
	}
	return nil
}
