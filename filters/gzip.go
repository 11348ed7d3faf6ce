package filters

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/davisp/tdbtk/storage"
)

// The format's "gzip" filter is a zlib stream.
type zlibCompressor struct {
	level int
}

func newGZipFilter(config storage.FilterConfig) (Filter, error) {
	cfg, err := compressionConfig(config, storage.FilterGZip)
	if err != nil {
		return nil, err
	}
	if cfg.Level < 0 || cfg.Level > 9 {
		return nil, fmt.Errorf("invalid gzip compression level %d", cfg.Level)
	}
	return &CompressionFilter{
		ftype: storage.FilterGZip,
		comp:  &zlibCompressor{level: int(cfg.Level)},
	}, nil
}

func (z *zlibCompressor) compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, z.level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (z *zlibCompressor) decompress(src, dst []byte) error {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return err
	}
	defer func() { _ = zr.Close() }()

	if _, err := io.ReadFull(zr, dst); err != nil {
		return err
	}
	var tail [1]byte
	if n, _ := zr.Read(tail[:]); n != 0 {
		return fmt.Errorf("zlib stream exceeds the declared uncompressed size %d", len(dst))
	}
	return nil
}
