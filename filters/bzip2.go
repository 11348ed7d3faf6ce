package filters

import (
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"

	"github.com/davisp/tdbtk/storage"
)

// bzip2Compressor decompresses bzip2 streams. The standard library only
// reads bzip2, so forward filtering is rejected; the read path is what
// stored data needs.
type bzip2Compressor struct{}

func newBZip2Filter(config storage.FilterConfig) (Filter, error) {
	if _, err := compressionConfig(config, storage.FilterBZip2); err != nil {
		return nil, err
	}
	return &CompressionFilter{
		ftype: storage.FilterBZip2,
		comp:  &bzip2Compressor{},
	}, nil
}

func (b *bzip2Compressor) compress([]byte) ([]byte, error) {
	return nil, errors.New("bzip2 compression is not supported")
}

func (b *bzip2Compressor) decompress(src, dst []byte) error {
	zr := bzip2.NewReader(bytes.NewReader(src))
	if _, err := io.ReadFull(zr, dst); err != nil {
		return err
	}
	var tail [1]byte
	if n, _ := zr.Read(tail[:]); n != 0 {
		return fmt.Errorf("bzip2 stream exceeds the declared uncompressed size %d", len(dst))
	}
	return nil
}
