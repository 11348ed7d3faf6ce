package filters

import (
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/davisp/tdbtk/storage"
)

// lz4Compressor speaks the LZ4 block format, matching how stored chunk
// parts are framed (each part is one block with a known decompressed
// size). The descriptor's level has no effect on block compression.
type lz4Compressor struct{}

func newLZ4Filter(config storage.FilterConfig) (Filter, error) {
	if _, err := compressionConfig(config, storage.FilterLZ4); err != nil {
		return nil, err
	}
	return &CompressionFilter{
		ftype: storage.FilterLZ4,
		comp:  &lz4Compressor{},
	}, nil
}

func (l *lz4Compressor) compress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}
	var c lz4.Compressor
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := c.CompressBlock(src, dst)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible input: emit a literal-only block.
		return literalBlock(src), nil
	}
	return dst[:n], nil
}

// literalBlock encodes src as a single LZ4 sequence of literals with no
// match, the valid form for a block's final sequence.
func literalBlock(src []byte) []byte {
	out := make([]byte, 0, len(src)+len(src)/255+2)
	n := len(src)
	if n < 15 {
		out = append(out, byte(n)<<4)
	} else {
		out = append(out, 0xF0)
		for rest := n - 15; ; rest -= 255 {
			if rest < 255 {
				out = append(out, byte(rest))
				break
			}
			out = append(out, 255)
		}
	}
	return append(out, src...)
}

func (l *lz4Compressor) decompress(src, dst []byte) error {
	if len(src) == 0 && len(dst) == 0 {
		return nil
	}
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return err
	}
	if n != len(dst) {
		return fmt.Errorf("lz4 block decompressed to %d bytes, expected %d", n, len(dst))
	}
	return nil
}
