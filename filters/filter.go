// Package filters builds executable filter chains from decoded pipelines
// and runs the reverse-order unfilter walk over a tile's chunks.
//
// A chain is an owned singly-linked sequence whose head is the filter
// applied first at write time. Unfiltering recurses into the successor
// before applying the current stage, so stages are undone in strictly
// the opposite order of their application.
package filters

import (
	"errors"
	"fmt"

	"github.com/davisp/tdbtk/storage"
)

// Filter is one executable byte-transform stage. Unfilter reverses the
// write-time transform of a single chunk; Filter applies it forward.
// Implementations treat chunks as transient buffers owned by the caller.
type Filter interface {
	Type() storage.FilterType
	Filter(input, output *storage.Chunk) error
	Unfilter(input, output *storage.Chunk) error
}

// ErrEmptyPipeline is returned when a chain is built from a pipeline with
// no filters.
var ErrEmptyPipeline = errors.New("cannot build a filter chain from an empty pipeline")

// UnsupportedFilterError reports a pipeline filter type this build cannot
// instantiate. Raised at chain construction, never at raw decode.
type UnsupportedFilterError struct {
	Type storage.FilterType
}

func (e *UnsupportedFilterError) Error() string {
	return fmt.Sprintf("unsupported filter type: %s", e.Type)
}

// FilterError reports a transform primitive rejecting its input. Fatal
// for the whole tile read; there is no partial result. Chunk is -1 until
// the chunk loop attributes the failure.
type FilterError struct {
	Type  storage.FilterType
	Chunk int
	Err   error
}

func (e *FilterError) Error() string {
	if e.Chunk >= 0 {
		return fmt.Sprintf("filter %s failed on chunk %d: %v", e.Type, e.Chunk, e.Err)
	}
	return fmt.Sprintf("filter %s failed: %v", e.Type, e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

// Chain is an ordered, owned sequence of filter instances. The head
// corresponds to the first-applied write-time filter; the innermost link
// (no successor) to the last-applied one.
type Chain struct {
	filter Filter
	next   *Chain
}

// NewChain builds an executable chain from a decoded pipeline, one
// instance per descriptor, preserving write-time order. An empty pipeline
// or an uninstantiable filter type is a construction error.
func NewChain(list *storage.FilterList) (*Chain, error) {
	var chain *Chain
	for i := len(list.Filters) - 1; i >= 0; i-- {
		f, err := newFilter(&list.Filters[i])
		if err != nil {
			return nil, err
		}
		chain = &Chain{filter: f, next: chain}
	}
	if chain == nil {
		return nil, ErrEmptyPipeline
	}
	return chain, nil
}

func newFilter(f *storage.Filter) (Filter, error) {
	switch f.Type {
	case storage.FilterNone:
		return newNoneFilter(f.Config)
	case storage.FilterGZip:
		return newGZipFilter(f.Config)
	case storage.FilterZstd:
		return newZstdFilter(f.Config)
	case storage.FilterLZ4:
		return newLZ4Filter(f.Config)
	case storage.FilterBZip2:
		return newBZip2Filter(f.Config)
	default:
		return nil, &UnsupportedFilterError{Type: f.Type}
	}
}

// Unfilter undoes the chain's transforms on a single chunk, innermost
// (last-applied) stage first. The successor's output becomes this stage's
// input via a buffer swap.
func (c *Chain) Unfilter(input, output *storage.Chunk) error {
	if c.next == nil {
		return c.filter.Unfilter(input, output)
	}
	if err := c.next.Unfilter(input, output); err != nil {
		return err
	}
	*input, *output = *output, *input
	return c.filter.Unfilter(input, output)
}

// Filter applies the chain forward on a single chunk, head first.
func (c *Chain) Filter(input, output *storage.Chunk) error {
	if err := c.filter.Filter(input, output); err != nil {
		return err
	}
	if c.next == nil {
		return nil
	}
	*input, *output = *output, *input
	return c.next.Filter(input, output)
}

// UnfilterChunks runs the full chain over each chunk independently and
// concatenates the outputs into one contiguous logical buffer. Placement
// uses each chunk's own pre-filter OriginalSize, never the in-memory
// output length, which may be larger due to chunk-level padding.
func (c *Chain) UnfilterChunks(chunks *storage.ChunkedData) ([]byte, error) {
	// Snapshot the original sizes before unfiltering: the chain swaps
	// buffer roles, so the input chunks do not survive the walk.
	originals := make([]int, len(chunks.Chunks))
	total := 0
	for i := range chunks.Chunks {
		originals[i] = int(chunks.Chunks[i].OriginalSize)
		total += originals[i]
	}

	scratch := make([]storage.Chunk, len(chunks.Chunks))
	for i := range chunks.Chunks {
		if err := c.Unfilter(&chunks.Chunks[i], &scratch[i]); err != nil {
			var fe *FilterError
			if errors.As(err, &fe) && fe.Chunk < 0 {
				fe.Chunk = i
			}
			return nil, err
		}
	}

	out := make([]byte, total)
	off := 0
	for i := range scratch {
		n := originals[i]
		if len(scratch[i].Data) < n {
			return nil, &FilterError{
				Type:  c.filter.Type(),
				Chunk: i,
				Err: fmt.Errorf("unfiltered chunk holds %d bytes, original size is %d",
					len(scratch[i].Data), n),
			}
		}
		copy(out[off:off+n], scratch[i].Data[:n])
		off += n
	}
	return out, nil
}

// DefaultChunkSize is the chunk ceiling used when a pipeline's
// MaxChunkSize is zero.
const DefaultChunkSize = 64 * 1024

// FilterChunks applies the chain forward over a payload, splitting it at
// maxChunkSize. It is the inverse of UnfilterChunks and exists for the
// write path and for exercising the read path.
func (c *Chain) FilterChunks(data []byte, maxChunkSize uint32) (*storage.ChunkedData, error) {
	if maxChunkSize == 0 {
		maxChunkSize = DefaultChunkSize
	}
	cd := &storage.ChunkedData{}
	for off := 0; off < len(data); off += int(maxChunkSize) {
		end := off + int(maxChunkSize)
		if end > len(data) {
			end = len(data)
		}
		input := storage.Chunk{
			OriginalSize: uint32(end - off),
			Data:         append([]byte(nil), data[off:end]...),
		}
		var output storage.Chunk
		if err := c.Filter(&input, &output); err != nil {
			return nil, err
		}
		output.OriginalSize = uint32(end - off)
		cd.Chunks = append(cd.Chunks, output)
	}
	return cd, nil
}
