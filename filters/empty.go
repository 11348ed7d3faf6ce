package filters

import (
	"fmt"

	"github.com/davisp/tdbtk/storage"
)

// NoneFilter is the identity transform. Both directions hand the input
// buffers to the output by swapping the chunks.
type NoneFilter struct{}

func newNoneFilter(config storage.FilterConfig) (Filter, error) {
	if config != nil {
		return nil, fmt.Errorf("invalid config %T for the NONE filter", config)
	}
	return &NoneFilter{}, nil
}

// Type returns storage.FilterNone.
func (f *NoneFilter) Type() storage.FilterType {
	return storage.FilterNone
}

// Filter passes the chunk through unchanged.
func (f *NoneFilter) Filter(input, output *storage.Chunk) error {
	*output, *input = *input, *output
	return nil
}

// Unfilter passes the chunk through unchanged.
func (f *NoneFilter) Unfilter(input, output *storage.Chunk) error {
	*output, *input = *input, *output
	return nil
}
