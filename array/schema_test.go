package array

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davisp/tdbtk/datatype"
	"github.com/davisp/tdbtk/filters"
	"github.com/davisp/tdbtk/storage"
)

func wireSchema() *storage.ArraySchema {
	filterList := func() *storage.FilterList {
		return &storage.FilterList{
			MaxChunkSize: 65536,
			Filters: []storage.Filter{{
				Type:   storage.FilterZstd,
				Config: &storage.CompressionConfig{CompressorType: storage.FilterZstd, Level: 3},
			}},
		}
	}
	return &storage.ArraySchema{
		Version:             21,
		AllowsDups:          1,
		ArrayType:           1, // sparse
		TileOrder:           0, // row major
		CellOrder:           2, // global order
		Capacity:            10000,
		CoordsFilters:       filterList(),
		CellVarFilters:      &storage.FilterList{MaxChunkSize: 65536},
		CellValidityFilters: filterList(),
		Domain: storage.Domain{
			DataType: datatype.Int64,
			Dimensions: []storage.Dimension{{
				Name:       "d0",
				DataType:   datatype.Int64,
				CellValNum: 1,
				Filters:    filterList(),
				Range:      make([]byte, 16),
				TileExtent: make([]byte, 8),
			}},
		},
		Attributes: []storage.Attribute{{
			Name:            "a0",
			DataType:        datatype.Float32,
			CellValNum:      1,
			Filters:         filterList(),
			FillValue:       make([]byte, 4),
			Nullable:        1,
			DataOrder:       1,
			EnumerationName: "colors",
		}},
		DimensionLabels: []storage.DimensionLabel{{
			DimensionIndex: 0,
			Name:           "l0",
			RelativeURI:    1,
			URI:            "__labels/l0",
			AttributeName:  "a0",
			DataOrder:      2,
			DataType:       datatype.Int64,
			CellValNum:     1,
		}},
		Enumerations: []storage.EnumerationRecord{
			{Name: "colors", Path: "__enumerations/colors.tdb"},
		},
	}
}

// TestNewSchema tests building the logical model from a wire schema.
func TestNewSchema(t *testing.T) {
	s, err := NewSchema(wireSchema())
	require.NoError(t, err)

	require.Equal(t, uint32(21), s.Version)
	require.True(t, s.AllowsDups)
	require.Equal(t, Sparse, s.ArrayType)
	require.Equal(t, RowMajor, s.TileOrder)
	require.Equal(t, GlobalOrder, s.CellOrder)
	require.Equal(t, uint64(10000), s.Capacity)

	require.NotNil(t, s.CoordsFilters)
	// An empty schema-level filter list yields no chain.
	require.Nil(t, s.CellVarFilters)
	require.NotNil(t, s.CellValidityFilters)

	require.Len(t, s.Domain.Dimensions, 1)
	require.Equal(t, datatype.Int64, s.Domain.Dimensions[0].DataType)
	require.NotNil(t, s.Domain.Dimensions[0].Filters)

	require.Len(t, s.Attributes, 1)
	a := s.Attributes[0]
	require.True(t, a.Nullable)
	require.Equal(t, IncreasingData, a.DataOrder)
	require.Equal(t, "colors", a.EnumerationName)

	require.Len(t, s.DimensionLabels, 1)
	require.True(t, s.DimensionLabels[0].RelativeURI)
	require.Equal(t, DecreasingData, s.DimensionLabels[0].DataOrder)

	require.Equal(t, map[string]string{
		"colors": "__enumerations/colors.tdb",
	}, s.Enumerations)
}

// TestNewSchemaInvalidEnums tests that sentinel-valued bytes are rejected
// with the offending field and value.
func TestNewSchemaInvalidEnums(t *testing.T) {
	tests := []struct {
		name   string
		poison func(*storage.ArraySchema)
		field  string
		value  uint8
	}{
		{
			name:   "array type",
			poison: func(ws *storage.ArraySchema) { ws.ArrayType = 9 },
			field:  "array_type",
			value:  9,
		},
		{
			name:   "tile order",
			poison: func(ws *storage.ArraySchema) { ws.TileOrder = 200 },
			field:  "tile_order",
			value:  200,
		},
		{
			name:   "cell order",
			poison: func(ws *storage.ArraySchema) { ws.CellOrder = 5 },
			field:  "cell_order",
			value:  5,
		},
		{
			name:   "attribute data order",
			poison: func(ws *storage.ArraySchema) { ws.Attributes[0].DataOrder = 3 },
			field:  "attribute_data_order",
			value:  3,
		},
		{
			name:   "label data order",
			poison: func(ws *storage.ArraySchema) { ws.DimensionLabels[0].DataOrder = 77 },
			field:  "label_data_order",
			value:  77,
		},
		{
			name:   "attribute data type",
			poison: func(ws *storage.ArraySchema) { ws.Attributes[0].DataType = datatype.Invalid },
			field:  "attribute_data_type",
			value:  255,
		},
		{
			name:   "label data type",
			poison: func(ws *storage.ArraySchema) { ws.DimensionLabels[0].DataType = datatype.Invalid },
			field:  "label_data_type",
			value:  255,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := wireSchema()
			tt.poison(ws)

			_, err := NewSchema(ws)
			var enumErr *storage.InvalidEnumError
			require.ErrorAs(t, err, &enumErr)
			require.Equal(t, tt.field, enumErr.Field)
			require.Equal(t, tt.value, enumErr.Value)
		})
	}
}

// TestNewSchemaBadFilterChain tests that an uninstantiable filter in a
// schema-level list fails schema construction.
func TestNewSchemaBadFilterChain(t *testing.T) {
	ws := wireSchema()
	ws.CoordsFilters.Filters = []storage.Filter{{
		Type:   storage.FilterBitWidthReduction,
		Config: &storage.BitWidthReductionConfig{MaxWindowSize: 256},
	}}

	_, err := NewSchema(ws)
	var uerr *filters.UnsupportedFilterError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, storage.FilterBitWidthReduction, uerr.Type)
	require.Contains(t, err.Error(), "coords_filters")
}
