package array

import (
	"fmt"

	"github.com/davisp/tdbtk/datatype"
	"github.com/davisp/tdbtk/filters"
	"github.com/davisp/tdbtk/storage"
)

// Dimension is one validated dimension of an array domain. The schema
// owns it exclusively, including its filter chain and value buffers.
type Dimension struct {
	Name       string
	DataType   datatype.DataType
	CellValNum uint32
	Filters    *filters.Chain
	Range      []byte
	TileExtent []byte
}

// Domain is a validated array domain.
type Domain struct {
	DataType   datatype.DataType
	Dimensions []Dimension
}

// Attribute is one validated array attribute.
type Attribute struct {
	Name              string
	DataType          datatype.DataType
	CellValNum        uint32
	Filters           *filters.Chain
	FillValue         []byte
	Nullable          bool
	FillValueValidity bool
	DataOrder         DataOrder
	EnumerationName   string
}

// DimensionLabel is one validated dimension label.
type DimensionLabel struct {
	DimensionIndex uint32
	Name           string
	RelativeURI    bool
	URI            string
	AttributeName  string
	DataOrder      DataOrder
	DataType       datatype.DataType
	CellValNum     uint32
	IsExternal     bool
}

// Schema is the validated logical form of an array schema. It exclusively
// owns its domain, attributes, dimension labels, and filter chains.
type Schema struct {
	Version             uint32
	AllowsDups          bool
	ArrayType           ArrayType
	TileOrder           Layout
	CellOrder           Layout
	Capacity            uint64
	CoordsFilters       *filters.Chain
	CellVarFilters      *filters.Chain
	CellValidityFilters *filters.Chain
	Domain              Domain
	Attributes          []Attribute
	DimensionLabels     []DimensionLabel
	Enumerations        map[string]string
}

// NewSchema validates a decoded wire schema and builds the logical model.
// This is the rejection boundary for enum bytes that decoded to their
// Invalid sentinel.
func NewSchema(ws *storage.ArraySchema) (*Schema, error) {
	s := &Schema{
		Version:    ws.Version,
		AllowsDups: ws.AllowsDups != 0,
		ArrayType:  NewArrayType(ws.ArrayType),
		TileOrder:  NewLayout(ws.TileOrder),
		CellOrder:  NewLayout(ws.CellOrder),
		Capacity:   ws.Capacity,
	}
	if s.ArrayType == ArrayTypeInvalid {
		return nil, &storage.InvalidEnumError{Field: "array_type", Value: ws.ArrayType}
	}
	if s.TileOrder == LayoutInvalid {
		return nil, &storage.InvalidEnumError{Field: "tile_order", Value: ws.TileOrder}
	}
	if s.CellOrder == LayoutInvalid {
		return nil, &storage.InvalidEnumError{Field: "cell_order", Value: ws.CellOrder}
	}

	var err error
	if s.CoordsFilters, err = schemaChain(ws.CoordsFilters); err != nil {
		return nil, fmt.Errorf("coords_filters: %w", err)
	}
	if s.CellVarFilters, err = schemaChain(ws.CellVarFilters); err != nil {
		return nil, fmt.Errorf("cell_var_filters: %w", err)
	}
	if s.CellValidityFilters, err = schemaChain(ws.CellValidityFilters); err != nil {
		return nil, fmt.Errorf("cell_validity_filters: %w", err)
	}

	if err = s.buildDomain(&ws.Domain); err != nil {
		return nil, err
	}
	if err = s.buildAttributes(ws.Attributes); err != nil {
		return nil, err
	}
	if err = s.buildDimensionLabels(ws.DimensionLabels); err != nil {
		return nil, err
	}

	s.Enumerations = make(map[string]string, len(ws.Enumerations))
	for _, rec := range ws.Enumerations {
		s.Enumerations[rec.Name] = rec.Path
	}
	return s, nil
}

// schemaChain builds a chain from a schema-level filter list. Unlike tile
// pipelines, schema filter lists may legitimately be empty; an empty list
// yields a nil chain.
func schemaChain(list *storage.FilterList) (*filters.Chain, error) {
	if len(list.Filters) == 0 {
		return nil, nil
	}
	return filters.NewChain(list)
}

func (s *Schema) buildDomain(wd *storage.Domain) error {
	s.Domain.DataType = wd.DataType
	s.Domain.Dimensions = make([]Dimension, 0, len(wd.Dimensions))
	for i := range wd.Dimensions {
		d := &wd.Dimensions[i]
		// The wire decoder already rejected Invalid dimension types; this
		// guards conversions of hand-built wire structs.
		if d.DataType == datatype.Invalid {
			return &storage.InvalidEnumError{Field: "dimension_data_type", Value: uint8(d.DataType)}
		}
		chain, err := schemaChain(d.Filters)
		if err != nil {
			return fmt.Errorf("dimension %q filters: %w", d.Name, err)
		}
		s.Domain.Dimensions = append(s.Domain.Dimensions, Dimension{
			Name:       d.Name,
			DataType:   d.DataType,
			CellValNum: d.CellValNum,
			Filters:    chain,
			Range:      append([]byte(nil), d.Range...),
			TileExtent: append([]byte(nil), d.TileExtent...),
		})
	}
	return nil
}

func (s *Schema) buildAttributes(was []storage.Attribute) error {
	s.Attributes = make([]Attribute, 0, len(was))
	for i := range was {
		wa := &was[i]
		if wa.DataType == datatype.Invalid {
			return &storage.InvalidEnumError{Field: "attribute_data_type", Value: uint8(wa.DataType)}
		}
		order := NewDataOrder(wa.DataOrder)
		if order == DataOrderInvalid {
			return &storage.InvalidEnumError{Field: "attribute_data_order", Value: wa.DataOrder}
		}
		chain, err := schemaChain(wa.Filters)
		if err != nil {
			return fmt.Errorf("attribute %q filters: %w", wa.Name, err)
		}
		s.Attributes = append(s.Attributes, Attribute{
			Name:              wa.Name,
			DataType:          wa.DataType,
			CellValNum:        wa.CellValNum,
			Filters:           chain,
			FillValue:         append([]byte(nil), wa.FillValue...),
			Nullable:          wa.Nullable != 0,
			FillValueValidity: wa.FillValueValidity != 0,
			DataOrder:         order,
			EnumerationName:   wa.EnumerationName,
		})
	}
	return nil
}

func (s *Schema) buildDimensionLabels(wls []storage.DimensionLabel) error {
	s.DimensionLabels = make([]DimensionLabel, 0, len(wls))
	for i := range wls {
		wl := &wls[i]
		if wl.DataType == datatype.Invalid {
			return &storage.InvalidEnumError{Field: "label_data_type", Value: uint8(wl.DataType)}
		}
		order := NewDataOrder(wl.DataOrder)
		if order == DataOrderInvalid {
			return &storage.InvalidEnumError{Field: "label_data_order", Value: wl.DataOrder}
		}
		s.DimensionLabels = append(s.DimensionLabels, DimensionLabel{
			DimensionIndex: wl.DimensionIndex,
			Name:           wl.Name,
			RelativeURI:    wl.RelativeURI != 0,
			URI:            wl.URI,
			AttributeName:  wl.AttributeName,
			DataOrder:      order,
			DataType:       wl.DataType,
			CellValNum:     wl.CellValNum,
			IsExternal:     wl.IsExternal != 0,
		})
	}
	return nil
}
