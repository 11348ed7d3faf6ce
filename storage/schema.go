package storage

import (
	"fmt"

	"github.com/davisp/tdbtk/datatype"
)

// cellValSize returns the default cell value count for a data type:
// string-like types are variable length, everything else holds one value.
func cellValSize(t datatype.DataType) uint32 {
	if t.IsStringType() {
		return CellVarSize
	}
	return 1
}

// Dimension is one decoded dimension of an array domain. Range holds two
// values of the dimension's data type; TileExtent holds one, or is nil
// when the null-extent flag was set on the wire.
type Dimension struct {
	Name       string
	DataType   datatype.DataType
	CellValNum uint32
	Filters    *FilterList
	Range      []byte
	TileExtent []byte
}

// Domain is a decoded array domain. DataType is only on the wire before
// version 5, where dimensions inherit it.
type Domain struct {
	DataType   datatype.DataType
	Dimensions []Dimension
}

// Attribute is one decoded array attribute.
type Attribute struct {
	Name              string
	DataType          datatype.DataType
	CellValNum        uint32
	Filters           *FilterList
	FillValue         []byte
	Nullable          uint8
	FillValueValidity uint8
	DataOrder         uint8
	EnumerationName   string
}

// DimensionLabel is one decoded dimension label (version >= 18).
type DimensionLabel struct {
	DimensionIndex uint32
	Name           string
	RelativeURI    uint8
	URI            string
	AttributeName  string
	DataOrder      uint8
	DataType       datatype.DataType
	CellValNum     uint32
	IsExternal     uint8
}

// EnumerationRecord maps an enumeration name to its storage path
// (version >= 20).
type EnumerationRecord struct {
	Name string
	Path string
}

// ArraySchema is the decoded wire form of an array schema. Enum-coded
// fields that are not consumed structurally (array type, orders) stay as
// raw bytes here; validation happens when building the logical schema.
type ArraySchema struct {
	Version             uint32
	AllowsDups          uint8
	ArrayType           uint8
	TileOrder           uint8
	CellOrder           uint8
	Capacity            uint64
	CoordsFilters       *FilterList
	CellVarFilters      *FilterList
	CellValidityFilters *FilterList
	Domain              Domain
	Attributes          []Attribute
	DimensionLabels     []DimensionLabel
	Enumerations        []EnumerationRecord
}

// DecodeArraySchema decodes an array schema from its already-unfiltered
// bytes. Field presence is gated by the schema's own version; absent
// fields take their documented defaults.
func DecodeArraySchema(data []byte) (*ArraySchema, error) {
	r := NewReader(data)
	s := &ArraySchema{}

	var err error
	if s.Version, err = r.Uint32("version"); err != nil {
		return nil, err
	}
	if s.Version > CurrentFormatVersion {
		return nil, &UnsupportedVersionError{Version: s.Version, Supported: CurrentFormatVersion}
	}

	if s.Version >= 5 {
		if s.AllowsDups, err = r.Uint8("allows_dups"); err != nil {
			return nil, err
		}
	}
	if s.ArrayType, err = r.Uint8("array_type"); err != nil {
		return nil, err
	}
	if s.TileOrder, err = r.Uint8("tile_order"); err != nil {
		return nil, err
	}
	if s.CellOrder, err = r.Uint8("cell_order"); err != nil {
		return nil, err
	}
	if s.Capacity, err = r.Uint64("capacity"); err != nil {
		return nil, err
	}

	if s.CoordsFilters, err = DecodeFilterList(r, s.Version); err != nil {
		return nil, fmt.Errorf("coords_filters: %w", err)
	}
	if s.CellVarFilters, err = DecodeFilterList(r, s.Version); err != nil {
		return nil, fmt.Errorf("cell_var_filters: %w", err)
	}
	if s.Version >= 7 {
		if s.CellValidityFilters, err = DecodeFilterList(r, s.Version); err != nil {
			return nil, fmt.Errorf("cell_validity_filters: %w", err)
		}
	} else {
		s.CellValidityFilters = &FilterList{}
	}

	if err = decodeDomain(r, s); err != nil {
		return nil, err
	}
	if err = decodeAttributes(r, s); err != nil {
		return nil, err
	}
	if s.Version >= 18 {
		if err = decodeDimensionLabels(r, s); err != nil {
			return nil, err
		}
	}
	if s.Version >= 20 {
		if err = decodeEnumerations(r, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func decodeDomain(r *Reader, s *ArraySchema) error {
	// Before version 5 the domain carries the data type and every
	// dimension inherits it.
	s.Domain.DataType = datatype.Int32
	if s.Version < 5 {
		raw, err := r.Uint8("domain_data_type")
		if err != nil {
			return err
		}
		s.Domain.DataType = datatype.New(raw)
	}

	count, err := r.Uint32("num_dimensions")
	if err != nil {
		return err
	}
	// Smallest dimension: name size plus range flag fields.
	if err := r.CheckCount("num_dimensions", uint64(count), 5); err != nil {
		return err
	}
	s.Domain.Dimensions = make([]Dimension, 0, count)
	for i := uint32(0); i < count; i++ {
		d, err := decodeDimension(r, s)
		if err != nil {
			return fmt.Errorf("dimension %d: %w", i, err)
		}
		s.Domain.Dimensions = append(s.Domain.Dimensions, d)
	}
	return nil
}

func decodeDimension(r *Reader, s *ArraySchema) (Dimension, error) {
	d := Dimension{}
	nameSize, err := r.Uint32("dimension_name_size")
	if err != nil {
		return Dimension{}, err
	}
	if d.Name, err = r.String("dimension_name", int(nameSize)); err != nil {
		return Dimension{}, err
	}

	rawType := uint8(s.Domain.DataType)
	if s.Version >= 5 {
		if rawType, err = r.Uint8("dimension_data_type"); err != nil {
			return Dimension{}, err
		}
		d.DataType = datatype.New(rawType)
		if d.CellValNum, err = r.Uint32("dimension_cell_val_num"); err != nil {
			return Dimension{}, err
		}
		if d.Filters, err = DecodeFilterList(r, s.Version); err != nil {
			return Dimension{}, fmt.Errorf("dimension filters: %w", err)
		}
	} else {
		d.DataType = s.Domain.DataType
		d.CellValNum = cellValSize(d.DataType)
		d.Filters = copyFilterList(s.CoordsFilters)
	}

	// The data type's width sizes the range and extent reads, so an
	// unknown type byte cannot be deferred to validation here.
	if d.DataType == datatype.Invalid {
		return Dimension{}, &InvalidEnumError{Field: "dimension_data_type", Value: rawType}
	}

	if d.Range, err = r.Bytes("dimension_range", 2*d.DataType.Size()); err != nil {
		return Dimension{}, err
	}
	nullExtent, err := r.Uint8("null_tile_extent")
	if err != nil {
		return Dimension{}, err
	}
	if nullExtent == 0 {
		if d.TileExtent, err = r.Bytes("tile_extent", d.DataType.Size()); err != nil {
			return Dimension{}, err
		}
	}
	return d, nil
}

// copyFilterList deep-copies a filter list so that a dimension inheriting
// the schema-level coordinate filters owns its configs exclusively.
func copyFilterList(l *FilterList) *FilterList {
	out := &FilterList{
		MaxChunkSize: l.MaxChunkSize,
		Filters:      make([]Filter, len(l.Filters)),
	}
	for i, f := range l.Filters {
		f.Config = copyFilterConfig(f.Config)
		out.Filters[i] = f
	}
	return out
}

func copyFilterConfig(c FilterConfig) FilterConfig {
	switch cfg := c.(type) {
	case *CompressionConfig:
		out := *cfg
		return &out
	case *BitWidthReductionConfig:
		out := *cfg
		return &out
	case *PositiveDeltaConfig:
		out := *cfg
		return &out
	case *ScaleFloatConfig:
		out := *cfg
		return &out
	case *WebPConfig:
		out := *cfg
		return &out
	default:
		return nil
	}
}

func decodeAttributes(r *Reader, s *ArraySchema) error {
	count, err := r.Uint32("num_attributes")
	if err != nil {
		return err
	}
	// Smallest attribute: name size, type, cell val num.
	if err := r.CheckCount("num_attributes", uint64(count), 9); err != nil {
		return err
	}
	s.Attributes = make([]Attribute, 0, count)
	for i := uint32(0); i < count; i++ {
		a, err := decodeAttribute(r, s.Version)
		if err != nil {
			return fmt.Errorf("attribute %d: %w", i, err)
		}
		s.Attributes = append(s.Attributes, a)
	}
	return nil
}

func decodeAttribute(r *Reader, version uint32) (Attribute, error) {
	a := Attribute{}
	nameSize, err := r.Uint32("attribute_name_size")
	if err != nil {
		return Attribute{}, err
	}
	if a.Name, err = r.String("attribute_name", int(nameSize)); err != nil {
		return Attribute{}, err
	}
	raw, err := r.Uint8("attribute_data_type")
	if err != nil {
		return Attribute{}, err
	}
	a.DataType = datatype.New(raw)
	if a.CellValNum, err = r.Uint32("attribute_cell_val_num"); err != nil {
		return Attribute{}, err
	}
	if a.Filters, err = DecodeFilterList(r, version); err != nil {
		return Attribute{}, fmt.Errorf("attribute filters: %w", err)
	}

	fillSize, err := r.Uint64("fill_value_size")
	if err != nil {
		return Attribute{}, err
	}
	if err := r.CheckCount("fill_value_size", fillSize, 1); err != nil {
		return Attribute{}, err
	}
	if a.FillValue, err = r.Bytes("fill_value", int(fillSize)); err != nil {
		return Attribute{}, err
	}

	if version >= 7 {
		if a.Nullable, err = r.Uint8("nullable"); err != nil {
			return Attribute{}, err
		}
		if a.FillValueValidity, err = r.Uint8("fill_value_validity"); err != nil {
			return Attribute{}, err
		}
	}
	if version >= 17 {
		if a.DataOrder, err = r.Uint8("attribute_data_order"); err != nil {
			return Attribute{}, err
		}
	}
	if version >= 20 {
		enumSize, err := r.Uint32("enumeration_name_size")
		if err != nil {
			return Attribute{}, err
		}
		if a.EnumerationName, err = r.String("enumeration_name", int(enumSize)); err != nil {
			return Attribute{}, err
		}
	}
	return a, nil
}

func decodeDimensionLabels(r *Reader, s *ArraySchema) error {
	count, err := r.Uint32("num_dimension_labels")
	if err != nil {
		return err
	}
	if err := r.CheckCount("num_dimension_labels", uint64(count), 16); err != nil {
		return err
	}
	s.DimensionLabels = make([]DimensionLabel, 0, count)
	for i := uint32(0); i < count; i++ {
		l, err := decodeDimensionLabel(r)
		if err != nil {
			return fmt.Errorf("dimension label %d: %w", i, err)
		}
		s.DimensionLabels = append(s.DimensionLabels, l)
	}
	return nil
}

func decodeDimensionLabel(r *Reader) (DimensionLabel, error) {
	l := DimensionLabel{}
	var err error
	if l.DimensionIndex, err = r.Uint32("label_dimension_index"); err != nil {
		return DimensionLabel{}, err
	}
	nameSize, err := r.Uint32("label_name_size")
	if err != nil {
		return DimensionLabel{}, err
	}
	if l.Name, err = r.String("label_name", int(nameSize)); err != nil {
		return DimensionLabel{}, err
	}
	if l.RelativeURI, err = r.Uint8("label_relative_uri"); err != nil {
		return DimensionLabel{}, err
	}
	uriSize, err := r.Uint32("label_uri_size")
	if err != nil {
		return DimensionLabel{}, err
	}
	if l.URI, err = r.String("label_uri", int(uriSize)); err != nil {
		return DimensionLabel{}, err
	}
	attrSize, err := r.Uint32("label_attribute_name_size")
	if err != nil {
		return DimensionLabel{}, err
	}
	if l.AttributeName, err = r.String("label_attribute_name", int(attrSize)); err != nil {
		return DimensionLabel{}, err
	}
	if l.DataOrder, err = r.Uint8("label_data_order"); err != nil {
		return DimensionLabel{}, err
	}
	raw, err := r.Uint8("label_data_type")
	if err != nil {
		return DimensionLabel{}, err
	}
	l.DataType = datatype.New(raw)
	if l.CellValNum, err = r.Uint32("label_cell_val_num"); err != nil {
		return DimensionLabel{}, err
	}
	l.IsExternal, err = r.Uint8("label_is_external")
	return l, err
}

func decodeEnumerations(r *Reader, s *ArraySchema) error {
	count, err := r.Uint32("num_enumerations")
	if err != nil {
		return err
	}
	if err := r.CheckCount("num_enumerations", uint64(count), 8); err != nil {
		return err
	}
	s.Enumerations = make([]EnumerationRecord, 0, count)
	for i := uint32(0); i < count; i++ {
		var rec EnumerationRecord
		nameSize, err := r.Uint32("enumeration_name_size")
		if err != nil {
			return fmt.Errorf("enumeration %d: %w", i, err)
		}
		if rec.Name, err = r.String("enumeration_name", int(nameSize)); err != nil {
			return fmt.Errorf("enumeration %d: %w", i, err)
		}
		pathSize, err := r.Uint32("enumeration_path_size")
		if err != nil {
			return fmt.Errorf("enumeration %d: %w", i, err)
		}
		if rec.Path, err = r.String("enumeration_path", int(pathSize)); err != nil {
			return fmt.Errorf("enumeration %d: %w", i, err)
		}
		s.Enumerations = append(s.Enumerations, rec)
	}
	return nil
}

// Encode returns the schema's wire form at its own Version, applying the
// same presence gates the decoder does.
func (s *ArraySchema) Encode() []byte {
	w := NewWriter()
	w.Uint32(s.Version)
	if s.Version >= 5 {
		w.Uint8(s.AllowsDups)
	}
	w.Uint8(s.ArrayType)
	w.Uint8(s.TileOrder)
	w.Uint8(s.CellOrder)
	w.Uint64(s.Capacity)

	s.CoordsFilters.Encode(w, s.Version)
	s.CellVarFilters.Encode(w, s.Version)
	if s.Version >= 7 {
		s.CellValidityFilters.Encode(w, s.Version)
	}

	if s.Version < 5 {
		w.Uint8(uint8(s.Domain.DataType))
	}
	w.Uint32(uint32(len(s.Domain.Dimensions)))
	for i := range s.Domain.Dimensions {
		s.encodeDimension(w, &s.Domain.Dimensions[i])
	}

	w.Uint32(uint32(len(s.Attributes)))
	for i := range s.Attributes {
		s.encodeAttribute(w, &s.Attributes[i])
	}

	if s.Version >= 18 {
		w.Uint32(uint32(len(s.DimensionLabels)))
		for i := range s.DimensionLabels {
			encodeDimensionLabel(w, &s.DimensionLabels[i])
		}
	}
	if s.Version >= 20 {
		w.Uint32(uint32(len(s.Enumerations)))
		for _, rec := range s.Enumerations {
			w.Uint32(uint32(len(rec.Name)))
			w.String(rec.Name)
			w.Uint32(uint32(len(rec.Path)))
			w.String(rec.Path)
		}
	}
	return w.Bytes()
}

func (s *ArraySchema) encodeDimension(w *Writer, d *Dimension) {
	w.Uint32(uint32(len(d.Name)))
	w.String(d.Name)
	if s.Version >= 5 {
		w.Uint8(uint8(d.DataType))
		w.Uint32(d.CellValNum)
		d.Filters.Encode(w, s.Version)
	}
	w.Raw(d.Range)
	if d.TileExtent == nil {
		w.Uint8(1)
	} else {
		w.Uint8(0)
		w.Raw(d.TileExtent)
	}
}

func (s *ArraySchema) encodeAttribute(w *Writer, a *Attribute) {
	w.Uint32(uint32(len(a.Name)))
	w.String(a.Name)
	w.Uint8(uint8(a.DataType))
	w.Uint32(a.CellValNum)
	a.Filters.Encode(w, s.Version)
	w.Uint64(uint64(len(a.FillValue)))
	w.Raw(a.FillValue)
	if s.Version >= 7 {
		w.Uint8(a.Nullable)
		w.Uint8(a.FillValueValidity)
	}
	if s.Version >= 17 {
		w.Uint8(a.DataOrder)
	}
	if s.Version >= 20 {
		w.Uint32(uint32(len(a.EnumerationName)))
		w.String(a.EnumerationName)
	}
}

func encodeDimensionLabel(w *Writer, l *DimensionLabel) {
	w.Uint32(l.DimensionIndex)
	w.Uint32(uint32(len(l.Name)))
	w.String(l.Name)
	w.Uint8(l.RelativeURI)
	w.Uint32(uint32(len(l.URI)))
	w.String(l.URI)
	w.Uint32(uint32(len(l.AttributeName)))
	w.String(l.AttributeName)
	w.Uint8(l.DataOrder)
	w.Uint8(uint8(l.DataType))
	w.Uint32(l.CellValNum)
	w.Uint8(l.IsExternal)
}
