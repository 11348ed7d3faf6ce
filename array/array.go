// Package array holds the logical array model: the layout enumerations
// and the validated schema built from its decoded wire form.
package array

import "fmt"

// ArrayType distinguishes dense from sparse arrays.
type ArrayType uint8

// Array type codes as persisted on disk.
const (
	Dense  ArrayType = 0
	Sparse ArrayType = 1

	// ArrayTypeInvalid is the sentinel for unrecognized bytes.
	ArrayTypeInvalid ArrayType = 255
)

// NewArrayType maps a raw byte to an ArrayType; unknown bytes become the
// Invalid sentinel.
func NewArrayType(b uint8) ArrayType {
	if b <= uint8(Sparse) {
		return ArrayType(b)
	}
	return ArrayTypeInvalid
}

// String returns the canonical name of the array type.
func (t ArrayType) String() string {
	switch t {
	case Dense:
		return "DENSE"
	case Sparse:
		return "SPARSE"
	default:
		return fmt.Sprintf("INVALID(%d)", uint8(t))
	}
}

// Layout is a tile or cell ordering.
type Layout uint8

// Layout codes as persisted on disk.
const (
	RowMajor    Layout = 0
	ColMajor    Layout = 1
	GlobalOrder Layout = 2
	Unordered   Layout = 3
	Hilbert     Layout = 4

	// LayoutInvalid is the sentinel for unrecognized bytes.
	LayoutInvalid Layout = 255
)

// NewLayout maps a raw byte to a Layout; unknown bytes become the Invalid
// sentinel.
func NewLayout(b uint8) Layout {
	if b <= uint8(Hilbert) {
		return Layout(b)
	}
	return LayoutInvalid
}

// String returns the canonical name of the layout.
func (l Layout) String() string {
	switch l {
	case RowMajor:
		return "ROW_MAJOR"
	case ColMajor:
		return "COL_MAJOR"
	case GlobalOrder:
		return "GLOBAL_ORDER"
	case Unordered:
		return "UNORDERED"
	case Hilbert:
		return "HILBERT"
	default:
		return fmt.Sprintf("INVALID(%d)", uint8(l))
	}
}

// DataOrder is the ordering of stored attribute or label data.
type DataOrder uint8

// Data order codes as persisted on disk.
const (
	UnorderedData  DataOrder = 0
	IncreasingData DataOrder = 1
	DecreasingData DataOrder = 2

	// DataOrderInvalid is the sentinel for unrecognized bytes.
	DataOrderInvalid DataOrder = 255
)

// NewDataOrder maps a raw byte to a DataOrder; unknown bytes become the
// Invalid sentinel.
func NewDataOrder(b uint8) DataOrder {
	if b <= uint8(DecreasingData) {
		return DataOrder(b)
	}
	return DataOrderInvalid
}

// String returns the canonical name of the data order.
func (o DataOrder) String() string {
	switch o {
	case UnorderedData:
		return "UNORDERED"
	case IncreasingData:
		return "INCREASING"
	case DecreasingData:
		return "DECREASING"
	default:
		return fmt.Sprintf("INVALID(%d)", uint8(o))
	}
}
