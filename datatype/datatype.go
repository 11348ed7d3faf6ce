// Package datatype defines the physical cell data types understood by the
// array format, their fixed byte widths, and the string-likeness predicate
// that drives variable-length cell handling.
package datatype

import "fmt"

// DataType identifies the physical type of a cell value.
type DataType uint8

// Data type codes as persisted on disk. Any byte outside this set maps to
// Invalid; rejection happens at validation, never during raw decoding.
const (
	Int32         DataType = 0
	Int64         DataType = 1
	Float32       DataType = 2
	Float64       DataType = 3
	Char          DataType = 4
	Int8          DataType = 5
	Uint8         DataType = 6
	Int16         DataType = 7
	Uint16        DataType = 8
	Uint32        DataType = 9
	Uint64        DataType = 10
	StringASCII   DataType = 11
	StringUTF8    DataType = 12
	StringUTF16   DataType = 13
	StringUTF32   DataType = 14
	StringUCS2    DataType = 15
	StringUCS4    DataType = 16
	Any           DataType = 17
	DatetimeYear  DataType = 18
	DatetimeMonth DataType = 19
	DatetimeWeek  DataType = 20
	DatetimeDay   DataType = 21
	DatetimeHour  DataType = 22
	DatetimeMin   DataType = 23
	DatetimeSec   DataType = 24
	DatetimeMSec  DataType = 25
	DatetimeUSec  DataType = 26
	DatetimeNSec  DataType = 27
	DatetimePSec  DataType = 28
	DatetimeFSec  DataType = 29
	DatetimeASec  DataType = 30
	TimeHour      DataType = 31
	TimeMin       DataType = 32
	TimeSec       DataType = 33
	TimeMSec      DataType = 34
	TimeUSec      DataType = 35
	TimeNSec      DataType = 36
	TimePSec      DataType = 37
	TimeFSec      DataType = 38
	TimeASec      DataType = 39
	Blob          DataType = 40
	Bool          DataType = 41

	// Invalid is the sentinel for unrecognized type bytes.
	Invalid DataType = 255
)

// New maps a raw byte to a DataType. Unknown bytes become Invalid rather
// than failing, so callers can decode first and validate later.
func New(b uint8) DataType {
	if b <= uint8(Bool) {
		return DataType(b)
	}
	return Invalid
}

// Size returns the fixed width in bytes of a single value of this type.
// Invalid has width zero.
func (t DataType) Size() int {
	switch t {
	case Int8, Uint8, StringUTF8, Any, Blob, Bool:
		return 1
	case Int16, Uint16, StringUTF16, StringUCS2:
		return 2
	case Int32, Uint32, Float32, StringUTF32, StringUCS4:
		return 4
	case Char, StringASCII:
		// Stored as 4-byte code points.
		return 4
	case Invalid:
		return 0
	default:
		// Int64, Uint64, Float64 and all datetime/time resolutions.
		return 8
	}
}

// IsStringType reports whether cells of this type are string-like and
// therefore default to variable-length cell values.
func (t DataType) IsStringType() bool {
	switch t {
	case StringASCII, StringUTF8, StringUTF16, StringUTF32, StringUCS2, StringUCS4:
		return true
	default:
		return false
	}
}

var names = map[DataType]string{
	Int32:         "INT32",
	Int64:         "INT64",
	Float32:       "FLOAT32",
	Float64:       "FLOAT64",
	Char:          "CHAR",
	Int8:          "INT8",
	Uint8:         "UINT8",
	Int16:         "INT16",
	Uint16:        "UINT16",
	Uint32:        "UINT32",
	Uint64:        "UINT64",
	StringASCII:   "STRING_ASCII",
	StringUTF8:    "STRING_UTF8",
	StringUTF16:   "STRING_UTF16",
	StringUTF32:   "STRING_UTF32",
	StringUCS2:    "STRING_UCS2",
	StringUCS4:    "STRING_UCS4",
	Any:           "ANY",
	DatetimeYear:  "DATETIME_YEAR",
	DatetimeMonth: "DATETIME_MONTH",
	DatetimeWeek:  "DATETIME_WEEK",
	DatetimeDay:   "DATETIME_DAY",
	DatetimeHour:  "DATETIME_HR",
	DatetimeMin:   "DATETIME_MIN",
	DatetimeSec:   "DATETIME_SEC",
	DatetimeMSec:  "DATETIME_MS",
	DatetimeUSec:  "DATETIME_US",
	DatetimeNSec:  "DATETIME_NS",
	DatetimePSec:  "DATETIME_PS",
	DatetimeFSec:  "DATETIME_FS",
	DatetimeASec:  "DATETIME_AS",
	TimeHour:      "TIME_HR",
	TimeMin:       "TIME_MIN",
	TimeSec:       "TIME_SEC",
	TimeMSec:      "TIME_MS",
	TimeUSec:      "TIME_US",
	TimeNSec:      "TIME_NS",
	TimePSec:      "TIME_PS",
	TimeFSec:      "TIME_FS",
	TimeASec:      "TIME_AS",
	Blob:          "BLOB",
	Bool:          "BOOL",
}

// String returns the canonical name of the type.
func (t DataType) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return fmt.Sprintf("INVALID(%d)", uint8(t))
}
