package fstfile

import "math"

// ColumnType is the logical type discriminator used for decoder dispatch
// (spec section 3). It equals the base (physical) type for primitives and
// differs for FACTOR, which stores int32 level codes plus a distinct
// CHARACTER levels block.
type ColumnType uint16

const (
	TypeCharacter ColumnType = 6
	TypeFactor    ColumnType = 7
	TypeInt32     ColumnType = 8
	TypeDouble64  ColumnType = 9
	TypeBool32    ColumnType = 10
)

func (t ColumnType) valid() bool {
	switch t {
	case TypeCharacter, TypeFactor, TypeInt32, TypeDouble64, TypeBool32:
		return true
	default:
		return false
	}
}

// Sentinel bit patterns encoding missing values in-band (spec section 3).
const (
	// NAInt32 is the reserved pattern for a missing INT_32 value, and is
	// reused for FACTOR level codes (valid codes are 1..L).
	NAInt32 int32 = math.MinInt32
)

// naDoubleBits is the reserved NaN payload used for a missing DOUBLE_64
// value, distinguishable from an ordinary computed NaN.
const naDoubleBits uint64 = 0x7FF00000000007A2

// NADouble returns the sentinel NaN value that encodes a missing DOUBLE_64.
func NADouble() float64 {
	return math.Float64frombits(naDoubleBits)
}

// IsNADouble reports whether v is the missing-value sentinel bit pattern,
// as opposed to an ordinary NaN produced by arithmetic.
func IsNADouble(v float64) bool {
	return math.Float64bits(v) == naDoubleBits
}

// Tri-state BOOL_32 values.
const (
	BoolFalse int32 = 0
	BoolTrue  int32 = 1
)

// Column is a tagged variant over the five on-disk column kinds (spec
// section 9, "Polymorphic column access -> tagged variant + capability
// set"). Concrete types implement it by embedding columnBase.
type Column interface {
	ColumnName() string
	LogicalType() ColumnType
	NumRows() int
}

type columnBase struct {
	Name string
}

func (c columnBase) ColumnName() string { return c.Name }

// StringColumn is the CHARACTER variant. Valid[i]==false marks row i as
// the missing-string sentinel; Values[i] is otherwise the row's bytes
// (embedded NUL is ordinary data, per spec section 3).
type StringColumn struct {
	columnBase
	Values []string
	Valid  []bool
}

func (c *StringColumn) LogicalType() ColumnType { return TypeCharacter }
func (c *StringColumn) NumRows() int            { return len(c.Values) }

// NewStringColumn builds a CHARACTER column from values and a validity
// mask. Callers outside this package cannot set the embedded columnBase
// directly, since its field name is unexported.
func NewStringColumn(name string, values []string, valid []bool) *StringColumn {
	return &StringColumn{columnBase: columnBase{Name: name}, Values: values, Valid: valid}
}

// IntColumn is the INT_32 variant. A value equal to NAInt32 is missing.
type IntColumn struct {
	columnBase
	Values []int32
}

func (c *IntColumn) LogicalType() ColumnType { return TypeInt32 }
func (c *IntColumn) NumRows() int            { return len(c.Values) }

// NewIntColumn builds an INT_32 column.
func NewIntColumn(name string, values []int32) *IntColumn {
	return &IntColumn{columnBase: columnBase{Name: name}, Values: values}
}

// DoubleColumn is the DOUBLE_64 variant. A value matching the NADouble
// bit pattern is missing.
type DoubleColumn struct {
	columnBase
	Values []float64
}

func (c *DoubleColumn) LogicalType() ColumnType { return TypeDouble64 }
func (c *DoubleColumn) NumRows() int            { return len(c.Values) }

// NewDoubleColumn builds a DOUBLE_64 column.
func NewDoubleColumn(name string, values []float64) *DoubleColumn {
	return &DoubleColumn{columnBase: columnBase{Name: name}, Values: values}
}

// BoolColumn is the BOOL_32 tri-state variant, stored as int32 per row.
type BoolColumn struct {
	columnBase
	Values []int32
}

func (c *BoolColumn) LogicalType() ColumnType { return TypeBool32 }
func (c *BoolColumn) NumRows() int            { return len(c.Values) }

// NewBoolColumn builds a BOOL_32 column.
func NewBoolColumn(name string, values []int32) *BoolColumn {
	return &BoolColumn{columnBase: columnBase{Name: name}, Values: values}
}

// FactorColumn is the FACTOR variant: int32 level codes in [1..L] (or
// NAInt32 for missing) plus the Levels block of L level names.
type FactorColumn struct {
	columnBase
	Codes  []int32
	Levels []string
}

func (c *FactorColumn) LogicalType() ColumnType { return TypeFactor }
func (c *FactorColumn) NumRows() int            { return len(c.Codes) }

// NewFactorColumn builds a FACTOR column from level codes (1..len(levels),
// or NAInt32 for missing) and the level names they index into.
func NewFactorColumn(name string, codes []int32, levels []string) *FactorColumn {
	return &FactorColumn{columnBase: columnBase{Name: name}, Codes: codes, Levels: levels}
}

// SourceTable is the abstract table a caller supplies to Write (spec
// section 6, "Source table" collaborator). Column(i) must return one of
// the five concrete *XxxColumn types above.
type SourceTable interface {
	NrOfColumns() int
	NrOfRows() int
	NrOfKeys() int
	KeyColumns() []int
	Column(i int) Column
}

// Table is the engine's minimal decode target for ReadRange (spec section
// 6's "Destination table" collaborator, simplified to a concrete struct
// since this repository does not own the caller's in-memory table type).
type Table struct {
	NumRows uint64
	Columns []Column
}

// Meta is the metadata returned by ReadMeta without touching column bodies.
type Meta struct {
	Version      uint32
	NrOfCols     int
	KeyLength    int
	NrOfRows     uint64
	KeyColPos    []int32
	ColTypes     []ColumnType
	ColBaseTypes []ColumnType
	ColNames     []string
}

// Selection requests an ordered subset of columns by name. A nil
// Selection (or nil Names) selects every column in file order.
type Selection struct {
	Names []string
}
