// Package table implements the schema-driven table engine (C3): decoding
// and encoding DB/Loc row-sets against a schema.Definition, TSV import and
// export, merging, and column lookups.
package table

import (
	"fmt"

	"github.com/archivekit/packforge/internal/schema"
)

// DecodedData is the tagged-variant cell value every decoded row holds,
// mirroring spec §3's DecodedData enum over scalars plus the two nested
// sequence kinds.
type DecodedData struct {
	Type     schema.FieldType
	Bool     bool
	I16      int16
	I32      int32
	I64      int64
	F32      float32
	F64      float64
	Str      string
	Sequence *Table // valid when Type is FieldSequenceU16/U32
}

// Table is the in-memory representation of a decoded tabular payload.
type Table struct {
	Definition *schema.Definition
	Name       string
	Rows       [][]DecodedData
}

// New creates an empty table bound to definition.
func New(def *schema.Definition, name string) *Table {
	return &Table{Definition: def, Name: name}
}

// ColumnPositionByName implements C3's column_position_by_name.
func (t *Table) ColumnPositionByName(name string) (int, bool) {
	return t.Definition.ColumnPositionByName(name)
}

// ValidateRow checks invariant 2: row length equals len(fields) and each
// cell's variant matches the declared field_type.
func (t *Table) ValidateRow(row []DecodedData) error {
	fields := t.Definition.ApplyPatches()
	if len(row) != len(fields) {
		return fmt.Errorf("row has %d cells, definition %q v%d has %d fields", len(row), t.Name, t.Definition.Version, len(fields))
	}
	for i, cell := range row {
		if !typeCompatible(fields[i].Type, cell.Type) {
			return fmt.Errorf("row cell %d (%s): expected %s, got %s", i, fields[i].Name, fields[i].Type, cell.Type)
		}
	}
	return nil
}

func typeCompatible(declared, actual schema.FieldType) bool {
	// Optional variants are stored in the same DecodedData field as their
	// non-optional counterpart. Optional strings carry a presence flag on
	// the wire, handled by the codec's optional-string readers and writers;
	// optional integers are read and written exactly like plain integers,
	// with no presence flag.
	normalise := func(ft schema.FieldType) schema.FieldType {
		switch ft {
		case schema.FieldOptionalI16:
			return schema.FieldI16
		case schema.FieldOptionalI32:
			return schema.FieldI32
		case schema.FieldOptionalI64:
			return schema.FieldI64
		case schema.FieldOptionalStringU8:
			return schema.FieldStringU8
		case schema.FieldOptionalStringU16:
			return schema.FieldStringU16
		default:
			return ft
		}
	}
	return normalise(declared) == normalise(actual)
}

// DefaultCell returns the zero/default DecodedData for a field, using its
// declared Default string where meaningful.
func DefaultCell(f schema.Field) DecodedData {
	switch f.Type {
	case schema.FieldBoolean:
		return DecodedData{Type: f.Type, Bool: f.Default == "true" || f.Default == "1"}
	case schema.FieldF32, schema.FieldF64:
		return DecodedData{Type: f.Type}
	case schema.FieldI16, schema.FieldOptionalI16:
		return DecodedData{Type: f.Type}
	case schema.FieldI32, schema.FieldOptionalI32, schema.FieldColourRGB:
		return DecodedData{Type: f.Type}
	case schema.FieldI64, schema.FieldOptionalI64:
		return DecodedData{Type: f.Type}
	case schema.FieldStringU8, schema.FieldStringU16, schema.FieldOptionalStringU8, schema.FieldOptionalStringU16:
		return DecodedData{Type: f.Type, Str: f.Default}
	case schema.FieldSequenceU16, schema.FieldSequenceU32:
		var def *schema.Definition
		if f.SequenceOf != nil {
			def = f.SequenceOf
		} else {
			def = &schema.Definition{Version: -1}
		}
		return DecodedData{Type: f.Type, Sequence: New(def, f.Name)}
	default:
		return DecodedData{Type: f.Type}
	}
}
