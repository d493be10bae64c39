// Package schema holds the per-game schema registry: the versioned field
// definitions that tell the table engine (internal/table) how to decode a
// DB or Loc payload, plus the on-disk persistence and legacy-version
// migration the registry loader performs automatically.
package schema

import "golang.org/x/exp/slices"

// FieldType enumerates every scalar/sequence shape a table column can hold.
type FieldType int

const (
	FieldBoolean FieldType = iota
	FieldF32
	FieldF64
	FieldI16
	FieldI32
	FieldI64
	FieldOptionalI16
	FieldOptionalI32
	FieldOptionalI64
	FieldColourRGB
	FieldStringU8
	FieldStringU16
	FieldOptionalStringU8
	FieldOptionalStringU16
	FieldSequenceU16
	FieldSequenceU32
)

func (t FieldType) String() string {
	switch t {
	case FieldBoolean:
		return "Boolean"
	case FieldF32:
		return "F32"
	case FieldF64:
		return "F64"
	case FieldI16:
		return "I16"
	case FieldI32:
		return "I32"
	case FieldI64:
		return "I64"
	case FieldOptionalI16:
		return "OptionalI16"
	case FieldOptionalI32:
		return "OptionalI32"
	case FieldOptionalI64:
		return "OptionalI64"
	case FieldColourRGB:
		return "ColourRGB"
	case FieldStringU8:
		return "StringU8"
	case FieldStringU16:
		return "StringU16"
	case FieldOptionalStringU8:
		return "OptionalStringU8"
	case FieldOptionalStringU16:
		return "OptionalStringU16"
	case FieldSequenceU16:
		return "SequenceU16"
	case FieldSequenceU32:
		return "SequenceU32"
	default:
		return "Unknown"
	}
}

// ColourComponent tags a field as one channel of a synthetic RGB colour
// assembled from three separate columns.
type ColourComponent int

const (
	ColourNone ColourComponent = iota
	ColourR
	ColourG
	ColourB
)

// FieldRef is an optional (table, column) cross-reference used by the
// dependencies cache and diagnostics to resolve foreign keys.
type FieldRef struct {
	Table  string
	Column string
}

// Field is one column of a Definition.
type Field struct {
	Name             string          `yaml:"name"`
	Type             FieldType       `yaml:"field_type"`
	IsKey            bool            `yaml:"is_key"`
	Default          string          `yaml:"default,omitempty"`
	Filename         bool            `yaml:"filename,omitempty"`
	Reference        *FieldRef       `yaml:"reference,omitempty"`
	LookupColumns    []string        `yaml:"lookup,omitempty"`
	Description      string          `yaml:"description,omitempty"`
	CAOrder          int             `yaml:"ca_order"`
	BitwiseWidth     int             `yaml:"bitwise,omitempty"`
	Enum             map[int32]string `yaml:"enum,omitempty"`
	PartOfColour     ColourComponent `yaml:"colour_component,omitempty"`
	SequenceOf       *Definition     `yaml:"sequence_of,omitempty"` // for FieldSequenceU16/U32
}

// Definition is a single versioned schema record for a table. version == -1
// marks a virtual/placeholder definition that never participates in
// encoding (invariant 8).
type Definition struct {
	Version         int32   `yaml:"version"`
	Fields          []Field `yaml:"fields"`
	LocalisedFields []Field `yaml:"localised_fields,omitempty"`
	// Patches overlays column -> (key -> value) string patches applied to
	// fields at use time (e.g. overriding a default without forking the
	// whole definition); ApplyPatches applies only the "default" key.
	// Supplements the distilled
	// spec per rpfm's schema/v2.rs patch set.
	Patches map[string]map[string]string `yaml:"patches,omitempty"`
}

// IsVirtual reports whether this definition is a -1 placeholder.
func (d *Definition) IsVirtual() bool { return d.Version == -1 }

// FieldByName returns the field with the given name, if any.
func (d *Definition) FieldByName(name string) (Field, bool) {
	i := slices.IndexFunc(d.Fields, func(f Field) bool { return f.Name == name })
	if i < 0 {
		return Field{}, false
	}
	return d.Fields[i], true
}

// ColumnPositionByName implements C3's column_position_by_name.
func (d *Definition) ColumnPositionByName(name string) (int, bool) {
	i := slices.IndexFunc(d.Fields, func(f Field) bool { return f.Name == name })
	return i, i >= 0
}

// KeyColumns returns the indices of fields flagged is_key, in declaration order.
func (d *Definition) KeyColumns() []int {
	var idx []int
	for i, f := range d.Fields {
		if f.IsKey {
			idx = append(idx, i)
		}
	}
	return idx
}

// ApplyPatches returns d.Fields with each column's "default" patch value
// overlaid onto Default, without mutating d (a copy is made only when d has
// patches). Other patch keys, enum labels included, are not applied.
func (d *Definition) ApplyPatches() []Field {
	if len(d.Patches) == 0 {
		return d.Fields
	}
	out := make([]Field, len(d.Fields))
	copy(out, d.Fields)
	for i, f := range out {
		patch, ok := d.Patches[f.Name]
		if !ok {
			continue
		}
		if v, ok := patch["default"]; ok {
			f.Default = v
		}
		out[i] = f
	}
	return out
}
