package schema

import "gopkg.in/yaml.v3"

// The four legacy on-disk schema formats this registry must still be able
// to load and upgrade from, per C2's contract. Each version added exactly
// one capability over its predecessor:
//
//	v1 - table -> definitions, fields have no enum/bitwise/colour metadata.
//	v2 - fields gain an enum map (i32 -> label).
//	v3 - definitions gain localised_fields.
//	v4 - definitions gain a patch overlay.
//	v5 (current) - adds explicit format_version framing and deterministic ordering.
//
// Every loader below is structural-mismatch-tolerant: it is only ever
// reached after loadV5 failed, and it itself fails (rather than silently
// misreading) if the document doesn't look like its own shape.

type fieldV1 struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"field_type"`
	IsKey    bool   `yaml:"is_key"`
	Default  string `yaml:"default,omitempty"`
	CAOrder  int    `yaml:"ca_order"`
}

type definitionV1 struct {
	Version int32     `yaml:"version"`
	Fields  []fieldV1 `yaml:"fields"`
}

type onDiskV1 struct {
	Tables map[string][]definitionV1 `yaml:"tables"`
}

func loadV1(data []byte) (*Registry, error) {
	var doc onDiskV1
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Tables) == 0 {
		return nil, errEmptyLegacyDoc
	}
	reg := NewRegistry("")
	for table, defs := range doc.Tables {
		for _, d := range defs {
			reg.AddDefinition(table, &Definition{Version: d.Version, Fields: upgradeFieldsV1(d.Fields)})
		}
	}
	return reg, nil
}

func upgradeFieldsV1(in []fieldV1) []Field {
	out := make([]Field, len(in))
	for i, f := range in {
		out[i] = Field{Name: f.Name, Type: fieldTypeFromName(f.Type), IsKey: f.IsKey, Default: f.Default, CAOrder: f.CAOrder}
	}
	return out
}

type fieldV2 struct {
	fieldV1 `yaml:",inline"`
	Enum    map[int32]string `yaml:"enum,omitempty"`
}

type definitionV2 struct {
	Version int32     `yaml:"version"`
	Fields  []fieldV2 `yaml:"fields"`
}

type onDiskV2 struct {
	SchemaVersion int                       `yaml:"schema_version"`
	Tables        map[string][]definitionV2 `yaml:"tables"`
}

func loadV2(data []byte) (*Registry, error) {
	var doc onDiskV2
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.SchemaVersion != 2 {
		return nil, errNotThisVersion
	}
	reg := NewRegistry("")
	for table, defs := range doc.Tables {
		for _, d := range defs {
			fields := make([]Field, len(d.Fields))
			for i, f := range d.Fields {
				fields[i] = Field{Name: f.Name, Type: fieldTypeFromName(f.Type), IsKey: f.IsKey, Default: f.Default, CAOrder: f.CAOrder, Enum: f.Enum}
			}
			reg.AddDefinition(table, &Definition{Version: d.Version, Fields: fields})
		}
	}
	return reg, nil
}

type definitionV3 struct {
	Version         int32     `yaml:"version"`
	Fields          []fieldV2 `yaml:"fields"`
	LocalisedFields []fieldV2 `yaml:"localised_fields,omitempty"`
}

type onDiskV3 struct {
	SchemaVersion int                       `yaml:"schema_version"`
	Tables        map[string][]definitionV3 `yaml:"tables"`
}

func loadV3(data []byte) (*Registry, error) {
	var doc onDiskV3
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.SchemaVersion != 3 {
		return nil, errNotThisVersion
	}
	reg := NewRegistry("")
	for table, defs := range doc.Tables {
		for _, d := range defs {
			reg.AddDefinition(table, &Definition{
				Version:         d.Version,
				Fields:          fieldsV2ToV5(d.Fields),
				LocalisedFields: fieldsV2ToV5(d.LocalisedFields),
			})
		}
	}
	return reg, nil
}

func fieldsV2ToV5(in []fieldV2) []Field {
	out := make([]Field, len(in))
	for i, f := range in {
		out[i] = Field{Name: f.Name, Type: fieldTypeFromName(f.Type), IsKey: f.IsKey, Default: f.Default, CAOrder: f.CAOrder, Enum: f.Enum}
	}
	return out
}

type definitionV4 struct {
	Version         int32                         `yaml:"version"`
	Fields          []fieldV2                     `yaml:"fields"`
	LocalisedFields []fieldV2                     `yaml:"localised_fields,omitempty"`
	Patches         map[string]map[string]string  `yaml:"patches,omitempty"`
}

type onDiskV4 struct {
	SchemaVersion int                       `yaml:"schema_version"`
	Name          string                    `yaml:"name"`
	Tables        map[string][]definitionV4 `yaml:"tables"`
}

func loadV4(data []byte) (*Registry, error) {
	var doc onDiskV4
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.SchemaVersion != 4 {
		return nil, errNotThisVersion
	}
	reg := NewRegistry(doc.Name)
	for table, defs := range doc.Tables {
		for _, d := range defs {
			reg.AddDefinition(table, &Definition{
				Version:         d.Version,
				Fields:          fieldsV2ToV5(d.Fields),
				LocalisedFields: fieldsV2ToV5(d.LocalisedFields),
				Patches:         d.Patches,
			})
		}
	}
	return reg, nil
}

func fieldTypeFromName(name string) FieldType {
	switch name {
	case "Boolean":
		return FieldBoolean
	case "F32":
		return FieldF32
	case "F64":
		return FieldF64
	case "I16":
		return FieldI16
	case "I32":
		return FieldI32
	case "I64":
		return FieldI64
	case "OptionalI16":
		return FieldOptionalI16
	case "OptionalI32":
		return FieldOptionalI32
	case "OptionalI64":
		return FieldOptionalI64
	case "ColourRGB":
		return FieldColourRGB
	case "StringU16":
		return FieldStringU16
	case "OptionalStringU8":
		return FieldOptionalStringU8
	case "OptionalStringU16":
		return FieldOptionalStringU16
	case "SequenceU16":
		return FieldSequenceU16
	case "SequenceU32":
		return FieldSequenceU32
	default:
		return FieldStringU8
	}
}

type legacyErr string

func (e legacyErr) Error() string { return string(e) }

const (
	errEmptyLegacyDoc legacyErr = "empty legacy schema document"
	errNotThisVersion legacyErr = "document does not match this legacy schema version"
)
