package dependencies

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/archivekit/packforge/internal/perr"
	"github.com/archivekit/packforge/internal/schema"
	"github.com/archivekit/packforge/internal/table"
)

// rawTable mirrors rpfm_lib's RawTable/RawTableRow/RawTableField: the
// Assembly Kit's own XML export shape, one <datarow> per table row and one
// <datafield field_name="..."> per cell. Unlike serde_xml_rs, Go's
// encoding/xml handles this generic shape directly, so none of the
// per-field regex renaming table_data.rs does to work around serde's
// duplicate-tag limitation is needed here.
type rawTable struct {
	XMLName xml.Name    `xml:"dataroot"`
	Rows    []rawRow    `xml:"datarow"`
}

type rawRow struct {
	Fields []rawField `xml:"datafield"`
}

type rawField struct {
	Name  string `xml:"field_name,attr"`
	Value string `xml:",chardata"`
}

// ParseAsskit reads every .xml file directly under root, converts each to a
// table.Table keyed by "<basename>_tables" (matching table_data.rs's own
// name -> table-name rule), and resolves fields against reg's newest
// definition for that table. A file whose definition can't be resolved, or
// that fails to parse, is skipped rather than aborting the whole directory
// (spec §4.6's "build failures on one source do not fail the whole cache").
func ParseAsskit(root string, reg *schema.Registry) (map[string]*table.Table, error) {
	if reg == nil {
		return nil, fmt.Errorf("dependencies: ParseAsskit: no schema registry supplied")
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, perr.ReadFileFolder(root)
	}

	out := make(map[string]*table.Table)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
			continue
		}
		if strings.EqualFold(entry.Name(), "translated_texts.xml") {
			continue // ~400MB in CA's own asskit export and unneeded here, per table_data.rs
		}

		tableName := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())) + "_tables"
		defs := reg.Definitions(tableName)
		if len(defs) == 0 {
			continue
		}
		def := defs[0] // Definitions is sorted descending by version

		t, err := parseAsskitFile(filepath.Join(root, entry.Name()), tableName, def)
		if err != nil {
			continue
		}
		out[tableName] = t
	}
	return out, nil
}

func parseAsskitFile(path, tableName string, def *schema.Definition) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var raw rawTable
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	t := table.New(def, tableName)
	t.Rows = make([][]table.DecodedData, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		byName := make(map[string]string, len(row.Fields))
		for _, f := range row.Fields {
			byName[f.Name] = f.Value
		}

		decoded := make([]table.DecodedData, len(def.Fields))
		for i, field := range def.Fields {
			value, ok := byName[field.Name]
			if !ok {
				decoded[i] = table.DefaultCell(field)
				continue
			}
			decoded[i] = cellFromAsskit(field, value)
		}
		t.Rows = append(t.Rows, decoded)
	}
	return t, nil
}

// cellFromAsskit converts one Assembly Kit field string into a
// table.DecodedData, falling back to the field's zero value on a parse
// failure rather than erroring the whole row, matching table_data.rs's
// `if let Ok(data) = ... else 0` pattern for every numeric type.
func cellFromAsskit(field schema.Field, raw string) table.DecodedData {
	switch field.Type {
	case schema.FieldBoolean:
		return table.DecodedData{Type: field.Type, Bool: raw == "true" || raw == "1"}
	case schema.FieldF32:
		v, _ := strconv.ParseFloat(raw, 32)
		return table.DecodedData{Type: field.Type, F32: float32(v)}
	case schema.FieldF64:
		v, _ := strconv.ParseFloat(raw, 64)
		return table.DecodedData{Type: field.Type, F64: v}
	case schema.FieldI16, schema.FieldOptionalI16:
		v, _ := strconv.ParseInt(raw, 10, 16)
		return table.DecodedData{Type: field.Type, I16: int16(v)}
	case schema.FieldI32, schema.FieldOptionalI32:
		v, _ := strconv.ParseInt(raw, 10, 32)
		return table.DecodedData{Type: field.Type, I32: int32(v)}
	case schema.FieldI64, schema.FieldOptionalI64:
		v, _ := strconv.ParseInt(raw, 10, 64)
		return table.DecodedData{Type: field.Type, I64: v}
	case schema.FieldColourRGB, schema.FieldStringU8, schema.FieldStringU16,
		schema.FieldOptionalStringU8, schema.FieldOptionalStringU16:
		return table.DecodedData{Type: field.Type, Str: raw}
	default:
		// SequenceU16/U32 never appear in raw Assembly Kit tables.
		return table.DefaultCell(field)
	}
}
