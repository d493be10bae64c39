package table

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/archivekit/packforge/internal/schema"
)

// TSV metadata table names accepted on import. "Loc PackedFile" is the
// legacy alias older CA/RPFM tooling wrote, supplemented from
// rpfm's loc/mod.rs TSV_NAME_LOC/TSV_NAME_LOC_OLD constants.
const (
	TSVNameLoc    = "Loc"
	TSVNameLocOld = "Loc PackedFile"
)

// ExportTSV writes t as a TSV document: a metadata header row
// (#table_name, #version, field names in declaration order), a
// human-readable header row, then one row per data row.
func ExportTSV(w io.Writer, t *Table, tableNameOverride string) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	name := t.Name
	if tableNameOverride != "" {
		name = tableNameOverride
	}

	fields := t.Definition.ApplyPatches()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	fmt.Fprintf(bw, "#%s\t#%d\t%s\n", name, t.Definition.Version, strings.Join(names, "\t"))
	fmt.Fprintln(bw, strings.Join(names, "\t")) // human-readable header, ignored on import

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = cellToTSV(c)
		}
		fmt.Fprintln(bw, strings.Join(cells, "\t"))
	}
	return bw.Err()
}

func cellToTSV(c DecodedData) string {
	switch c.Type {
	case schema.FieldBoolean:
		return strconv.FormatBool(c.Bool)
	case schema.FieldF32:
		return strconv.FormatFloat(float64(c.F32), 'g', -1, 32)
	case schema.FieldF64:
		return strconv.FormatFloat(c.F64, 'g', -1, 64)
	case schema.FieldI16, schema.FieldOptionalI16:
		return strconv.FormatInt(int64(c.I16), 10)
	case schema.FieldI32, schema.FieldOptionalI32, schema.FieldColourRGB:
		return strconv.FormatInt(int64(c.I32), 10)
	case schema.FieldI64, schema.FieldOptionalI64:
		return strconv.FormatInt(c.I64, 10)
	default:
		return c.Str
	}
}

func cellFromTSV(f schema.Field, raw string) (DecodedData, error) {
	switch f.Type {
	case schema.FieldBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return DecodedData{}, fmt.Errorf("field %q: not a bool: %q", f.Name, raw)
		}
		return DecodedData{Type: f.Type, Bool: b}, nil
	case schema.FieldF32:
		v, err := strconv.ParseFloat(raw, 32)
		return DecodedData{Type: f.Type, F32: float32(v)}, err
	case schema.FieldF64:
		v, err := strconv.ParseFloat(raw, 64)
		return DecodedData{Type: f.Type, F64: v}, err
	case schema.FieldI16, schema.FieldOptionalI16:
		v, err := strconv.ParseInt(raw, 10, 16)
		return DecodedData{Type: f.Type, I16: int16(v)}, err
	case schema.FieldI32, schema.FieldOptionalI32, schema.FieldColourRGB:
		v, err := strconv.ParseInt(raw, 10, 32)
		return DecodedData{Type: f.Type, I32: int32(v)}, err
	case schema.FieldI64, schema.FieldOptionalI64:
		v, err := strconv.ParseInt(raw, 10, 64)
		return DecodedData{Type: f.Type, I64: v}, err
	default:
		return DecodedData{Type: f.Type, Str: raw}, nil
	}
}

// ImportTSV parses a TSV document previously produced by ExportTSV. Column
// order in the file may differ from def's declaration order; unknown
// columns are ignored and columns missing from the file fall back to their
// field's default value.
func ImportTSV(r io.Reader, def *schema.Definition) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<16), 1<<20)

	if !sc.Scan() {
		return nil, fmt.Errorf("tsv: empty document")
	}
	metaCols := strings.Split(sc.Text(), "\t")
	if len(metaCols) < 2 || !strings.HasPrefix(metaCols[0], "#") {
		return nil, fmt.Errorf("tsv: malformed metadata header %q", sc.Text())
	}
	tableName := strings.TrimPrefix(metaCols[0], "#")
	if tableName == TSVNameLocOld {
		// Non-Loc tables keep their real table name verbatim; only the
		// legacy Loc alias is normalised.
		tableName = TSVNameLoc
	}
	fileFieldNames := metaCols[2:]

	if !sc.Scan() {
		return nil, fmt.Errorf("tsv: missing human-readable header row")
	}

	fields := def.ApplyPatches()
	fieldOrder := make(map[int]schema.Field, len(fileFieldNames)) // file column index -> definition field
	for i, name := range fileFieldNames {
		for _, f := range fields {
			if f.Name == name {
				fieldOrder[i] = f
				break
			}
		}
	}

	tbl := New(def, tableName)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		row := make([]DecodedData, len(fields))
		present := make([]bool, len(fields))
		for i, raw := range cols {
			f, ok := fieldOrder[i]
			if !ok {
				continue // unknown column, ignored
			}
			pos, _ := def.ColumnPositionByName(f.Name)
			cell, err := cellFromTSV(f, raw)
			if err != nil {
				return nil, fmt.Errorf("tsv: row %d: %w", len(tbl.Rows), err)
			}
			row[pos] = cell
			present[pos] = true
		}
		for i, f := range fields {
			if !present[i] {
				row[i] = DefaultCell(f)
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("tsv: %w", err)
	}
	return tbl, nil
}
