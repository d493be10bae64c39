package table

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/archivekit/packforge/internal/codec"
	"github.com/archivekit/packforge/internal/perr"
	"github.com/archivekit/packforge/internal/schema"
)

// dbGUIDMarker is the 4-byte marker preceding the optional UUID string on
// every DB table payload (spec §4.3 step 2).
var dbGUIDMarker = [4]byte{0xFD, 0xFE, 0xFC, 0xFF}

const (
	// locBOM is the little-endian decoding of the on-disk byte order mark
	// "FF FE" (rpfm's BYTEORDER_MARK = 65279): ReadU16 folds those two bytes
	// into 0xFEFF, not 0xFFFE.
	locBOM     = 0xFEFF
	locMagic   = "LOC"
	locVersion = int32(1)
)

// DBHeader is the decoded fixed-layout header that precedes every DB table's
// rows: a GUID marker, an optional embedded UUID string, a version, a
// "mysterious" flag byte and a row count.
type DBHeader struct {
	GUID      string
	Version   int32
	Mysterious byte
	RowCount  uint32
}

// DecodeDBHeader reads the DB table header described in spec §4.3 step 2.
// The UUID string is optional: its presence is signalled by the marker
// being immediately followed by a printable UUID rather than the version
// int32 — in practice CA tooling always emits it, so we treat it as
// present whenever the u32-length-prefixed string following the marker
// reads and parses as a UUID, and rewind to just after the marker otherwise.
func DecodeDBHeader(r *codec.Reader) (DBHeader, error) {
	marker, err := r.ReadBytes(4)
	if err != nil {
		return DBHeader{}, err
	}
	for i, b := range marker {
		if b != dbGUIDMarker[i] {
			return DBHeader{}, fmt.Errorf("table: bad DB GUID marker % x", marker)
		}
	}

	save := r.Pos()
	guidStr, uuidErr := r.ReadSizedStringU8_32()
	if uuidErr == nil {
		_, uuidErr = uuid.Parse(guidStr)
	}
	if uuidErr != nil {
		// Not a UUID after all — this payload omits the optional string;
		// rewind and read the version directly.
		r.Seek(save)
		guidStr = ""
	}

	version, err := r.ReadI32()
	if err != nil {
		return DBHeader{}, err
	}
	mysterious, err := r.ReadU8()
	if err != nil {
		return DBHeader{}, err
	}
	rowCount, err := r.ReadU32()
	if err != nil {
		return DBHeader{}, err
	}
	return DBHeader{GUID: guidStr, Version: version, Mysterious: mysterious, RowCount: rowCount}, nil
}

// EncodeDBHeader writes h back out in the same shape it was read in
// (omitting the UUID string when h.GUID is empty).
func EncodeDBHeader(w *codec.Writer, h DBHeader) {
	w.WriteBytes(dbGUIDMarker[:])
	if h.GUID != "" {
		w.WriteSizedStringU8_32(h.GUID)
	}
	w.WriteI32(h.Version)
	w.WriteU8(h.Mysterious)
	w.WriteU32(h.RowCount)
}

// DecodeLocHeader reads and validates the fixed Loc header (BOM + "LOC" +
// pad byte + version + row count).
func DecodeLocHeader(r *codec.Reader) (version int32, rowCount uint32, err error) {
	bom, err := r.ReadU16()
	if err != nil {
		return 0, 0, err
	}
	if bom != locBOM {
		return 0, 0, perr.LocNotALocTable()
	}
	magic, err := r.ReadStringU8(3)
	if err != nil {
		return 0, 0, err
	}
	if magic != locMagic {
		return 0, 0, perr.LocNotALocTable()
	}
	if _, err := r.ReadU8(); err != nil { // pad byte
		return 0, 0, err
	}
	version, err = r.ReadI32()
	if err != nil {
		return 0, 0, err
	}
	rowCount, err = r.ReadU32()
	return version, rowCount, err
}

func EncodeLocHeader(w *codec.Writer, version int32, rowCount uint32) {
	w.WriteU16(locBOM)
	w.WriteStringU8(locMagic)
	w.WriteU8(0)
	w.WriteI32(version)
	w.WriteU32(rowCount)
}

// DecodeRows decodes rowCount rows against def, recursing into nested
// sequences, and checks that the cursor lands exactly on endOfPayload.
func DecodeRows(r *codec.Reader, def *schema.Definition, rowCount uint32, endOfPayload int64) (*Table, error) {
	fields := def.ApplyPatches()
	tbl := New(def, "")
	tbl.Rows = make([][]DecodedData, 0, rowCount)

	for i := uint32(0); i < rowCount; i++ {
		row, err := decodeRow(r, fields)
		if err != nil {
			return nil, fmt.Errorf("table: row %d: %w", i, err)
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	if err := r.ExpectEnd(endOfPayload); err != nil {
		return nil, err
	}
	return tbl, nil
}

func decodeRow(r *codec.Reader, fields []schema.Field) ([]DecodedData, error) {
	row := make([]DecodedData, len(fields))
	for i, f := range fields {
		cell, err := decodeCell(r, f)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		row[i] = cell
	}
	return row, nil
}

func decodeCell(r *codec.Reader, f schema.Field) (DecodedData, error) {
	switch f.Type {
	case schema.FieldBoolean:
		v, err := r.ReadBool()
		return DecodedData{Type: f.Type, Bool: v}, err
	case schema.FieldF32:
		v, err := r.ReadF32()
		return DecodedData{Type: f.Type, F32: v}, err
	case schema.FieldF64:
		v, err := r.ReadF64()
		return DecodedData{Type: f.Type, F64: v}, err
	case schema.FieldI16, schema.FieldOptionalI16:
		v, err := r.ReadI16()
		return DecodedData{Type: f.Type, I16: v}, err
	case schema.FieldI32, schema.FieldOptionalI32:
		v, err := r.ReadI32()
		return DecodedData{Type: f.Type, I32: v}, err
	case schema.FieldColourRGB:
		v, err := r.ReadColourRGB()
		return DecodedData{Type: f.Type, I32: int32(v)}, err
	case schema.FieldI64, schema.FieldOptionalI64:
		v, err := r.ReadI64()
		return DecodedData{Type: f.Type, I64: v}, err
	case schema.FieldStringU8:
		v, err := r.ReadSizedStringU8()
		return DecodedData{Type: f.Type, Str: v}, err
	case schema.FieldStringU16:
		v, err := r.ReadSizedStringU16()
		return DecodedData{Type: f.Type, Str: v}, err
	case schema.FieldOptionalStringU8:
		v, err := r.ReadOptionalStringU8()
		return DecodedData{Type: f.Type, Str: v}, err
	case schema.FieldOptionalStringU16:
		v, err := r.ReadOptionalStringU16()
		return DecodedData{Type: f.Type, Str: v}, err
	case schema.FieldSequenceU16:
		return decodeSequence(r, f, true)
	case schema.FieldSequenceU32:
		return decodeSequence(r, f, false)
	default:
		return DecodedData{}, fmt.Errorf("unsupported field type %s", f.Type)
	}
}

func decodeSequence(r *codec.Reader, f schema.Field, u16count bool) (DecodedData, error) {
	var count uint32
	var err error
	if u16count {
		var c uint16
		c, err = r.ReadU16()
		count = uint32(c)
	} else {
		count, err = r.ReadU32()
	}
	if err != nil {
		return DecodedData{}, err
	}
	def := f.SequenceOf
	if def == nil {
		return DecodedData{}, fmt.Errorf("sequence field %q has no nested definition", f.Name)
	}
	nested := New(def, f.Name)
	fields := def.ApplyPatches()
	for i := uint32(0); i < count; i++ {
		row, err := decodeRow(r, fields)
		if err != nil {
			return DecodedData{}, fmt.Errorf("sequence %q row %d: %w", f.Name, i, err)
		}
		nested.Rows = append(nested.Rows, row)
	}
	return DecodedData{Type: f.Type, Sequence: nested}, nil
}

// EncodeRows writes t's rows in order, the inverse of DecodeRows.
func EncodeRows(w *codec.Writer, t *Table) error {
	fields := t.Definition.ApplyPatches()
	for i, row := range t.Rows {
		if err := encodeRow(w, fields, row); err != nil {
			return fmt.Errorf("table: row %d: %w", i, err)
		}
	}
	return nil
}

func encodeRow(w *codec.Writer, fields []schema.Field, row []DecodedData) error {
	if len(row) != len(fields) {
		return fmt.Errorf("row has %d cells, definition has %d fields", len(row), len(fields))
	}
	for i, f := range fields {
		if err := encodeCell(w, f, row[i]); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}

func encodeCell(w *codec.Writer, f schema.Field, cell DecodedData) error {
	switch f.Type {
	case schema.FieldBoolean:
		w.WriteBool(cell.Bool)
	case schema.FieldF32:
		w.WriteF32(cell.F32)
	case schema.FieldF64:
		w.WriteF64(cell.F64)
	case schema.FieldI16, schema.FieldOptionalI16:
		w.WriteI16(cell.I16)
	case schema.FieldI32, schema.FieldOptionalI32:
		w.WriteI32(cell.I32)
	case schema.FieldColourRGB:
		w.WriteColourRGB(uint32(cell.I32))
	case schema.FieldI64, schema.FieldOptionalI64:
		w.WriteI64(cell.I64)
	case schema.FieldStringU8:
		w.WriteSizedStringU8(cell.Str)
	case schema.FieldStringU16:
		w.WriteSizedStringU16(cell.Str)
	case schema.FieldOptionalStringU8:
		w.WriteOptionalStringU8(cell.Str)
	case schema.FieldOptionalStringU16:
		w.WriteOptionalStringU16(cell.Str)
	case schema.FieldSequenceU16:
		if cell.Sequence == nil {
			w.WriteU16(0)
			return nil
		}
		w.WriteU16(uint16(len(cell.Sequence.Rows)))
		return EncodeRows(w, cell.Sequence)
	case schema.FieldSequenceU32:
		if cell.Sequence == nil {
			w.WriteU32(0)
			return nil
		}
		w.WriteU32(uint32(len(cell.Sequence.Rows)))
		return EncodeRows(w, cell.Sequence)
	default:
		return fmt.Errorf("unsupported field type %s", f.Type)
	}
	return nil
}
