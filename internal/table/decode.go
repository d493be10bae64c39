package table

import (
	"fmt"

	"github.com/archivekit/packforge/internal/codec"
	"github.com/archivekit/packforge/internal/schema"
)

// DecodeDB decodes a full DB table payload (header + rows), looking up the
// matching schema.Definition by the on-wire version.
func DecodeDB(data []byte, reg *schema.Registry, tableName string) (*Table, DBHeader, error) {
	r := codec.NewReader(data)
	header, err := DecodeDBHeader(r)
	if err != nil {
		return nil, DBHeader{}, err
	}
	def, err := reg.DefinitionByVersion(tableName, header.Version)
	if err != nil {
		return nil, DBHeader{}, err
	}
	tbl, err := DecodeRows(r, def, header.RowCount, r.Len())
	if err != nil {
		return nil, header, err
	}
	tbl.Name = tableName
	return tbl, header, nil
}

// EncodeDB is the inverse of DecodeDB, re-emitting the same header the
// table was decoded with. An error here means the in-memory table's rows no
// longer match its definition (e.g. after a bad edit through the table API)
// and is returned to the caller rather than panicking, per spec §7.
func EncodeDB(t *Table, header DBHeader) ([]byte, error) {
	w := codec.NewWriter()
	header.RowCount = uint32(len(t.Rows))
	EncodeDBHeader(w, header)
	if err := EncodeRows(w, t); err != nil {
		return nil, fmt.Errorf("table: encode %q: %w", t.Name, err)
	}
	return w.Bytes(), nil
}

// LocTableName is the fixed schema name every localisation file's rows are
// decoded against.
const LocTableName = "loc"

// DecodeLoc decodes a ".loc" payload using the fixed "loc" definition.
func DecodeLoc(data []byte, reg *schema.Registry) (*Table, int32, error) {
	r := codec.NewReader(data)
	version, rowCount, err := DecodeLocHeader(r)
	if err != nil {
		return nil, 0, err
	}
	def, err := reg.DefinitionByVersion(LocTableName, version)
	if err != nil {
		return nil, 0, err
	}
	tbl, err := DecodeRows(r, def, rowCount, r.Len())
	if err != nil {
		return nil, version, err
	}
	tbl.Name = LocTableName
	return tbl, version, nil
}

// EncodeLoc is the inverse of DecodeLoc.
func EncodeLoc(t *Table, version int32) ([]byte, error) {
	w := codec.NewWriter()
	EncodeLocHeader(w, version, uint32(len(t.Rows)))
	if err := EncodeRows(w, t); err != nil {
		return nil, fmt.Errorf("table: encode loc: %w", err)
	}
	return w.Bytes(), nil
}

// LocDefinition returns the built-in (key, text, tooltip) Loc definition,
// version 1 — the only version CA has ever shipped.
func LocDefinition() *schema.Definition {
	return &schema.Definition{
		Version: 1,
		Fields: []schema.Field{
			{Name: "key", Type: schema.FieldStringU16, IsKey: true},
			{Name: "text", Type: schema.FieldStringU16},
			{Name: "tooltip", Type: schema.FieldBoolean},
		},
	}
}
