package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/archivekit/packforge/internal/codec"
	"github.com/archivekit/packforge/internal/schema"
)

func locDef() *schema.Definition { return LocDefinition() }

func sampleLocBytes() []byte {
	w := codec.NewWriter()
	EncodeLocHeader(w, 1, 2)
	w.WriteSizedStringU16("greeting")
	w.WriteSizedStringU16("Hello")
	w.WriteBool(false)
	w.WriteSizedStringU16("farewell")
	w.WriteSizedStringU16("Bye")
	w.WriteBool(true)
	return w.Bytes()
}

func TestDecodeLocRoundTrip(t *testing.T) {
	reg := schema.NewRegistry("test")
	reg.AddDefinition(LocTableName, locDef())

	data := sampleLocBytes()
	tbl, version, err := DecodeLoc(data, reg)
	if err != nil {
		t.Fatal(err)
	}
	if version != 1 || len(tbl.Rows) != 2 {
		t.Fatalf("unexpected decode: version=%d rows=%d", version, len(tbl.Rows))
	}
	if tbl.Rows[0][0].Str != "greeting" || tbl.Rows[1][2].Bool != true {
		t.Fatalf("unexpected row contents: %+v", tbl.Rows)
	}

	out, err := EncodeLoc(tbl, version)
	if err != nil {
		t.Fatalf("EncodeLoc: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round trip mismatch:\n got % x\nwant % x", out, data)
	}
}

func TestDecodeLocMissingDefinition(t *testing.T) {
	reg := schema.NewRegistry("test")
	_, _, err := DecodeLoc(sampleLocBytes(), reg)
	if err == nil {
		t.Fatal("expected MissingDefinition error")
	}
}

func TestDecodeLocSizeMismatch(t *testing.T) {
	reg := schema.NewRegistry("test")
	reg.AddDefinition(LocTableName, locDef())
	data := append(sampleLocBytes(), 0xAA) // trailing garbage byte
	_, _, err := DecodeLoc(data, reg)
	if err == nil {
		t.Fatal("expected size mismatch error")
	}
}

func TestTSVExportImportRoundTrip(t *testing.T) {
	def := locDef()
	tbl := New(def, TSVNameLoc)
	tbl.Rows = [][]DecodedData{
		{{Type: schema.FieldStringU16, Str: "k1"}, {Type: schema.FieldStringU16, Str: "v1"}, {Type: schema.FieldBoolean, Bool: false}},
		{{Type: schema.FieldStringU16, Str: "k2"}, {Type: schema.FieldStringU16, Str: "v2"}, {Type: schema.FieldBoolean, Bool: true}},
	}

	var buf bytes.Buffer
	if err := ExportTSV(&buf, tbl, ""); err != nil {
		t.Fatal(err)
	}

	imported, err := ImportTSV(strings.NewReader(buf.String()), def)
	if err != nil {
		t.Fatal(err)
	}
	if len(imported.Rows) != 2 || imported.Rows[0][0].Str != "k1" || imported.Rows[1][2].Bool != true {
		t.Fatalf("unexpected import: %+v", imported.Rows)
	}
}

func TestTSVImportMissingColumnUsesDefault(t *testing.T) {
	def := &schema.Definition{Version: 1, Fields: []schema.Field{
		{Name: "key", Type: schema.FieldStringU8, IsKey: true},
		{Name: "extra", Type: schema.FieldI32, Default: "0"},
	}}
	doc := "#t\t#1\tkey\n" +
		"key\n" +
		"abc\n"
	tbl, err := ImportTSV(strings.NewReader(doc), def)
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0][0].Str != "abc" || tbl.Rows[0][1].I32 != 0 {
		t.Fatalf("unexpected row: %+v", tbl.Rows)
	}
}

func TestMergeKeepsFirstByKey(t *testing.T) {
	def := &schema.Definition{Version: 1, Fields: []schema.Field{
		{Name: "key", Type: schema.FieldStringU8, IsKey: true},
		{Name: "v", Type: schema.FieldI32},
	}}
	a := New(def, "t")
	a.Rows = [][]DecodedData{{{Type: schema.FieldStringU8, Str: "x"}, {Type: schema.FieldI32, I32: 1}}}
	b := New(def, "t")
	b.Rows = [][]DecodedData{{{Type: schema.FieldStringU8, Str: "x"}, {Type: schema.FieldI32, I32: 2}}}

	merged, err := Merge([]*Table{a, b}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(merged.Rows) != 1 || merged.Rows[0][1].I32 != 1 {
		t.Fatalf("expected first-wins dedup, got %+v", merged.Rows)
	}

	mergedAll, err := Merge([]*Table{a, b}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(mergedAll.Rows) != 2 {
		t.Fatalf("expected both rows kept, got %+v", mergedAll.Rows)
	}
}

func TestValidateRow(t *testing.T) {
	def := &schema.Definition{Version: 1, Fields: []schema.Field{
		{Name: "a", Type: schema.FieldI32},
	}}
	tbl := New(def, "t")
	if err := tbl.ValidateRow([]DecodedData{{Type: schema.FieldI32}}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.ValidateRow([]DecodedData{{Type: schema.FieldStringU8}}); err == nil {
		t.Fatal("expected type mismatch error")
	}
	if err := tbl.ValidateRow([]DecodedData{}); err == nil {
		t.Fatal("expected row length error")
	}
}
