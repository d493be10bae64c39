package loc

import (
	"testing"

	"github.com/archivekit/packforge/internal/schema"
	"github.com/archivekit/packforge/internal/table"
)

func newRegistry() *schema.Registry {
	reg := schema.NewRegistry("loc")
	reg.AddDefinition(table.LocTableName, table.LocDefinition())
	return reg
}

func TestRoundTrip(t *testing.T) {
	reg := newRegistry()
	tbl := table.New(table.LocDefinition(), table.LocTableName)
	tbl.Rows = [][]table.DecodedData{
		{
			{Type: schema.FieldStringU16, Str: "unit_name_swordsman"},
			{Type: schema.FieldStringU16, Str: "Swordsman"},
			{Type: schema.FieldBoolean, Bool: true},
		},
	}
	want := &Loc{Table: tbl, Version: 1}

	data, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data, reg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Version != 1 {
		t.Fatalf("version: got %d", got.Version)
	}
	if len(got.Table.Rows) != 1 || got.Table.Rows[0][1].Str != "Swordsman" {
		t.Fatalf("row mismatch: %+v", got.Table.Rows)
	}
}
