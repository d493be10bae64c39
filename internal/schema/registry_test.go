package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRegistryAddAndLookup(t *testing.T) {
	r := NewRegistry("warhammer3")
	r.AddDefinition("land_units", &Definition{Version: 1, Fields: []Field{{Name: "key", Type: FieldStringU8, IsKey: true}}})
	r.AddDefinition("land_units", &Definition{Version: 2, Fields: []Field{
		{Name: "key", Type: FieldStringU8, IsKey: true},
		{Name: "hp", Type: FieldI32},
	}})

	defs := r.Definitions("land_units")
	if len(defs) != 2 || defs[0].Version != 2 || defs[1].Version != 1 {
		t.Fatalf("expected descending [2,1], got %+v", defs)
	}

	d, err := r.DefinitionByVersion("land_units", 2)
	if err != nil {
		t.Fatal(err)
	}
	if pos, ok := d.ColumnPositionByName("hp"); !ok || pos != 1 {
		t.Fatalf("expected hp at position 1, got %d ok=%v", pos, ok)
	}

	if _, err := r.DefinitionByVersion("land_units", 99); err == nil {
		t.Fatal("expected MissingDefinition error")
	}
}

func TestAddDefinitionReplacesSameVersion(t *testing.T) {
	r := NewRegistry("g")
	r.AddDefinition("t", &Definition{Version: 1, Fields: []Field{{Name: "a"}}})
	r.AddDefinition("t", &Definition{Version: 1, Fields: []Field{{Name: "b"}}})
	defs := r.Definitions("t")
	if len(defs) != 1 || defs[0].Fields[0].Name != "b" {
		t.Fatalf("expected single replaced definition named b, got %+v", defs)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yml")

	r := NewRegistry("attila")
	r.AddDefinition("loc", &Definition{
		Version: 1,
		Fields: []Field{
			{Name: "key", Type: FieldStringU16, IsKey: true},
			{Name: "text", Type: FieldStringU16},
			{Name: "tooltip", Type: FieldBoolean},
		},
	})
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	defs := loaded.Definitions("loc")
	if len(defs) != 1 || len(defs[0].Fields) != 3 {
		t.Fatalf("unexpected round trip result: %+v", defs)
	}
}

func TestLoadUpgradesV1(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.yml")
	legacy := []byte(`
tables:
  units:
    - version: 1
      fields:
        - name: key
          field_type: StringU8
          is_key: true
          ca_order: 0
`)
	if err := os.WriteFile(path, legacy, 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	defs := reg.Definitions("units")
	if len(defs) != 1 || defs[0].Fields[0].Name != "key" {
		t.Fatalf("unexpected upgraded definitions: %+v", defs)
	}

	// The file on disk should now be the current v5 layout.
	rewritten, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	reloaded, err := loadV5(rewritten)
	if err != nil {
		t.Fatalf("expected file to be rewritten at v5: %v", err)
	}
	if reloaded.Tables["units"][0].Fields[0].Name != "key" {
		t.Fatalf("unexpected upgraded-on-disk content: %+v", reloaded.Tables)
	}
}
