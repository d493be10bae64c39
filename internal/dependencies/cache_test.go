package dependencies

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/archivekit/packforge/internal/pack"
	"github.com/archivekit/packforge/internal/rfile"
	"github.com/archivekit/packforge/internal/schema"
	"github.com/archivekit/packforge/internal/table"
)

const fixtureTable = "land_units_tables"

func fixtureRegistry() *schema.Registry {
	reg := schema.NewRegistry("test")
	reg.AddDefinition(table.LocTableName, table.LocDefinition())
	reg.AddDefinition(fixtureTable, &schema.Definition{
		Version: 1,
		Fields: []schema.Field{
			{Name: "key", Type: schema.FieldStringU8, IsKey: true},
			{Name: "onscreen_name", Type: schema.FieldStringU16},
		},
	})
	return reg
}

func dbRFile(t *testing.T, path, key, name string) *rfile.RFile {
	t.Helper()
	def := &schema.Definition{
		Version: 1,
		Fields: []schema.Field{
			{Name: "key", Type: schema.FieldStringU8, IsKey: true},
			{Name: "onscreen_name", Type: schema.FieldStringU16},
		},
	}
	tbl := table.New(def, fixtureTable)
	tbl.Rows = [][]table.DecodedData{
		{
			{Type: schema.FieldStringU8, Str: key},
			{Type: schema.FieldStringU16, Str: name},
		},
	}
	data, err := table.EncodeDB(tbl, table.DBHeader{Version: 1})
	if err != nil {
		t.Fatalf("EncodeDB: %v", err)
	}
	return rfile.NewCached(path, data)
}

func locRFile(t *testing.T, path string, pairs map[string]string) *rfile.RFile {
	t.Helper()
	def := table.LocDefinition()
	tbl := table.New(def, table.LocTableName)
	for k, v := range pairs {
		tbl.Rows = append(tbl.Rows, []table.DecodedData{
			{Type: schema.FieldStringU16, Str: k},
			{Type: schema.FieldStringU16, Str: v},
			{Type: schema.FieldBoolean, Bool: true},
		})
	}
	data, err := table.EncodeLoc(tbl, 1)
	if err != nil {
		t.Fatalf("EncodeLoc: %v", err)
	}
	return rfile.NewCached(path, data)
}

func TestCacheFileExistsAndDBData(t *testing.T) {
	reg := fixtureRegistry()

	vanillaPack := pack.New(pack.VersionPFH5)
	vanillaPack.Insert(dbRFile(t, "db/"+fixtureTable+"/vanilla_table", "unit_swordsman", "Swordsmen"))
	vanillaPack.Insert(locRFile(t, "text/db/vanilla.loc", map[string]string{"unit_name_1": "Swordsmen"}))

	parentPack := pack.New(pack.VersionPFH5)
	parentPack.Insert(dbRFile(t, "db/"+fixtureTable+"/mod_table", "unit_archer", "Archers"))
	parentPack.Insert(locRFile(t, "text/db/mod.loc", map[string]string{"unit_name_2": "Archers"}))

	c, err := Build(BuildOptions{
		DBPath:       ":memory:",
		VanillaPacks: []*pack.Pack{vanillaPack},
		ParentPacks:  []*pack.Pack{parentPack},
		Registry:     reg,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer c.Close()
	if len(c.Failures()) != 0 {
		t.Fatalf("unexpected build failures: %v", c.Failures())
	}

	ok, err := c.FileExists("db/"+fixtureTable+"/vanilla_table", true, true, false)
	if err != nil {
		t.Fatalf("FileExists: %v", err)
	}
	if !ok {
		t.Fatal("expected vanilla_table to exist")
	}

	ok, err = c.FileExists("db/"+fixtureTable+"/nope", true, true, false)
	if err != nil {
		t.Fatalf("FileExists: %v", err)
	}
	if ok {
		t.Fatal("expected missing file to report false")
	}

	entries, err := c.DBData(fixtureTable, true, true)
	if err != nil {
		t.Fatalf("DBData: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Path != "db/"+fixtureTable+"/vanilla_table" {
		t.Fatalf("expected vanilla entry first, got %s", entries[0].Path)
	}
	if entries[1].Path != "db/"+fixtureTable+"/mod_table" {
		t.Fatalf("expected parent entry second, got %s", entries[1].Path)
	}

	loc := c.LocalisationData()
	if loc["unit_name_1"] != "Swordsmen" || loc["unit_name_2"] != "Archers" {
		t.Fatalf("unexpected localisation data: %+v", loc)
	}
}

func TestCacheAsskitOnlyDBTables(t *testing.T) {
	reg := fixtureRegistry()
	dir := t.TempDir()

	xmlContent := `<dataroot>
  <datarow>
    <datafield field_name="key">unit_spearman</datafield>
    <datafield field_name="onscreen_name">Spearmen</datafield>
  </datarow>
</dataroot>`
	if err := os.WriteFile(filepath.Join(dir, "land_units.xml"), []byte(xmlContent), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	c, err := Build(BuildOptions{
		DBPath:     ":memory:",
		AsskitPath: dir,
		Registry:   reg,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer c.Close()
	if len(c.Failures()) != 0 {
		t.Fatalf("unexpected build failures: %v", c.Failures())
	}

	tables := c.AsskitOnlyDBTables()
	tbl, ok := tables[fixtureTable]
	if !ok {
		t.Fatalf("expected %q in asskit tables, got %+v", fixtureTable, tables)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0][0].Str != "unit_spearman" {
		t.Fatalf("unexpected asskit rows: %+v", tbl.Rows)
	}

	ok, err = c.FileExists("db/"+fixtureTable+"/anything", false, false, true)
	if err != nil {
		t.Fatalf("FileExists: %v", err)
	}
	if !ok {
		t.Fatal("expected asskit-backed table to satisfy FileExists")
	}
}
