package dependencies

import (
	"path/filepath"
	"testing"
)

func TestTranslatorSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my_mod.translation.json")

	tr := NewTranslator("my_mod.pack")
	pt := &PackTranslation{
		Language:     "en",
		PackName:     tr.PackName,
		Translations: map[string]string{"unit_name_1": "Spearmen"},
	}
	if err := tr.Save(path, pt); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := tr.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Language != "en" || got.Translations["unit_name_1"] != "Spearmen" {
		t.Fatalf("unexpected round trip: %+v", got)
	}
}

func TestTranslatorLoadMissingFile(t *testing.T) {
	tr := NewTranslator("my_mod.pack")
	if _, err := tr.Load("/nonexistent/path.json"); err == nil {
		t.Fatal("expected error loading a missing translation file")
	}
}

func TestPackTranslationMergeKeepsExisting(t *testing.T) {
	pt := &PackTranslation{Translations: map[string]string{"k1": "original"}}
	pt.Merge(map[string]string{"k1": "overwritten", "k2": "new"})
	if pt.Translations["k1"] != "original" {
		t.Fatalf("Merge must not overwrite an existing translation, got %q", pt.Translations["k1"])
	}
	if pt.Translations["k2"] != "new" {
		t.Fatalf("Merge must add new keys, got %+v", pt.Translations)
	}
}
