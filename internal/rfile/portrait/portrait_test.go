package portrait

import "testing"

func sample() *PortraitSettings {
	return &PortraitSettings{
		Version: 3,
		Entries: []Entry{
			{
				ID: "wh_main_grn_empire",
				Variants: []Variant{
					{Filename: "default", FileDiffuse: "ui/portraits/a_diffuse.png", FileMask1: "ui/portraits/a_mask1.png", FileMask2: "ui/portraits/a_mask2.png", FileMask3: ""},
				},
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	want := sample()
	data := Encode(want)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Version != want.Version {
		t.Fatalf("version: got %d want %d", got.Version, want.Version)
	}
	if len(got.Entries) != 1 || got.Entries[0].ID != "wh_main_grn_empire" {
		t.Fatalf("entries mismatch: %+v", got.Entries)
	}
	if got.Entries[0].Variants[0].FileDiffuse != "ui/portraits/a_diffuse.png" {
		t.Fatalf("variant mismatch: %+v", got.Entries[0].Variants[0])
	}
}

func TestUnsupportedVersion(t *testing.T) {
	data := []byte{9, 0, 0, 0}
	if _, err := Decode(data); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}
