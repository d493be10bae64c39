package unitvariant

import "testing"

func sample() *UnitVariant {
	return &UnitVariant{
		Version: 2,
		Categories: []Category{
			{Name: "head", Variants: []Variant{{MeshFile: "head_01.rigid_model_v2", TextureFolder: "variants/head_01"}}},
			{Name: "body", Variants: []Variant{{MeshFile: "body_01.rigid_model_v2", TextureFolder: "variants/body_01"}}},
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
	if len(got.Categories) != 2 || got.Categories[1].Name != "body" {
		t.Fatalf("categories mismatch: %+v", got.Categories)
	}
	if got.Categories[0].Variants[0].MeshFile != "head_01.rigid_model_v2" {
		t.Fatalf("variant mismatch: %+v", got.Categories[0].Variants[0])
	}
}

func TestUnsupportedVersion(t *testing.T) {
	if _, err := Decode([]byte{5, 0, 0, 0}); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}
