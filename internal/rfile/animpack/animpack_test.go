package animpack

import "testing"

func TestRoundTrip(t *testing.T) {
	want := &AnimPack{Files: map[string][]byte{
		"animations/walk.anim": []byte("walk-data"),
		"animations/run.anim":  []byte("run-data"),
	}}
	data := Encode(want)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(got.Files))
	}
	if string(got.Files["animations/walk.anim"]) != "walk-data" {
		t.Fatalf("walk.anim mismatch: %q", got.Files["animations/walk.anim"])
	}
	if string(got.Files["animations/run.anim"]) != "run-data" {
		t.Fatalf("run.anim mismatch: %q", got.Files["animations/run.anim"])
	}
}

func TestEncodeDeterministicOrder(t *testing.T) {
	ap := &AnimPack{Files: map[string][]byte{"b.anim": {1}, "A.anim": {2}, "c.anim": {3}}}
	first := Encode(ap)
	second := Encode(ap)
	if string(first) != string(second) {
		t.Fatal("expected deterministic encode order")
	}
}
