package font

import (
	"reflect"
	"testing"

	"github.com/archivekit/packforge/internal/perr"
)

func sampleFont() *Font {
	f := &Font{}
	for i := range f.Properties {
		f.Properties[i] = uint16(100 + i)
	}
	f.Glyphs = []Glyph{
		{Index: 65, Width: 10, Height: 12, OffsetX: 1, OffsetY: -2, Advance: 11, ImageLen: 4, Image: []byte{1, 2, 3, 4}},
		{Index: 66, Width: 9, Height: 12, OffsetX: 0, OffsetY: -2, Advance: 10, ImageLen: 2, Image: []byte{5, 6}},
	}
	return f
}

func TestFontRoundTripNoKerning(t *testing.T) {
	want := sampleFont()
	data := Encode(want)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", got, want)
	}
	if got.Kerning != nil {
		t.Fatalf("expected no kerning block, got %v", got.Kerning)
	}
}

func TestFontRoundTripWithKerning(t *testing.T) {
	want := sampleFont()
	want.Kerning = []Kerning{
		{Left: 65, Right: 66, Adjust: -1},
		{Left: 66, Right: 65, Adjust: 2},
	}
	data := Encode(want)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", got, want)
	}
}

func TestFontBadSignature(t *testing.T) {
	data := []byte("BAD0")
	_, err := Decode(data)
	if err == nil {
		t.Fatal("expected error for bad magic")
	}
	var pe *perr.Error
	if e, ok := err.(*perr.Error); ok {
		pe = e
	}
	if pe == nil || pe.Kind != perr.KindDecodingFontUnsupportedSignature {
		t.Fatalf("expected FontUnsupportedSignature error, got %v (%T)", err, err)
	}
}

func TestFontTruncatedKerningTrailer(t *testing.T) {
	f := sampleFont()
	data := Encode(f)
	// append 3 stray bytes: not enough for one more kerning triple (6 bytes)
	// but also not zero, so Decode must reject it rather than silently drop.
	data = append(data, 0x01, 0x02, 0x03)
	if _, err := Decode(data); err == nil {
		t.Fatal("expected error for trailing bytes that don't form a full kerning triple")
	}
}
