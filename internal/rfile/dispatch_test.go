package rfile

import (
	"testing"

	"github.com/archivekit/packforge/internal/rfile/text"
	"github.com/archivekit/packforge/internal/schema"
)

func TestDispatchTextRoundTrip(t *testing.T) {
	reg := schema.NewRegistry("test")
	ft, value, err := Decode("script/campaign/startpos.lua", []byte("print('hi')"), reg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ft != TypeText {
		t.Fatalf("expected TypeText, got %v", ft)
	}
	txt, ok := value.(*text.Text)
	if !ok {
		t.Fatalf("expected *text.Text, got %T", value)
	}
	if txt.Contents != "print('hi')" {
		t.Fatalf("contents mismatch: %q", txt.Contents)
	}
	data, err := Encode(ft, value)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(data) != "print('hi')" {
		t.Fatalf("encode mismatch: %q", data)
	}
}

func TestDispatchUnknownPassthrough(t *testing.T) {
	reg := schema.NewRegistry("test")
	raw := []byte{1, 2, 3, 4}
	ft, value, err := Decode("some/weird/file.bin", raw, reg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ft != TypeUnknown {
		t.Fatalf("expected TypeUnknown, got %v", ft)
	}
	data, err := Encode(ft, value)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(data) != string(raw) {
		t.Fatalf("expected raw passthrough, got %v", data)
	}
}

func TestDispatchEncodeTypeMismatchErrors(t *testing.T) {
	if _, err := Encode(TypeFont, "not a font"); err == nil {
		t.Fatal("expected error for mismatched value type")
	}
}
