package codec

import (
	"bytes"
	"testing"
)

func TestWriteLiteralScenarios(t *testing.T) {
	cases := []struct {
		name string
		want []byte
		run  func(w *Writer)
	}{
		{"bool", []byte{1}, func(w *Writer) { w.WriteBool(true) }},
		{"u16", []byte{2, 1}, func(w *Writer) { w.WriteU16(258) }},
		{"u24", []byte{152, 150, 129}, func(w *Writer) { w.WriteU24(8492696) }},
		{"cauleb128", []byte{10}, func(w *Writer) { w.WriteCAULEB128(10) }},
		{"i24", []byte{152, 150, 129}, func(w *Writer) { w.WriteI24(8492696) }},
		{"i64", []byte{254, 254, 255, 255, 255, 255, 255, 255}, func(w *Writer) { w.WriteI64(-258) }},
		{"f32", []byte{51, 51, 35, 193}, func(w *Writer) { w.WriteF32(-10.2) }},
		{"sized_string_u8", []byte{6, 0, 87, 97, 104, 97, 104, 97}, func(w *Writer) { w.WriteSizedStringU8("Wahaha") }},
		{"optional_string_u8_empty", []byte{0}, func(w *Writer) { w.WriteOptionalStringU8("") }},
		{"string_u8_0padded", []byte{87, 97, 104, 97, 0, 0, 0, 0}, func(w *Writer) {
			if err := w.WriteStringU8_0Padded("Waha", 8, false); err != nil {
				t.Fatal(err)
			}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWriter()
			tc.run(w)
			if !bytes.Equal(w.Bytes(), tc.want) {
				t.Fatalf("got % x, want % x", w.Bytes(), tc.want)
			}
		})
	}
}

func TestWriteStringU8_0PaddedOverflow(t *testing.T) {
	w := NewWriter()
	if err := w.WriteStringU8_0Padded("Waha", 3, false); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestWriteStringColourRGB(t *testing.T) {
	w := NewWriter()
	if _, err := w.WriteStringColourRGB("0504FF"); err != nil {
		t.Fatal(err)
	}
	want := []byte{255, 4, 5, 0}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("got % x, want % x", w.Bytes(), want)
	}
}

func TestCAULEB128RoundTrip(t *testing.T) {
	samples := []uint32{0, 1, 10, 127, 128, 129, 16383, 16384, 2097151, 2097152, 268435455, 268435456, 0xFFFFFFFF}
	for _, n := range samples {
		w := NewWriter()
		w.WriteCAULEB128(n)
		r := NewReader(w.Bytes())
		got, err := r.ReadCAULEB128()
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if got != n {
			t.Fatalf("round trip mismatch: wrote %d, read %d (bytes % x)", n, got, w.Bytes())
		}
		if r.Pos() != r.Len() {
			t.Fatalf("n=%d: cursor %d != len %d", n, r.Pos(), r.Len())
		}
	}
}

func TestZeroPaddedStringRoundTrip(t *testing.T) {
	w := NewWriter()
	if err := w.WriteStringU8_0Padded("hello", 16, false); err != nil {
		t.Fatal(err)
	}
	r := NewReader(w.Bytes())
	got, err := r.ReadStringU8_0Padded(16)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestStringU8_0PaddedCropped(t *testing.T) {
	w := NewWriter()
	if err := w.WriteStringU8_0Padded("toolongstring", 5, true); err != nil {
		t.Fatal(err)
	}
	if len(w.Bytes()) != 5 {
		t.Fatalf("expected cropped length 5, got %d", len(w.Bytes()))
	}
}

func TestOptionalStringRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteOptionalStringU8("hi")
	w.WriteOptionalStringU8("")
	r := NewReader(w.Bytes())
	got, err := r.ReadOptionalStringU8()
	if err != nil || got != "hi" {
		t.Fatalf("got %q, err %v", got, err)
	}
	got, err = r.ReadOptionalStringU8()
	if err != nil || got != "" {
		t.Fatalf("got %q, err %v", got, err)
	}
}

func TestISO88591RoundTrip(t *testing.T) {
	raw := []byte{0x48, 0x65, 0x6C, 0x6C, 0xF6} // "Hell" + o-umlaut (0xF6 in Latin-1)
	r := NewReader(raw)
	s, err := r.ReadStringU8ISO88591(len(raw))
	if err != nil {
		t.Fatal(err)
	}
	w := NewWriter()
	w.WriteStringU8ISO88591(s)
	if !bytes.Equal(w.Bytes(), raw) {
		t.Fatalf("got % x, want % x", w.Bytes(), raw)
	}
}

func TestSizeMismatch(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	r.ReadU16()
	if err := r.ExpectEnd(4); err == nil {
		t.Fatal("expected size mismatch error")
	}
	r.ReadU16()
	if err := r.ExpectEnd(4); err != nil {
		t.Fatal(err)
	}
}
