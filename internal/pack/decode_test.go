package pack

import (
	"bytes"
	"testing"
)

func TestDecodeLazyLoading(t *testing.T) {
	p := buildSamplePack(VersionPFH6)
	buf, err := Encode(p, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(buf, DecodeOptions{UseLazyLoading: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	f, ok := got.Get("db/unit_stats_land_tables/my_table")
	if !ok {
		t.Fatalf("entry missing")
	}
	if f.State() != 0 {
		t.Fatalf("expected StateLazy (0), got %v", f.State())
	}
	body, err := f.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(body, []byte("hello db")) {
		t.Fatalf("body = %q", body)
	}
}

func TestDecodeRejectsTruncatedBuffer(t *testing.T) {
	p := buildSamplePack(VersionPFH6)
	buf, err := Encode(p, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, err = Decode(buf[:len(buf)-4], DecodeOptions{})
	if err == nil {
		t.Fatal("expected error decoding a truncated buffer")
	}
}

func TestDecodeDependencies(t *testing.T) {
	p := buildSamplePack(VersionPFH6)
	buf, err := Encode(p, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(buf, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0] != "data.pack" {
		t.Fatalf("Dependencies = %v", got.Dependencies)
	}
}
