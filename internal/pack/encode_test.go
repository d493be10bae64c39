package pack

import (
	"bytes"
	"testing"

	"github.com/archivekit/packforge/internal/rfile"
)

func buildSamplePack(version Version) *Pack {
	p := New(version)
	p.Header.FileKind = FileKindMod
	p.Dependencies = []string{"data.pack"}
	p.TestMode = true
	if version.hasSubheader() {
		p.Header.Subheader = &Subheader{
			SubheaderVersion: 1,
			AuthoringTool:    "packforg",
			ExtraData:        make([]byte, extraSubheaderDataSize),
		}
	}
	p.Insert(rfile.NewCached("db/unit_stats_land_tables/my_table", []byte("hello db")))
	p.Insert(rfile.NewCached("text/db/my_text.loc", []byte("hello loc")))
	return p
}

func TestEncodeDecodeRoundTripAllVersions(t *testing.T) {
	for _, v := range []Version{VersionPFH0, VersionPFH2, VersionPFH3, VersionPFH4, VersionPFH5, VersionPFH6} {
		t.Run(string(v), func(t *testing.T) {
			p := buildSamplePack(v)
			buf, err := Encode(p, EncodeOptions{})
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(buf, DecodeOptions{})
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Len() != p.Len() {
				t.Fatalf("Len() = %d want %d", got.Len(), p.Len())
			}
			f, ok := got.Get("db/unit_stats_land_tables/my_table")
			if !ok {
				t.Fatalf("entry not found after round trip")
			}
			body, err := f.Bytes()
			if err != nil {
				t.Fatalf("Bytes: %v", err)
			}
			if !bytes.Equal(body, []byte("hello db")) {
				t.Fatalf("body = %q, want %q", body, "hello db")
			}
		})
	}
}

func TestEncodeDecodeRoundTripEncrypted(t *testing.T) {
	p := buildSamplePack(VersionPFH6)
	p.Header.HasEncryptedIndex = true
	p.Header.HasEncryptedData = true

	buf, err := Encode(p, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(buf, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	f, ok := got.Get("text/db/my_text.loc")
	if !ok {
		t.Fatalf("entry not found after encrypted round trip")
	}
	body, err := f.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(body, []byte("hello loc")) {
		t.Fatalf("body = %q, want %q", body, "hello loc")
	}
}

func TestEncodeDecodeRoundTripCompressedNoMutation(t *testing.T) {
	p := buildSamplePack(VersionPFH6)
	p.CompressionFormat = CompressionZstd

	buf, err := Encode(p, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(buf, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	// Nothing touched any entry (no Bytes()/Decode call on the result), so
	// re-encoding must reproduce buf byte-for-byte rather than recompress
	// each entry into a different (if equivalent) zstd stream.
	buf2, err := Encode(got, EncodeOptions{})
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(buf, buf2) {
		t.Fatalf("round trip not byte-identical: got %d bytes, want %d bytes", len(buf2), len(buf))
	}
}

func TestEncodeDecodeRoundTripCompressed(t *testing.T) {
	p := buildSamplePack(VersionPFH6)
	p.CompressionFormat = CompressionZstd

	buf, err := Encode(p, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(buf, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Len() != p.Len() {
		t.Fatalf("Len() = %d want %d", got.Len(), p.Len())
	}
	f, ok := got.Get("db/unit_stats_land_tables/my_table")
	if !ok {
		t.Fatalf("entry not found after compressed round trip")
	}
	body, err := f.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(body, []byte("hello db")) {
		t.Fatalf("body = %q, want %q", body, "hello db")
	}
}
