package pack

import (
	"testing"

	"github.com/archivekit/packforge/internal/codec"
)

func TestHeaderRoundTripPFH6(t *testing.T) {
	h := Header{
		Version:                VersionPFH6,
		FileKind:               FileKindMod,
		HasIndexWithTimestamps: true,
		DependencyCount:        1,
		DependencySectionSize:  4,
		FileCount:              2,
		FileIndexSize:          16,
		InternalTimestamp:      12345,
		Subheader: &Subheader{
			SubheaderVersion: 1,
			GameVersion:      2,
			BuildNumber:      3,
			AuthoringTool:    "packforg",
			ExtraData:        make([]byte, extraSubheaderDataSize),
		},
	}

	w := codec.NewWriter()
	encodeHeader(w, h)

	r := codec.NewReader(w.Bytes())
	got, err := decodeHeader(r)
	if err != nil {
		t.Fatalf("decodeHeader: %v", err)
	}
	if got.Version != h.Version || got.FileKind != h.FileKind {
		t.Fatalf("got %+v want %+v", got, h)
	}
	if !got.HasIndexWithTimestamps {
		t.Fatalf("HasIndexWithTimestamps lost in round trip")
	}
	if got.Subheader == nil || got.Subheader.AuthoringTool != "packforg" {
		t.Fatalf("subheader not round tripped: %+v", got.Subheader)
	}
	if r.Pos() != headerSize(got) {
		t.Fatalf("reader position %d != headerSize %d", r.Pos(), headerSize(got))
	}
}

func TestHeaderRoundTripPFH0NoSubheader(t *testing.T) {
	h := Header{
		Version:   VersionPFH0,
		FileKind:  FileKindRelease,
		FileCount: 0,
	}
	w := codec.NewWriter()
	encodeHeader(w, h)

	r := codec.NewReader(w.Bytes())
	got, err := decodeHeader(r)
	if err != nil {
		t.Fatalf("decodeHeader: %v", err)
	}
	if got.Subheader != nil {
		t.Fatalf("PFH0 must not decode a subheader, got %+v", got.Subheader)
	}
}

func TestDecodeHeaderRejectsUnknownTag(t *testing.T) {
	w := codec.NewWriter()
	w.WriteBytes([]byte("XXXX"))
	w.WriteU32(0)
	w.WriteU32(0)
	w.WriteU32(0)
	w.WriteU32(0)
	w.WriteU32(0)
	w.WriteU32(0)

	_, err := decodeHeader(codec.NewReader(w.Bytes()))
	if err == nil {
		t.Fatal("expected error for unrecognised version tag")
	}
}

func TestFileKindStrings(t *testing.T) {
	cases := map[FileKind]string{
		FileKindBoot:    "Boot",
		FileKindRelease: "Release",
		FileKindPatch:   "Patch",
		FileKindMod:     "Mod",
		FileKindMovie:   "Movie",
		FileKindOther:   "Other",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("FileKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
