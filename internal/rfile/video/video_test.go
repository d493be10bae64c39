package video

import (
	"reflect"
	"testing"
)

func sampleVideo(format Format, version int16) *Video {
	frame0 := []byte{0, 0, 0, 0x9D, 0x01, 0x2A, 0xAA, 0xBB} // key frame marker at [3:6]
	frame1 := []byte{1, 1, 1, 1, 1, 1, 1, 1}                // not a key frame
	return &Video{
		Format:      format,
		Version:     version,
		CodecFourCC: "VP80",
		Width:       640,
		Height:      360,
		NumFrames:   2,
		Framerate:   30,
		FrameTable: []Frame{
			{Offset: 0, Size: uint32(len(frame0))},
			{Offset: uint32(len(frame0)), Size: uint32(len(frame1))},
		},
		FrameData: append(append([]byte{}, frame0...), frame1...),
	}
}

func TestVideoCAMVRoundTrip(t *testing.T) {
	want := sampleVideo(FormatCAMV, 1)
	data := Encode(want)
	if string(data[:4]) != "CAMV" {
		t.Fatalf("expected CAMV signature, got %q", data[:4])
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Format != FormatCAMV || got.Width != want.Width || got.Height != want.Height {
		t.Fatalf("header mismatch: %+v", got)
	}
	if got.NumFrames != want.NumFrames {
		t.Fatalf("num frames: got %d want %d", got.NumFrames, want.NumFrames)
	}
	if !reflect.DeepEqual(got.FrameData, want.FrameData) {
		t.Fatalf("frame data mismatch:\n got=%v\nwant=%v", got.FrameData, want.FrameData)
	}
	if !reflect.DeepEqual(got.FrameTable, want.FrameTable) {
		t.Fatalf("frame table mismatch:\n got=%v\nwant=%v", got.FrameTable, want.FrameTable)
	}
}

func TestVideoIVFRoundTrip(t *testing.T) {
	want := sampleVideo(FormatIVF, 0)
	data := Encode(want)
	if string(data[:4]) != "DKIF" {
		t.Fatalf("expected DKIF signature, got %q", data[:4])
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Format != FormatIVF || got.CodecFourCC != want.CodecFourCC {
		t.Fatalf("header mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.FrameData, want.FrameData) {
		t.Fatalf("frame data mismatch:\n got=%v\nwant=%v", got.FrameData, want.FrameData)
	}
}

func TestVideoUnsupportedSignature(t *testing.T) {
	if _, err := Decode([]byte("nope")); err == nil {
		t.Fatal("expected error for unrecognised signature")
	}
}
