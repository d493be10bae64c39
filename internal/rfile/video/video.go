// Package video decodes and encodes ".ca_vp8" video payloads: CA's VP8
// variant, carried either in the game-specific CAMV container or the
// standard IVF container. Both expose the same logical view and converting
// between them is lossless except for the byte layout itself, per spec §4.4.
package video

import (
	"bytes"
	"fmt"

	"golang.org/x/image/vp8"

	"github.com/archivekit/packforge/internal/codec"
)

// Format tags which wire container a Video value was read from (or should
// be written as).
type Format int

const (
	FormatCAMV Format = iota
	FormatIVF
)

const (
	signatureIVF  = "DKIF"
	signatureCAMV = "CAMV"

	headerLenCAMVv0 = 0x20
	headerLenCAMVv1 = 0x29
	headerLenIVF    = 32
)

// keyFrameMarker is the 3-byte VP8 key-frame tag looked for at frame_data[3:6].
var keyFrameMarker = [3]byte{0x9D, 0x01, 0x2A}

// Frame locates one frame inside the concatenated FrameData buffer.
type Frame struct {
	Offset uint32
	Size   uint32
}

// Video is the decoded value of a ".ca_vp8" RFile.
type Video struct {
	Format      Format
	Version     int16
	CodecFourCC string
	Width       uint16
	Height      uint16
	NumFrames   uint32
	Framerate   float32 // frames per second in both representations
	FrameTable  []Frame
	FrameData   []byte // concatenated raw per-frame bytes, in FrameTable order
}

// Decode parses either a CAMV or IVF payload, selected by its 4-byte signature.
func Decode(data []byte) (*Video, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("video: payload too short for a signature")
	}
	switch string(data[:4]) {
	case signatureIVF:
		return decodeIVF(data)
	case signatureCAMV:
		return decodeCAMV(data)
	default:
		return nil, fmt.Errorf("video: %q is neither a CA_VP8 nor an IVF signature", string(data[:4]))
	}
}

func decodeCAMV(data []byte) (*Video, error) {
	r := codec.NewReader(data)
	r.Seek(4)

	v := &Video{Format: FormatCAMV}
	var err error
	if v.Version, err = r.ReadI16(); err != nil {
		return nil, err
	}
	if _, err = r.ReadU16(); err != nil { // header length, recomputed on encode
		return nil, err
	}
	if v.CodecFourCC, err = r.ReadStringU8(4); err != nil {
		return nil, err
	}
	if v.Width, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if v.Height, err = r.ReadU16(); err != nil {
		return nil, err
	}
	msPerFrame, err := r.ReadF32()
	if err != nil {
		return nil, err
	}
	if _, err = r.ReadU32(); err != nil { // unknown constant, always 1
		return nil, err
	}
	if _, err = r.ReadU32(); err != nil { // duplicate frame count, unused
		return nil, err
	}
	offsetFrameTable, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if v.NumFrames, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if _, err = r.ReadU32(); err != nil { // largest frame size, recomputed on encode
		return nil, err
	}

	r.Seek(int64(offsetFrameTable))

	// Some CAMV files carry 13-byte frame-table entries instead of the usual
	// 9; detected by whether the remaining bytes divide evenly into
	// num_frames groups of 13 (open question: no documented trigger for
	// which files use which width).
	remaining := r.Remaining()
	wide := v.NumFrames > 0 && remaining/13 == int64(v.NumFrames) && remaining%13 == 0

	var cumulative uint32
	v.FrameTable = make([]Frame, 0, v.NumFrames)
	v.FrameData = nil
	for i := uint32(0); i < v.NumFrames; i++ {
		realOffset, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("video: camv frame %d offset: %w", i, err)
		}
		size, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("video: camv frame %d size: %w", i, err)
		}
		if wide {
			if _, err = r.ReadU32(); err != nil { // unknown, only present in the 13-byte variant
				return nil, fmt.Errorf("video: camv frame %d wide field: %w", i, err)
			}
		}
		if _, err = r.ReadU8(); err != nil { // flags (e.g. key-frame marker), unused on decode
			return nil, fmt.Errorf("video: camv frame %d flags: %w", i, err)
		}

		frame := Frame{Offset: cumulative, Size: size}
		cumulative += size
		v.FrameTable = append(v.FrameTable, frame)

		end := int64(realOffset) + int64(size)
		if end > r.Len() {
			return nil, fmt.Errorf("video: camv frame %d: incorrect or unknown frame size", i)
		}
		v.FrameData = append(v.FrameData, data[realOffset:end]...)
	}

	v.Framerate = 1000.0 / msPerFrame
	return v, nil
}

func decodeIVF(data []byte) (*Video, error) {
	r := codec.NewReader(data)
	r.Seek(4)

	v := &Video{Format: FormatIVF}
	var err error
	if v.Version, err = r.ReadI16(); err != nil {
		return nil, err
	}
	if _, err = r.ReadU16(); err != nil { // header length
		return nil, err
	}
	if v.CodecFourCC, err = r.ReadStringU8(4); err != nil {
		return nil, err
	}
	if v.Width, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if v.Height, err = r.ReadU16(); err != nil {
		return nil, err
	}
	denom, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	numer, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if v.NumFrames, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if _, err = r.ReadU32(); err != nil { // unused
		return nil, err
	}

	var cumulative uint32
	v.FrameTable = make([]Frame, 0, v.NumFrames)
	for i := uint32(0); i < v.NumFrames; i++ {
		size, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("video: ivf frame %d size: %w", i, err)
		}
		if _, err = r.ReadU64(); err != nil { // presentation timestamp, unused
			return nil, fmt.Errorf("video: ivf frame %d pts: %w", i, err)
		}
		body, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("video: ivf frame %d body: %w", i, err)
		}
		v.FrameTable = append(v.FrameTable, Frame{Offset: cumulative, Size: size})
		cumulative += size
		v.FrameData = append(v.FrameData, body...)
	}

	if numer == 0 {
		v.Framerate = 0
	} else {
		v.Framerate = float32(denom) / float32(numer)
	}
	return v, nil
}

// Encode is the inverse of Decode, dispatching on v.Format.
func Encode(v *Video) []byte {
	if v.Format == FormatIVF {
		return encodeIVF(v)
	}
	return encodeCAMV(v)
}

func encodeCAMV(v *Video) []byte {
	// headerLenFull is the byte length of everything written before the
	// frame data: 40 bytes for v0, 41 (one extra pad byte) for v1.
	headerLen := uint16(headerLenCAMVv1)
	headerLenFull := uint32(headerLenCAMVv1)
	if v.Version == 0 {
		headerLen = headerLenCAMVv0
		headerLenFull = headerLenCAMVv0 + 8
	}

	var totalFrameBytes uint32
	var largest uint32
	for _, f := range v.FrameTable {
		totalFrameBytes += f.Size
		if f.Size > largest {
			largest = f.Size
		}
	}

	w := codec.NewWriter()
	w.WriteStringU8(signatureCAMV)
	w.WriteI16(v.Version)
	w.WriteU16(headerLen)
	w.WriteStringU8(v.CodecFourCC)
	w.WriteU16(v.Width)
	w.WriteU16(v.Height)
	w.WriteF32(1000.0 / v.Framerate)
	w.WriteU32(1)
	// The encoded frame count is one less than the logical count; preserved
	// from the source format as a structural quirk of CAMV, not a bug.
	w.WriteU32(v.NumFrames - 1)
	w.WriteU32(headerLenFull + totalFrameBytes)
	w.WriteU32(v.NumFrames)
	w.WriteU32(largest)
	if v.Version == 1 {
		w.WriteU8(0)
	}

	w.WriteBytes(v.FrameData)

	offset := uint32(0)
	for _, f := range v.FrameTable {
		frameBody := v.FrameData[offset : offset+f.Size]
		isKeyFrame := uint8(0)
		if len(frameBody) >= 6 && [3]byte{frameBody[3], frameBody[4], frameBody[5]} == keyFrameMarker {
			isKeyFrame = 1
		}
		w.WriteU32(offset + headerLenFull)
		w.WriteU32(f.Size)
		w.WriteU8(isKeyFrame)
		offset += f.Size
	}
	return w.Bytes()
}

func encodeIVF(v *Video) []byte {
	w := codec.NewWriter()
	w.WriteStringU8(signatureIVF)
	w.WriteI16(0)
	w.WriteU16(headerLenIVF)
	w.WriteStringU8(v.CodecFourCC)
	w.WriteU16(v.Width)
	w.WriteU16(v.Height)

	numer, denom := rateToFraction(v.Framerate)
	w.WriteU32(numer)
	w.WriteU32(denom)
	w.WriteU32(v.NumFrames)
	w.WriteU32(0)

	offset := uint32(0)
	for i, f := range v.FrameTable {
		body := v.FrameData[offset : offset+f.Size]
		w.WriteU32(f.Size)
		w.WriteU64(uint64(i))
		w.WriteBytes(body)
		offset += f.Size
	}
	return w.Bytes()
}

// ValidateKeyFrames runs a structural-only check of every VP8 key frame in
// v against golang.org/x/image/vp8's frame-header decoder: it confirms each
// key frame's bitstream header parses and reports the same dimensions as
// the container header, without decoding any pixels (rendering is a
// Non-goal). It returns one error per offending frame index; a nil slice
// means every key frame checked out.
func ValidateKeyFrames(v *Video) []error {
	var errs []error
	for i, f := range v.FrameTable {
		if int64(f.Offset)+int64(f.Size) > int64(len(v.FrameData)) {
			continue
		}
		body := v.FrameData[f.Offset : f.Offset+f.Size]
		if len(body) < 6 || [3]byte{body[3], body[4], body[5]} != keyFrameMarker {
			continue // interframe: no header to validate
		}
		d := vp8.NewDecoder()
		d.Init(bytes.NewReader(body), len(body))
		fh, err := d.DecodeFrameHeader()
		if err != nil {
			errs = append(errs, fmt.Errorf("video: frame %d header: %w", i, err))
			continue
		}
		if fh.Width != int(v.Width) || fh.Height != int(v.Height) {
			errs = append(errs, fmt.Errorf("video: frame %d reports %dx%d, container header says %dx%d", i, fh.Width, fh.Height, v.Width, v.Height))
		}
	}
	return errs
}

// rateToFraction approximates a framerate as a numerator/denominator pair,
// the shape IVF stores timebases in.
func rateToFraction(rate float32) (numer, denom uint32) {
	const scale = 1001
	if rate <= 0 {
		return 0, 1
	}
	denom = scale
	numer = uint32(rate*scale + 0.5)
	return numer, denom
}
