// Package font decodes and encodes ".cuf" bitmap font containers: a fixed
// CUF0-tagged properties block, a glyph table, per-glyph metrics and image
// streams, and an optional trailing kerning block whose presence is
// detected by EOF rather than a length field, per spec §4.4.
package font

import (
	"fmt"

	"github.com/archivekit/packforge/internal/codec"
	"github.com/archivekit/packforge/internal/perr"
)

const magic = "CUF0"

// numProperties is the fixed count of u16 properties following the magic.
const numProperties = 11

// Glyph is one font glyph: its codepoint index, its metrics, and its raw
// image stream (opaque bytes — decoding the bitmap itself is out of scope,
// per the Non-goal on rendering).
type Glyph struct {
	Index    uint16 // 0..=65535
	Width    uint16
	Height   uint16
	OffsetX  int16
	OffsetY  int16
	Advance  uint16
	ImageLen uint32
	Image    []byte
}

// Kerning is one kerning pair adjustment.
type Kerning struct {
	Left, Right uint16
	Adjust      int16
}

// Font is the decoded value of a ".cuf" RFile.
type Font struct {
	Properties [numProperties]uint16
	Glyphs     []Glyph
	Kerning    []Kerning // nil when the payload has no trailing kerning block
}

// Decode parses a CUF font payload.
func Decode(data []byte) (*Font, error) {
	r := codec.NewReader(data)
	sig, err := r.ReadBytes(4)
	if err != nil {
		return nil, err
	}
	if string(sig) != magic {
		return nil, perr.FontUnsupportedSignature(sig)
	}

	f := &Font{}
	for i := 0; i < numProperties; i++ {
		v, err := r.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("font: property %d: %w", i, err)
		}
		f.Properties[i] = v
	}

	glyphCount, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("font: glyph count: %w", err)
	}
	f.Glyphs = make([]Glyph, 0, glyphCount)
	for i := uint16(0); i < glyphCount; i++ {
		g, err := decodeGlyph(r)
		if err != nil {
			return nil, fmt.Errorf("font: glyph %d: %w", i, err)
		}
		f.Glyphs = append(f.Glyphs, g)
	}

	// A trailing kerning block's presence is detected by EOF: if bytes
	// remain, they are 2x u16 + i16 kerning triples (open question #3 is
	// unrelated; this EOF-detection rule is documented in spec §4.4).
	for r.Remaining() >= 6 {
		left, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		right, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		adjust, err := r.ReadI16()
		if err != nil {
			return nil, err
		}
		f.Kerning = append(f.Kerning, Kerning{Left: left, Right: right, Adjust: adjust})
	}
	if r.Remaining() != 0 {
		return nil, perr.MismatchSize(r.Pos()+r.Remaining(), r.Pos())
	}
	return f, nil
}

func decodeGlyph(r *codec.Reader) (Glyph, error) {
	var g Glyph
	var err error
	if g.Index, err = r.ReadU16(); err != nil {
		return g, err
	}
	if g.Width, err = r.ReadU16(); err != nil {
		return g, err
	}
	if g.Height, err = r.ReadU16(); err != nil {
		return g, err
	}
	if g.OffsetX, err = r.ReadI16(); err != nil {
		return g, err
	}
	if g.OffsetY, err = r.ReadI16(); err != nil {
		return g, err
	}
	if g.Advance, err = r.ReadU16(); err != nil {
		return g, err
	}
	if g.ImageLen, err = r.ReadU32(); err != nil {
		return g, err
	}
	if g.Image, err = r.ReadBytes(int(g.ImageLen)); err != nil {
		return g, err
	}
	return g, nil
}

// Encode is the inverse of Decode.
func Encode(f *Font) []byte {
	w := codec.NewWriter()
	w.WriteStringU8(magic)
	for _, p := range f.Properties {
		w.WriteU16(p)
	}
	w.WriteU16(uint16(len(f.Glyphs)))
	for _, g := range f.Glyphs {
		w.WriteU16(g.Index)
		w.WriteU16(g.Width)
		w.WriteU16(g.Height)
		w.WriteI16(g.OffsetX)
		w.WriteI16(g.OffsetY)
		w.WriteU16(g.Advance)
		w.WriteU32(uint32(len(g.Image)))
		w.WriteBytes(g.Image)
	}
	for _, k := range f.Kerning {
		w.WriteU16(k.Left)
		w.WriteU16(k.Right)
		w.WriteI16(k.Adjust)
	}
	return w.Bytes()
}
