// Package portrait decodes and encodes PortraitSettings payloads: a list of
// art-set entries, each holding a list of variants with a diffuse texture
// path and three mask paths, per spec §4.4. Field names follow the
// entry.id()/variant.filename()/file_diffuse()/file_mask_N() accessors the
// diagnostics layer queries against this type.
package portrait

import (
	"fmt"

	"github.com/archivekit/packforge/internal/codec"
)

// Variant is one portrait art variant within an Entry.
type Variant struct {
	Filename    string
	FileDiffuse string
	FileMask1   string
	FileMask2   string
	FileMask3   string
}

// Entry is one art-set id and its list of variants.
type Entry struct {
	ID       string
	Variants []Variant
}

// PortraitSettings is the decoded value of a PortraitSettings RFile.
type PortraitSettings struct {
	Version uint32
	Entries []Entry
}

// Decode parses a PortraitSettings payload: a u32 version tag, then a
// u32-counted list of entries, each a sized id string followed by a
// u32-counted list of variants.
func Decode(data []byte) (*PortraitSettings, error) {
	r := codec.NewReader(data)
	version, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("portrait_settings: version: %w", err)
	}
	if version == 0 || version > 3 {
		return nil, fmt.Errorf("portrait_settings: unsupported version %d", version)
	}

	entryCount, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("portrait_settings: entry count: %w", err)
	}
	ps := &PortraitSettings{Version: version, Entries: make([]Entry, 0, entryCount)}
	for i := uint32(0); i < entryCount; i++ {
		id, err := r.ReadSizedStringU8()
		if err != nil {
			return nil, fmt.Errorf("portrait_settings: entry %d id: %w", i, err)
		}
		variantCount, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("portrait_settings: entry %d variant count: %w", i, err)
		}
		variants := make([]Variant, 0, variantCount)
		for j := uint32(0); j < variantCount; j++ {
			v, err := decodeVariant(r)
			if err != nil {
				return nil, fmt.Errorf("portrait_settings: entry %d variant %d: %w", i, j, err)
			}
			variants = append(variants, v)
		}
		ps.Entries = append(ps.Entries, Entry{ID: id, Variants: variants})
	}
	if err := r.ExpectEnd(r.Len()); err != nil {
		return nil, fmt.Errorf("portrait_settings: %w", err)
	}
	return ps, nil
}

func decodeVariant(r *codec.Reader) (Variant, error) {
	var v Variant
	var err error
	if v.Filename, err = r.ReadSizedStringU8(); err != nil {
		return v, err
	}
	if v.FileDiffuse, err = r.ReadSizedStringU8(); err != nil {
		return v, err
	}
	if v.FileMask1, err = r.ReadSizedStringU8(); err != nil {
		return v, err
	}
	if v.FileMask2, err = r.ReadSizedStringU8(); err != nil {
		return v, err
	}
	if v.FileMask3, err = r.ReadSizedStringU8(); err != nil {
		return v, err
	}
	return v, nil
}

// Encode is the inverse of Decode.
func Encode(ps *PortraitSettings) []byte {
	w := codec.NewWriter()
	w.WriteU32(ps.Version)
	w.WriteU32(uint32(len(ps.Entries)))
	for _, e := range ps.Entries {
		w.WriteSizedStringU8(e.ID)
		w.WriteU32(uint32(len(e.Variants)))
		for _, v := range e.Variants {
			w.WriteSizedStringU8(v.Filename)
			w.WriteSizedStringU8(v.FileDiffuse)
			w.WriteSizedStringU8(v.FileMask1)
			w.WriteSizedStringU8(v.FileMask2)
			w.WriteSizedStringU8(v.FileMask3)
		}
	}
	return w.Bytes()
}
