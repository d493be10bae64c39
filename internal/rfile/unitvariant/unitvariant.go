// Package unitvariant decodes and encodes UnitVariant payloads: a list of
// categories, each holding a list of variants with a mesh file and texture
// folder, per spec §4.4. Shares its list-of-lists wire shape with the
// PortraitSettings codec.
package unitvariant

import (
	"fmt"

	"github.com/archivekit/packforge/internal/codec"
)

// Variant is one mesh/texture pairing within a Category.
type Variant struct {
	MeshFile     string
	TextureFolder string
}

// Category groups variants under a named unit-variant category.
type Category struct {
	Name     string
	Variants []Variant
}

// UnitVariant is the decoded value of a UnitVariant RFile.
type UnitVariant struct {
	Version    uint32
	Categories []Category
}

// Decode parses a u32 version tag followed by a u32-counted list of
// categories, each a sized name string and a u32-counted list of variants.
func Decode(data []byte) (*UnitVariant, error) {
	r := codec.NewReader(data)
	version, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("unit_variant: version: %w", err)
	}
	if version == 0 || version > 2 {
		return nil, fmt.Errorf("unit_variant: unsupported version %d", version)
	}

	catCount, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("unit_variant: category count: %w", err)
	}
	uv := &UnitVariant{Version: version, Categories: make([]Category, 0, catCount)}
	for i := uint32(0); i < catCount; i++ {
		name, err := r.ReadSizedStringU8()
		if err != nil {
			return nil, fmt.Errorf("unit_variant: category %d name: %w", i, err)
		}
		variantCount, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("unit_variant: category %d variant count: %w", i, err)
		}
		variants := make([]Variant, 0, variantCount)
		for j := uint32(0); j < variantCount; j++ {
			meshFile, err := r.ReadSizedStringU8()
			if err != nil {
				return nil, fmt.Errorf("unit_variant: category %d variant %d mesh: %w", i, j, err)
			}
			textureFolder, err := r.ReadSizedStringU8()
			if err != nil {
				return nil, fmt.Errorf("unit_variant: category %d variant %d texture folder: %w", i, j, err)
			}
			variants = append(variants, Variant{MeshFile: meshFile, TextureFolder: textureFolder})
		}
		uv.Categories = append(uv.Categories, Category{Name: name, Variants: variants})
	}
	if err := r.ExpectEnd(r.Len()); err != nil {
		return nil, fmt.Errorf("unit_variant: %w", err)
	}
	return uv, nil
}

// Encode is the inverse of Decode.
func Encode(uv *UnitVariant) []byte {
	w := codec.NewWriter()
	w.WriteU32(uv.Version)
	w.WriteU32(uint32(len(uv.Categories)))
	for _, c := range uv.Categories {
		w.WriteSizedStringU8(c.Name)
		w.WriteU32(uint32(len(c.Variants)))
		for _, v := range c.Variants {
			w.WriteSizedStringU8(v.MeshFile)
			w.WriteSizedStringU8(v.TextureFolder)
		}
	}
	return w.Bytes()
}
