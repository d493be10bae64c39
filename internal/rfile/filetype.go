// Package rfile implements the uniform inner-file dispatch layer (C4): it
// classifies an opaque blob by path/extension/magic, routes it to the
// matching typed decoder, and holds the RFile state machine that every Pack
// entry and AnimPack entry shares.
package rfile

import (
	"bytes"
	"strings"
)

// FileType enumerates every typed payload the dispatch layer recognises.
type FileType int

const (
	TypeUnknown FileType = iota
	TypeDB
	TypeLoc
	TypeAnimPack
	TypeText
	TypeFont
	TypeVideo
	TypePortraitSettings
	TypeUnitVariant
	TypeAnimFragmentBattle
	TypeSoundEvents
	TypeBMD
	TypeCS2Parsed
	TypeRigidModel
	TypePack
)

func (t FileType) String() string {
	switch t {
	case TypeDB:
		return "DB"
	case TypeLoc:
		return "Loc"
	case TypeAnimPack:
		return "AnimPack"
	case TypeText:
		return "Text"
	case TypeFont:
		return "Font"
	case TypeVideo:
		return "Video"
	case TypePortraitSettings:
		return "PortraitSettings"
	case TypeUnitVariant:
		return "UnitVariant"
	case TypeAnimFragmentBattle:
		return "AnimFragmentBattle"
	case TypeSoundEvents:
		return "SoundEvents"
	case TypeBMD:
		return "Bmd"
	case TypeCS2Parsed:
		return "Cs2Parsed"
	case TypeRigidModel:
		return "RigidModel"
	case TypePack:
		return "Pack"
	default:
		return "Unknown"
	}
}

// IsCompressible reports whether a Pack should attempt to compress an entry
// of this type when the Pack has a non-None compression_format (invariant 7).
// Every type except Video (already-compressed media) is compressible.
func (t FileType) IsCompressible() bool {
	switch t {
	case TypeVideo:
		return false
	default:
		return true
	}
}

var textExtensions = map[string]bool{
	".txt": true, ".xml": true, ".lua": true, ".csv": true, ".json": true,
	".tsv": true, ".inl": true, ".battle_speech_camera": true,
}

// Classify implements C4's classification order: exact filename/extension,
// then path prefix, then magic bytes, then a Text/Unknown fallback.
func Classify(path string, data []byte) FileType {
	lower := strings.ToLower(path)

	switch {
	case strings.HasSuffix(lower, ".loc"):
		return TypeLoc
	case strings.HasSuffix(lower, ".animpack"):
		return TypeAnimPack
	case strings.HasSuffix(lower, ".cuf"):
		return TypeFont
	case strings.HasSuffix(lower, ".ca_vp8"):
		return TypeVideo
	case strings.HasSuffix(lower, ".bmd"):
		return TypeBMD
	case strings.HasSuffix(lower, ".cs2.parsed"):
		return TypeCS2Parsed
	case strings.HasSuffix(lower, ".rigid_model_v2"):
		return TypeRigidModel
	case strings.HasSuffix(lower, ".variantmeshdefinition"):
		return TypeUnitVariant
	case strings.HasSuffix(lower, "portrait_settings"):
		return TypePortraitSettings
	case strings.Contains(lower, "fragmentbattle"):
		return TypeAnimFragmentBattle
	case strings.HasSuffix(lower, ".pack"):
		return TypePack
	}

	if strings.HasPrefix(lower, "db/") {
		return TypeDB
	}
	if strings.HasPrefix(lower, "text/db/") || strings.HasSuffix(lower, ".xml.loc") {
		return TypeLoc
	}
	if strings.HasPrefix(lower, "audio_project/") || strings.Contains(lower, "sound") && strings.HasSuffix(lower, ".events") {
		return TypeSoundEvents
	}

	if len(data) >= 4 {
		switch {
		case bytes.Equal(data[:4], []byte("DKIF")), bytes.Equal(data[:4], []byte("CAMV")):
			return TypeVideo
		case bytes.Equal(data[:4], []byte("CUF0")):
			return TypeFont
		case bytes.Equal(data[:4], []byte{0xFD, 0xFE, 0xFC, 0xFF}):
			return TypeDB
		}
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE {
		return TypeLoc
	}

	for ext := range textExtensions {
		if strings.HasSuffix(lower, ext) {
			return TypeText
		}
	}
	return TypeUnknown
}

// TableNameForPath returns the DB schema table name implied by a "db/<table>/<anyname>" path.
func TableNameForPath(path string) (string, bool) {
	lower := strings.ToLower(path)
	const prefix = "db/"
	if !strings.HasPrefix(lower, prefix) {
		return "", false
	}
	rest := lower[len(prefix):]
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		return rest[:idx], true
	}
	return "", false
}
