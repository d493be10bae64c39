package rfile

import (
	"fmt"

	"github.com/archivekit/packforge/internal/rfile/animfragbattle"
	"github.com/archivekit/packforge/internal/rfile/animpack"
	"github.com/archivekit/packforge/internal/rfile/bmd"
	"github.com/archivekit/packforge/internal/rfile/cs2parsed"
	"github.com/archivekit/packforge/internal/rfile/font"
	"github.com/archivekit/packforge/internal/rfile/loc"
	"github.com/archivekit/packforge/internal/rfile/portrait"
	"github.com/archivekit/packforge/internal/rfile/rigidmodel"
	"github.com/archivekit/packforge/internal/rfile/soundevents"
	"github.com/archivekit/packforge/internal/rfile/text"
	"github.com/archivekit/packforge/internal/rfile/unitvariant"
	"github.com/archivekit/packforge/internal/rfile/video"
	"github.com/archivekit/packforge/internal/schema"
	"github.com/archivekit/packforge/internal/table"
)

// DB is the decoded value held by an RFile of type DB: the generic table
// codec needs both a schema registry and the table name implied by the
// entry's "db/<table>/<file>" path, neither of which Decode's signature
// below carries on its own, so DB decoding is folded into Decode here
// rather than left to a rfile/db subpackage.
type DB struct {
	Table  *table.Table
	Header table.DBHeader
}

// Unknown is the value held by an RFile whose FileType is TypeUnknown: raw
// bytes are kept as-is rather than treated as an error, per spec §7.
type Unknown struct {
	Data []byte
}

// Decode classifies path/data, decodes the payload with the matching typed
// decoder, and returns the decoded value ready for RFile.SetDecoded. reg
// resolves DB/Loc schema definitions; an unrecognised type never errors,
// it decodes to Unknown.
func Decode(path string, data []byte, reg *schema.Registry) (FileType, any, error) {
	ft := Classify(path, data)
	switch ft {
	case TypeDB:
		tableName, ok := TableNameForPath(path)
		if !ok {
			return TypeUnknown, Unknown{Data: data}, nil
		}
		tbl, header, err := table.DecodeDB(data, reg, tableName)
		if err != nil {
			return ft, nil, fmt.Errorf("rfile %q: %w", path, err)
		}
		return ft, &DB{Table: tbl, Header: header}, nil
	case TypeLoc:
		v, err := loc.Decode(data, reg)
		if err != nil {
			return ft, nil, fmt.Errorf("rfile %q: %w", path, err)
		}
		return ft, v, nil
	case TypeAnimPack:
		v, err := animpack.Decode(data)
		if err != nil {
			return ft, nil, fmt.Errorf("rfile %q: %w", path, err)
		}
		return ft, v, nil
	case TypeText:
		return ft, text.Decode(path, data), nil
	case TypeFont:
		v, err := font.Decode(data)
		if err != nil {
			return ft, nil, fmt.Errorf("rfile %q: %w", path, err)
		}
		return ft, v, nil
	case TypeVideo:
		v, err := video.Decode(data)
		if err != nil {
			return ft, nil, fmt.Errorf("rfile %q: %w", path, err)
		}
		return ft, v, nil
	case TypePortraitSettings:
		v, err := portrait.Decode(data)
		if err != nil {
			return ft, nil, fmt.Errorf("rfile %q: %w", path, err)
		}
		return ft, v, nil
	case TypeUnitVariant:
		v, err := unitvariant.Decode(data)
		if err != nil {
			return ft, nil, fmt.Errorf("rfile %q: %w", path, err)
		}
		return ft, v, nil
	case TypeAnimFragmentBattle:
		v, err := animfragbattle.Decode(data)
		if err != nil {
			return ft, nil, fmt.Errorf("rfile %q: %w", path, err)
		}
		return ft, v, nil
	case TypeSoundEvents:
		v, err := soundevents.Decode(data)
		if err != nil {
			return ft, nil, fmt.Errorf("rfile %q: %w", path, err)
		}
		return ft, v, nil
	case TypeBMD:
		v, err := bmd.Decode(data)
		if err != nil {
			return ft, nil, fmt.Errorf("rfile %q: %w", path, err)
		}
		return ft, v, nil
	case TypeCS2Parsed:
		v, err := cs2parsed.Decode(data)
		if err != nil {
			return ft, nil, fmt.Errorf("rfile %q: %w", path, err)
		}
		return ft, v, nil
	case TypeRigidModel:
		v, err := rigidmodel.Decode(data)
		if err != nil {
			return ft, nil, fmt.Errorf("rfile %q: %w", path, err)
		}
		return ft, v, nil
	case TypePack:
		// Nested Pack entries (e.g. movie packs) are decoded by
		// internal/pack, which imports this package; decoding here would
		// be a cycle, so the raw bytes are carried through untouched.
		return ft, Unknown{Data: data}, nil
	default:
		return TypeUnknown, Unknown{Data: data}, nil
	}
}

// Encode is the inverse of Decode: it re-serialises a previously decoded
// value back to raw bytes using the matching typed encoder.
func Encode(ft FileType, value any) ([]byte, error) {
	switch ft {
	case TypeDB:
		v, ok := value.(*DB)
		if !ok {
			return nil, fmt.Errorf("rfile: encode DB: unexpected value type %T", value)
		}
		return table.EncodeDB(v.Table, v.Header)
	case TypeLoc:
		v, ok := value.(*loc.Loc)
		if !ok {
			return nil, fmt.Errorf("rfile: encode Loc: unexpected value type %T", value)
		}
		return loc.Encode(v)
	case TypeAnimPack:
		v, ok := value.(*animpack.AnimPack)
		if !ok {
			return nil, fmt.Errorf("rfile: encode AnimPack: unexpected value type %T", value)
		}
		return animpack.Encode(v), nil
	case TypeText:
		v, ok := value.(*text.Text)
		if !ok {
			return nil, fmt.Errorf("rfile: encode Text: unexpected value type %T", value)
		}
		return text.Encode(v), nil
	case TypeFont:
		v, ok := value.(*font.Font)
		if !ok {
			return nil, fmt.Errorf("rfile: encode Font: unexpected value type %T", value)
		}
		return font.Encode(v), nil
	case TypeVideo:
		v, ok := value.(*video.Video)
		if !ok {
			return nil, fmt.Errorf("rfile: encode Video: unexpected value type %T", value)
		}
		return video.Encode(v), nil
	case TypePortraitSettings:
		v, ok := value.(*portrait.PortraitSettings)
		if !ok {
			return nil, fmt.Errorf("rfile: encode PortraitSettings: unexpected value type %T", value)
		}
		return portrait.Encode(v), nil
	case TypeUnitVariant:
		v, ok := value.(*unitvariant.UnitVariant)
		if !ok {
			return nil, fmt.Errorf("rfile: encode UnitVariant: unexpected value type %T", value)
		}
		return unitvariant.Encode(v), nil
	case TypeAnimFragmentBattle:
		v, ok := value.(*animfragbattle.AnimFragmentBattle)
		if !ok {
			return nil, fmt.Errorf("rfile: encode AnimFragmentBattle: unexpected value type %T", value)
		}
		return animfragbattle.Encode(v)
	case TypeSoundEvents:
		v, ok := value.(*soundevents.SoundEvents)
		if !ok {
			return nil, fmt.Errorf("rfile: encode SoundEvents: unexpected value type %T", value)
		}
		return soundevents.Encode(v), nil
	case TypeBMD:
		v, ok := value.(*bmd.CaptureLocationSet)
		if !ok {
			return nil, fmt.Errorf("rfile: encode Bmd: unexpected value type %T", value)
		}
		return bmd.Encode(v), nil
	case TypeCS2Parsed:
		v, ok := value.(*cs2parsed.Cs2Parsed)
		if !ok {
			return nil, fmt.Errorf("rfile: encode Cs2Parsed: unexpected value type %T", value)
		}
		return cs2parsed.Encode(v), nil
	case TypeRigidModel:
		v, ok := value.(*rigidmodel.RigidModel)
		if !ok {
			return nil, fmt.Errorf("rfile: encode RigidModel: unexpected value type %T", value)
		}
		return rigidmodel.Encode(v), nil
	default:
		v, ok := value.(Unknown)
		if !ok {
			return nil, fmt.Errorf("rfile: encode Unknown: unexpected value type %T", value)
		}
		return v.Data, nil
	}
}
