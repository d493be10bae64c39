// Package diagnostics implements C7: walking a decoded Pack tree for
// cross-reference inconsistencies (spec §4.7) and the global text
// search/replace described alongside it. Diagnostics never treat a single
// file's decode failure as fatal — a file that can't be decoded is skipped,
// matching the propagation policy in spec §7.
package diagnostics

import (
	"fmt"

	"github.com/archivekit/packforge/internal/pack"
	"github.com/archivekit/packforge/internal/rfile"
	"github.com/archivekit/packforge/internal/rfile/animfragbattle"
	"github.com/archivekit/packforge/internal/rfile/portrait"
	"github.com/archivekit/packforge/internal/rfile/text"
	"github.com/archivekit/packforge/internal/rfile/video"
	"github.com/archivekit/packforge/internal/schema"
)

// Level tags a Diagnostic's severity.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	default:
		return "Info"
	}
}

// Kind identifiers, one per representative diagnostic in spec §4.7. Each is
// a stable string so callers can filter with an allow/ignore list without
// depending on Go identifiers across a plugin boundary.
const (
	KindLocomotionGraphPathNotFound    = "locomotion_graph_path_not_found"
	KindInvalidArtSetID                = "invalid_art_set_id"
	KindInvalidVariantFilename         = "invalid_variant_filename"
	KindFileDiffuseNotFoundForVariant  = "file_diffuse_not_found_for_variant"
	KindFileMask1NotFoundForVariant    = "file_mask1_not_found_for_variant"
	KindFileMask2NotFoundForVariant    = "file_mask2_not_found_for_variant"
	KindFileMask3NotFoundForVariant    = "file_mask3_not_found_for_variant"
	KindInvalidKey                     = "invalid_key"
	KindVideoKeyFrameHeaderMismatch    = "video_key_frame_header_mismatch"
)

// Diagnostic is one reported inconsistency.
type Diagnostic struct {
	Path    string
	Kind    string
	Level   Level
	Message string

	// Fields below are populated only by kinds that carry them (InvalidKey).
	Table       string
	Column      string
	Key         string
	StartCursor int
	EndCursor   int
}

// Resolver abstracts the cross-pack lookups a diagnostic scan needs: the
// local Pack plus, optionally, a dependencies cache. Diagnostics never
// mutates either.
type Resolver interface {
	// FileExists reports whether path resolves to a real file in the local
	// Pack or (if configured) the dependencies cache.
	FileExists(path string) bool
	// TableHasKey reports whether any row of any table named tableName,
	// across the local Pack and the dependencies cache, holds value in the
	// named column.
	TableHasKey(tableName, column, value string) bool
}

// Options configures Scan.
type Options struct {
	Registry *schema.Registry

	// Ignore fully suppresses every diagnostic of the named kind.
	Ignore map[string]bool
	// IgnoreFields suppresses a kind only for a specific field (currently
	// meaningful for InvalidKey, keyed by column name), the per-field
	// exclusion spec §9 supplements onto the base allow/ignore list.
	IgnoreFields map[string]map[string]bool
}

func (o Options) allows(kind, field string) bool {
	if o.Ignore[kind] {
		return false
	}
	if field != "" && o.IgnoreFields[kind][field] {
		return false
	}
	return true
}

// Scan walks every file in p, decoding each on demand through
// rfile.Decode, and emits diagnostics for the representative kinds
// enumerated above. A file that fails to decode is skipped, not faulted.
func Scan(p *pack.Pack, res Resolver, opts Options) ([]Diagnostic, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("diagnostics: scan requires a schema registry")
	}
	var out []Diagnostic
	for _, f := range p.Files(pack.FullContainer()) {
		val := f.Value()
		ft := f.FileType
		if f.State() != rfile.StateDecoded {
			data, err := f.Bytes()
			if err != nil {
				continue
			}
			var decodeErr error
			ft, val, decodeErr = rfile.Decode(f.Path, data, opts.Registry)
			if decodeErr != nil {
				continue
			}
		}
		switch ft {
		case rfile.TypeAnimFragmentBattle:
			if afb, ok := val.(*animfragbattle.AnimFragmentBattle); ok {
				out = append(out, scanAnimFragmentBattle(f.Path, afb, res, opts)...)
			}
		case rfile.TypePortraitSettings:
			if ps, ok := val.(*portrait.PortraitSettings); ok {
				out = append(out, scanPortraitSettings(f.Path, ps, res, opts)...)
			}
		case rfile.TypeText:
			if t, ok := val.(*text.Text); ok {
				out = append(out, scanText(f.Path, t, res, opts)...)
			}
		case rfile.TypeVideo:
			if v, ok := val.(*video.Video); ok {
				out = append(out, scanVideo(f.Path, v, opts)...)
			}
		}
	}
	return out, nil
}

func scanAnimFragmentBattle(path string, afb *animfragbattle.AnimFragmentBattle, res Resolver, opts Options) []Diagnostic {
	if !opts.allows(KindLocomotionGraphPathNotFound, "") {
		return nil
	}
	if afb.LocomotionGraph == "" {
		return nil
	}
	if res != nil && res.FileExists(afb.LocomotionGraph) {
		return nil
	}
	return []Diagnostic{{
		Path:    path,
		Kind:    KindLocomotionGraphPathNotFound,
		Level:   LevelWarning,
		Message: fmt.Sprintf("locomotion graph %q not found in the local pack or dependencies", afb.LocomotionGraph),
	}}
}

func scanPortraitSettings(path string, ps *portrait.PortraitSettings, res Resolver, opts Options) []Diagnostic {
	var out []Diagnostic
	for _, entry := range ps.Entries {
		if entry.ID == "" && opts.allows(KindInvalidArtSetID, "") {
			out = append(out, Diagnostic{
				Path: path, Kind: KindInvalidArtSetID, Level: LevelError,
				Message: "art set id is empty",
			})
		}
		for _, v := range entry.Variants {
			if v.Filename == "" && opts.allows(KindInvalidVariantFilename, "") {
				out = append(out, Diagnostic{
					Path: path, Kind: KindInvalidVariantFilename, Level: LevelError,
					Message: fmt.Sprintf("variant of art set %q has an empty filename", entry.ID),
				})
			}
			out = append(out, checkPortraitFile(path, entry.ID, v.FileDiffuse, KindFileDiffuseNotFoundForVariant, res, opts)...)
			out = append(out, checkPortraitFile(path, entry.ID, v.FileMask1, KindFileMask1NotFoundForVariant, res, opts)...)
			out = append(out, checkPortraitFile(path, entry.ID, v.FileMask2, KindFileMask2NotFoundForVariant, res, opts)...)
			out = append(out, checkPortraitFile(path, entry.ID, v.FileMask3, KindFileMask3NotFoundForVariant, res, opts)...)
		}
	}
	return out
}

func checkPortraitFile(path, artSetID, file, kind string, res Resolver, opts Options) []Diagnostic {
	if file == "" || !opts.allows(kind, "") {
		return nil
	}
	if res != nil && res.FileExists(file) {
		return nil
	}
	return []Diagnostic{{
		Path: path, Kind: kind, Level: LevelWarning,
		Message: fmt.Sprintf("art set %q: %q not found in the local pack or dependencies", artSetID, file),
	}}
}

func scanText(path string, t *text.Text, res Resolver, opts Options) []Diagnostic {
	if !opts.allows(KindInvalidKey, "") {
		return nil
	}
	var out []Diagnostic
	for _, ref := range parseDBKeyComments(t.Contents) {
		if !opts.allows(KindInvalidKey, ref.Column) {
			continue
		}
		if res != nil && res.TableHasKey(ref.Table, ref.Column, ref.Key) {
			continue
		}
		out = append(out, Diagnostic{
			Path:        path,
			Kind:        KindInvalidKey,
			Level:       LevelError,
			Message:     fmt.Sprintf("key %q not found in %s.%s", ref.Key, ref.Table, ref.Column),
			Table:       ref.Table,
			Column:      ref.Column,
			Key:         ref.Key,
			StartCursor: ref.Start,
			EndCursor:   ref.End,
		})
	}
	return out
}

func scanVideo(path string, v *video.Video, opts Options) []Diagnostic {
	if !opts.allows(KindVideoKeyFrameHeaderMismatch, "") {
		return nil
	}
	var out []Diagnostic
	for _, err := range video.ValidateKeyFrames(v) {
		out = append(out, Diagnostic{
			Path:    path,
			Kind:    KindVideoKeyFrameHeaderMismatch,
			Level:   LevelWarning,
			Message: err.Error(),
		})
	}
	return out
}
