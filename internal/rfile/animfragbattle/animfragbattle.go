// Package animfragbattle decodes and encodes AnimFragmentBattle payloads:
// a versioned header of ids, skeleton/table name strings, a locomotion
// graph path and flags, followed by a nested "entries" sub-table decoded
// against a hard-coded definition, per spec §4.4. Field names follow the
// FileAnimFragmentBattleView widgets (version, subversion, min_id, max_id,
// skeleton_name, table_name, mount/unmount_table_name, locomotion_graph,
// is_simple_flight, is_new_cavalry_tech).
package animfragbattle

import (
	"fmt"

	"github.com/archivekit/packforge/internal/codec"
	"github.com/archivekit/packforge/internal/schema"
	"github.com/archivekit/packforge/internal/table"
)

// entriesDefinition is the hard-coded schema every AnimFragmentBattle's
// nested entries sequence is decoded against, regardless of the outer
// version — every column is always present (open question: read every
// column regardless of game, never gate a column on version here).
func entriesDefinition() *schema.Definition {
	return &schema.Definition{
		Version: -1,
		Fields: []schema.Field{
			{Name: "animation_id", Type: schema.FieldStringU8},
			{Name: "slot_id", Type: schema.FieldI32},
			{Name: "blend_in_time", Type: schema.FieldF32},
			{Name: "selection_weight", Type: schema.FieldF32},
			{Name: "weapon_bone", Type: schema.FieldStringU8},
		},
	}
}

// AnimFragmentBattle is the decoded value of an AnimFragmentBattle RFile.
type AnimFragmentBattle struct {
	Version          int32
	Subversion       int32
	MinID            int32
	MaxID            int32
	SkeletonName     string
	TableName        string
	MountTableName   string
	UnmountTableName string
	LocomotionGraph  string
	IsSimpleFlight   bool
	IsNewCavalryTech bool
	Entries          *table.Table
}

// Decode parses an AnimFragmentBattle payload. Subversion is read for every
// supported version (4-7); the mount/unmount table names are read only from
// version 5 on and the cavalry-tech flag only from version 6 on.
func Decode(data []byte) (*AnimFragmentBattle, error) {
	r := codec.NewReader(data)
	a := &AnimFragmentBattle{}

	var err error
	if a.Version, err = r.ReadI32(); err != nil {
		return nil, fmt.Errorf("anim_fragment_battle: version: %w", err)
	}
	if a.Version < 4 || a.Version > 7 {
		return nil, fmt.Errorf("anim_fragment_battle: unsupported version %d", a.Version)
	}
	if a.Subversion, err = r.ReadI32(); err != nil {
		return nil, fmt.Errorf("anim_fragment_battle: subversion: %w", err)
	}
	if a.MinID, err = r.ReadI32(); err != nil {
		return nil, fmt.Errorf("anim_fragment_battle: min_id: %w", err)
	}
	if a.MaxID, err = r.ReadI32(); err != nil {
		return nil, fmt.Errorf("anim_fragment_battle: max_id: %w", err)
	}
	if a.SkeletonName, err = r.ReadSizedStringU8(); err != nil {
		return nil, fmt.Errorf("anim_fragment_battle: skeleton_name: %w", err)
	}
	if a.TableName, err = r.ReadSizedStringU8(); err != nil {
		return nil, fmt.Errorf("anim_fragment_battle: table_name: %w", err)
	}
	if a.Version >= 5 {
		if a.MountTableName, err = r.ReadSizedStringU8(); err != nil {
			return nil, fmt.Errorf("anim_fragment_battle: mount_table_name: %w", err)
		}
		if a.UnmountTableName, err = r.ReadSizedStringU8(); err != nil {
			return nil, fmt.Errorf("anim_fragment_battle: unmount_table_name: %w", err)
		}
	}
	if a.LocomotionGraph, err = r.ReadSizedStringU8(); err != nil {
		return nil, fmt.Errorf("anim_fragment_battle: locomotion_graph: %w", err)
	}
	if a.IsSimpleFlight, err = r.ReadBool(); err != nil {
		return nil, fmt.Errorf("anim_fragment_battle: is_simple_flight: %w", err)
	}
	if a.Version >= 6 {
		if a.IsNewCavalryTech, err = r.ReadBool(); err != nil {
			return nil, fmt.Errorf("anim_fragment_battle: is_new_cavalry_tech: %w", err)
		}
	}

	entryCount, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("anim_fragment_battle: entry count: %w", err)
	}
	entries, err := table.DecodeRows(r, entriesDefinition(), entryCount, r.Len())
	if err != nil {
		return nil, fmt.Errorf("anim_fragment_battle: entries: %w", err)
	}
	entries.Name = "entries"
	a.Entries = entries
	return a, nil
}

// Encode is the inverse of Decode, re-emitting only the fields that exist
// at a.Version.
func Encode(a *AnimFragmentBattle) ([]byte, error) {
	w := codec.NewWriter()
	w.WriteI32(a.Version)
	w.WriteI32(a.Subversion)
	w.WriteI32(a.MinID)
	w.WriteI32(a.MaxID)
	w.WriteSizedStringU8(a.SkeletonName)
	w.WriteSizedStringU8(a.TableName)
	if a.Version >= 5 {
		w.WriteSizedStringU8(a.MountTableName)
		w.WriteSizedStringU8(a.UnmountTableName)
	}
	w.WriteSizedStringU8(a.LocomotionGraph)
	w.WriteBool(a.IsSimpleFlight)
	if a.Version >= 6 {
		w.WriteBool(a.IsNewCavalryTech)
	}

	rows := a.Entries
	if rows == nil {
		rows = table.New(entriesDefinition(), "entries")
	}
	w.WriteU32(uint32(len(rows.Rows)))
	if err := table.EncodeRows(w, rows); err != nil {
		return nil, fmt.Errorf("anim_fragment_battle: encode entries: %w", err)
	}
	return w.Bytes(), nil
}
