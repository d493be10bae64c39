package animfragbattle

import (
	"testing"

	"github.com/archivekit/packforge/internal/table"
)

func sample(version int32) *AnimFragmentBattle {
	a := &AnimFragmentBattle{
		Version:          version,
		Subversion:       2,
		MinID:            0,
		MaxID:            100,
		SkeletonName:     "humanoid01",
		TableName:        "battle_animations_table",
		LocomotionGraph:  "animations/locomotion/human.loco",
		IsSimpleFlight:   false,
		IsNewCavalryTech: version >= 6,
	}
	if version >= 5 {
		a.MountTableName = "mount_table"
		a.UnmountTableName = "unmount_table"
	}
	entries := table.New(entriesDefinition(), "entries")
	entries.Rows = [][]table.DecodedData{
		{
			{Type: entriesDefinition().Fields[0].Type, Str: "anim_walk"},
			{Type: entriesDefinition().Fields[1].Type, I32: 1},
			{Type: entriesDefinition().Fields[2].Type, F32: 0.25},
			{Type: entriesDefinition().Fields[3].Type, F32: 1.0},
			{Type: entriesDefinition().Fields[4].Type, Str: ""},
		},
	}
	a.Entries = entries
	return a
}

func TestRoundTripV4(t *testing.T) {
	want := sample(4)
	data, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.MountTableName != "" || got.UnmountTableName != "" {
		t.Fatalf("v4 should not carry mount/unmount table names, got %+v", got)
	}
	if got.SkeletonName != want.SkeletonName || got.TableName != want.TableName {
		t.Fatalf("header mismatch: %+v", got)
	}
	if len(got.Entries.Rows) != 1 || got.Entries.Rows[0][0].Str != "anim_walk" {
		t.Fatalf("entries mismatch: %+v", got.Entries.Rows)
	}
}

func TestRoundTripV6(t *testing.T) {
	want := sample(6)
	data, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.MountTableName != "mount_table" || got.UnmountTableName != "unmount_table" {
		t.Fatalf("v6 should carry mount/unmount table names, got %+v", got)
	}
	if !got.IsNewCavalryTech {
		t.Fatalf("expected is_new_cavalry_tech true, got false")
	}
}

func TestUnsupportedVersion(t *testing.T) {
	a := sample(4)
	a.Version = 99
	data, err := Encode(a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Decode(data); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}
