package bmd

import "testing"

func sample() *CaptureLocationSet {
	loc := CaptureLocation{
		ID:                     1234,
		Location:               Point2D{X: 10, Y: 20},
		Radius:                 5,
		ValidForMinNumPlayers:  2,
		ValidForMaxNumPlayers:  8,
		CapturePointType:       "CAPTURE_LOCATION_KEY_BUILDING_A",
		RestoreType:            "PreviousOwner",
		LocationPoints:         []Point2D{{X: 0, Y: 0}, {X: 76, Y: 0}},
		DatabaseKey:            "minor_key_building_melee",
		FlagFacing:             Point2D{X: 1, Y: 0},
		DestroyBuildingOnCapture: false,
		AbilitiesAffectGlobally: true,
		BuildingLinks: []BuildingLink{
			{SerialiseVersion: 3, BuildingIndex: -1, PrefabIndex: -1, PrefabBuildingKey: "", UID: 110191296430928784, PrefabUID: 0},
		},
		ToggleSlotsLinks: []uint32{0, 1, 2, 3, 4, 5, 32},
		ScriptID:         "",
		IsTimeBased:      false,
	}
	return &CaptureLocationSet{
		SerialiseVersion:    11,
		CaptureLocationSets: []CaptureLocationList{{CaptureLocations: []CaptureLocation{loc}}},
	}
}

func TestRoundTrip(t *testing.T) {
	want := sample()
	data := Encode(want)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.SerialiseVersion != 11 {
		t.Fatalf("version: got %d", got.SerialiseVersion)
	}
	loc := got.CaptureLocationSets[0].CaptureLocations[0]
	if loc.DatabaseKey != "minor_key_building_melee" || loc.ID != 1234 {
		t.Fatalf("location mismatch: %+v", loc)
	}
	if len(loc.BuildingLinks) != 1 || loc.BuildingLinks[0].UID != 110191296430928784 {
		t.Fatalf("building links mismatch: %+v", loc.BuildingLinks)
	}
}

func TestUnsupportedVersion(t *testing.T) {
	data := []byte{99, 0, 0, 0, 0, 0}
	if _, err := Decode(data); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}
