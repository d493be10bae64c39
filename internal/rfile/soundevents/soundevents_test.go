package soundevents

import "testing"

func sampleSho2() *SoundEvents {
	se := &SoundEvents{Version: versionSho2, MasterVolume: 0.8}
	se.Categories = []Category{{Name: "voice", Uk1: 1.0}}
	se.Uk6 = 7
	se.Uk7 = 9
	se.Uk8 = make([]Uk8, 31)
	ed := EventData{}
	ed.Values[28] = 1
	se.EventData = []EventData{ed}
	name := "explosion"
	se.EventRecords = []EventRecord{
		{Category: 1, Uk2: 0, Uk3: 0, EventDataIndex: 0, Name: &name, Sounds: []string{"boom.wav"}, Uk4: 1},
	}
	se.Movies = []Movie{{File: "intro.bik", Volume: 1.0}}
	return se
}

func TestSho2RoundTrip(t *testing.T) {
	want := sampleSho2()
	data := Encode(want)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.MasterVolume != want.MasterVolume {
		t.Fatalf("master volume: got %v want %v", got.MasterVolume, want.MasterVolume)
	}
	if len(got.EventRecords) != 1 || got.EventRecords[0].Name == nil || *got.EventRecords[0].Name != "explosion" {
		t.Fatalf("event record mismatch: %+v", got.EventRecords)
	}
	if len(got.Movies) != 1 || got.Movies[0].File != "intro.bik" {
		t.Fatalf("movies mismatch: %+v", got.Movies)
	}
}

func TestUnknownVersionPreservedRaw(t *testing.T) {
	raw := []byte{1, 2, 3, 4, 5}
	se := &SoundEvents{Version: 99, Raw: raw}
	data := Encode(se)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Version != 99 || string(got.Raw) != string(raw) {
		t.Fatalf("expected raw passthrough, got %+v", got)
	}
}
