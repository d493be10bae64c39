// Package soundevents decodes and encodes SoundEvents payloads: per-game
// sound-event graphs gated on a leading u32 serialisation version, never
// auto-upgraded on read (the original version is retained so write always
// reproduces read), per spec §4.4. The Shogun 2 ("sho2") version 2 layout
// is grounded directly on the original read_sho2/write_sho2 field order;
// every other version is preserved as an opaque blob rather than guessed,
// since no other version's field layout was available to ground against.
package soundevents

import (
	"fmt"

	"github.com/archivekit/packforge/internal/codec"
)

const versionSho2 = 2

type Category struct {
	Name string
	Uk1  float32
}

type Uk1 struct{ Uk1 int32 }
type Uk3 struct{ Uk1 int32 }
type Uk4 struct{ Uk1, Uk2 int32 }
type Uk5 struct{ Uk1, Uk2, Uk3, Uk4, Uk5, Uk6, Uk7, Uk8 float32 }
type Uk8 struct{ Uk1 uint32 }
type Uk9 struct {
	File string
	Uk1  int32
}

// EventData is the fixed 47-float per-event payload.
type EventData struct {
	Values [47]float32
}

type EventRecord struct {
	Category       uint32
	Uk2            int32
	Uk3            int32
	EventDataIndex uint32
	Name           *string // present iff event_data[event_data_index].Values[28] == 1
	Sounds         []string
	Uk4            uint8
}

type AmbienceRecord struct {
	Uk1        uint32
	EventIndex uint32
	Uk3, Uk4, Uk5 float32
}

type AmbienceMap struct {
	Name    string
	Records []AmbienceRecord
}

type Movie struct {
	File   string
	Volume float32
}

// SoundEvents is the decoded value of a SoundEvents RFile.
type SoundEvents struct {
	Version int32

	// Populated only when Version == versionSho2; Raw holds the payload for
	// any other version, preserved byte-for-byte.
	MasterVolume float32
	Categories   []Category
	Uk1          []Uk1
	Uk4          []Uk4
	Uk5          []Uk5
	Uk6, Uk7     uint32
	Uk8          []Uk8
	EventData    []EventData
	EventRecords []EventRecord
	AmbienceMap  []AmbienceMap
	Uk3          []Uk3
	Movies       []Movie
	Uk9          []Uk9

	Raw []byte
}

// Decode parses a SoundEvents payload. Only version 2 ("sho2") is given a
// structured decode; any other version is retained as an opaque blob.
func Decode(data []byte) (*SoundEvents, error) {
	r := codec.NewReader(data)
	version, err := r.ReadI32()
	if err != nil {
		return nil, fmt.Errorf("sound_events: version: %w", err)
	}
	se := &SoundEvents{Version: version}
	if version != versionSho2 {
		se.Raw = append([]byte{}, data[r.Pos():]...)
		return se, nil
	}
	if err := decodeSho2(r, se); err != nil {
		return nil, fmt.Errorf("sound_events: %w", err)
	}
	return se, nil
}

func decodeSho2(r *codec.Reader, se *SoundEvents) error {
	var err error
	if se.MasterVolume, err = r.ReadF32(); err != nil {
		return err
	}

	catCount, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < catCount; i++ {
		name, err := r.ReadSizedStringU16()
		if err != nil {
			return err
		}
		uk1, err := r.ReadF32()
		if err != nil {
			return err
		}
		se.Categories = append(se.Categories, Category{Name: name, Uk1: uk1})
	}

	n1, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n1; i++ {
		v, err := r.ReadI32()
		if err != nil {
			return err
		}
		se.Uk1 = append(se.Uk1, Uk1{Uk1: v})
	}

	n4, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n4; i++ {
		a, err := r.ReadI32()
		if err != nil {
			return err
		}
		b, err := r.ReadI32()
		if err != nil {
			return err
		}
		se.Uk4 = append(se.Uk4, Uk4{Uk1: a, Uk2: b})
	}

	n5, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n5; i++ {
		var u Uk5
		vals := [8]*float32{&u.Uk1, &u.Uk2, &u.Uk3, &u.Uk4, &u.Uk5, &u.Uk6, &u.Uk7, &u.Uk8}
		for _, p := range vals {
			*p, err = r.ReadF32()
			if err != nil {
				return err
			}
		}
		se.Uk5 = append(se.Uk5, u)
	}

	if se.Uk6, err = r.ReadU32(); err != nil {
		return err
	}
	if se.Uk7, err = r.ReadU32(); err != nil {
		return err
	}

	for i := 0; i < 31; i++ {
		v, err := r.ReadU32()
		if err != nil {
			return err
		}
		se.Uk8 = append(se.Uk8, Uk8{Uk1: v})
	}

	edCount, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < edCount; i++ {
		var ed EventData
		for j := range ed.Values {
			ed.Values[j], err = r.ReadF32()
			if err != nil {
				return err
			}
		}
		se.EventData = append(se.EventData, ed)
	}

	erCount, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < erCount; i++ {
		var ev EventRecord
		if ev.Category, err = r.ReadU32(); err != nil {
			return err
		}
		if ev.Uk2, err = r.ReadI32(); err != nil {
			return err
		}
		if ev.Uk3, err = r.ReadI32(); err != nil {
			return err
		}
		if ev.EventDataIndex, err = r.ReadU32(); err != nil {
			return err
		}
		if int(ev.EventDataIndex) >= len(se.EventData) {
			return fmt.Errorf("event record %d: event_data_index %d out of range", i, ev.EventDataIndex)
		}
		if se.EventData[ev.EventDataIndex].Values[28] == 1 {
			name, err := r.ReadSizedStringU16()
			if err != nil {
				return err
			}
			ev.Name = &name
		}
		soundCount, err := r.ReadU32()
		if err != nil {
			return err
		}
		for j := uint32(0); j < soundCount; j++ {
			s, err := r.ReadSizedStringU16()
			if err != nil {
				return err
			}
			ev.Sounds = append(ev.Sounds, s)
		}
		if ev.Uk4, err = r.ReadU8(); err != nil {
			return err
		}
		se.EventRecords = append(se.EventRecords, ev)
	}

	amCount, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < amCount; i++ {
		name, err := r.ReadSizedStringU16()
		if err != nil {
			return err
		}
		recCount, err := r.ReadU32()
		if err != nil {
			return err
		}
		var records []AmbienceRecord
		for j := uint32(0); j < recCount; j++ {
			var ar AmbienceRecord
			if ar.Uk1, err = r.ReadU32(); err != nil {
				return err
			}
			if ar.EventIndex, err = r.ReadU32(); err != nil {
				return err
			}
			if ar.Uk3, err = r.ReadF32(); err != nil {
				return err
			}
			if ar.Uk4, err = r.ReadF32(); err != nil {
				return err
			}
			if ar.Uk5, err = r.ReadF32(); err != nil {
				return err
			}
			records = append(records, ar)
		}
		se.AmbienceMap = append(se.AmbienceMap, AmbienceMap{Name: name, Records: records})
	}

	n3, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n3; i++ {
		v, err := r.ReadI32()
		if err != nil {
			return err
		}
		se.Uk3 = append(se.Uk3, Uk3{Uk1: v})
	}

	movieCount, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < movieCount; i++ {
		file, err := r.ReadSizedStringU16()
		if err != nil {
			return err
		}
		volume, err := r.ReadF32()
		if err != nil {
			return err
		}
		se.Movies = append(se.Movies, Movie{File: file, Volume: volume})
	}

	n9, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n9; i++ {
		file, err := r.ReadSizedStringU16()
		if err != nil {
			return err
		}
		v, err := r.ReadI32()
		if err != nil {
			return err
		}
		se.Uk9 = append(se.Uk9, Uk9{File: file, Uk1: v})
	}

	return r.ExpectEnd(r.Len())
}

// Encode is the inverse of Decode.
func Encode(se *SoundEvents) []byte {
	w := codec.NewWriter()
	w.WriteI32(se.Version)
	if se.Version != versionSho2 {
		w.WriteBytes(se.Raw)
		return w.Bytes()
	}

	w.WriteF32(se.MasterVolume)
	w.WriteU32(uint32(len(se.Categories)))
	for _, c := range se.Categories {
		w.WriteSizedStringU16(c.Name)
		w.WriteF32(c.Uk1)
	}

	w.WriteU32(uint32(len(se.Uk1)))
	for _, u := range se.Uk1 {
		w.WriteI32(u.Uk1)
	}

	w.WriteU32(uint32(len(se.Uk4)))
	for _, u := range se.Uk4 {
		w.WriteI32(u.Uk1)
		w.WriteI32(u.Uk2)
	}

	w.WriteU32(uint32(len(se.Uk5)))
	for _, u := range se.Uk5 {
		for _, v := range [8]float32{u.Uk1, u.Uk2, u.Uk3, u.Uk4, u.Uk5, u.Uk6, u.Uk7, u.Uk8} {
			w.WriteF32(v)
		}
	}

	w.WriteU32(se.Uk6)
	w.WriteU32(se.Uk7)
	for _, u := range se.Uk8 {
		w.WriteU32(u.Uk1)
	}

	w.WriteU32(uint32(len(se.EventData)))
	for _, ed := range se.EventData {
		for _, v := range ed.Values {
			w.WriteF32(v)
		}
	}

	w.WriteU32(uint32(len(se.EventRecords)))
	for _, ev := range se.EventRecords {
		w.WriteU32(ev.Category)
		w.WriteI32(ev.Uk2)
		w.WriteI32(ev.Uk3)
		w.WriteU32(ev.EventDataIndex)
		if ev.Name != nil {
			w.WriteSizedStringU16(*ev.Name)
		}
		w.WriteU32(uint32(len(ev.Sounds)))
		for _, s := range ev.Sounds {
			w.WriteSizedStringU16(s)
		}
		w.WriteU8(ev.Uk4)
	}

	w.WriteU32(uint32(len(se.AmbienceMap)))
	for _, am := range se.AmbienceMap {
		w.WriteSizedStringU16(am.Name)
		w.WriteU32(uint32(len(am.Records)))
		for _, rec := range am.Records {
			w.WriteU32(rec.Uk1)
			w.WriteU32(rec.EventIndex)
			w.WriteF32(rec.Uk3)
			w.WriteF32(rec.Uk4)
			w.WriteF32(rec.Uk5)
		}
	}

	w.WriteU32(uint32(len(se.Uk3)))
	for _, u := range se.Uk3 {
		w.WriteI32(u.Uk1)
	}

	w.WriteU32(uint32(len(se.Movies)))
	for _, m := range se.Movies {
		w.WriteSizedStringU16(m.File)
		w.WriteF32(m.Volume)
	}

	w.WriteU32(uint32(len(se.Uk9)))
	for _, u := range se.Uk9 {
		w.WriteSizedStringU16(u.File)
		w.WriteI32(u.Uk1)
	}

	return w.Bytes()
}
