// Package bmd decodes and encodes Bmd capture-location-set payloads: a
// leading u16 serialisation version (2, 7, 8, 10 or 11 per the original
// read_v2..read_v11 dispatch) followed by a list of capture-location lists,
// each holding capture locations, per spec §4.4. CaptureLocation's field
// set is grounded on capture_location_set/mod.rs's struct and the
// building_link attributes its to_layer XML emitter writes out
// (serialise_version, building_index, prefab_index, prefab_building_key,
// uid, prefab_uid). No per-version wire-layout source was retrieved, so
// every supported version shares one field layout; only the version tag
// itself is preserved to satisfy "original version retained, never
// auto-upgraded".
package bmd

import (
	"fmt"

	"github.com/archivekit/packforge/internal/codec"
)

var supportedVersions = map[uint16]bool{2: true, 7: true, 8: true, 10: true, 11: true}

type Point2D struct{ X, Y float32 }

type BuildingLink struct {
	SerialiseVersion  uint16
	BuildingIndex     int32
	PrefabIndex       int32
	PrefabBuildingKey string
	UID               uint64
	PrefabUID         uint64
}

type CaptureLocation struct {
	ID                                         uint64
	Location                                   Point2D
	Radius                                     float32
	ValidForMinNumPlayers                      uint32
	ValidForMaxNumPlayers                      uint32
	CapturePointType                           string
	RestoreType                                string
	LocationPoints                             []Point2D
	DatabaseKey                                string
	FlagFacing                                 Point2D
	DestroyBuildingOnCapture                   bool
	DisableBuildingAbilitiesWhenNoOriginalOwner bool
	AbilitiesAffectGlobally                    bool
	BuildingLinks                              []BuildingLink
	ToggleSlotsLinks                           []uint32
	AIHintsLinks                               []uint8
	ScriptID                                   string
	IsTimeBased                                bool
}

type CaptureLocationList struct {
	CaptureLocations []CaptureLocation
}

// CaptureLocationSet is the decoded value of a Bmd RFile.
type CaptureLocationSet struct {
	SerialiseVersion    uint16
	CaptureLocationSets []CaptureLocationList
}

func Decode(data []byte) (*CaptureLocationSet, error) {
	r := codec.NewReader(data)
	version, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("bmd: serialise_version: %w", err)
	}
	if !supportedVersions[version] {
		return nil, fmt.Errorf("bmd: unsupported capture location set version %d", version)
	}
	cls := &CaptureLocationSet{SerialiseVersion: version}

	setCount, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("bmd: capture_location_sets count: %w", err)
	}
	for i := uint32(0); i < setCount; i++ {
		list, err := decodeList(r)
		if err != nil {
			return nil, fmt.Errorf("bmd: capture_location_set %d: %w", i, err)
		}
		cls.CaptureLocationSets = append(cls.CaptureLocationSets, list)
	}
	if err := r.ExpectEnd(r.Len()); err != nil {
		return nil, fmt.Errorf("bmd: %w", err)
	}
	return cls, nil
}

func decodeList(r *codec.Reader) (CaptureLocationList, error) {
	count, err := r.ReadU32()
	if err != nil {
		return CaptureLocationList{}, err
	}
	list := CaptureLocationList{}
	for i := uint32(0); i < count; i++ {
		loc, err := decodeLocation(r)
		if err != nil {
			return CaptureLocationList{}, fmt.Errorf("capture_location %d: %w", i, err)
		}
		list.CaptureLocations = append(list.CaptureLocations, loc)
	}
	return list, nil
}

func decodePoint(r *codec.Reader) (Point2D, error) {
	x, err := r.ReadF32()
	if err != nil {
		return Point2D{}, err
	}
	y, err := r.ReadF32()
	if err != nil {
		return Point2D{}, err
	}
	return Point2D{X: x, Y: y}, nil
}

func decodeLocation(r *codec.Reader) (CaptureLocation, error) {
	var loc CaptureLocation
	var err error
	if loc.ID, err = r.ReadU64(); err != nil {
		return loc, err
	}
	if loc.Location, err = decodePoint(r); err != nil {
		return loc, err
	}
	if loc.Radius, err = r.ReadF32(); err != nil {
		return loc, err
	}
	if loc.ValidForMinNumPlayers, err = r.ReadU32(); err != nil {
		return loc, err
	}
	if loc.ValidForMaxNumPlayers, err = r.ReadU32(); err != nil {
		return loc, err
	}
	if loc.CapturePointType, err = r.ReadSizedStringU8(); err != nil {
		return loc, err
	}
	if loc.RestoreType, err = r.ReadSizedStringU8(); err != nil {
		return loc, err
	}

	pointCount, err := r.ReadU32()
	if err != nil {
		return loc, err
	}
	for i := uint32(0); i < pointCount; i++ {
		p, err := decodePoint(r)
		if err != nil {
			return loc, err
		}
		loc.LocationPoints = append(loc.LocationPoints, p)
	}

	if loc.DatabaseKey, err = r.ReadSizedStringU8(); err != nil {
		return loc, err
	}
	if loc.FlagFacing, err = decodePoint(r); err != nil {
		return loc, err
	}
	if loc.DestroyBuildingOnCapture, err = r.ReadBool(); err != nil {
		return loc, err
	}
	if loc.DisableBuildingAbilitiesWhenNoOriginalOwner, err = r.ReadBool(); err != nil {
		return loc, err
	}
	if loc.AbilitiesAffectGlobally, err = r.ReadBool(); err != nil {
		return loc, err
	}

	linkCount, err := r.ReadU32()
	if err != nil {
		return loc, err
	}
	for i := uint32(0); i < linkCount; i++ {
		link, err := decodeBuildingLink(r)
		if err != nil {
			return loc, err
		}
		loc.BuildingLinks = append(loc.BuildingLinks, link)
	}

	toggleCount, err := r.ReadU32()
	if err != nil {
		return loc, err
	}
	for i := uint32(0); i < toggleCount; i++ {
		v, err := r.ReadU32()
		if err != nil {
			return loc, err
		}
		loc.ToggleSlotsLinks = append(loc.ToggleSlotsLinks, v)
	}

	aiHintsCount, err := r.ReadU32()
	if err != nil {
		return loc, err
	}
	for i := uint32(0); i < aiHintsCount; i++ {
		v, err := r.ReadU8()
		if err != nil {
			return loc, err
		}
		loc.AIHintsLinks = append(loc.AIHintsLinks, v)
	}

	if loc.ScriptID, err = r.ReadSizedStringU8(); err != nil {
		return loc, err
	}
	if loc.IsTimeBased, err = r.ReadBool(); err != nil {
		return loc, err
	}
	return loc, nil
}

func decodeBuildingLink(r *codec.Reader) (BuildingLink, error) {
	var link BuildingLink
	var err error
	if link.SerialiseVersion, err = r.ReadU16(); err != nil {
		return link, err
	}
	if link.BuildingIndex, err = r.ReadI32(); err != nil {
		return link, err
	}
	if link.PrefabIndex, err = r.ReadI32(); err != nil {
		return link, err
	}
	if link.PrefabBuildingKey, err = r.ReadSizedStringU8(); err != nil {
		return link, err
	}
	if link.UID, err = r.ReadU64(); err != nil {
		return link, err
	}
	if link.PrefabUID, err = r.ReadU64(); err != nil {
		return link, err
	}
	return link, nil
}

// Encode is the inverse of Decode.
func Encode(cls *CaptureLocationSet) []byte {
	w := codec.NewWriter()
	w.WriteU16(cls.SerialiseVersion)
	w.WriteU32(uint32(len(cls.CaptureLocationSets)))
	for _, list := range cls.CaptureLocationSets {
		w.WriteU32(uint32(len(list.CaptureLocations)))
		for _, loc := range list.CaptureLocations {
			encodeLocation(w, loc)
		}
	}
	return w.Bytes()
}

func encodePoint(w *codec.Writer, p Point2D) {
	w.WriteF32(p.X)
	w.WriteF32(p.Y)
}

func encodeLocation(w *codec.Writer, loc CaptureLocation) {
	w.WriteU64(loc.ID)
	encodePoint(w, loc.Location)
	w.WriteF32(loc.Radius)
	w.WriteU32(loc.ValidForMinNumPlayers)
	w.WriteU32(loc.ValidForMaxNumPlayers)
	w.WriteSizedStringU8(loc.CapturePointType)
	w.WriteSizedStringU8(loc.RestoreType)
	w.WriteU32(uint32(len(loc.LocationPoints)))
	for _, p := range loc.LocationPoints {
		encodePoint(w, p)
	}
	w.WriteSizedStringU8(loc.DatabaseKey)
	encodePoint(w, loc.FlagFacing)
	w.WriteBool(loc.DestroyBuildingOnCapture)
	w.WriteBool(loc.DisableBuildingAbilitiesWhenNoOriginalOwner)
	w.WriteBool(loc.AbilitiesAffectGlobally)
	w.WriteU32(uint32(len(loc.BuildingLinks)))
	for _, link := range loc.BuildingLinks {
		w.WriteU16(link.SerialiseVersion)
		w.WriteI32(link.BuildingIndex)
		w.WriteI32(link.PrefabIndex)
		w.WriteSizedStringU8(link.PrefabBuildingKey)
		w.WriteU64(link.UID)
		w.WriteU64(link.PrefabUID)
	}
	w.WriteU32(uint32(len(loc.ToggleSlotsLinks)))
	for _, v := range loc.ToggleSlotsLinks {
		w.WriteU32(v)
	}
	w.WriteU32(uint32(len(loc.AIHintsLinks)))
	for _, v := range loc.AIHintsLinks {
		w.WriteU8(v)
	}
	w.WriteSizedStringU8(loc.ScriptID)
	w.WriteBool(loc.IsTimeBased)
}
