// Package cs2parsed decodes and encodes Cs2Parsed payloads: CA's
// destructible-scenery description format. Only serialisation version 21
// is grounded (on cs2_parsed/versions/v21.rs's read_v21/write_v21 field
// order); other versions are preserved as an opaque blob rather than
// guessed, matching spec §4.4's "never auto-upgraded, write = read" rule
// for per-version formats whose exact wire layout wasn't retrievable.
package cs2parsed

import (
	"fmt"

	"github.com/archivekit/packforge/internal/codec"
)

const versionV21 = 21

type Point2D struct{ X, Y float32 }
type Point3D struct{ X, Y, Z float32 }

// Transform4x4 is a 4x4 row-major transform matrix.
type Transform4x4 struct{ M [16]float32 }

// Outline3d is a length-prefixed list of 3-D vertices.
type Outline3d struct{ Vertices []Point3D }

// Cube is an axis-aligned bounding box.
type Cube struct{ Min, Max Point3D }

type PipeType int32
type EFLineType int32

type CollisionOutline struct {
	Name     string
	Vertices Outline3d
	Uk1      uint32
}

type Pipe struct {
	Name     string
	Line     Outline3d
	LineType PipeType
}

type OrangeThingy struct {
	Vertex     Point2D
	VertexType uint32
}

type Platform struct {
	Normal   Point3D
	Vertices Outline3d
	Flag1    bool
	Flag2    bool
	Flag3    bool
}

type FileRef struct {
	Key       string
	Name      string
	Transform Transform4x4
	Uk1       int16
}

type EFLine struct {
	Name        string
	Action      EFLineType
	Start       Point3D
	End         Point3D
	Direction   Point3D
	ParentIndex uint32
}

type DockingLine struct {
	Key       string
	Start     Point2D
	End       Point2D
	Direction Point2D
}

type Vfx struct {
	Key     string
	Matrix1 Transform4x4
}

type Destruct struct {
	Name                 string
	Index                uint32
	CollisionOutlines    []CollisionOutline
	Pipes                []Pipe
	OrangeThingies       [][]OrangeThingy
	Platforms            []Platform
	Uk2                  int32
	BoundingBox          Cube
	Uk3, Uk4, Uk5, Uk6, Uk7 int32
	FileRefs             []FileRef
	EFLines              []EFLine
	DockingLines         []DockingLine
	F1                   float32
	ActionVFX            []Vfx
	ActionVFXAttachments []Vfx
	BinData              [][]int16
	F5                   float32
}

type Piece struct {
	Name          string
	NodeName      string
	NodeTransform Transform4x4
	Int3, Int4    int32
	Destructs     []Destruct
	F6            float32
}

type UIFlag struct {
	Name      string
	Transform Transform4x4
}

// Cs2Parsed is the decoded value of a Cs2Parsed RFile.
type Cs2Parsed struct {
	Version int32
	UIFlag  UIFlag
	Int1    int32
	Pieces  []Piece

	Raw []byte // populated only when Version != versionV21
}

func Decode(data []byte) (*Cs2Parsed, error) {
	r := codec.NewReader(data)
	version, err := r.ReadI32()
	if err != nil {
		return nil, fmt.Errorf("cs2_parsed: version: %w", err)
	}
	c := &Cs2Parsed{Version: version}
	if version != versionV21 {
		c.Raw = append([]byte{}, data[r.Pos():]...)
		return c, nil
	}
	if err := decodeV21(r, c); err != nil {
		return nil, fmt.Errorf("cs2_parsed: %w", err)
	}
	return c, nil
}

func decodeV21(r *codec.Reader, c *Cs2Parsed) error {
	var err error
	if c.UIFlag.Name, err = r.ReadSizedStringU8(); err != nil {
		return err
	}
	if c.UIFlag.Transform, err = decodeTransform(r); err != nil {
		return err
	}
	if c.Int1, err = r.ReadI32(); err != nil {
		return err
	}

	pieceCount, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < pieceCount; i++ {
		p, err := decodePiece(r)
		if err != nil {
			return fmt.Errorf("piece %d: %w", i, err)
		}
		c.Pieces = append(c.Pieces, p)
	}
	return r.ExpectEnd(r.Len())
}

func decodeTransform(r *codec.Reader) (Transform4x4, error) {
	var t Transform4x4
	for i := range t.M {
		v, err := r.ReadF32()
		if err != nil {
			return t, err
		}
		t.M[i] = v
	}
	return t, nil
}

func decodePoint2(r *codec.Reader) (Point2D, error) {
	x, err := r.ReadF32()
	if err != nil {
		return Point2D{}, err
	}
	y, err := r.ReadF32()
	return Point2D{X: x, Y: y}, err
}

func decodePoint3(r *codec.Reader) (Point3D, error) {
	x, err := r.ReadF32()
	if err != nil {
		return Point3D{}, err
	}
	y, err := r.ReadF32()
	if err != nil {
		return Point3D{}, err
	}
	z, err := r.ReadF32()
	return Point3D{X: x, Y: y, Z: z}, err
}

func decodeOutline3d(r *codec.Reader) (Outline3d, error) {
	count, err := r.ReadU32()
	if err != nil {
		return Outline3d{}, err
	}
	o := Outline3d{Vertices: make([]Point3D, 0, count)}
	for i := uint32(0); i < count; i++ {
		p, err := decodePoint3(r)
		if err != nil {
			return o, err
		}
		o.Vertices = append(o.Vertices, p)
	}
	return o, nil
}

func decodeCube(r *codec.Reader) (Cube, error) {
	min, err := decodePoint3(r)
	if err != nil {
		return Cube{}, err
	}
	max, err := decodePoint3(r)
	return Cube{Min: min, Max: max}, err
}

func decodePiece(r *codec.Reader) (Piece, error) {
	var p Piece
	var err error
	if p.Name, err = r.ReadSizedStringU8(); err != nil {
		return p, err
	}
	if p.NodeName, err = r.ReadSizedStringU8(); err != nil {
		return p, err
	}
	if p.NodeTransform, err = decodeTransform(r); err != nil {
		return p, err
	}
	if p.Int3, err = r.ReadI32(); err != nil {
		return p, err
	}
	if p.Int4, err = r.ReadI32(); err != nil {
		return p, err
	}

	destructCount, err := r.ReadU32()
	if err != nil {
		return p, err
	}
	for i := uint32(0); i < destructCount; i++ {
		d, err := decodeDestruct(r)
		if err != nil {
			return p, fmt.Errorf("destruct %d: %w", i, err)
		}
		p.Destructs = append(p.Destructs, d)
	}

	if p.F6, err = r.ReadF32(); err != nil {
		return p, err
	}
	return p, nil
}

func decodeDestruct(r *codec.Reader) (Destruct, error) {
	var d Destruct
	var err error
	if d.Name, err = r.ReadSizedStringU16(); err != nil {
		return d, err
	}
	if d.Index, err = r.ReadU32(); err != nil {
		return d, err
	}

	if err := readCount(r, func(r *codec.Reader) error {
		name, err := r.ReadSizedStringU16()
		if err != nil {
			return err
		}
		vertices, err := decodeOutline3d(r)
		if err != nil {
			return err
		}
		uk1, err := r.ReadU32()
		if err != nil {
			return err
		}
		d.CollisionOutlines = append(d.CollisionOutlines, CollisionOutline{Name: name, Vertices: vertices, Uk1: uk1})
		return nil
	}); err != nil {
		return d, err
	}

	if err := readCount(r, func(r *codec.Reader) error {
		name, err := r.ReadSizedStringU16()
		if err != nil {
			return err
		}
		line, err := decodeOutline3d(r)
		if err != nil {
			return err
		}
		lt, err := r.ReadI32()
		if err != nil {
			return err
		}
		d.Pipes = append(d.Pipes, Pipe{Name: name, Line: line, LineType: PipeType(lt)})
		return nil
	}); err != nil {
		return d, err
	}

	if err := readCount(r, func(r *codec.Reader) error {
		var group []OrangeThingy
		if err := readCount(r, func(r *codec.Reader) error {
			v, err := decodePoint2(r)
			if err != nil {
				return err
			}
			vt, err := r.ReadU32()
			if err != nil {
				return err
			}
			group = append(group, OrangeThingy{Vertex: v, VertexType: vt})
			return nil
		}); err != nil {
			return err
		}
		d.OrangeThingies = append(d.OrangeThingies, group)
		return nil
	}); err != nil {
		return d, err
	}

	if err := readCount(r, func(r *codec.Reader) error {
		normal, err := decodePoint3(r)
		if err != nil {
			return err
		}
		vertices, err := decodeOutline3d(r)
		if err != nil {
			return err
		}
		f1, err := r.ReadBool()
		if err != nil {
			return err
		}
		f2, err := r.ReadBool()
		if err != nil {
			return err
		}
		f3, err := r.ReadBool()
		if err != nil {
			return err
		}
		d.Platforms = append(d.Platforms, Platform{Normal: normal, Vertices: vertices, Flag1: f1, Flag2: f2, Flag3: f3})
		return nil
	}); err != nil {
		return d, err
	}

	uk2, err := r.ReadU8()
	if err != nil {
		return d, err
	}
	d.Uk2 = int32(uk2)

	if d.BoundingBox, err = decodeCube(r); err != nil {
		return d, err
	}
	if d.Uk3, err = r.ReadI32(); err != nil {
		return d, err
	}
	if d.Uk4, err = r.ReadI32(); err != nil {
		return d, err
	}
	if d.Uk5, err = r.ReadI32(); err != nil {
		return d, err
	}
	if d.Uk6, err = r.ReadI32(); err != nil {
		return d, err
	}
	if d.Uk7, err = r.ReadI32(); err != nil {
		return d, err
	}

	if err := readCount(r, func(r *codec.Reader) error {
		key, err := r.ReadSizedStringU8()
		if err != nil {
			return err
		}
		name, err := r.ReadSizedStringU8()
		if err != nil {
			return err
		}
		transform, err := decodeTransform(r)
		if err != nil {
			return err
		}
		uk1, err := r.ReadI16()
		if err != nil {
			return err
		}
		d.FileRefs = append(d.FileRefs, FileRef{Key: key, Name: name, Transform: transform, Uk1: uk1})
		return nil
	}); err != nil {
		return d, err
	}

	if err := readCount(r, func(r *codec.Reader) error {
		name, err := r.ReadSizedStringU16()
		if err != nil {
			return err
		}
		action, err := r.ReadI32()
		if err != nil {
			return err
		}
		start, err := decodePoint3(r)
		if err != nil {
			return err
		}
		end, err := decodePoint3(r)
		if err != nil {
			return err
		}
		direction, err := decodePoint3(r)
		if err != nil {
			return err
		}
		parentIndex, err := r.ReadU32()
		if err != nil {
			return err
		}
		d.EFLines = append(d.EFLines, EFLine{Name: name, Action: EFLineType(action), Start: start, End: end, Direction: direction, ParentIndex: parentIndex})
		return nil
	}); err != nil {
		return d, err
	}

	if err := readCount(r, func(r *codec.Reader) error {
		key, err := r.ReadSizedStringU16()
		if err != nil {
			return err
		}
		start, err := decodePoint2(r)
		if err != nil {
			return err
		}
		end, err := decodePoint2(r)
		if err != nil {
			return err
		}
		direction, err := decodePoint2(r)
		if err != nil {
			return err
		}
		d.DockingLines = append(d.DockingLines, DockingLine{Key: key, Start: start, End: end, Direction: direction})
		return nil
	}); err != nil {
		return d, err
	}

	if d.F1, err = r.ReadF32(); err != nil {
		return d, err
	}

	if err := readCount(r, func(r *codec.Reader) error {
		key, err := r.ReadSizedStringU8()
		if err != nil {
			return err
		}
		matrix, err := decodeTransform(r)
		if err != nil {
			return err
		}
		d.ActionVFX = append(d.ActionVFX, Vfx{Key: key, Matrix1: matrix})
		return nil
	}); err != nil {
		return d, err
	}

	if err := readCount(r, func(r *codec.Reader) error {
		key, err := r.ReadSizedStringU8()
		if err != nil {
			return err
		}
		matrix, err := decodeTransform(r)
		if err != nil {
			return err
		}
		d.ActionVFXAttachments = append(d.ActionVFXAttachments, Vfx{Key: key, Matrix1: matrix})
		return nil
	}); err != nil {
		return d, err
	}

	if err := readCount(r, func(r *codec.Reader) error {
		var vec []int16
		if err := readCount(r, func(r *codec.Reader) error {
			v, err := r.ReadI16()
			if err != nil {
				return err
			}
			vec = append(vec, v)
			return nil
		}); err != nil {
			return err
		}
		d.BinData = append(d.BinData, vec)
		return nil
	}); err != nil {
		return d, err
	}

	if d.F5, err = r.ReadF32(); err != nil {
		return d, err
	}
	return d, nil
}

// readCount reads a u32 count then calls body that many times.
func readCount(r *codec.Reader, body func(r *codec.Reader) error) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if err := body(r); err != nil {
			return err
		}
	}
	return nil
}

// Encode is the inverse of Decode.
func Encode(c *Cs2Parsed) []byte {
	w := codec.NewWriter()
	w.WriteI32(c.Version)
	if c.Version != versionV21 {
		w.WriteBytes(c.Raw)
		return w.Bytes()
	}

	w.WriteSizedStringU8(c.UIFlag.Name)
	encodeTransform(w, c.UIFlag.Transform)
	w.WriteI32(c.Int1)
	w.WriteU32(uint32(len(c.Pieces)))
	for _, p := range c.Pieces {
		encodePiece(w, p)
	}
	return w.Bytes()
}

func encodeTransform(w *codec.Writer, t Transform4x4) {
	for _, v := range t.M {
		w.WriteF32(v)
	}
}

func encodePoint2(w *codec.Writer, p Point2D) {
	w.WriteF32(p.X)
	w.WriteF32(p.Y)
}

func encodePoint3(w *codec.Writer, p Point3D) {
	w.WriteF32(p.X)
	w.WriteF32(p.Y)
	w.WriteF32(p.Z)
}

func encodeOutline3d(w *codec.Writer, o Outline3d) {
	w.WriteU32(uint32(len(o.Vertices)))
	for _, v := range o.Vertices {
		encodePoint3(w, v)
	}
}

func encodeCube(w *codec.Writer, c Cube) {
	encodePoint3(w, c.Min)
	encodePoint3(w, c.Max)
}

func encodePiece(w *codec.Writer, p Piece) {
	w.WriteSizedStringU8(p.Name)
	w.WriteSizedStringU8(p.NodeName)
	encodeTransform(w, p.NodeTransform)
	w.WriteI32(p.Int3)
	w.WriteI32(p.Int4)
	w.WriteU32(uint32(len(p.Destructs)))
	for _, d := range p.Destructs {
		encodeDestruct(w, d)
	}
	w.WriteF32(p.F6)
}

func encodeDestruct(w *codec.Writer, d Destruct) {
	w.WriteSizedStringU16(d.Name)
	w.WriteU32(d.Index)

	w.WriteU32(uint32(len(d.CollisionOutlines)))
	for _, o := range d.CollisionOutlines {
		w.WriteSizedStringU16(o.Name)
		encodeOutline3d(w, o.Vertices)
		w.WriteU32(o.Uk1)
	}

	w.WriteU32(uint32(len(d.Pipes)))
	for _, p := range d.Pipes {
		w.WriteSizedStringU16(p.Name)
		encodeOutline3d(w, p.Line)
		w.WriteI32(int32(p.LineType))
	}

	w.WriteU32(uint32(len(d.OrangeThingies)))
	for _, group := range d.OrangeThingies {
		w.WriteU32(uint32(len(group)))
		for _, t := range group {
			encodePoint2(w, t.Vertex)
			w.WriteU32(t.VertexType)
		}
	}

	w.WriteU32(uint32(len(d.Platforms)))
	for _, p := range d.Platforms {
		encodePoint3(w, p.Normal)
		encodeOutline3d(w, p.Vertices)
		w.WriteBool(p.Flag1)
		w.WriteBool(p.Flag2)
		w.WriteBool(p.Flag3)
	}

	w.WriteU8(uint8(d.Uk2))
	encodeCube(w, d.BoundingBox)
	w.WriteI32(d.Uk3)
	w.WriteI32(d.Uk4)
	w.WriteI32(d.Uk5)
	w.WriteI32(d.Uk6)
	w.WriteI32(d.Uk7)

	w.WriteU32(uint32(len(d.FileRefs)))
	for _, f := range d.FileRefs {
		w.WriteSizedStringU8(f.Key)
		w.WriteSizedStringU8(f.Name)
		encodeTransform(w, f.Transform)
		w.WriteI16(f.Uk1)
	}

	w.WriteU32(uint32(len(d.EFLines)))
	for _, e := range d.EFLines {
		w.WriteSizedStringU16(e.Name)
		w.WriteI32(int32(e.Action))
		encodePoint3(w, e.Start)
		encodePoint3(w, e.End)
		encodePoint3(w, e.Direction)
		w.WriteU32(e.ParentIndex)
	}

	w.WriteU32(uint32(len(d.DockingLines)))
	for _, dl := range d.DockingLines {
		w.WriteSizedStringU16(dl.Key)
		encodePoint2(w, dl.Start)
		encodePoint2(w, dl.End)
		encodePoint2(w, dl.Direction)
	}

	w.WriteF32(d.F1)

	w.WriteU32(uint32(len(d.ActionVFX)))
	for _, v := range d.ActionVFX {
		w.WriteSizedStringU8(v.Key)
		encodeTransform(w, v.Matrix1)
	}

	w.WriteU32(uint32(len(d.ActionVFXAttachments)))
	for _, v := range d.ActionVFXAttachments {
		w.WriteSizedStringU8(v.Key)
		encodeTransform(w, v.Matrix1)
	}

	w.WriteU32(uint32(len(d.BinData)))
	for _, vec := range d.BinData {
		w.WriteU32(uint32(len(vec)))
		for _, v := range vec {
			w.WriteI16(v)
		}
	}

	w.WriteF32(d.F5)
}
