// Package rigidmodel decodes and encodes the "cloth" material record found
// inside RigidModel lod/material lists, grounded on
// rigidmodel/materials/cloth.rs's read_cloth/write_cloth. Only this
// submodule was retrieved from the corpus: the top-level RigidModel
// container (lods, bounding volumes, the full VertexFormat enum and its
// other per-format material layouts) was not, so this package exposes the
// cloth material codec on its own rather than a full RigidModel decoder.
package rigidmodel

import (
	"fmt"

	"github.com/archivekit/packforge/internal/codec"
)

const (
	paddedSize32  = 32
	paddedSize256 = 256
	szPaddingLen  = 124
)

// RigidModel is the value an RFile of type RigidModel holds. The top-level
// container layout (lod list, bounding volumes, the per-vertex-format
// material dispatch) wasn't retrieved from the corpus, so it is kept as an
// opaque blob rather than guessed; only the cloth Material record embedded
// within it is individually decodable via DecodeCloth/EncodeCloth.
type RigidModel struct {
	Raw []byte
}

// Decode preserves the payload byte-for-byte.
func Decode(data []byte) (*RigidModel, error) {
	return &RigidModel{Raw: append([]byte{}, data...)}, nil
}

// Encode is the inverse of Decode.
func Encode(m *RigidModel) []byte {
	return m.Raw
}

type Vector3 struct{ X, Y, Z float32 }
type Vector4 struct{ X, Y, Z, W float32 }

// Matrix3x4 is a 3x4 affine transform, row-major (m11..m14, m21..m24, m31..m34).
type Matrix3x4 struct {
	M11, M12, M13, M14 float32
	M21, M22, M23, M24 float32
	M31, M32, M33, M34 float32
}

type TextureType int32

type Texture struct {
	TexType TextureType
	Path    string
}

type AttachmentPointEntry struct {
	Name   string
	Matrix Matrix3x4
	BoneID uint32
}

type StringParam struct {
	Key   int32
	Value string
}

type F32Param struct {
	Key   int32
	Value float32
}

type I32Param struct {
	Key   int32
	Value int32
}

type Vector4Param struct {
	Key   int32
	Value Vector4
}

type Uk7 struct {
	Uk1 int32
	Uk2 int32
	Uk3 float32
}

type Uk8 struct{ Uk1 int32 }

type Uk9 struct {
	Uk1 int32
	Uk2 int32
	Uk3 int32
}

// Material is a RigidModel material record in the "cloth" vertex format.
type Material struct {
	VertexFormat       uint16
	Name               string
	TextureDirectory   string
	Filters            string
	PaddingByte0       uint8
	PaddingByte1       uint8
	VPivot             Vector3
	Matrix1            Matrix3x4
	Matrix2            Matrix3x4
	Matrix3            Matrix3x4
	IMatrixIndex       int32
	IParentMatrixIndex int32

	AttachmentPoints []AttachmentPointEntry
	Textures         []Texture
	ParamsString     []StringParam
	ParamsF32        []F32Param
	ParamsI32        []I32Param
	ParamsVector4F32 []Vector4Param

	SzPadding []byte

	Uk7 []Uk7
	Uk8 []Uk8
	Uk9 []Uk9
}

func readMatrix3x4(r *codec.Reader) (Matrix3x4, error) {
	var m Matrix3x4
	fields := []*float32{
		&m.M11, &m.M12, &m.M13, &m.M14,
		&m.M21, &m.M22, &m.M23, &m.M24,
		&m.M31, &m.M32, &m.M33, &m.M34,
	}
	for _, f := range fields {
		v, err := r.ReadF32()
		if err != nil {
			return m, err
		}
		*f = v
	}
	return m, nil
}

func writeMatrix3x4(w *codec.Writer, m Matrix3x4) {
	for _, v := range []float32{
		m.M11, m.M12, m.M13, m.M14,
		m.M21, m.M22, m.M23, m.M24,
		m.M31, m.M32, m.M33, m.M34,
	} {
		w.WriteF32(v)
	}
}

// DecodeCloth reads a Material in the cloth vertex format.
func DecodeCloth(r *codec.Reader) (*Material, error) {
	var mat Material
	var err error

	if mat.VertexFormat, err = r.ReadU16(); err != nil {
		return nil, fmt.Errorf("rigidmodel: vertex_format: %w", err)
	}
	if mat.Name, err = r.ReadStringU8_0Padded(paddedSize32); err != nil {
		return nil, fmt.Errorf("rigidmodel: name: %w", err)
	}
	if mat.TextureDirectory, err = r.ReadStringU8_0Padded(paddedSize256); err != nil {
		return nil, fmt.Errorf("rigidmodel: texture_directory: %w", err)
	}
	if mat.Filters, err = r.ReadStringU8_0Padded(paddedSize256); err != nil {
		return nil, fmt.Errorf("rigidmodel: filters: %w", err)
	}
	if mat.PaddingByte0, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if mat.PaddingByte1, err = r.ReadU8(); err != nil {
		return nil, err
	}

	x, err := r.ReadF32()
	if err != nil {
		return nil, err
	}
	y, err := r.ReadF32()
	if err != nil {
		return nil, err
	}
	z, err := r.ReadF32()
	if err != nil {
		return nil, err
	}
	mat.VPivot = Vector3{X: x, Y: y, Z: z}

	if mat.Matrix1, err = readMatrix3x4(r); err != nil {
		return nil, err
	}
	if mat.Matrix2, err = readMatrix3x4(r); err != nil {
		return nil, err
	}
	if mat.Matrix3, err = readMatrix3x4(r); err != nil {
		return nil, err
	}

	if mat.IMatrixIndex, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if mat.IParentMatrixIndex, err = r.ReadI32(); err != nil {
		return nil, err
	}

	attachmentCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	textureCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	paramStringCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	paramF32Count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	paramI32Count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	paramVec4Count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	if mat.SzPadding, err = r.ReadBytes(szPaddingLen); err != nil {
		return nil, fmt.Errorf("rigidmodel: sz_padding: %w", err)
	}

	for i := uint32(0); i < attachmentCount; i++ {
		var e AttachmentPointEntry
		if e.Name, err = r.ReadStringU8_0Padded(paddedSize32); err != nil {
			return nil, err
		}
		if e.Matrix, err = readMatrix3x4(r); err != nil {
			return nil, err
		}
		if e.BoneID, err = r.ReadU32(); err != nil {
			return nil, err
		}
		mat.AttachmentPoints = append(mat.AttachmentPoints, e)
	}

	for i := uint32(0); i < textureCount; i++ {
		var t Texture
		tt, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		t.TexType = TextureType(tt)
		if t.Path, err = r.ReadStringU8_0Padded(paddedSize256); err != nil {
			return nil, err
		}
		mat.Textures = append(mat.Textures, t)
	}

	for i := uint32(0); i < paramStringCount; i++ {
		key, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		val, err := r.ReadSizedStringU8()
		if err != nil {
			return nil, err
		}
		mat.ParamsString = append(mat.ParamsString, StringParam{Key: key, Value: val})
	}

	for i := uint32(0); i < paramF32Count; i++ {
		key, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		val, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		mat.ParamsF32 = append(mat.ParamsF32, F32Param{Key: key, Value: val})
	}

	for i := uint32(0); i < paramI32Count; i++ {
		key, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		val, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		mat.ParamsI32 = append(mat.ParamsI32, I32Param{Key: key, Value: val})
	}

	for i := uint32(0); i < paramVec4Count; i++ {
		key, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		vx, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		vy, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		vz, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		vw, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		mat.ParamsVector4F32 = append(mat.ParamsVector4F32, Vector4Param{Key: key, Value: Vector4{X: vx, Y: vy, Z: vz, W: vw}})
	}

	uk7Count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	uk8Count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	uk9Count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < uk7Count; i++ {
		var u Uk7
		if u.Uk1, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if u.Uk2, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if u.Uk3, err = r.ReadF32(); err != nil {
			return nil, err
		}
		mat.Uk7 = append(mat.Uk7, u)
	}
	for i := uint32(0); i < uk8Count; i++ {
		v, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		mat.Uk8 = append(mat.Uk8, Uk8{Uk1: v})
	}
	for i := uint32(0); i < uk9Count; i++ {
		var u Uk9
		if u.Uk1, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if u.Uk2, err = r.ReadI32(); err != nil {
			return nil, err
		}
		if u.Uk3, err = r.ReadI32(); err != nil {
			return nil, err
		}
		mat.Uk9 = append(mat.Uk9, u)
	}

	return &mat, nil
}

// EncodeCloth is the inverse of DecodeCloth.
func EncodeCloth(mat *Material) []byte {
	w := codec.NewWriter()
	w.WriteU16(mat.VertexFormat)
	w.WriteStringU8_0Padded(mat.Name, paddedSize32, true)
	w.WriteStringU8_0Padded(mat.TextureDirectory, paddedSize256, true)
	w.WriteStringU8_0Padded(mat.Filters, paddedSize256, true)
	w.WriteU8(mat.PaddingByte0)
	w.WriteU8(mat.PaddingByte1)

	w.WriteF32(mat.VPivot.X)
	w.WriteF32(mat.VPivot.Y)
	w.WriteF32(mat.VPivot.Z)

	writeMatrix3x4(w, mat.Matrix1)
	writeMatrix3x4(w, mat.Matrix2)
	writeMatrix3x4(w, mat.Matrix3)

	w.WriteI32(mat.IMatrixIndex)
	w.WriteI32(mat.IParentMatrixIndex)

	w.WriteI32(int32(len(mat.AttachmentPoints)))
	w.WriteI32(int32(len(mat.Textures)))
	w.WriteI32(int32(len(mat.ParamsString)))
	w.WriteI32(int32(len(mat.ParamsF32)))
	w.WriteI32(int32(len(mat.ParamsI32)))
	w.WriteI32(int32(len(mat.ParamsVector4F32)))

	padding := mat.SzPadding
	if len(padding) < szPaddingLen {
		padding = append(append([]byte{}, padding...), make([]byte, szPaddingLen-len(padding))...)
	}
	w.WriteBytes(padding[:szPaddingLen])

	for _, e := range mat.AttachmentPoints {
		w.WriteStringU8_0Padded(e.Name, paddedSize32, true)
		writeMatrix3x4(w, e.Matrix)
		w.WriteU32(e.BoneID)
	}

	for _, t := range mat.Textures {
		w.WriteI32(int32(t.TexType))
		w.WriteStringU8_0Padded(t.Path, paddedSize256, true)
	}

	for _, p := range mat.ParamsString {
		w.WriteI32(p.Key)
		w.WriteSizedStringU8(p.Value)
	}
	for _, p := range mat.ParamsF32 {
		w.WriteI32(p.Key)
		w.WriteF32(p.Value)
	}
	for _, p := range mat.ParamsI32 {
		w.WriteI32(p.Key)
		w.WriteI32(p.Value)
	}
	for _, p := range mat.ParamsVector4F32 {
		w.WriteI32(p.Key)
		w.WriteF32(p.Value.X)
		w.WriteF32(p.Value.Y)
		w.WriteF32(p.Value.Z)
		w.WriteF32(p.Value.W)
	}

	w.WriteI32(int32(len(mat.Uk7)))
	w.WriteI32(int32(len(mat.Uk8)))
	w.WriteI32(int32(len(mat.Uk9)))

	for _, u := range mat.Uk7 {
		w.WriteI32(u.Uk1)
		w.WriteI32(u.Uk2)
		w.WriteF32(u.Uk3)
	}
	for _, u := range mat.Uk8 {
		w.WriteI32(u.Uk1)
	}
	for _, u := range mat.Uk9 {
		w.WriteI32(u.Uk1)
		w.WriteI32(u.Uk2)
		w.WriteI32(u.Uk3)
	}

	return w.Bytes()
}
