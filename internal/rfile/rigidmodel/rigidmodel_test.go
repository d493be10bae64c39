package rigidmodel

import (
	"testing"

	"github.com/archivekit/packforge/internal/codec"
)

func sample() *Material {
	return &Material{
		VertexFormat:     6,
		Name:             "cloth_mat",
		TextureDirectory: "textures/cloth",
		Filters:          "default",
		VPivot:           Vector3{X: 1, Y: 2, Z: 3},
		Matrix1:          Matrix3x4{M11: 1, M22: 1, M33: 1},
		Matrix2:          Matrix3x4{M11: 1, M22: 1, M33: 1},
		Matrix3:          Matrix3x4{M11: 1, M22: 1, M33: 1},
		IMatrixIndex:     -1,
		AttachmentPoints: []AttachmentPointEntry{{Name: "root", BoneID: 3}},
		Textures:         []Texture{{TexType: 1, Path: "textures/cloth/diffuse.dds"}},
		ParamsString:     []StringParam{{Key: 1, Value: "foo"}},
		ParamsF32:        []F32Param{{Key: 2, Value: 1.5}},
		ParamsI32:        []I32Param{{Key: 3, Value: 4}},
		ParamsVector4F32: []Vector4Param{{Key: 5, Value: Vector4{X: 1, Y: 2, Z: 3, W: 4}}},
		SzPadding:        make([]byte, szPaddingLen),
		Uk7:              []Uk7{{Uk1: 1, Uk2: 2, Uk3: 3.5}},
		Uk8:              []Uk8{{Uk1: 9}},
		Uk9:              []Uk9{{Uk1: 1, Uk2: 2, Uk3: 3}},
	}
}

func TestClothRoundTrip(t *testing.T) {
	want := sample()
	data := EncodeCloth(want)
	r := codec.NewReader(data)
	got, err := DecodeCloth(r)
	if err != nil {
		t.Fatalf("DecodeCloth: %v", err)
	}
	if got.Name != "cloth_mat" || got.TextureDirectory != "textures/cloth" {
		t.Fatalf("string fields mismatch: %+v", got)
	}
	if len(got.Textures) != 1 || got.Textures[0].Path != "textures/cloth/diffuse.dds" {
		t.Fatalf("textures mismatch: %+v", got.Textures)
	}
	if len(got.ParamsVector4F32) != 1 || got.ParamsVector4F32[0].Value.W != 4 {
		t.Fatalf("vector4 params mismatch: %+v", got.ParamsVector4F32)
	}
	if len(got.Uk9) != 1 || got.Uk9[0].Uk3 != 3 {
		t.Fatalf("uk9 mismatch: %+v", got.Uk9)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected reader fully consumed, %d bytes left", r.Remaining())
	}
}
