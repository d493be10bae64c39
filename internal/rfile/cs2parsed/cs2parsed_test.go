package cs2parsed

import "testing"

func sample() *Cs2Parsed {
	destruct := Destruct{
		Name:  "destruct_0",
		Index: 0,
		CollisionOutlines: []CollisionOutline{
			{Name: "outline_0", Vertices: Outline3d{Vertices: []Point3D{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}}, Uk1: 1},
		},
		Pipes: []Pipe{
			{Name: "pipe_0", Line: Outline3d{Vertices: []Point3D{{X: 0, Y: 1, Z: 0}}}, LineType: 2},
		},
		OrangeThingies: [][]OrangeThingy{
			{{Vertex: Point2D{X: 1, Y: 2}, VertexType: 1}},
		},
		Platforms: []Platform{
			{Normal: Point3D{X: 0, Y: 1, Z: 0}, Vertices: Outline3d{Vertices: []Point3D{{X: 0, Y: 0, Z: 0}}}, Flag1: true},
		},
		Uk2:         5,
		BoundingBox: Cube{Min: Point3D{X: -1, Y: -1, Z: -1}, Max: Point3D{X: 1, Y: 1, Z: 1}},
		Uk3:         1, Uk4: 2, Uk5: 3, Uk6: 4, Uk7: 5,
		FileRefs: []FileRef{
			{Key: "mesh", Name: "wall.rigid_model_v2", Uk1: 1},
		},
		EFLines: []EFLine{
			{Name: "ef_0", Action: 1, ParentIndex: 0},
		},
		DockingLines: []DockingLine{
			{Key: "dock_0"},
		},
		F1: 1.5,
		ActionVFX: []Vfx{
			{Key: "vfx_0"},
		},
		BinData: [][]int16{{1, 2, 3}, {4}},
		F5:      2.5,
	}
	piece := Piece{
		Name:      "piece_0",
		NodeName:  "node_0",
		Int3:      1,
		Int4:      2,
		Destructs: []Destruct{destruct},
		F6:        9.5,
	}
	return &Cs2Parsed{
		Version: versionV21,
		UIFlag:  UIFlag{Name: "ui_flag_0"},
		Int1:    42,
		Pieces:  []Piece{piece},
	}
}

func TestRoundTripV21(t *testing.T) {
	want := sample()
	data := Encode(want)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Int1 != 42 || got.UIFlag.Name != "ui_flag_0" {
		t.Fatalf("top level mismatch: %+v", got)
	}
	if len(got.Pieces) != 1 || got.Pieces[0].Name != "piece_0" {
		t.Fatalf("piece mismatch: %+v", got.Pieces)
	}
	d := got.Pieces[0].Destructs[0]
	if d.Name != "destruct_0" {
		t.Fatalf("destruct mismatch: %+v", d)
	}
	if len(d.CollisionOutlines) != 1 || len(d.CollisionOutlines[0].Vertices.Vertices) != 2 {
		t.Fatalf("collision outlines mismatch: %+v", d.CollisionOutlines)
	}
	if len(d.OrangeThingies) != 1 || len(d.OrangeThingies[0]) != 1 {
		t.Fatalf("orange thingies mismatch: %+v", d.OrangeThingies)
	}
	if len(d.BinData) != 2 || len(d.BinData[0]) != 3 || len(d.BinData[1]) != 1 {
		t.Fatalf("bin data mismatch: %+v", d.BinData)
	}
	if d.BoundingBox.Max.X != 1 {
		t.Fatalf("bounding box mismatch: %+v", d.BoundingBox)
	}
}

func TestUnknownVersionPreservedRaw(t *testing.T) {
	raw := []byte{9, 9, 9}
	c := &Cs2Parsed{Version: 7, Raw: raw}
	data := Encode(c)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Version != 7 || string(got.Raw) != string(raw) {
		t.Fatalf("expected raw passthrough, got %+v", got)
	}
}
