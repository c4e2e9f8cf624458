package bspfile

import (
	"bytes"
	"testing"
)

func sample() *Data {
	return &Data{
		Entities: `{"classname" "worldspawn"}`,
		Planes:   []Plane{{Normal: [3]float32{1, 0, 0}, Dist: 64, Type: 0}},
		Vertexes: []Vertex{{Point: [3]float32{0, 0, 0}}, {Point: [3]float32{64, 0, 0}}},
		Nodes:    []Node{{PlaneNum: 0, Children: [2]int32{-1, -2}}},
		TexInfo:  []TexInfo{{MipTex: 0, Flags: 0}},
		Faces:    []Face{{PlaneNum: 0, FirstEdge: 0, NumEdges: 1, TexInfo: 0}},
		ClipNodes: []ClipNode{{PlaneNum: 0, Children: [2]int16{-1, -2}}},
		Leafs: []Leaf{
			{Contents: int32(ContentsEmpty), VisOfs: -1},
			{Contents: int32(ContentsSolid), VisOfs: -1},
		},
		MarkSurfaces: []uint16{0},
		Edges:        []Edge{{V: [2]uint16{0, 1}}},
		SurfEdges:    []int32{0},
		Models:       []Model{{HeadNode: [4]int32{0, 0, 0, 0}}},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	d := sample()
	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.Entities != d.Entities {
		t.Errorf("entities mismatch: got %q want %q", got.Entities, d.Entities)
	}
	if len(got.Planes) != 1 || got.Planes[0].Dist != 64 {
		t.Errorf("planes mismatch: %+v", got.Planes)
	}
	if len(got.Vertexes) != 2 {
		t.Errorf("expected 2 vertexes, got %d", len(got.Vertexes))
	}
	if len(got.Leafs) != 2 || got.Leafs[1].Contents != int32(ContentsSolid) {
		t.Errorf("leafs mismatch: %+v", got.Leafs)
	}
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	d := sample()
	var buf bytes.Buffer
	Encode(&buf, d)
	b := buf.Bytes()
	b[0] = 99 // stomp the version word's low byte
	if _, err := Decode(bytes.NewReader(b), int64(len(b))); err == nil {
		t.Fatalf("expected version mismatch error")
	}
}

func TestDecodeRejectsOutOfBoundsSurfEdge(t *testing.T) {
	d := sample()
	d.SurfEdges[0] = 99 // references a nonexistent edge
	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Decode(bytes.NewReader(buf.Bytes()), int64(buf.Len())); err == nil {
		t.Fatalf("expected integrity error for out-of-range surfedge")
	}
}
