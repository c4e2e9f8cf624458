package csg

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/compile"
)

func cubeSides(half float64, texture string) []PlaneDef {
	// Six axis-aligned planes of a cube centered at the origin.
	mk := func(p1, p2, p3 mgl64.Vec3) PlaneDef {
		return PlaneDef{P1: p1, P2: p2, P3: p3, Texture: texture, UAxis: mgl64.Vec3{1, 0, 0}, VAxis: mgl64.Vec3{0, 1, 0}, UScale: 1, VScale: 1}
	}
	h := half
	return []PlaneDef{
		mk(mgl64.Vec3{h, -h, -h}, mgl64.Vec3{h, h, -h}, mgl64.Vec3{h, h, h}),    // +X
		mk(mgl64.Vec3{-h, h, -h}, mgl64.Vec3{-h, -h, -h}, mgl64.Vec3{-h, -h, h}), // -X
		mk(mgl64.Vec3{-h, h, -h}, mgl64.Vec3{h, h, -h}, mgl64.Vec3{h, h, h}),    // +Y
		mk(mgl64.Vec3{h, -h, -h}, mgl64.Vec3{-h, -h, -h}, mgl64.Vec3{-h, -h, h}), // -Y
		mk(mgl64.Vec3{-h, -h, h}, mgl64.Vec3{h, -h, h}, mgl64.Vec3{h, h, h}),    // +Z
		mk(mgl64.Vec3{h, -h, -h}, mgl64.Vec3{-h, -h, -h}, mgl64.Vec3{-h, h, -h}), // -Z
	}
}

func TestBuildBrushSidesCube(t *testing.T) {
	reg := newTestRegistry()
	rb := RawBrush{ID: 1, Sides: cubeSides(32, "wall01")}

	brush, windings, err := BuildBrushSides(reg, rb)
	if err != nil {
		t.Fatalf("BuildBrushSides: %v", err)
	}
	if len(brush.Sides) != 6 {
		t.Errorf("expected 6 surviving sides, got %d", len(brush.Sides))
	}
	if len(windings) != 6 {
		t.Errorf("expected 6 windings, got %d", len(windings))
	}
	for _, w := range windings {
		if area := w.Area(); area < 63*63 || area > 65*65 {
			t.Errorf("expected cube face area near 64*64=4096, got %v", area)
		}
	}
	if brush.Contents != compile.ContentsSolid {
		t.Errorf("expected SOLID contents, got %v", brush.Contents)
	}
}

func TestClipBrushEmitsNoVisibleFaces(t *testing.T) {
	c := compile.New()
	rb := RawEntity{
		Entity: namedEntity("worldspawn"),
		Brushes: []RawBrush{
			{ID: 1, Sides: cubeSides(16, "CLIP")},
		},
	}
	if err := ProcessEntities(c, []RawEntity{rb}); err != nil {
		t.Fatalf("ProcessEntities: %v", err)
	}
	if len(c.Faces) != 0 {
		t.Errorf("expected no visible faces for a CLIP brush, got %d", len(c.Faces))
	}
	if len(c.Brushes) != 1 || c.Brushes[0].Contents != compile.ContentsClip {
		t.Fatalf("expected 1 CLIP brush, got %+v", c.Brushes)
	}
}

func TestMixedContentsIsHardError(t *testing.T) {
	sides := cubeSides(16, "wall01")
	sides[1].Texture = "!water1" // second side disagrees with the dominant solid texture
	reg := newTestRegistry()
	_, _, err := BuildBrushSides(reg, RawBrush{ID: 1, Sides: sides})
	if err == nil {
		t.Fatalf("expected mixed-contents error")
	}
}

func TestTooFewSidesRejected(t *testing.T) {
	reg := newTestRegistry()
	_, _, err := BuildBrushSides(reg, RawBrush{ID: 1, Sides: cubeSides(16, "x")[:3]})
	if err == nil {
		t.Fatalf("expected a rejection for a brush with fewer than 4 sides")
	}
}

func TestOriginBrushEmitsNoFaces(t *testing.T) {
	c := compile.New()
	door := namedEntity("func_door")
	re := RawEntity{
		Entity: door,
		Brushes: []RawBrush{
			{ID: 1, Sides: cubeSides(16, "wall01")},
			{ID: 2, Sides: cubeSides(4, "origin")},
		},
	}
	if err := ProcessEntities(c, []RawEntity{re}); err != nil {
		t.Fatalf("ProcessEntities: %v", err)
	}
	if _, ok := door.Get("origin"); !ok {
		t.Errorf("expected ORIGIN brush to set the entity's origin key")
	}
	for _, f := range c.Faces {
		if f.BrushNum == 1 {
			t.Errorf("expected the ORIGIN brush to contribute no faces")
		}
	}
}
