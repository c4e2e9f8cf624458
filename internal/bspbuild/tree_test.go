package bspbuild

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/compile"
	"mapc/internal/plane"
)

func cubeFaces(reg *plane.Registry, half float64) []*compile.Face {
	mk := func(n mgl64.Vec3, d float64, pts [][3]float64) *compile.Face {
		idx, err := reg.Intern([3]float64{n.X(), n.Y(), n.Z()}, d)
		if err != nil {
			panic(err)
		}
		return &compile.Face{PlaneNum: idx, Points: pts, Contents: compile.ContentsSolid}
	}
	h := half
	return []*compile.Face{
		mk(mgl64.Vec3{1, 0, 0}, h, [][3]float64{{h, -h, -h}, {h, h, -h}, {h, h, h}, {h, -h, h}}),
		mk(mgl64.Vec3{-1, 0, 0}, h, [][3]float64{{-h, h, -h}, {-h, -h, -h}, {-h, -h, h}, {-h, h, h}}),
		mk(mgl64.Vec3{0, 1, 0}, h, [][3]float64{{-h, h, -h}, {h, h, -h}, {h, h, h}, {-h, h, h}}),
		mk(mgl64.Vec3{0, -1, 0}, h, [][3]float64{{h, -h, -h}, {-h, -h, -h}, {-h, -h, h}, {h, -h, h}}),
		mk(mgl64.Vec3{0, 0, 1}, h, [][3]float64{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}),
		mk(mgl64.Vec3{0, 0, -1}, h, [][3]float64{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}),
	}
}

func TestBuildProducesSplitNodes(t *testing.T) {
	reg := plane.NewRegistry()
	faces := cubeFaces(reg, 32)
	tree := Build(reg, faces)
	if len(tree.Nodes) == 0 {
		t.Fatalf("expected at least one split node for a 6-sided cube")
	}
}

func TestPortalizeProducesPortals(t *testing.T) {
	reg := plane.NewRegistry()
	faces := cubeFaces(reg, 32)
	tree := Build(reg, faces)
	tree.Portalize()
	if len(tree.Portals) == 0 {
		t.Fatalf("expected at least one portal after portalization")
	}
}

func TestFixTJunctionsKeepsVerticesOnCleanGeometry(t *testing.T) {
	reg := plane.NewRegistry()
	faces := cubeFaces(reg, 32)
	before := len(faces[0].Points)
	FixTJunctions(faces)
	if len(faces[0].Points) < before {
		t.Fatalf("FixTJunctions should never remove vertices, went from %d to %d", before, len(faces[0].Points))
	}
}
