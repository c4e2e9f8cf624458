package hull

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/bspfile"
	"mapc/internal/compile"
	"mapc/internal/plane"
)

func cubeBrush(reg *plane.Registry, half float64) *compile.Brush {
	mk := func(n [3]float64, d float64) int {
		idx, err := reg.Intern(n, d)
		if err != nil {
			panic(err)
		}
		return idx
	}
	h := half
	b := &compile.Brush{ID: 1, Contents: compile.ContentsSolid}
	for _, pn := range []struct {
		n [3]float64
		d float64
	}{
		{[3]float64{1, 0, 0}, h}, {[3]float64{-1, 0, 0}, h},
		{[3]float64{0, 1, 0}, h}, {[3]float64{0, -1, 0}, h},
		{[3]float64{0, 0, 1}, h}, {[3]float64{0, 0, -1}, h},
	} {
		b.Sides = append(b.Sides, compile.BrushSide{PlaneNum: mk(pn.n, pn.d)})
	}
	return b
}

func TestBuildClipHullProducesNodes(t *testing.T) {
	reg := plane.NewRegistry()
	b := cubeBrush(reg, 32)
	tree := Build(reg, []*compile.Brush{b}, Hulls[1])
	if len(tree.Nodes) == 0 {
		t.Fatalf("expected at least one clipnode for a single brush")
	}
}

// TestBuildClipHullChainLength checks the exact node count for a single
// six-sided brush with brink repair disabled: one clipnode per brush
// side, chained front=EMPTY/back=nextPlane down to a SOLID leaf.
func TestBuildClipHullChainLength(t *testing.T) {
	reg := plane.NewRegistry()
	b := cubeBrush(reg, 32)
	tree := BuildOptions(reg, []*compile.Brush{b}, Hulls[1], false)
	if len(tree.Nodes) != len(b.Sides) {
		t.Fatalf("expected %d clipnodes (one per brush side), got %d", len(b.Sides), len(tree.Nodes))
	}
	for _, n := range tree.Nodes {
		if n.Children[0] != encodeContents(bspfile.ContentsEmpty) {
			t.Errorf("expected every front child to be EMPTY, got %d", n.Children[0])
		}
	}
}

// cubeBrushAt builds a cube brush centered away from the origin, used to
// check that two disjoint brushes each contribute their own clipnode
// chain rather than collapsing into one.
func cubeBrushAt(reg *plane.Registry, half float64, center [3]float64) *compile.Brush {
	mk := func(n [3]float64, d float64) int {
		idx, err := reg.Intern(n, d)
		if err != nil {
			panic(err)
		}
		return idx
	}
	b := &compile.Brush{ID: 2, Contents: compile.ContentsSolid}
	for _, pn := range []struct {
		n [3]float64
		d float64
	}{
		{[3]float64{1, 0, 0}, half}, {[3]float64{-1, 0, 0}, half},
		{[3]float64{0, 1, 0}, half}, {[3]float64{0, -1, 0}, half},
		{[3]float64{0, 0, 1}, half}, {[3]float64{0, 0, -1}, half},
	} {
		dot := pn.n[0]*center[0] + pn.n[1]*center[1] + pn.n[2]*center[2]
		b.Sides = append(b.Sides, compile.BrushSide{PlaneNum: mk(pn.n, pn.d+dot)})
	}
	return b
}

func TestBuildClipHullSeparatesTwoBrushes(t *testing.T) {
	reg := plane.NewRegistry()
	a := cubeBrush(reg, 32)
	b := cubeBrushAt(reg, 32, [3]float64{1000, 0, 0})
	tree := BuildOptions(reg, []*compile.Brush{a, b}, Hulls[1], false)
	if len(tree.Nodes) < len(a.Sides)+len(b.Sides) {
		t.Fatalf("expected at least %d clipnodes for two disjoint brushes, got %d", len(a.Sides)+len(b.Sides), len(tree.Nodes))
	}
}

func TestNarrowRejectsOversizedHull(t *testing.T) {
	tree := &Tree{}
	for i := 0; i < 40000; i++ {
		tree.Nodes = append(tree.Nodes, ClipNode{})
	}
	if _, err := tree.Narrow(); err == nil {
		t.Fatalf("expected an error for a hull exceeding MAX_MAP_CLIPNODES")
	}
}

func TestFindBrinksDetectsSharpEdge(t *testing.T) {
	reg := plane.NewRegistry()
	p1, _ := reg.Intern([3]float64{1, 0, 0}, 0)
	p2, _ := reg.Intern([3]float64{0.05, 0.999, 0}, 0)
	brinks := FindBrinks(reg, []int{p1, p2}, mgl64.Vec3{0, 0, 0})
	if len(brinks) != 1 {
		t.Fatalf("expected 1 brink for normals ~87 degrees apart, got %d", len(brinks))
	}
}
