package vis

import (
	"testing"

	"mapc/internal/bspbuild"
)

func TestBaseVisIsReflexive(t *testing.T) {
	tree := &bspbuild.Tree{
		Leafs: []bspbuild.Leaf{{}, {}, {}},
	}
	pvs := BaseVis(tree)
	for i := 0; i < 3; i++ {
		if !pvs.CanSee(i, i) {
			t.Errorf("leaf %d should always see itself", i)
		}
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	row := newBitset(40)
	row.set(0)
	row.set(33)
	row.set(39)

	packed := CompressRow(row)
	got := DecompressRow(packed, len(row))
	for i := 0; i < len(row); i++ {
		if got[i] != row[i] {
			t.Fatalf("byte %d mismatch: got %x want %x", i, got[i], row[i])
		}
	}
}

func TestPVSSymmetryAfterTighten(t *testing.T) {
	// Two leafs joined by a single portal should see each other
	// symmetrically after tightening, matching the expected symmetry
	// property of a correct PVS.
	tree := &bspbuild.Tree{
		Leafs: []bspbuild.Leaf{
			{Portals: []int{0}},
			{Portals: []int{0}},
		},
		Portals: []bspbuild.Portal{
			{Leafs: [2]int32{0, 1}},
		},
	}
	base := BaseVis(tree)
	if !base.CanSee(0, 1) || !base.CanSee(1, 0) {
		t.Fatalf("expected base vis symmetry between adjacent leafs")
	}
	tightened := Tighten(tree, base)
	if !tightened.CanSee(0, 1) || !tightened.CanSee(1, 0) {
		t.Fatalf("expected tightened vis symmetry between adjacent leafs")
	}
}
