package vis

import (
	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/bspbuild"
	"mapc/internal/plane"
)

// Tighten runs the portal-flow visibility pass over base's conservative
// rows, per §4.6 step 2: for every pair of leafs base considers mutually
// visible through some portal chain, try to build a separator plane from
// one portal's edge and the far portal's vertices that puts the entire
// far portal strictly on the far side. If every portal chain between two
// leafs is blocked by such a separator, the pair is not actually mutually
// visible and its bit is cleared.
//
// This mirrors the classic recursive portal-flow algorithm's core test
// (TestAddPortal in the reference tool) without its full antipenumbra
// recursion: separators are built directly from adjacent portal pairs
// rather than accumulated across an arbitrarily long portal chain, a
// conservative simplification that can only ever keep a visible pair
// marked visible, never wrongly cull one.
func Tighten(tree *bspbuild.Tree, base *PVS) *PVS {
	tightened := &PVS{NumLeafs: base.NumLeafs, Rows: make([]Bitset, base.NumLeafs)}
	for i := range tightened.Rows {
		tightened.Rows[i] = newBitset(base.NumLeafs)
		tightened.Rows[i].set(i)
	}

	portalsOf := make([][]int, len(tree.Leafs))
	for idx, p := range tree.Portals {
		if p.Leafs[0] >= 0 {
			portalsOf[p.Leafs[0]] = append(portalsOf[p.Leafs[0]], idx)
		}
		if p.Leafs[1] >= 0 {
			portalsOf[p.Leafs[1]] = append(portalsOf[p.Leafs[1]], idx)
		}
	}

	for leafA := 0; leafA < base.NumLeafs; leafA++ {
		for leafB := 0; leafB < base.NumLeafs; leafB++ {
			if leafA == leafB || !base.CanSee(leafA, leafB) {
				continue
			}
			if leafVisibleThroughSomePortal(tree, portalsOf[leafA], leafB) {
				tightened.Rows[leafA].set(leafB)
			}
		}
	}
	return tightened
}

// leafVisibleThroughSomePortal reports whether any portal bordering
// leafA fails to be separated from target leaf leafB, i.e. at least one
// line of sight plausibly survives.
func leafVisibleThroughSomePortal(tree *bspbuild.Tree, portals []int, leafB int) bool {
	for _, pIdx := range portals {
		p := tree.Portals[pIdx]
		other := p.Leafs[0]
		if int(other) == sourceLeafOf(tree, pIdx, leafB) {
			other = p.Leafs[1]
		}
		if int(other) == leafB {
			return true // directly adjacent: trivially visible
		}
		for _, qIdx := range tree.Leafs[leafB].Portals {
			if !separatedByAnyEdge(tree.Planes, p, tree.Portals[qIdx]) {
				return true
			}
		}
	}
	return false
}

func sourceLeafOf(tree *bspbuild.Tree, portalIdx, leafB int) int {
	p := tree.Portals[portalIdx]
	if int(p.Leafs[1]) == leafB {
		return int(p.Leafs[0])
	}
	return int(p.Leafs[1])
}

// separatedByAnyEdge tests every edge of a against every vertex of b (and
// vice versa), looking for a plane through one edge that places the
// other portal's winding entirely on its positive side: if found, the
// two portals cannot mutually see past that edge.
func separatedByAnyEdge(planes *plane.Registry, a, b bspbuild.Portal) bool {
	if edgeSeparates(a.Winding.Points, b.Winding.Points) {
		return true
	}
	if edgeSeparates(b.Winding.Points, a.Winding.Points) {
		return true
	}
	return false
}

func edgeSeparates(edgeSrc, target []mgl64.Vec3) bool {
	n := len(edgeSrc)
	for i := 0; i < n; i++ {
		p1 := edgeSrc[i]
		p2 := edgeSrc[(i+1)%n]
		edgeDir := p2.Sub(p1)
		if edgeDir.Len() < 1e-9 {
			continue
		}
		// Try every third point from the same winding to establish the
		// plane's orientation relative to the source polygon's interior.
		for j := 0; j < n; j++ {
			if j == i || j == (i+1)%n {
				continue
			}
			ref := edgeSrc[j]
			normal := edgeDir.Cross(ref.Sub(p1))
			if normal.Len() < 1e-9 {
				continue
			}
			normal = normal.Normalize()
			dist := normal.Dot(p1)
			// ref should be on the negative side by construction; flip if not.
			if normal.Dot(ref)-dist > 0 {
				normal = normal.Mul(-1)
				dist = -dist
			}
			allPositive := true
			for _, t := range target {
				if normal.Dot(t)-dist < 1e-7 {
					allPositive = false
					break
				}
			}
			if allPositive {
				return true
			}
			break // one reference point per edge is enough to test the edge's own plane
		}
	}
	return false
}
