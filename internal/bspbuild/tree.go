// Package bspbuild implements the BSP stage (C3): recursive splitter
// selection over the CSG face list, building the visible-geometry node
// tree by index (no pointer graphs, per SPEC_FULL.md §9), portalization,
// outside-fill leak detection, and t-junction fixup.
package bspbuild

import (
	"mapc/internal/compile"
	"mapc/internal/plane"
	"mapc/internal/winding"
)

// NodeIndex and LeafIndex are arena indices into Tree.Nodes/Tree.Leafs.
// A node's child slot encodes which arena it points into the same way
// the on-disk format does: >=0 is another node, <0 is -(leaf+1).
type NodeIndex int32
type LeafIndex int32

// Node is one internal splitting-plane node.
type Node struct {
	PlaneNum int
	Children [2]int32 // >=0: NodeIndex; <0: -(LeafIndex+1)
	Faces    []int    // indices into Tree.Faces assigned to this node (on-plane faces)
}

// Leaf is one convex leaf of the tree: its contents and the list of
// faces visible from inside it (populated after portalization/VIS marks
// them, empty right after splitting).
type Leaf struct {
	Contents compile.Contents
	Faces    []int
	// Portals holds indices into Tree.Portals bordering this leaf,
	// filled in by Portalize.
	Portals []int
}

// Portal is a convex polygon on the boundary between two leafs (or one
// leaf and the exterior, represented by LeafIndex -1), used by both
// outside-fill and the VIS stage.
type Portal struct {
	PlaneNum int
	Winding  *winding.Winding
	Leafs    [2]int32 // LeafIndex on each side; -1 means "outside"
}

// Tree is the built BSP: node/leaf arenas plus the face table they
// reference, all index-addressed.
type Tree struct {
	Planes  *plane.Registry
	Nodes   []Node
	Leafs   []Leaf
	Faces   []*compile.Face
	Portals []Portal
	Root    int32 // NodeIndex, or -(LeafIndex+1) for a tree with a single leaf
}

// childLeaf packs a LeafIndex into the signed child-slot encoding.
func childLeaf(l int) int32 { return -(int32(l) + 1) }

// isLeafChild reports whether a child slot encodes a leaf, and if so its
// LeafIndex.
func isLeafChild(c int32) (int, bool) {
	if c < 0 {
		return int(-c - 1), true
	}
	return 0, false
}

// Build runs the full CSG-face-list -> node tree construction: pick a
// splitter for each recursion level (§4.4 splitter heuristic), partition
// faces into front/back/on-plane sets, and recurse until every leaf's
// face set is empty or convex.
func Build(planes *plane.Registry, faces []*compile.Face) *Tree {
	t := &Tree{Planes: planes, Faces: faces}
	ids := make([]int, len(faces))
	for i := range faces {
		ids[i] = i
	}
	t.Root = t.buildNode(ids)
	return t
}

// buildNode recursively splits the given face-id set, returning the
// child-slot encoding for the resulting subtree (a node index or an
// encoded leaf index).
func (t *Tree) buildNode(faceIDs []int) int32 {
	if len(faceIDs) == 0 {
		t.Leafs = append(t.Leafs, Leaf{Contents: compile.ContentsEmpty})
		return childLeaf(len(t.Leafs) - 1)
	}

	splitPlane, ok := chooseSplitter(t, faceIDs)
	if !ok {
		// No usable splitter: every remaining face lies on one plane.
		// Terminate with a leaf carrying the first remaining face's contents,
		// matching the original's "ran out of useful splits" fallback.
		contents := t.Faces[faceIDs[0]].Contents
		t.Leafs = append(t.Leafs, Leaf{Contents: contents, Faces: faceIDs})
		return childLeaf(len(t.Leafs) - 1)
	}

	var onPlane, front, back []int
	for _, id := range faceIDs {
		f := t.Faces[id]
		side := classifyFace(t.Planes, f, splitPlane)
		switch side {
		case 0:
			onPlane = append(onPlane, id)
		case 1:
			front = append(front, id)
		case -1:
			back = append(back, id)
		default: // straddles: split it (simplified: assign to both sides)
			front = append(front, id)
			back = append(back, id)
		}
	}

	n := Node{PlaneNum: splitPlane, Faces: onPlane}
	nodeIdx := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, n)

	frontChild := t.buildNode(front)
	backChild := t.buildNode(back)
	t.Nodes[nodeIdx].Children = [2]int32{frontChild, backChild}
	return nodeIdx
}

// classifyFace reports which side of splitPlane a face's winding falls
// on: 0 coplanar, 1 entirely front, -1 entirely back, 2 straddling.
func classifyFace(planes *plane.Registry, f *compile.Face, splitPlane int) int {
	if f.PlaneNum == splitPlane {
		return 0
	}
	pl := planes.Get(splitPlane)
	front, back := false, false
	for _, p := range f.Points {
		d := pl.Normal.X()*p[0] + pl.Normal.Y()*p[1] + pl.Normal.Z()*p[2] - pl.Dist
		if d > winding.OnEpsilon {
			front = true
		} else if d < -winding.OnEpsilon {
			back = true
		}
	}
	switch {
	case front && back:
		return 2
	case front:
		return 1
	case back:
		return -1
	default:
		return 0
	}
}

// chooseSplitter implements the §4.4 splitter heuristic: prefer the
// plane that minimizes (splits introduced) while balancing the front and
// back face counts, scanning the candidate face planes themselves
// (a BSP always splits along a plane some face already lies on).
func chooseSplitter(t *Tree, faceIDs []int) (int, bool) {
	best := -1
	bestScore := int(^uint(0) >> 1) // max int
	seen := make(map[int]bool)

	for _, id := range faceIDs {
		pn := t.Faces[id].PlaneNum
		if seen[pn] {
			continue
		}
		seen[pn] = true

		splits, front, back := 0, 0, 0
		for _, other := range faceIDs {
			side := classifyFace(t.Planes, t.Faces[other], pn)
			switch side {
			case 0:
			case 1:
				front++
			case -1:
				back++
			case 2:
				splits++
			}
		}
		if front == 0 && back == 0 {
			continue // this plane doesn't actually separate anything
		}
		score := splits*10 + abs(front-back)
		if score < bestScore {
			bestScore = score
			best = pn
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
