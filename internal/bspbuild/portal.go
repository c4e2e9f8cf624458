package bspbuild

import (
	"mapc/internal/winding"
)

// Portalize walks the node tree and emits convex portal windings
// between adjacent leafs, per §4.4 step 2: each node's plane gets a huge
// winding clipped down through every ancestor plane. A portal is
// recorded only at a node whose two children are both leafs, and no
// portals are recorded against the exterior.
func (t *Tree) Portalize() {
	t.Portals = nil
	for i := range t.Leafs {
		t.Leafs[i].Portals = nil
	}
	t.portalizeNode(t.Root, nil)
}

// ancestorClip is one plane (by number, with orientation flipped or not)
// a portal winding must be clipped against on the way down from the
// root.
type ancestorClip struct {
	planeNum int
	front    bool
}

func (t *Tree) portalizeNode(child int32, clips []ancestorClip) {
	_, isLeaf := isLeafChild(child)
	if isLeaf {
		return
	}
	node := t.Nodes[child]
	pl := t.Planes.Get(node.PlaneNum)

	w := winding.FromPlane(pl)
	for _, c := range clips {
		cp := t.Planes.Get(c.planeNum)
		if !c.front {
			cp.Normal = cp.Normal.Mul(-1)
			cp.Dist = -cp.Dist
		}
		if !w.ChopInPlace(cp, winding.OnEpsilon) {
			break
		}
	}

	if w.Valid() {
		frontLeaf, frontIsLeaf := isLeafChild(node.Children[0])
		backLeaf, backIsLeaf := isLeafChild(node.Children[1])

		// Only record a portal when BOTH sides bottom out directly in a
		// leaf. This winding is not carried into the child subtrees, so
		// a node with a child that is another node gets no portal on its
		// own plane.
		if frontIsLeaf && backIsLeaf {
			t.addPortal(node.PlaneNum, w, int32(frontLeaf), int32(backLeaf))
		}
	}

	t.portalizeNode(node.Children[0], append(append([]ancestorClip{}, clips...), ancestorClip{node.PlaneNum, true}))
	t.portalizeNode(node.Children[1], append(append([]ancestorClip{}, clips...), ancestorClip{node.PlaneNum, false}))
}

func (t *Tree) addPortal(planeNum int, w *winding.Winding, leafA, leafB int32) {
	idx := len(t.Portals)
	t.Portals = append(t.Portals, Portal{PlaneNum: planeNum, Winding: w, Leafs: [2]int32{leafA, leafB}})
	if leafA >= 0 {
		t.Leafs[leafA].Portals = append(t.Leafs[leafA].Portals, idx)
	}
	if leafB >= 0 {
		t.Leafs[leafB].Portals = append(t.Leafs[leafB].Portals, idx)
	}
}
