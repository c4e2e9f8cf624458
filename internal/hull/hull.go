// Package hull builds the clipping-hull tree (C4): one clipnode tree per
// expansion hull (point, and two bounding-box sizes used for player and
// large-monster collision), each brush's planes pushed outward by the
// hull's half-extents, plus brink repair for the the wedge-circle
// transition where two non-axial clip planes meet at a sharp edge.
package hull

import (
	"mapc/internal/bspfile"
	"mapc/internal/compile"
	"mapc/internal/plane"
	"mapc/internal/winding"
)

// Expansion is one clipping hull's bounding-box half extents: brush
// planes are pushed outward by these amounts along each plane's normal
// before the clipnode tree is built, so a point-trace against the
// expanded hull is equivalent to a box-trace against the original
// geometry.
type Expansion struct {
	Mins, Maxs [3]float64
}

// Hulls are the three expansion sizes a clipnode tree is built for. The
// first is a zero-size (point) expansion, so only two of them are
// bounding boxes. The render hull is the BSP node tree itself, not a
// clipnode tree.
var Hulls = [3]Expansion{
	{Mins: [3]float64{0, 0, 0}, Maxs: [3]float64{0, 0, 0}},         // point: no expansion
	{Mins: [3]float64{-16, -16, -36}, Maxs: [3]float64{16, 16, 36}}, // human-sized
	{Mins: [3]float64{-32, -32, -32}, Maxs: [3]float64{32, 32, 32}}, // large monster
}

// ClipNode mirrors bspfile.ClipNode but keeps 32-bit children during
// construction (narrowed to int16 only at save time, after the whole
// tree is known to fit).
type ClipNode struct {
	PlaneNum int
	Children [2]int32
}

// Tree is one hull's clipnode arena plus the contents leafs it bottoms
// out at (encoded the same negative-child way as bspbuild.Tree).
type Tree struct {
	Nodes []ClipNode
	Root  int32
}

// clipConstraint is one half-space a fragment's remaining volume must
// satisfy: keepFront false means "behind planeNum" (the ordinary brush
// interior sense), true means "in front of planeNum" (the side kept
// after a straddling split).
type clipConstraint struct {
	planeNum  int
	keepFront bool
}

// fragment is a convex sub-volume still being bounded during
// construction: the brush it came from (for its contents) and the
// constraints accumulated so far. A brush starts life as one fragment
// whose constraints are exactly its own sides; every node in the tree
// either consumes one of a fragment's own constraints (descending
// toward that brush's interior) or adds a new one (the result of
// clipping a foreign fragment against the chosen splitter).
type fragment struct {
	contents    compile.Contents
	constraints []clipConstraint
}

// Build constructs the clipnode tree for one expansion hull from a
// brush list, with brink repair enabled.
func Build(planes *plane.Registry, brushes []*compile.Brush, exp Expansion) *Tree {
	return BuildOptions(planes, brushes, exp, true)
}

// BuildOptions is Build with brink repair under caller control (the
// -nobrink flag).
func BuildOptions(planes *plane.Registry, brushes []*compile.Brush, exp Expansion, brinksEnabled bool) *Tree {
	t := &Tree{}
	frags := make([]fragment, 0, len(brushes))
	for _, b := range brushes {
		f := fragmentFromBrush(b)
		if brinksEnabled {
			f.constraints = append(f.constraints, brinkConstraintsForBrush(planes, f, exp)...)
		}
		frags = append(frags, f)
	}
	t.Root = t.buildNode(planes, frags, exp)
	return t
}

func fragmentFromBrush(b *compile.Brush) fragment {
	cs := make([]clipConstraint, len(b.Sides))
	for i, s := range b.Sides {
		cs[i] = clipConstraint{planeNum: s.PlaneNum, keepFront: false}
	}
	return fragment{contents: b.Contents, constraints: cs}
}

// buildNode recursively partitions frags, emitting one ClipNode per
// consumed or synthesized splitting plane. A fragment bottoms out to a
// contents leaf the moment its constraint list is exhausted: every one
// of its own bounding planes has been crossed on the "inside" path, so
// the point is inside that brush regardless of any other fragment still
// in play.
func (t *Tree) buildNode(planes *plane.Registry, frags []fragment, exp Expansion) int32 {
	if len(frags) == 0 {
		return encodeContents(bspfile.ContentsEmpty)
	}
	for _, f := range frags {
		if len(f.constraints) == 0 {
			return encodeContents(contentsToBSP(f.contents))
		}
	}

	splitter := frags[0].constraints[0]
	spPlane := expandedPlaneRaw(planes, splitter.planeNum, exp)

	var front, back []fragment
	for i, f := range frags {
		if i == 0 {
			reduced := fragment{contents: f.contents, constraints: append([]clipConstraint{}, f.constraints[1:]...)}
			if splitter.keepFront {
				front = append(front, reduced)
			} else {
				back = append(back, reduced)
			}
			continue
		}

		anyFront, anyBack := classifyFragment(planes, f, spPlane, exp)
		switch {
		case anyFront && anyBack:
			front = append(front, withConstraint(f, clipConstraint{splitter.planeNum, true}))
			back = append(back, withConstraint(f, clipConstraint{splitter.planeNum, false}))
		case anyFront:
			front = append(front, f)
		case anyBack:
			back = append(back, f)
		default:
			// Degenerate classification (no surviving geometry, or
			// every sample point landed on the plane): keep the
			// fragment on both sides rather than silently dropping it.
			front = append(front, f)
			back = append(back, f)
		}
	}

	n := ClipNode{PlaneNum: splitter.planeNum}
	idx := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, n)
	frontChild := t.buildNode(planes, front, exp)
	backChild := t.buildNode(planes, back, exp)
	t.Nodes[idx].Children = [2]int32{frontChild, backChild}
	return idx
}

func withConstraint(f fragment, c clipConstraint) fragment {
	cs := make([]clipConstraint, len(f.constraints)+1)
	copy(cs, f.constraints)
	cs[len(f.constraints)] = c
	return fragment{contents: f.contents, constraints: cs}
}

// defPlane returns the hull-expanded plane a constraint is stated
// against, oriented so that satisfying the constraint means lying in
// front of the returned plane (matching winding.ChopInPlace's "keep
// front" convention).
func defPlane(planes *plane.Registry, c clipConstraint, exp Expansion) plane.Plane {
	pl := expandedPlaneRaw(planes, c.planeNum, exp)
	if !c.keepFront {
		pl.Normal = pl.Normal.Mul(-1)
		pl.Dist = -pl.Dist
	}
	return pl
}

// expandedPlaneRaw pushes the plane's distance outward by exp's half
// extents along its own normal and returns a full plane.Plane ready for
// winding construction.
func expandedPlaneRaw(planes *plane.Registry, planeNum int, exp Expansion) plane.Plane {
	pl := planes.Get(planeNum)
	offset := 0.0
	for i := 0; i < 3; i++ {
		n := pl.Normal[i]
		if n > 0 {
			offset += n * exp.Maxs[i]
		} else {
			offset += n * exp.Mins[i]
		}
	}
	pl.Dist += offset
	return pl
}

// fragmentWindings builds the convex polygon for each of frag's
// constraints by clip-chaining it against every other constraint, the
// same per-side construction csg.BuildBrushSides uses for visible brush
// faces, just applied to the hull's (possibly synthetic) constraint set
// instead of a brush's raw sides.
func fragmentWindings(planes *plane.Registry, frag fragment, exp Expansion) []*winding.Winding {
	var out []*winding.Winding
	for i, ci := range frag.constraints {
		w := winding.FromPlane(defPlane(planes, ci, exp))
		ok := true
		for j, cj := range frag.constraints {
			if i == j {
				continue
			}
			if !w.ChopInPlace(defPlane(planes, cj, exp), winding.OnEpsilon) {
				ok = false
				break
			}
		}
		if ok && w.Valid() {
			out = append(out, w)
		}
	}
	return out
}

// classifyFragment reports whether any point of frag's geometry lies in
// front of / behind spPlane, deciding whether the fragment belongs
// entirely on one side of a foreign splitter or must be split.
func classifyFragment(planes *plane.Registry, frag fragment, spPlane plane.Plane, exp Expansion) (anyFront, anyBack bool) {
	for _, w := range fragmentWindings(planes, frag, exp) {
		for _, v := range w.Points {
			switch winding.SideOf(v, spPlane, winding.OnEpsilon) {
			case winding.Front:
				anyFront = true
			case winding.Back:
				anyBack = true
			}
		}
	}
	return
}

// contentsToBSP maps the compiler's internal Contents enum to the
// on-disk negative CONTENTS_* encoding, the forward direction of
// cmd/vis's contentsFromBSP.
func contentsToBSP(c compile.Contents) bspfile.Contents {
	switch c {
	case compile.ContentsEmpty:
		return bspfile.ContentsEmpty
	case compile.ContentsWater:
		return bspfile.ContentsWater
	case compile.ContentsSky:
		return bspfile.ContentsSky
	case compile.ContentsClip:
		return bspfile.ContentsClip
	case compile.ContentsOrigin:
		return bspfile.ContentsOrigin
	case compile.ContentsTranslucent:
		return bspfile.ContentsTranslucent
	case compile.ContentsCurrent:
		return bspfile.ContentsCurrent0
	default:
		return bspfile.ContentsSolid
	}
}

// encodeContents encodes bspfile content values using the same
// negative-offset convention as node children: -1 means EMPTY, -2 SOLID,
// etc, matching bspfile's ContentsEmpty==-1 numbering directly (no
// further offset needed since these already are negative).
func encodeContents(c bspfile.Contents) int32 {
	return int32(c)
}

// Narrow converts the built int32-child tree to the on-disk int16-child
// representation, returning an error if the hull exceeds
// bspfile.MaxMapClipNodes.
func (t *Tree) Narrow() ([]bspfile.ClipNode, error) {
	if len(t.Nodes) > bspfile.MaxMapClipNodes {
		return nil, compile.InternalError("clip hull has %d nodes, exceeds MAX_MAP_CLIPNODES %d", len(t.Nodes), bspfile.MaxMapClipNodes)
	}
	out := make([]bspfile.ClipNode, len(t.Nodes))
	for i, n := range t.Nodes {
		out[i] = bspfile.ClipNode{
			PlaneNum: int32(n.PlaneNum),
			Children: [2]int16{int16(n.Children[0]), int16(n.Children[1])},
		}
	}
	return out, nil
}
