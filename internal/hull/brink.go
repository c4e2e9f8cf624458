package hull

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/plane"
	"mapc/internal/winding"
)

// minBrinkGap is the wedge-circle gap below which an edge is considered
// shallow enough that a bevel plane would add nothing: wedgeCircleGap
// near zero means the two faces are already nearly coplanar from the
// trace's point of view.
const minBrinkGap = 1e-4

// brinkAngleThreshold is the dot product below which two adjacent clip
// planes are considered to meet at a "brink": a convex edge sharp enough
// that a box trace sliding along one face can snag on the unexpanded
// edge between them rather than sliding smoothly, the wedge-circle
// transition problem brink repair exists to fix.
const brinkAngleThreshold = 0.1 // cos(~84 degrees)

// Brink describes one repaired edge: the two original planes and the
// synthesized bevel plane inserted between them.
type Brink struct {
	PlaneA, PlaneB int
	BevelNormal    mgl64.Vec3
	BevelDist      float64
}

// FindBrinks scans every pair of planes used by a brush's sides and
// reports the ones whose dihedral angle is sharp enough to need a bevel
// plane, per §4.5's wedge-circle transition analysis: the synthesized
// bevel plane is the angular bisector of the two face normals, offset to
// pass through their shared edge.
func FindBrinks(planes *plane.Registry, planeNums []int, edgePoint mgl64.Vec3) []Brink {
	var brinks []Brink
	for i := 0; i < len(planeNums); i++ {
		for j := i + 1; j < len(planeNums); j++ {
			pa := planes.Get(planeNums[i])
			pb := planes.Get(planeNums[j])
			cos := pa.Normal.Dot(pb.Normal)
			if cos > brinkAngleThreshold {
				continue // faces nearly parallel or obtuse: no snag risk
			}
			bisector := pa.Normal.Add(pb.Normal)
			if bisector.Len() < 1e-9 {
				// Exactly opposing normals: no well-defined bisector: skip,
				// since these brushes would already have been rejected as
				// degenerate far earlier in CSG.
				continue
			}
			bisector = bisector.Normalize()
			dist := bisector.Dot(edgePoint)
			brinks = append(brinks, Brink{
				PlaneA:      planeNums[i],
				PlaneB:      planeNums[j],
				BevelNormal: bisector,
				BevelDist:   dist,
			})
		}
	}
	return brinks
}

// ApplyBrinks interns each repaired edge's bevel plane into the registry
// and returns the resulting plane numbers, ready to be added as extra
// clip-hull-only brush sides (never emitted as visible faces).
func ApplyBrinks(planes *plane.Registry, brinks []Brink) ([]int, error) {
	out := make([]int, 0, len(brinks))
	for _, b := range brinks {
		idx, err := planes.Intern([3]float64{b.BevelNormal.X(), b.BevelNormal.Y(), b.BevelNormal.Z()}, b.BevelDist)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}

// wedgeCircleGap computes the angular gap (radians) the original's
// wedge-circle analysis measures: how far a box trace's corner can
// rotate around the shared edge before crossing from one face's
// clipping plane to the other's, used to decide whether a brink's bevel
// is strictly necessary or the edge is already shallow enough to ignore.
func wedgeCircleGap(normalA, normalB mgl64.Vec3) float64 {
	cos := normalA.Dot(normalB)
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// brinkConstraintsForBrush finds every sharp edge between this brush's
// own (hull-expanded) sides and returns the extra clip-only constraints
// that repair them, per §4.5 steps 1-3: for each candidate pair flagged
// by FindBrinks, the edge point is taken from the brush's own geometry
// (the shared boundary between the two sides' windings), not guessed,
// so the synthesized bevel plane passes through the real edge instead
// of slicing through the brush's interior.
func brinkConstraintsForBrush(planes *plane.Registry, frag fragment, exp Expansion) []clipConstraint {
	sideWindings := make(map[int]*winding.Winding, len(frag.constraints))
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
			sideWindings[ci.planeNum] = w
		}
	}

	var extra []clipConstraint
	for i := 0; i < len(frag.constraints); i++ {
		for j := i + 1; j < len(frag.constraints); j++ {
			pa := frag.constraints[i].planeNum
			pb := frag.constraints[j].planeNum

			gap := wedgeCircleGap(planes.Get(pa).Normal, planes.Get(pb).Normal)
			if gap < minBrinkGap {
				continue
			}

			edge, ok := sharedEdgeMidpoint(planes, sideWindings[pa], pb, exp)
			if !ok {
				edge, ok = sharedEdgeMidpoint(planes, sideWindings[pb], pa, exp)
			}
			if !ok {
				continue // these two sides don't actually share an edge on this brush
			}

			brinks := FindBrinks(planes, []int{pa, pb}, edge)
			idxs, err := ApplyBrinks(planes, brinks)
			if err != nil {
				continue
			}
			for _, idx := range idxs {
				extra = append(extra, clipConstraint{planeNum: idx, keepFront: false})
			}
		}
	}
	return extra
}

// sharedEdgeMidpoint scans w's vertices for the two (there should be
// exactly one edge's worth) that also lie on plane pb within epsilon,
// and returns their midpoint: the point where sides a and b actually
// meet on this brush.
func sharedEdgeMidpoint(planes *plane.Registry, w *winding.Winding, pb int, exp Expansion) (mgl64.Vec3, bool) {
	if w == nil {
		return mgl64.Vec3{}, false
	}
	pl := expandedPlaneRaw(planes, pb, exp)
	var onPlane []mgl64.Vec3
	for _, v := range w.Points {
		if winding.SideOf(v, pl, winding.OnEpsilon) == winding.On {
			onPlane = append(onPlane, v)
		}
	}
	if len(onPlane) < 2 {
		return mgl64.Vec3{}, false
	}
	mid := onPlane[0].Add(onPlane[1]).Mul(0.5)
	return mid, true
}
