// Package winding implements the convex polygonal winding algebra (C1)
// that every later stage is built on: brush faces, BSP portals, and
// radiosity patches are all windings.
package winding

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/plane"
)

// BogusRange bounds the coordinate magnitude any valid winding vertex may
// have. The original historically used 80000 or 32768 depending on build;
// per SPEC_FULL.md §5 this is exposed as a configurable constant defaulting
// to the post-change value of 131072.
var BogusRange = 131072.0

// OnEpsilon is the default tolerance used to classify a point as "on" a
// plane.
const OnEpsilon = 0.01

// Side classifies a point or winding relative to a clipping plane.
type Side int

const (
	Front Side = iota
	Back
	On
	Cross
)

// Winding is an ordered list of coplanar, convex polygon vertices, wound
// counter-clockwise with respect to its plane's normal.
type Winding struct {
	Points []mgl64.Vec3
}

// New wraps an existing point slice as a Winding (no copy).
func New(points []mgl64.Vec3) *Winding {
	return &Winding{Points: points}
}

// FromPlane builds a huge quad lying on p, large enough that any
// subsequent clip against a real brush face produces finite vertices
// (§4.2).
func FromPlane(p plane.Plane) *Winding {
	// Find the axis most nearly parallel to the normal so the generated
	// quad's edges align with the other two axes, exactly as the
	// reference implementation does to keep the huge quad numerically
	// well-behaved.
	var v mgl64.Vec3
	ax, ay, az := math.Abs(p.Normal.X()), math.Abs(p.Normal.Y()), math.Abs(p.Normal.Z())
	switch {
	case ax >= ay && ax >= az:
		v = mgl64.Vec3{0, 1, 0}
	case ay >= ax && ay >= az:
		v = mgl64.Vec3{0, 0, 1}
	default:
		v = mgl64.Vec3{1, 0, 0}
	}

	up := v.Sub(p.Normal.Mul(v.Dot(p.Normal)))
	up = up.Normalize().Mul(BogusRange)
	right := p.Normal.Cross(up.Normalize()).Mul(BogusRange)

	origin := p.Normal.Mul(p.Dist)

	p1 := origin.Sub(right).Add(up)
	p2 := origin.Add(right).Add(up)
	p3 := origin.Add(right).Sub(up)
	p4 := origin.Sub(right).Sub(up)

	return &Winding{Points: []mgl64.Vec3{p1, p2, p3, p4}}
}

// Size returns the number of vertices.
func (w *Winding) Size() int { return len(w.Points) }

// Valid reports whether w has at least 3 points.
func (w *Winding) Valid() bool { return len(w.Points) >= 3 }

// Copy returns a deep copy.
func (w *Winding) Copy() *Winding {
	pts := make([]mgl64.Vec3, len(w.Points))
	copy(pts, w.Points)
	return &Winding{Points: pts}
}

// Plane recomputes the supporting plane of w from its first three
// vertices. Windings with fewer than 3 points return the zero plane.
func (w *Winding) Plane() plane.Plane {
	if len(w.Points) < 3 {
		return plane.Plane{}
	}
	normal := w.Points[1].Sub(w.Points[0]).Cross(w.Points[2].Sub(w.Points[0]))
	normal = normal.Normalize()
	dist := w.Points[0].Dot(normal)
	return plane.New(normal, dist)
}

// Area returns the polygon area via a fan triangulation from Points[0].
func (w *Winding) Area() float64 {
	if len(w.Points) < 3 {
		return 0
	}
	total := 0.0
	for i := 2; i < len(w.Points); i++ {
		cross := w.Points[i-1].Sub(w.Points[0]).Cross(w.Points[i].Sub(w.Points[0]))
		total += 0.5 * cross.Len()
	}
	return total
}

// Bounds returns the axis-aligned bounding box (mins, maxs).
func (w *Winding) Bounds() (mins, maxs mgl64.Vec3) {
	if len(w.Points) == 0 {
		return
	}
	mins = w.Points[0]
	maxs = w.Points[0]
	for _, p := range w.Points[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < mins[i] {
				mins[i] = p[i]
			}
			if p[i] > maxs[i] {
				maxs[i] = p[i]
			}
		}
	}
	return
}

// Center returns the arithmetic mean of the vertices.
func (w *Winding) Center() mgl64.Vec3 {
	var c mgl64.Vec3
	for _, p := range w.Points {
		c = c.Add(p)
	}
	n := float64(len(w.Points))
	if n == 0 {
		return c
	}
	return c.Mul(1.0 / n)
}

// RemoveCollinear deletes any vertex whose triangle with its neighbors is
// thinner than epsilon, per §4.2.
func (w *Winding) RemoveCollinear(epsilon float64) {
	if len(w.Points) < 3 {
		return
	}
	out := w.Points[:0:0]
	n := len(w.Points)
	for i := 0; i < n; i++ {
		prev := w.Points[(i-1+n)%n]
		cur := w.Points[i]
		next := w.Points[(i+1)%n]
		e1 := cur.Sub(prev)
		e2 := next.Sub(cur)
		if e1.Len() < 1e-12 || e2.Len() < 1e-12 {
			continue
		}
		cross := e1.Normalize().Cross(e2.Normalize())
		if cross.Len() < epsilon {
			continue
		}
		out = append(out, cur)
	}
	if len(out) >= 3 {
		w.Points = out
	}
}

// SideOf classifies point p relative to plane pl.
func SideOf(p mgl64.Vec3, pl plane.Plane, epsilon float64) Side {
	d := p.Dot(pl.Normal) - pl.Dist
	switch {
	case d > epsilon:
		return Front
	case d < -epsilon:
		return Back
	default:
		return On
	}
}

// snapToPlane implements the numeric policy from §4.2: intersection
// points whose axis-aligned coordinate corresponding to the clip plane's
// dominant axis equals the plane's Dist within epsilon are snapped
// exactly onto the plane, preventing accumulated drift across many clips.
func snapToPlane(p mgl64.Vec3, pl plane.Plane, epsilon float64) mgl64.Vec3 {
	if !pl.Type.IsAxial() {
		return p
	}
	axis := 0
	switch pl.Type {
	case plane.X:
		axis = 0
	case plane.Y:
		axis = 1
	case plane.Z:
		axis = 2
	}
	if math.Abs(p[axis]-pl.Dist) < epsilon {
		p[axis] = pl.Dist
	}
	return p
}

// Clip partitions w exactly by pl. Points within epsilon of the plane
// are kept on both returned sides; this matches the "ties at epsilon go
// to both sides" rule in §4.2. Either return is nil if that side ends up
// empty.
func (w *Winding) Clip(pl plane.Plane, epsilon float64) (front, back *Winding) {
	n := len(w.Points)
	if n == 0 {
		return nil, nil
	}

	dists := make([]float64, n)
	sides := make([]Side, n)

	counts := [3]int{}
	for i, p := range w.Points {
		d := p.Dot(pl.Normal) - pl.Dist
		dists[i] = d
		switch {
		case d > epsilon:
			sides[i] = Front
		case d < -epsilon:
			sides[i] = Back
		default:
			sides[i] = On
		}
		counts[sides[i]]++
	}

	if counts[Front] == 0 {
		if counts[Back] == 0 {
			// Entirely on the plane: an edge-on winding belongs to both.
			return w.Copy(), w.Copy()
		}
		return nil, w.Copy()
	}
	if counts[Back] == 0 {
		return w.Copy(), nil
	}

	var frontPts, backPts []mgl64.Vec3
	for i := 0; i < n; i++ {
		p1 := w.Points[i]
		s1 := sides[i]

		if s1 == On {
			frontPts = append(frontPts, p1)
			backPts = append(backPts, p1)
			continue
		}
		if s1 == Front {
			frontPts = append(frontPts, p1)
		} else {
			backPts = append(backPts, p1)
		}

		j := (i + 1) % n
		s2 := sides[j]
		if s2 == On || s2 == s1 {
			continue
		}

		// Edge crosses the plane: compute and snap the intersection.
		p2 := w.Points[j]
		d1 := dists[i]
		d2 := dists[j]
		t := d1 / (d1 - d2)
		mid := p1.Add(p2.Sub(p1).Mul(t))
		mid = snapToPlane(mid, pl, epsilon)

		frontPts = append(frontPts, mid)
		backPts = append(backPts, mid)
	}

	if len(frontPts) < 3 {
		frontPts = nil
	}
	if len(backPts) < 3 {
		backPts = nil
	}
	if frontPts != nil {
		front = &Winding{Points: frontPts}
	}
	if backPts != nil {
		back = &Winding{Points: backPts}
	}
	return front, back
}

// ChopInPlace retains only the front side of pl, mutating w, and reports
// whether any winding survives.
func (w *Winding) ChopInPlace(pl plane.Plane, epsilon float64) bool {
	front, _ := w.Clip(pl, epsilon)
	if front == nil {
		w.Points = nil
		return false
	}
	w.Points = front.Points
	return true
}

// Validate panics (an internal-invariant abort per §7) if w is not a
// well-formed convex, coplanar, in-range polygon.
func (w *Winding) Validate(epsilon float64) {
	if len(w.Points) < 3 {
		panic(fmt.Sprintf("winding: invalid point count %d", len(w.Points)))
	}
	for _, p := range w.Points {
		for i := 0; i < 3; i++ {
			if p[i] > BogusRange || p[i] < -BogusRange {
				panic(fmt.Sprintf("winding: point %v exceeds bogus_range %v", p, BogusRange))
			}
		}
	}
	pl := w.Plane()
	for _, p := range w.Points {
		d := p.Dot(pl.Normal) - pl.Dist
		if math.Abs(d) > epsilon {
			panic(fmt.Sprintf("winding: point %v is %v off its plane", p, d))
		}
	}
	n := len(w.Points)
	for i := 0; i < n; i++ {
		p1 := w.Points[i]
		p2 := w.Points[(i+1)%n]
		p3 := w.Points[(i+2)%n]
		edge1 := p2.Sub(p1)
		edge2 := p3.Sub(p2)
		cross := edge1.Cross(edge2)
		if cross.Dot(pl.Normal) < -epsilon {
			panic("winding: non-convex polygon")
		}
	}
}
