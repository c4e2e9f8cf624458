package bspbuild

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/compile"
)

// tjunctionEpsilon is how close a vertex must lie to a neighboring
// face's edge (but not its endpoints) before it's inserted as a new
// vertex on that edge, closing the crack a naive renderer would show at
// a T-junction.
const tjunctionEpsilon = 0.01

// FixTJunctions scans every pair of faces sharing a plane-adjacent edge
// and inserts a vertex into any edge that some other face's vertex lies
// on but the edge itself doesn't already pass through, per §4.4 step 4.
// It mutates each face's Points in place.
func FixTJunctions(faces []*compile.Face) {
	allPoints := collectVertices(faces)

	for _, f := range faces {
		f.Points = insertOnEdgeVertices(f.Points, allPoints)
	}
}

func collectVertices(faces []*compile.Face) []mgl64.Vec3 {
	var pts []mgl64.Vec3
	for _, f := range faces {
		for _, p := range f.Points {
			pts = append(pts, mgl64.Vec3{p[0], p[1], p[2]})
		}
	}
	return pts
}

// insertOnEdgeVertices walks each edge of the polygon described by pts
// and, for every candidate vertex that lies strictly between the edge's
// endpoints within epsilon, splices it in.
func insertOnEdgeVertices(pts [][3]float64, candidates []mgl64.Vec3) [][3]float64 {
	if len(pts) < 2 {
		return pts
	}
	out := make([][3]float64, 0, len(pts))
	n := len(pts)
	for i := 0; i < n; i++ {
		a := mgl64.Vec3{pts[i][0], pts[i][1], pts[i][2]}
		b := mgl64.Vec3{pts[(i+1)%n][0], pts[(i+1)%n][1], pts[(i+1)%n][2]}
		out = append(out, pts[i])

		edge := b.Sub(a)
		length := edge.Len()
		if length < 1e-9 {
			continue
		}
		dir := edge.Mul(1.0 / length)

		type hit struct {
			t float64
			p mgl64.Vec3
		}
		var hits []hit
		for _, c := range candidates {
			toC := c.Sub(a)
			t := toC.Dot(dir)
			if t <= tjunctionEpsilon || t >= length-tjunctionEpsilon {
				continue // at or beyond an endpoint, not a true T-junction
			}
			proj := a.Add(dir.Mul(t))
			if proj.Sub(c).Len() > tjunctionEpsilon {
				continue // not actually on this edge
			}
			hits = append(hits, hit{t: t, p: c})
		}
		if len(hits) == 0 {
			continue
		}
		// Sort by distance along the edge and append in order so
		// multiple insertions on one edge come out well-formed.
		for i := 1; i < len(hits); i++ {
			for j := i; j > 0 && hits[j].t < hits[j-1].t; j-- {
				hits[j], hits[j-1] = hits[j-1], hits[j]
			}
		}
		for _, h := range hits {
			out = append(out, [3]float64{h.p.X(), h.p.Y(), h.p.Z()})
		}
	}
	return dedupe(out)
}

func dedupe(pts [][3]float64) [][3]float64 {
	out := pts[:0:0]
	for i, p := range pts {
		if i > 0 {
			last := out[len(out)-1]
			if math.Abs(p[0]-last[0]) < 1e-9 && math.Abs(p[1]-last[1]) < 1e-9 && math.Abs(p[2]-last[2]) < 1e-9 {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
