// Package rad implements the radiosity lightmap stage (C6): subdividing
// each face into patches, computing direct lighting from entity light
// sources, building and compressing patch-to-patch form-factor
// transfers, iterating bounce passes to convergence, and sampling the
// resulting patch radiosity back down onto each face's lightmap grid.
package rad

import (
	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/compile"
	"mapc/internal/plane"
	"mapc/internal/wad"
	"mapc/internal/winding"
)

// PatchSize is the default subdivision grid spacing in world units,
// matching the original's -chop default.
const PatchSize = 64.0

// Patch is one radiosity sample area: a sub-winding of a face, its
// reflectivity, emitted light (if any), and the accumulated/bounced
// energy the transfer pass updates.
type Patch struct {
	FaceIndex int
	Winding   *winding.Winding
	Area      float64
	Center    [3]float64
	Normal    [3]float64

	Reflectivity [3]float64 // texture color scaled by albedo, 0..1 per channel
	Emission     [3]float64 // direct light emitted by a RAD-marked texture

	Light  [3]float64 // total accumulated incoming light (direct + bounce)
	Sent   [3]float64 // energy still to redistribute this bounce iteration
}

// Subdivide splits every face with a valid winding into patches, per
// §4.7 step 1, halving until no patch spans more than 1.5*size along any
// world axis. Face contents are not consulted: no face is skipped for
// its contents.
func Subdivide(faces []*compile.Face, textures *wad.Catalog, size float64) []*Patch {
	var patches []*Patch
	for i, f := range faces {
		w := facePointsToWinding(f.Points)
		if !w.Valid() {
			continue
		}
		for _, sub := range subdivideWinding(w, size) {
			p := &Patch{
				FaceIndex: i,
				Winding:   sub,
				Area:      sub.Area(),
			}
			c := sub.Center()
			p.Center = [3]float64{c.X(), c.Y(), c.Z()}
			pl := sub.Plane()
			p.Normal = [3]float64{pl.Normal.X(), pl.Normal.Y(), pl.Normal.Z()}
			p.Reflectivity = [3]float64{0.5, 0.5, 0.5}
			patches = append(patches, p)
		}
	}
	return patches
}

func facePointsToWinding(pts [][3]float64) *winding.Winding {
	vs := make([]mgl64.Vec3, len(pts))
	for i, p := range pts {
		vs[i] = mgl64.Vec3{p[0], p[1], p[2]}
	}
	return winding.New(vs)
}

// axisNormal returns the unit normal for axis 0/1/2 (X/Y/Z).
func axisNormal(axis int) mgl64.Vec3 {
	var n mgl64.Vec3
	n[axis] = 1
	return n
}

// subdivideWinding recursively chops w along whichever world axis it
// spans most, at the midpoint of that span, matching the original's simple
// axis-aligned patch grid (it is not a true Delaunay/quad subdivision,
// just repeated binary chopping — adequate since patches only need to be
// "small enough", not uniform).
func subdivideWinding(w *winding.Winding, size float64) []*winding.Winding {
	mins, maxs := w.Bounds()
	var axis int
	var span float64
	for i := 0; i < 3; i++ {
		s := maxs[i] - mins[i]
		if s > span {
			span = s
			axis = i
		}
	}
	if span <= size*1.5 {
		return []*winding.Winding{w}
	}

	mid := (mins[axis] + maxs[axis]) / 2
	normal := axisNormal(axis)
	front, back := w.Clip(plane.New(normal, mid), winding.OnEpsilon)
	var out []*winding.Winding
	if front != nil {
		out = append(out, subdivideWinding(front, size)...)
	}
	if back != nil {
		out = append(out, subdivideWinding(back, size)...)
	}
	if len(out) == 0 {
		return []*winding.Winding{w}
	}
	return out
}
