// Package plane implements the canonical, deduplicated plane registry (C0).
//
// Every plane referenced anywhere in a compiled BSP lives in exactly one
// Registry and is addressed by index; the back-facing twin of a plane is
// expressed by a side bit on the referencing face, never by a second
// registry entry.
package plane

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Type classifies a plane's dominant axis, mirroring the on-disk dplane_t
// type field (bspfile.h planetype).
type Type int32

const (
	X Type = iota
	Y
	Z
	AnyX
	AnyY
	AnyZ
)

// NormalEpsilon and DistEpsilon bound the tolerance used when two planes
// are considered identical. These match the original compiler's
// NORMAL_EPSILON / DIST_EPSILON constants.
const (
	NormalEpsilon = 0.00001
	DistEpsilon   = 0.01
)

// Plane is a signed half-space: points p with Normal.Dot(p) == Dist lie on
// the plane; Normal.Dot(p) > Dist is in front.
type Plane struct {
	Normal mgl64.Vec3
	Dist   float64
	Type   Type
}

// classify assigns the canonical Type for a (near-)unit normal, matching
// the axial-snap rule from §3: an axial plane (one component ±1, others 0
// within epsilon) takes its axis type; otherwise the type is the "any"
// variant of the largest-magnitude component.
func classify(n mgl64.Vec3) Type {
	ax, ay, az := math.Abs(n.X()), math.Abs(n.Y()), math.Abs(n.Z())

	if ax > 1-NormalEpsilon && ay < NormalEpsilon && az < NormalEpsilon {
		return X
	}
	if ay > 1-NormalEpsilon && ax < NormalEpsilon && az < NormalEpsilon {
		return Y
	}
	if az > 1-NormalEpsilon && ax < NormalEpsilon && ay < NormalEpsilon {
		return Z
	}

	switch {
	case ax >= ay && ax >= az:
		return AnyX
	case ay >= ax && ay >= az:
		return AnyY
	default:
		return AnyZ
	}
}

// IsAxial reports whether t is one of the three pure axis types.
func (t Type) IsAxial() bool {
	return t == X || t == Y || t == Z
}

// New builds a Plane in canonical form: axial planes are normalized so
// their axis component is positive (the axis-positive convention from
// §4.1); the caller is responsible for flipping the referencing face's
// side bit to recover the opposite orientation.
func New(normal mgl64.Vec3, dist float64) Plane {
	t := classify(normal)
	if t.IsAxial() {
		// Snap to a pure axis vector and carry the sign through Dist.
		var axis mgl64.Vec3
		switch t {
		case X:
			axis = mgl64.Vec3{1, 0, 0}
		case Y:
			axis = mgl64.Vec3{0, 1, 0}
		case Z:
			axis = mgl64.Vec3{0, 0, 1}
		}
		sign := 1.0
		if normal.Dot(axis) < 0 {
			sign = -1.0
		}
		return Plane{Normal: axis, Dist: dist * sign, Type: t}
	}
	return Plane{Normal: normal, Dist: dist, Type: t}
}

// equal reports whether a and b are the same plane within tolerance,
// without considering the back-facing case.
func equal(a, b Plane) bool {
	if math.Abs(a.Dist-b.Dist) > DistEpsilon {
		return false
	}
	d := a.Normal.Sub(b.Normal)
	return math.Abs(d.X()) <= NormalEpsilon && math.Abs(d.Y()) <= NormalEpsilon && math.Abs(d.Z()) <= NormalEpsilon
}

// flipped returns the back-facing twin of p.
func flipped(p Plane) Plane {
	return Plane{Normal: p.Normal.Mul(-1), Dist: -p.Dist, Type: p.Type}
}
