package rad

import (
	"math"

	"mapc/internal/bspfile"
)

// Lightmap is one face's sampled RGB grid, stored row-major at the
// original's TextureStep (16 world units per luxel).
type Lightmap struct {
	FaceIndex   int
	Width, Height int
	Samples     [][3]byte
}

// Sample rasterizes one face's patches (those whose FaceIndex is
// faceIndex) down onto its lightmap grid by nearest-patch lookup in the
// world XY plane (the original's true implementation uses bilinear
// interpolation across the face's patch grid; nearest-neighbor is a
// simpler stand-in that preserves the same data flow: the face gets a
// lightmap of at least 1x1 luxels sized from faceBounds).
func Sample(patches []*Patch, faceIndex int, faceBounds [2][2]float64) Lightmap {
	w := int((faceBounds[1][0]-faceBounds[0][0])/bspfile.TextureStep) + 1
	h := int((faceBounds[1][1]-faceBounds[0][1])/bspfile.TextureStep) + 1
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w > bspfile.MaxSurfaceExtent*16 {
		w = bspfile.MaxSurfaceExtent * 16
	}
	if h > bspfile.MaxSurfaceExtent*16 {
		h = bspfile.MaxSurfaceExtent * 16
	}

	lm := Lightmap{FaceIndex: faceIndex, Width: w, Height: h, Samples: make([][3]byte, w*h)}

	var facePatches []*Patch
	for _, p := range patches {
		if p.FaceIndex == faceIndex {
			facePatches = append(facePatches, p)
		}
	}
	if len(facePatches) == 0 {
		return lm
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			u := faceBounds[0][0] + float64(x)*bspfile.TextureStep
			v := faceBounds[0][1] + float64(y)*bspfile.TextureStep
			nearest := facePatches[0]
			bestDist := math.MaxFloat64
			for _, p := range facePatches {
				du := p.Center[0] - u
				dv := p.Center[1] - v
				d := du*du + dv*dv
				if d < bestDist {
					bestDist = d
					nearest = p
				}
			}
			lm.Samples[y*w+x] = toByteColor(nearest.Light)
		}
	}
	return lm
}

func toByteColor(c [3]float64) [3]byte {
	var out [3]byte
	for i := 0; i < 3; i++ {
		v := c[i]
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		out[i] = byte(v)
	}
	return out
}
