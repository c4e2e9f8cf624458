package main

import (
	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/bspfile"
	"mapc/internal/compile"
)

func vec3From32(v [3]float32) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

// contentsFromBSP maps the on-disk negative CONTENTS_* encoding back to
// the compiler's internal Contents enum, used only for leaf-skip
// decisions in the flood-fill/portal stages that re-run against an
// already-built .bsp.
func contentsFromBSP(c int32) compile.Contents {
	switch bspfile.Contents(c) {
	case bspfile.ContentsEmpty:
		return compile.ContentsEmpty
	case bspfile.ContentsSolid:
		return compile.ContentsSolid
	case bspfile.ContentsWater:
		return compile.ContentsWater
	case bspfile.ContentsSky:
		return compile.ContentsSky
	default:
		return compile.ContentsSolid
	}
}
