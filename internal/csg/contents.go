// Package csg implements brush-to-face constructive solid geometry (C2):
// building each brush side's winding, chopping it against its siblings,
// classifying brush contents from the dominant texture name, and emitting
// the flat, ordered face table the BSP stage consumes.
package csg

import (
	"strings"

	"mapc/internal/compile"
)

// ClassifyTexture maps a texture name to its contents class, following
// the recognized-pattern table in §6 ("first match wins", case
// insensitive). Names outside any special pattern default to SOLID for
// world brushes (the caller decides EMPTY for non-solid entities).
func ClassifyTexture(name string) compile.Contents {
	n := strings.ToLower(strings.TrimSpace(name))

	switch {
	case n == "origin":
		return compile.ContentsOrigin
	case hasClipHullSuffix(n) || n == "clipbevel" || n == "clipbevelbrush":
		return compile.ContentsClip
	case n == "sky" || n == "env_sky":
		return compile.ContentsSky
	case n == "null" || n == "noclip" || n == "nullnoclip":
		return compile.ContentsNull
	case strings.HasPrefix(n, "{_rad") || strings.HasPrefix(n, "!_rad") || strings.HasPrefix(n, "__rad"):
		return compile.ContentsNull // embedded lightmap textures carry no solidity of their own
	case n == "hint" || n == "solidhint" || n == "bevelhint":
		return compile.ContentsHint
	case n == "bevel" || n == "bevelbrush":
		return compile.ContentsNull
	case n == "skip":
		return compile.ContentsNull
	case n == "splitface":
		return compile.ContentsHint
	case strings.HasPrefix(n, "!cur_"):
		return compile.ContentsCurrent
	case strings.HasPrefix(n, "!"):
		return compile.ContentsWater
	case strings.HasPrefix(n, "{"):
		return compile.ContentsTranslucent
	case strings.HasPrefix(n, "@"):
		return compile.ContentsTranslucent
	default:
		return compile.ContentsSolid
	}
}

// hasClipHullSuffix matches clip, cliphull0..cliphull3 per §6.
func hasClipHullSuffix(n string) bool {
	if n == "clip" {
		return true
	}
	for _, suf := range []string{"cliphull0", "cliphull1", "cliphull2", "cliphull3"} {
		if n == suf {
			return true
		}
	}
	return false
}

// IsVisibleTexture reports whether a texture should appear in the visible
// face stream: NULL/SKIP/bevel/hint textures are culled from rendering
// but still feed clipping-hull input (§4.3 step 3).
func IsVisibleTexture(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if ClassifyTexture(n) == compile.ContentsNull {
		return false
	}
	switch n {
	case "skip", "bevel", "bevelbrush", "hint", "solidhint", "bevelhint", "splitface":
		return false
	}
	return true
}

// MinLightFromTexture parses a "%NN" prefix into a minlight value and
// reports whether the prefix was present.
func MinLightFromTexture(name string) (int, bool) {
	if len(name) < 2 || name[0] != '%' {
		return 0, false
	}
	val := 0
	any := false
	for _, c := range name[1:] {
		if c < '0' || c > '9' {
			break
		}
		val = val*10 + int(c-'0')
		any = true
	}
	return val, any
}

// AnimationFrame reports the animated-texture frame index encoded by a
// "+0".."+9"/"+a".."+j" prefix, per §6.
func AnimationFrame(name string) (int, bool) {
	if len(name) < 2 || name[0] != '+' {
		return 0, false
	}
	c := name[1]
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'j':
		return int(c-'a') + 10, true
	default:
		return 0, false
	}
}
