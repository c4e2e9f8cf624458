package csg

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/compile"
	"mapc/internal/plane"
	"mapc/internal/winding"
)

// PlaneDef is a brush side as parsed from the .MAP file: three
// world-space points defining the plane, plus a Valve-220 texture frame.
type PlaneDef struct {
	P1, P2, P3 mgl64.Vec3
	Texture    string
	UAxis      mgl64.Vec3
	VAxis      mgl64.Vec3
	UOffset    float64
	VOffset    float64
	UScale     float64
	VScale     float64
}

// RawBrush is a brush as parsed from the .MAP file, before CSG.
type RawBrush struct {
	ID    int
	Sides []PlaneDef
}

// planeFromPoints derives a plane from three winding points, matching the
// reference CCW orientation: normal = (p2-p1) x (p3-p1), normalized.
func planeFromPoints(p1, p2, p3 mgl64.Vec3) (mgl64.Vec3, float64) {
	normal := p2.Sub(p1).Cross(p3.Sub(p1))
	normal = normal.Normalize()
	dist := p1.Dot(normal)
	return normal, dist
}

// BuildBrushSides interns each side's plane, builds its starting huge
// winding, and chops it against every other side's plane, implementing
// §4.3 step 1. Sides whose winding vanishes are dropped. A brush ending
// up with fewer than four surviving sides is rejected.
func BuildBrushSides(reg *plane.Registry, rb RawBrush) (*compile.Brush, []*winding.Winding, error) {
	if len(rb.Sides) < 4 {
		return nil, nil, &compile.MapDefectError{
			Location: fmt.Sprintf("brush %d", rb.ID),
			Message:  "brush has fewer than 4 sides",
		}
	}

	planeNums := make([]int, len(rb.Sides))
	contentsSeen := make(map[compile.Contents]bool)
	for i, s := range rb.Sides {
		n, d := planeFromPoints(s.P1, s.P2, s.P3)
		idx, err := reg.Intern([3]float64{n.X(), n.Y(), n.Z()}, d)
		if err != nil {
			return nil, nil, err
		}
		planeNums[i] = idx
		contentsSeen[ClassifyTexture(s.Texture)] = true
	}

	windings := make([]*winding.Winding, len(rb.Sides))
	brush := &compile.Brush{ID: rb.ID}

	for i, s := range rb.Sides {
		pl := reg.Get(planeNums[i])
		w := winding.FromPlane(pl)

		for j, other := range rb.Sides {
			if i == j {
				continue
			}
			clipPlane := reg.Get(planeNums[j])
			if !w.ChopInPlace(clipPlane, winding.OnEpsilon) {
				break
			}
		}

		if !w.Valid() {
			continue // side chopped away entirely: drop it
		}
		w.RemoveCollinear(winding.OnEpsilon)
		if !w.Valid() {
			continue
		}

		windings[i] = w
		brush.Sides = append(brush.Sides, compile.BrushSide{
			PlaneNum: planeNums[i],
			Texture:  s.Texture,
			TexInfo: compile.TexInfo{
				UAxis:   [3]float64{s.UAxis.X(), s.UAxis.Y(), s.UAxis.Z()},
				VAxis:   [3]float64{s.VAxis.X(), s.VAxis.Y(), s.VAxis.Z()},
				UOffset: s.UOffset,
				VOffset: s.VOffset,
				UScale:  s.UScale,
				VScale:  s.VScale,
			},
		})
	}

	if len(brush.Sides) < 4 {
		return nil, nil, &compile.MapDefectError{
			Location: fmt.Sprintf("brush %d", rb.ID),
			Message:  "brush has fewer than 4 surviving sides after clipping",
		}
	}

	brush.Contents = brushContents(rb.Sides)
	if brush.Contents == -1 {
		return nil, nil, &compile.MapDefectError{
			Location: fmt.Sprintf("brush %d", rb.ID),
			Message:  "mixed contents within one brush",
		}
	}

	survivors := make([]*winding.Winding, 0, len(brush.Sides))
	for _, w := range windings {
		if w != nil && w.Valid() {
			survivors = append(survivors, w)
		}
	}
	return brush, survivors, nil
}

// brushContents determines the brush's contents from its dominant
// texture, per §4.3 step 2: CLIP/ORIGIN/HINT/SKIP/NULL/BEVEL textures
// don't count toward "dominant" since they're structural markers, not
// solidity; if the remaining (structural) textures disagree, it's a hard
// error, signalled by returning -1.
func brushContents(sides []PlaneDef) compile.Contents {
	dominant := compile.Contents(-2) // sentinel: "unset"
	for _, s := range sides {
		c := ClassifyTexture(s.Texture)
		switch c {
		case compile.ContentsOrigin, compile.ContentsClip, compile.ContentsHint, compile.ContentsNull:
			continue // structural: doesn't participate in the dominant-contents vote
		}
		if dominant == -2 {
			dominant = c
			continue
		}
		if dominant != c {
			return -1
		}
	}
	if dominant == -2 {
		// All sides were structural (e.g. a pure CLIP or ORIGIN brush):
		// take the contents of the first side's class directly.
		return ClassifyTexture(sides[0].Texture)
	}
	return dominant
}
