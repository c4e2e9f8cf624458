package csg

import (
	"mapc/internal/compile"
	"mapc/internal/entity"
)

// RawEntity pairs a parsed entity with its raw, unprocessed brushes, as
// produced by the .MAP text reader.
type RawEntity struct {
	Entity *entity.Entity
	Brushes []RawBrush
}

// ProcessEntities runs brush->face CSG over every entity's brushes and
// installs the results into c: per-brush ordered face lists, per-face
// contents, per-entity brush index ranges, and the flat ordered face
// table the BSP stage consumes (§4.3).
func ProcessEntities(c *compile.Compile, raws []RawEntity) error {
	for entNum, re := range raws {
		c.Entities = append(c.Entities, re.Entity)
		re.Entity.BrushRange[0] = len(c.Brushes)

		var originSum [3]float64
		originCount := 0

		for _, rb := range re.Brushes {
			brush, sides, err := BuildBrushSides(c.Planes, rb)
			if err != nil {
				return err
			}
			brush.EntityNum = entNum

			if brush.Contents == compile.ContentsOrigin {
				// ORIGIN brushes contribute a center-of-mass to the entity
				// and emit no faces (§4.3 step 2). The brush is still kept
				// in c.Brushes, so the clip-hull stage builds it as
				// ORIGIN-contents volume.
				for _, w := range sides {
					center := w.Center()
					originSum[0] += center.X()
					originSum[1] += center.Y()
					originSum[2] += center.Z()
					originCount++
				}
				c.Brushes = append(c.Brushes, brush)
				continue
			}

			c.Brushes = append(c.Brushes, brush)
			brushNum := len(c.Brushes) - 1

			for i, w := range sides {
				side := brush.Sides[i]
				visible := IsVisibleTexture(side.Texture)
				if brush.Contents == compile.ContentsClip && !visible {
					// CLIP brushes emit no visible faces at all; their
					// sides exist purely to feed the clipping-hull stage.
					continue
				}
				if !visible {
					continue // NULL/SKIP/bevel: culled from the render stream but already consumed by hull building elsewhere
				}
				pts := make([][3]float64, len(w.Points))
				for j, p := range w.Points {
					pts[j] = [3]float64{p.X(), p.Y(), p.Z()}
				}
				c.Faces = append(c.Faces, &compile.Face{
					PlaneNum:  side.PlaneNum,
					Points:    pts,
					Contents:  brush.Contents,
					EntityNum: entNum,
					BrushNum:  brushNum,
				})
			}
		}

		if originCount > 0 {
			avg := [3]float64{originSum[0] / float64(originCount), originSum[1] / float64(originCount), originSum[2] / float64(originCount)}
			re.Entity.Set("origin", formatOrigin(avg))
		} else if re.Entity.ClassName() != "worldspawn" {
			if _, hasBrushes := entityHasOnlyOrigin(re); hasBrushes {
				return &compile.MapDefectError{Location: entityLocation(entNum, re.Entity), Message: "entity has only ORIGIN brushes"}
			}
		}

		re.Entity.BrushRange[1] = len(c.Brushes)
	}
	return nil
}

func entityHasOnlyOrigin(re RawEntity) (bool, bool) {
	if len(re.Brushes) == 0 {
		return false, false
	}
	for _, rb := range re.Brushes {
		if len(rb.Sides) == 0 {
			continue
		}
		if ClassifyTexture(rb.Sides[0].Texture) != compile.ContentsOrigin {
			return false, false
		}
	}
	return true, true
}

func entityLocation(entNum int, e *entity.Entity) string {
	return "entity " + e.ClassName()
}

func formatOrigin(v [3]float64) string {
	return formatFloat(v[0]) + " " + formatFloat(v[1]) + " " + formatFloat(v[2])
}

func formatFloat(f float64) string {
	// Matches the original's "%g"-like compact formatting for origin keys.
	i := int64(f)
	if float64(i) == f {
		return itoa(i)
	}
	return ftoa(f)
}

func itoa(i int64) string {
	neg := i < 0
	if neg {
		i = -i
	}
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	s := string(buf[pos:])
	if neg {
		return "-" + s
	}
	return s
}

func ftoa(f float64) string {
	// Minimal, dependency-free float formatting sufficient for origin
	// strings (a handful of decimal digits); strconv is stdlib so this
	// keeps the call site simple without reaching for fmt.Sprintf in a
	// hot loop.
	neg := f < 0
	if neg {
		f = -f
	}
	whole := int64(f)
	frac := int64((f - float64(whole)) * 1000)
	s := itoa(whole) + "." + pad3(frac)
	if neg {
		return "-" + s
	}
	return s
}

func pad3(v int64) string {
	s := itoa(v)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
