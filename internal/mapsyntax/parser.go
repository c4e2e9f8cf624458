package mapsyntax

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/csg"
	"mapc/internal/entity"
)

// Parse reads a full .MAP file's text and returns one csg.RawEntity per
// brace-delimited entity block, worldspawn first.
func Parse(src string) ([]csg.RawEntity, error) {
	toks := lex(src)
	p := &parser{toks: toks}

	var out []csg.RawEntity
	brushID := 0
	for !p.atEnd() {
		re, err := p.parseEntity(&brushID)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token {
	if p.atEnd() {
		return token{kind: tokBraceClose, text: "<eof>"}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != k {
		return t, fmt.Errorf("mapsyntax:%d: expected %s, got %q", t.line, what, t.text)
	}
	return t, nil
}

func (p *parser) parseEntity(brushID *int) (csg.RawEntity, error) {
	if _, err := p.expect(tokBraceOpen, "'{'"); err != nil {
		return csg.RawEntity{}, err
	}
	e := entity.New()
	re := csg.RawEntity{Entity: e}

	for {
		t := p.peek()
		switch t.kind {
		case tokBraceClose:
			p.next()
			return re, nil
		case tokBraceOpen:
			b, err := p.parseBrush(brushID)
			if err != nil {
				return csg.RawEntity{}, err
			}
			re.Brushes = append(re.Brushes, b)
		case tokWord:
			key := p.next()
			val, err := p.expect(tokWord, "value string")
			if err != nil {
				return csg.RawEntity{}, err
			}
			e.Set(key.text, val.text)
		default:
			return csg.RawEntity{}, fmt.Errorf("mapsyntax:%d: unexpected token %q in entity block", t.line, t.text)
		}
	}
}

func (p *parser) parseBrush(brushID *int) (csg.RawBrush, error) {
	if _, err := p.expect(tokBraceOpen, "'{'"); err != nil {
		return csg.RawBrush{}, err
	}
	*brushID++
	rb := csg.RawBrush{ID: *brushID}

	for p.peek().kind == tokParenOpen {
		side, err := p.parseSide()
		if err != nil {
			return csg.RawBrush{}, err
		}
		rb.Sides = append(rb.Sides, side)
	}
	if _, err := p.expect(tokBraceClose, "'}'"); err != nil {
		return csg.RawBrush{}, err
	}
	return rb, nil
}

func (p *parser) parseSide() (csg.PlaneDef, error) {
	var pd csg.PlaneDef
	var err error
	if pd.P1, err = p.parsePoint(); err != nil {
		return pd, err
	}
	if pd.P2, err = p.parsePoint(); err != nil {
		return pd, err
	}
	if pd.P3, err = p.parsePoint(); err != nil {
		return pd, err
	}

	tex, err := p.expect(tokWord, "texture name")
	if err != nil {
		return pd, err
	}
	pd.Texture = tex.text

	if p.peek().kind == tokBracketOpen {
		// Valve 220 extended format: [ux uy uz uoff] [vx vy vz voff] rot sx sy
		u, uoff, err := p.parseAxis()
		if err != nil {
			return pd, err
		}
		v, voff, err := p.parseAxis()
		if err != nil {
			return pd, err
		}
		pd.UAxis, pd.UOffset = u, uoff
		pd.VAxis, pd.VOffset = v, voff
		if _, err := p.parseNumber(); err != nil { // rotation, unused here
			return pd, err
		}
		if pd.UScale, err = p.parseNumber(); err != nil {
			return pd, err
		}
		if pd.VScale, err = p.parseNumber(); err != nil {
			return pd, err
		}
		return pd, nil
	}

	// Standard format: xoff yoff rotation xscale yscale. The U/V axes are
	// derived from the plane's dominant axis rather than stored, so a
	// placeholder is fine; BuildBrushSides only needs the explicit axes
	// when they were actually given.
	if pd.UOffset, err = p.parseNumber(); err != nil {
		return pd, err
	}
	if pd.VOffset, err = p.parseNumber(); err != nil {
		return pd, err
	}
	if _, err := p.parseNumber(); err != nil { // rotation
		return pd, err
	}
	if pd.UScale, err = p.parseNumber(); err != nil {
		return pd, err
	}
	if pd.VScale, err = p.parseNumber(); err != nil {
		return pd, err
	}
	pd.UAxis, pd.VAxis = standardAxes(pd.P1, pd.P2, pd.P3)
	return pd, nil
}

func (p *parser) parsePoint() (mgl64.Vec3, error) {
	if _, err := p.expect(tokParenOpen, "'('"); err != nil {
		return mgl64.Vec3{}, err
	}
	x, err := p.parseNumber()
	if err != nil {
		return mgl64.Vec3{}, err
	}
	y, err := p.parseNumber()
	if err != nil {
		return mgl64.Vec3{}, err
	}
	z, err := p.parseNumber()
	if err != nil {
		return mgl64.Vec3{}, err
	}
	if _, err := p.expect(tokParenClose, "')'"); err != nil {
		return mgl64.Vec3{}, err
	}
	return mgl64.Vec3{x, y, z}, nil
}

func (p *parser) parseAxis() (mgl64.Vec3, float64, error) {
	if _, err := p.expect(tokBracketOpen, "'['"); err != nil {
		return mgl64.Vec3{}, 0, err
	}
	x, err := p.parseNumber()
	if err != nil {
		return mgl64.Vec3{}, 0, err
	}
	y, err := p.parseNumber()
	if err != nil {
		return mgl64.Vec3{}, 0, err
	}
	z, err := p.parseNumber()
	if err != nil {
		return mgl64.Vec3{}, 0, err
	}
	off, err := p.parseNumber()
	if err != nil {
		return mgl64.Vec3{}, 0, err
	}
	if _, err := p.expect(tokBracketClose, "']'"); err != nil {
		return mgl64.Vec3{}, 0, err
	}
	return mgl64.Vec3{x, y, z}, off, nil
}

func (p *parser) parseNumber() (float64, error) {
	t, err := p.expect(tokWord, "number")
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return 0, fmt.Errorf("mapsyntax:%d: invalid number %q", t.line, t.text)
	}
	return f, nil
}

// standardAxes derives texture axes from the plane's dominant normal
// axis, matching the classic (non-Valve-220) format's implicit
// world-aligned projection.
func standardAxes(p1, p2, p3 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	normal := p2.Sub(p1).Cross(p3.Sub(p1)).Normalize()
	ax, ay, az := abs(normal.X()), abs(normal.Y()), abs(normal.Z())
	switch {
	case az >= ax && az >= ay:
		return mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, -1, 0}
	case ax >= ay:
		return mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, -1}
	default:
		return mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, -1}
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
