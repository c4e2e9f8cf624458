package rad

import (
	"math"

	"mapc/internal/entity"
)

// LightSource is a point light derived from a "light" entity (§4.7
// step 2): position, RGB color and a scalar intensity. There is no
// per-light falloff setting: ApplyDirectLighting always uses
// inverse-square falloff.
type LightSource struct {
	Origin   [3]float64
	Color    [3]float64
	Intensity float64
}

// GatherLights extracts point lights from the entity list. Entities
// without a "light" key are ignored; color defaults to white if no
// "_color" key is present, matching the original's key conventions.
func GatherLights(entities []*entity.Entity) []LightSource {
	var lights []LightSource
	for _, e := range entities {
		if e.ClassName() != "light" && e.ClassName() != "light_environment" {
			continue
		}
		v, ok := e.Get("light")
		if !ok {
			continue
		}
		intensity := parseFloat(v, 300)
		origin := parseVec3(e.GetDefault("origin", "0 0 0"))
		color := [3]float64{1, 1, 1}
		if c, ok := e.Get("_color"); ok {
			color = parseVec3(c)
		}
		lights = append(lights, LightSource{Origin: origin, Color: color, Intensity: intensity})
	}
	return lights
}

// ApplyDirectLighting sets each patch's initial Light (and Sent, the
// seed for the first bounce pass) from every light source with a clear
// line of sight, per §4.7 step 2. visible reports whether two world
// points see each other (injected so the RAD package doesn't need to
// depend on the BSP tree directly — callers pass a closure backed by
// bspbuild's portal/leaf structures, or a trivial always-true stub for
// single-room test cases).
func ApplyDirectLighting(patches []*Patch, lights []LightSource, visible func(a, b [3]float64) bool) {
	for _, p := range patches {
		for _, l := range lights {
			if visible != nil && !visible(p.Center, l.Origin) {
				continue
			}
			dx := p.Center[0] - l.Origin[0]
			dy := p.Center[1] - l.Origin[1]
			dz := p.Center[2] - l.Origin[2]
			distSq := dx*dx + dy*dy + dz*dz
			if distSq < 1 {
				distSq = 1
			}
			dist := math.Sqrt(distSq)

			// Cosine falloff against the patch normal, matching the
			// original's dot(normal, direction-to-light) term.
			cos := (-dx*p.Normal[0] - dy*p.Normal[1] - dz*p.Normal[2]) / dist
			if cos <= 0 {
				continue
			}
			falloff := l.Intensity * cos / distSq
			for c := 0; c < 3; c++ {
				contribution := falloff * l.Color[c]
				p.Light[c] += contribution
				p.Sent[c] += contribution
			}
		}
	}
}

func parseFloat(s string, def float64) float64 {
	var f float64
	n, err := parseFirstToken(s, &f)
	if err != nil || n == 0 {
		return def
	}
	return f
}

func parseVec3(s string) [3]float64 {
	var v [3]float64
	fields := splitFields(s)
	for i := 0; i < 3 && i < len(fields); i++ {
		v[i] = atof(fields[i])
	}
	return v
}
