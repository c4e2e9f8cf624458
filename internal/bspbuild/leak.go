package bspbuild

import (
	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/compile"
)

// leakBoundsThreshold is how close a portal vertex must come to the
// portalization bounding cube's edge before it's treated as touching the
// void outside the map, the signal an outside-fill flood uses to detect
// an unsealed world (§4.4 step 3).
const leakBoundsThreshold = 1 << 15

// FloodFillOutside performs the outside-fill leak check: starting from
// the first EMPTY leaf in leaf order, flood across portals that connect
// two EMPTY leafs (EMPTY leafs not connected to that one are not visited).
// If the flood ever reaches a leaf with a portal vertex near the
// portalization bounding cube's edge, the world is not sealed and a leak
// is reported (c.Leak is set and the offending leaf chain is returned).
func (t *Tree) FloodFillOutside(c *compile.Compile) (leakPath []int, leaked bool) {
	visited := make([]bool, len(t.Leafs))
	var queue []int
	var parent = make([]int, len(t.Leafs))
	for i := range parent {
		parent[i] = -1
	}

	start := -1
	for i, l := range t.Leafs {
		if l.Contents == compile.ContentsEmpty {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, false
	}
	queue = append(queue, start)
	visited[start] = true

	leakLeaf := -1
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if touchesVoid(t.Portals, t.Leafs[cur].Portals) {
			leakLeaf = cur
			break
		}

		for _, pIdx := range t.Leafs[cur].Portals {
			p := t.Portals[pIdx]
			var other int32 = -1
			if p.Leafs[0] == int32(cur) {
				other = p.Leafs[1]
			} else {
				other = p.Leafs[0]
			}
			if other < 0 || int(other) >= len(t.Leafs) {
				continue
			}
			if t.Leafs[other].Contents != compile.ContentsEmpty {
				continue
			}
			if visited[other] {
				continue
			}
			visited[other] = true
			parent[other] = cur
			queue = append(queue, int(other))
		}
	}

	if leakLeaf == -1 {
		return nil, false
	}

	c.Leak = true
	for n := leakLeaf; n != -1; n = parent[n] {
		leakPath = append([]int{n}, leakPath...)
	}
	return leakPath, true
}

// LeakPoints converts a leaf-index path from FloodFillOutside into the
// polyline written to the .pts sidecar: the center of the portal
// crossed between each consecutive pair of leafs, plus the void-facing
// portal's center for the final leaf, tracing the route the flood took
// from inside the world out through the gap in its solid shell.
func (t *Tree) LeakPoints(path []int) []mgl64.Vec3 {
	var pts []mgl64.Vec3
	for i := 0; i+1 < len(path); i++ {
		if p, ok := t.sharedPortal(path[i], path[i+1]); ok {
			pts = append(pts, p.Winding.Center())
		}
	}
	if len(path) == 0 {
		return pts
	}
	last := path[len(path)-1]
	for _, idx := range t.Leafs[last].Portals {
		if touchesVoid(t.Portals, []int{idx}) {
			pts = append(pts, t.Portals[idx].Winding.Center())
			break
		}
	}
	return pts
}

func (t *Tree) sharedPortal(a, b int) (Portal, bool) {
	for _, idx := range t.Leafs[a].Portals {
		p := t.Portals[idx]
		if (p.Leafs[0] == int32(a) && p.Leafs[1] == int32(b)) || (p.Leafs[0] == int32(b) && p.Leafs[1] == int32(a)) {
			return p, true
		}
	}
	return Portal{}, false
}

func touchesVoid(portals []Portal, indices []int) bool {
	for _, idx := range indices {
		for _, p := range portals[idx].Winding.Points {
			for i := 0; i < 3; i++ {
				if p[i] > leakBoundsThreshold || p[i] < -leakBoundsThreshold {
					return true
				}
			}
		}
	}
	return false
}
