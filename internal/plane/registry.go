package plane

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxPlanes mirrors the original's MAX_INTERNAL_MAP_PLANES-derived hard
// limit on distinct planes in one compile (see DESIGN.md: grounded on
// bspfile.h's MAX_MAP_* family, scaled up since planes are internal and
// later deduplicated on save).
const MaxPlanes = 1 << 18

// LimitExceededError reports a §7 "limit exceeded" condition.
type LimitExceededError struct {
	Limit   string
	Value   int
	Rule    string
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("limit exceeded: %s is %d (%s)", e.Limit, e.Value, e.Rule)
}

// Registry is the single owner of every Plane used in a compile. It is
// built single-threaded before any parallel region begins (§5) and is
// read-only thereafter.
type Registry struct {
	mu     sync.Mutex
	planes []Plane
	// buckets maps floor(|d|) to the indices of planes whose |Dist| falls
	// in that integer bin, so Intern can search the bin plus its two
	// neighbors for an epsilon-equal entry without scanning the whole
	// table.
	buckets map[int64][]int
}

// NewRegistry creates an empty plane registry.
func NewRegistry() *Registry {
	return &Registry{buckets: make(map[int64][]int)}
}

func bucketKey(dist float64) int64 {
	return int64(math.Floor(math.Abs(dist)))
}

// Intern registers (normal, dist) in canonical form and returns its index.
// If an epsilon-equal plane (in either orientation) is already registered,
// its index is returned instead of creating a duplicate — this is the
// plane-canonicity property from §8.
func (r *Registry) Intern(normalIn [3]float64, dist float64) (int, error) {
	p := New(mgl64.Vec3{normalIn[0], normalIn[1], normalIn[2]}, dist)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range []int64{bucketKey(p.Dist) - 1, bucketKey(p.Dist), bucketKey(p.Dist) + 1} {
		for _, idx := range r.buckets[key] {
			existing := r.planes[idx]
			if equal(existing, p) || equal(existing, flipped(p)) {
				return idx, nil
			}
		}
	}

	if len(r.planes) >= MaxPlanes {
		return 0, &LimitExceededError{Limit: "MAX_MAP_PLANES", Value: len(r.planes), Rule: "split the map into more, smaller brushes"}
	}

	idx := len(r.planes)
	r.planes = append(r.planes, p)
	key := bucketKey(p.Dist)
	r.buckets[key] = append(r.buckets[key], idx)
	return idx, nil
}

// Back returns the registry index that the flipped twin of the plane at
// idx interns to. Intern matches planes in either orientation, so this is
// the entry at idx itself: no second, opposite-facing entry is created.
func (r *Registry) Back(idx int) (int, error) {
	r.mu.Lock()
	p := r.planes[idx]
	r.mu.Unlock()
	f := flipped(p)
	return r.Intern([3]float64{f.Normal.X(), f.Normal.Y(), f.Normal.Z()}, f.Dist)
}

// Get returns the plane at idx.
func (r *Registry) Get(idx int) Plane {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.planes[idx]
}

// Len returns the number of distinct planes registered so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.planes)
}

// Restore rebuilds a registry from a previously saved plane slice,
// preserving indices exactly (used when reloading an intermediate
// compile snapshot between pipeline stages).
func Restore(planes []Plane) *Registry {
	r := NewRegistry()
	r.planes = append(r.planes, planes...)
	for i, p := range r.planes {
		key := bucketKey(p.Dist)
		r.buckets[key] = append(r.buckets[key], i)
	}
	return r
}

// All returns a snapshot slice of every registered plane, in index order.
// Safe to call only once the registry is read-only (after the
// single-threaded build phase, per §5).
func (r *Registry) All() []Plane {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Plane, len(r.planes))
	copy(out, r.planes)
	return out
}
