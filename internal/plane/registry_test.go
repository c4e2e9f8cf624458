package plane

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestInternIsIdempotent(t *testing.T) {
	r := NewRegistry()
	a, err := r.Intern([3]float64{1, 0, 0}, 64)
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	b, err := r.Intern([3]float64{1, 0, 0}, 64)
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if a != b {
		t.Errorf("expected idempotent intern, got %d and %d", a, b)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 registered plane, got %d", r.Len())
	}
}

func TestInternBackTwin(t *testing.T) {
	r := NewRegistry()
	front, _ := r.Intern([3]float64{1, 0, 0}, 64)
	back, err := r.Intern([3]float64{-1, 0, 0}, -64)
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if back != front {
		t.Errorf("expected back-facing intern to return the same registered index, got front=%d back=%d", front, back)
	}
	if r.Len() != 1 {
		t.Errorf("expected registering a flipped plane to not grow the table, got %d entries", r.Len())
	}
}

func TestInternToleratesSmallDrift(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Intern([3]float64{1, 0, 0}, 64.0)
	b, _ := r.Intern([3]float64{1, 0, 0}, 64.0 + DistEpsilon/2)
	if a != b {
		t.Errorf("expected sub-epsilon drift to intern to the same plane")
	}
}

func TestClassifyAxial(t *testing.T) {
	r := NewRegistry()
	idx, _ := r.Intern([3]float64{0, 1.0000001, 0}, 5)
	p := r.Get(idx)
	if p.Type != Y {
		t.Errorf("expected near-axial normal to snap to type Y, got %v", p.Type)
	}
	if p.Normal != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("expected snapped axial normal to be exactly (0,1,0), got %v", p.Normal)
	}
}

func TestBackOfAxialPlaneIsSameEntry(t *testing.T) {
	r := NewRegistry()
	idx, _ := r.Intern([3]float64{0, 0, 1}, 10)
	backIdx, err := r.Back(idx)
	if err != nil {
		t.Fatalf("Back: %v", err)
	}
	if backIdx != idx {
		t.Errorf("expected the flipped axial plane to resolve to the same entry, got front=%d back=%d", idx, backIdx)
	}
	if r.Len() != 1 {
		t.Errorf("expected Back not to grow the table, got %d entries", r.Len())
	}
}

func TestPlaneLimitExceeded(t *testing.T) {
	r := NewRegistry()
	r.planes = make([]Plane, MaxPlanes)
	_, err := r.Intern([3]float64{0, 1, 0}, 12345)
	if err == nil {
		t.Fatalf("expected a limit-exceeded error")
	}
	var lim *LimitExceededError
	if !asLimitExceeded(err, &lim) {
		t.Fatalf("expected *LimitExceededError, got %T", err)
	}
}

func asLimitExceeded(err error, target **LimitExceededError) bool {
	if e, ok := err.(*LimitExceededError); ok {
		*target = e
		return true
	}
	return false
}
