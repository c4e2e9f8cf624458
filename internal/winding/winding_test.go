package winding

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"mapc/internal/plane"
)

func square(z float64) *Winding {
	return &Winding{Points: []mgl64.Vec3{
		{-1, -1, z},
		{1, -1, z},
		{1, 1, z},
		{-1, 1, z},
	}}
}

func TestWindingClosure(t *testing.T) {
	w := square(0)
	p := plane.New(mgl64.Vec3{1, 0, 0}, 0)

	front, back := w.Clip(p, OnEpsilon)
	if front == nil || back == nil {
		t.Fatalf("expected both sides non-empty, got front=%v back=%v", front, back)
	}

	// Recombining front+back area should reproduce the original area.
	total := front.Area() + back.Area()
	if math.Abs(total-w.Area()) > 1e-6 {
		t.Errorf("expected combined area %v to match original %v", total, w.Area())
	}
}

func TestChopEquivalentToClipFront(t *testing.T) {
	w := square(0)
	p := plane.New(mgl64.Vec3{1, 0, 0}, 0)

	front, _ := w.Clip(p, OnEpsilon)
	chopped := w.Copy()
	ok := chopped.ChopInPlace(p, OnEpsilon)
	if !ok {
		t.Fatalf("expected chop to keep a winding")
	}
	if math.Abs(chopped.Area()-front.Area()) > 1e-9 {
		t.Errorf("expected chop area %v to equal clip-front area %v", chopped.Area(), front.Area())
	}
}

func TestChopVanishesBehindPlane(t *testing.T) {
	w := square(0)
	p := plane.New(mgl64.Vec3{1, 0, 0}, 100) // entirely behind
	ok := w.ChopInPlace(p, OnEpsilon)
	if ok {
		t.Errorf("expected winding to vanish")
	}
}

func TestFromPlaneThenChopByFourPlanesYieldsQuad(t *testing.T) {
	base := plane.New(mgl64.Vec3{0, 0, 1}, 0)
	w := FromPlane(base)

	// Each clipper faces into the square, so keeping the front side of
	// all four leaves |x| <= 1, |y| <= 1.
	clippers := []plane.Plane{
		{Normal: mgl64.Vec3{-1, 0, 0}, Dist: -1, Type: plane.X},
		{Normal: mgl64.Vec3{1, 0, 0}, Dist: -1, Type: plane.X},
		{Normal: mgl64.Vec3{0, -1, 0}, Dist: -1, Type: plane.Y},
		{Normal: mgl64.Vec3{0, 1, 0}, Dist: -1, Type: plane.Y},
	}
	for _, c := range clippers {
		if !w.ChopInPlace(c, OnEpsilon) {
			t.Fatalf("winding vanished unexpectedly")
		}
	}
	if math.Abs(w.Area()-4.0) > 1e-6 {
		t.Errorf("expected 2x2 square area 4, got %v", w.Area())
	}
}

func TestRemoveCollinearDropsThinPoint(t *testing.T) {
	w := &Winding{Points: []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0},
	}}
	w.RemoveCollinear(0.001)
	if len(w.Points) != 4 {
		t.Errorf("expected collinear midpoint removed, got %d points: %v", len(w.Points), w.Points)
	}
}

func TestSideOfClassification(t *testing.T) {
	p := plane.New(mgl64.Vec3{0, 0, 1}, 5)
	if SideOf(mgl64.Vec3{0, 0, 10}, p, OnEpsilon) != Front {
		t.Error("expected point above plane to be Front")
	}
	if SideOf(mgl64.Vec3{0, 0, 0}, p, OnEpsilon) != Back {
		t.Error("expected point below plane to be Back")
	}
	if SideOf(mgl64.Vec3{0, 0, 5}, p, OnEpsilon) != On {
		t.Error("expected point on plane to be On")
	}
}

func TestValidatePanicsOnDegenerateWinding(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected Validate to panic on a 2-point winding")
		}
	}()
	w := &Winding{Points: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}}}
	w.Validate(OnEpsilon)
}
