package rad

import (
	"testing"

	"mapc/internal/compile"
	"mapc/internal/entity"
	"mapc/internal/workpool"
)

func floorFace() *compile.Face {
	return &compile.Face{
		Points: [][3]float64{
			{-64, -64, 0}, {64, -64, 0}, {64, 64, 0}, {-64, 64, 0},
		},
		Contents: compile.ContentsSolid,
	}
}

func TestSubdivideProducesPatchesCoveringArea(t *testing.T) {
	faces := []*compile.Face{floorFace()}
	patches := Subdivide(faces, nil, 32)
	if len(patches) == 0 {
		t.Fatalf("expected at least one patch")
	}
	var total float64
	for _, p := range patches {
		total += p.Area
	}
	if total < 128*128*0.9 || total > 128*128*1.1 {
		t.Errorf("expected total patch area near %v, got %v", 128*128, total)
	}
}

func TestGatherLightsParsesOriginAndIntensity(t *testing.T) {
	e := entity.New()
	e.Set("classname", "light")
	e.Set("origin", "0 0 128")
	e.Set("light", "300")
	lights := GatherLights([]*entity.Entity{e})
	if len(lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(lights))
	}
	if lights[0].Origin != [3]float64{0, 0, 128} {
		t.Errorf("expected origin (0,0,128), got %v", lights[0].Origin)
	}
	if lights[0].Intensity != 300 {
		t.Errorf("expected intensity 300, got %v", lights[0].Intensity)
	}
}

func TestDirectLightingIncreasesLitPatchEnergy(t *testing.T) {
	faces := []*compile.Face{floorFace()}
	patches := Subdivide(faces, nil, 128)
	for _, p := range patches {
		p.Normal = [3]float64{0, 0, 1}
	}
	lights := []LightSource{{Origin: [3]float64{0, 0, 64}, Color: [3]float64{1, 1, 1}, Intensity: 300}}
	ApplyDirectLighting(patches, lights, nil)
	for _, p := range patches {
		if p.Light[0] <= 0 {
			t.Errorf("expected positive lit energy for a patch under a light, got %v", p.Light)
		}
	}
}

func TestBounceConvergesWithinMaxIterations(t *testing.T) {
	faces := []*compile.Face{floorFace()}
	patches := Subdivide(faces, nil, 64)
	for _, p := range patches {
		p.Normal = [3]float64{0, 0, 1}
		p.Sent = [3]float64{1, 1, 1}
	}
	pool := workpool.New(2)
	transfers := BuildTransfers(pool, patches, nil)
	rounds := RunToConvergence(pool, patches, transfers, 20, 1e-6)
	if rounds == 0 {
		t.Fatalf("expected at least one bounce round to run")
	}
	if rounds >= 20 {
		t.Errorf("expected convergence before the 20-round cap, got %d rounds", rounds)
	}
}
