package mapsyntax

import "testing"

const sampleMap = `
{
"classname" "worldspawn"
{
( -64 -64 -64 ) ( -64 -63 -64 ) ( -63 -64 -64 ) wall01 0 0 0 1 1
( 64 64 64 ) ( 64 65 64 ) ( 65 64 64 ) wall01 0 0 0 1 1
( -64 -64 -64 ) ( -63 -64 -64 ) ( -64 -64 -63 ) wall01 0 0 0 1 1
( 64 64 64 ) ( 64 64 65 ) ( 65 64 64 ) wall01 0 0 0 1 1
( -64 -64 -64 ) ( -64 -64 -63 ) ( -64 -63 -64 ) wall01 0 0 0 1 1
( 64 64 64 ) ( 65 64 64 ) ( 64 65 64 ) wall01 0 0 0 1 1
}
}
{
"classname" "light"
"origin" "0 0 128"
}
`

func TestParseBasicMap(t *testing.T) {
	ents, err := Parse(sampleMap)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ents) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(ents))
	}
	if ents[0].Entity.ClassName() != "worldspawn" {
		t.Errorf("expected worldspawn, got %q", ents[0].Entity.ClassName())
	}
	if len(ents[0].Brushes) != 1 || len(ents[0].Brushes[0].Sides) != 6 {
		t.Fatalf("expected 1 brush with 6 sides, got %+v", ents[0].Brushes)
	}
	if ents[1].Entity.ClassName() != "light" {
		t.Errorf("expected light entity, got %q", ents[1].Entity.ClassName())
	}
	if v, _ := ents[1].Entity.Get("origin"); v != "0 0 128" {
		t.Errorf("expected origin key to round-trip, got %q", v)
	}
}

const valve220Sample = `
{
"classname" "worldspawn"
{
( 0 0 0 ) ( 0 16 0 ) ( 16 0 0 ) wall01 [ 1 0 0 0 ] [ 0 -1 0 0 ] 0 1 1
}
}
`

func TestParseValve220Face(t *testing.T) {
	ents, err := Parse(valve220Sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	side := ents[0].Brushes[0].Sides[0]
	if side.UAxis.X() != 1 || side.VAxis.Y() != -1 {
		t.Errorf("expected explicit Valve-220 axes to be parsed, got U=%v V=%v", side.UAxis, side.VAxis)
	}
}
