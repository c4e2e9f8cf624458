package entity

import "testing"

func TestDuplicateKeysOverwriteInOrder(t *testing.T) {
	e := New()
	e.Set("classname", "worldspawn")
	e.Set("wad", "a.wad")
	e.Set("classname", "func_door") // duplicate: should overwrite in place

	if got := e.ClassName(); got != "func_door" {
		t.Errorf("expected overwritten classname, got %q", got)
	}
	if len(e.Pairs()) != 2 {
		t.Errorf("expected duplicate key to overwrite rather than append, got %d pairs", len(e.Pairs()))
	}
	if e.Pairs()[0].Key() != "classname" {
		t.Errorf("expected original key position preserved, got %q first", e.Pairs()[0].Key())
	}
}

func TestParseLumpBasic(t *testing.T) {
	text := `
{
"classname" "worldspawn"
"wad" "c:\halflife\gfx.wad"
}
{
"classname" "light"
"light" "200"
}
`
	entities, err := ParseLump(text)
	if err != nil {
		t.Fatalf("ParseLump: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}
	if entities[0].ClassName() != "worldspawn" {
		t.Errorf("expected worldspawn, got %q", entities[0].ClassName())
	}
	if v, _ := entities[1].Get("light"); v != "200" {
		t.Errorf("expected light=200, got %q", v)
	}
}

func TestParseLumpHandlesComments(t *testing.T) {
	text := `
// a leading comment
{
"classname" "worldspawn" // trailing comment
# another style
; and another
}
`
	entities, err := ParseLump(text)
	if err != nil {
		t.Fatalf("ParseLump: %v", err)
	}
	if len(entities) != 1 || entities[0].ClassName() != "worldspawn" {
		t.Fatalf("unexpected parse result: %+v", entities)
	}
}

func TestParseLumpHandlesEscapedQuotes(t *testing.T) {
	text := `{
"message" "say \"hello\""
}`
	entities, err := ParseLump(text)
	if err != nil {
		t.Fatalf("ParseLump: %v", err)
	}
	if v, _ := entities[0].Get("message"); v != `say "hello"` {
		t.Errorf("expected unescaped quotes, got %q", v)
	}
}

func TestRoundTripIdentity(t *testing.T) {
	text := "{\n\"classname\" \"worldspawn\"\n\"wad\" \"gfx.wad\"\n}\n"
	entities, err := ImportFromText(text)
	if err != nil {
		t.Fatalf("ImportFromText: %v", err)
	}
	if !RoundTripIsIdentity(text, entities) {
		t.Errorf("expected round trip identity, got %q", WriteLump(entities))
	}
}

func TestSmallBufferSpillsForLongValues(t *testing.T) {
	e := New()
	long := "this-is-a-value-longer-than-thirty-bytes-for-sure"
	e.Set("message", long)
	if got, _ := e.Get("message"); got != long {
		t.Errorf("expected spilled value preserved, got %q", got)
	}
}
