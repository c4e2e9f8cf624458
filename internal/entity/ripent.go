package entity

// ExtractToText renders entities to the stable-formatted text used by the
// ripent tool's "extract" mode (`<map>.ent`).
func ExtractToText(entities []*Entity) string {
	return WriteLump(entities)
}

// ImportFromText parses ripent's "import" mode input back into entities.
// When the returned entities re-serialize to byte-identical text, the
// overall extract-then-import round trip leaves the owning BSP's entity
// lump byte-identical (§8 Entity round-trip property).
func ImportFromText(text string) ([]*Entity, error) {
	return ParseLump(text)
}

// RoundTripIsIdentity reports whether re-serializing entities parsed from
// text reproduces text exactly, modulo a single trailing newline. Used by
// ripent to decide whether an import actually changed anything.
func RoundTripIsIdentity(original string, entities []*Entity) bool {
	return WriteLump(entities) == normalizeTrailingNewline(original)
}

func normalizeTrailingNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}
