package entity

import (
	"fmt"
	"strings"
)

// ParseLump parses the entity lump: a concatenation of brace-delimited
// blocks, each a sequence of "key" "value" pairs separated by whitespace.
// Quotes are escaped with backslash; comments (//, #, ;) run to
// end-of-line (§4.9).
func ParseLump(text string) ([]*Entity, error) {
	toks := tokenize(text)
	var entities []*Entity
	i := 0
	for i < len(toks) {
		if toks[i] != "{" {
			return nil, fmt.Errorf("entity lump: expected '{' at token %d, got %q", i, toks[i])
		}
		i++
		e := New()
		for i < len(toks) && toks[i] != "}" {
			if i+1 >= len(toks) {
				return nil, fmt.Errorf("entity lump: unterminated key/value pair")
			}
			key := toks[i]
			val := toks[i+1]
			e.Set(key, val)
			i += 2
		}
		if i >= len(toks) {
			return nil, fmt.Errorf("entity lump: unterminated entity block")
		}
		i++ // consume '}'
		entities = append(entities, e)
	}
	return entities, nil
}

// tokenize splits the entity text into '{' , '}' and quoted-string
// tokens, stripping comments and unescaping backslash-quote sequences.
func tokenize(text string) []string {
	var toks []string
	var cur strings.Builder
	inQuote := false
	n := len(text)
	for i := 0; i < n; i++ {
		c := text[i]

		if !inQuote {
			if c == '/' && i+1 < n && text[i+1] == '/' {
				for i < n && text[i] != '\n' {
					i++
				}
				continue
			}
			if c == '#' || c == ';' {
				for i < n && text[i] != '\n' {
					i++
				}
				continue
			}
			if c == '{' || c == '}' {
				toks = append(toks, string(c))
				continue
			}
			if c == '"' {
				inQuote = true
				cur.Reset()
				continue
			}
			continue // skip whitespace and anything else outside quotes
		}

		// inside a quoted token
		if c == '\\' && i+1 < n && text[i+1] == '"' {
			cur.WriteByte('"')
			i++
			continue
		}
		if c == '"' {
			inQuote = false
			toks = append(toks, cur.String())
			continue
		}
		cur.WriteByte(c)
	}
	return toks
}

// WriteLump serializes entities back to the brace-delimited text format,
// with stable key order (insertion order) for deterministic, diffable
// output — required for ripent's byte-identical round trip (§8).
func WriteLump(entities []*Entity) string {
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString("{\n")
		for _, kv := range e.Pairs() {
			sb.WriteByte('"')
			sb.WriteString(escape(kv.Key()))
			sb.WriteString("\" \"")
			sb.WriteString(escape(kv.Value()))
			sb.WriteString("\"\n")
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}
