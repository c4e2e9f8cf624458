// Package entity implements the key/value entity model (C8): parsing the
// brace-delimited entity lump, round-tripping it to text for the ripent
// tool, and the small-buffer-optimized key/value pair storage called out
// in SPEC_FULL.md §9.
package entity

// inlineCap is the small-buffer threshold: keys and values up to this
// length are stored inline without a heap allocation, mirroring the
// original's 30-byte inline entity_key_value buffer. This matters because
// large maps carry hundreds of thousands of these pairs.
const inlineCap = 30

// smallString is a {Inline, Spilled} small-buffer string, expressed as a
// sum type the way SPEC_FULL.md's small-buffer-vector design note
// prescribes, generalized here to bytes instead of a fixed element type.
type smallString struct {
	inline   [inlineCap]byte
	inlineN  int8
	spilled  string
	isSpilled bool
}

func newSmallString(s string) smallString {
	if len(s) <= inlineCap {
		var ss smallString
		copy(ss.inline[:], s)
		ss.inlineN = int8(len(s))
		return ss
	}
	return smallString{spilled: s, isSpilled: true}
}

func (s smallString) String() string {
	if s.isSpilled {
		return s.spilled
	}
	return string(s.inline[:s.inlineN])
}

// KeyValue is one "key" "value" pair of an entity block.
type KeyValue struct {
	key   smallString
	value smallString
}

// Key returns the pair's key.
func (kv KeyValue) Key() string { return kv.key.String() }

// Value returns the pair's value.
func (kv KeyValue) Value() string { return kv.value.String() }

// Entity is an ordered key/value mapping. Duplicate keys overwrite
// in-order (last write wins) but the original insertion position is kept,
// matching the original's "duplicate keys overwrite in-order" rule (§3).
type Entity struct {
	pairs []KeyValue
	index map[string]int
	// BrushRange is the half-open [first, end) range of indices into the
	// compile's flat brush table that this entity owns (world entity is
	// index 0).
	BrushRange [2]int
}

// New creates an empty entity.
func New() *Entity {
	return &Entity{index: make(map[string]int)}
}

// Set assigns key=value, overwriting any existing value for key in place.
func (e *Entity) Set(key, value string) {
	if e.index == nil {
		e.index = make(map[string]int)
	}
	if i, ok := e.index[key]; ok {
		e.pairs[i].value = newSmallString(value)
		return
	}
	e.index[key] = len(e.pairs)
	e.pairs = append(e.pairs, KeyValue{key: newSmallString(key), value: newSmallString(value)})
}

// Get returns the value for key and whether it was present.
func (e *Entity) Get(key string) (string, bool) {
	i, ok := e.index[key]
	if !ok {
		return "", false
	}
	return e.pairs[i].Value(), true
}

// GetDefault returns the value for key, or def if absent.
func (e *Entity) GetDefault(key, def string) string {
	if v, ok := e.Get(key); ok {
		return v
	}
	return def
}

// ClassName returns the "classname" key. Set overwrites duplicates in
// place rather than appending, so for a repeated classname key this is
// the last value set.
func (e *Entity) ClassName() string {
	return e.GetDefault("classname", "")
}

// Pairs returns the ordered key/value pairs.
func (e *Entity) Pairs() []KeyValue { return e.pairs }

// Len returns the number of distinct keys.
func (e *Entity) Len() int { return len(e.pairs) }
