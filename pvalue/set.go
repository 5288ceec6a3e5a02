package pvalue

import (
	"sort"

	"github.com/benbjohnson/immutable"
)

// Set is a persistent collection of distinct values compared by Equal.
// The zero Set is empty.
type Set struct {
	s *immutable.Set[any]
}

// NewSet returns a Set of the given values; duplicates collapse.
func NewSet(values ...any) Set {
	s := immutable.NewSet[any](valueHasher{}, values...)
	return Set{s: &s}
}

// Len returns the number of members.
func (s Set) Len() int {
	if s.s == nil {
		return 0
	}
	return s.s.Len()
}

// Has reports whether v is a member.
func (s Set) Has(v any) bool {
	if s.s == nil {
		return false
	}
	return s.s.Has(v)
}

// Add returns a Set that also contains v.
func (s Set) Add(v any) Set {
	if s.s == nil {
		return NewSet(v)
	}
	n := s.s.Add(v)
	return Set{s: &n}
}

// Values returns the members ordered by their canonical JSON encoding so the
// result is deterministic.
func (s Set) Values() []any {
	if s.s == nil {
		return []any{}
	}
	out := s.s.Items()
	if len(out) == 0 {
		return []any{}
	}
	keys := make([]string, len(out))
	for i, v := range out {
		keys[i] = canonicalKey(v)
	}
	sort.Sort(byKey{vals: out, keys: keys})
	return out
}

// MarshalJSON encodes the set as a JSON array.
func (s Set) MarshalJSON() ([]byte, error) { return marshalPlain(s) }

type byKey struct {
	vals []any
	keys []string
}

func (b byKey) Len() int           { return len(b.vals) }
func (b byKey) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b byKey) Swap(i, j int) {
	b.vals[i], b.vals[j] = b.vals[j], b.vals[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
