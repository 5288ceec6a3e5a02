package pvalue

import (
	"github.com/benbjohnson/immutable"

	pathstore "github.com/reoring/pathstore"
)

// Shape is a record factory: the fixed, ordered field names a Record accepts.
// Every default slot of a Shape is absent, so deleting a field from a Record
// leaves it absent instead of restoring a schema default.
type Shape struct {
	names []string
	index map[string]int
}

// NewShape returns a Shape for the given field names. Duplicate names keep
// their first position.
func NewShape(names ...string) *Shape {
	s := &Shape{index: make(map[string]int, len(names))}
	for _, n := range names {
		if _, dup := s.index[n]; dup {
			continue
		}
		s.index[n] = len(s.names)
		s.names = append(s.names, n)
	}
	return s
}

// Names returns the declared field names in declaration order.
func (s *Shape) Names() []string { return append([]string(nil), s.names...) }

// Has reports whether name is a declared field.
func (s *Shape) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// New builds a Record from values. Keys the Shape does not declare are dropped.
func (s *Shape) New(values map[string]any) Record {
	b := immutable.NewMapBuilder[string, any](nil)
	for k, v := range values {
		if s.Has(k) {
			b.Set(k, v)
		}
	}
	return Record{shape: s, m: b.Map()}
}

// Record is a persistent value with a fixed set of fields. Unset fields read
// as absent.
type Record struct {
	shape *Shape
	m     *immutable.Map[string, any]
}

// IsZero reports whether r was never built from a Shape.
func (r Record) IsZero() bool { return r.shape == nil }

// Shape returns the factory r was built from.
func (r Record) Shape() *Shape { return r.shape }

// Len returns the number of fields currently set.
func (r Record) Len() int {
	if r.m == nil {
		return 0
	}
	return r.m.Len()
}

// Get returns the value of field name and whether it is set.
func (r Record) Get(name string) (any, bool) {
	if r.m == nil {
		return nil, false
	}
	return r.m.Get(name)
}

// Set returns a Record with field name bound to v. Unknown fields are rejected.
func (r Record) Set(name string, v any) (Record, error) {
	if r.shape == nil || !r.shape.Has(name) {
		return r, pathstore.Issues{pathstore.NewIssue(name, pathstore.CodeUnknownField, "")}
	}
	m := r.m
	if m == nil {
		m = immutable.NewMap[string, any](nil)
	}
	return Record{shape: r.shape, m: m.Set(name, v)}, nil
}

// Delete returns a Record with field name unset.
func (r Record) Delete(name string) Record {
	if r.m == nil {
		return r
	}
	return Record{shape: r.shape, m: r.m.Delete(name)}
}

// Range calls fn for each set field in declaration order until fn returns false.
func (r Record) Range(fn func(name string, v any) bool) {
	if r.shape == nil {
		return
	}
	for _, n := range r.shape.names {
		v, ok := r.Get(n)
		if !ok {
			continue
		}
		if !fn(n, v) {
			return
		}
	}
}

// MarshalJSON encodes the set fields as a JSON object.
func (r Record) MarshalJSON() ([]byte, error) { return marshalPlain(r) }
