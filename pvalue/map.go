package pvalue

import (
	"sort"

	"github.com/benbjohnson/immutable"
)

// Map is a persistent mapping from string keys to values.
// The zero Map is empty and ready to use.
type Map struct {
	m *immutable.Map[string, any]
}

// NewMap returns an empty Map.
func NewMap() Map { return Map{} }

// MapOf converts entries (shallowly) into a Map. Values are stored as given.
func MapOf(entries map[string]any) Map {
	b := immutable.NewMapBuilder[string, any](nil)
	for k, v := range entries {
		b.Set(k, v)
	}
	return Map{m: b.Map()}
}

func (m Map) tree() *immutable.Map[string, any] {
	if m.m == nil {
		return immutable.NewMap[string, any](nil)
	}
	return m.m
}

// Len returns the number of entries.
func (m Map) Len() int {
	if m.m == nil {
		return 0
	}
	return m.m.Len()
}

// Get returns the value for key and whether it was present.
func (m Map) Get(key string) (any, bool) {
	if m.m == nil {
		return nil, false
	}
	return m.m.Get(key)
}

// Set returns a Map with key bound to v.
func (m Map) Set(key string, v any) Map { return Map{m: m.tree().Set(key, v)} }

// Delete returns a Map without key.
func (m Map) Delete(key string) Map {
	if m.m == nil {
		return m
	}
	return Map{m: m.m.Delete(key)}
}

// Keys returns the keys in ascending order.
func (m Map) Keys() []string {
	if m.m == nil {
		return nil
	}
	keys := make([]string, 0, m.m.Len())
	itr := m.m.Iterator()
	for !itr.Done() {
		k, _, _ := itr.Next()
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Range calls fn for each entry in ascending key order until fn returns false.
func (m Map) Range(fn func(key string, v any) bool) {
	for _, k := range m.Keys() {
		v, _ := m.m.Get(k)
		if !fn(k, v) {
			return
		}
	}
}

// MarshalJSON encodes the map as a JSON object.
func (m Map) MarshalJSON() ([]byte, error) { return marshalPlain(m) }
