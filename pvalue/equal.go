package pvalue

import (
	"hash/fnv"
	"reflect"
	"strconv"

	json "github.com/goccy/go-json"
)

// Equal reports whether a and b hold the same data. Containers compare by
// value; numbers compare by numeric value regardless of their Go type.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case Map:
		y, ok := b.(Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		eq := true
		x.Range(func(k string, v any) bool {
			w, ok := y.Get(k)
			eq = ok && Equal(v, w)
			return eq
		})
		return eq
	case Record:
		y, ok := b.(Record)
		if !ok || x.Len() != y.Len() {
			return false
		}
		eq := true
		x.Range(func(k string, v any) bool {
			w, ok := y.Get(k)
			eq = ok && Equal(v, w)
			return eq
		})
		return eq
	case List:
		y, ok := b.(List)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			v, _ := x.Get(i)
			w, _ := y.Get(i)
			if !Equal(v, w) {
				return false
			}
		}
		return true
	case Set:
		y, ok := b.(Set)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, v := range x.Values() {
			if !y.Has(v) {
				return false
			}
		}
		return true
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// canonicalKey renders v so that Equal values render identically.
func canonicalKey(v any) string {
	if f, ok := toFloat(v); ok {
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	b, err := json.Marshal(canonicalPlain(v))
	if err != nil {
		return "?"
	}
	return string(b)
}

// canonicalPlain is ToJS with numbers folded to float64 so hashing agrees
// with Equal.
func canonicalPlain(v any) any {
	switch t := v.(type) {
	case Map, Record:
		m := ToJS(t).(map[string]any)
		for k, e := range m {
			m[k] = canonicalPlain(e)
		}
		return m
	case List, Set:
		s := ToJS(t).([]any)
		for i, e := range s {
			s[i] = canonicalPlain(e)
		}
		return s
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = canonicalPlain(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = canonicalPlain(e)
		}
		return s
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}

// valueHasher hashes set members by their canonical encoding.
type valueHasher struct{}

func (valueHasher) Hash(v any) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(canonicalKey(v)))
	return h.Sum32()
}

func (valueHasher) Equal(a, b any) bool { return Equal(a, b) }
