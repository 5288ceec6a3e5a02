package pvalue

import (
	"reflect"

	json "github.com/goccy/go-json"
)

// FromJS deep-converts loosely typed data into persistent form: maps with
// string keys become Map, slices and arrays become List, persistent values and
// scalars pass through unchanged. The result never aliases v.
func FromJS(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Map, List, Set, Record:
		return t
	case map[string]any:
		b := make(map[string]any, len(t))
		for k, e := range t {
			b[k] = FromJS(e)
		}
		return MapOf(b)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = FromJS(e)
		}
		return NewList(out...)
	case string, bool, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return t
	case []byte:
		return append([]byte(nil), t...)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		b := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			b[iter.Key().String()] = FromJS(iter.Value().Interface())
		}
		return MapOf(b)
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = FromJS(rv.Index(i).Interface())
		}
		return NewList(out...)
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return FromJS(rv.Elem().Interface())
	}
	return v
}

// ToJS converts persistent values back into plain Go data: Map and Record
// become map[string]any, List and Set become []any.
func ToJS(v any) any {
	switch t := v.(type) {
	case Map:
		out := make(map[string]any, t.Len())
		t.Range(func(k string, e any) bool {
			out[k] = ToJS(e)
			return true
		})
		return out
	case Record:
		out := make(map[string]any, t.Len())
		t.Range(func(k string, e any) bool {
			out[k] = ToJS(e)
			return true
		})
		return out
	case List:
		vals := t.Values()
		for i, e := range vals {
			vals[i] = ToJS(e)
		}
		return vals
	case Set:
		vals := t.Values()
		for i, e := range vals {
			vals[i] = ToJS(e)
		}
		return vals
	}
	return v
}

// FromJSON decodes a JSON document and converts it with FromJS.
func FromJSON(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return FromJS(raw), nil
}

// Marshal encodes any persistent or plain value as JSON.
func Marshal(v any) ([]byte, error) { return json.Marshal(ToJS(v)) }

func marshalPlain(v any) ([]byte, error) { return json.Marshal(ToJS(v)) }
