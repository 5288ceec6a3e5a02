package field

import (
	"reflect"

	"github.com/sirupsen/logrus"

	pathstore "github.com/reoring/pathstore"
	"github.com/reoring/pathstore/pvalue"
)

// Load converts loosely typed input into the persistent form of m:
//
//   - Scalar: deep conversion (pvalue.FromJS).
//   - Set: a pvalue.Set of the elements of an array-like input; any other
//     input yields the empty set.
//   - Record: nil input yields no value (ok == false). Declared fields present
//     in the input are loaded by their models, absent optional fields take
//     their defaults, absent required fields stay unset and are reported.
//     Undeclared input keys are ignored.
//   - Dict: every entry is loaded by the item model.
//
// The returned error, when non-nil, is pathstore.Issues. If it only reports
// missing required fields (see pathstore.IsSchemaViolation) the returned
// value is still the usable partial result.
func (m *Model) Load(raw any) (any, bool, error) {
	v, ok, iss := m.load(raw, pathstore.Root(), nil)
	if len(iss) > 0 {
		return v, ok, iss
	}
	return v, ok, nil
}

// LoadWithMeta is like Load but also reports which paths were seen, null,
// defaulted or missing, filtered by opt.
func (m *Model) LoadWithMeta(raw any, opt pathstore.PresenceOpt) (pathstore.Decoded, error) {
	pm := pathstore.PresenceMap{"": pathstore.PresenceSeen}
	v, ok, iss := m.load(raw, pathstore.Root(), pm)
	dm := pathstore.Decoded{Value: v, Present: ok, Presence: opt.Apply(pm)}
	if len(iss) > 0 {
		return dm, iss
	}
	return dm, nil
}

func (m *Model) load(raw any, at pathstore.PathRef, pm pathstore.PresenceMap) (any, bool, pathstore.Issues) {
	switch m.kind {
	case KindScalar:
		return pvalue.FromJS(raw), true, nil
	case KindSet:
		return loadSet(raw), true, nil
	case KindRecord:
		if raw == nil {
			return nil, false, nil
		}
		return m.loadRecord(entries(raw), at, pm)
	case KindDict:
		return m.loadDict(raw, at, pm)
	}
	return nil, false, nil
}

func loadSet(raw any) pvalue.Set {
	switch t := raw.(type) {
	case pvalue.Set:
		return t
	case pvalue.List:
		return pvalue.NewSet(t.Values()...)
	case []any:
		vals := make([]any, len(t))
		for i, e := range t {
			vals[i] = pvalue.FromJS(e)
		}
		return pvalue.NewSet(vals...)
	case string, []byte:
		return pvalue.NewSet()
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		vals := make([]any, rv.Len())
		for i := range vals {
			vals[i] = pvalue.FromJS(rv.Index(i).Interface())
		}
		return pvalue.NewSet(vals...)
	}
	return pvalue.NewSet()
}

func (m *Model) loadRecord(src map[string]any, at pathstore.PathRef, pm pathstore.PresenceMap) (any, bool, pathstore.Issues) {
	values := make(map[string]any, m.fields.Len())
	var iss pathstore.Issues
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		k, child := pair.Key, pair.Value
		p := at.Field(k)
		if val, exists := src[k]; exists {
			mark(pm, p, pathstore.PresenceSeen)
			if val == nil {
				mark(pm, p, pathstore.PresenceWasNull)
			}
			v, ok, i2 := child.load(val, p, pm)
			iss = pathstore.AppendIssues(iss, i2...)
			if ok {
				values[k] = v
			}
			continue
		}
		if child.required {
			mark(pm, p, pathstore.PresenceMissing)
			iss = pathstore.AppendIssues(iss, pathstore.IssueAt(p, pathstore.CodeRequired, map[string]any{"field": k}))
			logger.WithFields(logrus.Fields{"field": k, "path": p.Dotted()}).Warn("required field missing; left unset")
			continue
		}
		v, ok, i2 := child.resolveDefault(p, pm)
		iss = pathstore.AppendIssues(iss, i2...)
		if ok {
			mark(pm, p, pathstore.PresenceDefaultApplied)
			values[k] = v
		}
	}
	if len(iss) == 0 {
		iss = nil
	}
	return m.shape.New(values), true, iss
}

func (m *Model) loadDict(raw any, at pathstore.PathRef, pm pathstore.PresenceMap) (any, bool, pathstore.Issues) {
	item := m.Item()
	out := pvalue.NewMap()
	if item == nil {
		return out, true, nil
	}
	var iss pathstore.Issues
	for k, val := range entries(raw) {
		p := at.Field(k)
		mark(pm, p, pathstore.PresenceSeen)
		v, ok, i2 := item.load(val, p, pm)
		iss = pathstore.AppendIssues(iss, i2...)
		if ok {
			out = out.Set(k, v)
		}
	}
	if len(iss) == 0 {
		iss = nil
	}
	return out, true, iss
}

// entries returns a shallow string-keyed view of a map-like input. Anything
// that is not map-like has no entries.
func entries(raw any) map[string]any {
	switch t := raw.(type) {
	case map[string]any:
		return t
	case pvalue.Map:
		out := make(map[string]any, t.Len())
		t.Range(func(k string, v any) bool {
			out[k] = v
			return true
		})
		return out
	case pvalue.Record:
		out := make(map[string]any, t.Len())
		t.Range(func(k string, v any) bool {
			out[k] = v
			return true
		})
		return out
	case nil:
		return nil
	}
	if rv := reflect.ValueOf(raw); rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out
	}
	return nil
}

func mark(pm pathstore.PresenceMap, p pathstore.PathRef, f pathstore.Presence) {
	if pm != nil {
		pm[p.Dotted()] |= f
	}
}
