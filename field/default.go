package field

import (
	pathstore "github.com/reoring/pathstore"
	"github.com/reoring/pathstore/pvalue"
)

// MakeDefault returns the value m takes when it is initialized without data:
// Scalar and Set yield their configured default or nothing, Record
// synthesizes a full record from its fields' defaults, Dict yields an empty
// mapping. Violations met while synthesizing are logged; use Synthesize to
// receive them.
func (m *Model) MakeDefault() (any, bool) {
	v, ok, _ := m.makeDefault(pathstore.Root(), nil)
	return v, ok
}

// Synthesize is MakeDefault that also returns the Issues for required fields
// that have no default.
func (m *Model) Synthesize() (any, bool, error) {
	v, ok, iss := m.makeDefault(pathstore.Root(), nil)
	if len(iss) > 0 {
		return v, ok, iss
	}
	return v, ok, nil
}

func (m *Model) makeDefault(at pathstore.PathRef, pm pathstore.PresenceMap) (any, bool, pathstore.Issues) {
	switch m.kind {
	case KindRecord:
		// An empty input runs every field through its default path; required
		// fields are synthesized rather than reported when they can be.
		values := make(map[string]any, m.fields.Len())
		var iss pathstore.Issues
		for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
			k, child := pair.Key, pair.Value
			p := at.Field(k)
			v, ok, i2 := child.resolveDefault(p, pm)
			iss = pathstore.AppendIssues(iss, i2...)
			if ok {
				mark(pm, p, pathstore.PresenceDefaultApplied)
				values[k] = v
				continue
			}
			if child.required {
				mark(pm, p, pathstore.PresenceMissing)
				iss = pathstore.AppendIssues(iss, pathstore.IssueAt(p, pathstore.CodeRequired, map[string]any{"field": k}))
				logger.WithField("path", p.Dotted()).Warn("required field has no default; left unset")
			}
		}
		if len(iss) == 0 {
			iss = nil
		}
		return m.shape.New(values), true, iss
	case KindDict:
		return pvalue.NewMap(), true, nil
	}
	return m.resolveDefault(at, pm)
}

// resolveDefault computes the value an absent field takes inside its parent.
// Configured defaults are resolved (functions invoked once) and converted by
// m's own loader; an absent required record is synthesized.
func (m *Model) resolveDefault(at pathstore.PathRef, pm pathstore.PresenceMap) (any, bool, pathstore.Issues) {
	if raw, ok := m.def.resolve(); ok {
		return m.load(raw, at, pm)
	}
	if m.kind == KindRecord && m.required {
		return m.makeDefault(at, pm)
	}
	return nil, false, nil
}
