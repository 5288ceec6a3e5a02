package field

import (
	pathstore "github.com/reoring/pathstore"
)

// Register records parent as m's enclosing model and recurses into m's
// children. Registering again under the same parent is a no-op; registering
// under a different parent fails with code "already_registered", because a
// model instance can occupy only one position in one tree.
func (m *Model) Register(parent *Model) error {
	return m.register(parent, pathstore.Root())
}

func (m *Model) register(parent *Model, at pathstore.PathRef) error {
	if m.parent != nil && m.parent != parent {
		return pathstore.Issues{pathstore.IssueAt(at, pathstore.CodeAlreadyRegistered, nil)}
	}
	if m == parent {
		return pathstore.Issues{pathstore.IssueAt(at, pathstore.CodeInvalidSchema, map[string]any{"reason": "model registered under itself"})}
	}
	m.parent = parent
	switch m.kind {
	case KindRecord:
		var iss pathstore.Issues
		for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
			if err := pair.Value.register(m, at.Field(pair.Key)); err != nil {
				if i2, ok := pathstore.AsIssues(err); ok {
					iss = pathstore.AppendIssues(iss, i2...)
				}
			}
		}
		if len(iss) > 0 {
			return iss
		}
	case KindDict:
		if m.itemSelf {
			if parent == nil || parent.kind != KindRecord {
				return pathstore.Issues{pathstore.IssueAt(at, pathstore.CodeInvalidSchema, map[string]any{"reason": "self dictionary needs an enclosing record"})}
			}
			return nil
		}
		if m.item == nil {
			return pathstore.Issues{pathstore.IssueAt(at, pathstore.CodeInvalidSchema, map[string]any{"reason": "dictionary item model is nil"})}
		}
		return m.item.register(m, at.Field("*"))
	}
	return nil
}

// NewSchema registers root as the top of a schema tree and returns it.
// Root must be a Record.
func NewSchema(root *Model) (*Model, error) {
	if root == nil || root.kind != KindRecord {
		return nil, pathstore.Issues{pathstore.NewIssue("", pathstore.CodeInvalidSchema, "schema root must be a record")}
	}
	if err := root.Register(root.parent); err != nil {
		return nil, err
	}
	return root, nil
}
