package pvalue

import (
	"strconv"

	pathstore "github.com/reoring/pathstore"
)

// GetIn returns the value addressed by parts below root and whether every
// segment exists. An empty parts list addresses root itself.
func GetIn(root any, parts []string) (any, bool) {
	cur := root
	for _, p := range parts {
		next, ok := child(cur, p)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func child(cur any, key string) (any, bool) {
	switch c := cur.(type) {
	case Record:
		return c.Get(key)
	case Map:
		return c.Get(key)
	case List:
		i, err := strconv.Atoi(key)
		if err != nil {
			return nil, false
		}
		return c.Get(i)
	}
	return nil, false
}

// SetIn returns a copy of root with the value at parts replaced by v.
// Missing or null intermediates become empty Maps. Scalars, sets, undeclared
// record fields and out-of-range list indexes are reported as Issues with the
// offending path; root is returned unchanged in that case.
func SetIn(root any, parts []string, v any) (any, error) {
	out, err := setIn(root, true, parts, v, pathstore.Root())
	if err != nil {
		return root, err
	}
	return out, nil
}

func setIn(cur any, exists bool, parts []string, v any, at pathstore.PathRef) (any, error) {
	if len(parts) == 0 {
		return v, nil
	}
	if !exists || cur == nil {
		cur = NewMap()
	}
	key := parts[0]
	next := at.Field(key)
	switch c := cur.(type) {
	case Record:
		old, ok := c.Get(key)
		nv, err := setIn(old, ok, parts[1:], v, next)
		if err != nil {
			return nil, err
		}
		r, err := c.Set(key, nv)
		if err != nil {
			return nil, pathstore.Issues{pathstore.IssueAt(next, pathstore.CodeUnknownField, map[string]any{"field": key})}
		}
		return r, nil
	case Map:
		old, ok := c.Get(key)
		nv, err := setIn(old, ok, parts[1:], v, next)
		if err != nil {
			return nil, err
		}
		return c.Set(key, nv), nil
	case List:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i > c.Len() {
			return nil, pathstore.Issues{pathstore.IssueAt(next, pathstore.CodeInvalidIndex, map[string]any{"index": key, "len": c.Len()})}
		}
		old, ok := c.Get(i)
		nv, err := setIn(old, ok, parts[1:], v, next)
		if err != nil {
			return nil, err
		}
		l, _ := c.Set(i, nv)
		return l, nil
	}
	return nil, pathstore.Issues{pathstore.IssueAt(at, pathstore.CodeNotContainer, map[string]any{"segment": key})}
}

// DeleteIn returns a copy of root without the value at parts. Paths that do
// not exist leave root unchanged; the second result reports whether anything
// was removed.
func DeleteIn(root any, parts []string) (any, bool) {
	if len(parts) == 0 {
		return root, false
	}
	key := parts[0]
	if len(parts) == 1 {
		switch c := root.(type) {
		case Record:
			if _, ok := c.Get(key); ok {
				return c.Delete(key), true
			}
		case Map:
			if _, ok := c.Get(key); ok {
				return c.Delete(key), true
			}
		case List:
			if i, err := strconv.Atoi(key); err == nil {
				if _, ok := c.Get(i); ok {
					return c.Delete(i), true
				}
			}
		}
		return root, false
	}
	sub, ok := child(root, key)
	if !ok {
		return root, false
	}
	nsub, changed := DeleteIn(sub, parts[1:])
	if !changed {
		return root, false
	}
	switch c := root.(type) {
	case Record:
		r, _ := c.Set(key, nsub)
		return r, true
	case Map:
		return c.Set(key, nsub), true
	case List:
		i, _ := strconv.Atoi(key)
		l, _ := c.Set(i, nsub)
		return l, true
	}
	return root, false
}
