// Package keypath splits collection-relative paths into a record key and the
// path inside that record, and groups batches by key.
package keypath

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	pathstore "github.com/reoring/pathstore"
)

// Split returns the record key selected by the first segment of path and the
// dotted remainder. Only a bare key, with no separator, addresses the whole
// record. The empty path yields ErrEmptyPath and a path with an empty segment
// yields an invalid_path Issue.
func Split(path string) (key, rest string, err error) {
	if path == "" {
		return "", "", pathstore.ErrEmptyPath
	}
	parts := pathstore.SplitPath(path)
	for _, p := range parts {
		if p == "" {
			return "", "", pathstore.Issues{pathstore.NewIssue(path, pathstore.CodeInvalidPath, "remove the empty segment")}
		}
	}
	return parts[0], pathstore.JoinPath(parts[1:]...), nil
}

// Join is the inverse of Split.
func Join(key, rest string) string { return pathstore.JoinPath(key, rest) }

// Groups maps record keys to their relative sub-batches, in the order keys
// first appear in the input.
type Groups[V any] struct {
	om *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, V]]
}

// Group splits every path of a batch and buckets it under its record key.
// A later duplicate path replaces the earlier value. The first path Split
// rejects fails the whole batch.
func Group[V any](paths []string, value func(i int) V) (Groups[V], error) {
	g := Groups[V]{om: orderedmap.New[string, *orderedmap.OrderedMap[string, V]]()}
	for i, p := range paths {
		key, rest, err := Split(p)
		if err != nil {
			return Groups[V]{}, err
		}
		sub, ok := g.om.Get(key)
		if !ok {
			sub = orderedmap.New[string, V]()
			g.om.Set(key, sub)
		}
		sub.Set(rest, value(i))
	}
	return g, nil
}

// GroupPaths groups a plain list of paths.
func GroupPaths(paths []string) (Groups[struct{}], error) {
	return Group(paths, func(int) struct{} { return struct{}{} })
}

// GroupMap groups a path-keyed batch. Map iteration order is not stable, so
// paths are taken in sorted order.
func GroupMap[V any](batch map[string]V) (Groups[V], error) {
	paths := pathstore.SortedKeys(batch)
	return Group(paths, func(i int) V { return batch[paths[i]] })
}

// Len returns the number of distinct record keys.
func (g Groups[V]) Len() int {
	if g.om == nil {
		return 0
	}
	return g.om.Len()
}

// Keys returns the record keys in first-appearance order.
func (g Groups[V]) Keys() []string {
	out := make([]string, 0, g.Len())
	if g.om == nil {
		return out
	}
	for pair := g.om.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Rel returns the relative paths and values for key, in input order.
func (g Groups[V]) Rel(key string) ([]string, []V) {
	if g.om == nil {
		return nil, nil
	}
	sub, ok := g.om.Get(key)
	if !ok {
		return nil, nil
	}
	paths := make([]string, 0, sub.Len())
	vals := make([]V, 0, sub.Len())
	for pair := sub.Oldest(); pair != nil; pair = pair.Next() {
		paths = append(paths, pair.Key)
		vals = append(vals, pair.Value)
	}
	return paths, vals
}
