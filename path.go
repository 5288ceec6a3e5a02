package pathstore

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Separator splits a key path into its segments.
const Separator = "."

// SplitPath breaks a dotted key path into segments. The empty path has no
// segments and addresses the root.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// JoinPath joins segments into a dotted key path, skipping empty segments.
func JoinPath(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, Separator)
}

// HasPathPrefix reports whether prefix addresses path itself or one of its
// ancestors. Matching is per segment: "a.b" is a prefix of "a.b.c" but not of
// "a.bc". The empty prefix matches every path.
func HasPathPrefix(path, prefix string) bool {
	if prefix == "" || path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix) && path[len(prefix)] == Separator[0]
}

// PathsOverlap reports whether a change at one path can affect the other,
// which is the case when either is an ancestor of (or equal to) the other.
func PathsOverlap(a, b string) bool {
	return HasPathPrefix(a, b) || HasPathPrefix(b, a)
}

// SortedKeys returns the paths of a path-keyed batch in sorted order.
func SortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// PathRef builds dotted paths in a chain-safe way and creates Issues.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Parts() []string
	Dotted() string
	Issue(code, msg string, kv ...any) Issue
}

// Root returns an empty PathRef addressing the document root.
func Root() PathRef { return &pathRef{parts: nil} }

// At returns a PathRef for an existing dotted path.
func At(path string) PathRef { return &pathRef{parts: SplitPath(path)} }

type pathRef struct {
	parts []string
}

func (p *pathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	return &pathRef{parts: append(append([]string{}, p.parts...), name)}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p *pathRef) Parts() []string { return append([]string(nil), p.parts...) }

func (p *pathRef) Dotted() string { return strings.Join(p.parts, Separator) }

func (p *pathRef) Issue(code, msg string, kv ...any) Issue {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return Issue{Path: p.Dotted(), Code: code, Message: msg, Params: m}
}
