package pathstore

import (
	"sort"
	"strings"
	"sync"
)

// Presence is the bit flag collected by metadata-aware loads.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Default value was applied.
	PresenceMissing                             // Required field was absent and left unset.
)

// PresenceMap maps dotted paths to Presence flags. The root is "".
type PresenceMap map[string]Presence

// Has reports whether every flag in f is set for path.
func (pm PresenceMap) Has(path string, f Presence) bool {
	return pm[path]&f == f
}

// Paths returns the recorded paths in ascending order.
func (pm PresenceMap) Paths() []string {
	out := make([]string, 0, len(pm))
	for k := range pm {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Filter keeps the paths under any include prefix (all when include is empty)
// and drops the paths under any exclude prefix.
func (pm PresenceMap) Filter(include, exclude []string, intern bool) PresenceMap {
	if pm == nil {
		return nil
	}
	filtered := make(PresenceMap, len(pm))

	shouldInclude := func(path string) bool {
		if len(include) > 0 {
			ok := false
			for _, p := range include {
				if HasPathPrefix(path, p) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
		for _, p := range exclude {
			if HasPathPrefix(path, p) {
				return false
			}
		}
		return true
	}

	for k, v := range pm {
		if !shouldInclude(k) {
			continue
		}
		key := k
		if intern {
			key = internString(k)
		}
		filtered[key] = v
	}
	return filtered
}

// Rebase returns a copy with prefix prepended to every path.
func (pm PresenceMap) Rebase(prefix string) PresenceMap {
	if pm == nil {
		return nil
	}
	out := make(PresenceMap, len(pm))
	for k, v := range pm {
		out[JoinPath(prefix, k)] = v
	}
	return out
}

// MergePresenceMaps returns a new PresenceMap that is the bitwise-OR merge of a and b.
func MergePresenceMaps(a, b PresenceMap) PresenceMap {
	if a == nil && b == nil {
		return nil
	}
	// pre-size roughly
	out := make(PresenceMap, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] |= v
	}
	return out
}

// String renders the flags as a compact list, e.g. "seen|default".
func (p Presence) String() string {
	var names []string
	if p&PresenceSeen != 0 {
		names = append(names, "seen")
	}
	if p&PresenceWasNull != 0 {
		names = append(names, "null")
	}
	if p&PresenceDefaultApplied != 0 {
		names = append(names, "default")
	}
	if p&PresenceMissing != 0 {
		names = append(names, "missing")
	}
	return strings.Join(names, "|")
}

// simple string interner for PresenceMap keys
var (
	_internMu   sync.RWMutex
	_internPool = map[string]string{}
)

func internString(s string) string {
	_internMu.RLock()
	if v, ok := _internPool[s]; ok {
		_internMu.RUnlock()
		return v
	}
	_internMu.RUnlock()

	_internMu.Lock()
	if v, ok := _internPool[s]; ok { // double-check
		_internMu.Unlock()
		return v
	}
	_internPool[s] = s
	_internMu.Unlock()
	return s
}
