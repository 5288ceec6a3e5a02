package field

import pathstore "github.com/reoring/pathstore"

// Navigate returns the model governing parts[0] and the remaining parts.
// A Record matches parts[0] against its declared fields; a Dict accepts any
// key and descends into its item model. ok is false when no model governs
// parts[0]. With no parts, m itself is returned. Navigate never touches data.
func (m *Model) Navigate(parts []string) (next *Model, rest []string, ok bool) {
	if len(parts) == 0 {
		return m, parts, true
	}
	switch m.kind {
	case KindRecord:
		if c, found := m.fields.Get(parts[0]); found {
			return c, parts[1:], true
		}
	case KindDict:
		if item := m.Item(); item != nil {
			return item, parts[1:], true
		}
	}
	return nil, parts, false
}

// Resolve walks a dotted path from m and returns the model governing its
// last segment.
func (m *Model) Resolve(path string) (*Model, bool) {
	cur, rest := m, pathstore.SplitPath(path)
	for len(rest) > 0 {
		next, r, ok := cur.Navigate(rest)
		if !ok {
			return nil, false
		}
		cur, rest = next, r
	}
	return cur, true
}
