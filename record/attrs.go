package record

import (
	pathstore "github.com/reoring/pathstore"
	"github.com/reoring/pathstore/pvalue"
	"github.com/reoring/pathstore/subscription"
)

// Get returns the value at path and whether it exists. The empty path
// returns the whole document.
func (w *Wrapper) Get(path string) (any, bool) {
	doc := w.Record()
	if doc == nil {
		return nil, false
	}
	return pvalue.GetIn(doc, pathstore.SplitPath(path))
}

// GetAttr is an alias of Get.
func (w *Wrapper) GetAttr(path string) (any, bool) { return w.Get(path) }

// GetMultipleAttrs resolves every path against one snapshot. Paths that do
// not exist are omitted from the result.
func (w *Wrapper) GetMultipleAttrs(paths []string) map[string]any {
	doc := w.Record()
	out := make(map[string]any, len(paths))
	if doc == nil {
		return out
	}
	for _, p := range paths {
		if v, ok := pvalue.GetIn(doc, pathstore.SplitPath(p)); ok {
			out[p] = v
		}
	}
	return out
}

// UpdateAttr stores raw (deep converted) at path and returns the prior value.
func (w *Wrapper) UpdateAttr(path string, raw any) (Change, error) {
	parts := pathstore.SplitPath(path)
	if len(parts) == 0 {
		return Change{Notification: subscription.Resolved()}, pathstore.ErrEmptyPath
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	doc := w.Record()
	old, existed := pvalue.GetIn(doc, parts)
	next, err := pvalue.SetIn(doc, parts, pvalue.FromJS(raw))
	if err != nil {
		return Change{Notification: subscription.Resolved()}, err
	}
	v := w.install(next)
	n := w.subs.TriggerSubscribersForAttr(path)
	w.trace("update", v, n)
	return Change{Old: old, Existed: existed, Notification: n}, nil
}

// UpdateMultipleAttrs applies a batch of writes. Prior values are read from
// the document as it was before the batch; the writes are applied in path
// order to one working document which is installed once. An error from any
// write aborts the whole batch.
func (w *Wrapper) UpdateMultipleAttrs(mutators map[string]any) (BatchChange, error) {
	res := BatchChange{Old: map[string]any{}, Notification: subscription.Resolved()}
	if len(mutators) == 0 {
		return res, nil
	}
	paths := pathstore.SortedKeys(mutators)
	for _, p := range paths {
		if p == "" {
			return res, pathstore.ErrEmptyPath
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	orig := w.Record()
	work := orig
	for _, p := range paths {
		parts := pathstore.SplitPath(p)
		if old, ok := pvalue.GetIn(orig, parts); ok {
			res.Old[p] = old
		}
		next, err := pvalue.SetIn(work, parts, pvalue.FromJS(mutators[p]))
		if err != nil {
			res.Old = map[string]any{}
			return res, err
		}
		work = next
	}
	v := w.install(work)
	res.Paths = paths
	res.Notification = w.subs.TriggerSubscribersForMultipleAttrs(paths)
	w.trace("update", v, res.Notification)
	return res, nil
}

// DeleteAttr removes the value at path. Deleted fields read as absent
// afterwards; they do not fall back to the schema default. Deleting a path
// that does not exist changes nothing.
func (w *Wrapper) DeleteAttr(path string) (*subscription.Notification, error) {
	res, err := w.remove([]string{path})
	return res.Notification, err
}

// DeleteMultipleAttrs removes every path in one write.
func (w *Wrapper) DeleteMultipleAttrs(paths []string) (*subscription.Notification, error) {
	res, err := w.remove(paths)
	return res.Notification, err
}

// RemoveAttr is DeleteAttr that also returns the removed value.
func (w *Wrapper) RemoveAttr(path string) (Change, error) {
	res, err := w.remove([]string{path})
	if err != nil {
		return Change{Notification: res.Notification}, err
	}
	old, existed := res.Old[path]
	return Change{Old: old, Existed: existed, Notification: res.Notification}, nil
}

// RemoveMultipleAttrs is DeleteMultipleAttrs that also returns the removed
// values. Each prior value is captured independently from the document as it
// was before the batch.
func (w *Wrapper) RemoveMultipleAttrs(paths []string) (BatchChange, error) {
	return w.remove(paths)
}

func (w *Wrapper) remove(paths []string) (BatchChange, error) {
	res := BatchChange{Old: map[string]any{}, Notification: subscription.Resolved()}
	if len(paths) == 0 {
		return res, nil
	}
	for _, p := range paths {
		if p == "" {
			return res, pathstore.ErrEmptyPath
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	orig := w.Record()
	work := orig
	for _, p := range paths {
		parts := pathstore.SplitPath(p)
		old, ok := pvalue.GetIn(orig, parts)
		if !ok {
			continue
		}
		if _, seen := res.Old[p]; seen {
			continue
		}
		res.Old[p] = old
		// a path below an already removed ancestor is gone from work
		if next, changed := pvalue.DeleteIn(work, parts); changed {
			work = next
		}
		res.Paths = append(res.Paths, p)
	}
	if len(res.Paths) == 0 {
		return res, nil
	}
	v := w.install(work)
	res.Notification = w.subs.TriggerSubscribersForMultipleAttrs(res.Paths)
	w.trace("delete", v, res.Notification)
	return res, nil
}
