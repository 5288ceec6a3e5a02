package store

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	pathstore "github.com/reoring/pathstore"
	"github.com/reoring/pathstore/field"
	"github.com/reoring/pathstore/internal/keypath"
	"github.com/reoring/pathstore/record"
	"github.com/reoring/pathstore/subscription"
)

// Items is a keyed collection of records addressed by collection paths of the
// form key.path.inside.record. A path that is only a key addresses the whole
// record.
type Items struct {
	schema  *field.Model
	backend Backend
	subs    *subscription.Manager
	log     logrus.FieldLogger
	metrics *Metrics
	recOpts []record.Option

	// wmu orders writes together with their collection notifications.
	wmu sync.Mutex
}

// Option configures Items.
type Option func(*Items)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(it *Items) { it.log = l }
}

// WithManager publishes collection notifications through m.
func WithManager(m *subscription.Manager) Option {
	return func(it *Items) { it.subs = m }
}

// WithMetrics records operations in m.
func WithMetrics(m *Metrics) Option {
	return func(it *Items) { it.metrics = m }
}

// WithRecordOptions passes opts to every wrapper the collection creates.
func WithRecordOptions(opts ...record.Option) Option {
	return func(it *Items) { it.recOpts = append(it.recOpts, opts...) }
}

// New returns a collection of records shaped by schema and held by backend.
func New(schema *field.Model, backend Backend, opts ...Option) *Items {
	it := &Items{schema: schema, backend: backend}
	for _, o := range opts {
		o(it)
	}
	if it.log == nil {
		it.log = logrus.StandardLogger()
	}
	if it.subs == nil {
		it.subs = subscription.New(subscription.WithLogger(it.log))
	}
	return it
}

// Schema returns the record model shared by every item.
func (it *Items) Schema() *field.Model { return it.schema }

// Backend returns the backend holding the records.
func (it *Items) Backend() Backend { return it.backend }

// Subscriptions returns the manager notified with collection paths.
func (it *Items) Subscriptions() *subscription.Manager { return it.subs }

func (it *Items) single(ctx context.Context, key string) (*record.Wrapper, bool, error) {
	start := time.Now()
	defer it.metrics.observeRetrieval("single", start)
	return it.backend.GetSingleRecordItem(ctx, key)
}

func (it *Items) multiple(ctx context.Context, keys []string) (map[string]*record.Wrapper, error) {
	start := time.Now()
	defer it.metrics.observeRetrieval("multiple", start)
	ws, err := it.backend.GetMultipleRecordItems(ctx, keys)
	if err != nil {
		return nil, err
	}
	var skipped []string
	for _, k := range keys {
		if _, ok := ws[k]; !ok {
			skipped = append(skipped, k)
		}
	}
	if len(skipped) > 0 {
		it.metrics.skipped(len(skipped))
		it.log.WithField("keys", skipped).Debug("records absent; skipped")
	}
	return ws, nil
}

// notify issues one collection notification for the touched paths. Callers
// hold wmu so notifications are requested in write order.
func (it *Items) notify(paths []string) *subscription.Notification {
	return it.subs.TriggerSubscribersForMultipleAttrs(paths)
}

func rebase(key string, rel map[string]any, into map[string]any) {
	for p, v := range rel {
		into[keypath.Join(key, p)] = v
	}
}

// GetAttr returns the value at a collection path. Absent records and absent
// paths both yield ok == false.
func (it *Items) GetAttr(ctx context.Context, path string) (any, bool, error) {
	it.metrics.op("get")
	key, rest, err := keypath.Split(path)
	if err != nil {
		return nil, false, err
	}
	w, ok, err := it.single(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	v, ok := w.Get(rest)
	return v, ok, nil
}

// GetMultipleAttrs resolves every path, fetching each implicated record once.
// Paths that do not resolve are left out of the result.
func (it *Items) GetMultipleAttrs(ctx context.Context, paths []string) (map[string]any, error) {
	it.metrics.op("get_multiple")
	out := make(map[string]any, len(paths))
	groups, err := keypath.GroupPaths(paths)
	if err != nil {
		return nil, err
	}
	if groups.Len() == 0 {
		return out, nil
	}
	ws, err := it.multiple(ctx, groups.Keys())
	if err != nil {
		return nil, err
	}
	for _, key := range groups.Keys() {
		w, ok := ws[key]
		if !ok {
			continue
		}
		rel, _ := groups.Rel(key)
		rebase(key, w.GetMultipleAttrs(rel), out)
	}
	return out, nil
}

// UpdateAttr writes raw at a collection path. A bare key replaces the whole
// record with raw loaded through the schema, creating it when absent. Writes
// inside an absent record are skipped.
func (it *Items) UpdateAttr(ctx context.Context, path string, raw any) (record.Change, error) {
	res, err := it.UpdateMultipleAttrs(ctx, map[string]any{path: raw})
	if err != nil {
		return record.Change{Notification: res.Notification}, err
	}
	old, existed := res.Old[path]
	return record.Change{Old: old, Existed: existed, Notification: res.Notification}, nil
}

// UpdateMultipleAttrs groups the batch by record key and hands every group to
// its record's batched update. Old and Paths are collection paths. Each record
// applies its part independently; the first failing record stops the batch and
// its error is returned together with what was applied before it. A malformed
// path rejects the batch before anything is written.
func (it *Items) UpdateMultipleAttrs(ctx context.Context, mutators map[string]any) (record.BatchChange, error) {
	it.metrics.op("update")
	res := record.BatchChange{Old: map[string]any{}, Notification: subscription.Resolved()}
	groups, err := keypath.GroupMap(mutators)
	if err != nil {
		return res, err
	}
	if groups.Len() == 0 {
		return res, nil
	}
	it.wmu.Lock()
	defer it.wmu.Unlock()
	ws, err := it.multiple(ctx, groups.Keys())
	if err != nil {
		return res, err
	}
	var firstErr error
	for _, key := range groups.Keys() {
		rel, vals := groups.Rel(key)
		batch := make(map[string]any, len(rel))
		var whole any
		hasWhole := false
		for i, p := range rel {
			if p == "" {
				whole, hasWhole = vals[i], true
				continue
			}
			batch[p] = vals[i]
		}
		w, ok := ws[key]
		if hasWhole {
			nw, old, existed, err := it.replace(ctx, key, w, ok, whole)
			if err != nil {
				firstErr = err
				break
			}
			if existed {
				res.Old[key] = old
			}
			res.Paths = append(res.Paths, key)
			w, ok = nw, true
		}
		if len(batch) == 0 {
			continue
		}
		if !ok {
			continue
		}
		sub, err := w.UpdateMultipleAttrs(batch)
		if err != nil {
			firstErr = pathstore.RebaseError(err, key)
			break
		}
		if !hasWhole {
			rebase(key, sub.Old, res.Old)
		}
		for _, p := range sub.Paths {
			res.Paths = append(res.Paths, keypath.Join(key, p))
		}
	}
	res.Notification = it.notify(res.Paths)
	return res, firstErr
}

// replace installs raw as the whole record under key.
func (it *Items) replace(ctx context.Context, key string, w *record.Wrapper, exists bool, raw any) (*record.Wrapper, any, bool, error) {
	if exists {
		old := w.Record()
		if _, err := w.UpdateRecordFromData(raw); err != nil {
			if !pathstore.IsSchemaViolation(err) {
				return nil, nil, false, pathstore.RebaseError(err, key)
			}
			it.log.WithField("key", key).WithError(err).Warn("record violates schema")
		}
		return w, old, true, nil
	}
	nw, err := record.FromData(it.schema, raw, it.recOpts...)
	if err != nil {
		if !pathstore.IsSchemaViolation(err) {
			return nil, nil, false, pathstore.RebaseError(err, key)
		}
		it.log.WithField("key", key).WithError(err).Warn("record violates schema")
	}
	if err := it.backend.PutRecordItem(ctx, key, nw); err != nil {
		return nil, nil, false, err
	}
	return nw, nil, false, nil
}

// DeleteAttr removes the value at a collection path. A bare key removes the
// whole record.
func (it *Items) DeleteAttr(ctx context.Context, path string) (*subscription.Notification, error) {
	res, err := it.remove(ctx, "delete", []string{path})
	return res.Notification, err
}

// DeleteMultipleAttrs removes every path, record by record.
func (it *Items) DeleteMultipleAttrs(ctx context.Context, paths []string) (*subscription.Notification, error) {
	res, err := it.remove(ctx, "delete", paths)
	return res.Notification, err
}

// RemoveAttr is DeleteAttr that also returns the removed value.
func (it *Items) RemoveAttr(ctx context.Context, path string) (record.Change, error) {
	res, err := it.remove(ctx, "remove", []string{path})
	if err != nil {
		return record.Change{Notification: res.Notification}, err
	}
	old, existed := res.Old[path]
	return record.Change{Old: old, Existed: existed, Notification: res.Notification}, nil
}

// RemoveMultipleAttrs is DeleteMultipleAttrs that also returns the removed
// values keyed by collection path.
func (it *Items) RemoveMultipleAttrs(ctx context.Context, paths []string) (record.BatchChange, error) {
	return it.remove(ctx, "remove", paths)
}

func (it *Items) remove(ctx context.Context, op string, paths []string) (record.BatchChange, error) {
	it.metrics.op(op)
	res := record.BatchChange{Old: map[string]any{}, Notification: subscription.Resolved()}
	groups, err := keypath.GroupPaths(paths)
	if err != nil {
		return res, err
	}
	if groups.Len() == 0 {
		return res, nil
	}
	it.wmu.Lock()
	defer it.wmu.Unlock()
	ws, err := it.multiple(ctx, groups.Keys())
	if err != nil {
		return res, err
	}
	var firstErr error
	for _, key := range groups.Keys() {
		w, ok := ws[key]
		if !ok {
			continue
		}
		rel, _ := groups.Rel(key)
		whole := false
		for _, p := range rel {
			whole = whole || p == ""
		}
		if whole {
			if _, _, err := it.backend.DeleteRecordItem(ctx, key); err != nil {
				firstErr = err
				break
			}
			res.Old[key] = w.Record()
			res.Paths = append(res.Paths, key)
			continue
		}
		sub, err := w.RemoveMultipleAttrs(rel)
		if err != nil {
			firstErr = pathstore.RebaseError(err, key)
			break
		}
		rebase(key, sub.Old, res.Old)
		for _, p := range sub.Paths {
			res.Paths = append(res.Paths, keypath.Join(key, p))
		}
	}
	res.Notification = it.notify(res.Paths)
	return res, firstErr
}

// LoadFromData builds a record for every key of data and replaces the whole
// collection with them, then notifies every subscriber. Records that only
// miss required fields are kept; their violations are returned together,
// prefixed with the record key. Any other load error leaves the collection
// untouched.
func (it *Items) LoadFromData(ctx context.Context, data map[string]any) (*subscription.Notification, error) {
	it.metrics.op("load")
	items := make(map[string]*record.Wrapper, len(data))
	var violations pathstore.Issues
	for _, key := range pathstore.SortedKeys(data) {
		w, err := record.FromData(it.schema, data[key], it.recOpts...)
		if err != nil {
			if !pathstore.IsSchemaViolation(err) {
				return subscription.Resolved(), pathstore.RebaseError(err, key)
			}
			iss, _ := pathstore.AsIssues(err)
			violations = pathstore.AppendIssues(violations, iss.Rebase(key)...)
		}
		items[key] = w
	}
	it.wmu.Lock()
	defer it.wmu.Unlock()
	if err := it.backend.ReplaceRecordItems(ctx, items); err != nil {
		return subscription.Resolved(), err
	}
	n := it.subs.TriggerAllSubscribers()
	it.log.WithFields(logrus.Fields{"records": len(items), "notification": n.ID().String()}).Debug("collection loaded")
	if len(violations) > 0 {
		return n, violations
	}
	return n, nil
}
