package record

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	pathstore "github.com/reoring/pathstore"
	"github.com/reoring/pathstore/field"
	"github.com/reoring/pathstore/pvalue"
	"github.com/reoring/pathstore/subscription"
)

// Wrapper holds the current document of one record together with its schema.
type Wrapper struct {
	mu     sync.Mutex // serializes writers
	cur    atomic.Pointer[snapshot]
	schema *field.Model
	subs   *subscription.Manager
	log    logrus.FieldLogger
}

type snapshot struct {
	doc     any
	version uint64
}

// Change is the result of a single-path write.
type Change struct {
	Old          any  // prior value, nil when Existed is false
	Existed      bool // whether the path held a value before the write
	Notification *subscription.Notification
}

// BatchChange is the result of a multi-path write. Old holds the prior value
// of every path that existed before the batch; Paths lists the paths the batch
// actually changed.
type BatchChange struct {
	Old          map[string]any
	Paths        []string
	Notification *subscription.Notification
}

func newWrapper(schema *field.Model, doc any, opts []Option) (*Wrapper, error) {
	if schema == nil || schema.Kind() != field.KindRecord {
		return nil, pathstore.Issues{pathstore.NewIssue("", pathstore.CodeInvalidSchema, "record schema must be a record model")}
	}
	o := buildOptions(opts)
	w := &Wrapper{schema: schema, subs: o.subs, log: o.log}
	w.cur.Store(&snapshot{doc: doc})
	return w, nil
}

// FromRecord wraps an already loaded document.
func FromRecord(schema *field.Model, doc pvalue.Record, opts ...Option) (*Wrapper, error) {
	return newWrapper(schema, doc, opts)
}

// FromData loads raw through the schema and wraps the result. When the data
// only misses required fields the wrapper is returned together with the
// violation; any other error yields no wrapper. Nil data is treated like
// FromEmpty.
func FromData(schema *field.Model, raw any, opts ...Option) (*Wrapper, error) {
	if schema == nil || schema.Kind() != field.KindRecord {
		return newWrapper(schema, nil, opts)
	}
	if raw == nil {
		return FromEmpty(schema, opts...)
	}
	doc, _, err := schema.Load(raw)
	return withViolation(schema, doc, err, opts)
}

// FromEmpty wraps a document synthesized from the schema's defaults.
func FromEmpty(schema *field.Model, opts ...Option) (*Wrapper, error) {
	if schema == nil || schema.Kind() != field.KindRecord {
		return newWrapper(schema, nil, opts)
	}
	doc, _, err := schema.Synthesize()
	return withViolation(schema, doc, err, opts)
}

func withViolation(schema *field.Model, doc any, err error, opts []Option) (*Wrapper, error) {
	if err != nil && !pathstore.IsSchemaViolation(err) {
		return nil, err
	}
	w, werr := newWrapper(schema, doc, opts)
	if werr != nil {
		return nil, werr
	}
	return w, err
}

// Schema returns the record model governing the document.
func (w *Wrapper) Schema() *field.Model { return w.schema }

// Subscriptions returns the manager notified after writes.
func (w *Wrapper) Subscriptions() *subscription.Manager { return w.subs }

// Record returns the current document snapshot.
func (w *Wrapper) Record() any { return w.cur.Load().doc }

// Version counts the writes installed since the wrapper was created.
func (w *Wrapper) Version() uint64 { return w.cur.Load().version }

// ToJS returns the current document as plain Go values.
func (w *Wrapper) ToJS() any { return pvalue.ToJS(w.Record()) }

// install swaps in doc. Callers hold mu.
func (w *Wrapper) install(doc any) uint64 {
	prev := w.cur.Load()
	next := &snapshot{doc: doc, version: prev.version + 1}
	w.cur.Store(next)
	return next.version
}

func (w *Wrapper) trace(op string, version uint64, n *subscription.Notification) {
	w.log.WithFields(logrus.Fields{
		"op":           op,
		"version":      version,
		"notification": n.ID().String(),
		"paths":        n.Paths(),
	}).Debug("record updated")
}

// UpdateRecord replaces the whole document and notifies every subscriber.
func (w *Wrapper) UpdateRecord(doc pvalue.Record) *subscription.Notification {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := w.install(doc)
	n := w.subs.TriggerAllSubscribers()
	w.trace("replace", v, n)
	return n
}

// UpdateRecordFromData loads raw through the schema and replaces the whole
// document. A schema violation still installs the partial document and is
// returned alongside the notification.
func (w *Wrapper) UpdateRecordFromData(raw any) (*subscription.Notification, error) {
	doc, ok, err := w.schema.Load(raw)
	if err != nil && !pathstore.IsSchemaViolation(err) {
		return subscription.Resolved(), err
	}
	if !ok {
		doc, _, err = w.schema.Synthesize()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	v := w.install(doc)
	n := w.subs.TriggerAllSubscribers()
	w.trace("replace", v, n)
	return n, err
}
