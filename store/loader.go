package store

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	pathstore "github.com/reoring/pathstore"
	"github.com/reoring/pathstore/field"
	"github.com/reoring/pathstore/record"
)

// RetrieveFunc fetches the raw data of one record. found is false when the
// source has no record under key.
type RetrieveFunc func(ctx context.Context, key string) (raw any, found bool, err error)

// Loader is a Backend that fetches records on demand, loads them through the
// schema and keeps the resulting wrappers. Concurrent lookups of one key share
// a single fetch, and keys the source reported as absent are remembered for a
// while.
type Loader struct {
	schema   *field.Model
	retrieve RetrieveFunc
	cache    *Memory
	group    singleflight.Group
	missing  *lru.LRU[string, struct{}]
	limit    int
	log      logrus.FieldLogger
	metrics  *Metrics
	recOpts  []record.Option

	mu      sync.Mutex
	deleted map[string]struct{} // deleted locally; never refetched
}

var _ Backend = (*Loader)(nil)

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithNegativeCache remembers up to size absent keys for ttl. A size of zero
// disables the cache.
func WithNegativeCache(size int, ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		if size <= 0 {
			l.missing = nil
			return
		}
		l.missing = lru.NewLRU[string, struct{}](size, nil, ttl)
	}
}

// WithConcurrency bounds the number of parallel fetches in
// GetMultipleRecordItems.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) { l.limit = n }
}

// WithLoaderLogger sets the logger for retrieval failures.
func WithLoaderLogger(log logrus.FieldLogger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

// WithLoaderMetrics records retrieval latency in m.
func WithLoaderMetrics(m *Metrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// WithLoaderRecordOptions passes opts to every wrapper the loader creates.
func WithLoaderRecordOptions(opts ...record.Option) LoaderOption {
	return func(l *Loader) { l.recOpts = append(l.recOpts, opts...) }
}

// NewLoader returns a Loader reading records through retrieve.
func NewLoader(schema *field.Model, retrieve RetrieveFunc, opts ...LoaderOption) *Loader {
	l := &Loader{
		schema:   schema,
		retrieve: retrieve,
		cache:    NewMemory(),
		missing:  lru.NewLRU[string, struct{}](1024, nil, time.Minute),
		limit:    16,
		log:      logrus.StandardLogger(),
		deleted:  map[string]struct{}{},
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Loader) GetSingleRecordItem(ctx context.Context, key string) (*record.Wrapper, bool, error) {
	if w, ok, _ := l.cache.GetSingleRecordItem(ctx, key); ok {
		return w, true, nil
	}
	if l.isDeleted(key) {
		return nil, false, nil
	}
	if l.missing != nil {
		if _, miss := l.missing.Get(key); miss {
			return nil, false, nil
		}
	}
	// The shared fetch outlives any single caller's cancellation; each caller
	// stops waiting on its own ctx.
	fetchCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		return l.fetch(fetchCtx, key)
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, false, r.Err
		}
		w, _ := r.Val.(*record.Wrapper)
		return w, w != nil, nil
	}
}

// fetch retrieves and loads key, then caches the outcome.
func (l *Loader) fetch(ctx context.Context, key string) (*record.Wrapper, error) {
	// another caller may have finished the same fetch just before us
	if w, ok, _ := l.cache.GetSingleRecordItem(ctx, key); ok {
		return w, nil
	}
	start := time.Now()
	raw, found, err := l.retrieve(ctx, key)
	l.metrics.observeRetrieval("single", start)
	if err != nil {
		l.log.WithError(err).WithField("key", key).Error("record retrieval failed")
		return nil, errors.Wrapf(err, "retrieve record %q", key)
	}
	if !found {
		if l.missing != nil {
			l.missing.Add(key, struct{}{})
		}
		return nil, nil
	}
	w, err := record.FromData(l.schema, raw, l.recOpts...)
	if err != nil {
		if !pathstore.IsSchemaViolation(err) {
			return nil, errors.Wrapf(err, "load record %q", key)
		}
		l.log.WithField("key", key).WithError(err).Warn("retrieved record violates schema")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, gone := l.deleted[key]; gone {
		return nil, nil
	}
	if existing, ok, _ := l.cache.GetSingleRecordItem(ctx, key); ok {
		return existing, nil
	}
	_ = l.cache.PutRecordItem(ctx, key, w)
	return w, nil
}

func (l *Loader) GetMultipleRecordItems(ctx context.Context, keys []string) (map[string]*record.Wrapper, error) {
	var mu sync.Mutex
	out := make(map[string]*record.Wrapper, len(keys))
	eg, egCtx := errgroup.WithContext(ctx)
	if l.limit > 0 {
		eg.SetLimit(l.limit)
	}
	for _, key := range keys {
		key := key
		eg.Go(func() error {
			w, ok, err := l.GetSingleRecordItem(egCtx, key)
			if err != nil || !ok {
				return err
			}
			mu.Lock()
			out[key] = w
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) PutRecordItem(ctx context.Context, key string, w *record.Wrapper) error {
	l.mu.Lock()
	delete(l.deleted, key)
	l.mu.Unlock()
	if l.missing != nil {
		l.missing.Remove(key)
	}
	return l.cache.PutRecordItem(ctx, key, w)
}

func (l *Loader) DeleteRecordItem(ctx context.Context, key string) (*record.Wrapper, bool, error) {
	w, ok, err := l.GetSingleRecordItem(ctx, key)
	if err != nil {
		return nil, false, err
	}
	l.mu.Lock()
	l.deleted[key] = struct{}{}
	l.mu.Unlock()
	_, _, _ = l.cache.DeleteRecordItem(ctx, key)
	return w, ok, nil
}

// ReplaceRecordItems installs items as the cached collection. Keys outside
// items are fetched again on their next lookup.
func (l *Loader) ReplaceRecordItems(ctx context.Context, items map[string]*record.Wrapper) error {
	l.mu.Lock()
	l.deleted = map[string]struct{}{}
	l.mu.Unlock()
	if l.missing != nil {
		l.missing.Purge()
	}
	return l.cache.ReplaceRecordItems(ctx, items)
}

// Forget drops key from the local cache so the next lookup fetches it again.
func (l *Loader) Forget(key string) {
	l.mu.Lock()
	delete(l.deleted, key)
	l.mu.Unlock()
	if l.missing != nil {
		l.missing.Remove(key)
	}
	_, _, _ = l.cache.DeleteRecordItem(context.Background(), key)
}

func (l *Loader) isDeleted(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.deleted[key]
	return ok
}
