package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/pathstore/store"
)

type source struct {
	mu    sync.Mutex
	data  map[string]any
	calls map[string]int
	fail  error
	gate  chan struct{}
}

func newSource(data map[string]any) *source {
	return &source{data: data, calls: map[string]int{}}
}

func (s *source) retrieve(ctx context.Context, key string) (any, bool, error) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[key]++
	if s.fail != nil {
		return nil, false, s.fail
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *source) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

func TestLoader_FetchesOnceAndCaches(t *testing.T) {
	ctx := context.Background()
	src := newSource(map[string]any{"x": map[string]any{"id": "x", "f1": "x1"}})
	it := store.New(schema(), store.NewLoader(schema(), src.retrieve))

	for i := 0; i < 3; i++ {
		v, ok, err := it.GetAttr(ctx, "x.f1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "x1", v)
	}
	assert.Equal(t, 1, src.count("x"))

	_, err := it.UpdateAttr(ctx, "x.f1", "changed")
	require.NoError(t, err)
	v, _, _ := it.GetAttr(ctx, "x.f1")
	assert.Equal(t, "changed", v)
}

func TestLoader_ConcurrentLookupsShareFetch(t *testing.T) {
	src := newSource(map[string]any{"x": map[string]any{"id": "x"}})
	src.gate = make(chan struct{})
	l := store.NewLoader(schema(), src.retrieve)

	var wg sync.WaitGroup
	var found atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, err := l.GetSingleRecordItem(context.Background(), "x"); err == nil && ok {
				found.Add(1)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()
	assert.Equal(t, int32(8), found.Load())
	assert.Equal(t, 1, src.count("x"))
}

func TestLoader_NegativeCache(t *testing.T) {
	ctx := context.Background()
	src := newSource(map[string]any{})
	l := store.NewLoader(schema(), src.retrieve, store.WithNegativeCache(8, time.Hour))
	for i := 0; i < 3; i++ {
		_, ok, err := l.GetSingleRecordItem(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, src.count("nope"))

	l.Forget("nope")
	_, _, _ = l.GetSingleRecordItem(ctx, "nope")
	assert.Equal(t, 2, src.count("nope"))
}

func TestLoader_ErrorsPropagate(t *testing.T) {
	src := newSource(nil)
	src.fail = errors.New("backend down")
	it := store.New(schema(), store.NewLoader(schema(), src.retrieve, store.WithConcurrency(2)))

	_, err := it.GetMultipleAttrs(context.Background(), []string{"a.f1", "b.f1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, src.fail)
	assert.Contains(t, err.Error(), "retrieve record")
}

func TestLoader_DeletedKeyIsNotRefetched(t *testing.T) {
	ctx := context.Background()
	src := newSource(map[string]any{"x": map[string]any{"id": "x"}})
	l := store.NewLoader(schema(), src.retrieve)
	it := store.New(schema(), l)

	_, err := it.DeleteAttr(ctx, "x")
	require.NoError(t, err)
	_, ok, err := it.GetAttr(ctx, "x.id")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, src.count("x"))
}

func TestLoader_SiblingFailureDoesNotFailSharedFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var goodCalls atomic.Int32
	retrieve := func(ctx context.Context, key string) (any, bool, error) {
		switch key {
		case "good":
			if goodCalls.Add(1) == 1 {
				close(started)
			}
			<-release
			return map[string]any{"id": "good"}, true, nil
		default:
			<-started
			return nil, false, errors.New("bad source")
		}
	}
	l := store.NewLoader(schema(), retrieve)

	batchErr := make(chan error, 1)
	go func() {
		_, err := l.GetMultipleRecordItems(context.Background(), []string{"good", "bad"})
		batchErr <- err
	}()
	<-started

	type result struct {
		ok  bool
		err error
	}
	single := make(chan result, 1)
	go func() {
		_, ok, err := l.GetSingleRecordItem(context.Background(), "good")
		single <- result{ok, err}
	}()

	select {
	case err := <-batchErr:
		require.Error(t, err)
		assert.Contains(t, err.Error(), `retrieve record "bad"`)
	case <-time.After(2 * time.Second):
		t.Fatal("batch did not return after its sibling failed")
	}
	close(release)

	select {
	case r := <-single:
		require.NoError(t, r.err)
		assert.True(t, r.ok)
	case <-time.After(2 * time.Second):
		t.Fatal("independent lookup did not return")
	}
	assert.Equal(t, int32(1), goodCalls.Load())
}

func TestLoader_CallerCancellationOnlyAffectsCaller(t *testing.T) {
	release := make(chan struct{})
	retrieve := func(ctx context.Context, key string) (any, bool, error) {
		<-release
		return map[string]any{"id": key}, true, nil
	}
	l := store.NewLoader(schema(), retrieve)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := l.GetSingleRecordItem(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	_, ok, err := l.GetSingleRecordItem(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
