package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/emrgen/docversion/internal/cache"
	"github.com/emrgen/docversion/internal/compress"
	"github.com/emrgen/docversion/internal/diff"
	"github.com/emrgen/docversion/internal/events"
	"github.com/emrgen/docversion/internal/metrics"
	"github.com/emrgen/docversion/internal/model"
	"github.com/emrgen/docversion/internal/policy"
	"github.com/emrgen/docversion/internal/store"
	"github.com/emrgen/docversion/internal/tester"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// testClock advances one second per call.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Second)
	return c.now
}

// countingDiffer counts line walks.
type countingDiffer struct {
	calls atomic.Int32
	next  diff.Differ
}

func (c *countingDiffer) Diff(origin, destination string) *diff.Result {
	c.calls.Add(1)
	return c.next.Diff(origin, destination)
}

// conflictStore fails the next `remaining` demotions with store.ErrConflict.
type conflictStore struct {
	store.Store
	remaining *atomic.Int32
}

func (c *conflictStore) Transaction(ctx context.Context, f func(tx store.Store) error) error {
	return c.Store.Transaction(ctx, func(tx store.Store) error {
		return f(&conflictStore{Store: tx, remaining: c.remaining})
	})
}

func (c *conflictStore) DemoteCurrent(ctx context.Context, docID, versionID string) error {
	if c.remaining.Add(-1) >= 0 {
		return store.ErrConflict
	}
	return c.Store.DemoteCurrent(ctx, docID, versionID)
}

type fixture struct {
	svc     *ComparisonService
	store   store.Store
	differ  *countingDiffer
	cache   *cache.Memory
	metrics *metrics.Metrics

	mu     sync.Mutex
	events []*events.Event
}

type fixtureConfig struct {
	cloneOnRestore bool
	wrap           func(store.Store) store.Store
}

func newFixture(t *testing.T, cfgs ...func(*fixtureConfig)) *fixture {
	t.Helper()

	var cfg fixtureConfig
	for _, c := range cfgs {
		c(&cfg)
	}

	var s store.Store = store.NewGormStore(tester.TestDB(t), compress.NewGZip())
	if cfg.wrap != nil {
		s = cfg.wrap(s)
	}

	f := &fixture{
		store:   s,
		differ:  &countingDiffer{next: diff.NewEngine()},
		cache:   cache.NewMemory(),
		metrics: metrics.NewMetrics(prometheus.NewRegistry()),
	}

	bus := events.NewBus()
	bus.Subscribe(func(ctx context.Context, event *events.Event) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.events = append(f.events, event)
		return nil
	})

	versions := NewVersionService(s,
		WithCache(f.cache),
		WithPublisher(bus),
		WithMetrics(f.metrics),
		WithClock(newTestClock().Now),
	)
	f.svc = NewComparisonService(
		versions,
		NewTagService(versions),
		NewRestoreService(versions, cfg.cloneOnRestore),
		f.differ,
		policy.Default(),
	)
	f.svc.newBackOff = func() backoff.BackOff {
		return &backoff.ZeroBackOff{}
	}

	return f
}

func (f *fixture) kinds() []events.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]events.Kind, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Kind)
	}
	return out
}

func (f *fixture) published() []*events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*events.Event(nil), f.events...)
}

// currentIDs lists the ids flagged current for a document, bypassing the cache.
func (f *fixture) currentIDs(t *testing.T, docID string) []string {
	t.Helper()

	versions, err := f.store.ListVersions(context.TODO(), docID, store.VersionFilter{})
	require.NoError(t, err)

	var ids []string
	for _, v := range versions {
		if v.IsCurrent {
			ids = append(ids, v.ID)
		}
	}
	return ids
}

func (f *fixture) mustRecord(t *testing.T, docID, content string) *model.Version {
	t.Helper()

	v, err := f.svc.RecordEdit(context.TODO(), docID, EditFields{Title: "title", Content: content}, "author-1")
	require.NoError(t, err)
	require.NotNil(t, v)
	return v
}
