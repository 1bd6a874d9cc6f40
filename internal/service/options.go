package service

import (
	"time"

	"github.com/emrgen/docversion/internal/cache"
	"github.com/emrgen/docversion/internal/events"
	"github.com/emrgen/docversion/internal/metrics"
)

type options struct {
	cache     cache.VersionCache
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option configures the VersionService.
type Option func(*options)

// WithCache sets the current version cache.
func WithCache(c cache.VersionCache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithPublisher sets the publisher notified after commits.
func WithPublisher(p events.Publisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

// WithMetrics sets the metrics the services report to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{
		cache:     cache.NewNop(),
		publisher: events.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = metrics.NewMetrics(nil)
	}

	return o
}
