package jobs

import (
	"context"
	"time"

	"github.com/emrgen/docversion/internal/metrics"
	"github.com/emrgen/docversion/internal/model"
	"github.com/emrgen/docversion/internal/store"
	"github.com/sirupsen/logrus"
)

const invariantCheckTimeout = time.Minute

// InvariantCheckTask looks for documents that do not have exactly one
// current version.
type InvariantCheckTask struct {
	store   store.VersionStore
	metrics *metrics.Metrics
	cron    string
}

func NewInvariantCheckTask(schedule string, store store.VersionStore, metrics *metrics.Metrics) *InvariantCheckTask {
	return &InvariantCheckTask{
		store:   store,
		metrics: metrics,
		cron:    schedule,
	}
}

func (c *InvariantCheckTask) Name() string {
	return "invariant_check"
}

func (c *InvariantCheckTask) Schedule() string {
	return c.cron
}

func (c *InvariantCheckTask) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), invariantCheckTimeout)
	defer cancel()

	if _, err := c.Check(ctx); err != nil {
		logrus.Errorf("invariant check failed: %v", err)
	}
}

// Check lists the violating documents and exports their count.
func (c *InvariantCheckTask) Check(ctx context.Context) ([]*model.CurrentViolation, error) {
	violations, err := c.store.ListCurrentViolations(ctx)
	if err != nil {
		c.metrics.InvariantCheckErrors.Inc()
		return nil, err
	}

	c.metrics.CurrentViolations.Set(float64(len(violations)))
	for _, v := range violations {
		logrus.Errorf("document %s has %d current versions", v.DocumentID, v.CurrentCount)
	}
	if len(violations) == 0 {
		logrus.Debugf("invariant check passed")
	}

	return violations, nil
}
