package events

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

var _ Publisher = (*RetryPublisher)(nil)

// RetryPublisher retries failed publishes with exponential backoff.
type RetryPublisher struct {
	next       Publisher
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

func NewRetryPublisher(next Publisher, maxRetries uint64) *RetryPublisher {
	return &RetryPublisher{
		next:       next,
		maxRetries: maxRetries,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

func (r *RetryPublisher) Publish(ctx context.Context, event *Event) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := r.next.Publish(ctx, event)
		if err != nil {
			logrus.Warnf("publish %s for document %s failed (attempt %d): %v", event.Kind, event.DocumentID, attempt, err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.maxRetries), ctx)

	return backoff.Retry(operation, policy)
}

func (r *RetryPublisher) Close() error {
	return r.next.Close()
}
