package events

import (
	"context"
	"time"
)

type Kind string

const (
	KindVersionCreated  Kind = "version.created"
	KindVersionRestored Kind = "version.restored"
)

// Event is emitted after a versioning mutation has committed.
type Event struct {
	ID                string    `json:"id"`
	Kind              Kind      `json:"kind"`
	DocumentID        string    `json:"documentId"`
	VersionID         string    `json:"versionId"`
	VersionToken      string    `json:"versionToken,omitempty"`
	PreviousVersionID string    `json:"previousVersionId,omitempty"`
	Actor             string    `json:"actor"`
	OccurredAt        time.Time `json:"occurredAt"`
}

// Publisher delivers events to the notification collaborator.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

var _ Publisher = Nop{}

type Nop struct{}

func NewNop() Nop {
	return Nop{}
}

func (Nop) Publish(ctx context.Context, event *Event) error {
	return nil
}

func (Nop) Close() error {
	return nil
}
