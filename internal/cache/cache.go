package cache

import (
	"context"

	"github.com/emrgen/docversion/internal/model"
)

// VersionCache caches the current version of a document. A miss returns
// (nil, nil).
type VersionCache interface {
	// GetCurrent gets the cached current version of a document.
	GetCurrent(ctx context.Context, docID string) (*model.Version, error)
	// SetCurrent caches the current version of a document.
	SetCurrent(ctx context.Context, version *model.Version) error
	// Invalidate drops the cached current version of a document.
	Invalidate(ctx context.Context, docID string) error
}

var _ VersionCache = Nop{}

type Nop struct{}

func NewNop() Nop {
	return Nop{}
}

func (Nop) GetCurrent(ctx context.Context, docID string) (*model.Version, error) {
	return nil, nil
}

func (Nop) SetCurrent(ctx context.Context, version *model.Version) error {
	return nil
}

func (Nop) Invalidate(ctx context.Context, docID string) error {
	return nil
}
