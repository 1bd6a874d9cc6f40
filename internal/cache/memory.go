package cache

import (
	"context"
	"sync"

	"github.com/emrgen/docversion/internal/model"
)

var _ VersionCache = (*Memory)(nil)

// Memory is an in-process cache, used in tests and single node setups.
type Memory struct {
	mu       sync.RWMutex
	versions map[string]model.Version
}

func NewMemory() *Memory {
	return &Memory{versions: make(map[string]model.Version)}
}

func (m *Memory) GetCurrent(ctx context.Context, docID string) (*model.Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.versions[docID]
	if !ok {
		return nil, nil
	}

	return &v, nil
}

func (m *Memory) SetCurrent(ctx context.Context, version *model.Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.versions[version.DocumentID] = *version
	return nil
}

func (m *Memory) Invalidate(ctx context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.versions, docID)
	return nil
}
