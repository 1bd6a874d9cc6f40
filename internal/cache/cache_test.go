package cache

import (
	"context"
	"testing"
	"time"

	"github.com/emrgen/docversion/internal/model"
	"github.com/emrgen/docversion/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T, c VersionCache) {
	ctx := context.TODO()
	docID := uuid.New().String()

	got, err := c.GetCurrent(ctx, docID)
	require.NoError(t, err)
	assert.Nil(t, got)

	version := &model.Version{
		ID:         uuid.New().String(),
		DocumentID: docID,
		Token:      "v1",
		Content:    "line1\nline2",
		Keywords:   model.NewStringSet("a", "b"),
		IsCurrent:  true,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, c.SetCurrent(ctx, version))

	got, err = c.GetCurrent(ctx, docID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, version.ID, got.ID)
	assert.Equal(t, version.Content, got.Content)
	assert.Equal(t, version.Keywords, got.Keywords)

	require.NoError(t, c.Invalidate(ctx, docID))
	got, err = c.GetCurrent(ctx, docID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory(t *testing.T) {
	testCache(t, NewMemory())
}

func TestRedisVersionCache(t *testing.T) {
	testCache(t, NewRedisVersionCache(tester.Redis(t), time.Minute))
}

func TestNop(t *testing.T) {
	c := NewNop()
	require.NoError(t, c.SetCurrent(context.TODO(), &model.Version{DocumentID: "doc"}))

	got, err := c.GetCurrent(context.TODO(), "doc")
	require.NoError(t, err)
	assert.Nil(t, got)
}
