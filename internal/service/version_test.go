package service

import (
	"context"
	"testing"
	"time"

	"github.com/emrgen/docversion/internal/fingerprint"
	"github.com/emrgen/docversion/internal/model"
	"github.com/emrgen/docversion/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()
	versions := f.svc.Versions

	file := &model.AttachedFile{URL: "https://files/report.pdf", OriginalName: "report.pdf", MimeType: "application/pdf", Size: 2048}
	v1, err := versions.Create(ctx, VersionInput{
		DocumentID:   "doc",
		Title:        "Report",
		Content:      "hello",
		Keywords:     []string{"b", "a", "a"},
		AttachedFile: file,
		Comment:      "initial upload",
		Author:       "author-1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ChangeKindCreation, v1.ChangeKind)
	assert.Equal(t, int64(5), v1.ContentSize)
	assert.Equal(t, fingerprint.Of("hello"), v1.Fingerprint)
	assert.Equal(t, model.VersionToken(v1.Sequence), v1.Token)
	assert.Equal(t, model.DefaultAccessLevel, v1.AccessLevel)
	assert.Equal(t, model.StringSet{"a", "b"}, v1.Keywords)

	// identical content is still versioned when created explicitly
	v2, err := versions.Create(ctx, VersionInput{DocumentID: "doc", Title: "Report", Content: "hello", Author: "author-2"})
	require.NoError(t, err)
	assert.Equal(t, model.ChangeKindEdit, v2.ChangeKind)
	assert.Greater(t, v2.Sequence, v1.Sequence)

	got, err := versions.Get(ctx, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, *file, got.AttachedFile)
	assert.False(t, got.IsCurrent)

	current, err := versions.GetCurrent(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, v2.ID, current.ID)
}

func TestVersionService_SequenceIsMonotonic(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	// a clock that never moves still yields increasing tokens
	frozen := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.svc.Versions.now = func() time.Time { return frozen }

	var last int64
	for i := 0; i < 3; i++ {
		v, err := f.svc.Versions.Create(ctx, VersionInput{DocumentID: "doc", Title: "t", Content: "c", Author: "a"})
		require.NoError(t, err)
		assert.Greater(t, v.Sequence, last)
		last = v.Sequence
	}
}

func TestVersionService_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	_, err := f.svc.Versions.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Versions.GetCurrent(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVersionService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	v1 := f.mustRecord(t, "doc", "one")
	v2, err := f.svc.RecordEdit(ctx, "doc", EditFields{Title: "t", Content: "two"}, "author-2")
	require.NoError(t, err)

	all, err := f.svc.Versions.List(ctx, "doc", store.VersionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, v2.ID, all[0].ID)
	assert.Equal(t, v1.ID, all[1].ID)

	byAuthor, err := f.svc.Versions.List(ctx, "doc", store.VersionFilter{Author: "author-2"})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)

	_, err = f.svc.Versions.List(ctx, "doc", store.VersionFilter{Limit: -1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Versions.List(ctx, "", store.VersionFilter{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDocumentLocks(t *testing.T) {
	locks := newDocumentLocks()

	unlockA := locks.Lock("a")
	unlockB := locks.Lock("b")
	assert.Equal(t, 2, locks.size())

	acquired := make(chan struct{})
	go func() {
		unlock := locks.Lock("a")
		close(acquired)
		unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("lock on a was acquired twice")
	case <-time.After(50 * time.Millisecond):
	}

	unlockA()
	<-acquired
	unlockB()

	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, 10*time.Millisecond)
}
