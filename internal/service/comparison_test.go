package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/emrgen/docversion/internal/events"
	"github.com/emrgen/docversion/internal/model"
	"github.com/emrgen/docversion/internal/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparisonService_Scenarios(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	v1 := f.mustRecord(t, "D1", "line1\nline2\nline3")
	assert.Equal(t, model.ChangeKindCreation, v1.ChangeKind)
	assert.True(t, v1.IsCurrent)

	// edit with one modification and one addition over four lines
	v2, err := f.svc.RecordEdit(ctx, "D1", EditFields{Title: "title", Content: "line1\nline2-edited\nline3\nline4"}, "author-1")
	require.NoError(t, err)
	require.NotNil(t, v2)
	assert.Equal(t, model.ChangeKindEdit, v2.ChangeKind)
	assert.Equal(t, []string{v2.ID}, f.currentIDs(t, "D1"))

	got, err := f.svc.Versions.Get(ctx, v1.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCurrent)

	// compare records one comparison
	res, err := f.svc.Compare(ctx, v1.ID, v2.ID, "userX")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Diff.Additions)
	assert.Equal(t, 0, res.Diff.Deletions)
	assert.Equal(t, 1, res.Diff.Modifications)
	assert.InDelta(t, 50.0, res.Percentage, 0.001)
	assert.Equal(t, v1.ID, res.Origin.ID)
	assert.Equal(t, v2.ID, res.Destination.ID)

	comparisons, err := f.svc.ListComparisons(ctx, "D1", 0)
	require.NoError(t, err)
	require.Len(t, comparisons, 1)
	assert.Equal(t, "userX", comparisons[0].RequestedBy)

	// restore the first version
	restored, err := f.svc.Restore(ctx, RestoreRequest{DocumentID: "D1", VersionID: v1.ID, PerformedBy: "userX", Reason: "revert bad edit"})
	require.NoError(t, err)
	assert.False(t, restored.AlreadyCurrent)
	assert.Equal(t, v1.ID, restored.Restoration.RestoredVersionID)
	assert.Equal(t, v2.ID, restored.Restoration.PreviousCurrentVersionID)
	assert.Equal(t, []string{v1.ID}, f.currentIDs(t, "D1"))

	restorations, err := f.svc.ListRestorations(ctx, "D1", 0)
	require.NoError(t, err)
	require.Len(t, restorations, 1)
	assert.Equal(t, "revert bad edit", restorations[0].Reason)

	// tag the restored version
	_, err = f.svc.Tags.AddTag(ctx, TagInput{VersionID: v1.ID, Label: "stable", Description: "known-good", Color: "#10b981", Icon: "🏷️", AssignedBy: "userX"})
	require.NoError(t, err)

	tags, err := f.svc.Tags.ListTags(ctx, v1.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "stable", tags[0].Label)

	assert.Equal(t, []events.Kind{events.KindVersionCreated, events.KindVersionCreated, events.KindVersionRestored}, f.kinds())
}

func TestComparisonService_RecordEdit_FingerprintShortCircuit(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	f.mustRecord(t, "doc", "same\ncontent")
	calls := f.differ.calls.Load()

	got, err := f.svc.RecordEdit(ctx, "doc", EditFields{Title: "other title", Content: "same\ncontent"}, "author-2")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, calls, f.differ.calls.Load())

	count, err := f.svc.Versions.Count(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.EditsSkipped.WithLabelValues("unchanged")))
}

func TestComparisonService_RecordEdit_Threshold(t *testing.T) {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	base := strings.Join(lines, "\n")
	edit := func(n int) string {
		edited := make([]string, len(lines))
		copy(edited, lines)
		for i := 0; i < n; i++ {
			edited[i*10] = "changed"
		}
		return strings.Join(edited, "\n")
	}

	tests := []struct {
		name    string
		changed int
		force   bool
		want    bool
	}{
		{name: "at threshold", changed: 5, want: false},
		{name: "above threshold", changed: 6, want: true},
		{name: "forced below threshold", changed: 1, force: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.mustRecord(t, "doc", base)

			got, err := f.svc.RecordEdit(context.TODO(), "doc", EditFields{Title: "title", Content: edit(tt.changed), Force: tt.force}, "author-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got != nil)
			assert.Len(t, f.currentIDs(t, "doc"), 1)
		})
	}
}

func TestComparisonService_RecordEdit_ForceWithFieldChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	f.mustRecord(t, "doc", "body")

	got, err := f.svc.RecordEdit(ctx, "doc", EditFields{Title: "title", Content: "body", Force: true}, "author-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = f.svc.RecordEdit(ctx, "doc", EditFields{Title: "renamed", Content: "body", Force: true, ChangeKind: model.ChangeKindBackup}, "author-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.ChangeKindBackup, got.ChangeKind)
}

func TestComparisonService_RecordEdit_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		docID  string
		fields EditFields
		author string
		field  string
	}{
		{name: "missing document", docID: "", fields: EditFields{Title: "t", Content: "c"}, author: "a", field: "documentId"},
		{name: "missing title", docID: "d", fields: EditFields{Content: "c"}, author: "a", field: "title"},
		{name: "missing content", docID: "d", fields: EditFields{Title: "t"}, author: "a", field: "content"},
		{name: "missing author", docID: "d", fields: EditFields{Title: "t", Content: "c"}, author: "", field: "author"},
		{name: "unknown change kind", docID: "d", fields: EditFields{Title: "t", Content: "c", ChangeKind: "merge"}, author: "a", field: "changeKind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RecordEdit(context.TODO(), tt.docID, tt.fields, tt.author)
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestComparisonService_RecordEdit_RetriesConflicts(t *testing.T) {
	remaining := &atomic.Int32{}
	f := newFixture(t, func(c *fixtureConfig) {
		c.wrap = func(s store.Store) store.Store {
			return &conflictStore{Store: s, remaining: remaining}
		}
	})
	ctx := context.TODO()

	f.mustRecord(t, "doc", "one")

	remaining.Store(2)
	got, err := f.svc.RecordEdit(ctx, "doc", EditFields{Title: "title", Content: "two"}, "author-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{got.ID}, f.currentIDs(t, "doc"))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Conflicts.WithLabelValues("create")))

	remaining.Store(10)
	_, err = f.svc.RecordEdit(ctx, "doc", EditFields{Title: "title", Content: "three"}, "author-1")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, []string{got.ID}, f.currentIDs(t, "doc"))
}

func TestComparisonService_RecordEdit_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	docs := []string{"doc-a", "doc-b", "doc-c"}
	var wg sync.WaitGroup
	for _, doc := range docs {
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(doc string, i int) {
				defer wg.Done()
				_, err := f.svc.RecordEdit(ctx, doc, EditFields{Title: "title", Content: fmt.Sprintf("%s rewrite %d", doc, i)}, "author-1")
				assert.NoError(t, err)
			}(doc, i)
		}
	}
	wg.Wait()

	for _, doc := range docs {
		assert.Len(t, f.currentIDs(t, doc), 1, doc)

		count, err := f.svc.Versions.Count(ctx, doc)
		require.NoError(t, err)
		assert.Equal(t, int64(8), count)
	}

	violations, err := f.store.ListCurrentViolations(ctx)
	require.NoError(t, err)
	assert.Empty(t, violations)
	assert.Equal(t, 0, f.svc.Versions.locks.size())

	// events of one document arrive in sequence order
	last := map[string]int64{}
	for _, event := range f.published() {
		require.Equal(t, events.KindVersionCreated, event.Kind)
		version, err := f.store.GetVersion(ctx, event.VersionID)
		require.NoError(t, err)
		assert.Greater(t, version.Sequence, last[event.DocumentID], event.DocumentID)
		last[event.DocumentID] = version.Sequence
	}
	assert.Len(t, last, len(docs))
}

func TestComparisonService_Compare(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	v1, err := f.svc.RecordEdit(ctx, "doc", EditFields{Title: "Draft", Content: "a\nb", Keywords: []string{"go"}, AccessLevel: "restricted"}, "author-1")
	require.NoError(t, err)
	v2, err := f.svc.RecordEdit(ctx, "doc", EditFields{Title: "Final", Content: "a\nc", Keywords: []string{"go", "docs"}}, "author-2")
	require.NoError(t, err)

	res, err := f.svc.Compare(ctx, v1.ID, v2.ID, "reviewer")
	require.NoError(t, err)
	assert.Equal(t, []FieldChange{
		{Field: "title", Origin: "Draft", Destination: "Final"},
		{Field: "accessLevel", Origin: "restricted", Destination: model.DefaultAccessLevel},
		{Field: "keywords", Origin: "go", Destination: "docs, go"},
	}, res.FieldChanges)
	assert.Equal(t, "doc", res.Record.DocumentID)

	_, err = f.svc.Compare(ctx, v1.ID, "missing", "reviewer")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Compare(ctx, "", v2.ID, "reviewer")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestComparisonService_Reports(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	empty, err := f.svc.Statistics(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.TotalVersions)

	v1 := f.mustRecord(t, "doc", "ab")
	_, err = f.svc.RecordEdit(ctx, "doc", EditFields{Title: "title", Content: "abcdef"}, "author-2")
	require.NoError(t, err)
	_, err = f.svc.Restore(ctx, RestoreRequest{DocumentID: "doc", VersionID: v1.ID, PerformedBy: "author-1"})
	require.NoError(t, err)

	stats, err := f.svc.Statistics(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalVersions)
	assert.Equal(t, int64(2), stats.UniqueAuthorCount)
	assert.InDelta(t, 4.0, stats.AverageContentSize, 0.001)
	require.NotNil(t, stats.LastModifiedAt)

	activity, err := f.svc.Activity(ctx, "doc", 0)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, "2024-01-01", activity[0].Date)
	assert.Equal(t, int64(2), activity[0].VersionsCreated)
	assert.Equal(t, int64(1), activity[0].Edits)
	assert.Equal(t, int64(1), activity[0].Restorations)

	metrics, err := f.svc.GlobalMetrics(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), metrics.DocumentsWithVersions)
	assert.Equal(t, int64(1), metrics.TotalRestorations)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.VersionsCreated.WithLabelValues("creation"))+testutil.ToFloat64(f.metrics.VersionsCreated.WithLabelValues("edit")))
}

func TestComparisonService_Reports_RequireDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	tests := []struct {
		name string
		call func() error
	}{
		{name: "statistics", call: func() error { _, err := f.svc.Statistics(ctx, ""); return err }},
		{name: "comparisons", call: func() error { _, err := f.svc.ListComparisons(ctx, "", 0); return err }},
		{name: "restorations", call: func() error { _, err := f.svc.ListRestorations(ctx, "", 0); return err }},
		{name: "activity", call: func() error { _, err := f.svc.Activity(ctx, "", 7); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "documentId")
		})
	}
}
