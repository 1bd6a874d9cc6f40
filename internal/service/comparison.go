package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/emrgen/docversion/internal/diff"
	"github.com/emrgen/docversion/internal/fingerprint"
	"github.com/emrgen/docversion/internal/model"
	"github.com/emrgen/docversion/internal/policy"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultComparisonLimit  = 20
	defaultRestorationLimit = 10
	defaultActivityDays     = 30
	defaultConflictRetries  = 3
)

// EditFields are the document fields proposed by an edit.
type EditFields struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Content      string              `json:"content"`
	Keywords     []string            `json:"keywords"`
	Tags         []string            `json:"tags"`
	AccessLevel  string              `json:"accessLevel"`
	AttachedFile *model.AttachedFile `json:"attachedFile"`
	Comment      string              `json:"comment"`
	ChangeKind   model.ChangeKind    `json:"changeKind"`
	// Force bypasses the change policy. Unchanged content still produces no
	// version unless another field changed.
	Force bool `json:"force"`
}

func (f EditFields) input(docID, author string) VersionInput {
	return VersionInput{
		DocumentID:   docID,
		Title:        f.Title,
		Description:  f.Description,
		Content:      f.Content,
		Keywords:     f.Keywords,
		Tags:         f.Tags,
		AccessLevel:  f.AccessLevel,
		AttachedFile: f.AttachedFile,
		Comment:      f.Comment,
		ChangeKind:   f.ChangeKind,
		Author:       author,
	}
}

// FieldChange is a difference in a non-content field between two versions.
type FieldChange struct {
	Field       string `json:"field"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// ComparisonResult is the outcome of comparing two versions.
type ComparisonResult struct {
	Diff         *diff.Result      `json:"diff"`
	Percentage   float64           `json:"percentage"`
	Origin       *model.Version    `json:"origin"`
	Destination  *model.Version    `json:"destination"`
	FieldChanges []FieldChange     `json:"fieldChanges"`
	Record       *model.Comparison `json:"record"`
}

// NewComparisonService creates the facade used by document collaborators.
func NewComparisonService(versions *VersionService, tags *TagService, restores *RestoreService, differ diff.Differ, changePolicy policy.Policy) *ComparisonService {
	if differ == nil {
		differ = diff.NewEngine()
	}
	if changePolicy == nil {
		changePolicy = policy.Default()
	}

	return &ComparisonService{
		Versions:        versions,
		Tags:            tags,
		Restores:        restores,
		differ:          differ,
		policy:          changePolicy,
		conflictRetries: defaultConflictRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 20 * time.Millisecond
			b.MaxInterval = 500 * time.Millisecond
			return b
		},
	}
}

// ComparisonService records edits as versions when warranted, compares
// versions and reports statistics.
type ComparisonService struct {
	Versions *VersionService
	Tags     *TagService
	Restores *RestoreService

	differ          diff.Differ
	policy          policy.Policy
	conflictRetries uint64
	newBackOff      func() backoff.BackOff
}

// RecordEdit creates a version for the proposed fields when the document
// has none yet or the change is warranted. It returns (nil, nil) when no
// version is needed.
func (c *ComparisonService) RecordEdit(ctx context.Context, docID string, fields EditFields, author string) (*model.Version, error) {
	in := fields.input(docID, author)
	if err := validationError(in.Validate()); err != nil {
		return nil, err
	}

	var created *model.Version
	operation := func() error {
		var err error
		created, err = c.recordEdit(ctx, in, fields.Force)
		if err != nil && !errors.Is(err, ErrConflict) {
			return backoff.Permanent(err)
		}
		return err
	}

	retry := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.conflictRetries), ctx)
	if err := backoff.Retry(operation, retry); err != nil {
		return nil, err
	}

	return created, nil
}

func (c *ComparisonService) recordEdit(ctx context.Context, in VersionInput, force bool) (*model.Version, error) {
	unlock := c.Versions.locks.Lock(in.DocumentID)
	defer unlock()

	current, err := c.Versions.currentLocked(ctx, in.DocumentID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		if in.ChangeKind == "" {
			in.ChangeKind = model.ChangeKindCreation
		}
		return c.Versions.create(ctx, in)
	}

	if fingerprint.Equal(in.Content, current.Fingerprint) {
		if !force || len(fieldChanges(current, snapshot(in))) == 0 {
			c.skip(in.DocumentID, "unchanged")
			return nil, nil
		}
		return c.Versions.create(ctx, in)
	}

	start := time.Now()
	result := c.differ.Diff(current.Content, in.Content)
	c.Versions.metrics.ObserveDiff(start)

	percentage := result.Percentage()
	if !force && !c.policy.ShouldCreateVersion(percentage) {
		c.skip(in.DocumentID, "below_threshold")
		logrus.Infof("edit below threshold: document=%s changed=%.2f%%", in.DocumentID, percentage)
		return nil, nil
	}

	return c.Versions.create(ctx, in)
}

func (c *ComparisonService) skip(docID, reason string) {
	c.Versions.metrics.EditsSkipped.WithLabelValues(reason).Inc()
	logrus.Debugf("no version needed for document %s: %s", docID, reason)
}

// Compare diffs two versions and records the comparison.
func (c *ComparisonService) Compare(ctx context.Context, originID, destinationID, requestedBy string) (*ComparisonResult, error) {
	err := validationError(validation.Errors{
		"originVersionId":      validation.Validate(originID, validation.Required),
		"destinationVersionId": validation.Validate(destinationID, validation.Required),
		"requestedBy":          validation.Validate(requestedBy, validation.Required),
	}.Filter())
	if err != nil {
		return nil, err
	}

	origin, err := c.Versions.Get(ctx, originID)
	if err != nil {
		return nil, err
	}
	destination, err := c.Versions.Get(ctx, destinationID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := c.differ.Diff(origin.Content, destination.Content)
	c.Versions.metrics.ObserveDiff(start)

	record := &model.Comparison{
		ID:                   uuid.New().String(),
		DocumentID:           origin.DocumentID,
		OriginVersionID:      origin.ID,
		DestinationVersionID: destination.ID,
		RequestedBy:          requestedBy,
		Additions:            result.Additions,
		Deletions:            result.Deletions,
		Modifications:        result.Modifications,
		Percentage:           result.Percentage(),
		RequestedAt:          c.Versions.now().UTC(),
	}
	if err = c.Versions.store.CreateComparison(ctx, record); err != nil {
		return nil, err
	}
	c.Versions.metrics.Comparisons.Inc()
	logrus.Infof("comparison recorded: %s -> %s (%.2f%%)", origin.ID, destination.ID, record.Percentage)

	return &ComparisonResult{
		Diff:         result,
		Percentage:   record.Percentage,
		Origin:       origin,
		Destination:  destination,
		FieldChanges: fieldChanges(origin, destination),
		Record:       record,
	}, nil
}

// Restore promotes a historical version to current.
func (c *ComparisonService) Restore(ctx context.Context, req RestoreRequest) (*RestoreResult, error) {
	return c.Restores.Restore(ctx, req)
}

// Statistics summarises the version history of a document.
func (c *ComparisonService) Statistics(ctx context.Context, docID string) (*model.VersionStatistics, error) {
	if err := requireDocumentID(docID); err != nil {
		return nil, err
	}

	return c.Versions.store.VersionStatistics(ctx, docID)
}

// ListComparisons lists the latest comparisons of a document.
func (c *ComparisonService) ListComparisons(ctx context.Context, docID string, limit int) ([]*model.Comparison, error) {
	if err := requireDocumentID(docID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultComparisonLimit
	}

	return c.Versions.store.ListComparisons(ctx, docID, limit)
}

// ListRestorations lists the latest restorations of a document.
func (c *ComparisonService) ListRestorations(ctx context.Context, docID string, limit int) ([]*model.Restoration, error) {
	if err := requireDocumentID(docID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRestorationLimit
	}

	return c.Versions.store.ListRestorations(ctx, docID, limit)
}

// Activity reports the per-day activity of a document over the last days.
func (c *ComparisonService) Activity(ctx context.Context, docID string, days int) ([]*model.DailyActivity, error) {
	if err := requireDocumentID(docID); err != nil {
		return nil, err
	}

	return c.Versions.store.ActivityByDay(ctx, docID, c.since(days))
}

// GlobalMetrics reports activity across all documents over the last days.
func (c *ComparisonService) GlobalMetrics(ctx context.Context, days int) (*model.GlobalMetrics, error) {
	return c.Versions.store.GlobalMetrics(ctx, c.since(days))
}

func (c *ComparisonService) since(days int) time.Time {
	if days <= 0 {
		days = defaultActivityDays
	}

	return c.Versions.now().UTC().AddDate(0, 0, -days)
}

// snapshot builds an unsaved version from an input, for field comparison.
func snapshot(in VersionInput) *model.Version {
	v := &model.Version{
		Title:       in.Title,
		Description: in.Description,
		Keywords:    model.NewStringSet(in.Keywords...),
		Tags:        model.NewStringSet(in.Tags...),
		AccessLevel: in.AccessLevel,
		Comment:     in.Comment,
	}
	if v.AccessLevel == "" {
		v.AccessLevel = model.DefaultAccessLevel
	}
	if in.AttachedFile != nil {
		v.AttachedFile = *in.AttachedFile
	}

	return v
}

func fieldChanges(origin, destination *model.Version) []FieldChange {
	changes := make([]FieldChange, 0)
	add := func(field, a, b string) {
		if a != b {
			changes = append(changes, FieldChange{Field: field, Origin: a, Destination: b})
		}
	}

	add("title", origin.Title, destination.Title)
	add("description", origin.Description, destination.Description)
	add("accessLevel", origin.AccessLevel, destination.AccessLevel)
	add("comment", origin.Comment, destination.Comment)
	add("attachedFile", origin.AttachedFile.OriginalName, destination.AttachedFile.OriginalName)
	if !origin.Keywords.Equal(destination.Keywords) {
		add("keywords", strings.Join(origin.Keywords, ", "), strings.Join(destination.Keywords, ", "))
	}
	if !origin.Tags.Equal(destination.Tags) {
		add("tags", strings.Join(origin.Tags, ", "), strings.Join(destination.Tags, ", "))
	}

	return changes
}
