package store

import (
	"context"
	"time"

	"github.com/emrgen/docversion/internal/model"
)

type Store interface {
	VersionStore
	TagStore
	AuditStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

// VersionFilter narrows a version listing. Zero values are ignored.
type VersionFilter struct {
	ChangeKind model.ChangeKind
	Author     string
	From       *time.Time
	To         *time.Time
	TagLabel   string
	Limit      int
	Offset     int
}

type VersionStore interface {
	// CreateVersion inserts a version. Content is encoded with the store codec.
	CreateVersion(ctx context.Context, version *model.Version) error
	// GetVersion retrieves a version by ID.
	GetVersion(ctx context.Context, id string) (*model.Version, error)
	// GetCurrentVersion retrieves the current version of a document.
	GetCurrentVersion(ctx context.Context, docID string) (*model.Version, error)
	// GetLatestVersion retrieves the version with the highest sequence of a document.
	GetLatestVersion(ctx context.Context, docID string) (*model.Version, error)
	// ListVersions retrieves the versions of a document, newest first.
	ListVersions(ctx context.Context, docID string, filter VersionFilter) ([]*model.Version, error)
	// CountVersions counts the versions of a document.
	CountVersions(ctx context.Context, docID string) (int64, error)
	// DemoteCurrent clears the current flag of versionID, failing with
	// ErrConflict when it is not the current version of the document.
	DemoteCurrent(ctx context.Context, docID, versionID string) error
	// PromoteVersion sets the current flag of versionID, failing with
	// ErrConflict when it is already current or not part of the document.
	PromoteVersion(ctx context.Context, docID, versionID string) error
	// VersionStatistics aggregates the version history of a document.
	VersionStatistics(ctx context.Context, docID string) (*model.VersionStatistics, error)
	// ListCurrentViolations lists documents without exactly one current version.
	ListCurrentViolations(ctx context.Context) ([]*model.CurrentViolation, error)
	// ActivityByDay buckets the activity of a document per day since the given time.
	ActivityByDay(ctx context.Context, docID string, since time.Time) ([]*model.DailyActivity, error)
	// GlobalMetrics aggregates activity across all documents since the given time.
	GlobalMetrics(ctx context.Context, since time.Time) (*model.GlobalMetrics, error)
}

type TagStore interface {
	// CreateTag attaches a tag to a version.
	CreateTag(ctx context.Context, tag *model.VersionTag) error
	// ListTags retrieves the tags of a version in assignment order.
	ListTags(ctx context.Context, versionID string) ([]*model.VersionTag, error)
	// ListVersionsByTag retrieves the versions of a document carrying a tag label.
	ListVersionsByTag(ctx context.Context, docID, label string) ([]*model.Version, error)
}

type AuditStore interface {
	// CreateComparison appends a comparison record.
	CreateComparison(ctx context.Context, comparison *model.Comparison) error
	// ListComparisons retrieves the latest comparisons of a document.
	ListComparisons(ctx context.Context, docID string, limit int) ([]*model.Comparison, error)
	// CreateRestoration appends a restoration record.
	CreateRestoration(ctx context.Context, restoration *model.Restoration) error
	// ListRestorations retrieves the latest restorations of a document.
	ListRestorations(ctx context.Context, docID string, limit int) ([]*model.Restoration, error)
}
