package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/emrgen/docversion/internal/compress"
	"github.com/emrgen/docversion/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB, codec compress.Compress) *GormStore {
	if codec == nil {
		codec = compress.NewNop()
	}

	return &GormStore{
		db:    db,
		codec: codec,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db    *gorm.DB
	codec compress.Compress
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx, codec: g.codec})
	})
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) CreateVersion(ctx context.Context, version *model.Version) error {
	data, err := g.codec.Encode([]byte(version.Content))
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}
	version.Data = data
	version.Compression = g.codec.Name()

	err = g.db.WithContext(ctx).Create(version).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		logrus.Warnf("duplicate version for document %s: %v", version.DocumentID, err)
		return ErrConflict
	}

	return err
}

func (g *GormStore) GetVersion(ctx context.Context, id string) (*model.Version, error) {
	var version model.Version
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&version).Error
	if err != nil {
		return nil, translate(err)
	}

	return &version, g.decode(&version)
}

func (g *GormStore) GetCurrentVersion(ctx context.Context, docID string) (*model.Version, error) {
	var version model.Version
	err := g.db.WithContext(ctx).
		Where("document_id = ? AND is_current = ?", docID, true).
		First(&version).Error
	if err != nil {
		return nil, translate(err)
	}

	return &version, g.decode(&version)
}

func (g *GormStore) GetLatestVersion(ctx context.Context, docID string) (*model.Version, error) {
	var version model.Version
	err := g.db.WithContext(ctx).
		Where("document_id = ?", docID).
		Order("sequence desc").
		First(&version).Error
	if err != nil {
		return nil, translate(err)
	}

	return &version, g.decode(&version)
}

func (g *GormStore) ListVersions(ctx context.Context, docID string, filter VersionFilter) ([]*model.Version, error) {
	query := g.db.WithContext(ctx).Where("document_id = ?", docID)

	if filter.ChangeKind != "" {
		query = query.Where("change_kind = ?", filter.ChangeKind)
	}
	if filter.Author != "" {
		query = query.Where("author = ?", filter.Author)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.TagLabel != "" {
		tagged := g.db.WithContext(ctx).Model(&model.VersionTag{}).
			Select("version_id").
			Where("document_id = ? AND label = ?", docID, filter.TagLabel)
		query = query.Where("id IN (?)", tagged)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var versions []*model.Version
	err := query.Order("created_at desc").Order("sequence desc").Find(&versions).Error
	if err != nil {
		return nil, err
	}

	return versions, g.decode(versions...)
}

func (g *GormStore) CountVersions(ctx context.Context, docID string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Version{}).Where("document_id = ?", docID).Count(&count).Error
	return count, err
}

// DemoteCurrent is a conditional update so that two writers racing on the
// same document cannot both demote the same version.
func (g *GormStore) DemoteCurrent(ctx context.Context, docID, versionID string) error {
	res := g.db.WithContext(ctx).Model(&model.Version{}).
		Where("document_id = ? AND id = ? AND is_current = ?", docID, versionID, true).
		Update("is_current", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrConflict
	}

	return nil
}

func (g *GormStore) PromoteVersion(ctx context.Context, docID, versionID string) error {
	res := g.db.WithContext(ctx).Model(&model.Version{}).
		Where("document_id = ? AND id = ? AND is_current = ?", docID, versionID, false).
		Update("is_current", true)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrConflict
	}

	return nil
}

func (g *GormStore) VersionStatistics(ctx context.Context, docID string) (*model.VersionStatistics, error) {
	var row struct {
		Total   int64
		Authors int64
		AvgSize sql.NullFloat64
	}
	err := g.db.WithContext(ctx).Model(&model.Version{}).
		Select("COUNT(*) AS total, COUNT(DISTINCT author) AS authors, AVG(content_size) AS avg_size").
		Where("document_id = ?", docID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &model.VersionStatistics{
		TotalVersions:      row.Total,
		UniqueAuthorCount:  row.Authors,
		AverageContentSize: row.AvgSize.Float64,
	}
	if row.Total == 0 {
		return stats, nil
	}

	var latest model.Version
	err = g.db.WithContext(ctx).
		Select("created_at").
		Where("document_id = ?", docID).
		Order("created_at desc").
		Take(&latest).Error
	if err != nil {
		return nil, translate(err)
	}
	lastModified := latest.CreatedAt
	stats.LastModifiedAt = &lastModified

	return stats, nil
}

func (g *GormStore) ListCurrentViolations(ctx context.Context) ([]*model.CurrentViolation, error) {
	const currentCount = "SUM(CASE WHEN is_current THEN 1 ELSE 0 END)"

	var violations []*model.CurrentViolation
	err := g.db.WithContext(ctx).Model(&model.Version{}).
		Select("document_id, " + currentCount + " AS current_count").
		Group("document_id").
		Having(currentCount + " <> 1").
		Scan(&violations).Error

	return violations, err
}

func (g *GormStore) ActivityByDay(ctx context.Context, docID string, since time.Time) ([]*model.DailyActivity, error) {
	var versions []*model.Version
	err := g.db.WithContext(ctx).
		Select("author", "change_kind", "created_at").
		Where("document_id = ? AND created_at >= ?", docID, since).
		Find(&versions).Error
	if err != nil {
		return nil, err
	}

	var restorations []*model.Restoration
	err = g.db.WithContext(ctx).
		Select("performed_at").
		Where("document_id = ? AND performed_at >= ?", docID, since).
		Find(&restorations).Error
	if err != nil {
		return nil, err
	}

	days := make(map[string]*model.DailyActivity)
	editors := make(map[string]map[string]struct{})
	day := func(t time.Time) *model.DailyActivity {
		key := t.UTC().Format(time.DateOnly)
		if _, ok := days[key]; !ok {
			days[key] = &model.DailyActivity{Date: key}
			editors[key] = make(map[string]struct{})
		}
		return days[key]
	}

	for _, v := range versions {
		activity := day(v.CreatedAt)
		activity.VersionsCreated++
		if v.ChangeKind == model.ChangeKindEdit {
			activity.Edits++
		}
		editors[activity.Date][v.Author] = struct{}{}
	}
	for _, r := range restorations {
		day(r.PerformedAt).Restorations++
	}

	out := make([]*model.DailyActivity, 0, len(days))
	for key, activity := range days {
		activity.UniqueEditors = int64(len(editors[key]))
		out = append(out, activity)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})

	return out, nil
}

func (g *GormStore) GlobalMetrics(ctx context.Context, since time.Time) (*model.GlobalMetrics, error) {
	metrics := &model.GlobalMetrics{Since: since}
	versions := func() *gorm.DB {
		return g.db.WithContext(ctx).Model(&model.Version{}).Where("created_at >= ?", since)
	}

	if err := versions().Distinct("document_id").Count(&metrics.DocumentsWithVersions).Error; err != nil {
		return nil, err
	}
	if err := versions().Count(&metrics.TotalVersions).Error; err != nil {
		return nil, err
	}
	if err := versions().Distinct("author").Count(&metrics.TotalEditors).Error; err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	if err := versions().Select("AVG(content_size)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	metrics.AverageContentSize = avg.Float64

	err := g.db.WithContext(ctx).Model(&model.Restoration{}).
		Where("performed_at >= ?", since).
		Count(&metrics.TotalRestorations).Error
	if err != nil {
		return nil, err
	}
	err = g.db.WithContext(ctx).Model(&model.Comparison{}).
		Where("requested_at >= ?", since).
		Count(&metrics.TotalComparisons).Error
	if err != nil {
		return nil, err
	}
	err = g.db.WithContext(ctx).Model(&model.VersionTag{}).
		Where("assigned_at >= ?", since).
		Count(&metrics.TotalTags).Error
	if err != nil {
		return nil, err
	}

	return metrics, nil
}

func (g *GormStore) CreateTag(ctx context.Context, tag *model.VersionTag) error {
	return g.db.WithContext(ctx).Create(tag).Error
}

func (g *GormStore) ListTags(ctx context.Context, versionID string) ([]*model.VersionTag, error) {
	var tags []*model.VersionTag
	err := g.db.WithContext(ctx).
		Where("version_id = ?", versionID).
		Order("assigned_at asc").
		Find(&tags).Error

	return tags, err
}

func (g *GormStore) ListVersionsByTag(ctx context.Context, docID, label string) ([]*model.Version, error) {
	return g.ListVersions(ctx, docID, VersionFilter{TagLabel: label})
}

func (g *GormStore) CreateComparison(ctx context.Context, comparison *model.Comparison) error {
	return g.db.WithContext(ctx).Create(comparison).Error
}

func (g *GormStore) ListComparisons(ctx context.Context, docID string, limit int) ([]*model.Comparison, error) {
	var comparisons []*model.Comparison
	query := g.db.WithContext(ctx).Where("document_id = ?", docID).Order("requested_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	return comparisons, query.Find(&comparisons).Error
}

func (g *GormStore) CreateRestoration(ctx context.Context, restoration *model.Restoration) error {
	return g.db.WithContext(ctx).Create(restoration).Error
}

func (g *GormStore) ListRestorations(ctx context.Context, docID string, limit int) ([]*model.Restoration, error) {
	var restorations []*model.Restoration
	query := g.db.WithContext(ctx).Where("document_id = ?", docID).Order("performed_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	return restorations, query.Find(&restorations).Error
}

// decode restores Content from the persisted payload using the codec the
// version was written with.
func (g *GormStore) decode(versions ...*model.Version) error {
	for _, v := range versions {
		codec, err := compress.ByName(v.Compression)
		if err != nil {
			return err
		}

		data, err := codec.Decode(v.Data)
		if err != nil {
			return fmt.Errorf("decode content of version %s: %w", v.ID, err)
		}
		v.Content = string(data)
		v.Data = nil
	}

	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	return err
}
