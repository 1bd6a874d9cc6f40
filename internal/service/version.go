package service

import (
	"context"
	"errors"
	"time"

	"github.com/emrgen/docversion/internal/cache"
	"github.com/emrgen/docversion/internal/events"
	"github.com/emrgen/docversion/internal/fingerprint"
	"github.com/emrgen/docversion/internal/metrics"
	"github.com/emrgen/docversion/internal/model"
	"github.com/emrgen/docversion/internal/store"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// VersionInput is the snapshot of document fields a version is created from.
type VersionInput struct {
	DocumentID   string              `json:"documentId"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Content      string              `json:"content"`
	Keywords     []string            `json:"keywords"`
	Tags         []string            `json:"tags"`
	AccessLevel  string              `json:"accessLevel"`
	AttachedFile *model.AttachedFile `json:"attachedFile"`
	Comment      string              `json:"comment"`
	ChangeKind   model.ChangeKind    `json:"changeKind"`
	Author       string              `json:"author"`
}

func (in VersionInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.DocumentID, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.AccessLevel, validation.Length(0, 50)),
		validation.Field(&in.ChangeKind, validation.In(
			model.ChangeKindCreation,
			model.ChangeKindEdit,
			model.ChangeKindRestoration,
			model.ChangeKindBackup,
		)),
	)
}

// NewVersionService creates a new VersionService.
func NewVersionService(store store.Store, opts ...Option) *VersionService {
	o := newOptions(opts)

	return &VersionService{
		store:     store,
		cache:     o.cache,
		publisher: o.publisher,
		metrics:   o.metrics,
		now:       o.now,
		locks:     newDocumentLocks(),
	}
}

// VersionService owns the version records of every document and keeps
// exactly one of them current per document.
type VersionService struct {
	store     store.Store
	cache     cache.VersionCache
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
	locks     *documentLocks
}

// Create records a new current version and demotes the previous one.
func (s *VersionService) Create(ctx context.Context, in VersionInput) (*model.Version, error) {
	if err := validationError(in.Validate()); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(in.DocumentID)
	defer unlock()

	return s.create(ctx, in)
}

// Get retrieves a version by ID.
func (s *VersionService) Get(ctx context.Context, id string) (*model.Version, error) {
	version, err := s.store.GetVersion(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("version", id)
	}

	return version, err
}

// GetCurrent retrieves the current version of a document. It reads through
// the cache without filling it; fills happen under the document lock.
func (s *VersionService) GetCurrent(ctx context.Context, docID string) (*model.Version, error) {
	cached, err := s.cache.GetCurrent(ctx, docID)
	if err != nil {
		logrus.Warnf("version cache read failed for document %s: %v", docID, err)
	} else if cached != nil {
		return cached, nil
	}

	version, err := s.store.GetCurrentVersion(ctx, docID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("current version of document", docID)
	}

	return version, err
}

// List retrieves the versions of a document, newest first.
func (s *VersionService) List(ctx context.Context, docID string, filter store.VersionFilter) ([]*model.Version, error) {
	err := validationError(validation.Errors{
		"documentId": validation.Validate(docID, validation.Required),
		"changeKind": validation.Validate(filter.ChangeKind, validation.In(
			model.ChangeKindCreation,
			model.ChangeKindEdit,
			model.ChangeKindRestoration,
			model.ChangeKindBackup,
		)),
		"limit":  validation.Validate(filter.Limit, validation.Min(0)),
		"offset": validation.Validate(filter.Offset, validation.Min(0)),
	}.Filter())
	if err != nil {
		return nil, err
	}

	return s.store.ListVersions(ctx, docID, filter)
}

// Count counts the versions of a document.
func (s *VersionService) Count(ctx context.Context, docID string) (int64, error) {
	return s.store.CountVersions(ctx, docID)
}

// currentLocked returns the current version, or nil when the document has
// none yet. The caller holds the document lock, so a cache miss is filled.
func (s *VersionService) currentLocked(ctx context.Context, docID string) (*model.Version, error) {
	cached, err := s.cache.GetCurrent(ctx, docID)
	if err != nil {
		logrus.Warnf("version cache read failed for document %s: %v", docID, err)
	} else if cached != nil {
		return cached, nil
	}

	version, err := s.store.GetCurrentVersion(ctx, docID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.remember(ctx, version)

	return version, nil
}

// create runs the demote and insert in one transaction and publishes the
// created version. The caller holds the document lock, so events of one
// document are published in sequence order.
func (s *VersionService) create(ctx context.Context, in VersionInput) (*model.Version, error) {
	var created *model.Version
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		created, err = s.insert(ctx, tx, in, nil)
		return err
	})
	if err != nil {
		s.forget(ctx, in.DocumentID)
		if errors.Is(err, store.ErrConflict) {
			s.metrics.Conflicts.WithLabelValues("create").Inc()
		}
		return nil, translate(err, "create version", in.DocumentID)
	}

	s.remember(ctx, created)
	s.metrics.VersionsCreated.WithLabelValues(string(created.ChangeKind)).Inc()
	logrus.Infof("version created: document=%s version=%s token=%s kind=%s", created.DocumentID, created.ID, created.Token, created.ChangeKind)

	s.publishCreated(ctx, created)

	return created, nil
}

// insert demotes the current version of the document, if any, and inserts
// a new current version. It must run inside a transaction.
func (s *VersionService) insert(ctx context.Context, tx store.Store, in VersionInput, restoredFrom *string) (*model.Version, error) {
	current, err := tx.GetCurrentVersion(ctx, in.DocumentID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	latest, err := tx.GetLatestVersion(ctx, in.DocumentID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	sequence := now.UnixMilli()
	if latest != nil && sequence <= latest.Sequence {
		sequence = latest.Sequence + 1
	}

	kind := in.ChangeKind
	if kind == "" {
		kind = model.ChangeKindEdit
		if latest == nil {
			kind = model.ChangeKindCreation
		}
	}

	accessLevel := in.AccessLevel
	if accessLevel == "" {
		accessLevel = model.DefaultAccessLevel
	}

	version := &model.Version{
		ID:             uuid.New().String(),
		DocumentID:     in.DocumentID,
		Sequence:       sequence,
		Token:          model.VersionToken(sequence),
		ChangeKind:     kind,
		Author:         in.Author,
		Title:          in.Title,
		Description:    in.Description,
		Content:        in.Content,
		Keywords:       model.NewStringSet(in.Keywords...),
		Tags:           model.NewStringSet(in.Tags...),
		AccessLevel:    accessLevel,
		Comment:        in.Comment,
		ContentSize:    int64(len(in.Content)),
		Fingerprint:    fingerprint.Of(in.Content),
		IsCurrent:      true,
		RestoredFromID: restoredFrom,
		CreatedAt:      now,
	}
	if in.AttachedFile != nil {
		version.AttachedFile = *in.AttachedFile
	}

	if current != nil {
		if err = tx.DemoteCurrent(ctx, in.DocumentID, current.ID); err != nil {
			return nil, err
		}
	}
	if err = tx.CreateVersion(ctx, version); err != nil {
		return nil, err
	}

	return version, nil
}

func (s *VersionService) remember(ctx context.Context, version *model.Version) {
	if err := s.cache.SetCurrent(ctx, version); err != nil {
		logrus.Warnf("version cache write failed for document %s: %v", version.DocumentID, err)
		s.forget(ctx, version.DocumentID)
	}
}

func (s *VersionService) forget(ctx context.Context, docID string) {
	if err := s.cache.Invalidate(ctx, docID); err != nil {
		logrus.Errorf("version cache invalidate failed for document %s: %v", docID, err)
	}
}

func (s *VersionService) publishCreated(ctx context.Context, version *model.Version) {
	s.publish(ctx, &events.Event{
		Kind:         events.KindVersionCreated,
		DocumentID:   version.DocumentID,
		VersionID:    version.ID,
		VersionToken: version.Token,
		Actor:        version.Author,
	})
}

// publish delivers an event after commit, with the document lock still
// held. Failures are logged; the mutation has already happened.
func (s *VersionService) publish(ctx context.Context, event *events.Event) {
	event.ID = uuid.New().String()
	event.OccurredAt = s.now().UTC()

	if err := s.publisher.Publish(ctx, event); err != nil {
		logrus.Errorf("failed to publish %s for document %s: %v", event.Kind, event.DocumentID, err)
	}
}
