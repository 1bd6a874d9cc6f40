package service

import (
	"context"
	"regexp"

	"github.com/emrgen/docversion/internal/model"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// TagInput describes a tag to attach to a version.
type TagInput struct {
	VersionID   string `json:"versionId"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	AssignedBy  string `json:"assignedBy"`
}

func (in TagInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.VersionID, validation.Required),
		validation.Field(&in.Label, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Color, validation.Match(hexColor).Error("must be a hex color like #10b981")),
		validation.Field(&in.Icon, validation.RuneLength(0, 8)),
		validation.Field(&in.AssignedBy, validation.Required),
	)
}

// NewTagService creates a new TagService.
func NewTagService(versions *VersionService) *TagService {
	return &TagService{versions: versions}
}

// TagService attaches labels to versions. Tags are append-only.
type TagService struct {
	versions *VersionService
}

// AddTag attaches a tag to an existing version.
func (t *TagService) AddTag(ctx context.Context, in TagInput) (*model.VersionTag, error) {
	if err := validationError(in.Validate()); err != nil {
		return nil, err
	}

	version, err := t.versions.Get(ctx, in.VersionID)
	if err != nil {
		return nil, err
	}

	unlock := t.versions.locks.Lock(version.DocumentID)
	defer unlock()

	tag := &model.VersionTag{
		ID:          uuid.New().String(),
		VersionID:   version.ID,
		DocumentID:  version.DocumentID,
		Label:       in.Label,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
		AssignedBy:  in.AssignedBy,
		AssignedAt:  t.versions.now().UTC(),
	}
	if tag.Color == "" {
		tag.Color = model.DefaultTagColor
	}
	if tag.Icon == "" {
		tag.Icon = model.DefaultTagIcon
	}

	if err = t.versions.store.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	logrus.Infof("tag added: document=%s version=%s label=%s", tag.DocumentID, tag.VersionID, tag.Label)

	return tag, nil
}

// ListTags lists the tags of a version in assignment order.
func (t *TagService) ListTags(ctx context.Context, versionID string) ([]*model.VersionTag, error) {
	if _, err := t.versions.Get(ctx, versionID); err != nil {
		return nil, err
	}

	return t.versions.store.ListTags(ctx, versionID)
}

// ListVersionsByTag lists the versions of a document carrying label, newest first.
func (t *TagService) ListVersionsByTag(ctx context.Context, docID, label string) ([]*model.Version, error) {
	err := validationError(validation.Errors{
		"documentId": validation.Validate(docID, validation.Required),
		"label":      validation.Validate(label, validation.Required),
	}.Filter())
	if err != nil {
		return nil, err
	}

	return t.versions.store.ListVersionsByTag(ctx, docID, label)
}
