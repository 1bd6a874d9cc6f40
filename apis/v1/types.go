package v1

import (
	"time"

	"github.com/emrgen/docversion/internal/diff"
	"github.com/emrgen/docversion/internal/model"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type (
	Version           = model.Version
	AttachedFile      = model.AttachedFile
	VersionTag        = model.VersionTag
	Comparison        = model.Comparison
	Restoration       = model.Restoration
	VersionStatistics = model.VersionStatistics
	DailyActivity     = model.DailyActivity
	GlobalMetrics     = model.GlobalMetrics
	Change            = diff.Change
)

type RecordEditRequest struct {
	DocumentID   string        `json:"documentId"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Content      string        `json:"content"`
	Keywords     []string      `json:"keywords,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	AccessLevel  string        `json:"accessLevel,omitempty"`
	AttachedFile *AttachedFile `json:"attachedFile,omitempty"`
	Comment      string        `json:"comment,omitempty"`
	ChangeKind   string        `json:"changeKind,omitempty"`
	Force        bool          `json:"force,omitempty"`
}

func (r *RecordEditRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentID, validation.Required),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

type RecordEditResponse struct {
	// Created is false when the edit did not warrant a new version.
	Created bool     `json:"created"`
	Version *Version `json:"version,omitempty"`
}

type GetVersionRequest struct {
	ID string `json:"id"`
}

func (r *GetVersionRequest) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.ID, validation.Required))
}

type GetCurrentVersionRequest struct {
	DocumentID string `json:"documentId"`
}

func (r *GetCurrentVersionRequest) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.DocumentID, validation.Required))
}

type VersionResponse struct {
	Version *Version `json:"version"`
}

type ListVersionsRequest struct {
	DocumentID string     `json:"documentId"`
	ChangeKind string     `json:"changeKind,omitempty"`
	Author     string     `json:"author,omitempty"`
	Tag        string     `json:"tag,omitempty"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}

func (r *ListVersionsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentID, validation.Required),
		validation.Field(&r.Limit, validation.Min(0)),
		validation.Field(&r.Offset, validation.Min(0)),
	)
}

type ListVersionsResponse struct {
	Versions []*Version `json:"versions"`
	Total    int64      `json:"total"`
}

type CompareVersionsRequest struct {
	OriginID      string `json:"originId"`
	DestinationID string `json:"destinationId"`
	// Unified asks for a unified diff next to the structured changes.
	Unified bool `json:"unified,omitempty"`
}

func (r *CompareVersionsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OriginID, validation.Required),
		validation.Field(&r.DestinationID, validation.Required),
	)
}

type FieldChange struct {
	Field       string `json:"field"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

type CompareVersionsResponse struct {
	Comparison    *Comparison   `json:"comparison"`
	Changes       []Change      `json:"changes"`
	FieldChanges  []FieldChange `json:"fieldChanges"`
	Additions     int           `json:"additions"`
	Deletions     int           `json:"deletions"`
	Modifications int           `json:"modifications"`
	Percentage    float64       `json:"percentage"`
	Unified       string        `json:"unified,omitempty"`
}

type RestoreVersionRequest struct {
	DocumentID string `json:"documentId"`
	VersionID  string `json:"versionId"`
	Reason     string `json:"reason,omitempty"`
}

func (r *RestoreVersionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentID, validation.Required),
		validation.Field(&r.VersionID, validation.Required),
	)
}

type RestoreVersionResponse struct {
	Restoration    *Restoration `json:"restoration"`
	Current        *Version     `json:"current"`
	AlreadyCurrent bool         `json:"alreadyCurrent"`
}

type AddTagRequest struct {
	VersionID   string `json:"versionId"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

func (r *AddTagRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.VersionID, validation.Required),
		validation.Field(&r.Label, validation.Required),
	)
}

type TagResponse struct {
	Tag *VersionTag `json:"tag"`
}

type ListTagsRequest struct {
	VersionID string `json:"versionId"`
}

func (r *ListTagsRequest) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.VersionID, validation.Required))
}

type ListTagsResponse struct {
	Tags []*VersionTag `json:"tags"`
}

type ListVersionsByTagRequest struct {
	DocumentID string `json:"documentId"`
	Label      string `json:"label"`
}

func (r *ListVersionsByTagRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentID, validation.Required),
		validation.Field(&r.Label, validation.Required),
	)
}

type GetStatisticsRequest struct {
	DocumentID string `json:"documentId"`
}

func (r *GetStatisticsRequest) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.DocumentID, validation.Required))
}

type GetStatisticsResponse struct {
	Statistics *VersionStatistics `json:"statistics"`
}

type ListHistoryRequest struct {
	DocumentID string `json:"documentId"`
	Limit      int    `json:"limit,omitempty"`
}

func (r *ListHistoryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentID, validation.Required),
		validation.Field(&r.Limit, validation.Min(0)),
	)
}

type ListComparisonsResponse struct {
	Comparisons []*Comparison `json:"comparisons"`
}

type ListRestorationsResponse struct {
	Restorations []*Restoration `json:"restorations"`
}

type GetActivityRequest struct {
	DocumentID string `json:"documentId"`
	Days       int    `json:"days,omitempty"`
}

func (r *GetActivityRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentID, validation.Required),
		validation.Field(&r.Days, validation.Min(0)),
	)
}

type GetActivityResponse struct {
	Days []*DailyActivity `json:"days"`
}

type GetGlobalMetricsRequest struct {
	Days int `json:"days,omitempty"`
}

func (r *GetGlobalMetricsRequest) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.Days, validation.Min(0)))
}

type GetGlobalMetricsResponse struct {
	Metrics *GlobalMetrics `json:"metrics"`
}
