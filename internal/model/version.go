package model

import (
	"fmt"
	"time"
)

// ChangeKind is the reason a version was recorded.
type ChangeKind string

const (
	ChangeKindCreation    ChangeKind = "creation"
	ChangeKindEdit        ChangeKind = "edit"
	ChangeKindRestoration ChangeKind = "restoration"
	ChangeKindBackup      ChangeKind = "backup"
)

// ChangeKinds lists every valid change kind.
var ChangeKinds = []ChangeKind{
	ChangeKindCreation,
	ChangeKindEdit,
	ChangeKindRestoration,
	ChangeKindBackup,
}

func (k ChangeKind) Valid() bool {
	for _, kind := range ChangeKinds {
		if k == kind {
			return true
		}
	}
	return false
}

const DefaultAccessLevel = "public"

// AttachedFile is metadata of a file referenced by a version. The bytes live
// with the file storage collaborator.
type AttachedFile struct {
	URL          string `gorm:"type:varchar(1000)" json:"url,omitempty"`
	OriginalName string `gorm:"type:varchar(500)" json:"originalName,omitempty"`
	MimeType     string `gorm:"type:varchar(200)" json:"mimeType,omitempty"`
	Size         int64  `json:"size,omitempty"`
}

func (f AttachedFile) IsZero() bool {
	return f == AttachedFile{}
}

// Version is an immutable snapshot of a document. Only IsCurrent changes
// after insert.
type Version struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	DocumentID  string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_versions_document_token,priority:1;uniqueIndex:idx_versions_current,where:is_current = true;index:idx_versions_document_created,priority:1" json:"documentId"`
	Sequence    int64      `gorm:"not null" json:"sequence"`
	Token       string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_versions_document_token,priority:2" json:"versionToken"`
	ChangeKind  ChangeKind `gorm:"type:varchar(20);not null;default:'edit';index:idx_versions_change_kind" json:"changeKind"`
	Author      string     `gorm:"type:varchar(255);not null;index:idx_versions_author" json:"author"`
	Title       string     `gorm:"type:varchar(500);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`

	// Content is the decoded payload; the store persists it through Data.
	Content     string `gorm:"-" json:"content"`
	Data        []byte `gorm:"column:content" json:"-"`
	Compression string `gorm:"type:varchar(20)" json:"-"`

	Keywords     StringSet    `gorm:"type:text" json:"keywords"`
	Tags         StringSet    `gorm:"type:text" json:"tags"`
	AccessLevel  string       `gorm:"type:varchar(50);not null;default:'public'" json:"accessLevel"`
	AttachedFile AttachedFile `gorm:"embedded;embeddedPrefix:file_" json:"attachedFile"`
	Comment      string       `gorm:"type:text" json:"comment,omitempty"`

	ContentSize    int64     `gorm:"not null" json:"contentSize"`
	Fingerprint    string    `gorm:"type:varchar(64);not null;index:idx_versions_fingerprint" json:"contentFingerprint"`
	IsCurrent      bool      `gorm:"not null;default:false" json:"isCurrent"`
	RestoredFromID *string   `gorm:"type:varchar(36)" json:"restoredFromId,omitempty"`
	CreatedAt      time.Time `gorm:"not null;index:idx_versions_document_created,priority:2" json:"createdAt"`
}

func (Version) TableName() string {
	return "versions"
}

// VersionToken formats a sequence as the public version token.
func VersionToken(sequence int64) string {
	return fmt.Sprintf("v%d", sequence)
}
