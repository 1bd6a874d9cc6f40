package model

import "time"

const (
	DefaultTagColor = "#10b981"
	DefaultTagIcon  = "🏷️"
)

// VersionTag is a label attached to a single version. Labels are not unique.
type VersionTag struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	VersionID   string    `gorm:"type:varchar(36);not null;index:idx_version_tags_version" json:"versionId"`
	DocumentID  string    `gorm:"type:varchar(255);not null;index:idx_version_tags_document_label,priority:1" json:"documentId"`
	Label       string    `gorm:"type:varchar(100);not null;index:idx_version_tags_document_label,priority:2" json:"label"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Color       string    `gorm:"type:varchar(7)" json:"color"`
	Icon        string    `gorm:"type:varchar(20)" json:"icon"`
	AssignedBy  string    `gorm:"type:varchar(255);not null" json:"assignedBy"`
	AssignedAt  time.Time `gorm:"not null" json:"assignedAt"`
}

func (VersionTag) TableName() string {
	return "version_tags"
}
