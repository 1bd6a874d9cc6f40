package model

import "time"

// Comparison is an audit entry written for every diff request.
type Comparison struct {
	ID                   string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	DocumentID           string    `gorm:"type:varchar(255);not null;index:idx_comparisons_document,priority:1" json:"documentId"`
	OriginVersionID      string    `gorm:"type:varchar(36);not null" json:"originVersionId"`
	DestinationVersionID string    `gorm:"type:varchar(36);not null" json:"destinationVersionId"`
	RequestedBy          string    `gorm:"type:varchar(255);not null" json:"requestedBy"`
	Additions            int       `json:"additions"`
	Deletions            int       `json:"deletions"`
	Modifications        int       `json:"modifications"`
	Percentage           float64   `json:"percentage"`
	RequestedAt          time.Time `gorm:"not null;index:idx_comparisons_document,priority:2" json:"requestedAt"`
}

func (Comparison) TableName() string {
	return "version_comparisons"
}

// Restoration is an audit entry written when a historical version becomes
// current. ResultVersionID is the restored version itself, or the clone when
// restores append a new version.
type Restoration struct {
	ID                       string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	DocumentID               string    `gorm:"type:varchar(255);not null;index:idx_restorations_document,priority:1" json:"documentId"`
	RestoredVersionID        string    `gorm:"type:varchar(36);not null" json:"restoredVersionId"`
	PreviousCurrentVersionID string    `gorm:"type:varchar(36);not null" json:"previousCurrentVersionId"`
	ResultVersionID          string    `gorm:"type:varchar(36);not null" json:"resultVersionId"`
	PerformedBy              string    `gorm:"type:varchar(255);not null" json:"performedBy"`
	Reason                   string    `gorm:"type:text" json:"reason,omitempty"`
	PerformedAt              time.Time `gorm:"not null;index:idx_restorations_document,priority:2" json:"performedAt"`
}

func (Restoration) TableName() string {
	return "version_restorations"
}
