package model

import "time"

// VersionStatistics summarises the version history of one document.
type VersionStatistics struct {
	TotalVersions      int64      `json:"totalVersions"`
	UniqueAuthorCount  int64      `json:"uniqueAuthorCount"`
	AverageContentSize float64    `json:"averageContentSize"`
	LastModifiedAt     *time.Time `json:"lastModifiedAt,omitempty"`
}

// DailyActivity is the activity of one document on one calendar day (UTC).
type DailyActivity struct {
	Date            string `json:"date"`
	VersionsCreated int64  `json:"versionsCreated"`
	UniqueEditors   int64  `json:"uniqueEditors"`
	Edits           int64  `json:"edits"`
	Restorations    int64  `json:"restorations"`
}

// GlobalMetrics summarises versioning activity across every document.
type GlobalMetrics struct {
	Since                 time.Time `json:"since"`
	DocumentsWithVersions int64     `json:"documentsWithVersions"`
	TotalVersions         int64     `json:"totalVersions"`
	TotalEditors          int64     `json:"totalEditors"`
	AverageContentSize    float64   `json:"averageContentSize"`
	TotalRestorations     int64     `json:"totalRestorations"`
	TotalComparisons      int64     `json:"totalComparisons"`
	TotalTags             int64     `json:"totalTags"`
}

// CurrentViolation is a document whose current version count is not one.
type CurrentViolation struct {
	DocumentID   string `json:"documentId"`
	CurrentCount int64  `json:"currentCount"`
}
