package model

import "gorm.io/gorm"

// Migrate creates or updates the versioning tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Version{},
		&VersionTag{},
		&Comparison{},
		&Restoration{},
	)
}
