package migrations

import "gorm.io/gorm"

// migration001Up creates extensions. Enumerations are varchar columns
// guarded by CHECK constraints in 004.
func migration001Up(db *gorm.DB) error {
	extensions := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,
		`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	}
	for _, ext := range extensions {
		if err := db.Exec(ext).Error; err != nil {
			return err
		}
	}
	return nil
}

// migration001Down keeps the extensions, other databases on the cluster may rely on them
func migration001Down(db *gorm.DB) error {
	return nil
}
