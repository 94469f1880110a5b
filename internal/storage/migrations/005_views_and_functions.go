package migrations

import "gorm.io/gorm"

// migration005Up creates the trigram indexes used by the admin user search
// and a view of vote scores per participation.
func migration005Up(db *gorm.DB) error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_profiles_username_trgm ON profiles USING gin (LOWER(username) gin_trgm_ops)",
		"CREATE INDEX IF NOT EXISTS idx_profiles_email_trgm ON profiles USING gin (LOWER(email) gin_trgm_ops)",

		`CREATE OR REPLACE VIEW participation_scores AS
        SELECT
            p.id AS participation_id,
            p.challenge_id,
            p.user_id,
            p.submitted_at,
            COUNT(v.id) FILTER (WHERE v.value = 'up') AS up_votes,
            COUNT(v.id) FILTER (WHERE v.value = 'down') AS down_votes,
            COUNT(v.id) FILTER (WHERE v.value = 'up') - COUNT(v.id) FILTER (WHERE v.value = 'down') AS score
        FROM participations p
        LEFT JOIN votes v ON v.entity_type = 'defi' AND v.entity_id = p.id
        GROUP BY p.id, p.challenge_id, p.user_id, p.submitted_at`,
	}

	for _, statement := range statements {
		if err := db.Exec(statement).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration005Down drops the view and the trigram indexes
func migration005Down(db *gorm.DB) error {
	statements := []string{
		"DROP VIEW IF EXISTS participation_scores",
		"DROP INDEX IF EXISTS idx_profiles_username_trgm",
		"DROP INDEX IF EXISTS idx_profiles_email_trgm",
	}

	for _, statement := range statements {
		if err := db.Exec(statement).Error; err != nil {
			return err
		}
	}

	return nil
}
