package migrations

import "gorm.io/gorm"

// migration003Up creates the indexes the listing queries rely on
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles(role)",
		"CREATE INDEX IF NOT EXISTS idx_profiles_created_at ON profiles(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_clothing_items_owner_created ON clothing_items(owner_id, created_at, id)",
		"CREATE INDEX IF NOT EXISTS idx_clothing_items_category ON clothing_items(category)",

		"CREATE INDEX IF NOT EXISTS idx_outfits_owner_created ON outfits(owner_id, created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_votes_entity ON votes(entity_type, entity_id)",
		"CREATE INDEX IF NOT EXISTS idx_votes_voter ON votes(voter_id)",

		"CREATE INDEX IF NOT EXISTS idx_challenges_window ON challenges(starts_at, ends_at)",

		"CREATE INDEX IF NOT EXISTS idx_participations_challenge ON participations(challenge_id, submitted_at)",
		"CREATE INDEX IF NOT EXISTS idx_participations_ensemble ON participations(ensemble_id)",

		"CREATE INDEX IF NOT EXISTS idx_friendships_status ON friendships(status)",

		"CREATE INDEX IF NOT EXISTS idx_favorites_target ON favorites(target_type, target_id)",

		"CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(recipient_id) WHERE read_at IS NULL",

		"CREATE INDEX IF NOT EXISTS idx_activity_logs_action ON activity_logs(action)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops the indexes
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"idx_profiles_role",
		"idx_profiles_created_at",
		"idx_clothing_items_owner_created",
		"idx_clothing_items_category",
		"idx_outfits_owner_created",
		"idx_votes_entity",
		"idx_votes_voter",
		"idx_challenges_window",
		"idx_participations_challenge",
		"idx_participations_ensemble",
		"idx_friendships_status",
		"idx_favorites_target",
		"idx_messages_unread",
		"idx_activity_logs_action",
	}

	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index).Error; err != nil {
			return err
		}
	}

	return nil
}
