package migrations

import "gorm.io/gorm"

// timestampedTables have an updated_at column maintained by trigger
var timestampedTables = []string{
	"profiles",
	"clothing_items",
	"outfits",
	"votes",
	"challenges",
	"friendships",
}

// migration004Up creates CHECK constraints, foreign keys and the updated_at trigger
func migration004Up(db *gorm.DB) error {
	if err := db.Exec(`CREATE OR REPLACE FUNCTION set_updated_at()
        RETURNS TRIGGER AS $$
        BEGIN
            NEW.updated_at = CURRENT_TIMESTAMP;
            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`).Error; err != nil {
		return err
	}

	for _, table := range timestampedTables {
		trigger := "CREATE TRIGGER trigger_" + table + "_updated_at BEFORE UPDATE ON " + table +
			" FOR EACH ROW EXECUTE FUNCTION set_updated_at()"
		if err := db.Exec(trigger).Error; err != nil {
			return err
		}
	}

	constraints := []string{
		"ALTER TABLE profiles ADD CONSTRAINT valid_role CHECK (role IN ('user', 'admin'))",
		"ALTER TABLE profiles ADD CONSTRAINT valid_theme CHECK (theme IN ('light', 'dark', 'system'))",

		"ALTER TABLE clothing_items ADD CONSTRAINT valid_item_name CHECK (LENGTH(TRIM(name)) > 0)",
		"ALTER TABLE clothing_items ADD CONSTRAINT valid_item_category CHECK (category IS NULL OR category IN ('top', 'bottom', 'footwear', 'other'))",
		"ALTER TABLE clothing_items ADD CONSTRAINT fk_clothing_items_owner FOREIGN KEY (owner_id) REFERENCES profiles(id)",

		"ALTER TABLE outfits ADD CONSTRAINT fk_outfits_owner FOREIGN KEY (owner_id) REFERENCES profiles(id)",
		"ALTER TABLE outfit_items ADD CONSTRAINT valid_slot CHECK (slot IN ('top', 'bottom', 'footwear'))",
		"ALTER TABLE outfit_items ADD CONSTRAINT fk_outfit_items_item FOREIGN KEY (item_id) REFERENCES clothing_items(id)",

		"ALTER TABLE votes ADD CONSTRAINT valid_vote_entity CHECK (entity_type IN ('ensemble', 'defi'))",
		"ALTER TABLE votes ADD CONSTRAINT valid_vote_value CHECK (value IN ('up', 'down'))",
		"ALTER TABLE votes ADD CONSTRAINT fk_votes_voter FOREIGN KEY (voter_id) REFERENCES profiles(id)",

		"ALTER TABLE challenges ADD CONSTRAINT valid_challenge_window CHECK (ends_at > starts_at)",

		"ALTER TABLE participations ADD CONSTRAINT fk_participations_challenge FOREIGN KEY (challenge_id) REFERENCES challenges(id)",
		"ALTER TABLE participations ADD CONSTRAINT fk_participations_ensemble FOREIGN KEY (ensemble_id) REFERENCES outfits(id)",
		"ALTER TABLE participations ADD CONSTRAINT fk_participations_user FOREIGN KEY (user_id) REFERENCES profiles(id)",

		"ALTER TABLE friendships ADD CONSTRAINT valid_friendship_status CHECK (status IN ('pending', 'accepted', 'rejected'))",
		"ALTER TABLE friendships ADD CONSTRAINT no_self_friendship CHECK (requester_id <> addressee_id)",
		"ALTER TABLE friendships ADD CONSTRAINT fk_friendships_requester FOREIGN KEY (requester_id) REFERENCES profiles(id)",
		"ALTER TABLE friendships ADD CONSTRAINT fk_friendships_addressee FOREIGN KEY (addressee_id) REFERENCES profiles(id)",

		"ALTER TABLE favorites ADD CONSTRAINT valid_favorite_target CHECK (target_type IN ('user', 'item', 'ensemble'))",
		"ALTER TABLE favorites ADD CONSTRAINT fk_favorites_owner FOREIGN KEY (owner_id) REFERENCES profiles(id)",

		"ALTER TABLE messages ADD CONSTRAINT valid_message_body CHECK (LENGTH(TRIM(body)) > 0 AND char_length(body) <= 2000)",
		"ALTER TABLE messages ADD CONSTRAINT no_self_message CHECK (sender_id <> recipient_id)",
		"ALTER TABLE messages ADD CONSTRAINT fk_messages_sender FOREIGN KEY (sender_id) REFERENCES profiles(id)",
		"ALTER TABLE messages ADD CONSTRAINT fk_messages_recipient FOREIGN KEY (recipient_id) REFERENCES profiles(id)",
	}

	for _, constraintSQL := range constraints {
		if err := db.Exec(constraintSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration004Down drops constraints and triggers
func migration004Down(db *gorm.DB) error {
	for _, table := range timestampedTables {
		if err := db.Exec("DROP TRIGGER IF EXISTS trigger_" + table + "_updated_at ON " + table).Error; err != nil {
			return err
		}
	}

	if err := db.Exec("DROP FUNCTION IF EXISTS set_updated_at() CASCADE").Error; err != nil {
		return err
	}

	constraints := map[string][]string{
		"profiles":       {"valid_role", "valid_theme"},
		"clothing_items": {"valid_item_name", "valid_item_category", "fk_clothing_items_owner"},
		"outfits":        {"fk_outfits_owner"},
		"outfit_items":   {"valid_slot", "fk_outfit_items_item"},
		"votes":          {"valid_vote_entity", "valid_vote_value", "fk_votes_voter"},
		"challenges":     {"valid_challenge_window"},
		"participations": {"fk_participations_challenge", "fk_participations_ensemble", "fk_participations_user"},
		"friendships":    {"valid_friendship_status", "no_self_friendship", "fk_friendships_requester", "fk_friendships_addressee"},
		"favorites":      {"valid_favorite_target", "fk_favorites_owner"},
		"messages":       {"valid_message_body", "no_self_message", "fk_messages_sender", "fk_messages_recipient"},
	}

	for table, names := range constraints {
		for _, name := range names {
			if err := db.Exec("ALTER TABLE " + table + " DROP CONSTRAINT IF EXISTS " + name).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
