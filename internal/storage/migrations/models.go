package migrations

import (
	"github.com/gravadigital/fring-api/internal/domain/activity"
	"github.com/gravadigital/fring-api/internal/domain/challenge"
	"github.com/gravadigital/fring-api/internal/domain/ensemble"
	"github.com/gravadigital/fring-api/internal/domain/favorite"
	"github.com/gravadigital/fring-api/internal/domain/friendship"
	"github.com/gravadigital/fring-api/internal/domain/message"
	"github.com/gravadigital/fring-api/internal/domain/profile"
	"github.com/gravadigital/fring-api/internal/domain/vote"
	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
)

// AllModels lists every persisted model in dependency order
func AllModels() []any {
	return []any{
		&profile.Profile{},
		&wardrobe.Item{},
		&ensemble.Ensemble{},
		&ensemble.OutfitItem{},
		&vote.Vote{},
		&challenge.Challenge{},
		&challenge.Participation{},
		&friendship.Friendship{},
		&favorite.Favorite{},
		&message.Message{},
		&activity.Entry{},
	}
}
