// Package postgrestest opens in-memory SQLite databases with the application
// schema for repository and service tests.
package postgrestest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/gravadigital/fring-api/internal/domain/activity"
	"github.com/gravadigital/fring-api/internal/domain/challenge"
	"github.com/gravadigital/fring-api/internal/domain/ensemble"
	"github.com/gravadigital/fring-api/internal/domain/favorite"
	"github.com/gravadigital/fring-api/internal/domain/friendship"
	"github.com/gravadigital/fring-api/internal/domain/message"
	"github.com/gravadigital/fring-api/internal/domain/profile"
	"github.com/gravadigital/fring-api/internal/domain/vote"
)

// clothingItemsDDL replaces the text[] column, which SQLite has no type for
const clothingItemsDDL = `CREATE TABLE clothing_items (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT,
	category TEXT,
	color TEXT,
	brand TEXT,
	temperature_suitability TEXT,
	weather_tags TEXT,
	image_key TEXT,
	created_at DATETIME,
	updated_at DATETIME
)`

// Open returns a migrated in-memory database closed at the end of the test
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec(clothingItemsDDL).Error)
	require.NoError(t, db.AutoMigrate(
		&profile.Profile{},
		&ensemble.Ensemble{},
		&ensemble.OutfitItem{},
		&vote.Vote{},
		&challenge.Challenge{},
		&challenge.Participation{},
		&friendship.Friendship{},
		&favorite.Favorite{},
		&message.Message{},
		&activity.Entry{},
	))
	return db
}
