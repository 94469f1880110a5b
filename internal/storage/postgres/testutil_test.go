package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/domain/challenge"
	"github.com/gravadigital/fring-api/internal/domain/ensemble"
	"github.com/gravadigital/fring-api/internal/domain/profile"
	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
	"github.com/gravadigital/fring-api/internal/storage/postgres/postgrestest"
)

func newTestDB(t *testing.T) *gorm.DB {
	return postgrestest.Open(t)
}

func seedProfile(t *testing.T, db *gorm.DB, username string) *profile.Profile {
	t.Helper()
	p := profile.NewProfile(uuid.New(), username+"@example.com", username)
	require.NoError(t, NewPostgresProfileRepository(db).Create(context.Background(), p))
	return p
}

func seedItem(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string, category wardrobe.Category) *wardrobe.Item {
	t.Helper()
	item := wardrobe.NewItem(ownerID, name, "", "noir", "")
	item.Category = &category
	require.NoError(t, NewPostgresItemRepository(db).Create(context.Background(), item))
	return item
}

// seedEnsemble creates three items and an ensemble made of them
func seedEnsemble(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *ensemble.Ensemble {
	t.Helper()
	sel := ensemble.Selection{}
	for _, slot := range wardrobe.Slots {
		sel[slot] = seedItem(t, db, ownerID, string(slot)+" piece", slot).ID
	}
	e, err := ensemble.NewEnsemble(ownerID, "Tenue du jour", sel)
	require.NoError(t, err)
	require.NoError(t, NewPostgresEnsembleRepository(db).Create(context.Background(), e))
	return e
}

func seedChallenge(t *testing.T, db *gorm.DB, authorID uuid.UUID) *challenge.Challenge {
	t.Helper()
	now := time.Now().UTC()
	c := challenge.NewChallenge("Look d'automne", "", "automne", authorID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, NewPostgresChallengeRepository(db).Create(context.Background(), c))
	return c
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
