package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/favorite"
	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
)

func TestItemListByOwnerKeepsWardrobeOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresItemRepository(db)
	ctx := context.Background()
	owner := seedProfile(t, db, "alice")
	other := seedProfile(t, db, "bob")

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"Pull en laine", "Jean noir", "Baskets blanches"} {
		item := wardrobe.NewItem(owner.ID, name, "", "", "")
		item.CreatedAt = base.Add(time.Duration(2-i) * time.Minute)
		require.NoError(t, repo.Create(ctx, item))
	}
	seedItem(t, db, other.ID, "Chemise", wardrobe.CategoryTop)

	items, err := repo.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Baskets blanches", items[0].Name)
	assert.Equal(t, "Jean noir", items[1].Name)
	assert.Equal(t, "Pull en laine", items[2].Name)
}

func TestItemCreateRejectsInvalid(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresItemRepository(db)

	err := repo.Create(context.Background(), wardrobe.NewItem(uuid.New(), "   ", "", "", ""))
	assert.Error(t, err)
	assert.Equal(t, int64(0), count(t, db, &wardrobe.Item{}))
}

func TestItemUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresItemRepository(db)
	ctx := context.Background()
	owner := seedProfile(t, db, "alice")
	item := seedItem(t, db, owner.ID, "T-shirt", wardrobe.CategoryTop)

	item.Color = "bleu"
	item.WeatherTags = pq.StringArray{"soleil", "chaud"}
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "bleu", got.Color)
	assert.Equal(t, []string{"soleil", "chaud"}, []string(got.WeatherTags))

	missing := wardrobe.NewItem(owner.ID, "Fantôme", "", "", "")
	assert.True(t, common.IsKind(repo.Update(ctx, missing), common.KindNotFound))
}

func TestItemDeleteRemovesFavorites(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresItemRepository(db)
	ctx := context.Background()
	owner := seedProfile(t, db, "alice")
	fan := seedProfile(t, db, "bob")
	item := seedItem(t, db, owner.ID, "Veste", wardrobe.CategoryTop)

	fav, err := favorite.NewFavorite(fan.ID, favorite.TargetItem, item.ID)
	require.NoError(t, err)
	_, err = NewPostgresFavoriteRepository(db).Add(ctx, fav)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, item.ID))
	assert.Equal(t, int64(0), count(t, db, &favorite.Favorite{}))

	assert.True(t, common.IsKind(repo.Delete(ctx, item.ID), common.KindNotFound))
}

func TestItemIsUsedInEnsemble(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresItemRepository(db)
	ctx := context.Background()
	owner := seedProfile(t, db, "alice")

	e := seedEnsemble(t, db, owner.ID)
	loose := seedItem(t, db, owner.ID, "Écharpe", wardrobe.CategoryOther)

	used, err := repo.IsUsedInEnsemble(ctx, e.Items[0].ItemID)
	require.NoError(t, err)
	assert.True(t, used)

	used, err = repo.IsUsedInEnsemble(ctx, loose.ID)
	require.NoError(t, err)
	assert.False(t, used)
}

func TestItemGetByIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresItemRepository(db)
	ctx := context.Background()
	owner := seedProfile(t, db, "alice")
	a := seedItem(t, db, owner.ID, "A", wardrobe.CategoryTop)
	b := seedItem(t, db, owner.ID, "B", wardrobe.CategoryBottom)

	items, err := repo.GetByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
