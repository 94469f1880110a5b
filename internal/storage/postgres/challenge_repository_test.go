package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/fring-api/internal/domain/challenge"
	"github.com/gravadigital/fring-api/internal/domain/common"
)

func TestChallengeCreateValidatesWindow(t *testing.T) {
	repo := NewPostgresChallengeRepository(newTestDB(t))
	now := time.Now()

	c := challenge.NewChallenge("Inversé", "", "", uuid.New(), now, now.Add(-time.Hour))
	assert.Error(t, repo.Create(context.Background(), c))
}

func TestChallengeListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresChallengeRepository(db)
	ctx := context.Background()
	author := seedProfile(t, db, "admin")
	now := time.Now().UTC()

	old := challenge.NewChallenge("Printemps", "", "", author.ID, now.Add(-72*time.Hour), now.Add(-48*time.Hour))
	recent := challenge.NewChallenge("Automne", "", "", author.ID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, recent))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, recent.ID, list[0].ID)

	got, err := repo.GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, "Printemps", got.Title)
}

func TestParticipationUniquePerUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresChallengeRepository(db)
	ctx := context.Background()
	user := seedProfile(t, db, "alice")
	c := seedChallenge(t, db, user.ID)
	first := seedEnsemble(t, db, user.ID)
	second := seedEnsemble(t, db, user.ID)

	p, err := challenge.NewParticipation(c.ID, first.ID, user.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.CreateParticipation(ctx, p))

	again, err := challenge.NewParticipation(c.ID, second.ID, user.ID, time.Now())
	require.NoError(t, err)
	err = repo.CreateParticipation(ctx, again)
	assert.True(t, common.IsKind(err, common.KindConflict), "got %v", err)

	list, err := repo.ListParticipations(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := repo.CountParticipationsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	submitted, err := repo.IsEnsembleSubmitted(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, submitted)

	submitted, err = repo.IsEnsembleSubmitted(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, submitted)

	got, err := repo.GetParticipation(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.EnsembleID)
}
