package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/fring-api/internal/domain/challenge"
	"github.com/gravadigital/fring-api/internal/domain/common"
)

func TestCreateChallengeValidatesWindow(t *testing.T) {
	h := newHarness(t)
	admin := h.admin("admin")

	_, err := h.svc.Challenges.Create(h.ctx, admin.ID, CreateChallengeRequest{
		Title:    "Soirée",
		StartsAt: h.now.Add(time.Hour),
		EndsAt:   h.now,
	})
	assert.True(t, common.IsKind(err, common.KindValidation))

	view, err := h.svc.Challenges.Create(h.ctx, admin.ID, CreateChallengeRequest{
		Title:    "  Soirée chic ",
		StartsAt: h.now.Add(time.Hour),
		EndsAt:   h.now.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "Soirée chic", view.Title)
	assert.Equal(t, challenge.StatusUpcoming, view.Status)
}

func TestChallengeStatusFollowsClock(t *testing.T) {
	h := newHarness(t)
	admin := h.admin("admin")
	c := h.challenge(admin.ID, time.Hour, 2*time.Hour)

	view, err := h.svc.Challenges.Get(h.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusUpcoming, view.Status)

	h.now = h.now.Add(time.Hour)
	views, err := h.svc.Challenges.List(h.ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, challenge.StatusActive, views[0].Status)

	h.now = h.now.Add(time.Hour)
	view, err = h.svc.Challenges.Get(h.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusEnded, view.Status)
}

func TestSubmitRules(t *testing.T) {
	h := newHarness(t)
	admin := h.admin("admin")
	user := h.profile("user")
	other := h.profile("other")
	mine := h.ensemble(user.ID)
	theirs := h.ensemble(other.ID)

	upcoming := h.challenge(admin.ID, time.Hour, 2*time.Hour)
	_, err := h.svc.Challenges.Submit(h.ctx, user.ID, upcoming.ID, SubmitRequest{EnsembleID: mine.ID.String()})
	assert.True(t, common.IsKind(err, common.KindConflict))

	active := h.challenge(admin.ID, -time.Hour, time.Hour)
	_, err = h.svc.Challenges.Submit(h.ctx, user.ID, active.ID, SubmitRequest{EnsembleID: theirs.ID.String()})
	assert.True(t, common.IsKind(err, common.KindForbidden))

	p := h.submit(user.ID, active.ID, mine.ID)
	assert.Equal(t, h.now, p.SubmittedAt)

	_, err = h.svc.Challenges.Submit(h.ctx, user.ID, active.ID, SubmitRequest{EnsembleID: mine.ID.String()})
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindConflict))
	assert.Equal(t, "you already participate in this défi", err.Error())

	_, err = h.svc.Challenges.Submit(h.ctx, user.ID, uuid.New(), SubmitRequest{EnsembleID: mine.ID.String()})
	assert.True(t, common.IsKind(err, common.KindNotFound))
}

func TestRankingTopFive(t *testing.T) {
	h := newHarness(t)
	admin := h.admin("admin")
	c := h.challenge(admin.ID, -time.Hour, 24*time.Hour)

	voters := make([]uuid.UUID, 0, 4)
	for _, name := range []string{"v1", "v2", "v3", "v4"} {
		voters = append(voters, h.profile(name).ID)
	}

	// upvotes per participant, in submission order
	ups := []int{1, 3, 0, 3, 2, 4}
	participations := make([]*challenge.Participation, 0, len(ups))
	for i := range ups {
		user := h.profile("p" + string(rune('a'+i)))
		participations = append(participations, h.submit(user.ID, c.ID, h.ensemble(user.ID).ID))
		h.now = h.now.Add(time.Minute)
	}
	for i, n := range ups {
		for _, voter := range voters[:n] {
			_, err := h.svc.Votes.VoteParticipation(h.ctx, voter, participations[i].ID, VoteRequest{Value: "up"})
			require.NoError(t, err)
		}
	}

	ranking, err := h.svc.Challenges.Ranking(h.ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, ranking, challenge.TopN)

	want := []uuid.UUID{participations[5].ID, participations[1].ID, participations[3].ID, participations[4].ID, participations[0].ID}
	got := make([]uuid.UUID, 0, len(ranking))
	for _, p := range ranking {
		got = append(got, p.ID)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 4, ranking[0].Score)

	all, err := h.svc.Challenges.Participations(h.ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, all, len(ups))
	assert.Equal(t, participations[0].ID, all[0].ID)
	assert.Equal(t, 1, all[0].Tally.Up)
}

func TestRankingEmpty(t *testing.T) {
	h := newHarness(t)
	c := h.challenge(h.admin("admin").ID, -time.Hour, time.Hour)

	ranking, err := h.svc.Challenges.Ranking(h.ctx, c.ID)
	require.NoError(t, err)
	assert.NotNil(t, ranking)
	assert.Empty(t, ranking)
}
