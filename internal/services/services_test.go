package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/fring-api/internal/domain/challenge"
	"github.com/gravadigital/fring-api/internal/domain/ensemble"
	"github.com/gravadigital/fring-api/internal/domain/friendship"
	"github.com/gravadigital/fring-api/internal/domain/profile"
	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/storage/postgres/postgrestest"
)

type sentEvent struct {
	UserID uuid.UUID
	Type   string
	Data   any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) SendToUser(userID uuid.UUID, eventType string, data any) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{UserID: userID, Type: eventType, Data: data})
	return 1
}

func (n *recordingNotifier) sent(userID uuid.UUID, eventType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, e := range n.events {
		if e.UserID == userID && e.Type == eventType {
			count++
		}
	}
	return count
}

type harness struct {
	t        *testing.T
	ctx      context.Context
	repos    *postgres.Container
	svc      *Services
	notifier *recordingNotifier
	now      time.Time
}

func newHarness(t *testing.T, opts ...func(*Deps)) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		ctx:      context.Background(),
		repos:    postgres.NewContainerWithDB(postgrestest.Open(t)),
		notifier: &recordingNotifier{},
		now:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	deps := Deps{
		Repos:    h.repos,
		Notifier: h.notifier,
		Clock:    func() time.Time { return h.now },
	}
	for _, opt := range opts {
		opt(&deps)
	}
	h.svc = New(deps)
	return h
}

func (h *harness) profile(username string) *profile.Profile {
	h.t.Helper()
	p, err := h.svc.Profiles.EnsureProfile(h.ctx, Identity{UserID: uuid.New(), Email: username + "@example.com", Username: username})
	require.NoError(h.t, err)
	return p
}

func (h *harness) admin(username string) *profile.Profile {
	h.t.Helper()
	p := h.profile(username)
	require.NoError(h.t, h.repos.GetDB().Model(p).Update("role", profile.RoleAdmin).Error)
	p.Role = profile.RoleAdmin
	return p
}

func (h *harness) befriend(a, b uuid.UUID) {
	h.t.Helper()
	f, err := friendship.NewRequest(a, b)
	require.NoError(h.t, err)
	f.Status = friendship.StatusAccepted
	require.NoError(h.t, h.repos.Friendships().Create(h.ctx, f))
}

func (h *harness) item(ownerID uuid.UUID, name string, category wardrobe.Category) *wardrobe.Item {
	h.t.Helper()
	item, err := h.svc.Wardrobe.Create(h.ctx, ownerID, ItemRequest{Name: name, Category: string(category), Color: "noir"})
	require.NoError(h.t, err)
	return item
}

func (h *harness) ensemble(ownerID uuid.UUID) *ensemble.Ensemble {
	h.t.Helper()
	e, err := h.svc.Ensembles.Create(h.ctx, ownerID, CreateEnsembleRequest{
		Name:       "Tenue du jour",
		TopID:      h.item(ownerID, "Chemise", wardrobe.CategoryTop).ID.String(),
		BottomID:   h.item(ownerID, "Jean", wardrobe.CategoryBottom).ID.String(),
		FootwearID: h.item(ownerID, "Baskets", wardrobe.CategoryFootwear).ID.String(),
	})
	require.NoError(h.t, err)
	return e
}

// challenge stores a défi whose window is relative to the harness clock
func (h *harness) challenge(authorID uuid.UUID, startOffset, endOffset time.Duration) *challenge.Challenge {
	h.t.Helper()
	c := challenge.NewChallenge("Look de printemps", "", "printemps", authorID, h.now.Add(startOffset), h.now.Add(endOffset))
	require.NoError(h.t, h.repos.Challenges().Create(h.ctx, c))
	return c
}

func (h *harness) submit(userID, challengeID, ensembleID uuid.UUID) *challenge.Participation {
	h.t.Helper()
	p, err := h.svc.Challenges.Submit(h.ctx, userID, challengeID, SubmitRequest{EnsembleID: ensembleID.String()})
	require.NoError(h.t, err)
	return p
}

func postgresPage(page int) postgres.PaginationParams {
	return postgres.PaginationParams{Page: page, PageSize: 20}
}
