package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/detection"
	"github.com/gravadigital/fring-api/internal/domain/activity"
	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/ensemble"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/weather"
)

// Notifier pushes realtime events to a user's open connections
type Notifier interface {
	SendToUser(userID uuid.UUID, eventType string, data any) int
}

// PhotoStore keeps clothing photos
type PhotoStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Clock returns the current time. Défi windows are evaluated against it.
type Clock func() time.Time

// Deps are the collaborators shared by the services. Nil Photos, Detector or
// Weather make the matching operations fail as unavailable.
type Deps struct {
	Repos    postgres.RepositoryContainer
	Notifier Notifier
	Photos   PhotoStore
	Detector detection.Detector
	Weather  weather.Provider
	Clock    Clock
}

// Services groups every feature service of the API
type Services struct {
	Profiles    *ProfileService
	Wardrobe    *WardrobeService
	Ensembles   *EnsembleService
	Votes       *VoteService
	Challenges  *ChallengeService
	Friends     *FriendService
	Favorites   *FavoriteService
	Messages    *MessageService
	Admin       *AdminService
	Suggestions *SuggestionService
}

// New builds all services over the same dependencies
func New(deps Deps) *Services {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}

	votes := NewVoteService(deps.Repos, deps.Clock)
	return &Services{
		Profiles:    NewProfileService(deps.Repos),
		Wardrobe:    NewWardrobeService(deps.Repos, deps.Photos, deps.Detector),
		Ensembles:   NewEnsembleService(deps.Repos, votes),
		Votes:       votes,
		Challenges:  NewChallengeService(deps.Repos, votes, deps.Clock),
		Friends:     NewFriendService(deps.Repos, deps.Notifier),
		Favorites:   NewFavoriteService(deps.Repos),
		Messages:    NewMessageService(deps.Repos, deps.Notifier),
		Admin:       NewAdminService(deps.Repos),
		Suggestions: NewSuggestionService(deps.Repos, deps.Weather),
	}
}

type nopNotifier struct{}

func (nopNotifier) SendToUser(uuid.UUID, string, any) int { return 0 }

// record writes an activity entry. The log is informational: a failed write
// never fails the mutation that produced it.
func record(ctx context.Context, repos postgres.RepositoryContainer, l *log.Logger, entry *activity.Entry) {
	if err := repos.Activity().Create(ctx, entry); err != nil {
		l.Warn("Failed to record activity", "action", entry.Action, "entity_id", entry.EntityID, "error", err)
	}
}

// requireFriendOrSelf allows access to ownerID's content for the owner and their accepted friends
func requireFriendOrSelf(ctx context.Context, repos postgres.RepositoryContainer, viewerID, ownerID uuid.UUID) error {
	if viewerID == ownerID {
		return nil
	}
	friends, err := repos.Friendships().AreFriends(ctx, viewerID, ownerID)
	if err != nil {
		return err
	}
	if !friends {
		return common.NewForbiddenError("only friends can see this content")
	}
	return nil
}

// requireEnsembleVisible allows the owner, the owner's friends, and anyone
// once the ensemble has been submitted to a défi
func requireEnsembleVisible(ctx context.Context, repos postgres.RepositoryContainer, viewerID uuid.UUID, e *ensemble.Ensemble) error {
	err := requireFriendOrSelf(ctx, repos, viewerID, e.OwnerID)
	if err == nil || !common.IsKind(err, common.KindForbidden) {
		return err
	}
	submitted, subErr := repos.Challenges().IsEnsembleSubmitted(ctx, e.ID)
	if subErr != nil {
		return subErr
	}
	if !submitted {
		return err
	}
	return nil
}
