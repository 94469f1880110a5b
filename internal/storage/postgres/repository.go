package postgres

import (
	"context"

	"github.com/google/uuid"

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

// ProfileRepository defines the methods to work with profiles in the DB
type ProfileRepository interface {
	Create(ctx context.Context, p *profile.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*profile.Profile, error)
	UpdateTheme(ctx context.Context, id uuid.UUID, theme profile.Theme) error
	List(ctx context.Context, params PaginationParams) (*PaginatedResult[*profile.Profile], error)
	Search(ctx context.Context, term string, params PaginationParams) (*PaginatedResult[*profile.Profile], error)
	// Delete removes the profile and every row it owns in one transaction
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemRepository defines the methods to work with clothing items in the DB
type ItemRepository interface {
	Create(ctx context.Context, item *wardrobe.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*wardrobe.Item, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*wardrobe.Item, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*wardrobe.Item, error)
	Update(ctx context.Context, item *wardrobe.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	IsUsedInEnsemble(ctx context.Context, id uuid.UUID) (bool, error)
}

// EnsembleRepository defines the methods to work with ensembles in the DB
type EnsembleRepository interface {
	// Create stores the ensemble and its slot rows together
	Create(ctx context.Context, e *ensemble.Ensemble) error
	GetByID(ctx context.Context, id uuid.UUID) (*ensemble.Ensemble, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*ensemble.Ensemble, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	// Delete removes slot rows, votes, favorites and the ensemble in one transaction
	Delete(ctx context.Context, id uuid.UUID) error
}

// VoteRepository defines the methods to work with votes in the DB
type VoteRepository interface {
	// Upsert stores the voter's single vote on an entity, replacing any previous value
	Upsert(ctx context.Context, v *vote.Vote) error
	GetVoteCount(ctx context.Context, entityType vote.EntityType, entityID uuid.UUID) (vote.Tally, error)
	TalliesFor(ctx context.Context, entityType vote.EntityType, entityIDs []uuid.UUID) (map[uuid.UUID]vote.Tally, error)
	GetUserVote(ctx context.Context, entityType vote.EntityType, entityID, voterID uuid.UUID) (*vote.Vote, error)
	ReceivedOnEnsembles(ctx context.Context, ownerID uuid.UUID) (vote.Tally, error)
}

// ChallengeRepository defines the methods to work with défis and participations in the DB
type ChallengeRepository interface {
	Create(ctx context.Context, c *challenge.Challenge) error
	GetByID(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error)
	List(ctx context.Context) ([]*challenge.Challenge, error)
	CreateParticipation(ctx context.Context, p *challenge.Participation) error
	GetParticipation(ctx context.Context, id uuid.UUID) (*challenge.Participation, error)
	ListParticipations(ctx context.Context, challengeID uuid.UUID) ([]*challenge.Participation, error)
	CountParticipationsByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	IsEnsembleSubmitted(ctx context.Context, ensembleID uuid.UUID) (bool, error)
}

// FriendshipRepository defines the methods to work with friendships in the DB
type FriendshipRepository interface {
	Create(ctx context.Context, f *friendship.Friendship) error
	GetByID(ctx context.Context, id uuid.UUID) (*friendship.Friendship, error)
	// GetBetween returns the friendship of the unordered pair, or nil when none exists
	GetBetween(ctx context.Context, a, b uuid.UUID) (*friendship.Friendship, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status friendship.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAccepted(ctx context.Context, userID uuid.UUID) ([]*friendship.Friendship, error)
	ListPendingReceived(ctx context.Context, userID uuid.UUID) ([]*friendship.Friendship, error)
	ListPendingSent(ctx context.Context, userID uuid.UUID) ([]*friendship.Friendship, error)
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	CountAccepted(ctx context.Context, userID uuid.UUID) (int64, error)
}

// FavoriteRepository defines the methods to work with favorites in the DB
type FavoriteRepository interface {
	// Add inserts the favorite or returns the existing one for the same target
	Add(ctx context.Context, f *favorite.Favorite) (*favorite.Favorite, error)
	GetByID(ctx context.Context, id uuid.UUID) (*favorite.Favorite, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, targetType favorite.TargetType) ([]*favorite.Favorite, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// MessageRepository defines the methods to work with direct messages in the DB
type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	// Conversation returns messages between a and b, newest page first, each page in chronological order
	Conversation(ctx context.Context, a, b uuid.UUID, params PaginationParams) (*PaginatedResult[*message.Message], error)
	MarkRead(ctx context.Context, recipientID, senderID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

// ActivityRepository defines the methods to work with the activity log in the DB
type ActivityRepository interface {
	Create(ctx context.Context, e *activity.Entry) error
	List(ctx context.Context, params PaginationParams) (*PaginatedResult[*activity.Entry], error)
}

// RepositoryContainer gives access to every repository
type RepositoryContainer interface {
	Profiles() ProfileRepository
	Items() ItemRepository
	Ensembles() EnsembleRepository
	Votes() VoteRepository
	Challenges() ChallengeRepository
	Friendships() FriendshipRepository
	Favorites() FavoriteRepository
	Messages() MessageRepository
	Activity() ActivityRepository
	// WithTransaction runs fn with repositories bound to one transaction
	WithTransaction(ctx context.Context, fn func(tx RepositoryContainer) error) error
	DatabaseStats(ctx context.Context) (*DatabaseStats, error)
	Health() error
	Close() error
}
