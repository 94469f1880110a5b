package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/profile"
	"github.com/gravadigital/fring-api/internal/domain/stats"
	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/validation"
)

// ProfileService handles the profile of the authenticated user
type ProfileService struct {
	repos     postgres.RepositoryContainer
	validator validation.ProfileValidation
	log       *log.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(repos postgres.RepositoryContainer) *ProfileService {
	return &ProfileService{
		repos:     repos,
		validator: validation.ProfileValidation{},
		log:       logger.Service("profile"),
	}
}

// Identity is what a verified token says about its subject
type Identity struct {
	UserID   uuid.UUID
	Email    string
	Username string
}

// EnsureProfile returns the profile of the token subject, creating it on first use
func (s *ProfileService) EnsureProfile(ctx context.Context, id Identity) (*profile.Profile, error) {
	existing, err := s.repos.Profiles().GetByID(ctx, id.UserID)
	if err == nil {
		return existing, nil
	}
	if !common.IsKind(err, common.KindNotFound) {
		return nil, err
	}

	p := profile.NewProfile(id.UserID, id.Email, id.Username)
	if err := p.Validate(); err != nil {
		return nil, validation.Invalid(err)
	}
	if err := s.validator.ValidateUsername(p.Username); err != nil {
		return nil, err
	}

	if err := s.repos.Profiles().Create(ctx, p); err != nil {
		// two first requests racing for the same subject
		if common.IsKind(err, common.KindConflict) {
			if existing, getErr := s.repos.Profiles().GetByID(ctx, id.UserID); getErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}

	s.log.Info("Profile created", "user_id", p.ID, "username", p.Username)
	return p, nil
}

// GetProfile returns a profile by id
func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	return s.repos.Profiles().GetByID(ctx, id)
}

// RequireAdmin fails with a forbidden error unless userID is an admin
func (s *ProfileService) RequireAdmin(ctx context.Context, userID uuid.UUID) error {
	p, err := s.repos.Profiles().GetByID(ctx, userID)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			return common.NewForbiddenError("admin access required")
		}
		return err
	}
	if !p.IsAdmin() {
		return common.NewForbiddenError("admin access required")
	}
	return nil
}

// UpdatePreferencesRequest carries the editable preferences of a profile
type UpdatePreferencesRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// UpdatePreferences stores the theme preference and returns the updated profile
func (s *ProfileService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req UpdatePreferencesRequest) (*profile.Profile, error) {
	theme, ok := profile.ThemeFromString(req.Theme)
	if !ok {
		return nil, common.NewValidationError("theme must be light, dark or system")
	}
	if err := s.repos.Profiles().UpdateTheme(ctx, userID, theme); err != nil {
		return nil, err
	}
	return s.repos.Profiles().GetByID(ctx, userID)
}

// Stats computes the personal counters of userID. The counters are
// independent queries and run concurrently.
func (s *ProfileService) Stats(ctx context.Context, userID uuid.UUID) (*stats.UserStats, error) {
	result := &stats.UserStats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.repos.Items().ListByOwner(ctx, userID)
		if err != nil {
			return err
		}
		result.ItemCount = int64(len(items))
		result.ItemsByCategory = stats.CountBy(items, func(i *wardrobe.Item) string { return string(i.Slot()) })
		result.ItemsByColor = stats.CountBy(items, func(i *wardrobe.Item) string { return i.Color })
		return nil
	})
	g.Go(func() (err error) {
		result.EnsembleCount, err = s.repos.Ensembles().CountByOwner(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		result.ParticipationCount, err = s.repos.Challenges().CountParticipationsByUser(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		result.VotesReceived, err = s.repos.Votes().ReceivedOnEnsembles(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		result.FriendCount, err = s.repos.Friendships().CountAccepted(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		result.FavoriteCount, err = s.repos.Favorites().CountByOwner(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("Failed to compute stats", "user_id", userID, "error", err)
		return nil, err
	}
	return result, nil
}
