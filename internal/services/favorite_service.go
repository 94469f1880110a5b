package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/favorite"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/validation"
)

// FavoriteService bookmarks users, items and ensembles
type FavoriteService struct {
	repos postgres.RepositoryContainer
	log   *log.Logger
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(repos postgres.RepositoryContainer) *FavoriteService {
	return &FavoriteService{
		repos: repos,
		log:   logger.Service("favorite"),
	}
}

// FavoriteRequest is the body of a new favorite
type FavoriteRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   string `json:"target_id" binding:"required"`
}

// Add bookmarks a target for ownerID. Adding the same target again returns the existing favorite.
func (s *FavoriteService) Add(ctx context.Context, ownerID uuid.UUID, req FavoriteRequest) (*favorite.Favorite, error) {
	targetType, ok := favorite.TargetTypeFromString(req.TargetType)
	if !ok {
		return nil, common.NewValidationError("target_type must be user, item or ensemble")
	}
	targetID, err := validation.ParseUUID(req.TargetID, "target_id")
	if err != nil {
		return nil, err
	}
	f, err := favorite.NewFavorite(ownerID, targetType, targetID)
	if err != nil {
		return nil, validation.Invalid(err)
	}
	if err := s.targetExists(ctx, targetType, targetID); err != nil {
		return nil, err
	}

	stored, err := s.repos.Favorites().Add(ctx, f)
	if err != nil {
		s.log.Error("Failed to add favorite", "owner_id", ownerID, "target_type", targetType, "error", err)
		return nil, err
	}
	return stored, nil
}

func (s *FavoriteService) targetExists(ctx context.Context, targetType favorite.TargetType, id uuid.UUID) error {
	var err error
	switch targetType {
	case favorite.TargetUser:
		_, err = s.repos.Profiles().GetByID(ctx, id)
	case favorite.TargetItem:
		_, err = s.repos.Items().GetByID(ctx, id)
	case favorite.TargetEnsemble:
		_, err = s.repos.Ensembles().GetByID(ctx, id)
	}
	return err
}

// Remove deletes one of ownerID's favorites
func (s *FavoriteService) Remove(ctx context.Context, ownerID, favoriteID uuid.UUID) error {
	f, err := s.repos.Favorites().GetByID(ctx, favoriteID)
	if err != nil {
		return err
	}
	if f.OwnerID != ownerID {
		return common.NewNotFoundError("favorite", favoriteID)
	}
	return s.repos.Favorites().Delete(ctx, favoriteID)
}

// List returns ownerID's favorites, optionally restricted to one target type
func (s *FavoriteService) List(ctx context.Context, ownerID uuid.UUID, rawType string) ([]*favorite.Favorite, error) {
	var targetType favorite.TargetType
	if rawType != "" {
		t, ok := favorite.TargetTypeFromString(rawType)
		if !ok {
			return nil, common.NewValidationError("type must be user, item or ensemble")
		}
		targetType = t
	}
	return s.repos.Favorites().ListByOwner(ctx, ownerID, targetType)
}
