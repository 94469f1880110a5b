package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/gravadigital/fring-api/internal/detection"
	"github.com/gravadigital/fring-api/internal/domain/activity"
	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/storage/objectstore"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/validation"
)

// photoURLTTL is how long a presigned photo link stays valid
const photoURLTTL = time.Hour

// WardrobeService manages clothing items
type WardrobeService struct {
	repos     postgres.RepositoryContainer
	photos    PhotoStore
	detector  detection.Detector
	validator validation.ItemValidation
	log       *log.Logger
}

// NewWardrobeService creates a new wardrobe service
func NewWardrobeService(repos postgres.RepositoryContainer, photos PhotoStore, detector detection.Detector) *WardrobeService {
	return &WardrobeService{
		repos:     repos,
		photos:    photos,
		detector:  detector,
		validator: validation.ItemValidation{},
		log:       logger.Service("wardrobe"),
	}
}

// ItemRequest is the editable content of a clothing item
type ItemRequest struct {
	Name                   string   `json:"name" binding:"required"`
	Description            string   `json:"description"`
	Category               string   `json:"category"`
	Color                  string   `json:"color"`
	Brand                  string   `json:"brand"`
	TemperatureSuitability string   `json:"temperature_suitability"`
	WeatherTags            []string `json:"weather_tags"`
}

func (s *WardrobeService) apply(item *wardrobe.Item, req ItemRequest) error {
	if err := s.validator.ValidateItemName(req.Name); err != nil {
		return err
	}
	if err := s.validator.ValidateItemText(req.Description, req.Color, req.Brand); err != nil {
		return err
	}

	item.Name = strings.TrimSpace(req.Name)
	item.Description = strings.TrimSpace(req.Description)
	item.Color = strings.TrimSpace(req.Color)
	item.Brand = strings.TrimSpace(req.Brand)
	item.TemperatureSuitability = strings.TrimSpace(req.TemperatureSuitability)

	item.Category = nil
	if req.Category != "" {
		category, ok := wardrobe.CategoryFromString(req.Category)
		if !ok {
			return common.NewValidationError("category must be top, bottom, footwear or other")
		}
		item.Category = &category
	}

	tags := make(pq.StringArray, 0, len(req.WeatherTags))
	for _, tag := range req.WeatherTags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			tags = append(tags, tag)
		}
	}
	item.WeatherTags = tags

	return validation.Invalid(item.Validate())
}

// ListOwn returns the wardrobe of ownerID
func (s *WardrobeService) ListOwn(ctx context.Context, ownerID uuid.UUID) ([]*wardrobe.Item, error) {
	return s.repos.Items().ListByOwner(ctx, ownerID)
}

// ListFor returns ownerID's wardrobe as seen by viewerID, who must be a friend
func (s *WardrobeService) ListFor(ctx context.Context, viewerID, ownerID uuid.UUID) ([]*wardrobe.Item, error) {
	if _, err := s.repos.Profiles().GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := requireFriendOrSelf(ctx, s.repos, viewerID, ownerID); err != nil {
		return nil, err
	}
	return s.repos.Items().ListByOwner(ctx, ownerID)
}

// Get returns an item visible to viewerID
func (s *WardrobeService) Get(ctx context.Context, viewerID, itemID uuid.UUID) (*wardrobe.Item, error) {
	item, err := s.repos.Items().GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := requireFriendOrSelf(ctx, s.repos, viewerID, item.OwnerID); err != nil {
		return nil, err
	}
	return item, nil
}

// owned loads an item and checks that ownerID may modify it
func (s *WardrobeService) owned(ctx context.Context, ownerID, itemID uuid.UUID) (*wardrobe.Item, error) {
	item, err := s.repos.Items().GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, common.NewForbiddenError("you can only modify your own items")
	}
	return item, nil
}

// Create adds an item to ownerID's wardrobe
func (s *WardrobeService) Create(ctx context.Context, ownerID uuid.UUID, req ItemRequest) (*wardrobe.Item, error) {
	item := wardrobe.NewItem(ownerID, "", "", "", "")
	if err := s.apply(item, req); err != nil {
		return nil, err
	}
	if err := s.repos.Items().Create(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info("Item created", "item_id", item.ID, "owner_id", ownerID)
	record(ctx, s.repos, s.log, activity.NewEntry(ownerID, activity.ActionItemCreated, "item", item.ID, item.Name))
	return item, nil
}

// Update replaces the editable fields of an item
func (s *WardrobeService) Update(ctx context.Context, ownerID, itemID uuid.UUID, req ItemRequest) (*wardrobe.Item, error) {
	item, err := s.owned(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(item, req); err != nil {
		return nil, err
	}
	if err := s.repos.Items().Update(ctx, item); err != nil {
		return nil, err
	}

	record(ctx, s.repos, s.log, activity.NewEntry(ownerID, activity.ActionItemUpdated, "item", item.ID, item.Name))
	return item, nil
}

// Delete removes an item that no ensemble uses
func (s *WardrobeService) Delete(ctx context.Context, ownerID, itemID uuid.UUID) error {
	item, err := s.owned(ctx, ownerID, itemID)
	if err != nil {
		return err
	}
	used, err := s.repos.Items().IsUsedInEnsemble(ctx, itemID)
	if err != nil {
		return err
	}
	if used {
		return common.NewConflictError("item is used in an ensemble")
	}
	if err := s.repos.Items().Delete(ctx, itemID); err != nil {
		return err
	}

	s.log.Info("Item deleted", "item_id", itemID, "owner_id", ownerID)
	record(ctx, s.repos, s.log, activity.NewEntry(ownerID, activity.ActionItemDeleted, "item", itemID, item.Name))
	return nil
}

// UploadPhoto stores the photo of an item and records its object key
func (s *WardrobeService) UploadPhoto(ctx context.Context, ownerID, itemID uuid.UUID, data []byte, contentType string) (*wardrobe.Item, error) {
	if s.photos == nil {
		return nil, common.NewUnavailableError("photo storage is not configured", nil)
	}
	if len(data) == 0 {
		return nil, common.NewValidationError("photo is required")
	}
	item, err := s.owned(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	key, err := s.photos.Put(ctx, data, contentType)
	if err != nil {
		if errors.Is(err, objectstore.ErrUnsupportedType) {
			return nil, common.NewValidationError(err.Error())
		}
		s.log.Error("Failed to store photo", "item_id", itemID, "error", err)
		return nil, common.NewUnavailableError("photo storage unavailable", err)
	}

	item.ImageKey = key
	if err := s.repos.Items().Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// PhotoURL returns a temporary download link for the photo of an item
func (s *WardrobeService) PhotoURL(ctx context.Context, viewerID, itemID uuid.UUID) (string, error) {
	if s.photos == nil {
		return "", common.NewUnavailableError("photo storage is not configured", nil)
	}
	item, err := s.Get(ctx, viewerID, itemID)
	if err != nil {
		return "", err
	}
	if item.ImageKey == "" {
		return "", common.NewNotFoundError("photo of item", itemID)
	}
	url, err := s.photos.URL(ctx, item.ImageKey, photoURLTTL)
	if err != nil {
		return "", common.NewUnavailableError("photo storage unavailable", err)
	}
	return url, nil
}

// Detect reads clothing attributes from a label photo
func (s *WardrobeService) Detect(ctx context.Context, data []byte, contentType string) (*detection.Result, error) {
	if s.detector == nil {
		return nil, common.NewUnavailableError("detection is not configured", nil)
	}
	return s.detector.Detect(ctx, data, contentType)
}
