package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/domain/activity"
	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/ensemble"
	"github.com/gravadigital/fring-api/internal/domain/vote"
	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/validation"
)

// EnsembleService composes outfits from wardrobe items
type EnsembleService struct {
	repos postgres.RepositoryContainer
	votes *VoteService
	log   *log.Logger
}

// NewEnsembleService creates a new ensemble service
func NewEnsembleService(repos postgres.RepositoryContainer, votes *VoteService) *EnsembleService {
	return &EnsembleService{
		repos: repos,
		votes: votes,
		log:   logger.Service("ensemble"),
	}
}

// CreateEnsembleRequest names one item per slot
type CreateEnsembleRequest struct {
	Name       string `json:"name" binding:"required"`
	TopID      string `json:"top_id"`
	BottomID   string `json:"bottom_id"`
	FootwearID string `json:"footwear_id"`
}

func (r CreateEnsembleRequest) selection() (ensemble.Selection, error) {
	sel := ensemble.Selection{}
	for slot, raw := range map[wardrobe.Category]string{
		wardrobe.CategoryTop:      r.TopID,
		wardrobe.CategoryBottom:   r.BottomID,
		wardrobe.CategoryFootwear: r.FootwearID,
	} {
		if raw == "" {
			continue
		}
		id, err := validation.ParseUUID(raw, string(slot)+"_id")
		if err != nil {
			return nil, err
		}
		sel[slot] = id
	}
	return sel, nil
}

// Create stores an ensemble once every slot is filled with an item owned by
// the creator or by one of their friends
func (s *EnsembleService) Create(ctx context.Context, ownerID uuid.UUID, req CreateEnsembleRequest) (*ensemble.Ensemble, error) {
	sel, err := req.selection()
	if err != nil {
		return nil, err
	}
	e, err := ensemble.NewEnsemble(ownerID, req.Name, sel)
	if err != nil {
		return nil, validation.Invalid(err)
	}

	ids := sel.ItemIDs()
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, common.NewValidationError("an item can fill only one slot")
		}
		seen[id] = true
	}

	items, err := s.repos.Items().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[uuid.UUID]*wardrobe.Item, len(items))
	for _, item := range items {
		found[item.ID] = item
	}

	allowed := map[uuid.UUID]bool{ownerID: true}
	for _, slot := range wardrobe.Slots {
		id := sel[slot]
		item, ok := found[id]
		if !ok {
			return nil, common.NewNotFoundError("clothing item", id)
		}
		if got := item.Slot(); got != slot {
			return nil, common.NewValidationError(fmt.Sprintf("%s_id names a %s item", slot, got))
		}
		if _, checked := allowed[item.OwnerID]; !checked {
			friends, err := s.repos.Friendships().AreFriends(ctx, ownerID, item.OwnerID)
			if err != nil {
				return nil, err
			}
			allowed[item.OwnerID] = friends
		}
		if !allowed[item.OwnerID] {
			return nil, common.NewForbiddenError("items must belong to you or to a friend")
		}
	}

	if err := s.repos.Ensembles().Create(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info("Ensemble created", "ensemble_id", e.ID, "owner_id", ownerID)
	record(ctx, s.repos, s.log, activity.NewEntry(ownerID, activity.ActionEnsembleCreated, "ensemble", e.ID, e.Name))
	return e, nil
}

// ListOwn returns ownerID's ensembles, newest first
func (s *EnsembleService) ListOwn(ctx context.Context, ownerID uuid.UUID) ([]*ensemble.Ensemble, error) {
	return s.repos.Ensembles().ListByOwner(ctx, ownerID)
}

// ListFor returns ownerID's ensembles as seen by viewerID, who must be a friend
func (s *EnsembleService) ListFor(ctx context.Context, viewerID, ownerID uuid.UUID) ([]*ensemble.Ensemble, error) {
	if _, err := s.repos.Profiles().GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := requireFriendOrSelf(ctx, s.repos, viewerID, ownerID); err != nil {
		return nil, err
	}
	return s.repos.Ensembles().ListByOwner(ctx, ownerID)
}

// Detail returns an ensemble with its pieces and current tally. Ensembles
// submitted to a défi are visible to everyone.
func (s *EnsembleService) Detail(ctx context.Context, viewerID, ensembleID uuid.UUID) (*ensemble.Detail, error) {
	e, err := s.repos.Ensembles().GetByID(ctx, ensembleID)
	if err != nil {
		return nil, err
	}
	if err := requireEnsembleVisible(ctx, s.repos, viewerID, e); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(e.Items))
	for _, it := range e.Items {
		ids = append(ids, it.ItemID)
	}
	items, err := s.repos.Items().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*wardrobe.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	detail := &ensemble.Detail{
		Ensemble: e,
		Pieces:   make(map[wardrobe.Category]*wardrobe.Item, len(e.Items)),
		Tally:    s.votes.GetVoteCount(ctx, vote.EntityEnsemble, e.ID),
	}
	for _, it := range e.Items {
		if item, ok := byID[it.ItemID]; ok {
			detail.Pieces[it.Slot] = item
		}
	}
	detail.Score = detail.Tally.Score()
	return detail, nil
}

// Delete removes an ensemble that was never submitted to a défi
func (s *EnsembleService) Delete(ctx context.Context, ownerID, ensembleID uuid.UUID) error {
	e, err := s.repos.Ensembles().GetByID(ctx, ensembleID)
	if err != nil {
		return err
	}
	if e.OwnerID != ownerID {
		return common.NewForbiddenError("you can only delete your own ensembles")
	}
	submitted, err := s.repos.Challenges().IsEnsembleSubmitted(ctx, ensembleID)
	if err != nil {
		return err
	}
	if submitted {
		return common.NewConflictError("ensemble is submitted to a défi")
	}
	if err := s.repos.Ensembles().Delete(ctx, ensembleID); err != nil {
		s.log.Error("Failed to delete ensemble", "ensemble_id", ensembleID, "error", err)
		return err
	}

	s.log.Info("Ensemble deleted", "ensemble_id", ensembleID, "owner_id", ownerID)
	record(ctx, s.repos, s.log, activity.NewEntry(ownerID, activity.ActionEnsembleDeleted, "ensemble", ensembleID, e.Name))
	return nil
}
