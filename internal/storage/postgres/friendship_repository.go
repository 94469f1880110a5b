package postgres

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/domain/friendship"
	"github.com/gravadigital/fring-api/internal/logger"
)

// PostgresFriendshipRepository implements FriendshipRepository using GORM
type PostgresFriendshipRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresFriendshipRepository creates a new PostgreSQL friendship repository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{
		db:  db,
		log: logger.Repository("friendship"),
	}
}

func (r *PostgresFriendshipRepository) Create(ctx context.Context, f *friendship.Friendship) error {
	r.log.Debug("creating friend request", "requester_id", f.RequesterID, "addressee_id", f.AddresseeID)

	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		r.log.Error("failed to create friend request", "requester_id", f.RequesterID, "addressee_id", f.AddresseeID, "error", err)
		return translate(err, "create friendship", "friendship", f.ID)
	}

	r.log.Info("friend request created", "id", f.ID)
	return nil
}

func (r *PostgresFriendshipRepository) GetByID(ctx context.Context, id uuid.UUID) (*friendship.Friendship, error) {
	var f friendship.Friendship
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get friendship", "friendship", id)
	}
	return &f, nil
}

func (r *PostgresFriendshipRepository) GetBetween(ctx context.Context, a, b uuid.UUID) (*friendship.Friendship, error) {
	var f friendship.Friendship
	err := r.db.WithContext(ctx).Where("pair_key = ?", friendship.PairKey(a, b)).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("failed to get friendship between users", "a", a, "b", b, "error", err)
		return nil, translate(err, "get friendship", "friendship", nil)
	}
	return &f, nil
}

func (r *PostgresFriendshipRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status friendship.Status) error {
	result := r.db.WithContext(ctx).Model(&friendship.Friendship{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		r.log.Error("failed to update friendship", "id", id, "status", status, "error", result.Error)
		return translate(result.Error, "update friendship", "friendship", id)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update friendship", "friendship", id)
	}

	r.log.Info("friendship updated", "id", id, "status", status)
	return nil
}

func (r *PostgresFriendshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&friendship.Friendship{})
	if result.Error != nil {
		r.log.Error("failed to delete friendship", "id", id, "error", result.Error)
		return translate(result.Error, "delete friendship", "friendship", id)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete friendship", "friendship", id)
	}

	r.log.Info("friendship deleted", "id", id)
	return nil
}

func (r *PostgresFriendshipRepository) ListAccepted(ctx context.Context, userID uuid.UUID) ([]*friendship.Friendship, error) {
	return r.list(ctx, "(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, friendship.StatusAccepted)
}

func (r *PostgresFriendshipRepository) ListPendingReceived(ctx context.Context, userID uuid.UUID) ([]*friendship.Friendship, error) {
	return r.list(ctx, "addressee_id = ? AND status = ?", userID, friendship.StatusPending)
}

func (r *PostgresFriendshipRepository) ListPendingSent(ctx context.Context, userID uuid.UUID) ([]*friendship.Friendship, error) {
	return r.list(ctx, "requester_id = ? AND status = ?", userID, friendship.StatusPending)
}

func (r *PostgresFriendshipRepository) list(ctx context.Context, query string, args ...any) ([]*friendship.Friendship, error) {
	friendships := []*friendship.Friendship{}
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at DESC").Find(&friendships).Error; err != nil {
		r.log.Error("failed to list friendships", "error", err)
		return nil, translate(err, "list friendships", "friendship", nil)
	}
	return friendships, nil
}

func (r *PostgresFriendshipRepository) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&friendship.Friendship{}).
		Where("pair_key = ? AND status = ?", friendship.PairKey(a, b), friendship.StatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "check friendship", "friendship", nil)
	}
	return count > 0, nil
}

func (r *PostgresFriendshipRepository) CountAccepted(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&friendship.Friendship{}).
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, friendship.StatusAccepted).
		Count(&count).Error
	if err != nil {
		return 0, translate(err, "count friends", "friendship", userID)
	}
	return count, nil
}
