package postgres

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/fring-api/internal/domain/favorite"
	"github.com/gravadigital/fring-api/internal/logger"
)

// PostgresFavoriteRepository implements FavoriteRepository using GORM
type PostgresFavoriteRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresFavoriteRepository creates a new PostgreSQL favorite repository
func NewPostgresFavoriteRepository(db *gorm.DB) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{
		db:  db,
		log: logger.Repository("favorite"),
	}
}

func (r *PostgresFavoriteRepository) Add(ctx context.Context, f *favorite.Favorite) (*favorite.Favorite, error) {
	r.log.Debug("adding favorite", "owner_id", f.OwnerID, "target_type", f.TargetType, "target_id", f.TargetID)

	if err := f.Validate(); err != nil {
		r.log.Error("favorite validation failed", "error", err)
		return nil, err
	}

	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error; err != nil {
		r.log.Error("failed to add favorite", "owner_id", f.OwnerID, "error", err)
		return nil, translate(err, "add favorite", "favorite", f.TargetID)
	}

	var stored favorite.Favorite
	if err := db.Where("owner_id = ? AND target_type = ? AND target_id = ?", f.OwnerID, f.TargetType, f.TargetID).
		First(&stored).Error; err != nil {
		return nil, translate(err, "get favorite", "favorite", f.TargetID)
	}

	r.log.Info("favorite stored", "id", stored.ID, "target_type", stored.TargetType)
	return &stored, nil
}

func (r *PostgresFavoriteRepository) GetByID(ctx context.Context, id uuid.UUID) (*favorite.Favorite, error) {
	var f favorite.Favorite
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get favorite", "favorite", id)
	}
	return &f, nil
}

func (r *PostgresFavoriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&favorite.Favorite{})
	if result.Error != nil {
		r.log.Error("failed to delete favorite", "id", id, "error", result.Error)
		return translate(result.Error, "delete favorite", "favorite", id)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete favorite", "favorite", id)
	}
	r.log.Info("favorite deleted", "id", id)
	return nil
}

// ListByOwner filters by target type unless it is empty
func (r *PostgresFavoriteRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, targetType favorite.TargetType) ([]*favorite.Favorite, error) {
	favorites := []*favorite.Favorite{}
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if targetType != "" {
		query = query.Where("target_type = ?", targetType)
	}
	if err := query.Order("created_at DESC").Find(&favorites).Error; err != nil {
		r.log.Error("failed to list favorites", "owner_id", ownerID, "error", err)
		return nil, translate(err, "list favorites", "favorite", ownerID)
	}
	return favorites, nil
}

func (r *PostgresFavoriteRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&favorite.Favorite{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, translate(err, "count favorites", "favorite", ownerID)
	}
	return count, nil
}
