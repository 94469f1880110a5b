package postgres

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/domain/ensemble"
	"github.com/gravadigital/fring-api/internal/domain/favorite"
	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
	"github.com/gravadigital/fring-api/internal/logger"
)

// PostgresItemRepository implements ItemRepository using GORM
type PostgresItemRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresItemRepository creates a new PostgreSQL clothing item repository
func NewPostgresItemRepository(db *gorm.DB) *PostgresItemRepository {
	return &PostgresItemRepository{
		db:  db,
		log: logger.Repository("item"),
	}
}

func (r *PostgresItemRepository) Create(ctx context.Context, item *wardrobe.Item) error {
	r.log.Debug("Creating clothing item", "owner_id", item.OwnerID, "name", item.Name)

	if err := item.Validate(); err != nil {
		r.log.Error("Item validation failed", "error", err)
		return err
	}

	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		r.log.Error("Failed to create item", "owner_id", item.OwnerID, "error", err)
		return translate(err, "create item", "item", item.ID)
	}

	r.log.Info("Clothing item created successfully", "id", item.ID, "owner_id", item.OwnerID)
	return nil
}

func (r *PostgresItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*wardrobe.Item, error) {
	r.log.Debug("Retrieving item by ID", "id", id)

	var item wardrobe.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get item", "item", id)
	}
	return &item, nil
}

func (r *PostgresItemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*wardrobe.Item, error) {
	items := []*wardrobe.Item{}
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		r.log.Error("Failed to get items by IDs", "count", len(ids), "error", err)
		return nil, translate(err, "get items", "item", ids)
	}
	return items, nil
}

// ListByOwner returns the wardrobe in insertion order, which the outfit suggestion relies on
func (r *PostgresItemRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*wardrobe.Item, error) {
	items := []*wardrobe.Item{}
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		r.log.Error("Failed to list items", "owner_id", ownerID, "error", err)
		return nil, translate(err, "list items", "item", ownerID)
	}

	r.log.Debug("Items retrieved", "owner_id", ownerID, "count", len(items))
	return items, nil
}

func (r *PostgresItemRepository) Update(ctx context.Context, item *wardrobe.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(item).
		Select("name", "description", "category", "color", "brand", "temperature_suitability", "weather_tags", "image_key", "updated_at").
		Updates(item)
	if result.Error != nil {
		r.log.Error("Failed to update item", "id", item.ID, "error", result.Error)
		return translate(result.Error, "update item", "item", item.ID)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update item", "item", item.ID)
	}

	r.log.Info("Clothing item updated successfully", "id", item.ID)
	return nil
}

// Delete removes the item and the favorites pointing at it
func (r *PostgresItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_type = ? AND target_id = ?", favorite.TargetItem, id).Delete(&favorite.Favorite{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&wardrobe.Item{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to delete item", "id", id, "error", err)
		return translate(err, "delete item", "item", id)
	}

	r.log.Info("Clothing item deleted successfully", "id", id)
	return nil
}

func (r *PostgresItemRepository) IsUsedInEnsemble(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ensemble.OutfitItem{}).Where("item_id = ?", id).Count(&count).Error; err != nil {
		return false, translate(err, "check item usage", "item", id)
	}
	return count > 0, nil
}
