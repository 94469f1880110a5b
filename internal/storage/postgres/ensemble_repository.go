package postgres

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/domain/ensemble"
	"github.com/gravadigital/fring-api/internal/domain/favorite"
	"github.com/gravadigital/fring-api/internal/domain/vote"
	"github.com/gravadigital/fring-api/internal/logger"
)

// PostgresEnsembleRepository implements EnsembleRepository using GORM
type PostgresEnsembleRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresEnsembleRepository creates a new PostgreSQL ensemble repository
func NewPostgresEnsembleRepository(db *gorm.DB) *PostgresEnsembleRepository {
	return &PostgresEnsembleRepository{
		db:  db,
		log: logger.Repository("ensemble"),
	}
}

func (r *PostgresEnsembleRepository) Create(ctx context.Context, e *ensemble.Ensemble) error {
	r.log.Debug("Creating ensemble", "owner_id", e.OwnerID, "name", e.Name)

	if err := e.Validate(); err != nil {
		r.log.Error("Ensemble validation failed", "error", err)
		return err
	}

	// Items are written by the association; a failure rolls back the outfit row too
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		r.log.Error("Failed to create ensemble", "owner_id", e.OwnerID, "error", err)
		return translate(err, "create ensemble", "ensemble", e.ID)
	}

	r.log.Info("Ensemble created successfully", "id", e.ID, "owner_id", e.OwnerID)
	return nil
}

func (r *PostgresEnsembleRepository) GetByID(ctx context.Context, id uuid.UUID) (*ensemble.Ensemble, error) {
	r.log.Debug("Retrieving ensemble by ID", "id", id)

	var e ensemble.Ensemble
	if err := r.db.WithContext(ctx).Preload("Items").First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get ensemble", "ensemble", id)
	}
	return &e, nil
}

func (r *PostgresEnsembleRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*ensemble.Ensemble, error) {
	ensembles := []*ensemble.Ensemble{}
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&ensembles).Error; err != nil {
		r.log.Error("Failed to list ensembles", "owner_id", ownerID, "error", err)
		return nil, translate(err, "list ensembles", "ensemble", ownerID)
	}

	r.log.Debug("Ensembles retrieved", "owner_id", ownerID, "count", len(ensembles))
	return ensembles, nil
}

func (r *PostgresEnsembleRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ensemble.Ensemble{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, translate(err, "count ensembles", "ensemble", ownerID)
	}
	return count, nil
}

// Delete removes the slot rows first and the outfit last inside one
// transaction, so a failing child delete leaves the outfit untouched.
func (r *PostgresEnsembleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.log.Debug("Deleting ensemble", "id", id)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("outfit_id = ?", id).Delete(&ensemble.OutfitItem{}).Error; err != nil {
			r.log.Error("Failed to delete ensemble items", "id", id, "error", err)
			return err
		}
		if err := tx.Where("entity_type = ? AND entity_id = ?", vote.EntityEnsemble, id).Delete(&vote.Vote{}).Error; err != nil {
			r.log.Error("Failed to delete ensemble votes", "id", id, "error", err)
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", favorite.TargetEnsemble, id).Delete(&favorite.Favorite{}).Error; err != nil {
			r.log.Error("Failed to delete ensemble favorites", "id", id, "error", err)
			return err
		}

		result := tx.Where("id = ?", id).Delete(&ensemble.Ensemble{})
		if result.Error != nil {
			r.log.Error("Failed to delete ensemble", "id", id, "error", result.Error)
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return translate(err, "delete ensemble", "ensemble", id)
	}

	r.log.Info("Ensemble deleted successfully", "id", id)
	return nil
}
