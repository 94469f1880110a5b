package postgres

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/domain/challenge"
	"github.com/gravadigital/fring-api/internal/domain/ensemble"
	"github.com/gravadigital/fring-api/internal/domain/favorite"
	"github.com/gravadigital/fring-api/internal/domain/friendship"
	"github.com/gravadigital/fring-api/internal/domain/message"
	"github.com/gravadigital/fring-api/internal/domain/profile"
	"github.com/gravadigital/fring-api/internal/domain/vote"
	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
	"github.com/gravadigital/fring-api/internal/logger"
)

// PostgresProfileRepository implements ProfileRepository using GORM
type PostgresProfileRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresProfileRepository creates a new PostgreSQL profile repository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{
		db:  db,
		log: logger.Repository("profile"),
	}
}

func (r *PostgresProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	r.log.Debug("Creating profile", "id", p.ID, "email", p.Email)

	if err := p.Validate(); err != nil {
		r.log.Error("Profile validation failed", "error", err)
		return err
	}

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		r.log.Error("Failed to create profile", "id", p.ID, "error", err)
		return translate(err, "create profile", "profile", p.ID)
	}

	r.log.Info("Profile created successfully", "id", p.ID, "username", p.Username)
	return nil
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	r.log.Debug("Retrieving profile by ID", "id", id)

	var p profile.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get profile", "profile", id)
	}
	return &p, nil
}

func (r *PostgresProfileRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*profile.Profile, error) {
	profiles := []*profile.Profile{}
	if len(ids) == 0 {
		return profiles, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("username").Find(&profiles).Error; err != nil {
		r.log.Error("Failed to get profiles by IDs", "count", len(ids), "error", err)
		return nil, translate(err, "get profiles", "profile", ids)
	}
	return profiles, nil
}

func (r *PostgresProfileRepository) UpdateTheme(ctx context.Context, id uuid.UUID, theme profile.Theme) error {
	result := r.db.WithContext(ctx).Model(&profile.Profile{}).Where("id = ?", id).Update("theme", theme)
	if result.Error != nil {
		r.log.Error("Failed to update theme", "id", id, "error", result.Error)
		return translate(result.Error, "update theme", "profile", id)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update theme", "profile", id)
	}

	r.log.Info("Profile theme updated", "id", id, "theme", theme)
	return nil
}

func (r *PostgresProfileRepository) List(ctx context.Context, params PaginationParams) (*PaginatedResult[*profile.Profile], error) {
	return r.page(ctx, r.db.WithContext(ctx).Model(&profile.Profile{}), params)
}

// Search matches username or email case-insensitively
func (r *PostgresProfileRepository) Search(ctx context.Context, term string, params PaginationParams) (*PaginatedResult[*profile.Profile], error) {
	r.log.Debug("Searching profiles", "term", term)

	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"
	query := r.db.WithContext(ctx).Model(&profile.Profile{}).
		Where("LOWER(username) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\'", pattern, pattern)
	return r.page(ctx, query, params)
}

func (r *PostgresProfileRepository) page(ctx context.Context, query *gorm.DB, params PaginationParams) (*PaginatedResult[*profile.Profile], error) {
	params = params.Normalize()

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.log.Error("Failed to count profiles", "error", err)
		return nil, translate(err, "count profiles", "profile", nil)
	}

	var profiles []*profile.Profile
	if err := query.Session(&gorm.Session{}).Scopes(params.Scope).Order("created_at DESC").Find(&profiles).Error; err != nil {
		r.log.Error("Failed to list profiles", "error", err)
		return nil, translate(err, "list profiles", "profile", nil)
	}

	r.log.Debug("Profiles retrieved", "count", len(profiles), "total", total)
	return NewPaginatedResult(profiles, total, params), nil
}

func (r *PostgresProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.log.Debug("Deleting profile and owned rows", "id", id)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownItems := tx.Model(&wardrobe.Item{}).Select("id").Where("owner_id = ?", id)

		// Ensembles built with the user's items go too, even when a friend owns them.
		var ensembleIDs []uuid.UUID
		if err := tx.Model(&ensemble.Ensemble{}).
			Where("owner_id = ?", id).
			Or("id IN (?)", tx.Model(&ensemble.OutfitItem{}).Select("outfit_id").Where("item_id IN (?)", ownItems)).
			Pluck("id", &ensembleIDs).Error; err != nil {
			return err
		}
		var participationIDs []uuid.UUID
		if err := tx.Model(&challenge.Participation{}).
			Where("user_id = ?", id).
			Or("ensemble_id IN ?", ensembleIDs).
			Pluck("id", &participationIDs).Error; err != nil {
			return err
		}

		steps := []struct {
			name string
			run  func() error
		}{
			{"votes cast", func() error {
				return tx.Where("voter_id = ?", id).Delete(&vote.Vote{}).Error
			}},
			{"votes on ensembles", func() error {
				return tx.Where("entity_type = ? AND entity_id IN ?", vote.EntityEnsemble, ensembleIDs).Delete(&vote.Vote{}).Error
			}},
			{"votes on participations", func() error {
				return tx.Where("entity_type = ? AND entity_id IN ?", vote.EntityDefi, participationIDs).Delete(&vote.Vote{}).Error
			}},
			{"participations", func() error {
				return tx.Where("id IN ?", participationIDs).Delete(&challenge.Participation{}).Error
			}},
			{"favorites", func() error {
				return tx.Where("owner_id = ?", id).
					Or("target_type = ? AND target_id = ?", favorite.TargetUser, id).
					Or("target_type = ? AND target_id IN (?)", favorite.TargetItem, ownItems).
					Or("target_type = ? AND target_id IN ?", favorite.TargetEnsemble, ensembleIDs).
					Delete(&favorite.Favorite{}).Error
			}},
			{"outfit items", func() error {
				return tx.Where("outfit_id IN ?", ensembleIDs).Delete(&ensemble.OutfitItem{}).Error
			}},
			{"ensembles", func() error {
				return tx.Where("id IN ?", ensembleIDs).Delete(&ensemble.Ensemble{}).Error
			}},
			{"clothing items", func() error {
				return tx.Where("owner_id = ?", id).Delete(&wardrobe.Item{}).Error
			}},
			{"friendships", func() error {
				return tx.Where("requester_id = ? OR addressee_id = ?", id, id).Delete(&friendship.Friendship{}).Error
			}},
			{"messages", func() error {
				return tx.Where("sender_id = ? OR recipient_id = ?", id, id).Delete(&message.Message{}).Error
			}},
		}
		for _, step := range steps {
			if err := step.run(); err != nil {
				r.log.Error("Failed to delete owned rows", "id", id, "step", step.name, "error", err)
				return err
			}
		}

		result := tx.Where("id = ?", id).Delete(&profile.Profile{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return translate(err, "delete profile", "profile", id)
	}

	r.log.Info("Profile deleted successfully", "id", id)
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
