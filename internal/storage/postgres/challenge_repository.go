package postgres

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/domain/challenge"
	"github.com/gravadigital/fring-api/internal/logger"
)

// PostgresChallengeRepository implements ChallengeRepository using GORM
type PostgresChallengeRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresChallengeRepository creates a new PostgreSQL défi repository
func NewPostgresChallengeRepository(db *gorm.DB) *PostgresChallengeRepository {
	return &PostgresChallengeRepository{
		db:  db,
		log: logger.Repository("challenge"),
	}
}

func (r *PostgresChallengeRepository) Create(ctx context.Context, c *challenge.Challenge) error {
	r.log.Debug("creating challenge", "title", c.Title, "author_id", c.AuthorID)

	if err := c.Validate(); err != nil {
		r.log.Error("challenge validation failed", "error", err)
		return err
	}

	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		r.log.Error("failed to create challenge", "title", c.Title, "error", err)
		return translate(err, "create challenge", "challenge", c.ID)
	}

	r.log.Info("challenge created successfully", "id", c.ID, "starts_at", c.StartsAt, "ends_at", c.EndsAt)
	return nil
}

func (r *PostgresChallengeRepository) GetByID(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error) {
	var c challenge.Challenge
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get challenge", "challenge", id)
	}
	return &c, nil
}

func (r *PostgresChallengeRepository) List(ctx context.Context) ([]*challenge.Challenge, error) {
	challenges := []*challenge.Challenge{}
	if err := r.db.WithContext(ctx).Order("starts_at DESC").Find(&challenges).Error; err != nil {
		r.log.Error("failed to list challenges", "error", err)
		return nil, translate(err, "list challenges", "challenge", nil)
	}
	r.log.Debug("challenges retrieved", "count", len(challenges))
	return challenges, nil
}

func (r *PostgresChallengeRepository) CreateParticipation(ctx context.Context, p *challenge.Participation) error {
	r.log.Debug("creating participation", "challenge_id", p.ChallengeID, "user_id", p.UserID, "ensemble_id", p.EnsembleID)

	if err := p.Validate(); err != nil {
		r.log.Error("participation validation failed", "error", err)
		return err
	}

	// idx_participations_unique turns a second entry by the same user into a conflict
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		r.log.Error("failed to create participation", "challenge_id", p.ChallengeID, "user_id", p.UserID, "error", err)
		return translate(err, "create participation", "participation", p.ID)
	}

	r.log.Info("participation created successfully", "id", p.ID, "challenge_id", p.ChallengeID)
	return nil
}

func (r *PostgresChallengeRepository) GetParticipation(ctx context.Context, id uuid.UUID) (*challenge.Participation, error) {
	var p challenge.Participation
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get participation", "participation", id)
	}
	return &p, nil
}

func (r *PostgresChallengeRepository) ListParticipations(ctx context.Context, challengeID uuid.UUID) ([]*challenge.Participation, error) {
	participations := []*challenge.Participation{}
	if err := r.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("submitted_at ASC").
		Find(&participations).Error; err != nil {
		r.log.Error("failed to list participations", "challenge_id", challengeID, "error", err)
		return nil, translate(err, "list participations", "participation", challengeID)
	}
	return participations, nil
}

func (r *PostgresChallengeRepository) CountParticipationsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&challenge.Participation{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, translate(err, "count participations", "participation", userID)
	}
	return count, nil
}

func (r *PostgresChallengeRepository) IsEnsembleSubmitted(ctx context.Context, ensembleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&challenge.Participation{}).Where("ensemble_id = ?", ensembleID).Count(&count).Error; err != nil {
		return false, translate(err, "check participation", "participation", ensembleID)
	}
	return count > 0, nil
}
