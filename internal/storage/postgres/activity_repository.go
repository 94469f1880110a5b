package postgres

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/domain/activity"
	"github.com/gravadigital/fring-api/internal/logger"
)

// PostgresActivityRepository implements ActivityRepository using GORM
type PostgresActivityRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresActivityRepository creates a new PostgreSQL activity log repository
func NewPostgresActivityRepository(db *gorm.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{
		db:  db,
		log: logger.Repository("activity"),
	}
}

func (r *PostgresActivityRepository) Create(ctx context.Context, e *activity.Entry) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		r.log.Error("failed to record activity", "action", e.Action, "actor_id", e.ActorID, "error", err)
		return translate(err, "record activity", "activity", e.ID)
	}
	return nil
}

func (r *PostgresActivityRepository) List(ctx context.Context, params PaginationParams) (*PaginatedResult[*activity.Entry], error) {
	params = params.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&activity.Entry{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count activity", "error", err)
		return nil, translate(err, "count activity", "activity", nil)
	}

	entries := []*activity.Entry{}
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Scopes(params.Scope).
		Find(&entries).Error; err != nil {
		r.log.Error("failed to list activity", "error", err)
		return nil, translate(err, "list activity", "activity", nil)
	}

	return NewPaginatedResult(entries, total, params), nil
}
