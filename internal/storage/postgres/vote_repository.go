package postgres

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/fring-api/internal/domain/challenge"
	"github.com/gravadigital/fring-api/internal/domain/ensemble"
	"github.com/gravadigital/fring-api/internal/domain/vote"
	"github.com/gravadigital/fring-api/internal/logger"
)

// PostgresVoteRepository implements VoteRepository using GORM
type PostgresVoteRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresVoteRepository creates a new PostgreSQL vote repository
func NewPostgresVoteRepository(db *gorm.DB) *PostgresVoteRepository {
	return &PostgresVoteRepository{
		db:  db,
		log: logger.Repository("vote"),
	}
}

// tallyRow is one GROUP BY bucket
type tallyRow struct {
	EntityID uuid.UUID
	Value    vote.Value
	Count    int
}

func (r *PostgresVoteRepository) Upsert(ctx context.Context, v *vote.Vote) error {
	r.log.Debug("upserting vote", "entity_type", v.EntityType, "entity_id", v.EntityID, "voter_id", v.VoterID)

	if err := v.Validate(); err != nil {
		r.log.Error("vote validation failed", "error", err)
		return err
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}, {Name: "voter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(v).Error
	if err != nil {
		r.log.Error("failed to upsert vote", "entity_id", v.EntityID, "voter_id", v.VoterID, "error", err)
		return translate(err, "upsert vote", "vote", v.EntityID)
	}

	r.log.Info("vote recorded", "entity_type", v.EntityType, "entity_id", v.EntityID, "value", v.Value)
	return nil
}

func (r *PostgresVoteRepository) GetVoteCount(ctx context.Context, entityType vote.EntityType, entityID uuid.UUID) (vote.Tally, error) {
	tallies, err := r.TalliesFor(ctx, entityType, []uuid.UUID{entityID})
	if err != nil {
		return vote.Tally{}, err
	}
	return tallies[entityID], nil
}

// TalliesFor counts votes for many entities in one query. Entities without
// votes are absent from the map and read as a zero Tally.
func (r *PostgresVoteRepository) TalliesFor(ctx context.Context, entityType vote.EntityType, entityIDs []uuid.UUID) (map[uuid.UUID]vote.Tally, error) {
	tallies := make(map[uuid.UUID]vote.Tally, len(entityIDs))
	if len(entityIDs) == 0 {
		return tallies, nil
	}

	var rows []tallyRow
	err := r.db.WithContext(ctx).Model(&vote.Vote{}).
		Select("entity_id, value, COUNT(*) AS count").
		Where("entity_type = ? AND entity_id IN ?", entityType, entityIDs).
		Group("entity_id, value").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("failed to count votes", "entity_type", entityType, "entities", len(entityIDs), "error", err)
		return nil, translate(err, "count votes", "vote", entityType)
	}

	for _, row := range rows {
		t := tallies[row.EntityID]
		switch row.Value {
		case vote.Up:
			t.Up += row.Count
		case vote.Down:
			t.Down += row.Count
		}
		tallies[row.EntityID] = t
	}
	return tallies, nil
}

// GetUserVote returns nil without error when the voter has not voted
func (r *PostgresVoteRepository) GetUserVote(ctx context.Context, entityType vote.EntityType, entityID, voterID uuid.UUID) (*vote.Vote, error) {
	var v vote.Vote
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND voter_id = ?", entityType, entityID, voterID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("failed to get user vote", "entity_id", entityID, "voter_id", voterID, "error", err)
		return nil, translate(err, "get user vote", "vote", entityID)
	}
	return &v, nil
}

// ReceivedOnEnsembles sums votes on the owner's ensembles and on their défi participations
func (r *PostgresVoteRepository) ReceivedOnEnsembles(ctx context.Context, ownerID uuid.UUID) (vote.Tally, error) {
	db := r.db.WithContext(ctx)
	owned := db.Model(&ensemble.Ensemble{}).Select("id").Where("owner_id = ?", ownerID)
	entered := db.Model(&challenge.Participation{}).Select("id").Where("user_id = ?", ownerID)

	var rows []tallyRow
	err := db.Model(&vote.Vote{}).
		Select("value, COUNT(*) AS count").
		Where("(entity_type = ? AND entity_id IN (?)) OR (entity_type = ? AND entity_id IN (?))",
			vote.EntityEnsemble, owned, vote.EntityDefi, entered).
		Group("value").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("failed to count received votes", "owner_id", ownerID, "error", err)
		return vote.Tally{}, translate(err, "count received votes", "vote", ownerID)
	}

	var t vote.Tally
	for _, row := range rows {
		switch row.Value {
		case vote.Up:
			t.Up += row.Count
		case vote.Down:
			t.Down += row.Count
		}
	}
	return t, nil
}
