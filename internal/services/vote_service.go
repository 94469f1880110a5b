package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/domain/activity"
	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/vote"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/validation"
)

// VoteService aggregates and records votes on ensembles and défi participations
type VoteService struct {
	repos postgres.RepositoryContainer
	clock Clock
	log   *log.Logger
}

// NewVoteService creates a new vote service
func NewVoteService(repos postgres.RepositoryContainer, clock Clock) *VoteService {
	return &VoteService{
		repos: repos,
		clock: clock,
		log:   logger.Service("vote"),
	}
}

// Summary is the tally of an entity plus the caller's own vote, if any
type Summary struct {
	Tally  vote.Tally  `json:"tally"`
	Score  int         `json:"score"`
	MyVote *vote.Value `json:"my_vote"`
}

// VoteRequest is the body of a vote submission
type VoteRequest struct {
	Value string `json:"value" binding:"required"`
}

// GetVoteCount returns the tally of an entity. Retrieval failures are logged
// and reported as an empty tally.
func (s *VoteService) GetVoteCount(ctx context.Context, entityType vote.EntityType, entityID uuid.UUID) vote.Tally {
	tally, err := s.repos.Votes().GetVoteCount(ctx, entityType, entityID)
	if err != nil {
		s.log.Warn("Failed to count votes", "entity_type", entityType, "entity_id", entityID, "error", err)
		return vote.Tally{}
	}
	return tally
}

// TalliesFor returns the tallies of several entities; failures yield an empty map
func (s *VoteService) TalliesFor(ctx context.Context, entityType vote.EntityType, entityIDs []uuid.UUID) map[uuid.UUID]vote.Tally {
	tallies, err := s.repos.Votes().TalliesFor(ctx, entityType, entityIDs)
	if err != nil {
		s.log.Warn("Failed to count votes", "entity_type", entityType, "entities", len(entityIDs), "error", err)
		return map[uuid.UUID]vote.Tally{}
	}
	return tallies
}

// Summary returns the tally of an entity together with voterID's vote
func (s *VoteService) Summary(ctx context.Context, entityType vote.EntityType, entityID, voterID uuid.UUID) Summary {
	tally := s.GetVoteCount(ctx, entityType, entityID)
	summary := Summary{Tally: tally, Score: tally.Score()}

	mine, err := s.repos.Votes().GetUserVote(ctx, entityType, entityID, voterID)
	if err != nil {
		s.log.Warn("Failed to load user vote", "entity_id", entityID, "voter_id", voterID, "error", err)
	} else if mine != nil {
		summary.MyVote = &mine.Value
	}
	return summary
}

// EnsembleSummary returns the tally of an ensemble viewerID is allowed to see
func (s *VoteService) EnsembleSummary(ctx context.Context, viewerID, ensembleID uuid.UUID) (Summary, error) {
	if err := s.visibleEnsemble(ctx, viewerID, ensembleID); err != nil {
		return Summary{}, err
	}
	return s.Summary(ctx, vote.EntityEnsemble, ensembleID, viewerID), nil
}

// VoteEnsemble records voterID's vote on an ensemble they are allowed to see
func (s *VoteService) VoteEnsemble(ctx context.Context, voterID, ensembleID uuid.UUID, req VoteRequest) (Summary, error) {
	if err := s.visibleEnsemble(ctx, voterID, ensembleID); err != nil {
		return Summary{}, err
	}
	return s.submit(ctx, vote.EntityEnsemble, ensembleID, voterID, req.Value)
}

func (s *VoteService) visibleEnsemble(ctx context.Context, viewerID, ensembleID uuid.UUID) error {
	e, err := s.repos.Ensembles().GetByID(ctx, ensembleID)
	if err != nil {
		return err
	}
	return requireEnsembleVisible(ctx, s.repos, viewerID, e)
}

// VoteParticipation records voterID's vote on a défi submission. The défi must
// be active and nobody votes on their own submission.
func (s *VoteService) VoteParticipation(ctx context.Context, voterID, participationID uuid.UUID, req VoteRequest) (Summary, error) {
	p, err := s.repos.Challenges().GetParticipation(ctx, participationID)
	if err != nil {
		return Summary{}, err
	}
	c, err := s.repos.Challenges().GetByID(ctx, p.ChallengeID)
	if err != nil {
		return Summary{}, err
	}
	if !c.IsActive(s.clock()) {
		return Summary{}, common.NewConflictError("votes are only accepted while the défi is active")
	}
	if p.UserID == voterID {
		return Summary{}, common.NewForbiddenError("you cannot vote on your own submission")
	}
	return s.submit(ctx, vote.EntityDefi, participationID, voterID, req.Value)
}

func (s *VoteService) submit(ctx context.Context, entityType vote.EntityType, entityID, voterID uuid.UUID, raw string) (Summary, error) {
	value, ok := vote.ValueFromString(raw)
	if !ok {
		return Summary{}, common.NewValidationError("value must be up or down")
	}
	v, err := vote.NewVote(entityType, entityID, voterID, value)
	if err != nil {
		return Summary{}, validation.Invalid(err)
	}
	if err := s.repos.Votes().Upsert(ctx, v); err != nil {
		s.log.Error("Failed to submit vote", "entity_type", entityType, "entity_id", entityID, "error", err)
		return Summary{}, err
	}

	s.log.Debug("Vote submitted", "entity_type", entityType, "entity_id", entityID, "voter_id", voterID, "value", value)
	record(ctx, s.repos, s.log, activity.NewEntry(voterID, activity.ActionVoteCast, string(entityType), entityID, string(value)))
	return s.Summary(ctx, entityType, entityID, voterID), nil
}
