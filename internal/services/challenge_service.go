package services

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/domain/activity"
	"github.com/gravadigital/fring-api/internal/domain/challenge"
	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/vote"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/validation"
)

// ChallengeService runs défis: creation, submissions and rankings
type ChallengeService struct {
	repos     postgres.RepositoryContainer
	votes     *VoteService
	clock     Clock
	validator validation.ChallengeValidation
	log       *log.Logger
}

// NewChallengeService creates a new défi service
func NewChallengeService(repos postgres.RepositoryContainer, votes *VoteService, clock Clock) *ChallengeService {
	return &ChallengeService{
		repos:     repos,
		votes:     votes,
		clock:     clock,
		validator: validation.ChallengeValidation{},
		log:       logger.Service("challenge"),
	}
}

// CreateChallengeRequest represents a request to open a défi
type CreateChallengeRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Theme       string    `json:"theme"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
}

// SubmitRequest names the ensemble entered in a défi
type SubmitRequest struct {
	EnsembleID string `json:"ensemble_id" binding:"required"`
}

// Create opens a new défi authored by authorID
func (s *ChallengeService) Create(ctx context.Context, authorID uuid.UUID, req CreateChallengeRequest) (*challenge.View, error) {
	if err := s.validator.ValidateTitle(req.Title); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateDescription(req.Description); err != nil {
		return nil, err
	}
	if err := validation.ValidateDateRange(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}

	c := challenge.NewChallenge(
		strings.TrimSpace(req.Title),
		strings.TrimSpace(req.Description),
		strings.TrimSpace(req.Theme),
		authorID,
		req.StartsAt.UTC(),
		req.EndsAt.UTC(),
	)
	if err := c.Validate(); err != nil {
		return nil, validation.Invalid(err)
	}
	if err := s.repos.Challenges().Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info("Défi created", "challenge_id", c.ID, "starts_at", c.StartsAt, "ends_at", c.EndsAt)
	record(ctx, s.repos, s.log, activity.NewEntry(authorID, activity.ActionChallengeCreated, "defi", c.ID, c.Title))
	view := challenge.NewView(c, s.clock())
	return &view, nil
}

// List returns every défi with its status at call time
func (s *ChallengeService) List(ctx context.Context) ([]challenge.View, error) {
	challenges, err := s.repos.Challenges().List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	views := make([]challenge.View, 0, len(challenges))
	for _, c := range challenges {
		views = append(views, challenge.NewView(c, now))
	}
	return views, nil
}

// Get returns one défi with its status
func (s *ChallengeService) Get(ctx context.Context, id uuid.UUID) (*challenge.View, error) {
	c, err := s.repos.Challenges().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := challenge.NewView(c, s.clock())
	return &view, nil
}

// Submit enters one of userID's ensembles in an active défi. Each user
// submits at most once per défi.
func (s *ChallengeService) Submit(ctx context.Context, userID, challengeID uuid.UUID, req SubmitRequest) (*challenge.Participation, error) {
	ensembleID, err := validation.ParseUUID(req.EnsembleID, "ensemble_id")
	if err != nil {
		return nil, err
	}

	c, err := s.repos.Challenges().GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	if !c.IsActive(now) {
		return nil, common.NewConflictError("défi is " + c.StatusAt(now).String() + ", submissions are closed")
	}

	e, err := s.repos.Ensembles().GetByID(ctx, ensembleID)
	if err != nil {
		return nil, err
	}
	if e.OwnerID != userID {
		return nil, common.NewForbiddenError("you can only submit your own ensembles")
	}

	p, err := challenge.NewParticipation(challengeID, ensembleID, userID, now.UTC())
	if err != nil {
		return nil, validation.Invalid(err)
	}
	if err := s.repos.Challenges().CreateParticipation(ctx, p); err != nil {
		if common.IsKind(err, common.KindConflict) {
			return nil, common.NewConflictError("you already participate in this défi")
		}
		return nil, err
	}

	s.log.Info("Participation submitted", "challenge_id", challengeID, "user_id", userID, "ensemble_id", ensembleID)
	record(ctx, s.repos, s.log, activity.NewEntry(userID, activity.ActionParticipationJoined, "participation", p.ID, c.Title))
	return p, nil
}

// Participations lists the submissions of a défi with their current tallies,
// in submission order
func (s *ChallengeService) Participations(ctx context.Context, challengeID uuid.UUID) ([]*challenge.Participation, error) {
	if _, err := s.repos.Challenges().GetByID(ctx, challengeID); err != nil {
		return nil, err
	}
	participations, err := s.repos.Challenges().ListParticipations(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(participations))
	for _, p := range participations {
		ids = append(ids, p.ID)
	}
	tallies := s.votes.TalliesFor(ctx, vote.EntityDefi, ids)
	for _, p := range participations {
		p.ApplyTally(tallies[p.ID])
	}
	return participations, nil
}

// Ranking returns the top submissions of a défi by score
func (s *ChallengeService) Ranking(ctx context.Context, challengeID uuid.UUID) ([]*challenge.Participation, error) {
	participations, err := s.Participations(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	return challenge.Top(participations), nil
}
