package challenge

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/domain/vote"
)

// TopN is the number of entries shown in a défi ranking
const TopN = 5

// Participation is a user's ensemble submission to a défi.
// Tally and Score are derived from current votes and never persisted.
type Participation struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ChallengeID uuid.UUID  `json:"challenge_id" gorm:"type:uuid;not null;uniqueIndex:idx_participations_unique"`
	EnsembleID  uuid.UUID  `json:"ensemble_id" gorm:"type:uuid;not null"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_participations_unique"`
	SubmittedAt time.Time  `json:"submitted_at" gorm:"not null"`
	Tally       vote.Tally `json:"tally" gorm:"-"`
	Score       int        `json:"score" gorm:"-"`
}

// TableName overrides the table name used by GORM
func (Participation) TableName() string {
	return "participations"
}

// BeforeCreate sets a UUID before creating the record
func (p *Participation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// NewParticipation creates a submission stamped with submittedAt
func NewParticipation(challengeID, ensembleID, userID uuid.UUID, submittedAt time.Time) (*Participation, error) {
	p := &Participation{
		ID:          uuid.New(),
		ChallengeID: challengeID,
		EnsembleID:  ensembleID,
		UserID:      userID,
		SubmittedAt: submittedAt,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the participation data is valid
func (p *Participation) Validate() error {
	if p.ChallengeID == uuid.Nil {
		return fmt.Errorf("challenge_id is required")
	}
	if p.EnsembleID == uuid.Nil {
		return fmt.Errorf("ensemble_id is required")
	}
	if p.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	return nil
}

// ApplyTally sets the derived tally and score
func (p *Participation) ApplyTally(t vote.Tally) {
	p.Tally = t
	p.Score = t.Score()
}

// Rank returns a new slice ordered by score descending. Equal scores put the
// earlier submission first, then the smaller id. The input is not modified.
func Rank(participations []*Participation) []*Participation {
	ranked := make([]*Participation, 0, len(participations))
	for _, p := range participations {
		if p != nil {
			ranked = append(ranked, p)
		}
	}

	slices.SortStableFunc(ranked, func(a, b *Participation) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := a.SubmittedAt.Compare(b.SubmittedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return ranked
}

// Top ranks participations and keeps at most TopN entries
func Top(participations []*Participation) []*Participation {
	ranked := Rank(participations)
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	return ranked
}
