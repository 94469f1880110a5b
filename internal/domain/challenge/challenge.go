package challenge

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Challenge is a time-boxed défi in which users submit ensembles for peer voting
type Challenge struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Theme       string    `json:"theme"`
	AuthorID    uuid.UUID `json:"author_id" gorm:"type:uuid;not null"`
	StartsAt    time.Time `json:"starts_at" gorm:"not null;index"`
	EndsAt      time.Time `json:"ends_at" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Challenge) TableName() string {
	return "challenges"
}

// BeforeCreate sets a UUID before creating the record
func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NewChallenge creates a new défi with the given window
func NewChallenge(title, description, theme string, authorID uuid.UUID, startsAt, endsAt time.Time) *Challenge {
	return &Challenge{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Theme:       theme,
		AuthorID:    authorID,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		CreatedAt:   time.Now(),
	}
}

// Validate checks if the challenge data is valid
func (c *Challenge) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("title is required")
	}
	if c.AuthorID == uuid.Nil {
		return fmt.Errorf("author_id is required")
	}
	if c.StartsAt.IsZero() || c.EndsAt.IsZero() {
		return fmt.Errorf("starts_at and ends_at are required")
	}
	if !c.EndsAt.After(c.StartsAt) {
		return fmt.Errorf("ends_at must be after starts_at")
	}
	return nil
}

// StatusAt derives the status of the défi at the given instant.
// The window is half-open: a défi is active from StartsAt up to, not including, EndsAt.
func (c *Challenge) StatusAt(now time.Time) Status {
	switch {
	case now.Before(c.StartsAt):
		return StatusUpcoming
	case now.Before(c.EndsAt):
		return StatusActive
	default:
		return StatusEnded
	}
}

// IsActive reports whether submissions and votes are accepted at now
func (c *Challenge) IsActive(now time.Time) bool {
	return c.StatusAt(now) == StatusActive
}

// Status is the clock-derived lifecycle state of a défi
type Status byte

const (
	StatusUpcoming Status = iota
	StatusActive
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusUpcoming:
		return "upcoming"
	case StatusActive:
		return "active"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// View is a challenge together with its status at read time
type View struct {
	*Challenge
	Status Status `json:"status"`
}

// NewView snapshots the status of c at now
func NewView(c *Challenge, now time.Time) View {
	return View{Challenge: c, Status: c.StatusAt(now)}
}
