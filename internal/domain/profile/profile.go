package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the privilege level of a profile
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Theme is the persisted display preference of a profile
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ThemeFromString converts a request string to a Theme
func ThemeFromString(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	case ThemeSystem:
		return ThemeSystem, true
	default:
		return "", false
	}
}

// Profile mirrors an account of the auth provider; its ID is the token subject
type Profile struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username  string    `json:"username" gorm:"not null;index"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null;default:'user'"`
	Theme     Theme     `json:"theme" gorm:"type:varchar(16);not null;default:'system'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate sets a UUID before creating the record
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// NewProfile creates a regular profile for an authenticated subject.
// The username defaults to the local part of the email.
func NewProfile(id uuid.UUID, email, username string) *Profile {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}
	return &Profile{
		ID:        id,
		Username:  username,
		Email:     email,
		Role:      RoleUser,
		Theme:     ThemeSystem,
		CreatedAt: time.Now(),
	}
}

// IsAdmin reports whether the profile may use the admin surface
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Validate checks if the profile data is valid
func (p *Profile) Validate() error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if p.Username == "" {
		return fmt.Errorf("username is required")
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("email must have a valid format")
	}
	if p.Role != RoleUser && p.Role != RoleAdmin {
		return fmt.Errorf("invalid role: %s", p.Role)
	}
	return nil
}
