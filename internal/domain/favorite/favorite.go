package favorite

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TargetType names what a favorite points at
type TargetType string

const (
	TargetUser     TargetType = "user"
	TargetItem     TargetType = "item"
	TargetEnsemble TargetType = "ensemble"
)

// TargetTypeFromString converts a request string to a TargetType
func TargetTypeFromString(s string) (TargetType, bool) {
	switch t := TargetType(s); t {
	case TargetUser, TargetItem, TargetEnsemble:
		return t, true
	default:
		return "", false
	}
}

// Favorite is a bookmark of a user, clothing item or ensemble
type Favorite struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID    uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_unique"`
	TargetType TargetType `json:"target_type" gorm:"type:varchar(16);not null;uniqueIndex:idx_favorites_unique"`
	TargetID   uuid.UUID  `json:"target_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_unique"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Favorite) TableName() string {
	return "favorites"
}

// BeforeCreate sets a UUID before creating the record
func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// NewFavorite builds a validated favorite
func NewFavorite(ownerID uuid.UUID, targetType TargetType, targetID uuid.UUID) (*Favorite, error) {
	f := &Favorite{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		TargetType: targetType,
		TargetID:   targetID,
		CreatedAt:  time.Now(),
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks if the favorite data is valid
func (f *Favorite) Validate() error {
	if f.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id is required")
	}
	if _, ok := TargetTypeFromString(string(f.TargetType)); !ok {
		return fmt.Errorf("target_type must be user, item or ensemble")
	}
	if f.TargetID == uuid.Nil {
		return fmt.Errorf("target_id is required")
	}
	if f.TargetType == TargetUser && f.TargetID == f.OwnerID {
		return fmt.Errorf("cannot favorite yourself")
	}
	return nil
}

func (f *Favorite) GetID() uuid.UUID {
	return f.ID
}

func (f *Favorite) GetOwnerID() uuid.UUID {
	return f.OwnerID
}
