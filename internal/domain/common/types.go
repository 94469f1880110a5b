package common

import "github.com/google/uuid"

// SharedProfile represents the minimal profile structure used across domains
type SharedProfile struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username string    `json:"username"`
}

// TableName points the shared projection at the profiles table
func (SharedProfile) TableName() string {
	return "profiles"
}

// SharedItem represents the minimal clothing item structure used across domains
type SharedItem struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID  uuid.UUID `json:"owner_id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	ImageKey string    `json:"image_key"`
}

// TableName points the shared projection at the clothing_items table
func (SharedItem) TableName() string {
	return "clothing_items"
}

// OwnedEntity is implemented by rows that belong to a single profile
type OwnedEntity interface {
	GetID() uuid.UUID
	GetOwnerID() uuid.UUID
}
