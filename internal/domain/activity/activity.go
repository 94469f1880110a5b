package activity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action names a mutation recorded in the activity log
type Action string

const (
	ActionItemCreated         Action = "item.created"
	ActionItemUpdated         Action = "item.updated"
	ActionItemDeleted         Action = "item.deleted"
	ActionEnsembleCreated     Action = "ensemble.created"
	ActionEnsembleDeleted     Action = "ensemble.deleted"
	ActionChallengeCreated    Action = "challenge.created"
	ActionParticipationJoined Action = "participation.created"
	ActionVoteCast            Action = "vote.cast"
	ActionFriendRequested     Action = "friend.requested"
	ActionFriendAccepted      Action = "friend.accepted"
	ActionFriendRemoved       Action = "friend.removed"
	ActionUserDeleted         Action = "user.deleted"
)

// Entry is one row of the admin activity log
type Entry struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ActorID    uuid.UUID `json:"actor_id" gorm:"type:uuid;not null;index"`
	Action     Action    `json:"action" gorm:"type:varchar(48);not null"`
	EntityType string    `json:"entity_type" gorm:"type:varchar(32)"`
	EntityID   uuid.UUID `json:"entity_id" gorm:"type:uuid"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName overrides the table name used by GORM
func (Entry) TableName() string {
	return "activity_logs"
}

// BeforeCreate sets a UUID before creating the record
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewEntry records actorID performing action on an entity
func NewEntry(actorID uuid.UUID, action Action, entityType string, entityID uuid.UUID, detail string) *Entry {
	return &Entry{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  time.Now(),
	}
}
