package vote

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntityType names what a vote is cast on
type EntityType string

const (
	EntityEnsemble EntityType = "ensemble"
	// EntityDefi votes target a participation inside a défi
	EntityDefi EntityType = "defi"
)

// Valid reports whether the entity type is known
func (t EntityType) Valid() bool {
	return t == EntityEnsemble || t == EntityDefi
}

// Value is the direction of a vote
type Value string

const (
	Up   Value = "up"
	Down Value = "down"
)

// ValueFromString converts a request string to a Value
func ValueFromString(s string) (Value, bool) {
	switch Value(s) {
	case Up:
		return Up, true
	case Down:
		return Down, true
	default:
		return "", false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (v *Value) Scan(value any) error {
	var str string
	switch raw := value.(type) {
	case string:
		str = raw
	case []byte:
		str = string(raw)
	default:
		return fmt.Errorf("cannot scan %T into vote value", value)
	}

	parsed, ok := ValueFromString(str)
	if !ok {
		return fmt.Errorf("invalid vote value: %s", str)
	}
	*v = parsed
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (v Value) Value() (driver.Value, error) {
	return string(v), nil
}

// Vote is one voter's single opinion on one entity
type Vote struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	EntityType EntityType `json:"entity_type" gorm:"type:varchar(20);not null;uniqueIndex:idx_votes_unique"`
	EntityID   uuid.UUID  `json:"entity_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_unique"`
	VoterID    uuid.UUID  `json:"voter_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_unique"`
	Value      Value      `json:"value" gorm:"type:varchar(8);not null"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name
func (Vote) TableName() string {
	return "votes"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// NewVote builds a validated vote
func NewVote(entityType EntityType, entityID, voterID uuid.UUID, value Value) (*Vote, error) {
	v := &Vote{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		VoterID:    voterID,
		Value:      value,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate checks if the vote data is valid
func (v *Vote) Validate() error {
	if !v.EntityType.Valid() {
		return fmt.Errorf("entity_type must be ensemble or defi")
	}
	if v.EntityID == uuid.Nil {
		return fmt.Errorf("entity_id is required")
	}
	if v.VoterID == uuid.Nil {
		return fmt.Errorf("voter_id is required")
	}
	if v.Value != Up && v.Value != Down {
		return fmt.Errorf("value must be up or down")
	}
	return nil
}

// Tally holds the aggregated counts for one entity
type Tally struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}

// Score is up minus down
func (t Tally) Score() int {
	return t.Up - t.Down
}

// Total is the number of distinct voters counted
func (t Tally) Total() int {
	return t.Up + t.Down
}

// Aggregate counts votes keeping only the last vote per voter, so replayed
// submissions never inflate the tally.
func Aggregate(votes []*Vote) Tally {
	latest := make(map[uuid.UUID]Value, len(votes))
	for _, v := range votes {
		if v == nil {
			continue
		}
		latest[v.VoterID] = v.Value
	}

	var t Tally
	for _, value := range latest {
		switch value {
		case Up:
			t.Up++
		case Down:
			t.Down++
		}
	}
	return t
}
