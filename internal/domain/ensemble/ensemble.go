package ensemble

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/domain/vote"
	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
)

// Ensemble is an outfit made of exactly one top, one bottom and one footwear item
type Ensemble struct {
	ID        uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID    `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name      string       `json:"name" gorm:"not null"`
	Items     []OutfitItem `json:"items" gorm:"foreignKey:OutfitID"`
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Ensemble) TableName() string {
	return "outfits"
}

// BeforeCreate sets a UUID before creating the record
func (e *Ensemble) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Ensemble) GetID() uuid.UUID {
	return e.ID
}

func (e *Ensemble) GetOwnerID() uuid.UUID {
	return e.OwnerID
}

// OutfitItem associates a clothing item with a slot of an ensemble
type OutfitItem struct {
	OutfitID uuid.UUID         `json:"outfit_id" gorm:"type:uuid;primaryKey"`
	Slot     wardrobe.Category `json:"slot" gorm:"type:varchar(16);primaryKey"`
	ItemID   uuid.UUID         `json:"item_id" gorm:"type:uuid;not null;index"`
}

// TableName overrides the table name used by GORM
func (OutfitItem) TableName() string {
	return "outfit_items"
}

// Selection is the slot to item mapping chosen by the creator
type Selection map[wardrobe.Category]uuid.UUID

// Missing returns the slots left empty, in slot order
func (s Selection) Missing() []wardrobe.Category {
	var missing []wardrobe.Category
	for _, slot := range wardrobe.Slots {
		if s[slot] == uuid.Nil {
			missing = append(missing, slot)
		}
	}
	return missing
}

// ItemIDs returns the selected item ids in slot order
func (s Selection) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(wardrobe.Slots))
	for _, slot := range wardrobe.Slots {
		if id := s[slot]; id != uuid.Nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// NewEnsemble builds an ensemble from a complete selection
func NewEnsemble(ownerID uuid.UUID, name string, selection Selection) (*Ensemble, error) {
	e := &Ensemble{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}
	for _, slot := range wardrobe.Slots {
		e.Items = append(e.Items, OutfitItem{OutfitID: e.ID, Slot: slot, ItemID: selection[slot]})
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the owner, the name and that every slot is filled once
func (e *Ensemble) Validate() error {
	if e.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id is required")
	}
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}

	filled := make(map[wardrobe.Category]bool, len(e.Items))
	for _, it := range e.Items {
		if !it.Slot.IsSlot() {
			return fmt.Errorf("invalid slot: %s", it.Slot)
		}
		if it.ItemID == uuid.Nil {
			continue
		}
		if filled[it.Slot] {
			return fmt.Errorf("slot %s is filled twice", it.Slot)
		}
		filled[it.Slot] = true
	}
	for _, slot := range wardrobe.Slots {
		if !filled[slot] {
			return fmt.Errorf("slot %s is required", slot)
		}
	}
	return nil
}

// Detail is an ensemble expanded with its items and current vote tally
type Detail struct {
	*Ensemble
	Pieces map[wardrobe.Category]*wardrobe.Item `json:"pieces"`
	Tally  vote.Tally                           `json:"tally"`
	Score  int                                  `json:"score"`
}
