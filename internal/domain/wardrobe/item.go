package wardrobe

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Category is the outfit slot a clothing item fills
type Category string

const (
	CategoryTop      Category = "top"
	CategoryBottom   Category = "bottom"
	CategoryFootwear Category = "footwear"
	CategoryOther    Category = "other"
)

const maxNameLength = 120

// Slots lists the categories an ensemble must fill, in display order
var Slots = []Category{CategoryTop, CategoryBottom, CategoryFootwear}

// IsSlot reports whether c is one of the three ensemble slots
func (c Category) IsSlot() bool {
	return c == CategoryTop || c == CategoryBottom || c == CategoryFootwear
}

// CategoryFromString converts a request string to a Category
func CategoryFromString(s string) (Category, bool) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryTop, CategoryBottom, CategoryFootwear, CategoryOther:
		return c, true
	default:
		return "", false
	}
}

// Item is a clothing item in a user's wardrobe
type Item struct {
	ID                     uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID                uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name                   string         `json:"name" gorm:"not null"`
	Description            string         `json:"description"`
	Category               *Category      `json:"category,omitempty" gorm:"type:varchar(16)"`
	Color                  string         `json:"color"`
	Brand                  string         `json:"brand"`
	TemperatureSuitability string         `json:"temperature_suitability"`
	WeatherTags            pq.StringArray `json:"weather_tags" gorm:"type:text[]"`
	ImageKey               string         `json:"image_key"`
	CreatedAt              time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt              time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Item) TableName() string {
	return "clothing_items"
}

// BeforeCreate sets a UUID before creating the record
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// NewItem creates an uncategorized item for ownerID
func NewItem(ownerID uuid.UUID, name, description, color, brand string) *Item {
	return &Item{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Color:       strings.TrimSpace(color),
		Brand:       strings.TrimSpace(brand),
		CreatedAt:   time.Now(),
	}
}

// Validate checks if the item data is valid
func (i *Item) Validate() error {
	if i.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id is required")
	}
	if i.Name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(i.Name) > maxNameLength {
		return fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	if i.Category != nil {
		if _, ok := CategoryFromString(string(*i.Category)); !ok {
			return fmt.Errorf("invalid category: %s", *i.Category)
		}
	}
	return nil
}

// Slot returns the explicit category when one is set, otherwise the
// category inferred from the item's text.
func (i *Item) Slot() Category {
	if i.Category != nil {
		return *i.Category
	}
	return Classify(i.Name, i.Description)
}

func (i *Item) GetID() uuid.UUID {
	return i.ID
}

func (i *Item) GetOwnerID() uuid.UUID {
	return i.OwnerID
}
