package message

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxBodyLength is the longest accepted message body, in runes
const MaxBodyLength = 2000

// Message is a direct message between two friends
type Message struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID    uuid.UUID  `json:"sender_id" gorm:"type:uuid;not null;index:idx_messages_pair"`
	RecipientID uuid.UUID  `json:"recipient_id" gorm:"type:uuid;not null;index:idx_messages_pair;index"`
	Body        string     `json:"body" gorm:"type:text;not null"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	SentAt      time.Time  `json:"sent_at" gorm:"not null;index"`
}

// TableName overrides the table name used by GORM
func (Message) TableName() string {
	return "messages"
}

// BeforeCreate sets a UUID before creating the record
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// NewMessage builds a validated message with a trimmed body
func NewMessage(senderID, recipientID uuid.UUID, body string) (*Message, error) {
	m := &Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        strings.TrimSpace(body),
		SentAt:      time.Now(),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks if the message data is valid
func (m *Message) Validate() error {
	if m.SenderID == uuid.Nil || m.RecipientID == uuid.Nil {
		return fmt.Errorf("sender and recipient are required")
	}
	if m.SenderID == m.RecipientID {
		return fmt.Errorf("cannot send a message to yourself")
	}
	if m.Body == "" {
		return fmt.Errorf("body is required")
	}
	if utf8.RuneCountInString(m.Body) > MaxBodyLength {
		return fmt.Errorf("body must be at most %d characters", MaxBodyLength)
	}
	return nil
}
