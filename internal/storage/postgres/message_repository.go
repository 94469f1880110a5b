package postgres

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/domain/message"
	"github.com/gravadigital/fring-api/internal/logger"
)

// PostgresMessageRepository implements MessageRepository using GORM
type PostgresMessageRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresMessageRepository creates a new PostgreSQL message repository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{
		db:  db,
		log: logger.Repository("message"),
	}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	if err := m.Validate(); err != nil {
		r.log.Error("message validation failed", "error", err)
		return err
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		r.log.Error("failed to create message", "sender_id", m.SenderID, "recipient_id", m.RecipientID, "error", err)
		return translate(err, "create message", "message", m.ID)
	}

	r.log.Debug("message stored", "id", m.ID, "sender_id", m.SenderID, "recipient_id", m.RecipientID)
	return nil
}

func (r *PostgresMessageRepository) Conversation(ctx context.Context, a, b uuid.UUID, params PaginationParams) (*PaginatedResult[*message.Message], error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&message.Message{}).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count conversation", "a", a, "b", b, "error", err)
		return nil, translate(err, "count messages", "message", nil)
	}

	messages := []*message.Message{}
	if err := query.Session(&gorm.Session{}).
		Order("sent_at DESC, id DESC").
		Scopes(params.Scope).
		Find(&messages).Error; err != nil {
		r.log.Error("failed to load conversation", "a", a, "b", b, "error", err)
		return nil, translate(err, "list messages", "message", nil)
	}
	slices.Reverse(messages)

	return NewPaginatedResult(messages, total, params), nil
}

// MarkRead marks every unread message from sender to recipient as read
func (r *PostgresMessageRepository) MarkRead(ctx context.Context, recipientID, senderID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&message.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND read_at IS NULL", recipientID, senderID).
		Update("read_at", time.Now().UTC())
	if result.Error != nil {
		r.log.Error("failed to mark messages read", "recipient_id", recipientID, "sender_id", senderID, "error", result.Error)
		return 0, translate(result.Error, "mark messages read", "message", nil)
	}
	return result.RowsAffected, nil
}

func (r *PostgresMessageRepository) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&message.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error; err != nil {
		return 0, translate(err, "count unread messages", "message", recipientID)
	}
	return count, nil
}
